package transcode

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// minFree is the spare capacity kept in the output buffer before each
// Transform call; it fits the widest unit any builtin transformer writes.
const minFree = 16

// appendTransform runs t over src, appending its output to dst, until src
// is consumed or t stops with an error other than transform.ErrShortDst.
// It returns the extended buffer and the number of src bytes consumed.
//
// The same transformer is reused across calls, so stateful transformers
// (byte order marks) see one continuous stream.
func appendTransform(t transform.Transformer, dst, src []byte) ([]byte, int, error) {
	consumed := 0
	for {
		if cap(dst)-len(dst) < minFree {
			dst = slices.Grow(dst, max(minFree, len(dst)))
		}
		nDst, nSrc, err := t.Transform(dst[len(dst):cap(dst)], src[consumed:], true)
		dst = dst[:len(dst)+nDst]
		consumed += nSrc
		if err != transform.ErrShortDst {
			return dst, consumed, err
		}
		if nDst == 0 && nSrc == 0 {
			dst = slices.Grow(dst, max(minFree, len(dst)))
		}
	}
}

// encodeText runs the charset encoder over text, resolving each
// unrepresentable code point with policy. It returns the encoded bytes and
// the number of code points the policy resolved.
func encodeText(cs Charset, text string, policy ErrorPolicy) ([]byte, int, error) {
	src := []byte(text)
	enc := cs.NewEncoder()
	enc.Reset()
	out := make([]byte, 0, len(src)+minFree)

	handled := 0
	runes := 0 // code points consumed before pos
	pos := 0
	for {
		var (
			n   int
			err error
		)
		out, n, err = appendTransform(enc, out, src[pos:])
		if err == nil {
			return out, handled, nil
		}
		runes += utf8.RuneCount(src[pos : pos+n])
		pos += n
		if pos >= len(src) {
			return nil, handled, newConversionError(ErrEncode, cs.Name(), runes, "end of input", err)
		}

		r, size := utf8.DecodeRune(src[pos:])
		if policy == PolicyStrict {
			return nil, handled, newConversionError(ErrEncode, cs.Name(), runes, describeRune(r, size, src[pos]), err)
		}

		repl, subErr := replacement(policy, r, size, src[pos])
		if subErr == nil && repl != "" {
			out, _, subErr = appendTransform(enc, out, []byte(repl))
		}
		if subErr != nil {
			return nil, handled, newConversionError(ErrEncode, cs.Name(), runes, describeRune(r, size, src[pos]), subErr)
		}
		handled++
		runes++
		pos += size
	}
}

// replacement returns the policy's substitute text for a code point the
// charset cannot represent. A one-byte invalid UTF-8 sequence arrives as
// utf8.RuneError with size 1 and its raw byte in b.
func replacement(policy ErrorPolicy, r rune, size int, b byte) (string, error) {
	switch policy {
	case PolicyIgnore:
		return "", nil
	case PolicyReplace:
		return "?", nil
	case PolicyXMLCharRefReplace:
		return fmt.Sprintf("&#%d;", r), nil
	case PolicyBackslashReplace:
		switch {
		case r == utf8.RuneError && size == 1:
			return fmt.Sprintf(`\x%02x`, b), nil
		case r < 0x100:
			return fmt.Sprintf(`\x%02x`, r), nil
		case r < 0x10000:
			return fmt.Sprintf(`\u%04x`, r), nil
		default:
			return fmt.Sprintf(`\U%08x`, r), nil
		}
	}
	return "", fmt.Errorf("policy %q cannot substitute", policy)
}

// decodeBytes runs the charset decoder over data, resolving each invalid
// byte span with policy. It returns the text and the number of spans the
// policy resolved.
func decodeBytes(cs Charset, data []byte, policy ErrorPolicy) (string, int, error) {
	dec := cs.NewDecoder()
	dec.Reset()
	out := make([]byte, 0, len(data)+minFree)

	handled := 0
	pos := 0
	for {
		var (
			n   int
			err error
		)
		out, n, err = appendTransform(dec, out, data[pos:])
		if err == nil {
			return string(out), handled, nil
		}
		pos += n
		if pos >= len(data) {
			return "", handled, newConversionError(ErrDecode, cs.Name(), pos, "end of input", err)
		}

		if policy == PolicyStrict {
			return "", handled, newConversionError(ErrDecode, cs.Name(), pos, fmt.Sprintf("0x%02x", data[pos]), err)
		}
		if policy == PolicyReplace {
			out = utf8.AppendRune(out, utf8.RuneError)
		}
		handled++
		pos += invalidSpan(cs, data[pos:])
	}
}

// spanner is implemented by charsets whose invalid units span more than
// one byte.
type spanner interface {
	invalidSpan(b []byte) int
}

// invalidSpan returns how many bytes at the start of b form the invalid
// unit the decoder stopped on. It is always at least one.
func invalidSpan(cs Charset, b []byte) int {
	if s, ok := cs.(spanner); ok {
		if n := s.invalidSpan(b); n > 0 {
			return min(n, len(b))
		}
	}
	return 1
}

// describeRune formats the offending unit for error messages.
func describeRune(r rune, size int, b byte) string {
	if r == utf8.RuneError && size == 1 {
		return fmt.Sprintf("invalid byte 0x%02x", b)
	}
	return fmt.Sprintf("%U", r)
}
