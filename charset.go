package transcode

import (
	"encoding/binary"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Canonical names of the builtin charsets.
const (
	UTF8    = "utf-8"
	ASCII   = "ascii"
	Latin1  = "latin-1"
	UTF16   = "utf-16"
	UTF16LE = "utf-16-le"
	UTF16BE = "utf-16-be"
	UTF32   = "utf-32"
	UTF32LE = "utf-32-le"
	UTF32BE = "utf-32-be"
)

// Charset is a named transformation between UTF-8 text and an encoded byte form.
//
// Both transformers must be strict. They stop at the first unit they cannot
// convert and return a non-nil error with nSrc pointing at that unit, so the
// caller can apply an error policy and resume after it.
type Charset interface {
	// Name returns the canonical charset name (e.g., "latin-1").
	Name() string

	// NewEncoder returns a transformer from UTF-8 to the charset.
	NewEncoder() transform.Transformer

	// NewDecoder returns a transformer from the charset to UTF-8.
	NewDecoder() transform.Transformer
}

var (
	errOutOfRange    = errors.New("ordinal not in range(128)")
	errUndefinedByte = errors.New("byte has no mapping in charset")
)

// utf8Charset validates in both directions; Go text is already UTF-8.
type utf8Charset struct{}

func (utf8Charset) Name() string                      { return UTF8 }
func (utf8Charset) MIMEName() string                  { return "utf-8" }
func (utf8Charset) NewEncoder() transform.Transformer { return encoding.UTF8Validator }
func (utf8Charset) NewDecoder() transform.Transformer { return encoding.UTF8Validator }

// invalidSpan returns the length of the maximal subpart at the start of b:
// the longest prefix that could begin a well-formed sequence, or one byte.
func (utf8Charset) invalidSpan(b []byte) int {
	lo, hi := byte(0x80), byte(0xbf)
	need := 0
	switch c := b[0]; {
	case c >= 0xc2 && c <= 0xdf:
		need = 1
	case c == 0xe0:
		need, lo = 2, 0xa0
	case c == 0xed:
		need, hi = 2, 0x9f
	case c >= 0xe1 && c <= 0xef:
		need = 2
	case c == 0xf0:
		need, lo = 3, 0x90
	case c == 0xf4:
		need, hi = 3, 0x8f
	case c >= 0xf1 && c <= 0xf3:
		need = 3
	default:
		return 1
	}
	n := 1
	for n <= need && n < len(b) && b[n] >= lo && b[n] <= hi {
		lo, hi = 0x80, 0xbf
		n++
	}
	return n
}

// asciiCharset accepts only the 7-bit range.
type asciiCharset struct{}

func (asciiCharset) Name() string                      { return ASCII }
func (asciiCharset) MIMEName() string                  { return "us-ascii" }
func (asciiCharset) NewEncoder() transform.Transformer { return asciiTransformer{encode: true} }
func (asciiCharset) NewDecoder() transform.Transformer { return asciiTransformer{} }

type asciiTransformer struct {
	transform.NopResetter
	encode bool
}

func (t asciiTransformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		c := src[nSrc]
		if c >= utf8.RuneSelf {
			if t.encode && !atEOF && !utf8.FullRune(src[nSrc:]) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			return nDst, nSrc, errOutOfRange
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = c
		nDst++
		nSrc++
	}
	return nDst, nSrc, nil
}

// charmapCharset adapts a single-byte charmap from golang.org/x/text.
type charmapCharset struct {
	name string
	mime string
	cm   *charmap.Charmap
}

// FromCharmap returns a Charset backed by a golang.org/x/text charmap.
// Bytes the charmap leaves undefined are reported as decode errors.
func FromCharmap(name string, cm *charmap.Charmap) Charset {
	return &charmapCharset{name: name, mime: name, cm: cm}
}

func (c *charmapCharset) Name() string     { return c.name }
func (c *charmapCharset) MIMEName() string { return c.mime }

// NewEncoder returns the charmap's own encoder, which already stops on
// runes outside the repertoire.
func (c *charmapCharset) NewEncoder() transform.Transformer {
	return c.cm.NewEncoder()
}

func (c *charmapCharset) NewDecoder() transform.Transformer {
	return charmapDecoder{cm: c.cm}
}

type charmapDecoder struct {
	transform.NopResetter
	cm *charmap.Charmap
}

func (d charmapDecoder) Transform(dst, src []byte, _ bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r := d.cm.DecodeByte(src[nSrc])
		if r == utf8.RuneError {
			return nDst, nSrc, errUndefinedByte
		}
		if nDst+utf8.RuneLen(r) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc++
	}
	return nDst, nSrc, nil
}

// mimeName returns the name to advertise in a Content-Type charset parameter.
func mimeName(cs Charset) string {
	if m, ok := cs.(interface{ MIMEName() string }); ok {
		return m.MIMEName()
	}
	return cs.Name()
}

type builtin struct {
	charset Charset
	aliases []string
}

// builtinCharsets returns the charsets every registry starts with.
func builtinCharsets() []builtin {
	return []builtin{
		{utf8Charset{}, []string{"utf8", "u8", "utf", "cp65001"}},
		{asciiCharset{}, []string{"us-ascii", "646", "ansi-x3.4-1968", "iso646-us", "csascii", "us"}},
		{
			&charmapCharset{name: Latin1, mime: "iso-8859-1", cm: charmap.ISO8859_1},
			[]string{"latin1", "iso-8859-1", "iso8859-1", "8859", "cp819", "ibm819", "l1", "iso-ir-100", "latin"},
		},
		{&unicodeCharset{name: UTF16, mime: "utf-16", width: 2, order: binary.LittleEndian, bom: true}, []string{"utf16", "u16"}},
		{&unicodeCharset{name: UTF16LE, mime: "utf-16le", width: 2, order: binary.LittleEndian}, []string{"utf-16le", "utf16le", "unicodelittleunmarked"}},
		{&unicodeCharset{name: UTF16BE, mime: "utf-16be", width: 2, order: binary.BigEndian}, []string{"utf-16be", "utf16be", "unicodebigunmarked"}},
		{&unicodeCharset{name: UTF32, mime: "utf-32", width: 4, order: binary.LittleEndian, bom: true}, []string{"utf32", "u32"}},
		{&unicodeCharset{name: UTF32LE, mime: "utf-32le", width: 4, order: binary.LittleEndian}, []string{"utf-32le", "utf32le"}},
		{&unicodeCharset{name: UTF32BE, mime: "utf-32be", width: 4, order: binary.BigEndian}, []string{"utf-32be", "utf32be"}},
	}
}
