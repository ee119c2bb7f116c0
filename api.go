// Package transcode converts text to bytes and bytes to text for named charsets.
//
// Transcoding tables come from golang.org/x/text. This package adds strict
// transformers, error policies, and a typed error taxonomy around them.
//
// # Basic Usage
//
//	data, err := transcode.Encode(ctx, "你好世界", "utf-8", transcode.PolicyStrict)
//	text, err := transcode.Decode(ctx, data, "utf-8", transcode.PolicyStrict)
//
// Empty codec and policy arguments select utf-8 and strict.
//
// # Charsets
//
// Builtin charsets are utf-8, ascii, latin-1, and the UTF-16 and UTF-32
// forms (utf-16 and utf-32 with a byte order mark, plus the -le and -be
// variants), each with common aliases ("utf8", "us-ascii", "iso-8859-1", ...).
// Other single-byte charsets are resolved through the IANA index
// ("windows-1252", "koi8-r", "ibm437").
// Custom charsets can be added with Register.
//
// # Error Policies
//
//   - strict: fail with ErrEncode or ErrDecode
//   - ignore: drop the offending unit
//   - replace: substitute "?" (encode) or U+FFFD (decode)
//   - xml-char-ref-replace: substitute &#N; (encode only)
//   - backslash-replace: substitute \xNN, \uNNNN or \UNNNNNNNN (encode only)
//
// On decode the offending unit is the maximal invalid subsequence, so a
// truncated UTF-8 sequence yields a single U+FFFD. Policy names are matched
// like ParsePolicy does, so "xmlcharrefreplace" and "STRICT" are accepted.
//
// # Errors
//
// Failures wrap one of the sentinels ErrInvalidType, ErrUnsupportedCodec,
// ErrUnsupportedPolicy, ErrEncode, ErrDecode, and also the low-level cause
// when there is one:
//
//	_, err := transcode.Encode(ctx, "€", "ascii", transcode.PolicyStrict)
//	errors.Is(err, transcode.ErrEncode) // true
//
//	var ce *transcode.ConversionError
//	errors.As(err, &ce) // ce.Position == 0, ce.Codec == "ascii"
//
// # Documents
//
// A Document writes a content codec's output in a legacy charset:
//
//	doc, _ := transcode.NewDocument(json.New(), "latin-1")
//	data, _ := doc.Marshal(v) // JSON bytes in ISO-8859-1
//
// # Restriction
//
// Struct fields tagged with a charset can be restricted to its repertoire:
//
//	type Customer struct {
//	    Name string `charset:"latin-1,replace"`
//	}
//
//	func (c Customer) Clone() Customer { return c }
//
//	r, _ := transcode.Use[Customer]()
//	safe, _ := r.Restrict(ctx, &customer)
package transcode

import "context"

var defaultConverter = NewConverter()

// Encode converts text into bytes under codec with the default converter.
func Encode(ctx context.Context, text any, codec string, policy ErrorPolicy) ([]byte, error) {
	return defaultConverter.Encode(ctx, text, codec, policy)
}

// Decode converts bytes into text under codec with the default converter.
func Decode(ctx context.Context, data any, codec string, policy ErrorPolicy) (string, error) {
	return defaultConverter.Decode(ctx, data, codec, policy)
}
