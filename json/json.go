// Package json provides a JSON codec implementation.
package json

import (
	"encoding/json"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/zoobzio/transcode"
)

// jsonCodec implements transcode.Codec for JSON.
type jsonCodec struct {
	ascii bool
}

// New returns a JSON codec.
func New() transcode.Codec {
	return &jsonCodec{}
}

// NewASCII returns a JSON codec that escapes every non-ASCII code point as
// \uXXXX, so its output is representable in any ASCII-compatible charset.
func NewASCII() transcode.Codec {
	return &jsonCodec{ascii: true}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || !c.ascii {
		return data, err
	}
	return escapeNonASCII(data), nil
}

// Unmarshal decodes JSON data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// escapeNonASCII rewrites multi-byte runes as JSON escapes. Outside string
// literals JSON is pure ASCII, so every such rune sits inside a string.
func escapeNonASCII(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for len(data) > 0 {
		if data[0] < utf8.RuneSelf {
			out = append(out, data[0])
			data = data[1:]
			continue
		}
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			out = fmt.Appendf(out, `\u%04x\u%04x`, hi, lo)
			continue
		}
		out = fmt.Appendf(out, `\u%04x`, r)
	}
	return out
}
