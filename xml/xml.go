// Package xml provides an XML codec implementation.
package xml

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strings"

	"github.com/zoobzio/transcode"
)

// xmlCodec implements transcode.Codec for XML.
type xmlCodec struct{}

// New returns an XML codec.
//
// Unmarshal honors an encoding declaration such as
// <?xml version="1.0" encoding="ISO-8859-1"?> by decoding the document
// through the transcode default registry.
func New() transcode.Codec {
	return &xmlCodec{}
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes v as XML.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	return xml.Marshal(v)
}

// Unmarshal decodes XML data into v.
func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader
	return dec.Decode(v)
}

// UnmarshalUTF8 decodes XML data that is already UTF-8 into v, ignoring any
// encoding declaration.
func (c *xmlCodec) UnmarshalUTF8(data []byte, v any) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	return dec.Decode(v)
}

// charsetReader converts a declared non-UTF-8 document to UTF-8.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	raw, err := io.ReadAll(input)
	if err != nil {
		return nil, err
	}
	text, err := transcode.Decode(context.Background(), raw, label, transcode.PolicyStrict)
	if err != nil {
		return nil, err
	}
	return strings.NewReader(text), nil
}
