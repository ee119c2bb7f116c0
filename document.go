package transcode

import (
	"context"
	"mime"
)

// Document pairs a content codec with a charset.
//
// Marshal runs the codec and encodes its UTF-8 output into the charset;
// Unmarshal decodes from the charset before handing the text to the codec.
// Document implements Codec, so it can stand in wherever a Codec is accepted.
type Document struct {
	codec   Codec
	conv    *Converter
	charset Charset
	policy  ErrorPolicy
}

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// WithDocumentPolicy sets the error policy for both directions.
// Encode-only policies are accepted; Unmarshal then falls back to strict.
func WithDocumentPolicy(policy ErrorPolicy) DocumentOption {
	return func(d *Document) {
		d.policy = policy
	}
}

// WithConverter sets the converter used for charset lookups and conversion.
func WithConverter(conv *Converter) DocumentOption {
	return func(d *Document) {
		d.conv = conv
	}
}

// NewDocument creates a Document writing codec output in the named charset.
func NewDocument(codec Codec, charset string, opts ...DocumentOption) (*Document, error) {
	d := &Document{
		codec:  codec,
		policy: PolicyStrict,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.conv == nil {
		d.conv = NewConverter()
	}
	d.policy = normalizePolicy(d.policy)
	if !IsValidEncodePolicy(d.policy) {
		return nil, newLookupError(ErrUnsupportedPolicy, "document", string(d.policy), nil)
	}

	cs, err := d.conv.Lookup(charset)
	if err != nil {
		return nil, relabel(err, "document")
	}
	d.charset = cs
	return d, nil
}

// Charset returns the charset the document is written in.
func (d *Document) Charset() Charset {
	return d.charset
}

// ContentType returns the codec's MIME type with a charset parameter.
func (d *Document) ContentType() string {
	base := d.codec.ContentType()
	mediaType, params, err := mime.ParseMediaType(base)
	if err != nil {
		return base
	}
	params["charset"] = mimeName(d.charset)
	return mime.FormatMediaType(mediaType, params)
}

// Marshal encodes v with the codec and converts the result into the charset.
func (d *Document) Marshal(v any) ([]byte, error) {
	data, err := d.codec.Marshal(v)
	if err != nil {
		return nil, newCodecError(ErrMarshal, err)
	}
	return d.conv.EncodeString(context.Background(), string(data), d.charset.Name(), d.policy)
}

// Unmarshal converts data from the charset and decodes it with the codec into v.
// Codecs implementing UTF8Unmarshaler are handed the converted text through
// UnmarshalUTF8, so a charset declared inside the payload is not applied twice.
func (d *Document) Unmarshal(data []byte, v any) error {
	policy := d.policy
	if !IsValidDecodePolicy(policy) {
		policy = PolicyStrict
	}
	text, err := d.conv.DecodeBytes(context.Background(), data, d.charset.Name(), policy)
	if err != nil {
		return err
	}
	unmarshal := d.codec.Unmarshal
	if u, ok := d.codec.(UTF8Unmarshaler); ok {
		unmarshal = u.UnmarshalUTF8
	}
	if err := unmarshal([]byte(text), v); err != nil {
		return newCodecError(ErrUnmarshal, err)
	}
	return nil
}
