package transcode

// Codec provides content-type aware marshaling.
// Codecs produce and consume UTF-8; wrap one in a Document to read and
// write another charset.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// UTF8Unmarshaler is implemented by codecs whose input can declare its own
// charset, such as an XML encoding declaration. Document decodes its input
// to UTF-8 first and then calls UnmarshalUTF8, which must ignore any
// declared charset.
type UTF8Unmarshaler interface {
	UnmarshalUTF8(data []byte, v any) error
}
