// Package yaml provides a YAML codec implementation.
package yaml

import (
	"bytes"

	"github.com/zoobzio/transcode"
	"gopkg.in/yaml.v3"
)

// yamlCodec implements transcode.Codec for YAML.
type yamlCodec struct {
	indent int
}

// New returns a YAML codec with yaml.v3's default indentation.
func New() transcode.Codec {
	return &yamlCodec{indent: 4}
}

// NewIndent returns a YAML codec indenting nested blocks by spaces.
func NewIndent(spaces int) transcode.Codec {
	return &yamlCodec{indent: spaces}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(c.indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes YAML data into v.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}
