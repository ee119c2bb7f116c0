package transcode

import (
	"context"
	"reflect"
	"time"
)

// Converter encodes text to bytes and decodes bytes to text for named charsets.
//
// A Converter holds only call defaults. Every call is independent and a
// Converter is safe for concurrent use.
type Converter struct {
	codec    string
	policy   ErrorPolicy
	registry *Registry
}

// Option configures a Converter.
type Option func(*Converter)

// WithCodec sets the charset used when a call passes an empty codec name.
func WithCodec(name string) Option {
	return func(c *Converter) {
		c.codec = name
	}
}

// WithPolicy sets the error policy used when a call passes an empty policy.
func WithPolicy(policy ErrorPolicy) Option {
	return func(c *Converter) {
		c.policy = policy
	}
}

// WithRegistry resolves charset names against r instead of the default registry.
func WithRegistry(r *Registry) Option {
	return func(c *Converter) {
		c.registry = r
	}
}

// NewConverter creates a Converter defaulting to utf-8 and the strict policy.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		codec:  UTF8,
		policy: PolicyStrict,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encode converts text into bytes under codec, resolving unrepresentable code
// points with policy. Empty codec or policy select the converter defaults.
//
// text must be a string, a []rune, or a value whose underlying type is string.
// Any other type, []byte included, fails with ErrInvalidType before lookup.
func (c *Converter) Encode(ctx context.Context, text any, codec string, policy ErrorPolicy) ([]byte, error) {
	s, ok := asText(text)
	if !ok {
		return nil, newTypeError("encode", "text", text)
	}
	return c.EncodeString(ctx, s, codec, policy)
}

// EncodeString is Encode for a string argument.
func (c *Converter) EncodeString(ctx context.Context, text, codec string, policy ErrorPolicy) ([]byte, error) {
	codec, policy = c.defaults(codec, policy)
	start := time.Now()

	var (
		out     []byte
		handled int
		retErr  error
	)
	defer func() {
		emitEncodeComplete(ctx, codec, policy, len(out), time.Since(start), handled, retErr)
	}()

	if !IsValidEncodePolicy(policy) {
		retErr = newLookupError(ErrUnsupportedPolicy, "encode", string(policy), nil)
		return nil, retErr
	}
	cs, err := c.lookup(codec)
	if err != nil {
		retErr = relabel(err, "encode")
		return nil, retErr
	}

	out, handled, retErr = encodeText(cs, text, policy)
	if retErr != nil {
		return nil, retErr
	}
	return out, nil
}

// Decode converts bytes into text under codec, resolving invalid byte
// sequences with policy. Empty codec or policy select the converter defaults.
//
// data must be a []byte or a value whose underlying type is []byte.
// Any other type, string included, fails with ErrInvalidType before lookup.
// The encode-only policies fail with ErrUnsupportedPolicy.
func (c *Converter) Decode(ctx context.Context, data any, codec string, policy ErrorPolicy) (string, error) {
	b, ok := asBytes(data)
	if !ok {
		return "", newTypeError("decode", "bytes", data)
	}
	return c.DecodeBytes(ctx, b, codec, policy)
}

// DecodeBytes is Decode for a []byte argument.
func (c *Converter) DecodeBytes(ctx context.Context, data []byte, codec string, policy ErrorPolicy) (string, error) {
	codec, policy = c.defaults(codec, policy)
	start := time.Now()

	var (
		out     string
		handled int
		retErr  error
	)
	defer func() {
		emitDecodeComplete(ctx, codec, policy, len(data), time.Since(start), handled, retErr)
	}()

	if !IsValidDecodePolicy(policy) {
		retErr = newLookupError(ErrUnsupportedPolicy, "decode", string(policy), nil)
		return "", retErr
	}
	cs, err := c.lookup(codec)
	if err != nil {
		retErr = relabel(err, "decode")
		return "", retErr
	}

	out, handled, retErr = decodeBytes(cs, data, policy)
	if retErr != nil {
		return "", retErr
	}
	return out, nil
}

// Lookup resolves a charset name the way Encode and Decode do.
func (c *Converter) Lookup(name string) (Charset, error) {
	name, _ = c.defaults(name, "")
	return c.lookup(name)
}

func (c *Converter) defaults(codec string, policy ErrorPolicy) (string, ErrorPolicy) {
	if codec == "" {
		codec = c.codec
	}
	if policy == "" {
		policy = c.policy
	}
	return codec, normalizePolicy(policy)
}

func (c *Converter) lookup(name string) (Charset, error) {
	if c.registry != nil {
		return c.registry.Lookup(name)
	}
	return DefaultRegistry().Lookup(name)
}

// relabel sets the operation on a lookup error raised on behalf of op.
func relabel(err error, op string) error {
	if le, ok := err.(*LookupError); ok {
		cp := *le
		cp.Operation = op
		return &cp
	}
	return err
}

var textType = reflect.TypeOf("")

// asText accepts strings, rune slices, and named string types.
func asText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []rune:
		return string(t), true
	}
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() == reflect.String {
		return rv.Convert(textType).String(), true
	}
	return "", false
}

// asBytes accepts byte slices and named byte-slice types.
func asBytes(v any) ([]byte, bool) {
	if b, ok := v.([]byte); ok {
		return b, true
	}
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return rv.Bytes(), true
	}
	return nil, false
}
