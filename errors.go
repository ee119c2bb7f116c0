package transcode

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrInvalidType indicates an argument of the wrong type: bytes where text
	// was expected, or text where bytes were expected.
	ErrInvalidType = errors.New("invalid argument type")

	// ErrUnsupportedCodec indicates a charset name the registry does not recognize.
	ErrUnsupportedCodec = errors.New("unsupported codec")

	// ErrUnsupportedPolicy indicates an error policy that is unknown or not
	// valid for the requested operation.
	ErrUnsupportedPolicy = errors.New("unsupported error policy")

	// ErrEncode indicates a code point with no representation in the target charset.
	ErrEncode = errors.New("encode failed")

	// ErrDecode indicates a byte sequence that is invalid in the source charset.
	ErrDecode = errors.New("decode failed")

	// ErrMarshal indicates the content codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")

	// ErrUnmarshal indicates the content codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")
)

// TypeError reports an argument that is neither text nor bytes as required.
type TypeError struct {
	Err       error  // Underlying sentinel error (ErrInvalidType)
	Operation string // encode or decode
	Want      string // Expected kind of value
	Got       string // Dynamic type of the argument
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: %s: want %s, got %s", e.Operation, e.Err.Error(), e.Want, e.Got)
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

// LookupError reports a codec or policy name that could not be resolved.
type LookupError struct {
	Err       error  // Underlying sentinel error (ErrUnsupportedCodec, ErrUnsupportedPolicy)
	Operation string // Operation that requested the lookup
	Name      string // Name that failed to resolve
	Cause     error  // Original error from the registry, if any
}

func (e *LookupError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %q: %v", e.Operation, e.Err.Error(), e.Name, e.Cause)
	}
	return fmt.Sprintf("%s: %s %q", e.Operation, e.Err.Error(), e.Name)
}

func (e *LookupError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// ConversionError reports a unit that could not be converted under the strict policy.
//
// For encoding, Position is the index of the offending code point in the text.
// For decoding, Position is the byte offset of the offending byte.
type ConversionError struct {
	Err      error  // Underlying sentinel error (ErrEncode, ErrDecode)
	Codec    string // Charset name
	Position int    // Code point index (encode) or byte offset (decode)
	Unit     string // Offending unit, e.g. U+20AC or 0xff
	Cause    error  // Original error from the transformer
}

func (e *ConversionError) Error() string {
	verb := "encode"
	if e.Err == ErrDecode {
		verb = "decode"
	}
	msg := fmt.Sprintf("%s: %s cannot %s %s at position %d", e.Err.Error(), e.Codec, verb, e.Unit, e.Position)
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConversionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// CodecError represents a marshal/unmarshal error from a content codec.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// newTypeError creates a TypeError for an argument of the wrong dynamic type.
func newTypeError(operation, want string, got any) error {
	return &TypeError{
		Err:       ErrInvalidType,
		Operation: operation,
		Want:      want,
		Got:       fmt.Sprintf("%T", got),
	}
}

// newLookupError creates a LookupError for an unresolved codec or policy.
func newLookupError(sentinel error, operation, name string, cause error) error {
	return &LookupError{
		Err:       sentinel,
		Operation: operation,
		Name:      name,
		Cause:     cause,
	}
}

// newConversionError creates a ConversionError for a strict-policy failure.
func newConversionError(sentinel error, codec string, position int, unit string, cause error) error {
	return &ConversionError{
		Err:      sentinel,
		Codec:    codec,
		Position: position,
		Unit:     unit,
		Cause:    cause,
	}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
