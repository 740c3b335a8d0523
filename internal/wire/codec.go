package wire

import "errors"

var (
	// ErrMalformed reports input bytes that do not decode as a single
	// well-formed document in the codec's format.
	ErrMalformed = errors.New("wire: malformed payload")

	// ErrUnsupportedType reports a Go value with no model equivalent.
	ErrUnsupportedType = errors.New("wire: unsupported value type")
)

// Codec translates between model values and transport bytes.
//
// Implementations must be safe for concurrent use and must round-trip
// the model: Deserialize(Serialize(v)) yields a value equal to
// Normalize(v) for every v the model admits.
type Codec interface {
	// Tag names the codec for content negotiation, for example as a
	// websocket subprotocol.
	Tag() string

	// Binary reports whether serialized payloads are binary rather
	// than UTF-8 text. Transports use it to pick a frame type.
	Binary() bool

	// Serialize encodes a model value as one document.
	Serialize(v any) ([]byte, error)

	// Deserialize decodes one document into a model value. Truncated
	// input, trailing bytes, and values outside the model fail with
	// an error wrapping ErrMalformed.
	Deserialize(data []byte) (any, error)
}
