package wire

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// TagCBOR names the binary codec for content negotiation.
const TagCBOR = "rosbridge.v2.cbor"

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		IntDec:         cbor.IntDecConvertSignedOrFail,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	cborEnc = em
	cborDec = dm
}

// CBORCodec carries documents as deterministically encoded CBOR.
//
// Encoding follows the RFC 8949 core deterministic requirements:
// mapping keys sort bytewise and numbers take their shortest form, so
// equal values produce equal bytes. Integers decode to int64 and every
// float width decodes to float64, which keeps the integer/float split
// across a round trip. Unsigned integers above the int64 range, maps
// with non-string keys, and tagged items are outside the model and
// fail to decode.
type CBORCodec struct{}

func (CBORCodec) Tag() string { return TagCBOR }

func (CBORCodec) Binary() bool { return true }

func (CBORCodec) Serialize(v any) ([]byte, error) {
	norm, err := Normalize(v)
	if err != nil {
		return nil, err
	}
	return cborEnc.Marshal(norm)
}

func (CBORCodec) Deserialize(data []byte) (any, error) {
	var raw any
	if err := cborDec.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	norm, err := Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return norm, nil
}
