package wire

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TagJSON names the text codec for content negotiation.
const TagJSON = "rosbridge.v2.json"

// binaryKey wraps byte strings, which JSON has no native type for. A
// mapping holding exactly this one key round-trips as []byte, so the
// key is reserved and unavailable to applications.
const binaryKey = "$binary"

// JSONCodec carries documents as compact JSON text.
//
// Numbers keep their integer/float identity across a round trip:
// literals without a fraction or exponent decode to int64, all others
// to float64, and float64 values always serialize with a fraction or
// exponent. Mapping keys serialize sorted, so equal values produce
// equal bytes. Non-finite floats have no JSON form and fail.
type JSONCodec struct{}

func (JSONCodec) Tag() string { return TagJSON }

func (JSONCodec) Binary() bool { return false }

func (JSONCodec) Serialize(v any) ([]byte, error) {
	norm, err := Normalize(v)
	if err != nil {
		return nil, err
	}
	doc, err := jsonTree(norm)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func (JSONCodec) Deserialize(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: data after document end", ErrMalformed)
	}
	return fromJSON(raw)
}

// jsonTree rewrites a model value into a json.Marshal input that
// preserves numeric identity and byte strings.
func jsonTree(v any) (any, error) {
	switch val := v.(type) {
	case nil, bool, string:
		return val, nil
	case int64:
		return json.Number(strconv.FormatInt(val, 10)), nil
	case float64:
		return jsonFloat(val)
	case []byte:
		return map[string]string{binaryKey: base64.StdEncoding.EncodeToString(val)}, nil
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			conv, err := jsonTree(elem)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for key, elem := range val {
			conv, err := jsonTree(elem)
			if err != nil {
				return nil, err
			}
			out[key] = conv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w %T", ErrUnsupportedType, v)
	}
}

func jsonFloat(f float64) (json.Number, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("wire: no JSON form for %v", f)
	}
	lit := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(lit, ".eE") {
		lit += ".0"
	}
	return json.Number(lit), nil
}

func fromJSON(v any) (any, error) {
	switch val := v.(type) {
	case nil, bool, string:
		return val, nil
	case json.Number:
		return fromJSONNumber(val)
	case []any:
		for i, elem := range val {
			conv, err := fromJSON(elem)
			if err != nil {
				return nil, err
			}
			val[i] = conv
		}
		return val, nil
	case map[string]any:
		raw, ok, err := binaryBytes(val)
		if err != nil {
			return nil, err
		}
		if ok {
			return raw, nil
		}
		for key, elem := range val {
			conv, err := fromJSON(elem)
			if err != nil {
				return nil, err
			}
			val[key] = conv
		}
		return val, nil
	default:
		return nil, fmt.Errorf("%w: unexpected JSON value %T", ErrMalformed, v)
	}
}

func fromJSONNumber(num json.Number) (any, error) {
	if !strings.ContainsAny(num.String(), ".eE") {
		if i, err := num.Int64(); err == nil {
			return i, nil
		}
	}
	f, err := num.Float64()
	if err != nil {
		return nil, fmt.Errorf("%w: bad number literal %q", ErrMalformed, num.String())
	}
	return f, nil
}

func binaryBytes(m map[string]any) ([]byte, bool, error) {
	if len(m) != 1 {
		return nil, false, nil
	}
	enc, ok := m[binaryKey].(string)
	if !ok {
		return nil, false, nil
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return nil, false, fmt.Errorf("%w: bad %s literal: %v", ErrMalformed, binaryKey, err)
	}
	return raw, true, nil
}
