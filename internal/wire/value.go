package wire

import (
	"fmt"
	"math"
)

// The model is the set of values codecs exchange:
//
//	nil, bool, int64, float64, string, []byte,
//	[]any and map[string]any holding model values.
//
// Envelope interpretation and every codec operate on this set only, so
// a value decoded by one codec can be re-encoded by any other.

// Normalize converts v into the model, widening the remaining Go
// integer and float types. Values with no model equivalent fail with
// ErrUnsupportedType. Slices and mappings are rebuilt, not mutated.
func Normalize(v any) (any, error) {
	switch val := v.(type) {
	case nil, bool, string, int64, float64, []byte:
		return val, nil
	case int:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case uint:
		return normalizeUint(uint64(val))
	case uint8:
		return int64(val), nil
	case uint16:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case uint64:
		return normalizeUint(val)
	case float32:
		return float64(val), nil
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			norm, err := Normalize(elem)
			if err != nil {
				return nil, err
			}
			out[i] = norm
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for key, elem := range val {
			norm, err := Normalize(elem)
			if err != nil {
				return nil, err
			}
			out[key] = norm
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w %T", ErrUnsupportedType, v)
	}
}

func normalizeUint(u uint64) (any, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("%w: uint64 %d overflows int64", ErrUnsupportedType, u)
	}
	return int64(u), nil
}
