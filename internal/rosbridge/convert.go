package rosbridge

// Converter translates between application message bodies and model
// values as they enter or leave an envelope. It applies to the msg,
// args and values fields; envelope routing fields never pass through
// it.
type Converter interface {
	ToWire(v any) (any, error)
	FromWire(v any) (any, error)
}

// Passthrough forwards bodies unchanged, for endpoints that already
// speak model values.
type Passthrough struct{}

func (Passthrough) ToWire(v any) (any, error) { return v, nil }

func (Passthrough) FromWire(v any) (any, error) { return v, nil }
