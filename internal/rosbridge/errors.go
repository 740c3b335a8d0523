package rosbridge

import "fmt"

// MissingOpError reports an incoming message with no usable op code:
// the document is not a mapping, the op field is absent, or the op
// value is not a string. The decoded payload rides along for
// diagnostics.
type MissingOpError struct {
	Payload any
}

func (e *MissingOpError) Error() string {
	return fmt.Sprintf("rosbridge: no op code in incoming message: %v", e.Payload)
}

// MissingFieldError reports an envelope that omits a field its op
// requires.
type MissingFieldError struct {
	Op    Op
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("rosbridge: %s message missing required field %q", e.Op, e.Field)
}

// FieldTypeError reports an envelope field holding the wrong kind of
// value.
type FieldTypeError struct {
	Op    Op
	Field string
	Want  string
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("rosbridge: %s field %q is not a %s", e.Op, e.Field, e.Want)
}
