package rosbridge

func requiredString(env map[string]any, op Op, field string) (string, error) {
	raw, ok := env[field]
	if !ok {
		return "", &MissingFieldError{Op: op, Field: field}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &FieldTypeError{Op: op, Field: field, Want: "string"}
	}
	return s, nil
}

// optionalString returns "" for an absent field. A present field still
// has to be a string.
func optionalString(env map[string]any, op Op, field string) (string, error) {
	raw, ok := env[field]
	if !ok {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", &FieldTypeError{Op: op, Field: field, Want: "string"}
	}
	return s, nil
}

// requiredValue checks presence only; any model value qualifies,
// including nil.
func requiredValue(env map[string]any, op Op, field string) (any, error) {
	raw, ok := env[field]
	if !ok {
		return nil, &MissingFieldError{Op: op, Field: field}
	}
	return raw, nil
}
