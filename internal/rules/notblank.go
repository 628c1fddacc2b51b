package rules

// NotBlank requires a value to be present unless required is false.
type NotBlank struct {
	base
	required bool
}

func newNotBlank(r paramReader) (*NotBlank, error) {
	b, err := newBase(r, "Cell can not be blank")
	if err != nil {
		return nil, err
	}
	required, err := r.Bool("required", true)
	if err != nil {
		return nil, err
	}
	return &NotBlank{base: b, required: required}, nil
}

func (v *NotBlank) Validate(value any) bool {
	return !v.required || !IsBlank(value)
}
