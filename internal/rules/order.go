package rules

// Order compares the observed header sequence with the expected one,
// element by element. Sequences of different length never match.
type Order struct {
	base
	items []string
}

func newOrder(r paramReader) (*Order, error) {
	b, err := newBase(r, "The order is not valid")
	if err != nil {
		return nil, err
	}
	list, err := r.RequiredList("items", "Item order not set")
	if err != nil {
		return nil, err
	}
	items := make([]string, len(list))
	for i, item := range list {
		items[i] = Text(item)
	}
	return &Order{base: b, items: items}, nil
}

// Items returns a copy of the expected sequence.
func (v *Order) Items() []string {
	return append([]string(nil), v.items...)
}

// Validate expects the header values as a []any or []string.
func (v *Order) Validate(value any) bool {
	var observed []string
	switch seq := value.(type) {
	case []string:
		observed = seq
	case []any:
		observed = make([]string, len(seq))
		for i, item := range seq {
			observed[i] = Text(item)
		}
	default:
		return false
	}

	if len(observed) != len(v.items) {
		return false
	}
	for i := range observed {
		if observed[i] != v.items[i] {
			return false
		}
	}
	return true
}
