package rules

// Resolver fetches the value of another column on the row being evaluated.
type Resolver func(column string) (any, error)

// Chain is the ordered list of rules applied to one column or to the header.
type Chain []Validator

// Evaluate applies the rules in order and stops at the first failure.
// It returns whether the chain passed and the messages of the failing rule.
// Stopping the chain never stops the scan; the caller records and moves on.
func (c Chain) Evaluate(value any, resolve Resolver) (bool, []string) {
	for _, v := range c {
		if !check(v, value, resolve) {
			return false, []string{v.Message()}
		}
	}
	return true, nil
}

func check(v Validator, value any, resolve Resolver) bool {
	pair, ok := v.(PairValidator)
	if !ok {
		return v.Validate(value)
	}
	var other any
	if resolve != nil {
		var err error
		other, err = resolve(pair.Reference())
		if err != nil {
			return false
		}
	}
	return pair.ValidatePair(value, other)
}

// Kinds lists the rule kinds in the chain, in order.
func (c Chain) Kinds() []Kind {
	kinds := make([]Kind, len(c))
	for i, v := range c {
		kinds[i] = v.Kind()
	}
	return kinds
}
