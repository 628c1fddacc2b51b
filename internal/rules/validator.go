package rules

import (
	"fmt"
	"strconv"
	"time"
)

// Validator is the contract every rule kind implements.
type Validator interface {
	// Kind returns the rule kind this validator was built from.
	Kind() Kind
	// Validate reports whether value satisfies the rule. It must not mutate
	// shared state.
	Validate(value any) bool
	// Message returns the human-readable explanation recorded on failure.
	Message() string
}

// PairValidator is implemented by rules that relate the current cell to a
// second cell on the same row.
type PairValidator interface {
	Validator
	// Reference returns the column letter of the second operand.
	Reference() string
	// ValidatePair reports whether value and other satisfy the relation.
	ValidatePair(value, other any) bool
}

// New builds the validator for kind from its declared parameters.
func New(kind Kind, params Params) (Validator, error) {
	r := paramReader{kind: kind, params: params}

	switch kind {
	case KindNotBlank:
		return newNotBlank(r)
	case KindType:
		return newTypeCheck(r)
	case KindLength:
		return newLength(r)
	case KindRegex:
		return newRegex(r)
	case KindEmail:
		return newEmail(r)
	case KindChoice:
		return newChoice(r)
	case KindDate:
		return newDate(r)
	case KindExcelDate:
		return newExcelDate(r)
	case KindCountry:
		return newCountry(r)
	case KindConditional:
		return newConditional(r)
	case KindOrder:
		return newOrder(r)
	default:
		return nil, &ConfigError{Kind: kind, Message: "unknown rule kind"}
	}
}

// base carries what every validator shares: its kind and message.
type base struct {
	kind    Kind
	message string
}

func newBase(r paramReader, defaultMessage string) (base, error) {
	msg, err := r.String("message", defaultMessage)
	if err != nil {
		return base{}, err
	}
	return base{kind: r.kind, message: msg}, nil
}

func (b base) Kind() Kind      { return b.kind }
func (b base) Message() string { return b.message }

// IsBlank reports whether a cell value counts as empty.
func IsBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}

// Text renders a cell value the way text-based rules compare it.
func Text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format(time.DateOnly)
		}
		return v.Format(time.DateTime)
	default:
		return fmt.Sprint(v)
	}
}
