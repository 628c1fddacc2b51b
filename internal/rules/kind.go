// Package rules implements the declarative cell rules, the catalog that builds
// them from configuration and the chain evaluator that applies them.
package rules

import "fmt"

// Kind names a rule type as it appears in configuration.
type Kind string

// Rule kinds. The set is closed: New switches over every value.
const (
	KindNotBlank    Kind = "NotBlank"
	KindType        Kind = "Type"
	KindLength      Kind = "Length"
	KindRegex       Kind = "Regex"
	KindEmail       Kind = "Email"
	KindChoice      Kind = "Choice"
	KindDate        Kind = "Date"
	KindExcelDate   Kind = "ExcelDate"
	KindCountry     Kind = "Country"
	KindConditional Kind = "Conditional"
	KindOrder       Kind = "Order"
)

// Kinds returns every known rule kind in catalog order.
func Kinds() []Kind {
	return []Kind{
		KindNotBlank,
		KindType,
		KindLength,
		KindRegex,
		KindEmail,
		KindChoice,
		KindDate,
		KindExcelDate,
		KindCountry,
		KindConditional,
		KindOrder,
	}
}

// ParseKind resolves a configured rule name.
func ParseKind(name string) (Kind, error) {
	switch k := Kind(name); k {
	case KindNotBlank, KindType, KindLength, KindRegex, KindEmail, KindChoice,
		KindDate, KindExcelDate, KindCountry, KindConditional, KindOrder:
		return k, nil
	default:
		return "", &ConfigError{
			Kind:    k,
			Message: fmt.Sprintf("unknown rule kind (expected one of %v)", Kinds()),
		}
	}
}

// HeaderOnly reports whether the kind validates the header sequence as a whole
// and therefore cannot appear in a column chain.
func (k Kind) HeaderOnly() bool {
	return k == KindOrder
}
