package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// Relation is the explicit sub-kind of a Conditional rule. A is the cell
// being validated, B the referenced cell on the same row.
type Relation string

const (
	// RelationRequiredWith: when A is present, B must be present.
	RelationRequiredWith Relation = "required_with"
	// RelationRequiredWithout: when A is blank, B must be present.
	RelationRequiredWithout Relation = "required_without"
	// RelationExcludedWith: when A is present, B must be blank.
	RelationExcludedWith Relation = "excluded_with"
	// RelationEqual: the text of A equals the text of B.
	RelationEqual Relation = "equal"
	// RelationNotEqual: the text of A differs from the text of B.
	RelationNotEqual Relation = "not_equal"
)

var columnPattern = regexp.MustCompile(`^[A-Za-z]{1,3}$`)

// Conditional relates the current cell to another column of the same row.
type Conditional struct {
	base
	reference string
	relation  Relation
}

func newConditional(r paramReader) (*Conditional, error) {
	ref, err := r.RequiredString("fieldB", "fieldB not set")
	if err != nil {
		return nil, err
	}
	if !columnPattern.MatchString(ref) {
		return nil, r.fail("fieldB", "%q is not a column letter", ref)
	}
	ref = strings.ToUpper(ref)

	relation, err := r.String("relation", string(RelationRequiredWith))
	if err != nil {
		return nil, err
	}
	switch rel := Relation(relation); rel {
	case RelationRequiredWith, RelationRequiredWithout, RelationExcludedWith, RelationEqual, RelationNotEqual:
	default:
		return nil, r.fail("relation", "unsupported relation %q", relation)
	}

	b, err := newBase(r, fmt.Sprintf("Value does not satisfy the condition on column %s", ref))
	if err != nil {
		return nil, err
	}
	return &Conditional{base: b, reference: ref, relation: Relation(relation)}, nil
}

func (v *Conditional) Reference() string { return v.reference }

// Relation returns the configured relation.
func (v *Conditional) Relation() Relation { return v.relation }

// Validate evaluates the relation with a blank second operand.
func (v *Conditional) Validate(value any) bool {
	return v.ValidatePair(value, nil)
}

func (v *Conditional) ValidatePair(value, other any) bool {
	aBlank, bBlank := IsBlank(value), IsBlank(other)

	switch v.relation {
	case RelationRequiredWith:
		return aBlank || !bBlank
	case RelationRequiredWithout:
		return !aBlank || !bBlank
	case RelationExcludedWith:
		return aBlank || bBlank
	case RelationEqual:
		return Text(value) == Text(other)
	case RelationNotEqual:
		return Text(value) != Text(other)
	default:
		return false
	}
}
