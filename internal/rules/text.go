package rules

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Length bounds the number of characters in a value's text.
type Length struct {
	base
	min, max       int
	hasMin, hasMax bool
}

func newLength(r paramReader) (*Length, error) {
	b, err := newBase(r, "Value length is not valid")
	if err != nil {
		return nil, err
	}
	minLen, hasMin, err := r.Int("min")
	if err != nil {
		return nil, err
	}
	maxLen, hasMax, err := r.Int("max")
	if err != nil {
		return nil, err
	}
	if !hasMin && !hasMax {
		return nil, r.fail("", "min or max must be set")
	}
	if minLen < 0 || maxLen < 0 {
		return nil, r.fail("", "bounds must not be negative")
	}
	if hasMin && hasMax && minLen > maxLen {
		return nil, r.fail("", "min %d is greater than max %d", minLen, maxLen)
	}
	return &Length{base: b, min: minLen, max: maxLen, hasMin: hasMin, hasMax: hasMax}, nil
}

func (v *Length) Validate(value any) bool {
	if IsBlank(value) {
		return true
	}
	n := utf8.RuneCountInString(Text(value))
	if v.hasMin && n < v.min {
		return false
	}
	if v.hasMax && n > v.max {
		return false
	}
	return true
}

// Regex requires a value's text to match a pattern. The pattern is not
// anchored; use ^ and $ to match the whole value.
type Regex struct {
	base
	pattern *regexp.Regexp
}

func newRegex(r paramReader) (*Regex, error) {
	b, err := newBase(r, "Value does not match the required pattern")
	if err != nil {
		return nil, err
	}
	expr, err := r.RequiredString("pattern", "pattern not set")
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &ConfigError{Kind: r.kind, Param: "pattern", Message: "invalid regular expression", Cause: err}
	}
	return &Regex{base: b, pattern: re}, nil
}

func (v *Regex) Validate(value any) bool {
	if IsBlank(value) {
		return true
	}
	return v.pattern.MatchString(Text(value))
}

// Choice requires a value to be one of a fixed set.
type Choice struct {
	base
	choices       []string
	caseSensitive bool
}

func newChoice(r paramReader) (*Choice, error) {
	b, err := newBase(r, "Value is not a valid choice")
	if err != nil {
		return nil, err
	}
	items, err := r.RequiredList("choices", "choices not set")
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, r.fail("choices", "choices must not be empty")
	}
	caseSensitive, err := r.Bool("case_sensitive", true)
	if err != nil {
		return nil, err
	}
	choices := make([]string, len(items))
	for i, item := range items {
		choices[i] = Text(item)
	}
	return &Choice{base: b, choices: choices, caseSensitive: caseSensitive}, nil
}

func (v *Choice) Validate(value any) bool {
	if IsBlank(value) {
		return true
	}
	text := Text(value)
	for _, choice := range v.choices {
		if choice == text || (!v.caseSensitive && strings.EqualFold(choice, text)) {
			return true
		}
	}
	return false
}
