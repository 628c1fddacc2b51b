package rules

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Email checks the shape of an email address.
type Email struct {
	base
	validate *validator.Validate
}

func newEmail(r paramReader) (*Email, error) {
	b, err := newBase(r, "Value is not a valid email address")
	if err != nil {
		return nil, err
	}
	return &Email{base: b, validate: validator.New()}, nil
}

func (v *Email) Validate(value any) bool {
	if IsBlank(value) {
		return true
	}
	return v.validate.Var(strings.TrimSpace(Text(value)), "email") == nil
}

var countryTags = map[string]string{
	"alpha2":  "iso3166_1_alpha2",
	"alpha3":  "iso3166_1_alpha3",
	"numeric": "iso3166_1_alpha_numeric",
}

// Country checks a value against the ISO 3166-1 country codes.
type Country struct {
	base
	tag           string
	caseSensitive bool
	validate      *validator.Validate
}

func newCountry(r paramReader) (*Country, error) {
	b, err := newBase(r, "Value is not a valid country code")
	if err != nil {
		return nil, err
	}
	format, err := r.String("format", "alpha2")
	if err != nil {
		return nil, err
	}
	tag, ok := countryTags[strings.ToLower(format)]
	if !ok {
		return nil, r.fail("format", "unsupported country code format %q", format)
	}
	caseSensitive, err := r.Bool("case_sensitive", false)
	if err != nil {
		return nil, err
	}
	return &Country{base: b, tag: tag, caseSensitive: caseSensitive, validate: validator.New()}, nil
}

func (v *Country) Validate(value any) bool {
	if IsBlank(value) {
		return true
	}
	code := strings.TrimSpace(Text(value))
	if v.tag == countryTags["numeric"] {
		n, err := strconv.Atoi(code)
		if err != nil {
			return false
		}
		return v.validate.Var(n, v.tag) == nil
	}
	if !v.caseSensitive {
		code = strings.ToUpper(code)
	}
	return v.validate.Var(code, v.tag) == nil
}
