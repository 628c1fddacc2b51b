package rules

import (
	"math"
	"strings"
	"time"
)

type valueType string

const (
	typeString valueType = "string"
	typeInt    valueType = "int"
	typeFloat  valueType = "float"
	typeBool   valueType = "bool"
	typeDate   valueType = "date"
)

var typeAliases = map[string]valueType{
	"string":   typeString,
	"str":      typeString,
	"text":     typeString,
	"int":      typeInt,
	"integer":  typeInt,
	"float":    typeFloat,
	"number":   typeFloat,
	"numeric":  typeFloat,
	"decimal":  typeFloat,
	"bool":     typeBool,
	"boolean":  typeBool,
	"date":     typeDate,
	"datetime": typeDate,
}

// TypeCheck compares the runtime type of a cell value against the declared one.
// Whole numbers satisfy both "int" and "float".
type TypeCheck struct {
	base
	want valueType
}

func newTypeCheck(r paramReader) (*TypeCheck, error) {
	b, err := newBase(r, "Value type is not valid")
	if err != nil {
		return nil, err
	}
	name, err := r.RequiredString("type", "type not set")
	if err != nil {
		return nil, err
	}
	want, ok := typeAliases[strings.ToLower(name)]
	if !ok {
		return nil, r.fail("type", "unsupported type %q", name)
	}
	return &TypeCheck{base: b, want: want}, nil
}

func (v *TypeCheck) Validate(value any) bool {
	if IsBlank(value) {
		return true
	}

	switch v.want {
	case typeString:
		_, ok := value.(string)
		return ok
	case typeInt:
		switch n := value.(type) {
		case int, int64:
			return true
		case float64:
			return n == math.Trunc(n) && !math.IsInf(n, 0)
		}
		return false
	case typeFloat:
		switch value.(type) {
		case float64, float32, int, int64:
			return true
		}
		return false
	case typeBool:
		_, ok := value.(bool)
		return ok
	case typeDate:
		_, ok := value.(time.Time)
		return ok
	}
	return false
}
