package rules

import (
	"fmt"
	"math"
)

// Params holds the parameters of one rule declaration as decoded from the
// configuration file.
type Params map[string]any

// paramReader reads typed parameters and reports problems as ConfigErrors
// attributed to the rule kind being built.
type paramReader struct {
	kind   Kind
	params Params
}

func (r paramReader) fail(param, format string, args ...any) error {
	return &ConfigError{Kind: r.kind, Param: param, Message: fmt.Sprintf(format, args...)}
}

func (r paramReader) lookup(key string) (any, bool) {
	v, ok := r.params[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (r paramReader) has(key string) bool {
	_, ok := r.lookup(key)
	return ok
}

func (r paramReader) String(key, def string) (string, error) {
	v, ok := r.lookup(key)
	if !ok {
		return def, nil
	}
	s, isString := v.(string)
	if !isString {
		return "", r.fail(key, "must be a string, got %T", v)
	}
	return s, nil
}

func (r paramReader) RequiredString(key, missing string) (string, error) {
	if !r.has(key) {
		return "", r.fail(key, "%s", missing)
	}
	s, err := r.String(key, "")
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", r.fail(key, "%s", missing)
	}
	return s, nil
}

func (r paramReader) Bool(key string, def bool) (bool, error) {
	v, ok := r.lookup(key)
	if !ok {
		return def, nil
	}
	b, isBool := v.(bool)
	if !isBool {
		return false, r.fail(key, "must be a boolean, got %T", v)
	}
	return b, nil
}

// Int returns the parameter and whether it was set.
func (r paramReader) Int(key string) (int, bool, error) {
	v, ok := r.lookup(key)
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case int:
		return n, true, nil
	case int64:
		return int(n), true, nil
	case uint64:
		return int(n), true, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, true, r.fail(key, "must be a whole number, got %v", n)
		}
		return int(n), true, nil
	default:
		return 0, true, r.fail(key, "must be a number, got %T", v)
	}
}

func (r paramReader) RequiredList(key, missing string) ([]any, error) {
	v, ok := r.lookup(key)
	if !ok {
		return nil, r.fail(key, "%s", missing)
	}
	switch list := v.(type) {
	case []any:
		return list, nil
	case []string:
		out := make([]any, len(list))
		for i, s := range list {
			out[i] = s
		}
		return out, nil
	default:
		return nil, r.fail(key, "must be a list, got %T", v)
	}
}
