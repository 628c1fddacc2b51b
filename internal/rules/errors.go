package rules

import (
	"fmt"
	"strings"
)

// ConfigError represents a malformed or incomplete rule declaration.
// It is returned while building a rule set, before any cell is read.
type ConfigError struct {
	Kind    Kind
	Param   string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	var sb strings.Builder
	sb.WriteString("configuration error")
	if e.Kind != "" {
		sb.WriteString(": ")
		sb.WriteString(string(e.Kind))
	}
	if e.Param != "" {
		fmt.Fprintf(&sb, ": parameter %q", e.Param)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	return sb.String()
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}
