// Package schemas provides JSON Schema validation for the rule configuration
// and the JSON violation report. The schemas are embedded at compile time.
package schemas

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Embedded schema names.
const (
	RulesSchema      = "rules.schema.json"
	ViolationsSchema = "violations.schema.json"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// cache stores compiled schemas to avoid recompiling on every document
var (
	cache   = make(map[string]*gojsonschema.Schema)
	cacheMu sync.RWMutex
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Load returns the compiled embedded schema with the given name.
func Load(name string) (*gojsonschema.Schema, error) {
	cacheMu.RLock()
	if schema, ok := cache[name]; ok {
		cacheMu.RUnlock()
		return schema, nil
	}
	cacheMu.RUnlock()

	data, err := schemaFiles.ReadFile(name)
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "schema not found", Cause: err}
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "schema does not compile", Cause: err}
	}

	cacheMu.Lock()
	cache[name] = schema
	cacheMu.Unlock()

	return schema, nil
}

// ValidateDocument validates an already decoded document (maps, slices and
// scalars) against the named embedded schema.
func ValidateDocument(name string, doc any) error {
	return validate(name, gojsonschema.NewGoLoader(doc))
}

// ValidateBytes validates raw JSON content against the named embedded schema.
func ValidateBytes(name string, data []byte) error {
	return validate(name, gojsonschema.NewBytesLoader(data))
}

// ValidateFile validates a JSON file against the named embedded schema.
func ValidateFile(name, jsonPath string) error {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("JSON file not found: %s", jsonPath)
		}
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	return ValidateBytes(name, data)
}

func validate(name string, document gojsonschema.JSONLoader) error {
	schema, err := Load(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(document)
	if err != nil {
		return fmt.Errorf("failed to load document for %s: %w", name, err)
	}
	return resultError(result)
}

func resultError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	// Build structured error
	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
