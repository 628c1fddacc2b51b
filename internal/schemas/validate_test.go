package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedSchemasCompile(t *testing.T) {
	for _, name := range []string{RulesSchema, ViolationsSchema} {
		t.Run(name, func(t *testing.T) {
			schema, err := Load(name)
			require.NoError(t, err)
			assert.NotNil(t, schema)

			again, err := Load(name)
			require.NoError(t, err)
			assert.Same(t, schema, again, "schema should be cached")
		})
	}
}

func TestLoad_UnknownSchema(t *testing.T) {
	_, err := Load("missing.schema.json")
	require.Error(t, err)

	schemaErr, ok := err.(*SchemaLoadError)
	require.True(t, ok, "error should be SchemaLoadError type")
	assert.Equal(t, "missing.schema.json", schemaErr.Path)
	assert.NotNil(t, schemaErr.Unwrap())
}

func TestValidateDocument_Rules(t *testing.T) {
	tests := []struct {
		name      string
		doc       map[string]any
		wantError bool
	}{
		{
			name: "full configuration",
			doc: map[string]any{
				"validators": map[string]any{
					"columns": map[string]any{
						"A": []any{
							map[string]any{"NotBlank": map[string]any{}},
							map[string]any{"Length": map[string]any{"min": 2, "max": 20}},
						},
					},
					"header":  []any{map[string]any{"Order": map[string]any{"items": []any{"Name"}}}},
					"default": []any{"NotBlank"},
				},
				"excludes": []any{"E"},
				"range":    []any{"A", "D"},
				"header":   1,
			},
		},
		{
			name: "default as a single rule",
			doc: map[string]any{
				"validators": map[string]any{
					"default": map[string]any{"NotBlank": nil},
				},
			},
		},
		{
			name:      "missing validators",
			doc:       map[string]any{"excludes": []any{"A"}},
			wantError: true,
		},
		{
			name: "rule with two kinds",
			doc: map[string]any{
				"validators": map[string]any{
					"columns": map[string]any{
						"A": []any{map[string]any{"NotBlank": nil, "Email": nil}},
					},
				},
			},
			wantError: true,
		},
		{
			name: "bad column key",
			doc: map[string]any{
				"validators": map[string]any{
					"columns": map[string]any{"A1": []any{"NotBlank"}},
				},
			},
			wantError: true,
		},
		{
			name: "range with one bound",
			doc: map[string]any{
				"validators": map[string]any{},
				"range":      []any{"A"},
			},
			wantError: true,
		},
		{
			name: "header row zero",
			doc: map[string]any{
				"validators": map[string]any{},
				"header":     0,
			},
			wantError: true,
		},
		{
			name: "unknown top-level key",
			doc: map[string]any{
				"validators": map[string]any{},
				"sheets":     []any{"Sheet1"},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(RulesSchema, tt.doc)
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			validationErr, ok := err.(*ValidationError)
			require.True(t, ok, "error should be ValidationError type, got %T", err)
			assert.Greater(t, len(validationErr.Errors), 0)
		})
	}
}

func TestValidateBytes_Violations(t *testing.T) {
	valid := `{
		"run_id": "0b6f8f5e-2f6b-4a59-9a55-7c2a3f0e9c11",
		"file": "data.xlsx",
		"sheet": "Sheet1",
		"generated_at": "2024-03-01T10:00:00Z",
		"error_count": 2,
		"violations": [
			{"location": "B7", "messages": ["Cell can not be blank"], "sheet_row": 8},
			{"location": "Row 1", "messages": ["The order is not valid"]}
		]
	}`
	assert.NoError(t, ValidateBytes(ViolationsSchema, []byte(valid)))

	invalid := `{
		"run_id": "x",
		"file": "data.xlsx",
		"sheet": "Sheet1",
		"generated_at": "2024-03-01T10:00:00Z",
		"error_count": 1,
		"violations": [{"location": "B0", "messages": []}]
	}`
	err := ValidateBytes(ViolationsSchema, []byte(invalid))
	require.Error(t, err)
	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(validationErr.Errors), 2)
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	content := `{"run_id": "r", "file": "f.xlsx", "sheet": "S", "generated_at": "2024-03-01T10:00:00Z", "error_count": 0, "violations": []}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	assert.NoError(t, ValidateFile(ViolationsSchema, path))

	err := ValidateFile(ViolationsSchema, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateFile_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "malformed.json")
	require.NoError(t, os.WriteFile(path, []byte("{ invalid json }"), 0644))

	err := ValidateFile(ViolationsSchema, path)
	require.Error(t, err)
	_, isValidation := err.(*ValidationError)
	assert.False(t, isValidation)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "validators", Message: "is required"},
			{Field: "header", Message: "must be greater than or equal to 1"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "validators")
	assert.Contains(t, errorMsg, "header")
}
