package annotate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/excel-validator/internal/schemas"
	"github.com/jonathan/excel-validator/internal/types"
)

// Report is the JSON form of a validation run.
type Report struct {
	RunID       string            `json:"run_id"`
	File        string            `json:"file"`
	Sheet       string            `json:"sheet"`
	GeneratedAt time.Time         `json:"generated_at"`
	ErrorCount  int               `json:"error_count"`
	Violations  []types.Violation `json:"violations"`
}

// NewReport builds a report for the log of one run.
func NewReport(runID, file, sheet string, log *types.Violations, now time.Time) *Report {
	violations := []types.Violation{}
	if log != nil {
		violations = append(violations, log.Violations...)
	}
	return &Report{
		RunID:       runID,
		File:        filepath.Base(file),
		Sheet:       sheet,
		GeneratedAt: now.UTC(),
		ErrorCount:  len(violations),
		Violations:  violations,
	}
}

// WriteReport writes the report as indented JSON after checking it against
// the violations schema.
func WriteReport(path string, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := schemas.ValidateBytes(schemas.ViolationsSchema, data); err != nil {
		return fmt.Errorf("report does not match schema: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// ReadReport loads a report written by WriteReport.
func ReadReport(path string) (*Report, error) {
	if err := schemas.ValidateFile(schemas.ViolationsSchema, path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &r, nil
}
