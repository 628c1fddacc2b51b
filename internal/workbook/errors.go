// Package workbook adapts excelize to the cell-level operations the scanner
// and the annotator need: typed reads, style-preserving fills and new sheets.
package workbook

import "fmt"

// Error represents a failure opening, reading or saving a workbook
type Error struct {
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("workbook error: %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("workbook error: %s: %s", e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// CellError represents a cell whose value cannot be read
type CellError struct {
	Sheet   string
	Cell    string
	Message string
	Cause   error
}

func (e *CellError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cell error: %s!%s: %s: %v", e.Sheet, e.Cell, e.Message, e.Cause)
	}
	return fmt.Sprintf("cell error: %s!%s: %s", e.Sheet, e.Cell, e.Message)
}

func (e *CellError) Unwrap() error {
	return e.Cause
}
