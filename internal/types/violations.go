// Package types provides the violation model shared by the scanner, the annotator and the CLI.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const rowMarkerPrefix = "Row "

// Coordinate identifies where a violation was found: either a single cell
// ("B7") or a whole row ("Row 1"). A row marker has an empty Column.
type Coordinate struct {
	Column string
	Row    int
}

// CellCoordinate returns the coordinate of a single cell.
func CellCoordinate(column string, row int) Coordinate {
	return Coordinate{Column: strings.ToUpper(column), Row: row}
}

// RowCoordinate returns a row-level marker.
func RowCoordinate(row int) Coordinate {
	return Coordinate{Row: row}
}

// IsRow reports whether the coordinate marks an entire row.
func (c Coordinate) IsRow() bool {
	return c.Column == ""
}

func (c Coordinate) String() string {
	if c.IsRow() {
		return rowMarkerPrefix + strconv.Itoa(c.Row)
	}
	return c.Column + strconv.Itoa(c.Row)
}

// MarshalText renders the coordinate the way it appears in reports.
func (c Coordinate) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a coordinate previously produced by MarshalText.
func (c *Coordinate) UnmarshalText(text []byte) error {
	parsed, err := ParseCoordinate(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCoordinate parses "B7" or "Row 3".
func ParseCoordinate(s string) (Coordinate, error) {
	if rest, ok := strings.CutPrefix(s, rowMarkerPrefix); ok {
		row, err := strconv.Atoi(rest)
		if err != nil || row < 1 {
			return Coordinate{}, fmt.Errorf("invalid row marker %q", s)
		}
		return RowCoordinate(row), nil
	}

	column, row, err := excelize.SplitCellName(s)
	if err != nil || row < 1 {
		return Coordinate{}, fmt.Errorf("invalid cell coordinate %q", s)
	}
	return CellCoordinate(column, row), nil
}

// Violation represents a single validation failure
type Violation struct {
	Coordinate Coordinate `json:"location"`
	Messages   []string   `json:"messages"`

	// SheetRow is the physical worksheet row the coordinate was read from.
	// Coordinates count only non-blank rows, so the two differ once a blank
	// row has been skipped.
	SheetRow int `json:"sheet_row,omitempty"`
}

// Text joins the violation messages the way they are written to the log sheet.
func (v Violation) Text() string {
	return strings.Join(v.Messages, ", ")
}

// Violations represents a collection of validation failures in discovery order.
type Violations struct {
	Violations []Violation `json:"violations"`
}

// NewViolations returns an empty log.
func NewViolations() *Violations {
	return &Violations{Violations: []Violation{}}
}

// Add appends a violation. Entries are never merged or reordered.
func (v *Violations) Add(coord Coordinate, sheetRow int, messages ...string) {
	v.Violations = append(v.Violations, Violation{
		Coordinate: coord,
		Messages:   append([]string(nil), messages...),
		SheetRow:   sheetRow,
	})
}

// Len returns the number of recorded violations.
func (v *Violations) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Violations)
}

// Empty reports whether nothing was recorded.
func (v *Violations) Empty() bool {
	return v.Len() == 0
}
