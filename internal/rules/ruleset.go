package rules

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Range bounds the scan. Zero fields are open and default to the used range.
type Range struct {
	FirstColumn int
	LastColumn  int
	FirstRow    int
	LastRow     int
}

// Bounds clips the range against the used dimensions of a sheet and returns
// the inclusive column and row limits. The last column is not clipped: an
// explicit range may reach past the used columns.
func (r Range) Bounds(maxCol, maxRow int) (firstCol, lastCol, firstRow, lastRow int) {
	firstCol, lastCol = 1, maxCol
	firstRow, lastRow = 1, maxRow
	if r.FirstColumn > 0 {
		firstCol = r.FirstColumn
	}
	if r.LastColumn > 0 {
		lastCol = r.LastColumn
	}
	if r.FirstRow > 0 {
		firstRow = r.FirstRow
	}
	if r.LastRow > 0 && r.LastRow < maxRow {
		lastRow = r.LastRow
	}
	return firstCol, lastCol, firstRow, lastRow
}

// String renders the range as "A:D" or "A2:D50".
func (r Range) String() string {
	name := func(col int) string {
		if col <= 0 {
			return ""
		}
		s, _ := excelize.ColumnNumberToName(col)
		return s
	}
	row := func(n int) string {
		if n <= 0 {
			return ""
		}
		return fmt.Sprint(n)
	}
	return name(r.FirstColumn) + row(r.FirstRow) + ":" + name(r.LastColumn) + row(r.LastRow)
}

// RuleSet is the fully built validation configuration for one sheet.
type RuleSet struct {
	// Columns maps upper-case column letters to their chains.
	Columns map[string]Chain
	Header  Chain
	Default Chain
	// Excludes holds one-based column indexes that are never read or marked.
	Excludes  map[int]bool
	HeaderRow int
	Range     Range
}

// Excluded reports whether the one-based column index is excluded.
func (rs *RuleSet) Excluded(col int) bool {
	return rs.Excludes[col]
}

// ChainFor returns the chain for a column: its explicit entry, else the
// default chain, else nil.
func (rs *RuleSet) ChainFor(column string) Chain {
	if chain, ok := rs.Columns[strings.ToUpper(column)]; ok {
		return chain
	}
	return rs.Default
}

// Check verifies the structural invariants of a rule set built by hand or
// from configuration: header-only kinds stay in the header chain and column
// keys and conditional references name real columns.
func (rs *RuleSet) Check() error {
	for column, chain := range rs.Columns {
		if _, err := excelize.ColumnNameToNumber(column); err != nil {
			return &ConfigError{Message: fmt.Sprintf("column %q is not a valid column", column), Cause: err}
		}
		if err := checkChain(chain, "column "+column); err != nil {
			return err
		}
	}
	if err := checkChain(rs.Default, "default"); err != nil {
		return err
	}
	for _, v := range rs.Header {
		if _, ok := v.(PairValidator); ok {
			return &ConfigError{Kind: v.Kind(), Message: "not allowed in the header chain"}
		}
	}
	if rs.HeaderRow < 0 {
		return &ConfigError{Param: "header", Message: "header row must be positive"}
	}
	r := rs.Range
	if r.FirstColumn > 0 && r.LastColumn > 0 && r.FirstColumn > r.LastColumn {
		return &ConfigError{Param: "range", Message: fmt.Sprintf("range %s is reversed", r)}
	}
	if r.FirstRow > 0 && r.LastRow > 0 && r.FirstRow > r.LastRow {
		return &ConfigError{Param: "range", Message: fmt.Sprintf("range %s is reversed", r)}
	}
	return nil
}

func checkChain(chain Chain, where string) error {
	for _, v := range chain {
		if v.Kind().HeaderOnly() {
			return &ConfigError{Kind: v.Kind(), Message: "only allowed in the header chain, found in " + where}
		}
		if pair, ok := v.(PairValidator); ok {
			if _, err := excelize.ColumnNameToNumber(pair.Reference()); err != nil {
				return &ConfigError{Kind: v.Kind(), Param: "fieldB", Message: "reference is not a valid column", Cause: err}
			}
		}
	}
	return nil
}
