// Package scan walks a worksheet row by row and applies a rule set to the
// header row and to every data cell, collecting violations.
package scan

import (
	"fmt"

	"github.com/jonathan/excel-validator/internal/rules"
	"github.com/jonathan/excel-validator/internal/types"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// UnreadableMessage is recorded for a cell whose value cannot be read.
const UnreadableMessage = "Value could not be read"

// Sheet is the read side of a worksheet. Rows and columns are one-based.
type Sheet interface {
	// Dimensions returns the last used column and row.
	Dimensions() (maxCol, maxRow int, err error)
	// Value returns nil, string, float64, bool or time.Time.
	Value(col, row int) (any, error)
}

type state int

const (
	scanningHeader state = iota
	scanningData
	done
)

func (s state) String() string {
	switch s {
	case scanningHeader:
		return "header"
	case scanningData:
		return "data"
	default:
		return "done"
	}
}

// Scanner applies a RuleSet to worksheets.
type Scanner struct {
	rules  *rules.RuleSet
	logger *zap.Logger
}

// New returns a Scanner for rs. A nil logger disables logging.
func New(rs *rules.RuleSet, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{rules: rs, logger: logger}
}

// cell is one value read from the current row. Excluded cells are read
// only to decide whether the row is blank.
type cell struct {
	col      int
	letter   string
	excluded bool
	value    any
	err      error
}

// Stats summarises a scan.
type Stats struct {
	Rows      int // physical rows inside the range
	DataRows  int // non-blank rows validated as data
	BlankRows int
}

// Scan validates the sheet and returns the violations in discovery order.
// Only a failure to read the sheet's dimensions is returned as an error;
// unreadable cells become violations.
func (s *Scanner) Scan(sheet Sheet) (*types.Violations, error) {
	log, _, err := s.ScanWithStats(sheet)
	return log, err
}

// ScanWithStats is Scan that also reports row counts.
func (s *Scanner) ScanWithStats(sheet Sheet) (*types.Violations, Stats, error) {
	var stats Stats

	maxCol, maxRow, err := sheet.Dimensions()
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read sheet dimensions: %w", err)
	}
	firstCol, lastCol, firstRow, lastRow := s.rules.Range.Bounds(maxCol, maxRow)

	columns := make([]cell, 0, max(lastCol-firstCol+1, 0))
	for col := firstCol; col <= lastCol; col++ {
		letter, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return nil, stats, fmt.Errorf("failed to name column %d: %w", col, err)
		}
		columns = append(columns, cell{col: col, letter: letter, excluded: s.rules.Excluded(col)})
	}

	s.logger.Debug("scan started",
		zap.Int("first_column", firstCol),
		zap.Int("last_column", lastCol),
		zap.Int("first_row", firstRow),
		zap.Int("last_row", lastRow),
		zap.Int("header_row", s.rules.HeaderRow),
	)

	log := types.NewViolations()
	st := scanningData
	if s.rules.HeaderRow > 0 {
		st = scanningHeader
	}

	// Rows above the range count as if they were read, so coordinates stay
	// sheet-relative when the range starts below row 1.
	logical := firstRow - 1
	for row := firstRow; row <= lastRow; row++ {
		stats.Rows++
		cells := readRow(sheet, columns, row)
		if blank(cells) {
			stats.BlankRows++
			continue
		}
		logical++

		switch st {
		case scanningHeader:
			if logical < s.rules.HeaderRow {
				continue
			}
			s.checkHeader(cells, row, log)
			st = scanningData
		case scanningData:
			stats.DataRows++
			s.checkRow(sheet, cells, row, logical, log)
		}
	}
	st = done

	s.logger.Debug("scan finished",
		zap.Stringer("state", st),
		zap.Int("rows", stats.Rows),
		zap.Int("data_rows", stats.DataRows),
		zap.Int("blank_rows", stats.BlankRows),
		zap.Int("violations", log.Len()),
	)
	return log, stats, nil
}

func readRow(sheet Sheet, columns []cell, row int) []cell {
	cells := make([]cell, len(columns))
	for i, c := range columns {
		c.value, c.err = sheet.Value(c.col, row)
		cells[i] = c
	}
	return cells
}

// blank reports whether every readable cell of the row is empty, excluded
// cells included. A row with an unreadable cell is not blank.
func blank(cells []cell) bool {
	for _, c := range cells {
		if c.err != nil || !rules.IsBlank(c.value) {
			return false
		}
	}
	return true
}

// checkHeader runs the header chain. Order rules see the whole sequence of
// header values; other rules see each value in turn. The first failure is
// recorded against the header row and ends header evaluation.
func (s *Scanner) checkHeader(cells []cell, row int, log *types.Violations) {
	header := s.rules.HeaderRow
	sequence := make([]any, 0, len(cells))
	for _, c := range cells {
		if c.excluded {
			continue
		}
		if c.err != nil {
			log.Add(types.CellCoordinate(c.letter, header), row, UnreadableMessage)
			s.logger.Warn("header cell unreadable", zap.String("cell", c.letter), zap.Int("row", row), zap.Error(c.err))
			sequence = append(sequence, nil)
			continue
		}
		sequence = append(sequence, c.value)
	}

	for _, v := range s.rules.Header {
		if v.Kind().HeaderOnly() {
			if !v.Validate(sequence) {
				s.headerFailed(v, row, log)
				return
			}
			continue
		}
		for _, value := range sequence {
			if !v.Validate(value) {
				s.headerFailed(v, row, log)
				return
			}
		}
	}
}

func (s *Scanner) headerFailed(v rules.Validator, row int, log *types.Violations) {
	log.Add(types.RowCoordinate(s.rules.HeaderRow), row, v.Message())
	s.logger.Debug("header rule failed", zap.String("rule", string(v.Kind())), zap.Int("sheet_row", row))
}

// checkRow evaluates every non-excluded cell of a data row. Coordinates use
// the logical row; conditional references read the same physical row.
func (s *Scanner) checkRow(sheet Sheet, cells []cell, row, logical int, log *types.Violations) {
	resolve := func(column string) (any, error) {
		for _, c := range cells {
			if c.letter == column {
				return c.value, c.err
			}
		}
		col, err := excelize.ColumnNameToNumber(column)
		if err != nil {
			return nil, err
		}
		return sheet.Value(col, row)
	}

	for _, c := range cells {
		if c.excluded {
			continue
		}
		coord := types.CellCoordinate(c.letter, logical)
		if c.err != nil {
			log.Add(coord, row, UnreadableMessage)
			s.logger.Warn("cell unreadable", zap.Stringer("cell", coord), zap.Int("sheet_row", row), zap.Error(c.err))
			continue
		}

		chain := s.rules.ChainFor(c.letter)
		if len(chain) == 0 {
			continue
		}
		if passed, messages := chain.Evaluate(c.value, resolve); !passed {
			log.Add(coord, row, messages...)
			s.logger.Debug("cell rule failed", zap.Stringer("cell", coord), zap.Strings("messages", messages))
		}
	}
}
