package workbook

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// dateLayouts are the forms excelize stores ISO 8601 date cells in.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// Sheet is one worksheet of a Workbook. Rows and columns are one-based.
type Sheet struct {
	wb   *Workbook
	name string
}

// Name returns the worksheet name.
func (s *Sheet) Name() string { return s.name }

// Dimensions returns the last used column and row.
func (s *Sheet) Dimensions() (maxCol, maxRow int, err error) {
	rows, err := s.wb.f.GetRows(s.name, excelize.Options{RawCellValue: true})
	if err != nil {
		return 0, 0, &Error{Path: s.wb.path, Message: "failed to read rows of sheet " + s.name, Cause: err}
	}
	for _, row := range rows {
		if len(row) > maxCol {
			maxCol = len(row)
		}
	}
	return maxCol, len(rows), nil
}

// Value returns the typed value of a cell: nil when empty, string, float64,
// bool or time.Time. Cells holding a spreadsheet error such as #N/A are
// reported as a *CellError.
func (s *Sheet) Value(col, row int) (any, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, &CellError{Sheet: s.name, Message: "invalid coordinates", Cause: err}
	}

	f := s.wb.f
	typ, err := f.GetCellType(s.name, cell)
	if err != nil {
		return nil, &CellError{Sheet: s.name, Cell: cell, Message: "failed to read cell type", Cause: err}
	}
	raw, err := f.GetCellValue(s.name, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &CellError{Sheet: s.name, Cell: cell, Message: "failed to read cell value", Cause: err}
	}

	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	case excelize.CellTypeError:
		return nil, &CellError{Sheet: s.name, Cell: cell, Message: "cell holds the error value " + raw}
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		if raw == "" {
			return nil, nil
		}
		return raw, nil
	case excelize.CellTypeDate:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return nil, &CellError{Sheet: s.name, Cell: cell, Message: "unrecognised date " + strconv.Quote(raw)}
	}

	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw, nil
	}

	styleID, err := f.GetCellStyle(s.name, cell)
	if err == nil && styleID > 0 && s.wb.isDateStyle(styleID) {
		if t, err := excelize.ExcelDateToTime(n, false); err == nil {
			return t, nil
		}
	}
	return n, nil
}

// Fill gives the cell a solid background of rgb (RRGGBB), keeping its
// font, border, alignment and number format.
func (s *Sheet) Fill(col, row int, rgb string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return &CellError{Sheet: s.name, Message: "invalid coordinates", Cause: err}
	}

	f := s.wb.f
	base, err := f.GetCellStyle(s.name, cell)
	if err != nil {
		return &CellError{Sheet: s.name, Cell: cell, Message: "failed to read cell style", Cause: err}
	}
	id, err := s.wb.fillStyle(base, rgb)
	if err != nil {
		return &CellError{Sheet: s.name, Cell: cell, Message: "failed to create fill style", Cause: err}
	}
	if err := f.SetCellStyle(s.name, cell, cell, id); err != nil {
		return &CellError{Sheet: s.name, Cell: cell, Message: "failed to set cell style", Cause: err}
	}
	return nil
}

// FillColor returns the solid fill colour of a cell, or "" when it has none.
func (s *Sheet) FillColor(col, row int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", &CellError{Sheet: s.name, Message: "invalid coordinates", Cause: err}
	}
	id, err := s.wb.f.GetCellStyle(s.name, cell)
	if err != nil {
		return "", &CellError{Sheet: s.name, Cell: cell, Message: "failed to read cell style", Cause: err}
	}
	style, err := s.wb.f.GetStyle(id)
	if err != nil {
		return "", &CellError{Sheet: s.name, Cell: cell, Message: "failed to read style", Cause: err}
	}
	if style.Fill.Pattern != 1 || len(style.Fill.Color) == 0 {
		return "", nil
	}
	return strings.ToUpper(style.Fill.Color[0]), nil
}

// SetValue writes a value into a cell.
func (s *Sheet) SetValue(col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return &CellError{Sheet: s.name, Message: "invalid coordinates", Cause: err}
	}
	if err := s.wb.f.SetCellValue(s.name, cell, value); err != nil {
		return &CellError{Sheet: s.name, Cell: cell, Message: "failed to write cell", Cause: err}
	}
	return nil
}

// SetRow writes text values starting at column A. A bold row is used for
// table headers.
func (s *Sheet) SetRow(row int, values []string, bold bool) error {
	if len(values) == 0 {
		return nil
	}
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return &CellError{Sheet: s.name, Message: "invalid coordinates", Cause: err}
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := s.wb.f.SetSheetRow(s.name, first, &cells); err != nil {
		return &CellError{Sheet: s.name, Cell: first, Message: "failed to write row", Cause: err}
	}
	if !bold {
		return nil
	}

	last, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return &CellError{Sheet: s.name, Message: "invalid coordinates", Cause: err}
	}
	id, err := s.wb.boldStyle()
	if err != nil {
		return &CellError{Sheet: s.name, Cell: first, Message: "failed to create bold style", Cause: err}
	}
	if err := s.wb.f.SetCellStyle(s.name, first, last, id); err != nil {
		return &CellError{Sheet: s.name, Cell: first, Message: "failed to set row style", Cause: err}
	}
	return nil
}

// Rows returns the formatted text of every used row.
func (s *Sheet) Rows() ([][]string, error) {
	rows, err := s.wb.f.GetRows(s.name)
	if err != nil {
		return nil, &Error{Path: s.wb.path, Message: "failed to read rows of sheet " + s.name, Cause: err}
	}
	return rows, nil
}
