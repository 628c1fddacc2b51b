package rules

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/itchyny/timefmt-go"
	"github.com/xuri/excelize/v2"
)

// dateProbe is formatted and parsed back to check a configured format.
var dateProbe = time.Date(2024, time.March, 1, 13, 4, 5, 0, time.UTC)

// Date requires a textual value to parse as a date in the declared format.
// Formats with % directives are strftime formats; anything else is taken
// as a Go layout. Values already stored as dates pass.
type Date struct {
	base
	format string
	layout string
}

func newDate(r paramReader) (*Date, error) {
	b, err := newBase(r, "Value is not a valid date")
	if err != nil {
		return nil, err
	}
	format, err := r.String("format", "%Y-%m-%d")
	if err != nil {
		return nil, err
	}
	if !strings.Contains(format, "%") {
		return &Date{base: b, layout: format}, nil
	}
	if _, err := timefmt.Parse(timefmt.Format(dateProbe, format), format); err != nil {
		return nil, &ConfigError{Kind: KindDate, Param: "format", Message: fmt.Sprintf("unsupported date format %q", format), Cause: err}
	}
	return &Date{base: b, format: format}, nil
}

func (v *Date) Validate(value any) bool {
	switch val := value.(type) {
	case nil:
		return true
	case time.Time:
		return true
	case string:
		if val == "" {
			return true
		}
		if v.layout != "" {
			_, err := time.Parse(v.layout, val)
			return err == nil
		}
		_, err := timefmt.Parse(val, v.format)
		return err == nil
	default:
		return false
	}
}

// maxExcelSerial is the day after 9999-12-31, the last date a workbook can hold.
const maxExcelSerial = 2958466

// ExcelDate requires the stored value to be a spreadsheet serial date.
type ExcelDate struct {
	base
}

func newExcelDate(r paramReader) (*ExcelDate, error) {
	b, err := newBase(r, "Value is not a valid Excel date")
	if err != nil {
		return nil, err
	}
	return &ExcelDate{base: b}, nil
}

func (v *ExcelDate) Validate(value any) bool {
	var serial float64
	switch val := value.(type) {
	case nil:
		return true
	case time.Time:
		return true
	case float64:
		serial = val
	case int:
		serial = float64(val)
	case string:
		if val == "" {
			return true
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return false
		}
		serial = f
	default:
		return false
	}
	if serial <= 0 || serial >= maxExcelSerial {
		return false
	}
	_, err := excelize.ExcelDateToTime(serial, false)
	return err == nil
}
