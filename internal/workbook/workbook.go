package workbook

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook is an open spreadsheet file.
type Workbook struct {
	f    *excelize.File
	path string

	// style ids are shared by every sheet
	dateStyles map[int]bool
	fills      map[fillKey]int
	bold       int
}

type fillKey struct {
	base  int
	color string
}

// Open opens an .xlsx or .xlsm workbook. Macros in .xlsm files are kept
// when the workbook is saved under the same extension.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &Error{Path: path, Message: "failed to open workbook", Cause: err}
	}
	return wrap(f, path), nil
}

// New creates an empty in-memory workbook with a single "Sheet1".
func New() *Workbook {
	return wrap(excelize.NewFile(), "")
}

func wrap(f *excelize.File, path string) *Workbook {
	return &Workbook{
		f:          f,
		path:       path,
		dateStyles: make(map[int]bool),
		fills:      make(map[fillKey]int),
		bold:       -1,
	}
}

// Close releases the workbook and its temporary files.
func (w *Workbook) Close() error {
	if err := w.f.Close(); err != nil {
		return &Error{Path: w.path, Message: "failed to close workbook", Cause: err}
	}
	return nil
}

// Path returns the file the workbook was opened from or last saved to.
func (w *Workbook) Path() string { return w.path }

// Macros reports whether the workbook was opened from a macro-enabled file.
func (w *Workbook) Macros() bool {
	return strings.EqualFold(filepath.Ext(w.path), ".xlsm")
}

// Creator returns the document creator recorded in the workbook properties.
func (w *Workbook) Creator() (string, error) {
	props, err := w.f.GetDocProps()
	if err != nil {
		return "", &Error{Path: w.path, Message: "failed to read document properties", Cause: err}
	}
	return props.Creator, nil
}

// SetCreator records the document creator.
func (w *Workbook) SetCreator(creator string) error {
	props, err := w.f.GetDocProps()
	if err != nil {
		return &Error{Path: w.path, Message: "failed to read document properties", Cause: err}
	}
	props.Creator = creator
	if err := w.f.SetDocProps(props); err != nil {
		return &Error{Path: w.path, Message: "failed to write document properties", Cause: err}
	}
	return nil
}

// SheetNames lists the worksheets in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// Sheet returns the named worksheet.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	idx, err := w.f.GetSheetIndex(name)
	if err != nil {
		return nil, &Error{Path: w.path, Message: fmt.Sprintf("failed to look up sheet %q", name), Cause: err}
	}
	if idx < 0 {
		return nil, &Error{Path: w.path, Message: fmt.Sprintf("sheet %q not found", name)}
	}
	return &Sheet{wb: w, name: name}, nil
}

// AddSheet appends a worksheet. When the name is taken a numeric suffix is
// added ("Log", "Log1", "Log2", ...).
func (w *Workbook) AddSheet(name string) (*Sheet, error) {
	unique := name
	for i := 1; ; i++ {
		idx, err := w.f.GetSheetIndex(unique)
		if err != nil {
			return nil, &Error{Path: w.path, Message: fmt.Sprintf("failed to look up sheet %q", unique), Cause: err}
		}
		if idx < 0 {
			break
		}
		unique = fmt.Sprintf("%s%d", name, i)
	}

	if _, err := w.f.NewSheet(unique); err != nil {
		return nil, &Error{Path: w.path, Message: fmt.Sprintf("failed to add sheet %q", unique), Cause: err}
	}
	return &Sheet{wb: w, name: unique}, nil
}

// SaveAs writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	if err := w.f.SaveAs(path); err != nil {
		return &Error{Path: path, Message: "failed to save workbook", Cause: err}
	}
	w.path = path
	return nil
}

// fillStyle returns a style equal to base with a solid fill of rgb.
func (w *Workbook) fillStyle(base int, rgb string) (int, error) {
	key := fillKey{base: base, color: rgb}
	if id, ok := w.fills[key]; ok {
		return id, nil
	}

	style, err := w.f.GetStyle(base)
	if err != nil {
		return 0, err
	}
	filled := *style
	filled.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{rgb}}

	id, err := w.f.NewStyle(&filled)
	if err != nil {
		return 0, err
	}
	w.fills[key] = id
	return id, nil
}

func (w *Workbook) boldStyle() (int, error) {
	if w.bold >= 0 {
		return w.bold, nil
	}
	id, err := w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, err
	}
	w.bold = id
	return id, nil
}

// isDateStyle reports whether cells with the style id display as dates.
func (w *Workbook) isDateStyle(id int) bool {
	if isDate, ok := w.dateStyles[id]; ok {
		return isDate
	}
	isDate := false
	if style, err := w.f.GetStyle(id); err == nil {
		isDate = isDateFormat(style)
	}
	w.dateStyles[id] = isDate
	return isDate
}

func isDateFormat(style *excelize.Style) bool {
	if style.CustomNumFmt != nil {
		return isDatePattern(*style.CustomNumFmt)
	}
	n := style.NumFmt
	return (n >= 14 && n <= 22) || (n >= 27 && n <= 36) || (n >= 45 && n <= 47) || (n >= 50 && n <= 58)
}

// isDatePattern looks for date or time tokens outside quoted literals,
// escapes and bracketed sections such as colours and locales.
func isDatePattern(format string) bool {
	var sb strings.Builder
	inQuote, inBracket := false, false
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch {
		case inQuote:
			inQuote = c != '"'
		case inBracket:
			inBracket = c != ']'
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\' || c == '_' || c == '*':
			i++
		default:
			sb.WriteByte(c)
		}
	}
	return strings.ContainsAny(strings.ToLower(sb.String()), "ydhs")
}
