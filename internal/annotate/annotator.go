package annotate

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/excel-validator/internal/types"
	"github.com/jonathan/excel-validator/internal/workbook"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// LogSheetName is the name of the sheet listing every violation.
const LogSheetName = "Log"

// DefaultFillColor is the solid red used to mark broken cells.
const DefaultFillColor = "FF0000"

// StorageError represents a failure opening or saving the annotated workbook.
// It aborts the run.
type StorageError struct {
	Path    string
	Message string
	Cause   error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage error: %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("storage error: %s: %s", e.Path, e.Message)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// Options configures an Annotator.
type Options struct {
	SheetName     string
	OutputDir     string
	MaxFileSize   int64 // bytes; sources above it are refused unless NoSizeLimit
	NoSizeLimit   bool
	WriteMessages bool   // write the joined messages into marked cells
	FillColor     string // RRGGBB, DefaultFillColor when empty
	Excludes      map[int]bool
	Now           func() time.Time
}

// Outcome describes the result of Annotate.
type Outcome struct {
	Path              string
	SizeLimitExceeded bool
	Size              int64
	Marked            int // cells filled
	LogSheet          string
}

// Annotator marks violations in a copy of the source workbook.
type Annotator struct {
	opts   Options
	logger *zap.Logger
}

// New returns an Annotator. A nil logger disables logging.
func New(opts Options, logger *zap.Logger) *Annotator {
	if opts.FillColor == "" {
		opts.FillColor = DefaultFillColor
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Annotator{opts: opts, logger: logger}
}

// Annotate checks the source size, fills every violating cell, appends the
// log sheet and saves the result in the output directory. The source file
// itself is never modified.
func (a *Annotator) Annotate(source string, log *types.Violations) (*Outcome, error) {
	if log == nil {
		log = types.NewViolations()
	}
	info, err := os.Stat(source)
	if err != nil {
		return nil, &StorageError{Path: source, Message: "failed to stat source file", Cause: err}
	}
	if a.opts.MaxFileSize > 0 && info.Size() > a.opts.MaxFileSize && !a.opts.NoSizeLimit {
		a.logger.Warn("source file exceeds size limit",
			zap.String("file", source),
			zap.Int64("size", info.Size()),
			zap.Int64("limit", a.opts.MaxFileSize),
		)
		return &Outcome{SizeLimitExceeded: true, Size: info.Size()}, nil
	}

	if err := os.MkdirAll(a.opts.OutputDir, 0755); err != nil {
		return nil, &StorageError{Path: a.opts.OutputDir, Message: "failed to create output directory", Cause: err}
	}

	wb, err := workbook.Open(source)
	if err != nil {
		return nil, &StorageError{Path: source, Message: "failed to open workbook", Cause: err}
	}
	defer wb.Close()

	creator, err := wb.Creator()
	if err != nil {
		return nil, &StorageError{Path: source, Message: "failed to read workbook properties", Cause: err}
	}

	sheet, err := wb.Sheet(a.opts.SheetName)
	if err != nil {
		return nil, &StorageError{Path: source, Message: "failed to open sheet", Cause: err}
	}

	marked, err := a.mark(sheet, log)
	if err != nil {
		return nil, &StorageError{Path: source, Message: "failed to mark violations", Cause: err}
	}

	logSheet, err := writeLog(wb, log)
	if err != nil {
		return nil, &StorageError{Path: source, Message: "failed to write log sheet", Cause: err}
	}

	if err := wb.SetCreator(creator); err != nil {
		return nil, &StorageError{Path: source, Message: "failed to keep workbook creator", Cause: err}
	}

	out := filepath.Join(a.opts.OutputDir, OutputName(source, a.opts.Now()))
	if err := wb.SaveAs(out); err != nil {
		return nil, &StorageError{Path: out, Message: "failed to save annotated workbook", Cause: err}
	}

	a.logger.Info("annotated workbook saved",
		zap.String("path", out),
		zap.Int("violations", log.Len()),
		zap.Int("marked_cells", marked),
		zap.Bool("macros", wb.Macros()),
	)
	return &Outcome{Path: out, Size: info.Size(), Marked: marked, LogSheet: logSheet}, nil
}

// mark fills the cell of each single-cell violation and every non-excluded
// used cell of each row-level violation.
func (a *Annotator) mark(sheet *workbook.Sheet, log *types.Violations) (int, error) {
	if log.Len() == 0 {
		return 0, nil
	}
	maxCol, _, err := sheet.Dimensions()
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, v := range log.Violations {
		row := v.SheetRow
		if row == 0 {
			row = v.Coordinate.Row
		}

		if v.Coordinate.IsRow() {
			for col := 1; col <= maxCol; col++ {
				if a.opts.Excludes[col] {
					continue
				}
				if err := sheet.Fill(col, row, a.opts.FillColor); err != nil {
					return marked, err
				}
				marked++
			}
			continue
		}

		col, err := excelize.ColumnNameToNumber(v.Coordinate.Column)
		if err != nil {
			return marked, fmt.Errorf("invalid violation column %q: %w", v.Coordinate.Column, err)
		}
		if a.opts.Excludes[col] {
			continue
		}
		if a.opts.WriteMessages {
			if err := sheet.SetValue(col, row, v.Text()); err != nil {
				return marked, err
			}
		}
		if err := sheet.Fill(col, row, a.opts.FillColor); err != nil {
			return marked, err
		}
		marked++
	}
	return marked, nil
}

// writeLog appends the log sheet: a bold header and one row per violation.
func writeLog(wb *workbook.Workbook, log *types.Violations) (string, error) {
	sheet, err := wb.AddSheet(LogSheetName)
	if err != nil {
		return "", err
	}
	if err := sheet.SetRow(1, []string{"Location", "Validation error"}, true); err != nil {
		return "", err
	}
	for i, v := range log.Violations {
		if err := sheet.SetRow(i+2, []string{v.Coordinate.String(), v.Text()}, false); err != nil {
			return "", err
		}
	}
	return sheet.Name(), nil
}
