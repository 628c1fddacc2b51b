package annotate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/excel-validator/internal/types"
	"github.com/jonathan/excel-validator/internal/workbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// writeSource creates a workbook with a header row, a blank row and data.
func writeSource(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]any{
		{"Name", "Age", "Email", "Notes"},
		{},
		{"", "41", "jane@example.com", "x"},
		{"Bob", "", "bob@", "y"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		if len(row) > 0 {
			require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
		}
	}
	require.NoError(t, f.SetDocProps(&excelize.DocProperties{Creator: "Data Team"}))

	path := filepath.Join(dir, "people.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func sampleLog() *types.Violations {
	log := types.NewViolations()
	log.Add(types.RowCoordinate(1), 1, "The order is not valid")
	log.Add(types.CellCoordinate("A", 2), 3, "Cell can not be blank")
	log.Add(types.CellCoordinate("C", 3), 4, "Value is not a valid email address")
	log.Add(types.CellCoordinate("D", 3), 4, "Value length is not valid")
	return log
}

func TestRender(t *testing.T) {
	log := sampleLog()

	got := Render(log)
	assert.Equal(t, strings.Join([]string{
		"Broken Excel cell: Row 1 [The order is not valid]",
		"Broken Excel cell: A2 [Cell can not be blank]",
		"Broken Excel cell: C3 [Value is not a valid email address]",
		"Broken Excel cell: D3 [Value length is not valid]",
	}, "\n")+"\n", got)

	assert.Equal(t, got, Render(log), "rendering is idempotent")
	assert.Empty(t, Render(nil))
	assert.Empty(t, Render(types.NewViolations()))
}

func TestOutputName(t *testing.T) {
	name := OutputName("/data/in/people.xlsx", fixedNow)
	assert.Equal(t, "errors_2024-03-01_1709294400_people.xlsx", name)
}

func TestAnnotate_SizeLimit(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)
	out := filepath.Join(dir, "out")

	a := New(Options{SheetName: "Sheet1", OutputDir: out, MaxFileSize: 10, Now: func() time.Time { return fixedNow }}, zaptest.NewLogger(t))
	outcome, err := a.Annotate(src, sampleLog())
	require.NoError(t, err)
	assert.True(t, outcome.SizeLimitExceeded)
	assert.Empty(t, outcome.Path)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "nothing is written when the limit is hit")
}

func TestAnnotate_NoSizeLimitOverride(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)

	a := New(Options{SheetName: "Sheet1", OutputDir: dir, MaxFileSize: 10, NoSizeLimit: true}, nil)
	outcome, err := a.Annotate(src, sampleLog())
	require.NoError(t, err)
	assert.False(t, outcome.SizeLimitExceeded)
	assert.FileExists(t, outcome.Path)
}

func TestAnnotate_MarksAndLogs(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)
	before, err := os.ReadFile(src)
	require.NoError(t, err)

	log := sampleLog()
	a := New(Options{
		SheetName:   "Sheet1",
		OutputDir:   filepath.Join(dir, "tmp", "nested"),
		MaxFileSize: 10485760,
		Excludes:    map[int]bool{4: true},
		Now:         func() time.Time { return fixedNow },
	}, nil)

	outcome, err := a.Annotate(src, log)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tmp", "nested", "errors_2024-03-01_1709294400_people.xlsx"), outcome.Path)
	assert.Equal(t, LogSheetName, outcome.LogSheet)
	// header row: A, B, C (D excluded); A2 at row 3; C3 at row 4; D3 excluded
	assert.Equal(t, 5, outcome.Marked)

	after, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, before, after, "source is never modified")

	wb, err := workbook.Open(outcome.Path)
	require.NoError(t, err)
	defer wb.Close()

	creator, err := wb.Creator()
	require.NoError(t, err)
	assert.Equal(t, "Data Team", creator)

	sheet, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	filled := func(col, row int) bool {
		color, err := sheet.FillColor(col, row)
		require.NoError(t, err)
		return strings.HasSuffix(color, DefaultFillColor)
	}
	assert.True(t, filled(1, 1))
	assert.True(t, filled(3, 1))
	assert.False(t, filled(4, 1), "excluded header cell is not marked")
	assert.True(t, filled(1, 3), "A2 is marked on the physical row it was read from")
	assert.False(t, filled(1, 2))
	assert.True(t, filled(3, 4))
	assert.False(t, filled(4, 4), "excluded column is never annotated")
	assert.False(t, filled(2, 4))

	logSheet, err := wb.Sheet(LogSheetName)
	require.NoError(t, err)
	rows, err := logSheet.Rows()
	require.NoError(t, err)
	require.Len(t, rows, log.Len()+1)
	assert.Equal(t, []string{"Location", "Validation error"}, rows[0])
	for i, v := range log.Violations {
		assert.Equal(t, []string{v.Coordinate.String(), v.Text()}, rows[i+1])
	}
}

func TestAnnotate_WriteMessages(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)

	log := types.NewViolations()
	log.Add(types.CellCoordinate("C", 3), 4, "Value is not a valid email address", "Custom note")

	a := New(Options{SheetName: "Sheet1", OutputDir: dir, MaxFileSize: 10485760, WriteMessages: true}, nil)
	outcome, err := a.Annotate(src, log)
	require.NoError(t, err)

	wb, err := workbook.Open(outcome.Path)
	require.NoError(t, err)
	defer wb.Close()

	sheet, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	v, err := sheet.Value(3, 4)
	require.NoError(t, err)
	assert.Equal(t, "Value is not a valid email address, Custom note", v)
}

func TestAnnotate_LogSheetNameTaken(t *testing.T) {
	dir := t.TempDir()
	f := excelize.NewFile()
	_, err := f.NewSheet("Log")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "x"))
	src := filepath.Join(dir, "book.xlsx")
	require.NoError(t, f.SaveAs(src))
	require.NoError(t, f.Close())

	log := types.NewViolations()
	log.Add(types.CellCoordinate("A", 1), 1, "Cell can not be blank")

	outcome, err := New(Options{SheetName: "Sheet1", OutputDir: dir, MaxFileSize: 10485760}, nil).Annotate(src, log)
	require.NoError(t, err)
	assert.Equal(t, "Log1", outcome.LogSheet)
}

func TestAnnotate_StorageErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing source", func(t *testing.T) {
		_, err := New(Options{SheetName: "Sheet1", OutputDir: dir}, nil).Annotate(filepath.Join(dir, "missing.xlsx"), sampleLog())
		var storageErr *StorageError
		require.True(t, errors.As(err, &storageErr))
	})

	t.Run("not a workbook", func(t *testing.T) {
		src := filepath.Join(dir, "fake.xlsx")
		require.NoError(t, os.WriteFile(src, []byte("not a zip"), 0644))

		_, err := New(Options{SheetName: "Sheet1", OutputDir: dir}, nil).Annotate(src, sampleLog())
		var storageErr *StorageError
		require.True(t, errors.As(err, &storageErr))
		assert.Contains(t, err.Error(), "failed to open workbook")
	})

	t.Run("missing sheet", func(t *testing.T) {
		src := writeSource(t, t.TempDir())
		_, err := New(Options{SheetName: "Data", OutputDir: dir}, nil).Annotate(src, sampleLog())
		var storageErr *StorageError
		require.True(t, errors.As(err, &storageErr))
		assert.Contains(t, err.Error(), `sheet "Data" not found`)
	})
}

func TestReport_WriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.json")
	log := sampleLog()

	r := NewReport("run-1", "/data/people.xlsx", "Sheet1", log, fixedNow)
	assert.Equal(t, "people.xlsx", r.File)
	assert.Equal(t, 4, r.ErrorCount)
	require.NoError(t, WriteReport(path, r))

	got, err := ReadReport(path)
	require.NoError(t, err)
	assert.Equal(t, r.RunID, got.RunID)
	assert.True(t, r.GeneratedAt.Equal(got.GeneratedAt))
	assert.Equal(t, log.Violations, got.Violations)
}

func TestReport_EmptyLog(t *testing.T) {
	r := NewReport("run-2", "people.xlsx", "Sheet1", nil, fixedNow)
	assert.NotNil(t, r.Violations)
	assert.NoError(t, WriteReport(filepath.Join(t.TempDir(), "empty.json"), r))
}
