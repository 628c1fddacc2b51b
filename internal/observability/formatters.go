// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jonathan/excel-validator/internal/annotate"
	"github.com/jonathan/excel-validator/internal/rules"
	"github.com/jonathan/excel-validator/internal/scan"
	"github.com/jonathan/excel-validator/internal/types"
	"github.com/xuri/excelize/v2"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSummary prints the one-line error count: green when the sheet is
// clean, red otherwise.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSummary(count int) {
	if count == 0 {
		color.New(color.FgGreen).Fprintf(p.out, "✓ Found %d error(s)\n", count)
		return
	}
	color.New(color.FgRed).Fprintf(p.out, "✗ Found %d error(s)\n", count)
}

// PrintReport writes the plain text report, one line per violation.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintReport(log *types.Violations) {
	fmt.Fprint(p.out, annotate.Render(log))
}

// PrintRuleSet outputs a summary of a built rule set.
func (p *Printer) PrintRuleSet(rs *rules.RuleSet) {
	if rs == nil {
		return
	}

	var sb strings.Builder

	columns := make([]string, 0, len(rs.Columns))
	for col := range rs.Columns {
		columns = append(columns, col)
	}
	sort.Slice(columns, func(i, j int) bool {
		if len(columns[i]) != len(columns[j]) {
			return len(columns[i]) < len(columns[j])
		}
		return columns[i] < columns[j]
	})

	if len(columns) > 0 {
		sb.WriteString("Columns:\n")
		for _, col := range columns {
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", col, kindList(rs.Columns[col])))
		}
		sb.WriteString("\n")
	}
	if len(rs.Header) > 0 {
		sb.WriteString(fmt.Sprintf("Header:   %s\n", kindList(rs.Header)))
	}
	if len(rs.Default) > 0 {
		sb.WriteString(fmt.Sprintf("Default:  %s\n", kindList(rs.Default)))
	}
	if len(rs.Excludes) > 0 {
		excluded := make([]int, 0, len(rs.Excludes))
		for col, ok := range rs.Excludes {
			if ok {
				excluded = append(excluded, col)
			}
		}
		sort.Ints(excluded)
		names := make([]string, 0, len(excluded))
		for _, col := range excluded {
			name, err := excelize.ColumnNumberToName(col)
			if err != nil {
				continue
			}
			names = append(names, name)
		}
		sb.WriteString(fmt.Sprintf("Excludes: %s\n", strings.Join(names, ", ")))
	}
	if rs.Range != (rules.Range{}) {
		sb.WriteString(fmt.Sprintf("Range:    %s\n", rs.Range))
	}
	if rs.HeaderRow > 0 {
		sb.WriteString(fmt.Sprintf("Header row: %d\n", rs.HeaderRow))
	}

	p.printBox("RULE SET", sb.String())
}

func kindList(c rules.Chain) string {
	if len(c) == 0 {
		return "(none)"
	}
	kinds := c.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, " → ")
}

// PrintScanStats outputs the row counts of a finished scan.
func (p *Printer) PrintScanStats(file, sheet string, stats scan.Stats, errors int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:       %s\n", file))
	sb.WriteString(fmt.Sprintf("Sheet:      %s\n", sheet))
	sb.WriteString(fmt.Sprintf("Rows:       %d\n", stats.Rows))
	sb.WriteString(fmt.Sprintf("Data rows:  %d\n", stats.DataRows))
	sb.WriteString(fmt.Sprintf("Blank rows: %d\n", stats.BlankRows))
	sb.WriteString(fmt.Sprintf("Errors:     %d\n", errors))

	p.printBox("SCAN", sb.String())
}

// PrintViolations outputs the first violations found.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintViolations(log *types.Violations) {
	if log.Empty() {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO VIOLATIONS FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d violations:\n\n", log.Len()))

	count := min(log.Len(), maxItemsToShow)
	for i := 0; i < count; i++ {
		v := log.Violations[i]
		details := v.Text()
		if len(details) > 45 {
			details = details[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("⚠ %s\n", v.Coordinate))
		sb.WriteString(fmt.Sprintf("  %s\n", details))
	}
	if log.Len() > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more\n", log.Len()-maxItemsToShow))
	}

	p.printBox("VIOLATIONS", sb.String())
}

// PrintOutcome reports where the annotated workbook was written.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintOutcome(outcome *annotate.Outcome) {
	if outcome == nil {
		return
	}
	if outcome.SizeLimitExceeded {
		color.New(color.FgYellow).Fprintf(p.out, "⚠ Source is %d bytes, over the size limit; no annotated file written\n", outcome.Size)
		return
	}
	fmt.Fprintf(p.out, "Annotated file: %s\n", outcome.Path)
	fmt.Fprintf(p.out, "  %d cell(s) marked, log in sheet %q\n", outcome.Marked, outcome.LogSheet)
}
