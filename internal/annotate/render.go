// Package annotate turns a violation log into output: a printable report or
// a marked copy of the source workbook with a "Log" sheet.
package annotate

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/excel-validator/internal/types"
)

// Render formats every violation as a "Broken Excel cell" line. It has no
// side effects and returns the same text for the same log.
func Render(log *types.Violations) string {
	if log.Len() == 0 {
		return ""
	}
	var sb strings.Builder
	for _, v := range log.Violations {
		fmt.Fprintf(&sb, "Broken Excel cell: %s [%s]\n", v.Coordinate, v.Text())
	}
	return sb.String()
}

// OutputName returns the annotated file name for source:
// errors_<YYYY-MM-DD>_<unix seconds>_<base name>.
func OutputName(source string, now time.Time) string {
	return fmt.Sprintf("errors_%s_%d_%s", now.Format(time.DateOnly), now.Unix(), filepath.Base(source))
}
