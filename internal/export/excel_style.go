package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ApplyDefaultExcelFormatting applies:
// - bold header (row 1),
// - auto-filter on row 1,
// - approximate auto-width for all data columns present on the sheet.
func ApplyDefaultExcelFormatting(f *excelize.File, sheet string) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	if cols == 0 {
		return nil
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", fmt.Sprintf("%s1", colName(cols)), style)
	}
	_ = f.AutoFilter(sheet, fmt.Sprintf("A1:%s1", colName(cols)), nil)

	widths := make([]float64, cols)
	for c := range widths {
		widths[c] = 10
	}
	for rIdx, row := range rows {
		for cIdx := 0; cIdx < cols && cIdx < len(row); cIdx++ {
			w := float64(visualLen(row[cIdx])) * 1.1
			if rIdx == 0 {
				w += 1.5
			}
			if w > 60 {
				w = 60
			}
			if w > widths[cIdx] {
				widths[cIdx] = w
			}
		}
	}
	for i := 0; i < cols; i++ {
		col := colName(i + 1)
		_ = f.SetColWidth(sheet, col, col, widths[i])
	}
	return nil
}

func BuildMateriasFilename(ownerName string, at time.Time) string {
	return sanitizeFileName(fmt.Sprintf("Materias — %s — %s.xlsx", cleanName(ownerName), at.Format("2006-01-02")))
}

func BuildClassFilename(className, code string, at time.Time) string {
	return sanitizeFileName(fmt.Sprintf("Notas — %s — %s — %s.xlsx", cleanName(className), cleanName(code), at.Format("2006-01-02")))
}

// 1 -> A; 27 -> AA
func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}

func visualLen(s string) int {
	n := 0
	for _, r := range s {
		if r == '\t' {
			n += 4
		} else {
			n++
		}
	}
	return n
}

var (
	invalidFileRe  = regexp.MustCompile(`[\\/:*?"<>|]+`)
	invalidSheetRe = regexp.MustCompile(`[\[\]:*?/\\]+`)
)

func sanitizeFileName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), " ")
	return invalidFileRe.ReplaceAllString(s, "_")
}

func cleanName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "—"
	}
	return s
}
