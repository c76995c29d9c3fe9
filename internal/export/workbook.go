package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

type SheetSpec struct {
	Title  string
	Header []string
	Rows   [][]string
}

type Workbook struct {
	File *excelize.File
}

// NewWorkbook: по листу на каждый SheetSpec; первый лист переименовывает стандартный Sheet1.
func NewWorkbook(sheets []SheetSpec) (*Workbook, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook: no sheets")
	}
	f := excelize.NewFile()
	for i, s := range sheets {
		name := sheetName(s.Title)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("new sheet: %w", err)
		}
		// заголовки
		for col, h := range s.Header {
			cell := fmt.Sprintf("%s1", colName(col+1))
			if err := f.SetCellStr(name, cell, h); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		// строки
		for r, row := range s.Rows {
			for c, val := range row {
				cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
				if err := f.SetCellStr(name, cell, val); err != nil {
					return nil, fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}
		if err := ApplyDefaultExcelFormatting(f, name); err != nil {
			return nil, fmt.Errorf("format sheet %s: %w", name, err)
		}
	}
	f.SetActiveSheet(0)
	return &Workbook{File: f}, nil
}

func (w *Workbook) Write(out io.Writer) error {
	_, err := w.File.WriteTo(out)
	return err
}

func (w *Workbook) SaveAs(path string) error { return w.File.SaveAs(path) }

func (w *Workbook) Close() error { return w.File.Close() }

// sheetName: Excel ограничивает имя листа 31 символом и запрещает []:*?/\
func sheetName(s string) string {
	s = invalidSheetRe.ReplaceAllString(cleanName(s), " ")
	r := []rune(s)
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}
