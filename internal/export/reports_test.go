package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/safiro-portal/internal/grades"
	"github.com/Spok95/safiro-portal/internal/models"
)

func TestMateriasWorkbook(t *testing.T) {
	wb, err := MateriasWorkbook([]models.MateriaResponse{
		{IDMateria: 3, NombreMateria: "Cálculo I", FechaCreacion: "2025-02-01",
			Usuario: models.UsuarioResponse{Nombre: "Profesor Demo", Email: "profesor@safiro.com"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = wb.Close() }()

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := f.GetRows("Materias")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0][1] != "Materia" || rows[1][1] != "Cálculo I" || rows[1][2] != "Profesor Demo" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestClassWorkbook(t *testing.T) {
	c, err := grades.NewDemoStore().Class("1")
	if err != nil {
		t.Fatal(err)
	}
	wb, err := ClassWorkbook(c)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = wb.Close() }()

	sheets := wb.File.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Ecuaciones diferenciales" || sheets[1] != "Resumen" {
		t.Fatalf("unexpected sheets %v", sheets)
	}
	rows, _ := wb.File.GetRows(sheets[0])
	if len(rows) != 9 || rows[3][3] != "Reprobado" || rows[1][2] != "4.20" {
		t.Fatalf("unexpected grade rows %v", rows)
	}
	summary, _ := wb.File.GetRows("Resumen")
	if summary[2][1] != "6" || summary[3][1] != "2" {
		t.Fatalf("unexpected summary %v", summary)
	}
}

func TestFilenamesAndHelpers(t *testing.T) {
	at := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	if got := BuildClassFilename("Algebra: Lineal", "MAT/103", at); strings.ContainsAny(got, ":/") {
		t.Fatalf("filename not sanitized: %q", got)
	}
	if got := BuildMateriasFilename("  ", at); got != "Materias — — — 2025-12-01.xlsx" {
		t.Fatalf("unexpected filename %q", got)
	}
	if colName(1) != "A" || colName(27) != "AA" {
		t.Fatal("unexpected column names")
	}
	if got := sheetName("Notas [final]: 2025/2026 de un nombre larguísimo"); len([]rune(got)) > 31 || strings.ContainsAny(got, "[]:/") {
		t.Fatalf("invalid sheet name %q", got)
	}
}
