package export

import (
	"strconv"

	"github.com/Spok95/safiro-portal/internal/grades"
	"github.com/Spok95/safiro-portal/internal/models"
)

// MateriasWorkbook: один лист со списком материй.
func MateriasWorkbook(items []models.MateriaResponse) (*Workbook, error) {
	rows := make([][]string, 0, len(items))
	for _, m := range items {
		rows = append(rows, []string{
			strconv.FormatInt(m.IDMateria, 10),
			m.NombreMateria,
			m.Usuario.DisplayName(),
			m.Usuario.Email,
			m.FechaCreacion,
			m.FechaActualizacion,
		})
	}
	return NewWorkbook([]SheetSpec{{
		Title:  "Materias",
		Header: []string{"ID", "Materia", "Responsable", "Email", "Creada", "Actualizada"},
		Rows:   rows,
	}})
}

// ClassWorkbook: лист оценок и лист со сводкой.
func ClassWorkbook(c models.Clase) (*Workbook, error) {
	rows := make([][]string, 0, len(c.Estudiantes))
	for _, e := range c.Estudiantes {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.Nombre,
			formatGrade(e.Nota),
			estadoNota(e.Estado()),
		})
	}
	st := grades.ComputeStats(c)
	summary := [][]string{
		{"Total estudiantes", strconv.Itoa(st.Total)},
		{"Aprobados", strconv.Itoa(st.Aprobados)},
		{"Reprobados", strconv.Itoa(st.Reprobados)},
		{"Promedio general", formatGrade(st.Promedio)},
		{"% aprobados", strconv.FormatFloat(st.Porcentaje, 'f', 1, 64)},
	}
	return NewWorkbook([]SheetSpec{
		{Title: c.Nombre, Header: []string{"ID", "Estudiante", "Nota", "Estado"}, Rows: rows},
		{Title: "Resumen", Header: []string{"Indicador", "Valor"}, Rows: summary},
	})
}

func formatGrade(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func estadoNota(e models.EstadoNota) string {
	if e == models.NotaAprobado {
		return "Aprobado"
	}
	return "Reprobado"
}
