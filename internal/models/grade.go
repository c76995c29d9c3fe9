package models

type EstadoNota string

const (
	NotaAprobado  EstadoNota = "aprobado"
	NotaReprobado EstadoNota = "reprobado"
)

const (
	NotaMin       = 0.0
	NotaMax       = 5.0
	NotaAprobable = 3.0
)

type Estudiante struct {
	ID     int64   `json:"id"`
	Nombre string  `json:"nombre"`
	Nota   float64 `json:"nota"`
}

func (e Estudiante) Estado() EstadoNota {
	if e.Nota >= NotaAprobable {
		return NotaAprobado
	}
	return NotaReprobado
}

// Clase: группа профессора с оценками студентов.
type Clase struct {
	ID          string       `json:"id"`
	Nombre      string       `json:"nombre"`
	Codigo      string       `json:"codigo"`
	Estudiantes []Estudiante `json:"estudiantes"`
}
