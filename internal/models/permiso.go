package models

type EstadoPermiso string

const (
	EstadoPendiente  EstadoPermiso = "pendiente"
	EstadoEnRevision EstadoPermiso = "en_revision"
	EstadoAprobado   EstadoPermiso = "aprobado"
	EstadoRechazado  EstadoPermiso = "rechazado"
)

// Permiso: заявка на отсутствие. Даты хранятся строками DD/MM/YYYY, как их вводит пользователь.
type Permiso struct {
	ID             string        `json:"id"`
	Tipo           string        `json:"tipo"`
	FechaInicio    string        `json:"fechaInicio"`
	FechaFin       string        `json:"fechaFin"`
	Motivo         string        `json:"motivo"`
	Estado         EstadoPermiso `json:"estado"`
	FechaSolicitud string        `json:"fechaSolicitud"`
	FechaRespuesta string        `json:"fechaRespuesta,omitempty"`
	AprobadoPor    string        `json:"aprobadoPor,omitempty"`
	MotivoRechazo  string        `json:"motivoRechazo,omitempty"`
}

// Resolved: по заявке уже есть решение.
func (p Permiso) Resolved() bool {
	return p.Estado == EstadoAprobado || p.Estado == EstadoRechazado
}
