package permisos

import "github.com/Spok95/safiro-portal/internal/models"

func DemoData() []models.Permiso {
	return []models.Permiso{
		{ID: "1", Tipo: "Permiso Médico", FechaInicio: "01/12/2025", FechaFin: "02/12/2025",
			Motivo: "Cirugía menor programada", Estado: models.EstadoAprobado,
			FechaSolicitud: "25/11/2025", FechaRespuesta: "26/11/2025", AprobadoPor: "Dr. Carlos Ramírez"},
		{ID: "2", Tipo: "Permiso Personal", FechaInicio: "28/11/2025", FechaFin: "28/11/2025",
			Motivo: "Asunto personal familiar", Estado: models.EstadoRechazado,
			FechaSolicitud: "20/11/2025", FechaRespuesta: "21/11/2025", AprobadoPor: "Dr. Carlos Ramírez",
			MotivoRechazo: "Fecha no justificada, se requiere evidencia médica"},
		{ID: "3", Tipo: "Permiso Académico", FechaInicio: "15/11/2025", FechaFin: "17/11/2025",
			Motivo: "Congreso internacional de tecnología", Estado: models.EstadoAprobado,
			FechaSolicitud: "01/11/2025", FechaRespuesta: "02/11/2025", AprobadoPor: "Dra. María López"},
		{ID: "4", Tipo: "Permiso Médico", FechaInicio: "10/11/2025", FechaFin: "10/11/2025",
			Motivo: "Exámenes médicos de rutina", Estado: models.EstadoAprobado,
			FechaSolicitud: "05/11/2025", FechaRespuesta: "06/11/2025", AprobadoPor: "Dr. Carlos Ramírez"},
		{ID: "5", Tipo: "Permiso Personal", FechaInicio: "25/10/2025", FechaFin: "26/10/2025",
			Motivo: "Viaje familiar", Estado: models.EstadoAprobado,
			FechaSolicitud: "15/10/2025", FechaRespuesta: "16/10/2025", AprobadoPor: "Dra. María López"},
		{ID: "6", Tipo: "Permiso Médico", FechaInicio: "15/12/2025", FechaFin: "16/12/2025",
			Motivo: "Cita médica especializada con el Dr. González", Estado: models.EstadoPendiente,
			FechaSolicitud: "10/12/2025"},
		{ID: "7", Tipo: "Permiso Personal", FechaInicio: "20/12/2025", FechaFin: "20/12/2025",
			Motivo: "Trámite legal urgente que requiere presencia", Estado: models.EstadoEnRevision,
			FechaSolicitud: "08/12/2025"},
		{ID: "8", Tipo: "Permiso Académico", FechaInicio: "18/12/2025", FechaFin: "19/12/2025",
			Motivo: "Participación en congreso nacional de ingeniería", Estado: models.EstadoPendiente,
			FechaSolicitud: "05/12/2025"},
	}
}
