package models

// TipoPerfil: числовой тип профиля из API.
type TipoPerfil int

const (
	TipoEstudiante    TipoPerfil = 1
	TipoProfesor      TipoPerfil = 2
	TipoAdministrador TipoPerfil = 3
)

type Role string

const (
	RoleEstudiante    Role = "estudiante"
	RoleProfesor      Role = "profesor"
	RoleAdministrador Role = "administrador"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEstudiante, RoleProfesor, RoleAdministrador:
		return true
	}
	return false
}

func (r Role) Title() string {
	switch r {
	case RoleEstudiante:
		return "Estudiante"
	case RoleProfesor:
		return "Profesor"
	case RoleAdministrador:
		return "Administrador"
	default:
		return string(r)
	}
}
