package models

import "strings"

// UsuarioResponse: запись пользователя в том виде, в каком её отдаёт API.
type UsuarioResponse struct {
	IDUsuario          int64  `json:"idUsuario"`
	Nombre             string `json:"nombre"`
	PrimerNombre       string `json:"primerNombre,omitempty"`
	SegundoNombre      string `json:"segundoNombre,omitempty"`
	PrimerApellido     string `json:"primerApellido,omitempty"`
	SegundoApellido    string `json:"segundoApellido,omitempty"`
	Email              string `json:"email"`
	Telefono           string `json:"telefono"`
	EmailVerificado    bool   `json:"emailVerificado"`
	Activo             bool   `json:"activo"`
	IDTipoPerfil       int    `json:"idTipoPerfil"`
	NombreTipoPerfil   string `json:"nombreTipoPerfil"`
	FechaCreacion      string `json:"fechaCreacion"`
	FechaActualizacion string `json:"fechaActualizacion"`
}

// RegistroUsuarioRequest: тело POST /usuarios/registrar.
type RegistroUsuarioRequest struct {
	Email           string     `json:"email" validate:"required,email"`
	Password        string     `json:"password" validate:"required,min=6"`
	PrimerNombre    string     `json:"primerNombre" validate:"required,notblank"`
	PrimerApellido  string     `json:"primerApellido" validate:"required,notblank"`
	FechaNacimiento string     `json:"fechaNacimiento" validate:"required,datetime=2006-01-02"`
	IDTipoPerfil    TipoPerfil `json:"idTipoPerfil" validate:"required,min=1,max=3"`
	SegundoNombre   string     `json:"segundoNombre,omitempty"`
	SegundoApellido string     `json:"segundoApellido,omitempty"`
	Telefono        string     `json:"telefono,omitempty"`
	Biografia       string     `json:"biografia,omitempty"`
	Pais            string     `json:"pais,omitempty"`
	Ciudad          string     `json:"ciudad,omitempty"`
}

// PerfilUpdate: частичное обновление профиля (PUT /usuarios/{id}/perfil), nil-поля не отправляются.
type PerfilUpdate struct {
	PrimerNombre    *string `json:"primerNombre,omitempty"`
	SegundoNombre   *string `json:"segundoNombre,omitempty"`
	PrimerApellido  *string `json:"primerApellido,omitempty"`
	SegundoApellido *string `json:"segundoApellido,omitempty"`
	FechaNacimiento *string `json:"fechaNacimiento,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Telefono        *string `json:"telefono,omitempty"`
	Biografia       *string `json:"biografia,omitempty"`
	Pais            *string `json:"pais,omitempty"`
	Ciudad          *string `json:"ciudad,omitempty"`
}

type CambioPassword struct {
	PasswordActual string `json:"passwordActual" validate:"required"`
	PasswordNueva  string `json:"passwordNueva" validate:"required,min=6"`
}

// User: пользователь текущей сессии. Живёт только в памяти процесса.
type User struct {
	ID            int64
	Name          string
	Email         string
	Phone         string
	EmailVerified bool
	Active        bool
	ProfileType   int
	Role          Role
}

// DisplayName склеивает непустые части имени; если их нет: берём nombre с сервера.
func (u UsuarioResponse) DisplayName() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{u.PrimerNombre, u.SegundoNombre, u.PrimerApellido, u.SegundoApellido} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return strings.Join(strings.Fields(u.Nombre), " ")
	}
	return strings.Join(parts, " ")
}
