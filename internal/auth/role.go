package auth

import "github.com/Spok95/safiro-portal/internal/models"

// DefaultRole: роль для неизвестного кода типа профиля.
const DefaultRole = models.RoleEstudiante

// RoleFor переводит idTipoPerfil в роль по фиксированной таблице API (TipoPerfil).
//
// В истории мобильного клиента была ревизия, где код 1 означал "profesor".
// Здесь принята таблица из перечисления API; расхождение вынесено на согласование (см. DESIGN.md).
func RoleFor(code int) models.Role {
	switch models.TipoPerfil(code) {
	case models.TipoEstudiante:
		return models.RoleEstudiante
	case models.TipoProfesor:
		return models.RoleProfesor
	case models.TipoAdministrador:
		return models.RoleAdministrador
	default:
		return DefaultRole
	}
}

// ToUser: серверная запись в пользователя сессии.
func ToUser(u models.UsuarioResponse) models.User {
	return models.User{
		ID:            u.IDUsuario,
		Name:          u.DisplayName(),
		Email:         u.Email,
		Phone:         u.Telefono,
		EmailVerified: u.EmailVerificado,
		Active:        u.Activo,
		ProfileType:   u.IDTipoPerfil,
		Role:          RoleFor(u.IDTipoPerfil),
	}
}
