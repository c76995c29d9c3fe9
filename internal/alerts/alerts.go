// Package alerts переводит ошибки сервисов в текст для пользователя.
package alerts

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Spok95/safiro-portal/internal/api"
	"github.com/Spok95/safiro-portal/internal/auth"
	"github.com/Spok95/safiro-portal/internal/session"
)

const (
	MsgLoginGeneric    = "Ocurrió un error al iniciar sesión"
	MsgRegisterGeneric = "Ocurrió un error al registrarse"
	MsgGeneric         = "Ocurrió un error inesperado"
	MsgUserNotFound    = "Usuario no encontrado. Verifica tu correo electrónico."
	MsgBadCredentials  = "Credenciales incorrectas."
	MsgEmailTaken      = "Este correo electrónico ya está registrado"
	MsgNoConnection    = "No se pudo conectar con el servidor. Verifica tu conexión a internet."
	MsgInactive        = "Usuario inactivo"
	MsgNotVerified     = "Email no verificado"
	MsgNotFound        = "El recurso solicitado no existe."
	MsgNotLoggedIn     = "Debes iniciar sesión primero."
)

// Alert: заголовок и текст сообщения.
type Alert struct {
	Title   string
	Message string
}

func ForLogin(err error) Alert {
	return Alert{Title: "Error de autenticación", Message: message(err, MsgLoginGeneric, map[int]string{
		http.StatusNotFound:     MsgUserNotFound,
		http.StatusUnauthorized: MsgBadCredentials,
	}, false)}
}

func ForRegister(err error) Alert {
	return Alert{Title: "Error de registro", Message: message(err, MsgRegisterGeneric, map[int]string{
		http.StatusConflict: MsgEmailTaken,
	}, true)}
}

// ForRequest: для прочих вызовов (материи, профиль).
func ForRequest(err error) Alert {
	return Alert{Title: "Error", Message: message(err, MsgGeneric, map[int]string{
		http.StatusNotFound: MsgNotFound,
	}, true)}
}

// message: списки ошибок полей показываются только там, где пользователь заполнял форму.
func message(err error, fallback string, byStatus map[int]string, withFields bool) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, auth.ErrInactive):
		return MsgInactive
	case errors.Is(err, auth.ErrEmailNotVerified):
		return MsgNotVerified
	case errors.Is(err, session.ErrNotAuthenticated):
		return MsgNotLoggedIn
	}

	var se *api.StatusError
	if errors.As(err, &se) {
		if m, ok := byStatus[se.Status]; ok {
			return m
		}
		if se.Message != "" {
			return se.Message
		}
		if v := se.ValidationMessages(); withFields && len(v) > 0 {
			return strings.Join(v, "\n")
		}
		return fallback
	}
	if api.KindOf(err) == api.KindNetwork {
		return MsgNoConnection
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
