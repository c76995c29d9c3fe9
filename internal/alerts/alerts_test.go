package alerts

import (
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/Spok95/safiro-portal/internal/api"
	"github.com/Spok95/safiro-portal/internal/auth"
	"github.com/Spok95/safiro-portal/internal/session"
)

func status(code int, body string) error {
	return &api.StatusError{Method: "GET", Path: "/x", Status: code, Message: body}
}

func TestForLogin(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{status(404, ""), MsgUserNotFound},
		{status(401, "ignored"), MsgBadCredentials},
		{status(500, "Servidor caído"), "Servidor caído"},
		{status(500, ""), MsgLoginGeneric},
		{&url.Error{Op: "Get", URL: "http://x", Err: errors.New("connection refused")}, MsgNoConnection},
		{fmt.Errorf("login: %w", auth.ErrInactive), MsgInactive},
		{auth.ErrEmailNotVerified, MsgNotVerified},
		{errors.New("algo raro"), "algo raro"},
	}
	for _, tc := range cases {
		got := ForLogin(tc.err)
		if got.Message != tc.want {
			t.Fatalf("ForLogin(%v): expected %q, got %q", tc.err, tc.want, got.Message)
		}
		if got.Title != "Error de autenticación" {
			t.Fatalf("unexpected title %q", got.Title)
		}
	}
}

func TestForRegister(t *testing.T) {
	if got := ForRegister(status(409, "dup")).Message; got != MsgEmailTaken {
		t.Fatalf("expected email taken, got %q", got)
	}
	se := &api.StatusError{Status: 400, Errors: map[string][]string{
		"password": {"mínimo 6 caracteres"},
		"email":    {"formato inválido", "requerido"},
	}}
	if got := ForRegister(se).Message; got != "formato inválido\nrequerido\nmínimo 6 caracteres" {
		t.Fatalf("expected flattened validation errors, got %q", got)
	}
	if got := ForRegister(status(404, "")).Message; got != MsgRegisterGeneric {
		t.Fatalf("expected generic fallback, got %q", got)
	}
}

func TestForLoginIgnoresFieldErrors(t *testing.T) {
	se := &api.StatusError{Status: 400, Errors: map[string][]string{"email": {"Email inválido"}}}
	if got := ForLogin(se).Message; got != MsgLoginGeneric {
		t.Fatalf("expected generic login text, got %q", got)
	}
	if got := ForRequest(se).Message; got != "Email inválido" {
		t.Fatalf("expected field errors for requests, got %q", got)
	}
}

func TestForRequest(t *testing.T) {
	if got := ForRequest(status(404, "x")).Message; got != MsgNotFound {
		t.Fatalf("expected not found, got %q", got)
	}
	if got := ForRequest(session.ErrNotAuthenticated).Message; got != MsgNotLoggedIn {
		t.Fatalf("expected not logged in, got %q", got)
	}
	if got := ForRequest(nil); got.Message != "" {
		t.Fatalf("expected empty message for nil error, got %q", got.Message)
	}
}
