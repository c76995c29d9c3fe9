package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Spok95/safiro-portal/internal/api"
	"github.com/Spok95/safiro-portal/internal/models"
)

type call struct {
	Method string
	Path   string
	Body   string
}

type recorder struct {
	mu     sync.Mutex
	calls  []call
	status int
	reply  any
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	b, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	r.calls = append(r.calls, call{Method: req.Method, Path: req.URL.EscapedPath(), Body: string(b)})
	status, reply := r.status, r.reply
	r.mu.Unlock()
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if reply != nil {
		_ = json.NewEncoder(w).Encode(reply)
	}
}

func (r *recorder) snapshot() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

func newService(t *testing.T, rec *recorder) *Service {
	t.Helper()
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)
	return NewService(api.New(srv.URL+"/api/v1", time.Second), nil)
}

func TestLoginRejectsInactiveOrUnverified(t *testing.T) {
	cases := []struct {
		name string
		user models.UsuarioResponse
		want error
	}{
		{"inactive", models.UsuarioResponse{IDUsuario: 1, Activo: false, EmailVerificado: true}, ErrInactive},
		{"unverified", models.UsuarioResponse{IDUsuario: 2, Activo: true, EmailVerificado: false}, ErrEmailNotVerified},
		{"both", models.UsuarioResponse{IDUsuario: 3}, ErrInactive},
	}
	for _, tc := range cases {
		rec := &recorder{reply: tc.user}
		s := newService(t, rec)
		_, err := s.Login(context.Background(), "demo@safiro.com", "demo123")
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		calls := rec.snapshot()
		if len(calls) != 1 {
			t.Fatalf("%s: expected a single lookup call, got %d", tc.name, len(calls))
		}
		if calls[0].Method != http.MethodGet || calls[0].Path != "/api/v1/usuarios/email/demo@safiro.com" {
			t.Fatalf("%s: unexpected call %+v", tc.name, calls[0])
		}
	}
}

func TestLoginOK(t *testing.T) {
	rec := &recorder{reply: models.UsuarioResponse{IDUsuario: 5, Activo: true, EmailVerificado: true, IDTipoPerfil: 1}}
	s := newService(t, rec)
	u, err := s.Login(context.Background(), " estudiante@safiro.com ", "x")
	if err != nil {
		t.Fatal(err)
	}
	if u.IDUsuario != 5 {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestLoginPropagatesNotFound(t *testing.T) {
	rec := &recorder{status: http.StatusNotFound, reply: map[string]string{"message": "no existe"}}
	s := newService(t, rec)
	_, err := s.Login(context.Background(), "nadie@safiro.com", "x")
	if !api.IsNotFound(err) {
		t.Fatalf("expected 404 status error, got %v", err)
	}
}

func TestLoginEmptyEmailNoCall(t *testing.T) {
	rec := &recorder{}
	s := newService(t, rec)
	if _, err := s.Login(context.Background(), "  ", "x"); !errors.Is(err, ErrEmptyEmail) {
		t.Fatalf("expected ErrEmptyEmail, got %v", err)
	}
	if n := len(rec.snapshot()); n != 0 {
		t.Fatalf("expected no calls, got %d", n)
	}
}

func TestEndpoints(t *testing.T) {
	rec := &recorder{reply: models.UsuarioResponse{IDUsuario: 9}}
	s := newService(t, rec)
	ctx := context.Background()

	if _, err := s.Register(ctx, models.RegistroUsuarioRequest{Email: "n@safiro.com", IDTipoPerfil: models.TipoEstudiante}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetUser(ctx, 9); err != nil {
		t.Fatal(err)
	}
	nombre := "Nuevo"
	if _, err := s.UpdateProfile(ctx, 9, models.PerfilUpdate{PrimerNombre: &nombre}); err != nil {
		t.Fatal(err)
	}
	if err := s.ChangePassword(ctx, 9, "old", "newpass"); err != nil {
		t.Fatal(err)
	}

	want := []call{
		{Method: http.MethodPost, Path: "/api/v1/usuarios/registrar"},
		{Method: http.MethodGet, Path: "/api/v1/usuarios/9"},
		{Method: http.MethodPut, Path: "/api/v1/usuarios/9/perfil", Body: `{"primerNombre":"Nuevo"}`},
		{Method: http.MethodPut, Path: "/api/v1/usuarios/9/password", Body: `{"passwordActual":"old","passwordNueva":"newpass"}`},
	}
	calls := rec.snapshot()
	if len(calls) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(calls))
	}
	for i, w := range want {
		got := calls[i]
		if got.Method != w.Method || got.Path != w.Path {
			t.Fatalf("call %d: expected %s %s, got %s %s", i, w.Method, w.Path, got.Method, got.Path)
		}
		if w.Body != "" && got.Body != w.Body {
			t.Fatalf("call %d: expected body %s, got %s", i, w.Body, got.Body)
		}
	}
}
