package auth

import (
	"testing"

	"github.com/Spok95/safiro-portal/internal/models"
)

func TestRoleForKnownCodes(t *testing.T) {
	cases := map[int]models.Role{
		1: models.RoleEstudiante,
		2: models.RoleProfesor,
		3: models.RoleAdministrador,
	}
	for code, want := range cases {
		got := RoleFor(code)
		if got != want {
			t.Fatalf("RoleFor(%d): expected %s, got %s", code, want, got)
		}
		if !got.Valid() {
			t.Fatalf("RoleFor(%d) returned role outside closed set: %s", code, got)
		}
	}
}

func TestRoleForUnknownCodesFallBack(t *testing.T) {
	for _, code := range []int{0, -1, 4, 99, 1 << 20} {
		if got := RoleFor(code); got != DefaultRole {
			t.Fatalf("RoleFor(%d): expected default %s, got %s", code, DefaultRole, got)
		}
	}
	if !DefaultRole.Valid() {
		t.Fatalf("default role must be in the closed set")
	}
}

func TestToUser(t *testing.T) {
	u := ToUser(models.UsuarioResponse{
		IDUsuario:       7,
		Nombre:          "ignored",
		PrimerNombre:    "Ana",
		SegundoNombre:   " ",
		PrimerApellido:  "García",
		SegundoApellido: "López",
		Email:           "ana@safiro.com",
		Telefono:        "3001234567",
		EmailVerificado: true,
		Activo:          true,
		IDTipoPerfil:    2,
	})
	if u.ID != 7 || u.Name != "Ana García López" || u.Role != models.RoleProfesor {
		t.Fatalf("unexpected user: %+v", u)
	}
	if !u.Active || !u.EmailVerified || u.Phone != "3001234567" || u.ProfileType != 2 {
		t.Fatalf("flags not carried over: %+v", u)
	}

	u = ToUser(models.UsuarioResponse{Nombre: "  Profesor   Demo ", IDTipoPerfil: 42})
	if u.Name != "Profesor Demo" {
		t.Fatalf("expected fallback to nombre, got %q", u.Name)
	}
	if u.Role != DefaultRole {
		t.Fatalf("expected default role, got %s", u.Role)
	}
}
