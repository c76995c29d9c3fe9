//go:build testutil
// +build testutil

package mockapi_test

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/Spok95/safiro-portal/internal/mockapi"
	"github.com/Spok95/safiro-portal/internal/testutil/testdb"
)

func TestPGStore(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	defer h.Close()

	st, err := mockapi.NewPGStore(ctx, h.DSN)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	if err := mockapi.Seed(ctx, st, bcrypt.MinCost); err != nil {
		t.Fatal(err)
	}
	if err := mockapi.Seed(ctx, st, bcrypt.MinCost); err != nil {
		t.Fatal(err)
	}

	prof, err := st.UserByEmail(ctx, "PROFESOR@safiro.com")
	if err != nil {
		t.Fatal(err)
	}
	mine, err := st.MateriasByUser(ctx, prof.ID)
	if err != nil || len(mine) != 3 {
		t.Fatalf("expected 3 seeded materias, got %d (%v)", len(mine), err)
	}

	_, err = st.CreateUser(ctx, mockapi.UserRecord{Email: "profesor@safiro.com", PrimerNombre: "X", PrimerApellido: "Y", TipoPerfil: 2})
	if !errors.Is(err, mockapi.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	m, err := st.RenameMateria(ctx, mine[0].ID, "Ecuaciones diferenciales II")
	if err != nil || m.Nombre != "Ecuaciones diferenciales II" || m.UpdatedAt == nil {
		t.Fatalf("unexpected rename %+v %v", m, err)
	}
	if _, err := st.ReassignMateria(ctx, m.ID, 9999); !errors.Is(err, mockapi.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown owner, got %v", err)
	}
	if _, err := st.CreateMateria(ctx, "Huérfana", 9999); !errors.Is(err, mockapi.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := st.DeleteMateria(ctx, m.ID); err != nil {
		t.Fatal(err)
	}
	if err := st.DeleteMateria(ctx, m.ID); !errors.Is(err, mockapi.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := st.MateriaByID(ctx, m.ID); !errors.Is(err, mockapi.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
