package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Spok95/safiro-portal/internal/alerts"
	"github.com/Spok95/safiro-portal/internal/config"
	"github.com/Spok95/safiro-portal/internal/mockapi"
)

func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	t.Setenv("SAFIRO_EMAIL", "")
	t.Setenv("SAFIRO_PASSWORD", "")
	st := mockapi.NewMemoryStore()
	if err := mockapi.Seed(context.Background(), st, bcrypt.MinCost); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(mockapi.NewServer(st, nil, mockapi.Options{BcryptCost: bcrypt.MinCost}).Router())
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		APIBaseURL: srv.URL + "/api/v1",
		APITimeout: 2 * time.Second,
		Env:        "dev",
		ExportDir:  t.TempDir(),
	}
	var out bytes.Buffer
	return newApp(cfg, nil, &out), &out
}

func TestNewAppAcceptsNilLogger(t *testing.T) {
	a := newApp(&config.Config{APIBaseURL: "http://localhost", APITimeout: time.Second}, nil, &bytes.Buffer{})
	if a.log == nil {
		t.Fatal("expected a no-op logger")
	}
	a.log.Info("no panic")
}

func TestLoginCommand(t *testing.T) {
	a, out := newTestApp(t)
	err := a.run(context.Background(), []string{"login", "-email", "profesor@safiro.com", "-password", mockapi.DemoPassword})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Bienvenido, Profesor Demo") || !strings.Contains(out.String(), "Profesor") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestLoginUnknownUserAlert(t *testing.T) {
	a, _ := newTestApp(t)
	args := []string{"login", "-email", "nadie@safiro.com"}
	err := a.run(context.Background(), args)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := alertFor(args, err).Message; got != alerts.MsgUserNotFound {
		t.Fatalf("unexpected alert %q", got)
	}
}

func TestUsageErrors(t *testing.T) {
	a, _ := newTestApp(t)
	for _, args := range [][]string{nil, {"nope"}, {"materias"}, {"login"}, {"login", "-bogus"}} {
		if err := a.run(context.Background(), args); !errors.Is(err, errUsage) {
			t.Fatalf("%v: expected usage error, got %v", args, err)
		}
	}
}

func TestMateriasCommands(t *testing.T) {
	a, out := newTestApp(t)
	ctx := context.Background()
	prof := []string{"-email", "profesor@safiro.com"}

	if err := a.run(ctx, append([]string{"materias", "mine"}, prof...)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Algebra Lineal") {
		t.Fatalf("expected seeded materias:\n%s", out)
	}

	out.Reset()
	if err := a.run(ctx, append([]string{"materias", "create", "-name", "Topología"}, prof...)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Topología") {
		t.Fatalf("unexpected create output:\n%s", out)
	}

	err := a.run(ctx, []string{"materias", "delete", "-id", "1", "-email", "estudiante@safiro.com"})
	if !errors.Is(err, errForbidden) {
		t.Fatalf("expected errForbidden for estudiante, got %v", err)
	}

	err = a.run(ctx, append([]string{"materias", "get", "-id", "99"}, prof...))
	if got := alertFor([]string{"materias"}, err).Message; got != alerts.MsgNotFound {
		t.Fatalf("expected not-found alert, got %q (%v)", got, err)
	}
}

func TestGradesSetIsAllOrNothing(t *testing.T) {
	a, out := newTestApp(t)
	ctx := context.Background()
	prof := []string{"-email", "profesor@safiro.com", "-class", "1"}

	if err := a.run(ctx, append(append([]string{"grades", "set"}, prof...), "1=4.5", "2=7")); err == nil {
		t.Fatal("expected invalid grade error")
	}
	out.Reset()
	if err := a.run(ctx, append(append([]string{"grades", "set"}, prof...), "1=4.5")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "4.50") {
		t.Fatalf("expected updated grade:\n%s", out)
	}

	if err := a.run(ctx, []string{"grades", "list", "-email", "estudiante@safiro.com"}); !errors.Is(err, errForbidden) {
		t.Fatalf("expected errForbidden, got %v", err)
	}
}

func TestPermisosSubmit(t *testing.T) {
	a, out := newTestApp(t)
	err := a.run(context.Background(), []string{"permisos", "submit", "-email", "estudiante@safiro.com",
		"-tipo", "Médico", "-inicio", "10/03/2025", "-fin", "12/03/2025", "-motivo", "Cita"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Pendiente de revisión") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestExportMaterias(t *testing.T) {
	a, _ := newTestApp(t)
	if err := a.run(context.Background(), []string{"export", "materias", "-email", "profesor@safiro.com"}); err != nil {
		t.Fatal(err)
	}
	files, err := filepath.Glob(filepath.Join(a.cfg.ExportDir, "*.xlsx"))
	if err != nil || len(files) != 1 {
		t.Fatalf("expected one xlsx, got %v (%v)", files, err)
	}
	if fi, err := os.Stat(files[0]); err != nil || fi.Size() == 0 {
		t.Fatalf("empty export: %v", err)
	}
}
