package permisos

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/Spok95/safiro-portal/internal/models"
)

func fixedStore() *Store {
	s := NewDemoStore()
	s.now = func() time.Time { return time.Date(2025, 12, 12, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestDemoSplit(t *testing.T) {
	s := fixedStore()
	pending := s.Pending()
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending, got %d", len(pending))
	}
	if pending[0].ID != "6" || pending[2].ID != "8" {
		t.Fatalf("expected newest first, got %s..%s", pending[0].ID, pending[2].ID)
	}
	sum := s.Summary()
	if sum.Total != 5 || sum.Aprobados != 4 || sum.Rechazados != 1 {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

func TestSubmit(t *testing.T) {
	s := fixedStore()
	p, err := s.Submit(Request{Tipo: " Médico ", FechaInicio: "5/1/2026", FechaFin: "06/01/2026", Motivo: "Control"})
	if err == nil {
		t.Fatalf("expected non-padded date to be rejected, got %+v", p)
	}

	p, err = s.Submit(Request{Tipo: " Médico ", FechaInicio: "05/01/2026", FechaFin: "06/01/2026", Motivo: "Control"})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != "9" || p.Estado != models.EstadoPendiente || p.Tipo != "Médico" || p.FechaSolicitud != "12/12/2025" {
		t.Fatalf("unexpected permiso %+v", p)
	}
	if len(s.Pending()) != 4 {
		t.Fatalf("expected new request among pending")
	}
}

func TestSubmitValidation(t *testing.T) {
	s := fixedStore()
	bad := []Request{
		{},
		{Tipo: "Médico", FechaInicio: "01/01/2026", FechaFin: "02/01/2026"},
		{Tipo: "Médico", FechaInicio: "2026-01-01", FechaFin: "02/01/2026", Motivo: "x"},
		{Tipo: "Médico", FechaInicio: "03/01/2026", FechaFin: "02/01/2026", Motivo: "x"},
	}
	for i, r := range bad {
		if _, err := s.Submit(r); !errors.Is(err, ErrInvalid) {
			t.Fatalf("case %d: expected ErrInvalid, got %v", i, err)
		}
	}
}

func TestReviewFlow(t *testing.T) {
	s := fixedStore()
	p, err := s.StartReview("6")
	if err != nil || p.Estado != models.EstadoEnRevision {
		t.Fatalf("expected en_revision, got %+v %v", p, err)
	}
	if _, err := s.StartReview("6"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected second review start to fail, got %v", err)
	}
	if _, err := s.Reject("6", "Dra. María López", " "); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected reject without reason to fail, got %v", err)
	}
	p, err = s.Reject("6", "Dra. María López", "Sin soporte")
	if err != nil {
		t.Fatal(err)
	}
	if p.Estado != models.EstadoRechazado || p.FechaRespuesta != "12/12/2025" || p.MotivoRechazo != "Sin soporte" {
		t.Fatalf("unexpected rejected permiso %+v", p)
	}
	if _, err := s.Approve("6", "x"); !errors.Is(err, ErrAlreadyFinal) {
		t.Fatalf("expected ErrAlreadyFinal, got %v", err)
	}
	if _, err := s.Approve("404", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEstadoTexto(t *testing.T) {
	if EstadoTexto(models.EstadoPendiente) != "Pendiente de revisión" || EstadoTexto(models.EstadoEnRevision) != "En revisión" {
		t.Fatal("unexpected labels")
	}
	if EstadoTexto("otro") != "otro" {
		t.Fatal("expected passthrough for unknown state")
	}
}

func TestSameDayOrderUsesNumericIDs(t *testing.T) {
	s := NewStore(nil)
	s.now = func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) }
	for i := 0; i < 11; i++ {
		if _, err := s.Submit(Request{Tipo: "Médico", FechaInicio: "03/03/2025", FechaFin: "04/03/2025", Motivo: "Cita"}); err != nil {
			t.Fatal(err)
		}
	}
	pending := s.Pending()
	if len(pending) != 11 {
		t.Fatalf("expected 11 pending, got %d", len(pending))
	}
	for i, p := range pending {
		if want := strconv.Itoa(11 - i); p.ID != want {
			t.Fatalf("position %d: expected id %s, got %s", i, want, p.ID)
		}
	}
}
