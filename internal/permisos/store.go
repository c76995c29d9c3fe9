// Package permisos: заявки на отсутствие. У API пока нет таких эндпоинтов, поэтому данные
// живут в памяти и засеяны демонстрационными записями.
package permisos

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Spok95/safiro-portal/internal/models"
)

const DateLayout = "02/01/2006"

var (
	ErrInvalid      = errors.New("permiso inválido")
	ErrNotFound     = errors.New("permiso no encontrado")
	ErrAlreadyFinal = errors.New("permiso ya resuelto")
)

type Request struct {
	Tipo        string
	FechaInicio string
	FechaFin    string
	Motivo      string
}

type Summary struct {
	Total      int
	Aprobados  int
	Rechazados int
}

type Store struct {
	mu     sync.RWMutex
	items  map[string]models.Permiso
	nextID int
	now    func() time.Time
}

func NewStore(seed []models.Permiso) *Store {
	s := &Store{items: make(map[string]models.Permiso, len(seed)), now: time.Now}
	for _, p := range seed {
		s.items[p.ID] = p
		if n, err := strconv.Atoi(p.ID); err == nil && n > s.nextID {
			s.nextID = n
		}
	}
	return s
}

// NewDemoStore: хранилище с примерами из мобильного клиента.
func NewDemoStore() *Store { return NewStore(DemoData()) }

// Pending: заявки без решения, новые сверху.
func (s *Store) Pending() []models.Permiso {
	return s.filter(func(p models.Permiso) bool { return !p.Resolved() })
}

// History: заявки с решением, новые сверху.
func (s *Store) History() []models.Permiso {
	return s.filter(func(p models.Permiso) bool { return p.Resolved() })
}

func (s *Store) Get(id string) (models.Permiso, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.items[id]
	if !ok {
		return models.Permiso{}, ErrNotFound
	}
	return p, nil
}

func (s *Store) Summary() Summary {
	var sum Summary
	for _, p := range s.History() {
		sum.Total++
		switch p.Estado {
		case models.EstadoAprobado:
			sum.Aprobados++
		case models.EstadoRechazado:
			sum.Rechazados++
		}
	}
	return sum
}

// Submit проверяет заявку и сохраняет её в статусе "pendiente".
func (s *Store) Submit(r Request) (models.Permiso, error) {
	r.Tipo = strings.TrimSpace(r.Tipo)
	r.Motivo = strings.TrimSpace(r.Motivo)
	if r.Tipo == "" || r.Motivo == "" || strings.TrimSpace(r.FechaInicio) == "" || strings.TrimSpace(r.FechaFin) == "" {
		return models.Permiso{}, fmt.Errorf("%w: todos los campos son obligatorios", ErrInvalid)
	}
	start, err := time.Parse(DateLayout, strings.TrimSpace(r.FechaInicio))
	if err != nil {
		return models.Permiso{}, fmt.Errorf("%w: fecha de inicio %q", ErrInvalid, r.FechaInicio)
	}
	end, err := time.Parse(DateLayout, strings.TrimSpace(r.FechaFin))
	if err != nil {
		return models.Permiso{}, fmt.Errorf("%w: fecha de fin %q", ErrInvalid, r.FechaFin)
	}
	if end.Before(start) {
		return models.Permiso{}, fmt.Errorf("%w: la fecha de fin es anterior a la de inicio", ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	p := models.Permiso{
		ID:             strconv.Itoa(s.nextID),
		Tipo:           r.Tipo,
		FechaInicio:    start.Format(DateLayout),
		FechaFin:       end.Format(DateLayout),
		Motivo:         r.Motivo,
		Estado:         models.EstadoPendiente,
		FechaSolicitud: s.now().Format(DateLayout),
	}
	s.items[p.ID] = p
	return p, nil
}

// StartReview: pendiente -> en_revision.
func (s *Store) StartReview(id string) (models.Permiso, error) {
	return s.update(id, func(p *models.Permiso) error {
		if p.Estado != models.EstadoPendiente {
			return fmt.Errorf("%w: estado %s", ErrInvalid, p.Estado)
		}
		p.Estado = models.EstadoEnRevision
		return nil
	})
}

func (s *Store) Approve(id, by string) (models.Permiso, error) {
	return s.update(id, func(p *models.Permiso) error {
		p.Estado = models.EstadoAprobado
		p.AprobadoPor = by
		return nil
	})
}

// Reject: отказ обязательно с причиной.
func (s *Store) Reject(id, by, reason string) (models.Permiso, error) {
	if strings.TrimSpace(reason) == "" {
		return models.Permiso{}, fmt.Errorf("%w: falta el motivo de rechazo", ErrInvalid)
	}
	return s.update(id, func(p *models.Permiso) error {
		p.Estado = models.EstadoRechazado
		p.AprobadoPor = by
		p.MotivoRechazo = strings.TrimSpace(reason)
		return nil
	})
}

func (s *Store) update(id string, fn func(p *models.Permiso) error) (models.Permiso, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return models.Permiso{}, ErrNotFound
	}
	if p.Resolved() {
		return models.Permiso{}, ErrAlreadyFinal
	}
	if err := fn(&p); err != nil {
		return models.Permiso{}, err
	}
	if p.Resolved() {
		p.FechaRespuesta = s.now().Format(DateLayout)
	}
	s.items[id] = p
	return p, nil
}

func (s *Store) filter(keep func(models.Permiso) bool) []models.Permiso {
	s.mu.RLock()
	out := make([]models.Permiso, 0, len(s.items))
	for _, p := range s.items {
		if keep(p) {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		di, _ := time.Parse(DateLayout, out[i].FechaSolicitud)
		dj, _ := time.Parse(DateLayout, out[j].FechaSolicitud)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return newerID(out[i].ID, out[j].ID)
	})
	return out
}

// newerID: id числовые, "10" новее "9"; нечисловые сравниваются как строки.
func newerID(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na > nb
	}
	return a > b
}

// EstadoTexto: подпись статуса для экрана.
func EstadoTexto(e models.EstadoPermiso) string {
	switch e {
	case models.EstadoPendiente:
		return "Pendiente de revisión"
	case models.EstadoEnRevision:
		return "En revisión"
	case models.EstadoAprobado:
		return "Aprobado"
	case models.EstadoRechazado:
		return "Rechazado"
	default:
		return string(e)
	}
}
