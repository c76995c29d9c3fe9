// Package grades: оценки по группам профессора (демо-данные в памяти, API для них пока нет).
package grades

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/Spok95/safiro-portal/internal/models"
)

var (
	ErrClassNotFound  = errors.New("clase no encontrada")
	ErrInvalidGrade   = errors.New("nota inválida")
	ErrUnknownStudent = errors.New("estudiante no pertenece a la clase")
	gradeRe           = regexp.MustCompile(`^\d*\.?\d{0,2}$`)
)

type Stats struct {
	Total      int
	Aprobados  int
	Reprobados int
	Promedio   float64 // до двух знаков
	Porcentaje float64 // доля сдавших, %, один знак
}

type Store struct {
	mu      sync.RWMutex
	classes map[string]models.Clase
}

func NewStore(seed []models.Clase) *Store {
	s := &Store{classes: make(map[string]models.Clase, len(seed))}
	for _, c := range seed {
		s.classes[c.ID] = cloneClass(c)
	}
	return s
}

func NewDemoStore() *Store { return NewStore(DemoData()) }

// Classes: все группы, по id.
func (s *Store) Classes() []models.Clase {
	s.mu.RLock()
	out := make([]models.Clase, 0, len(s.classes))
	for _, c := range s.classes {
		out = append(out, cloneClass(c))
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Class(id string) (models.Clase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.classes[id]
	if !ok {
		return models.Clase{}, ErrClassNotFound
	}
	return cloneClass(c), nil
}

// UpdateGrades применяет оценки по id студента: либо все, либо ни одной.
func (s *Store) UpdateGrades(classID string, raw map[int64]string) (models.Clase, error) {
	parsed := make(map[int64]float64, len(raw))
	var bad []string
	for id, v := range raw {
		g, err := ParseGrade(v)
		if err != nil {
			bad = append(bad, strconv.FormatInt(id, 10))
			continue
		}
		parsed[id] = g
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return models.Clase{}, fmt.Errorf("%w: las notas deben estar entre 0 y 5 (estudiantes %s)", ErrInvalidGrade, strings.Join(bad, ", "))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.classes[classID]
	if !ok {
		return models.Clase{}, ErrClassNotFound
	}
	idx := make(map[int64]int, len(c.Estudiantes))
	for i, e := range c.Estudiantes {
		idx[e.ID] = i
	}
	for id := range parsed {
		if _, ok := idx[id]; !ok {
			return models.Clase{}, fmt.Errorf("%w: %d", ErrUnknownStudent, id)
		}
	}
	c = cloneClass(c)
	for id, g := range parsed {
		c.Estudiantes[idx[id]].Nota = g
	}
	s.classes[classID] = c
	return cloneClass(c), nil
}

// ParseGrade: число 0..5, не больше двух знаков после точки.
func ParseGrade(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" || v == "." || !gradeRe.MatchString(v) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGrade, v)
	}
	g, err := strconv.ParseFloat(v, 64)
	if err != nil || g < models.NotaMin || g > models.NotaMax {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGrade, v)
	}
	return g, nil
}

func ComputeStats(c models.Clase) Stats {
	st := Stats{Total: len(c.Estudiantes)}
	if st.Total == 0 {
		return st
	}
	var sum float64
	for _, e := range c.Estudiantes {
		sum += e.Nota
		if e.Estado() == models.NotaAprobado {
			st.Aprobados++
		} else {
			st.Reprobados++
		}
	}
	st.Promedio = round(sum/float64(st.Total), 2)
	st.Porcentaje = round(float64(st.Aprobados)*100/float64(st.Total), 1)
	return st
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func cloneClass(c models.Clase) models.Clase {
	c.Estudiantes = append([]models.Estudiante(nil), c.Estudiantes...)
	return c
}
