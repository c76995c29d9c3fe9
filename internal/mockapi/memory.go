package mockapi

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type MemoryStore struct {
	mu       sync.RWMutex
	users    map[int64]UserRecord
	byEmail  map[string]int64
	materias map[int64]MateriaRecord
	userSeq  int64
	matSeq   int64
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[int64]UserRecord),
		byEmail:  make(map[string]int64),
		materias: make(map[int64]MateriaRecord),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, u UserRecord) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normEmail(u.Email)
	if _, ok := s.byEmail[key]; ok {
		return UserRecord{}, ErrConflict
	}
	s.userSeq++
	now := s.now()
	u.ID = s.userSeq
	u.Email = key
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = u
	s.byEmail[key] = u.ID
	return u, nil
}

func (s *MemoryStore) UserByEmail(_ context.Context, email string) (UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[normEmail(email)]
	if !ok {
		return UserRecord{}, ErrNotFound
	}
	return s.users[id], nil
}

func (s *MemoryStore) UserByID(_ context.Context, id int64) (UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return UserRecord{}, ErrNotFound
	}
	return u, nil
}

// UpdateUser перезаписывает всё, кроме email и даты создания.
func (s *MemoryStore) UpdateUser(_ context.Context, u UserRecord) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.users[u.ID]
	if !ok {
		return UserRecord{}, ErrNotFound
	}
	u.Email = cur.Email
	u.CreatedAt = cur.CreatedAt
	u.UpdatedAt = s.now()
	s.users[u.ID] = u
	return u, nil
}

func (s *MemoryStore) CreateMateria(_ context.Context, name string, userID int64) (MateriaRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return MateriaRecord{}, ErrNotFound
	}
	s.matSeq++
	m := MateriaRecord{ID: s.matSeq, Nombre: name, UserID: userID, CreatedAt: s.now()}
	s.materias[m.ID] = m
	return m, nil
}

func (s *MemoryStore) Materias(_ context.Context) ([]MateriaRecord, error) {
	return s.list(func(MateriaRecord) bool { return true }), nil
}

func (s *MemoryStore) MateriasByUser(_ context.Context, userID int64) ([]MateriaRecord, error) {
	return s.list(func(m MateriaRecord) bool { return m.UserID == userID }), nil
}

func (s *MemoryStore) MateriaByID(_ context.Context, id int64) (MateriaRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.materias[id]
	if !ok {
		return MateriaRecord{}, ErrNotFound
	}
	return m, nil
}

func (s *MemoryStore) RenameMateria(_ context.Context, id int64, name string) (MateriaRecord, error) {
	return s.updateMateria(id, func(m *MateriaRecord) error {
		m.Nombre = name
		return nil
	})
}

func (s *MemoryStore) ReassignMateria(_ context.Context, id, userID int64) (MateriaRecord, error) {
	return s.updateMateria(id, func(m *MateriaRecord) error {
		if _, ok := s.users[userID]; !ok {
			return ErrNotFound
		}
		m.UserID = userID
		return nil
	})
}

func (s *MemoryStore) DeleteMateria(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.materias[id]; !ok {
		return ErrNotFound
	}
	delete(s.materias, id)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) updateMateria(id int64, fn func(m *MateriaRecord) error) (MateriaRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.materias[id]
	if !ok {
		return MateriaRecord{}, ErrNotFound
	}
	if err := fn(&m); err != nil {
		return MateriaRecord{}, err
	}
	now := s.now()
	m.UpdatedAt = &now
	s.materias[id] = m
	return m, nil
}

func (s *MemoryStore) list(keep func(MateriaRecord) bool) []MateriaRecord {
	s.mu.RLock()
	out := make([]MateriaRecord, 0, len(s.materias))
	for _, m := range s.materias {
		if keep(m) {
			out = append(out, m)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func normEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
