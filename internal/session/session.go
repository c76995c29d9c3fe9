// Package session держит текущего пользователя на время жизни процесса.
package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Spok95/safiro-portal/internal/auth"
	"github.com/Spok95/safiro-portal/internal/logging"
	"github.com/Spok95/safiro-portal/internal/models"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// Authenticator: то, что сессии нужно от auth.Service.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (models.UsuarioResponse, error)
	Register(ctx context.Context, req models.RegistroUsuarioRequest) (models.UsuarioResponse, error)
}

type Session struct {
	auth Authenticator
	log  *zap.Logger

	mu   sync.RWMutex
	user *models.User
}

func New(a Authenticator, log *zap.Logger) *Session {
	return &Session{auth: a, log: logging.OrNop(log)}
}

// Login при успехе заменяет текущего пользователя; при ошибке сессия не меняется.
func (s *Session) Login(ctx context.Context, email, password string) (models.User, error) {
	raw, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return models.User{}, err
	}
	u := auth.ToUser(raw)

	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()

	s.log.Info("session started", zap.Int64("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

// Register создаёт аккаунт, но сессию не открывает: новый аккаунт ещё не подтверждён.
func (s *Session) Register(ctx context.Context, req models.RegistroUsuarioRequest) (models.User, error) {
	raw, err := s.auth.Register(ctx, req)
	if err != nil {
		return models.User{}, err
	}
	u := auth.ToUser(raw)
	s.log.Info("account registered", zap.Int64("user_id", u.ID))
	return u, nil
}

func (s *Session) Logout() {
	s.mu.Lock()
	prev := s.user
	s.user = nil
	s.mu.Unlock()
	if prev != nil {
		s.log.Info("session closed", zap.Int64("user_id", prev.ID))
	}
}

// Current: копия текущего пользователя.
func (s *Session) Current() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *Session) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// Require: текущий пользователь или ErrNotAuthenticated.
func (s *Session) Require() (models.User, error) {
	u, ok := s.Current()
	if !ok {
		return models.User{}, ErrNotAuthenticated
	}
	return u, nil
}

// HasRole: залогинен ли пользователь с одной из ролей.
func (s *Session) HasRole(roles ...models.Role) bool {
	u, ok := s.Current()
	if !ok {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
