package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/Spok95/safiro-portal/internal/api"
	"github.com/Spok95/safiro-portal/internal/ctxutil"
	"github.com/Spok95/safiro-portal/internal/logging"
	"github.com/Spok95/safiro-portal/internal/metrics"
	"github.com/Spok95/safiro-portal/internal/models"
)

var (
	ErrInactive         = errors.New("usuario inactivo")
	ErrEmailNotVerified = errors.New("email no verificado")
	ErrEmptyEmail       = errors.New("email is empty")
)

type Service struct {
	api *api.Client
	log *zap.Logger
}

func NewService(c *api.Client, log *zap.Logger) *Service {
	return &Service{api: c, log: logging.OrNop(log)}
}

// Register: POST /usuarios/registrar.
func (s *Service) Register(ctx context.Context, req models.RegistroUsuarioRequest) (models.UsuarioResponse, error) {
	ctx = ctxutil.WithOp(ctx, "auth.register")
	return api.Post[models.UsuarioResponse](ctx, s.api, "/usuarios/registrar", req)
}

// FindByEmail: GET /usuarios/email/{email}.
func (s *Service) FindByEmail(ctx context.Context, email string) (models.UsuarioResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.UsuarioResponse{}, ErrEmptyEmail
	}
	ctx = ctxutil.WithOp(ctx, "auth.find_by_email")
	return api.Get[models.UsuarioResponse](ctx, s.api, "/usuarios/email/"+url.PathEscape(email))
}

// Login ищет пользователя по email и проверяет флаги activo/emailVerificado.
// Пароль на стороне клиента не проверяется: у API пока нет эндпоинта логина.
func (s *Service) Login(ctx context.Context, email, password string) (models.UsuarioResponse, error) {
	u, err := s.FindByEmail(ctx, email)
	if err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		return models.UsuarioResponse{}, err
	}
	if !u.Activo {
		metrics.Logins.WithLabelValues("inactive").Inc()
		s.log.Info("login rejected: inactive account", zap.Int64("user_id", u.IDUsuario))
		return models.UsuarioResponse{}, ErrInactive
	}
	if !u.EmailVerificado {
		metrics.Logins.WithLabelValues("unverified").Inc()
		s.log.Info("login rejected: email not verified", zap.Int64("user_id", u.IDUsuario))
		return models.UsuarioResponse{}, ErrEmailNotVerified
	}
	metrics.Logins.WithLabelValues("ok").Inc()
	return u, nil
}

// GetUser: GET /usuarios/{id}.
func (s *Service) GetUser(ctx context.Context, id int64) (models.UsuarioResponse, error) {
	ctx = ctxutil.WithOp(ctx, "auth.get_user")
	return api.Get[models.UsuarioResponse](ctx, s.api, fmt.Sprintf("/usuarios/%d", id))
}

// UpdateProfile: PUT /usuarios/{id}/perfil.
func (s *Service) UpdateProfile(ctx context.Context, id int64, patch models.PerfilUpdate) (models.UsuarioResponse, error) {
	ctx = ctxutil.WithOp(ctx, "auth.update_profile")
	return api.Put[models.UsuarioResponse](ctx, s.api, fmt.Sprintf("/usuarios/%d/perfil", id), patch)
}

// ChangePassword: PUT /usuarios/{id}/password. Тело ответа не используется.
func (s *Service) ChangePassword(ctx context.Context, id int64, current, next string) error {
	ctx = ctxutil.WithOp(ctx, "auth.change_password")
	_, err := api.Put[json.RawMessage](ctx, s.api, fmt.Sprintf("/usuarios/%d/password", id), models.CambioPassword{
		PasswordActual: current,
		PasswordNueva:  next,
	})
	return err
}
