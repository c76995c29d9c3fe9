package materias

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Spok95/safiro-portal/internal/api"
	"github.com/Spok95/safiro-portal/internal/ctxutil"
	"github.com/Spok95/safiro-portal/internal/logging"
	"github.com/Spok95/safiro-portal/internal/models"
)

// Service: обёртки над /materias. Один вызов = один HTTP-запрос, без кэша.
type Service struct {
	api *api.Client
	log *zap.Logger
}

func NewService(c *api.Client, log *zap.Logger) *Service {
	return &Service{api: c, log: logging.OrNop(log)}
}

// ByUser: GET /materias/usuario/{idUsuario}.
func (s *Service) ByUser(ctx context.Context, userID int64) ([]models.MateriaResponse, error) {
	ctx = ctxutil.WithOp(ctx, "materias.by_user")
	out, err := api.Get[[]models.MateriaResponse](ctx, s.api, fmt.Sprintf("/materias/usuario/%d", userID))
	if err != nil {
		s.log.Error("list materias by user failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	return out, err
}

// All: GET /materias.
func (s *Service) All(ctx context.Context) ([]models.MateriaResponse, error) {
	ctx = ctxutil.WithOp(ctx, "materias.all")
	out, err := api.Get[[]models.MateriaResponse](ctx, s.api, "/materias")
	if err != nil {
		s.log.Error("list all materias failed", zap.Error(err))
	}
	return out, err
}

// ByID: GET /materias/{id}.
func (s *Service) ByID(ctx context.Context, id int64) (models.MateriaResponse, error) {
	ctx = ctxutil.WithOp(ctx, "materias.by_id")
	out, err := api.Get[models.MateriaResponse](ctx, s.api, fmt.Sprintf("/materias/%d", id))
	if err != nil {
		s.log.Error("get materia failed", zap.Int64("materia_id", id), zap.Error(err))
	}
	return out, err
}

// Create: POST /materias.
func (s *Service) Create(ctx context.Context, req models.MateriaRequest) (models.MateriaResponse, error) {
	ctx = ctxutil.WithOp(ctx, "materias.create")
	out, err := api.Post[models.MateriaResponse](ctx, s.api, "/materias", req)
	if err != nil {
		s.log.Error("create materia failed", zap.String("nombre", req.NombreMateria), zap.Error(err))
	}
	return out, err
}

// Rename: PUT /materias/{id}/nombre.
func (s *Service) Rename(ctx context.Context, id int64, name string) (models.MateriaResponse, error) {
	ctx = ctxutil.WithOp(ctx, "materias.rename")
	out, err := api.Put[models.MateriaResponse](ctx, s.api, fmt.Sprintf("/materias/%d/nombre", id),
		models.MateriaActualizarNombreRequest{NombreMateria: name})
	if err != nil {
		s.log.Error("rename materia failed", zap.Int64("materia_id", id), zap.Error(err))
	}
	return out, err
}

// Reassign: PUT /materias/{id}/usuario, смена ответственного.
func (s *Service) Reassign(ctx context.Context, id, userID int64) (models.MateriaResponse, error) {
	ctx = ctxutil.WithOp(ctx, "materias.reassign")
	out, err := api.Put[models.MateriaResponse](ctx, s.api, fmt.Sprintf("/materias/%d/usuario", id),
		models.MateriaCambiarUsuarioRequest{IDUsuario: userID})
	if err != nil {
		s.log.Error("reassign materia failed", zap.Int64("materia_id", id), zap.Int64("user_id", userID), zap.Error(err))
	}
	return out, err
}

// Delete: DELETE /materias/{id}.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx = ctxutil.WithOp(ctx, "materias.delete")
	_, err := api.Delete[json.RawMessage](ctx, s.api, fmt.Sprintf("/materias/%d", id))
	if err != nil {
		s.log.Error("delete materia failed", zap.Int64("materia_id", id), zap.Error(err))
	}
	return err
}
