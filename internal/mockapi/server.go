package mockapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Spok95/safiro-portal/internal/ctxutil"
	"github.com/Spok95/safiro-portal/internal/logging"
	"github.com/Spok95/safiro-portal/internal/metrics"
	"github.com/Spok95/safiro-portal/internal/models"
)

const timeLayout = "2006-01-02T15:04:05"

type Options struct {
	// AutoVerify: новые аккаунты сразу подтверждены (без письма).
	AutoVerify bool
	BcryptCost int
}

type Server struct {
	store    Store
	log      *zap.Logger
	validate *validator.Validate
	opts     Options
}

func NewServer(store Store, log *zap.Logger, opts Options) *Server {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return &Server{store: store, log: logging.OrNop(log), validate: v, opts: opts}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/usuarios/registrar", s.register)
		r.Get("/usuarios/email/{email}", s.userByEmail)
		r.Get("/usuarios/{id}", s.userByID)
		r.Put("/usuarios/{id}/perfil", s.updateProfile)
		r.Put("/usuarios/{id}/password", s.changePassword)

		r.Get("/materias", s.listMaterias)
		r.Post("/materias", s.createMateria)
		r.Get("/materias/usuario/{idUsuario}", s.materiasByUser)
		r.Get("/materias/{id}", s.materiaByID)
		r.Put("/materias/{id}/nombre", s.renameMateria)
		r.Put("/materias/{id}/usuario", s.reassignMateria)
		r.Delete("/materias/{id}", s.deleteMateria)
	})
	return r
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		metrics.MockRequests.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxutil.WithTimeout(r.Context(), 800*time.Millisecond)
	defer cancel()
	t0 := time.Now()
	if err := s.store.Ping(ctx); err != nil {
		http.Error(w, "db not ok: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	metrics.ObserveDBPing(time.Since(t0))
	_, _ = w.Write([]byte("ok"))
}

// ---- usuarios

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegistroUsuarioRequest
	if !s.decode(w, r, &req) {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.opts.BcryptCost)
	if err != nil {
		s.internal(w, err)
		return
	}
	u, err := s.store.CreateUser(r.Context(), UserRecord{
		Email:           req.Email,
		PasswordHash:    string(hash),
		PrimerNombre:    req.PrimerNombre,
		SegundoNombre:   req.SegundoNombre,
		PrimerApellido:  req.PrimerApellido,
		SegundoApellido: req.SegundoApellido,
		FechaNacimiento: req.FechaNacimiento,
		Telefono:        req.Telefono,
		Biografia:       req.Biografia,
		Pais:            req.Pais,
		Ciudad:          req.Ciudad,
		TipoPerfil:      int(req.IDTipoPerfil),
		EmailVerificado: s.opts.AutoVerify,
		Activo:          true,
	})
	if errors.Is(err, ErrConflict) {
		writeError(w, http.StatusConflict, "El email ya está registrado", nil)
		return
	}
	if err != nil {
		s.internal(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUsuario(u))
}

func (s *Server) userByEmail(w http.ResponseWriter, r *http.Request) {
	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil || strings.TrimSpace(email) == "" {
		writeError(w, http.StatusBadRequest, "Email inválido", nil)
		return
	}
	u, err := s.store.UserByEmail(r.Context(), email)
	if !s.check(w, err, "Usuario no encontrado") {
		return
	}
	writeJSON(w, http.StatusOK, toUsuario(u))
}

func (s *Server) userByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	u, err := s.store.UserByID(r.Context(), id)
	if !s.check(w, err, "Usuario no encontrado") {
		return
	}
	writeJSON(w, http.StatusOK, toUsuario(u))
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.PerfilUpdate
	if !s.decode(w, r, &req) {
		return
	}
	u, err := s.store.UserByID(r.Context(), id)
	if !s.check(w, err, "Usuario no encontrado") {
		return
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&u.PrimerNombre, req.PrimerNombre)
	set(&u.SegundoNombre, req.SegundoNombre)
	set(&u.PrimerApellido, req.PrimerApellido)
	set(&u.SegundoApellido, req.SegundoApellido)
	set(&u.FechaNacimiento, req.FechaNacimiento)
	set(&u.Telefono, req.Telefono)
	set(&u.Biografia, req.Biografia)
	set(&u.Pais, req.Pais)
	set(&u.Ciudad, req.Ciudad)
	if u.PrimerNombre == "" || u.PrimerApellido == "" {
		writeError(w, http.StatusBadRequest, "Datos inválidos", map[string][]string{
			"primerNombre": {msgRequired}, "primerApellido": {msgRequired},
		})
		return
	}
	u, err = s.store.UpdateUser(r.Context(), u)
	if !s.check(w, err, "Usuario no encontrado") {
		return
	}
	writeJSON(w, http.StatusOK, toUsuario(u))
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.CambioPassword
	if !s.decode(w, r, &req) {
		return
	}
	u, err := s.store.UserByID(r.Context(), id)
	if !s.check(w, err, "Usuario no encontrado") {
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.PasswordActual)) != nil {
		writeError(w, http.StatusUnauthorized, "La contraseña actual no es correcta", nil)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.PasswordNueva), s.opts.BcryptCost)
	if err != nil {
		s.internal(w, err)
		return
	}
	u.PasswordHash = string(hash)
	if _, err := s.store.UpdateUser(r.Context(), u); !s.check(w, err, "Usuario no encontrado") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- materias

func (s *Server) listMaterias(w http.ResponseWriter, r *http.Request) {
	ms, err := s.store.Materias(r.Context())
	if err != nil {
		s.internal(w, err)
		return
	}
	s.writeMaterias(w, r, ms)
}

func (s *Server) materiasByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "idUsuario")
	if !ok {
		return
	}
	if _, err := s.store.UserByID(r.Context(), userID); !s.check(w, err, "Usuario no encontrado") {
		return
	}
	ms, err := s.store.MateriasByUser(r.Context(), userID)
	if err != nil {
		s.internal(w, err)
		return
	}
	s.writeMaterias(w, r, ms)
}

func (s *Server) materiaByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	m, err := s.store.MateriaByID(r.Context(), id)
	if !s.check(w, err, "Materia no encontrada") {
		return
	}
	s.writeMateria(w, r, http.StatusOK, m)
}

func (s *Server) createMateria(w http.ResponseWriter, r *http.Request) {
	var req models.MateriaRequest
	if !s.decode(w, r, &req) {
		return
	}
	m, err := s.store.CreateMateria(r.Context(), strings.TrimSpace(req.NombreMateria), req.IDUsuario)
	if !s.check(w, err, "Usuario no encontrado") {
		return
	}
	s.writeMateria(w, r, http.StatusCreated, m)
}

func (s *Server) renameMateria(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.MateriaActualizarNombreRequest
	if !s.decode(w, r, &req) {
		return
	}
	m, err := s.store.RenameMateria(r.Context(), id, strings.TrimSpace(req.NombreMateria))
	if !s.check(w, err, "Materia no encontrada") {
		return
	}
	s.writeMateria(w, r, http.StatusOK, m)
}

func (s *Server) reassignMateria(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.MateriaCambiarUsuarioRequest
	if !s.decode(w, r, &req) {
		return
	}
	if _, err := s.store.UserByID(r.Context(), req.IDUsuario); !s.check(w, err, "Usuario no encontrado") {
		return
	}
	m, err := s.store.ReassignMateria(r.Context(), id, req.IDUsuario)
	if !s.check(w, err, "Materia no encontrada") {
		return
	}
	s.writeMateria(w, r, http.StatusOK, m)
}

func (s *Server) deleteMateria(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.store.DeleteMateria(r.Context(), id); !s.check(w, err, "Materia no encontrada") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeMateria(w http.ResponseWriter, r *http.Request, status int, m MateriaRecord) {
	u, err := s.store.UserByID(r.Context(), m.UserID)
	if err != nil {
		s.internal(w, err)
		return
	}
	writeJSON(w, status, toMateria(m, u))
}

func (s *Server) writeMaterias(w http.ResponseWriter, r *http.Request, ms []MateriaRecord) {
	owners := make(map[int64]UserRecord)
	out := make([]models.MateriaResponse, 0, len(ms))
	for _, m := range ms {
		u, ok := owners[m.UserID]
		if !ok {
			var err error
			if u, err = s.store.UserByID(r.Context(), m.UserID); err != nil {
				s.internal(w, err)
				return
			}
			owners[m.UserID] = u
		}
		out = append(out, toMateria(m, u))
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- helpers

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido", nil)
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			s.internal(w, err)
			return false
		}
		fields := make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
		}
		writeError(w, http.StatusBadRequest, "", fields)
		return false
	}
	return true
}

// check отвечает 404 на ErrNotFound и 500 на прочее; true, если ошибки нет.
func (s *Server) check(w http.ResponseWriter, err error, notFound string) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, notFound, nil)
	default:
		s.internal(w, err)
	}
	return false
}

func (s *Server) internal(w http.ResponseWriter, err error) {
	s.log.Error("mockapi internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Error interno del servidor", nil)
}

const msgRequired = "Este campo es obligatorio"

// fieldMessage: текст ошибки поля так, как его показывает API.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return msgRequired
	case "email":
		return "El formato del email no es válido"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Debe tener al menos %s caracteres", fe.Param())
		}
		return fmt.Sprintf("Debe ser mayor o igual a %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Debe tener como máximo %s caracteres", fe.Param())
		}
		return fmt.Sprintf("Debe ser menor o igual a %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Debe ser mayor que %s", fe.Param())
	case "datetime":
		return "La fecha debe tener el formato AAAA-MM-DD"
	default:
		return "Valor inválido"
	}
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Identificador inválido", nil)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, fields map[string][]string) {
	body := struct {
		Message string              `json:"message,omitempty"`
		Errors  map[string][]string `json:"errors,omitempty"`
		Status  int                 `json:"status"`
	}{Message: msg, Errors: fields, Status: status}
	writeJSON(w, status, body)
}

func tipoNombre(code int) string {
	switch models.TipoPerfil(code) {
	case models.TipoEstudiante:
		return "Estudiante"
	case models.TipoProfesor:
		return "Profesor"
	case models.TipoAdministrador:
		return "Administrador"
	default:
		return ""
	}
}

func toUsuario(u UserRecord) models.UsuarioResponse {
	nombre := strings.Join(strings.Fields(strings.Join([]string{
		u.PrimerNombre, u.SegundoNombre, u.PrimerApellido, u.SegundoApellido,
	}, " ")), " ")
	return models.UsuarioResponse{
		IDUsuario:          u.ID,
		Nombre:             nombre,
		PrimerNombre:       u.PrimerNombre,
		SegundoNombre:      u.SegundoNombre,
		PrimerApellido:     u.PrimerApellido,
		SegundoApellido:    u.SegundoApellido,
		Email:              u.Email,
		Telefono:           u.Telefono,
		EmailVerificado:    u.EmailVerificado,
		Activo:             u.Activo,
		IDTipoPerfil:       u.TipoPerfil,
		NombreTipoPerfil:   tipoNombre(u.TipoPerfil),
		FechaCreacion:      u.CreatedAt.UTC().Format(timeLayout),
		FechaActualizacion: u.UpdatedAt.UTC().Format(timeLayout),
	}
}

func toMateria(m MateriaRecord, owner UserRecord) models.MateriaResponse {
	out := models.MateriaResponse{
		IDMateria:     m.ID,
		NombreMateria: m.Nombre,
		Usuario:       toUsuario(owner),
		FechaCreacion: m.CreatedAt.UTC().Format(timeLayout),
	}
	if m.UpdatedAt != nil {
		out.FechaActualizacion = m.UpdatedAt.UTC().Format(timeLayout)
	}
	return out
}
