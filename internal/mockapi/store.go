package mockapi

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

type UserRecord struct {
	ID              int64
	Email           string
	PasswordHash    string
	PrimerNombre    string
	SegundoNombre   string
	PrimerApellido  string
	SegundoApellido string
	FechaNacimiento string
	Telefono        string
	Biografia       string
	Pais            string
	Ciudad          string
	TipoPerfil      int
	EmailVerificado bool
	Activo          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type MateriaRecord struct {
	ID        int64
	Nombre    string
	UserID    int64
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Store: хранилище фейкового бэкенда (память или Postgres).
type Store interface {
	CreateUser(ctx context.Context, u UserRecord) (UserRecord, error)
	UserByEmail(ctx context.Context, email string) (UserRecord, error)
	UserByID(ctx context.Context, id int64) (UserRecord, error)
	UpdateUser(ctx context.Context, u UserRecord) (UserRecord, error)

	CreateMateria(ctx context.Context, name string, userID int64) (MateriaRecord, error)
	Materias(ctx context.Context) ([]MateriaRecord, error)
	MateriasByUser(ctx context.Context, userID int64) ([]MateriaRecord, error)
	MateriaByID(ctx context.Context, id int64) (MateriaRecord, error)
	RenameMateria(ctx context.Context, id int64, name string) (MateriaRecord, error)
	ReassignMateria(ctx context.Context, id, userID int64) (MateriaRecord, error)
	DeleteMateria(ctx context.Context, id int64) error

	Ping(ctx context.Context) error
}
