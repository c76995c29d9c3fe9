package mockapi

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(ctx context.Context, dsn string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &PGStore{pool: pool}, nil
}

func (s *PGStore) Close() { s.pool.Close() }

const userColumns = `id_usuario, email, password_hash, primer_nombre, segundo_nombre, primer_apellido,
	segundo_apellido, fecha_nacimiento, telefono, biografia, pais, ciudad, id_tipo_perfil,
	email_verificado, activo, created_at, updated_at`

func scanUser(row pgx.Row) (UserRecord, error) {
	var u UserRecord
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.PrimerNombre, &u.SegundoNombre, &u.PrimerApellido,
		&u.SegundoApellido, &u.FechaNacimiento, &u.Telefono, &u.Biografia, &u.Pais, &u.Ciudad, &u.TipoPerfil,
		&u.EmailVerificado, &u.Activo, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return UserRecord{}, ErrNotFound
	}
	return u, err
}

func (s *PGStore) CreateUser(ctx context.Context, u UserRecord) (UserRecord, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO usuarios (email, password_hash, primer_nombre, segundo_nombre, primer_apellido,
			segundo_apellido, fecha_nacimiento, telefono, biografia, pais, ciudad, id_tipo_perfil,
			email_verificado, activo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+userColumns,
		normEmail(u.Email), u.PasswordHash, u.PrimerNombre, u.SegundoNombre, u.PrimerApellido,
		u.SegundoApellido, u.FechaNacimiento, u.Telefono, u.Biografia, u.Pais, u.Ciudad, u.TipoPerfil,
		u.EmailVerificado, u.Activo)
	out, err := scanUser(row)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return UserRecord{}, ErrConflict
	}
	return out, err
}

func (s *PGStore) UserByEmail(ctx context.Context, email string) (UserRecord, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM usuarios WHERE email = $1`, normEmail(email)))
}

func (s *PGStore) UserByID(ctx context.Context, id int64) (UserRecord, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM usuarios WHERE id_usuario = $1`, id))
}

func (s *PGStore) UpdateUser(ctx context.Context, u UserRecord) (UserRecord, error) {
	return scanUser(s.pool.QueryRow(ctx, `
		UPDATE usuarios SET password_hash = $2, primer_nombre = $3, segundo_nombre = $4, primer_apellido = $5,
			segundo_apellido = $6, fecha_nacimiento = $7, telefono = $8, biografia = $9, pais = $10,
			ciudad = $11, id_tipo_perfil = $12, email_verificado = $13, activo = $14, updated_at = now()
		WHERE id_usuario = $1
		RETURNING `+userColumns,
		u.ID, u.PasswordHash, u.PrimerNombre, u.SegundoNombre, u.PrimerApellido, u.SegundoApellido,
		u.FechaNacimiento, u.Telefono, u.Biografia, u.Pais, u.Ciudad, u.TipoPerfil, u.EmailVerificado, u.Activo))
}

const materiaColumns = `id_materia, nombre, id_usuario, created_at, updated_at`

func scanMateria(row pgx.Row) (MateriaRecord, error) {
	var m MateriaRecord
	var updated *time.Time
	err := row.Scan(&m.ID, &m.Nombre, &m.UserID, &m.CreatedAt, &updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return MateriaRecord{}, ErrNotFound
	}
	m.UpdatedAt = updated
	return m, err
}

// fkViolation: пользователь, на которого ссылается материя, не существует.
func fkViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func (s *PGStore) CreateMateria(ctx context.Context, name string, userID int64) (MateriaRecord, error) {
	m, err := scanMateria(s.pool.QueryRow(ctx,
		`INSERT INTO materias (nombre, id_usuario) VALUES ($1, $2) RETURNING `+materiaColumns, name, userID))
	if fkViolation(err) {
		return MateriaRecord{}, ErrNotFound
	}
	return m, err
}

func (s *PGStore) Materias(ctx context.Context) ([]MateriaRecord, error) {
	return s.queryMaterias(ctx, `SELECT `+materiaColumns+` FROM materias ORDER BY id_materia`)
}

func (s *PGStore) MateriasByUser(ctx context.Context, userID int64) ([]MateriaRecord, error) {
	return s.queryMaterias(ctx, `SELECT `+materiaColumns+` FROM materias WHERE id_usuario = $1 ORDER BY id_materia`, userID)
}

func (s *PGStore) MateriaByID(ctx context.Context, id int64) (MateriaRecord, error) {
	return scanMateria(s.pool.QueryRow(ctx, `SELECT `+materiaColumns+` FROM materias WHERE id_materia = $1`, id))
}

func (s *PGStore) RenameMateria(ctx context.Context, id int64, name string) (MateriaRecord, error) {
	return scanMateria(s.pool.QueryRow(ctx,
		`UPDATE materias SET nombre = $2, updated_at = now() WHERE id_materia = $1 RETURNING `+materiaColumns, id, name))
}

func (s *PGStore) ReassignMateria(ctx context.Context, id, userID int64) (MateriaRecord, error) {
	m, err := scanMateria(s.pool.QueryRow(ctx,
		`UPDATE materias SET id_usuario = $2, updated_at = now() WHERE id_materia = $1 RETURNING `+materiaColumns, id, userID))
	if fkViolation(err) {
		return MateriaRecord{}, ErrNotFound
	}
	return m, err
}

func (s *PGStore) DeleteMateria(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM materias WHERE id_materia = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *PGStore) queryMaterias(ctx context.Context, sql string, args ...any) ([]MateriaRecord, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []MateriaRecord{}
	for rows.Next() {
		m, err := scanMateria(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
