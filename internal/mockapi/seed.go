package mockapi

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/Spok95/safiro-portal/internal/models"
)

const DemoPassword = "demo123"

type demoUser struct {
	rec      UserRecord
	materias []string
}

// Seed заводит демо-аккаунты (пароль DemoPassword) и их материи. Повторный вызов ничего не меняет.
func Seed(ctx context.Context, st Store, cost int) error {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return err
	}
	users := []demoUser{
		{rec: UserRecord{Email: "estudiante@safiro.com", PrimerNombre: "Estudiante", PrimerApellido: "Demo",
			TipoPerfil: int(models.TipoEstudiante)}},
		{rec: UserRecord{Email: "profesor@safiro.com", PrimerNombre: "Profesor", PrimerApellido: "Demo",
			TipoPerfil: int(models.TipoProfesor)},
			materias: []string{"Ecuaciones diferenciales", "Ecuaciones integrales", "Algebra Lineal"}},
		{rec: UserRecord{Email: "admin@safiro.com", PrimerNombre: "Admin", PrimerApellido: "Demo",
			TipoPerfil: int(models.TipoAdministrador)}},
	}
	for _, du := range users {
		if _, err := st.UserByEmail(ctx, du.rec.Email); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		du.rec.PasswordHash = string(hash)
		du.rec.EmailVerificado = true
		du.rec.Activo = true
		u, err := st.CreateUser(ctx, du.rec)
		if err != nil {
			return err
		}
		for _, name := range du.materias {
			if _, err := st.CreateMateria(ctx, name, u.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
