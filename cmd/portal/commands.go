package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/safiro-portal/internal/auth"
	"github.com/Spok95/safiro-portal/internal/ctxutil"
	"github.com/Spok95/safiro-portal/internal/export"
	"github.com/Spok95/safiro-portal/internal/grades"
	"github.com/Spok95/safiro-portal/internal/models"
	"github.com/Spok95/safiro-portal/internal/permisos"
)

var errForbidden = errors.New("No tienes permisos para esta acción")

type creds struct {
	email    *string
	password *string
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func credFlags(fs *flag.FlagSet) creds {
	return creds{
		email:    fs.String("email", os.Getenv("SAFIRO_EMAIL"), "correo"),
		password: fs.String("password", os.Getenv("SAFIRO_PASSWORD"), "contraseña"),
	}
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

// login открывает сессию; каждая команда CLI живёт в своём процессе.
// Возвращённый контекст несёт id пользователя для логов клиента API.
func (a *app) login(ctx context.Context, c creds) (context.Context, models.User, error) {
	if strings.TrimSpace(*c.email) == "" {
		return ctx, models.User{}, fmt.Errorf("%w: falta -email", errUsage)
	}
	u, err := a.sess.Login(ctx, *c.email, *c.password)
	if err != nil {
		return ctx, models.User{}, err
	}
	return ctxutil.WithUserID(ctx, u.ID), u, nil
}

func (a *app) requireRole(roles ...models.Role) error {
	if _, err := a.sess.Require(); err != nil {
		return err
	}
	if !a.sess.HasRole(roles...) {
		return errForbidden
	}
	return nil
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 2, 2, ' ', 0)
}

func (a *app) printUser(u models.User) {
	tw := a.table()
	fmt.Fprintf(tw, "ID\t%d\n", u.ID)
	fmt.Fprintf(tw, "Nombre\t%s\n", u.Name)
	fmt.Fprintf(tw, "Email\t%s\n", u.Email)
	fmt.Fprintf(tw, "Teléfono\t%s\n", u.Phone)
	fmt.Fprintf(tw, "Rol\t%s\n", u.Role.Title())
	fmt.Fprintf(tw, "Verificado\t%t\n", u.EmailVerified)
	_ = tw.Flush()
}

// ---- cuenta

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := newFlags("login")
	c := credFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	_, u, err := a.login(ctx, c)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Bienvenido, %s\n", u.Name)
	a.printUser(u)
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := newFlags("register")
	var req models.RegistroUsuarioRequest
	tipo := fs.Int("tipo", int(models.TipoEstudiante), "1 estudiante, 2 profesor, 3 administrador")
	fs.StringVar(&req.Email, "email", "", "correo")
	fs.StringVar(&req.Password, "password", "", "contraseña")
	fs.StringVar(&req.PrimerNombre, "nombre", "", "primer nombre")
	fs.StringVar(&req.SegundoNombre, "segundo-nombre", "", "segundo nombre")
	fs.StringVar(&req.PrimerApellido, "apellido", "", "primer apellido")
	fs.StringVar(&req.SegundoApellido, "segundo-apellido", "", "segundo apellido")
	fs.StringVar(&req.FechaNacimiento, "nacimiento", "", "YYYY-MM-DD")
	fs.StringVar(&req.Telefono, "telefono", "", "teléfono")
	fs.StringVar(&req.Pais, "pais", "", "país")
	fs.StringVar(&req.Ciudad, "ciudad", "", "ciudad")
	if err := parse(fs, args); err != nil {
		return err
	}
	req.IDTipoPerfil = models.TipoPerfil(*tipo)

	u, err := a.sess.Register(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Cuenta creada. Verifica tu correo antes de iniciar sesión.")
	a.printUser(u)
	return nil
}

func (a *app) cmdUser(ctx context.Context, args []string) error {
	fs := newFlags("user")
	c := credFlags(fs)
	id := fs.Int64("id", 0, "id de usuario (por defecto el propio)")
	if err := parse(fs, args); err != nil {
		return err
	}
	ctx, me, err := a.login(ctx, c)
	if err != nil {
		return err
	}
	if *id == 0 {
		*id = me.ID
	}
	raw, err := a.auth.GetUser(ctx, *id)
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintf(tw, "ID\t%d\n", raw.IDUsuario)
	fmt.Fprintf(tw, "Nombre\t%s\n", raw.DisplayName())
	fmt.Fprintf(tw, "Email\t%s\n", raw.Email)
	fmt.Fprintf(tw, "Perfil\t%s\n", raw.NombreTipoPerfil)
	fmt.Fprintf(tw, "Activo\t%t\n", raw.Activo)
	fmt.Fprintf(tw, "Creado\t%s\n", raw.FechaCreacion)
	fmt.Fprintf(tw, "Actualizado\t%s\n", raw.FechaActualizacion)
	return tw.Flush()
}

func (a *app) cmdProfile(ctx context.Context, args []string) error {
	fs := newFlags("profile")
	c := credFlags(fs)
	fields := map[string]*string{}
	for _, name := range []string{"nombre", "segundo-nombre", "apellido", "segundo-apellido", "nacimiento", "telefono", "biografia", "pais", "ciudad"} {
		fields[name] = fs.String(name, "", name)
	}
	if err := parse(fs, args); err != nil {
		return err
	}

	var patch models.PerfilUpdate
	targets := map[string]**string{
		"nombre":           &patch.PrimerNombre,
		"segundo-nombre":   &patch.SegundoNombre,
		"apellido":         &patch.PrimerApellido,
		"segundo-apellido": &patch.SegundoApellido,
		"nacimiento":       &patch.FechaNacimiento,
		"telefono":         &patch.Telefono,
		"biografia":        &patch.Biografia,
		"pais":             &patch.Pais,
		"ciudad":           &patch.Ciudad,
	}
	changed := 0
	// только явно переданные флаги: пустая строка тоже значение
	fs.Visit(func(f *flag.Flag) {
		if dst, ok := targets[f.Name]; ok {
			*dst = fields[f.Name]
			changed++
		}
	})
	if changed == 0 {
		return fmt.Errorf("%w: nada que actualizar", errUsage)
	}

	ctx, me, err := a.login(ctx, c)
	if err != nil {
		return err
	}
	raw, err := a.auth.UpdateProfile(ctx, me.ID, patch)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Perfil actualizado.")
	a.printUser(auth.ToUser(raw))
	return nil
}

func (a *app) cmdPassword(ctx context.Context, args []string) error {
	fs := newFlags("password")
	c := credFlags(fs)
	next := fs.String("new", "", "nueva contraseña")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *next == "" {
		return fmt.Errorf("%w: falta -new", errUsage)
	}
	ctx, me, err := a.login(ctx, c)
	if err != nil {
		return err
	}
	if err := a.auth.ChangePassword(ctx, me.ID, *c.password, *next); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Contraseña actualizada.")
	return nil
}

// ---- materias

func (a *app) cmdMaterias(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	sub, rest := args[0], args[1:]
	fs := newFlags("materias " + sub)
	c := credFlags(fs)
	id := fs.Int64("id", 0, "id de materia")
	name := fs.String("name", "", "nombre de la materia")
	owner := fs.Int64("owner", 0, "id del usuario responsable")
	if err := parse(fs, rest); err != nil {
		return err
	}
	ctx, me, err := a.login(ctx, c)
	if err != nil {
		return err
	}

	switch sub {
	case "mine":
		items, err := a.materias.ByUser(ctx, me.ID)
		if err != nil {
			return err
		}
		return a.printMaterias(items)
	case "all":
		items, err := a.materias.All(ctx)
		if err != nil {
			return err
		}
		return a.printMaterias(items)
	case "get":
		if *id == 0 {
			return fmt.Errorf("%w: falta -id", errUsage)
		}
		m, err := a.materias.ByID(ctx, *id)
		if err != nil {
			return err
		}
		return a.printMaterias([]models.MateriaResponse{m})
	}

	if err := a.requireRole(models.RoleProfesor, models.RoleAdministrador); err != nil {
		return err
	}
	switch sub {
	case "create":
		if *owner == 0 {
			*owner = me.ID
		}
		m, err := a.materias.Create(ctx, models.MateriaRequest{NombreMateria: *name, IDUsuario: *owner})
		if err != nil {
			return err
		}
		return a.printMaterias([]models.MateriaResponse{m})
	case "rename":
		if *id == 0 || strings.TrimSpace(*name) == "" {
			return fmt.Errorf("%w: faltan -id y -name", errUsage)
		}
		m, err := a.materias.Rename(ctx, *id, *name)
		if err != nil {
			return err
		}
		return a.printMaterias([]models.MateriaResponse{m})
	case "reassign":
		if *id == 0 || *owner == 0 {
			return fmt.Errorf("%w: faltan -id y -owner", errUsage)
		}
		m, err := a.materias.Reassign(ctx, *id, *owner)
		if err != nil {
			return err
		}
		return a.printMaterias([]models.MateriaResponse{m})
	case "delete":
		if *id == 0 {
			return fmt.Errorf("%w: falta -id", errUsage)
		}
		if err := a.materias.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Materia %d eliminada.\n", *id)
		return nil
	default:
		return errUsage
	}
}

func (a *app) printMaterias(items []models.MateriaResponse) error {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No hay materias.")
		return nil
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tMATERIA\tRESPONSABLE\tCREADA")
	for _, m := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.IDMateria, m.NombreMateria, m.Usuario.DisplayName(), m.FechaCreacion)
	}
	return tw.Flush()
}

// ---- permisos

func (a *app) cmdPermisos(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	sub, rest := args[0], args[1:]
	fs := newFlags("permisos " + sub)
	c := credFlags(fs)
	id := fs.String("id", "", "id de permiso")
	var req permisos.Request
	fs.StringVar(&req.Tipo, "tipo", "", "tipo de permiso")
	fs.StringVar(&req.FechaInicio, "inicio", "", "DD/MM/YYYY")
	fs.StringVar(&req.FechaFin, "fin", "", "DD/MM/YYYY")
	fs.StringVar(&req.Motivo, "motivo", "", "motivo")
	if err := parse(fs, rest); err != nil {
		return err
	}
	ctx, me, err := a.login(ctx, c)
	if err != nil {
		return err
	}

	switch sub {
	case "pending":
		return a.printPermisos(a.permisos.Pending())
	case "history":
		if err := a.printPermisos(a.permisos.History()); err != nil {
			return err
		}
		sum := a.permisos.Summary()
		fmt.Fprintf(a.out, "\nTotal: %d  Aprobados: %d  Rechazados: %d\n", sum.Total, sum.Aprobados, sum.Rechazados)
		return nil
	case "show":
		p, err := a.permisos.Get(*id)
		if err != nil {
			return err
		}
		return a.printPermiso(p)
	case "submit":
		p, err := a.permisos.Submit(req)
		if err != nil {
			return err
		}
		a.log.Info("permiso submitted", zap.String("id", p.ID), zap.Int64("user_id", me.ID))
		fmt.Fprintln(a.out, "Solicitud enviada.")
		return a.printPermiso(p)
	}

	if err := a.requireRole(models.RoleAdministrador); err != nil {
		return err
	}
	var p models.Permiso
	switch sub {
	case "review":
		p, err = a.permisos.StartReview(*id)
	case "approve":
		p, err = a.permisos.Approve(*id, me.Name)
	case "reject":
		p, err = a.permisos.Reject(*id, me.Name, req.Motivo)
	default:
		return errUsage
	}
	if err != nil {
		return err
	}
	return a.printPermiso(p)
}

func (a *app) printPermisos(items []models.Permiso) error {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No hay solicitudes.")
		return nil
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tTIPO\tDESDE\tHASTA\tESTADO")
	for _, p := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Tipo, p.FechaInicio, p.FechaFin, permisos.EstadoTexto(p.Estado))
	}
	return tw.Flush()
}

func (a *app) printPermiso(p models.Permiso) error {
	tw := a.table()
	fmt.Fprintf(tw, "ID\t%s\n", p.ID)
	fmt.Fprintf(tw, "Tipo\t%s\n", p.Tipo)
	fmt.Fprintf(tw, "Periodo\t%s - %s\n", p.FechaInicio, p.FechaFin)
	fmt.Fprintf(tw, "Motivo\t%s\n", p.Motivo)
	fmt.Fprintf(tw, "Estado\t%s\n", permisos.EstadoTexto(p.Estado))
	fmt.Fprintf(tw, "Solicitado\t%s\n", p.FechaSolicitud)
	if p.Resolved() {
		fmt.Fprintf(tw, "Respondido\t%s (%s)\n", p.FechaRespuesta, p.AprobadoPor)
	}
	if p.MotivoRechazo != "" {
		fmt.Fprintf(tw, "Motivo de rechazo\t%s\n", p.MotivoRechazo)
	}
	return tw.Flush()
}

// ---- notas

func (a *app) cmdGrades(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	sub, rest := args[0], args[1:]
	fs := newFlags("grades " + sub)
	c := credFlags(fs)
	classID := fs.String("class", "", "id de clase")
	if err := parse(fs, rest); err != nil {
		return err
	}
	if _, _, err := a.login(ctx, c); err != nil {
		return err
	}
	if err := a.requireRole(models.RoleProfesor); err != nil {
		return err
	}

	switch sub {
	case "list":
		tw := a.table()
		fmt.Fprintln(tw, "ID\tCLASE\tCÓDIGO\tESTUDIANTES\tPROMEDIO")
		for _, cl := range a.grades.Classes() {
			st := grades.ComputeStats(cl)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f\n", cl.ID, cl.Nombre, cl.Codigo, st.Total, st.Promedio)
		}
		return tw.Flush()
	case "show":
		cl, err := a.grades.Class(*classID)
		if err != nil {
			return err
		}
		return a.printClass(cl)
	case "set":
		raw, err := parseGradeArgs(fs.Args())
		if err != nil {
			return err
		}
		cl, err := a.grades.UpdateGrades(*classID, raw)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Notas guardadas.")
		return a.printClass(cl)
	default:
		return errUsage
	}
}

// parseGradeArgs разбирает пары "idEstudiante=nota".
func parseGradeArgs(args []string) (map[int64]string, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: se esperan pares id=nota", errUsage)
	}
	out := make(map[int64]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		id, err := strconv.ParseInt(k, 10, 64)
		if !ok || err != nil {
			return nil, fmt.Errorf("%w: %q no es id=nota", errUsage, arg)
		}
		out[id] = v
	}
	return out, nil
}

func (a *app) printClass(cl models.Clase) error {
	fmt.Fprintf(a.out, "%s (%s)\n", cl.Nombre, cl.Codigo)
	tw := a.table()
	fmt.Fprintln(tw, "ID\tESTUDIANTE\tNOTA\tESTADO")
	students := append([]models.Estudiante(nil), cl.Estudiantes...)
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	for _, e := range students {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\n", e.ID, e.Nombre, e.Nota, e.Estado())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	st := grades.ComputeStats(cl)
	fmt.Fprintf(a.out, "Aprobados: %d  Reprobados: %d  Promedio: %.2f  Aprobación: %.1f%%\n",
		st.Aprobados, st.Reprobados, st.Promedio, st.Porcentaje)
	return nil
}

// ---- export

func (a *app) cmdExport(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	sub, rest := args[0], args[1:]
	fs := newFlags("export " + sub)
	c := credFlags(fs)
	all := fs.Bool("all", false, "todas las materias")
	classID := fs.String("class", "", "id de clase")
	if err := parse(fs, rest); err != nil {
		return err
	}
	ctx, me, err := a.login(ctx, c)
	if err != nil {
		return err
	}

	var (
		wb   *export.Workbook
		name string
	)
	now := time.Now()
	switch sub {
	case "materias":
		items, err := a.exportMaterias(ctx, me, *all)
		if err != nil {
			return err
		}
		if wb, err = export.MateriasWorkbook(items); err != nil {
			return err
		}
		owner := me.Name
		if *all {
			owner = "Todas"
		}
		name = export.BuildMateriasFilename(owner, now)
	case "class":
		if err := a.requireRole(models.RoleProfesor); err != nil {
			return err
		}
		cl, err := a.grades.Class(*classID)
		if err != nil {
			return err
		}
		if wb, err = export.ClassWorkbook(cl); err != nil {
			return err
		}
		name = export.BuildClassFilename(cl.Nombre, cl.Codigo, now)
	default:
		return errUsage
	}
	defer func() { _ = wb.Close() }()

	dir := a.cfg.ExportDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, name)
	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("guardar %s: %w", path, err)
	}
	a.log.Info("export saved", zap.String("path", path), zap.String("kind", sub))
	fmt.Fprintf(a.out, "Archivo guardado: %s\n", path)
	return nil
}

func (a *app) exportMaterias(ctx context.Context, me models.User, all bool) ([]models.MateriaResponse, error) {
	if all {
		if err := a.requireRole(models.RoleAdministrador); err != nil {
			return nil, err
		}
		return a.materias.All(ctx)
	}
	return a.materias.ByUser(ctx, me.ID)
}
