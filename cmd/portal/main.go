package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Spok95/safiro-portal/internal/alerts"
	"github.com/Spok95/safiro-portal/internal/api"
	"github.com/Spok95/safiro-portal/internal/auth"
	"github.com/Spok95/safiro-portal/internal/config"
	"github.com/Spok95/safiro-portal/internal/grades"
	"github.com/Spok95/safiro-portal/internal/logging"
	"github.com/Spok95/safiro-portal/internal/materias"
	"github.com/Spok95/safiro-portal/internal/observability"
	"github.com/Spok95/safiro-portal/internal/permisos"
	"github.com/Spok95/safiro-portal/internal/session"
)

const usage = `uso: portal <comando> [flags]

comandos:
  login                         iniciar sesión y mostrar el usuario
  register                      crear una cuenta
  user [-id N]                  ver un usuario
  profile                       actualizar el perfil
  password                      cambiar la contraseña
  materias mine|all|get|create|rename|reassign|delete
  permisos pending|history|show|submit|review|approve|reject
  grades list|show|set
  export materias|class

credenciales: -email/-password o SAFIRO_EMAIL/SAFIRO_PASSWORD
`

var errUsage = errors.New("uso incorrecto")

type app struct {
	cfg      *config.Config
	log      *zap.Logger
	auth     *auth.Service
	sess     *session.Session
	materias *materias.Service
	permisos *permisos.Store
	grades   *grades.Store
	out      io.Writer
}

func newApp(cfg *config.Config, logger *zap.Logger, out io.Writer) *app {
	logger = logging.OrNop(logger)
	client := api.New(cfg.APIBaseURL, cfg.APITimeout, api.WithLogger(logger))
	as := auth.NewService(client, logger)
	return &app{
		cfg:      cfg,
		log:      logger,
		auth:     as,
		sess:     session.New(as, logger),
		materias: materias.NewService(client, logger),
		permisos: permisos.NewDemoStore(),
		grades:   grades.NewDemoStore(),
		out:      out,
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Не удалось загрузить .env файл, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env, "safiro-portal")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	logger := lg.Base

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, cfg.Release)
	if err != nil {
		logger.Warn("sentry init failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := 0
	if err := newApp(cfg, logger, os.Stdout).run(ctx, os.Args[1:]); err != nil {
		code = 1
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			code = 2
		} else {
			a := alertFor(os.Args[1:], err)
			fmt.Fprintf(os.Stderr, "%s: %s\n", a.Title, a.Message)
		}
	}

	stop()
	flush()
	lg.Closer()
	os.Exit(code)
}

// alertFor выбирает текст ошибки по команде.
func alertFor(args []string, err error) alerts.Alert {
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}
	switch cmd {
	case "login":
		return alerts.ForLogin(err)
	case "register":
		return alerts.ForRegister(err)
	default:
		return alerts.ForRequest(err)
	}
}

// run: маршрутизация подкоманд.
func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.cmdLogin(ctx, rest)
	case "register":
		return a.cmdRegister(ctx, rest)
	case "user":
		return a.cmdUser(ctx, rest)
	case "profile":
		return a.cmdProfile(ctx, rest)
	case "password":
		return a.cmdPassword(ctx, rest)
	case "materias":
		return a.cmdMaterias(ctx, rest)
	case "permisos":
		return a.cmdPermisos(ctx, rest)
	case "grades":
		return a.cmdGrades(ctx, rest)
	case "export":
		return a.cmdExport(ctx, rest)
	case "help", "-h", "--help":
		_, _ = fmt.Fprint(a.out, usage)
		return nil
	default:
		return errUsage
	}
}
