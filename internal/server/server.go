package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator"
	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/promptdeck/backend/internal/queue"
	mid "github.com/promptdeck/backend/internal/server/middleware"
	"github.com/promptdeck/backend/internal/storage"
	"github.com/promptdeck/backend/internal/store"
	"github.com/promptdeck/backend/internal/util"
	"github.com/promptdeck/backend/pkg/galaxy"
	"github.com/promptdeck/backend/pkg/logger"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// Init wires up every client, runs migrations and serves until SIGTERM.
func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	databaseURL := util.GetEnv("DATABASE_URL", "")
	runMigrations(databaseURL)

	conn, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()

	builder, err := NewGalaxyBuilder()
	if err != nil {
		logger.Fatal("Invalid galaxy configuration", "err", err)
	}

	que := queue.Init()
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	if err := queue.SetupQueues(ch, queue.Queues); err != nil {
		logger.Fatal("Failed to declare queues", "err", err)
	}

	app := &mid.App{
		DBConn: conn,
		Store:  store.New(conn),
		Queue:  ch,
		Galaxy: builder,
	}
	if util.GetEnv("AWS_ENDPOINT", "") != "" {
		app.S3 = storage.NewS3Client(ctx)
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("16M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT", "8080")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

func runMigrations(databaseURL string) {
	source := "file://" + util.GetEnv("MIGRATIONS_PATH", "migrations")
	m, err := migrate.New(source, databaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize migrations", "err", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal("Failed to apply migrations", "err", err)
	}
}

// NewGalaxyBuilder constructs the similarity builder from environment
// configuration. Shared with the worker so both processes score prompts
// identically.
func NewGalaxyBuilder() (*galaxy.Builder, error) {
	return galaxy.NewBuilder(galaxyConfigFromEnv())
}

// galaxyConfigFromEnv starts from the defaults and lets deployments tune
// the scoring. Invalid combinations abort startup in Init.
func galaxyConfigFromEnv() galaxy.Config {
	cfg := galaxy.DefaultConfig()
	cfg.CategoryWeight = util.GetEnvFloat("GALAXY_CATEGORY_WEIGHT", cfg.CategoryWeight)
	cfg.TagWeight = util.GetEnvFloat("GALAXY_TAG_WEIGHT", cfg.TagWeight)
	cfg.TitleWeight = util.GetEnvFloat("GALAXY_TITLE_WEIGHT", cfg.TitleWeight)
	cfg.Threshold = util.GetEnvFloat("GALAXY_THRESHOLD", cfg.Threshold)
	cfg.Parallelism = util.GetEnvInt("GALAXY_PARALLELISM", cfg.Parallelism)
	return cfg
}
