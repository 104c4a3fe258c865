package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/registry/internal/app/controllers"
	appMigrations "github.com/yigit/registry/internal/app/migrations"
	appRepos "github.com/yigit/registry/internal/app/repositories"
	"github.com/yigit/registry/internal/app/repositories/memory"
	appRoutes "github.com/yigit/registry/internal/app/routes"
	appServices "github.com/yigit/registry/internal/app/services"
	"github.com/yigit/registry/internal/config"
	"github.com/yigit/registry/internal/db"
	appMiddleware "github.com/yigit/registry/internal/middleware"
	"github.com/yigit/registry/internal/pkg/events"
	"github.com/yigit/registry/internal/pkg/logger"
	"github.com/yigit/registry/internal/seed"
)

// DefaultConfigPath is used when no path is given
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *appRepos.Repositories
	Services    *appServices.Services
	Publisher   events.Publisher
	Controllers appRoutes.Controllers
	Logger      zerolog.Logger
	DBPool      *pgxpool.Pool // nil with the memory driver
}

// Close releases the event publisher and the database pool.
func (d *Dependencies) Close() {
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Error closing event publisher")
		}
	}
	if d.DBPool != nil {
		d.DBPool.Close()
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the Postgres connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Str("host", cfg.Database.Host).Str("dbname", cfg.Database.DBName).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return dbPool, nil
}

// SetupStore opens the configured storage backend. The returned pool is nil for the memory driver.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*appRepos.Repositories, *pgxpool.Pool, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		lgr.Warn().Msg("Using the in-memory store; data is lost on restart")
		return memory.NewRepositories(), nil, nil
	case config.DriverPostgres:
		pool, err := SetupDatabase(ctx, cfg, lgr)
		if err != nil {
			return nil, nil, err
		}
		return appRepos.NewRepositories(pool), pool, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// SetupPublisher connects the AMQP event publisher when events are enabled.
func SetupPublisher(cfg *config.Config, lgr zerolog.Logger) (events.Publisher, error) {
	if !cfg.Events.Enabled {
		lgr.Info().Msg("Domain events disabled")
		return events.Noop{}, nil
	}
	publisher, err := events.NewAMQPPublisher(cfg.Events.URL, cfg.Events.Exchange)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect event publisher")
		return nil, err
	}
	lgr.Info().Str("exchange", cfg.Events.Exchange).Msg("Domain events enabled")
	return publisher, nil
}

// BuildDependencies initializes the storage, services, and controllers, then seeds default data.
func BuildDependencies(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	repos, pool, err := SetupStore(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup store: %w", err)
	}
	deps.Repos, deps.DBPool = repos, pool

	deps.Publisher, err = SetupPublisher(cfg, lgr)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to setup event publisher: %w", err)
	}

	deps.Services = appServices.New(deps.Repos, deps.Publisher, appServices.Options{})

	deps.Controllers = appRoutes.Controllers{
		Students:    appControllers.NewStudentController(deps.Services.Students, deps.Services.Relationships),
		Lecturers:   appControllers.NewLecturerController(deps.Services.Lecturers, deps.Services.Relationships),
		Admins:      appControllers.NewAdminController(deps.Services.Admins),
		Departments: appControllers.NewDepartmentController(deps.Services.Departments, deps.Services.Cascade),
		Courses:     appControllers.NewCourseController(deps.Services.Courses, deps.Services.Relationships, deps.Services.Cascade),
		Accounts:    appControllers.NewAccountController(deps.Services.Accounts),
	}

	seedCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := seed.CreateDefaultData(seedCtx, cfg, deps.Services, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.SetupValidator(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(), appMiddleware.Metrics())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, appRoutes.MetricsOptions{
		Enabled: cfg.Metrics.Enabled,
		Path:    cfg.Metrics.Path,
	})

	return router, nil
}
