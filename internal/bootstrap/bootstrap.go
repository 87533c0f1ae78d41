package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/campushub/internal/app/controllers"
	appMigrations "github.com/yigit/campushub/internal/app/migrations"
	appRepos "github.com/yigit/campushub/internal/app/repositories"
	appRoutes "github.com/yigit/campushub/internal/app/routes"
	appServices "github.com/yigit/campushub/internal/app/services"
	"github.com/yigit/campushub/internal/config"
	"github.com/yigit/campushub/internal/db"
	appMiddleware "github.com/yigit/campushub/internal/middleware"
	pkgAuth "github.com/yigit/campushub/internal/pkg/auth"
	"github.com/yigit/campushub/internal/pkg/logger"
	"github.com/yigit/campushub/internal/seed"
)

// Dependencies holds all the portal stub dependencies
type Dependencies struct {
	Repos             *appRepos.Repositories
	Services          *appServices.Services
	SessionService    *pkgAuth.SessionService
	AuthMiddleware    *appMiddleware.AuthMiddleware
	AuthController    *appControllers.AuthController
	StudentController *appControllers.StudentController
	AdminController   *appControllers.AdminController
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
// Log output goes to out.
func LoadConfigAndSetupLogger(configPath string, out io.Writer) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.ConfigFrom(cfg.Logging.Level, cfg.Logging.Format, out))
	lgr.Debug().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStorage opens the configured store, runs migrations and seeds default data.
// Without a database DSN everything is kept in memory. The returned func releases the store.
func SetupStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*appRepos.Repositories, func(), error) {
	var (
		repos   *appRepos.Repositories
		closeFn = func() {}
	)

	if cfg.Database.DSN == "" {
		lgr.Info().Msg("No database configured, using in-memory storage")
		repos = appRepos.NewMemoryRepositories()
	} else {
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		lgr.Info().Msg("Running database migrations...")
		migrator := appMigrations.NewMigrator(database.Pool, lgr.With().Str("component", "migrator").Logger())
		if err := migrator.Migrate(ctx); err != nil {
			database.Close()
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")

		repos = appRepos.NewRepositories(database.Pool)
		closeFn = database.Close
	}

	opts := seed.Options{
		AdminUsername: cfg.Seed.AdminUsername,
		AdminEmail:    cfg.Seed.AdminEmail,
		AdminPassword: cfg.Seed.AdminPassword,
		Courses:       cfg.Seed.Courses,
	}
	if err := seed.CreateDefaultData(ctx, repos, opts, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return repos, closeFn, nil
}

// BuildDependencies initializes services, middleware and controllers on top of repos.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Repos: repos, Logger: lgr}

	deps.SessionService = pkgAuth.NewSessionService(pkgAuth.SessionConfig{
		SecretKey: cfg.Session.Secret,
		Lifetime:  cfg.Session.Lifetime,
		Issuer:    cfg.Session.Issuer,
	})

	deps.Services = appServices.NewServices(repos, deps.SessionService, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(
		deps.Services.Auth,
		appMiddleware.SessionCookie{Name: cfg.Session.CookieName, Secure: cfg.Session.Secure},
		lgr.With().Str("component", "auth").Logger(),
	)

	deps.AuthController = appControllers.NewAuthController(deps.Services.Auth, deps.AuthMiddleware, lgr)
	deps.StudentController = appControllers.NewStudentController(deps.Services.Course, deps.Services.Enrollment, lgr)
	deps.AdminController = appControllers.NewAdminController(deps.Services.Course, deps.Services.Audit, lgr)

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(lgr.With().Str("component", "http").Logger()),
	)

	appRoutes.SetupRouter(router, cfg.Server.BasePath, appRoutes.Controllers{
		Auth:    deps.AuthController,
		Student: deps.StudentController,
		Admin:   deps.AdminController,
	}, deps.AuthMiddleware)

	return router
}
