package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/canberk/labdrop/internal/app/controllers"
	appMigrations "github.com/canberk/labdrop/internal/app/migrations"
	appRepos "github.com/canberk/labdrop/internal/app/repositories"
	appRoutes "github.com/canberk/labdrop/internal/app/routes"
	appServices "github.com/canberk/labdrop/internal/app/services"
	"github.com/canberk/labdrop/internal/config"
	"github.com/canberk/labdrop/internal/db"
	appMiddleware "github.com/canberk/labdrop/internal/middleware"
	pkgAuth "github.com/canberk/labdrop/internal/pkg/auth"
	"github.com/canberk/labdrop/internal/pkg/captcha"
	"github.com/canberk/labdrop/internal/pkg/logger"
	"github.com/canberk/labdrop/internal/pkg/workspace"
	"github.com/canberk/labdrop/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         appServices.AuthService
	WorkspaceService    appServices.WorkspaceService
	AdminService        appServices.AdminService
	AuthController      *appControllers.AuthController
	WorkspaceController *appControllers.WorkspaceController
	AdminController     *appControllers.AdminController
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Repos               *appRepos.Repositories
	JWTService          *pkgAuth.JWTService
	Workspaces          *workspace.Manager
	Verifier            captcha.Verifier
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default section and admin account.
func SetupDatabase(cfg *config.Config, workspaces *workspace.Manager, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, cfg, workspaces, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, workspaces *workspace.Manager, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Workspaces: workspaces}

	deps.Repos = appRepos.NewRepositories(dbPool)

	if cfg.Captcha.Enabled {
		deps.Verifier = captcha.NewHTTPVerifier(captcha.Config{
			SecretKey: cfg.Captcha.SecretKey,
			VerifyURL: cfg.Captcha.VerifyURL,
		}, lgr)
	} else {
		deps.Verifier = captcha.DisabledVerifier{}
		lgr.Warn().Msg("Captcha verification is disabled")
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    cfg.TokenExpiration(),
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.StudentRepository,
		deps.Repos.SectionRepository,
		deps.Repos.SessionRepository,
		workspaces,
		deps.Verifier,
		deps.JWTService,
		lgr,
	)
	deps.WorkspaceService = appServices.NewWorkspaceService(workspaces, cfg.Server.BaseURL, lgr)
	deps.AdminService = appServices.NewAdminService(
		deps.Repos.StudentRepository,
		deps.Repos.SectionRepository,
		deps.Repos.SessionRepository,
		workspaces,
		cfg.App.DefaultSection,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.SessionRepository)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.WorkspaceController = appControllers.NewWorkspaceController(deps.WorkspaceService)
	deps.AdminController = appControllers.NewAdminController(
		deps.AdminService,
		deps.AuthService,
		deps.WorkspaceService,
		lgr,
	)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))

	// Workspaces stay world-readable, matching the public link on the
	// home view.
	router.Static("/student", cfg.Server.StoragePath)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.WorkspaceController,
		deps.AdminController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
