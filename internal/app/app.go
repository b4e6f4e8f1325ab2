package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"school-service/internal/application"
	"school-service/internal/auth"
	"school-service/internal/config"
	"school-service/internal/db"
	"school-service/internal/gradebook"
	"school-service/internal/health"
	"school-service/internal/identity"
	"school-service/internal/logger"
	"school-service/internal/messaging"
	"school-service/internal/metrics"
	"school-service/internal/middleware"
	"school-service/internal/promotion"
	"school-service/internal/student"
	"school-service/internal/teacher"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

type App struct {
	config   *config.Config
	router   chi.Router
	server   *http.Server
	logger   *slog.Logger
	database *bun.DB
	producer messaging.Producer
}

func New() *App {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses JSON format
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	app := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: slogLogger,
	}

	ctx := context.Background()

	m, err := metrics.New(ctx, ServiceName, slogLogger)
	if err != nil {
		slogLogger.Warn("failed to initialize metrics, continuing without", "error", err)
		m = metrics.NewMock()
	}

	database := db.New(cfg.Database)
	app.database = database

	if err := db.RunMigrations(ctx, database,
		(*application.Application)(nil),
		(*identity.User)(nil),
		(*student.Student)(nil),
		(*teacher.Teacher)(nil),
		(*teacher.Course)(nil),
		(*teacher.CourseTeaching)(nil),
		(*gradebook.Enrollment)(nil),
		(*auth.RefreshToken)(nil),
	); err != nil {
		log.Fatal("failed to run migrations:", err)
	}

	// Apply CORS middleware globally
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// Health endpoints (no auth required)
	healthHandler := health.NewHandler()
	healthHandler.RegisterRoutes(app.router)

	// Repositories
	identityRepo := identity.NewRepository(database, m)
	studentRepo := student.NewRepository(database, m)
	teacherRepo := teacher.NewRepository(database, m)
	applicationRepo := application.NewRepository(database, m)
	authRepo := auth.NewRepository(database, m)
	gradebookRepo := gradebook.NewRepository(database, m)

	if err := bootstrapSuperAdmin(ctx, cfg.Admin, identityRepo, slogLogger); err != nil {
		log.Fatal("failed to bootstrap super admin:", err)
	}

	// Event producer (optional, per config backend)
	producer, err := messaging.NewProducer(cfg.Events, slogLogger)
	if err != nil {
		slogLogger.Warn("failed to initialize event producer, events disabled", "error", err)
		producer = nil
	}
	app.producer = producer

	// Application review pipeline with the promotion engine
	engine := promotion.NewEngine(promotion.DefaultStores(m), auth.BcryptHasher{}, m, slogLogger)
	applicationService := application.NewService(database, applicationRepo, engine, producer, m, slogLogger)
	applicationHandler := application.NewHandler(applicationService, slogLogger)
	applicationHandler.RegisterPublicRoutes(app.router)

	// Auth endpoints
	authService := auth.NewService(authRepo, identityRepo, cfg.JWT, m)
	authHandler := auth.NewHandler(authService, slogLogger)
	authHandler.RegisterRoutes(app.router)

	// Profile and gradebook endpoints
	studentHandler := student.NewHandler(studentRepo, slogLogger)
	teacherHandler := teacher.NewHandler(teacherRepo, slogLogger)
	gradebookService := gradebook.NewService(gradebookRepo, teacherRepo, studentRepo, m, slogLogger)
	gradebookHandler := gradebook.NewHandler(gradebookService, slogLogger)

	// Protected routes group
	app.router.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(slogLogger))
		authHandler.RegisterProtectedRoutes(r)
		applicationHandler.RegisterAdminRoutes(r)
		studentHandler.RegisterRoutes(r)
		teacherHandler.RegisterRoutes(r)
		gradebookHandler.RegisterRoutes(r)
	})

	slogLogger.Info("application initialized successfully")

	return app
}

// bootstrapSuperAdmin creates the initial super admin account when no
// super admin exists yet. A blank config section skips the bootstrap.
func bootstrapSuperAdmin(ctx context.Context, cfg config.AdminConfig, users identity.Repository, logger *slog.Logger) error {
	if cfg.Email == "" || cfg.Password == "" {
		logger.Warn("admin bootstrap skipped, no admin credentials configured")
		return nil
	}

	count, err := users.CountByRole(ctx, identity.RoleSuperAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	name := cfg.Name
	if name == "" {
		name = "Super Admin"
	}

	if _, err := users.Create(ctx, &identity.User{
		Email:    cfg.Email,
		Name:     name,
		Role:     identity.RoleSuperAdmin,
		Password: hashed,
		IsActive: true,
	}); err != nil {
		if db.IsUniqueViolation(err) {
			return nil
		}
		return err
	}

	logger.Info("super admin bootstrapped", "email", cfg.Email)
	return nil
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("failed to close event producer", "error", err)
		}
	}
	db.Close(a.database)

	return a.server.Shutdown(ctx)
}
