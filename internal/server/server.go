// Package server contains HTTP and WebSocket handlers for the API.
package server

import (
	"context"
	"fmt"
	"time"

	"docmanager/internal/cache"
	"docmanager/internal/config"
	"docmanager/internal/database"
	"docmanager/internal/effects"
	"docmanager/internal/middleware"
	"docmanager/internal/models"
	"docmanager/internal/notifications"
	"docmanager/internal/observability"
	"docmanager/internal/repository"
	"docmanager/internal/service"
	"docmanager/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	notifier *notifications.RedisNotifier

	authService          *service.AuthService
	documentService      *service.DocumentService
	requestService       *service.DocumentRequestService
	authorizationService *service.AuthorizationRequestService
	notificationService  *service.NotificationService
}

// NewServer creates a new server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized
// dependencies. Use this in tests or when a bootstrap layer establishes
// DB/Redis and performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	requestRepo := repository.NewDocumentRequestRepository(db)
	authorizationRepo := repository.NewAuthorizationRequestRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	blobs, err := storage.NewLocalStore(cfg.StorageRoot)
	if err != nil {
		return nil, fmt.Errorf("blob storage: %w", err)
	}

	var mailer effects.Mailer = effects.NoopMailer{}
	if cfg.SMTPHost != "" {
		smtp, err := effects.NewSMTPMailer(effects.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			Timeout:  cfg.EmailTimeout(),
		})
		if err != nil {
			return nil, fmt.Errorf("smtp mailer: %w", err)
		}
		mailer = smtp
	}

	notifier := notifications.NewRedisNotifier(redisClient)
	dispatcher := effects.NewDispatcher(notificationRepo, notifier, mailer)

	shutdownCtx, shutdownFn := context.WithCancel(context.Background())
	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: fiberprometheus.New("docmanager-api"),
		shutdownCtx:    shutdownCtx,
		shutdownFn:     shutdownFn,
		notifier:       notifier,

		authService:          service.NewAuthService(userRepo, cfg.JWTSecret),
		documentService:      service.NewDocumentService(documentRepo, blobs),
		requestService:       service.NewDocumentRequestService(requestRepo, documentRepo, dispatcher),
		authorizationService: service.NewAuthorizationRequestService(authorizationRepo, documentRepo, dispatcher),
		notificationService:  service.NewNotificationService(notificationRepo, cfg.NotificationRetention()),
	}
	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestTracing())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New())
	app.Use(middleware.RequestLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", s.Register)
	auth.Post("/login", s.Login)

	protected := api.Group("", middleware.RequireAuth(s.config.JWTSecret))

	documents := protected.Group("/documents")
	documents.Get("/", s.ListDocuments)
	documents.Post("/", middleware.RequireCapability(models.CapabilityViewAll), s.UploadDocument)
	documents.Get("/:id/file", s.DownloadDocument)
	documents.Patch("/:id", middleware.RequireCapability(models.CapabilityViewAll), s.UpdateDocument)
	documents.Delete("/:id", s.DeleteDocument)
	documents.Get("/:id", s.GetDocument)

	requests := protected.Group("/document-requests")
	requests.Post("/", s.CreateDocumentRequest)
	requests.Get("/", s.ListDocumentRequests)
	requests.Patch("/:id", s.UpdateDocumentRequestStatus)
	requests.Get("/:id", s.GetDocumentRequest)

	authorizations := protected.Group("/authorization-requests")
	authorizations.Post("/", s.CreateAuthorizationRequest)
	authorizations.Get("/", s.ListAuthorizationRequests)
	authorizations.Patch("/units/:id", s.UpdateAuthorizationUnitStatus)
	authorizations.Patch("/:id", s.UpdateAuthorizationRequestStatus)
	authorizations.Get("/:id", s.GetAuthorizationRequest)

	notificationRoutes := protected.Group("/notifications")
	notificationRoutes.Get("/", s.ListNotifications)
	notificationRoutes.Delete("/:id", s.DismissNotification)

	ws := app.Group("/ws", middleware.RequireAuth(s.config.JWTSecret))
	ws.Get("/notifications", s.NotificationStreamHandler())
}

// Start builds the Fiber app, wires routes, launches background jobs, and
// listens on the configured port.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:      "docmanager",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	go s.runNotificationSweep()

	return app.Listen(":" + s.config.Port)
}

// Shutdown stops background jobs and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownFn()
	if s.app == nil {
		return nil
	}
	return s.app.ShutdownWithContext(ctx)
}

// runNotificationSweep prunes expired notifications on the configured
// interval until shutdown.
func (s *Server) runNotificationSweep() {
	interval := s.config.NotificationSweepInterval()
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.shutdownCtx.Done():
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(s.shutdownCtx, 30*time.Second)
			pruned, err := s.notificationService.Sweep(ctx)
			cancel()
			if err != nil {
				observability.GlobalLogger.Error("notification sweep failed", "error", err)
				continue
			}
			if pruned > 0 {
				observability.GlobalLogger.Info("notification sweep", "pruned", pruned)
			}
		}
	}
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional;
// without it the API works but realtime fan-out is off.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}
