// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	_ "skillswap/docs" // swagger docs
	"skillswap/internal/cache"
	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/notifications"
	"skillswap/internal/repository"
	"skillswap/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// wireableHub is implemented by every WebSocket hub that can be wired to
// Redis pub/sub and gracefully shut down.
type wireableHub interface {
	Name() string
	StartWiring(ctx context.Context, n *notifications.Notifier) error
	Shutdown(ctx context.Context) error
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	skillRepo   repository.SkillRepository
	requestRepo repository.RequestRepository
	reviewRepo  repository.ReviewRepository
	chatRepo    repository.ChatRepository

	notifier *notifications.Notifier
	hub      *notifications.Hub
	chatHub  *notifications.ChatHub
	hubs     []wireableHub // all hubs for wiring/shutdown iteration

	profileService *service.ProfileService
	skillService   *service.SkillService
	requestService *service.RequestService
	reviewService  *service.ReviewService
	chatService    *service.ChatService
}

// NewServer connects to the database and Redis described by cfg and builds
// a server on top of them.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil, in which case chat and user events stay local to
// this instance.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("config and database are required")
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("skillswap-api"),
		userRepo:       repository.NewUserRepository(db),
		profileRepo:    repository.NewProfileRepository(db),
		skillRepo:      repository.NewSkillRepository(db),
		requestRepo:    repository.NewRequestRepository(db),
		reviewRepo:     repository.NewReviewRepository(db),
		chatRepo:       repository.NewChatRepository(db),
	}

	s.profileService = service.NewProfileService(s.userRepo, s.profileRepo, s.skillRepo, s.requestRepo, s.reviewRepo)
	s.skillService = service.NewSkillService(s.skillRepo)
	s.requestService = service.NewRequestService(s.requestRepo, s.skillRepo)
	s.reviewService = service.NewReviewService(s.reviewRepo, s.requestRepo, s.userRepo)
	s.chatService = service.NewChatService(s.chatRepo)

	// Hubs work locally without Redis; the notifier only adds cross-instance fan-out.
	s.hub = notifications.NewHub()
	s.chatHub = notifications.NewChatHub()
	s.hubs = []wireableHub{s.hub, s.chatHub}
	if redisClient != nil {
		s.notifier = notifications.NewNotifier(redisClient)
	}

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Referer, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: origins != "*",
		MaxAge:           86400, // 24 hours
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

// SetupRoutes configures all routes for the application. Authentication is
// attached per route so that public and protected routes can share a prefix.
func (s *Server) SetupRoutes(app *fiber.App) {
	auth := s.AuthRequired()
	optional := s.OptionalAuth()

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Feed at the site root
	app.Get("/", optional, s.GetFeed)

	// Chat relay; the room comes from the path
	app.Get("/ws/chat/:room", optional, s.chatUpgrade, s.WebSocketChatHandler())
	app.Get("/ws/chat", optional, s.chatUpgrade, s.WebSocketChatHandler())

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "SkillSwap Metrics Dashboard",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	api.Get("/feed", optional, middleware.RateLimit(s.redis, 60, time.Minute, "feed"), s.GetFeed)

	// Users and profiles
	users := api.Group("/users")
	users.Put("/me/profile", auth, s.UpdateMyProfile)
	users.Get("/profile/:username", s.GetPublicProfile)
	users.Get("/:username/rating", s.GetUserRating)

	profiles := api.Group("/profiles")
	profiles.Get("/", s.ListProfiles)
	profiles.Post("/", auth, s.CreateProfile)
	profiles.Get("/:id", s.GetProfile)
	profiles.Put("/:id", auth, s.UpdateProfile)
	profiles.Patch("/:id", auth, s.UpdateProfile)

	// Skills: /mine before the generic /:id
	skills := api.Group("/skills")
	skills.Get("/mine", auth, s.ListMySkills)
	skills.Get("/", s.ListSkills)
	skills.Post("/", auth, s.CreateSkill)
	skills.Get("/:id", s.GetSkill)
	skills.Put("/:id", auth, s.UpdateSkill)
	skills.Patch("/:id", auth, s.UpdateSkill)
	skills.Delete("/:id", auth, s.DeleteSkill)

	// Service requests
	requests := api.Group("/requests")
	requests.Get("/new", auth, s.GetRequestCatalog)
	requests.Get("/", auth, s.ListMyRequests)
	requests.Post("/", auth, middleware.RateLimit(
		s.redis, 10, time.Minute, "create_request"), s.CreateRequest)
	requests.Post("/:id/status", auth, s.UpdateRequestStatus)
	requests.Post("/:id/review", auth, middleware.RateLimit(
		s.redis, 5, time.Minute, "create_review"), s.CreateReview)
	requests.Get("/:id", auth, s.GetRequest)
	api.Get("/offers", auth, s.ListMyOffers)

	// Persisted chat bookkeeping
	chatrooms := api.Group("/chatrooms")
	chatrooms.Get("/", auth, s.ListChatRooms)
	chatrooms.Get("/:id/messages", auth, s.ListChatMessages)

	// Per-user lifecycle events
	api.Post("/ws/ticket", auth, s.IssueWSTicket)
	api.Get("/ws", auth, s.WebsocketHandler())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: when
// it is not configured the instance is ready on the database alone.
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

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// errorHandler reports errors that escaped a handler. Fiber errors keep
// their status; anything else is an internal error.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled request error", "error", err, "path", c.Path())
	return models.RespondWithError(c, models.StatusFor(err), err)
}

// App builds the Fiber application with middleware and routes attached.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "SkillSwap API",
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.App()

	// Wire all hubs to Redis subscribers if available
	if s.notifier != nil {
		for _, h := range s.hubs {
			go func() {
				if err := h.StartWiring(s.shutdownCtx, s.notifier); err != nil {
					middleware.Logger.Error("failed to start hub wiring", "hub", h.Name(), "error", err)
				}
			}()
		}
	}

	middleware.Logger.Info("server starting", "port", s.config.Port)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Stop all wiring goroutines
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	for _, h := range s.hubs {
		if err := h.Shutdown(ctx); err != nil {
			middleware.Logger.Error("error shutting down hub", "hub", h.Name(), "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
