// Package server wires the HTTP API: middleware chain, security filters and handlers.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	_ "sideeffect/docs" // swagger docs
	"sideeffect/internal/cache"
	"sideeffect/internal/config"
	"sideeffect/internal/database"
	"sideeffect/internal/dto"
	"sideeffect/internal/middleware"
	"sideeffect/internal/models"
	"sideeffect/internal/repository"
	"sideeffect/internal/security"
	"sideeffect/internal/security/oauth"
	"sideeffect/internal/service"
	"sideeffect/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const apiPrefix = "/api"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	tokens      *security.TokenProvider
	refresh     *security.RefreshTokenProvider
	policy      *security.RoutePolicy
	oauth       *oauth.Adapter
	rateLimiter *middleware.RateLimiter

	userService         *service.UserService
	freeBoardService    *service.FreeBoardService
	recruitBoardService *service.RecruitBoardService
	commentService      *service.CommentService
	reactionService     *service.ReactionService
}

// NewServer connects the database, Redis and object storage, then builds the server.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := cache.InitRedis(cfg.RedisURL)

	store, err := storage.New(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("object storage unavailable: %w", err)
	}

	if err := dto.SetTimezone(cfg.Timezone); err != nil {
		middleware.Logger.Warn("Unknown timezone, keeping default", "timezone", cfg.Timezone, "error", err)
	}

	return NewServerWithDeps(cfg, db, redisClient, store)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; refresh tokens then live in the database.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store storage.ObjectStore) (*Server, error) {
	policy, err := security.NewRoutePolicy(security.DefaultRules(apiPrefix)...)
	if err != nil {
		return nil, fmt.Errorf("route policy: %w", err)
	}

	var refreshStore security.RefreshStore = security.NewGormRefreshStore(db)
	if redisClient != nil {
		refreshStore = security.NewRedisRefreshStore(redisClient)
	}

	userRepo := repository.NewUserRepository(db)
	freeBoardRepo := repository.NewFreeBoardRepository(db)
	recruitBoardRepo := repository.NewRecruitBoardRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reactionRepo := repository.NewReactionRepository(db)

	images := service.NewImageService(store, cfg.ImageMaxUploadMB)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("sideeffect-api"),
		tokens:         security.NewTokenProvider(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL),
		refresh:        security.NewRefreshTokenProvider(refreshStore, cfg.RefreshTokenTTL),
		policy:         policy,
		rateLimiter:    middleware.NewRateLimiter(redisClient, cfg.Env),

		userService:         service.NewUserService(userRepo),
		freeBoardService:    service.NewFreeBoardService(freeBoardRepo, reactionRepo, images),
		recruitBoardService: service.NewRecruitBoardService(recruitBoardRepo),
		commentService:      service.NewCommentService(commentRepo, freeBoardRepo),
		reactionService:     service.NewReactionService(reactionRepo, freeBoardRepo, recruitBoardRepo),
	}
	s.oauth = oauth.NewAdapter(s.userService, oauth.ProvidersFromConfig(cfg)...)
	return s, nil
}

// NewApp builds the Fiber application with the full middleware chain and routes.
func (s *Server) NewApp() *fiber.App {
	bodyLimit := 4 * 1024 * 1024
	if limit := s.config.ImageMaxUploadMB; limit > 0 {
		bodyLimit = (limit + 1) * 1024 * 1024
	}
	app := fiber.New(fiber.Config{
		AppName:      "SideEffect API",
		BodyLimit:    bodyLimit,
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler renders any error a handler returns in the standard envelope.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	err = normalizeError(err)
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			"method", c.Method(), "path", c.Path(), "error", err)
	}
	return models.RespondWithError(c, status, err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.config.Env == "test"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				models.NewValidationError("Too many requests, please try again later."))
		},
	}))
}

// SetupRoutes configures all routes for the application.
// Login endpoints sit between the exception handler and the authenticator, so they
// never see the token filters.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get(apiPrefix+"/swagger/*", swagger.HandlerDefault)
	if s.config.StorageDriver == "" || s.config.StorageDriver == "local" {
		app.Static("/uploads", s.config.UploadDir)
	}

	api := app.Group(apiPrefix)

	app.Use(middleware.SecurityExceptionHandler())
	api.Post("/user/login", s.rateLimiter.Limit("login", 10, 5*time.Minute, middleware.FailOpen), s.FormLogin)
	api.Post("/social/login", s.rateLimiter.Limit("login", 10, 5*time.Minute, middleware.FailOpen), s.SocialLogin)
	app.Use(middleware.Authenticator(s.tokens), middleware.Authorize(s.policy))

	api.Post("/token/at-issue", s.IssueAccessToken)

	user := api.Group("/user")
	user.Post("/join", s.rateLimiter.Limit("join", 5, 10*time.Minute, middleware.FailClosed), s.Join)
	user.Get("/duple/email", s.DupleEmail)
	user.Get("/duple/nickname", s.DupleNickname)
	user.Get("/mypage/:id", s.MyPage)
	user.Get("/me", s.Me)
	user.Post("/logout", s.Logout)
	api.Patch("/user", s.UpdateUser)
	api.Delete("/user", s.DeleteUser)

	free := api.Group("/free-boards")
	// Specific paths before the generic /:id routes.
	free.Get("/scroll", s.ScrollFreeBoards)
	free.Get("/rank", s.RankFreeBoards)
	free.Post("/", s.rateLimiter.Limit("create_board", 10, time.Minute, middleware.FailOpen), s.CreateFreeBoard)
	free.Post("/:id/image", s.UploadFreeBoardImage)
	free.Delete("/:id/image", s.DeleteFreeBoardImage)
	free.Get("/:id", s.GetFreeBoard)
	free.Patch("/:id", s.UpdateFreeBoard)
	free.Delete("/:id", s.DeleteFreeBoard)

	comments := api.Group("/comments")
	comments.Post("/", s.rateLimiter.Limit("create_comment", 20, time.Minute, middleware.FailOpen), s.CreateComment)
	comments.Patch("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	api.Post("/recommend/:id", s.ToggleRecommend)
	api.Post("/like/free-boards/:id", s.ToggleFreeBoardLike)
	api.Post("/like/recruit-boards/:id", s.ToggleRecruitBoardLike)

	recruit := api.Group("/recruit-boards")
	recruit.Get("/scroll", s.ScrollRecruitBoards)
	recruit.Post("/", s.rateLimiter.Limit("create_board", 10, time.Minute, middleware.FailOpen), s.CreateRecruitBoard)
	recruit.Get("/:id", s.GetRecruitBoard)
	recruit.Patch("/:id", s.UpdateRecruitBoard)
	recruit.Delete("/:id", s.DeleteRecruitBoard)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	} else if redisStatus == "unhealthy" {
		overallStatus = "degraded"
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

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	s.app = s.NewApp()
	middleware.Logger.Info("Server starting", "port", s.config.Port)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			errs = append(errs, fmt.Errorf("close sql db: %w", cerr))
		}
	}

	if s.redis != nil {
		cache.Close()
	}

	middleware.Logger.Info("Server shutdown complete")
	return errors.Join(errs...)
}
