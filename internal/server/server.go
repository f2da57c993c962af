// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"log"
	"strings"
	"time"

	"cirqls/internal/bootstrap"
	"cirqls/internal/cache"
	"cirqls/internal/config"
	"cirqls/internal/featureflags"
	"cirqls/internal/middleware"
	"cirqls/internal/models"
	"cirqls/internal/notifications"
	"cirqls/internal/observability"
	"cirqls/internal/repository"
	"cirqls/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	app             *fiber.App
	flags           *featureflags.Manager
	promMiddleware  *fiberprometheus.FiberPrometheus
	shutdownCtx     context.Context
	shutdownFn      context.CancelFunc
	tracingShutdown func(context.Context) error

	userRepo      repository.UserRepository
	communityRepo repository.CommunityRepository
	postRepo      repository.PostRepository
	commentRepo   repository.CommentRepository
	reactionRepo  repository.ReactionRepository
	messageRepo   repository.MessageRepository

	notifier *notifications.Notifier
	hub      *notifications.Hub

	authService         *service.AuthService
	feedService         *service.FeedService
	postService         *service.PostService
	commentService      *service.CommentService
	reactionService     *service.ReactionService
	messageService      *service.MessageService
	notificationService *service.NotificationService
	communityService    *service.CommunityService
	userService         *service.UserService
	searchService       *service.SearchService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedCommunities: true})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with an in-memory database and miniredis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	prom := fiberprometheus.New("cirqls-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		flags:          featureflags.NewManager(cfg.FeatureFlags),
		promMiddleware: prom,
		userRepo:       repository.NewUserRepository(db),
		communityRepo:  repository.NewCommunityRepository(db),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		reactionRepo:   repository.NewReactionRepository(db),
		messageRepo:    repository.NewMessageRepository(db),
	}

	server.authService = service.NewAuthService(server.userRepo, cfg)
	server.feedService = service.NewFeedService(server.postRepo, server.commentRepo, server.reactionRepo, server.communityRepo)
	server.postService = service.NewPostService(server.postRepo, server.commentRepo, server.reactionRepo, server.communityRepo)
	server.commentService = service.NewCommentService(server.commentRepo, server.postRepo, server.reactionRepo)
	server.reactionService = service.NewReactionService(server.reactionRepo, server.postRepo, server.commentRepo)
	server.messageService = service.NewMessageService(server.messageRepo, server.userRepo)
	server.notificationService = service.NewNotificationService(server.messageRepo, server.commentRepo)
	server.communityService = service.NewCommunityService(server.communityRepo)
	server.userService = service.NewUserService(server.userRepo, server.postRepo)
	server.searchService = service.NewSearchService(server.userRepo, server.communityRepo, server.postRepo)

	server.hub = notifications.NewHub(&wsCredentialVerifier{auth: server.authService})
	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
	}

	middleware.InitMiddleware(cfg)
	middleware.SetTokenDenylist(func(jti string) bool {
		return cache.IsTokenDenied(context.Background(), jti)
	})

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.Tracing())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
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

	// Global rate limiting per IP.
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

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	if s.flags.Enabled("ops_dashboard", 0) {
		api.Get("/metrics/dashboard", monitor.New(monitor.Config{
			Title: "Cirqls Backend Metrics Dashboard",
		}))
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.AuthRequired(), s.Logout)

	// Feed routes: explore is public (viewer optional), home needs a viewer.
	feed := api.Group("/feed")
	feed.Get("/home", s.AuthRequired(), s.GetHomeFeed)
	feed.Get("/explore", s.GetExploreFeed)

	// Public post routes
	publicPosts := api.Group("/posts")
	publicPosts.Get("/:id/comments", s.GetComments)
	publicPosts.Get("/:id", s.GetPost)

	// Public community routes
	communities := api.Group("/communities")
	communities.Get("/", s.GetCommunities)
	communities.Get("/:name/feed", s.GetCommunityFeed)
	communities.Get("/:name", s.GetCommunity)

	// Public user profiles
	api.Get("/users/:username/posts", s.GetUserPosts)
	api.Get("/users/:username", s.GetUserProfile)

	// Search
	api.Get("/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "search"), s.Search)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// WebSocket ticket issuance
	protected.Post("/ws/ticket", s.IssueWSTicket)

	me := protected.Group("/me")
	me.Get("/", s.GetMyProfile)
	me.Get("/flags", s.GetMyFlags)
	me.Put("/", s.UpdateMyProfile)
	me.Get("/saved", s.GetSavedPosts)
	me.Get("/notifications", s.GetNotifications)
	me.Post("/notifications/read", s.MarkNotificationsRead)
	me.Get("/followers", s.GetMyFollowers)
	me.Delete("/followers/:id", s.RemoveMyFollower)

	// Follow routes
	protected.Post("/users/:id/follow", s.FollowUser)
	protected.Delete("/users/:id/follow", s.UnfollowUser)

	// Protected post routes
	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 15, time.Minute, "create_comment"), s.CreateComment)
	posts.Post("/:id/reactions", s.ReactToPost)
	posts.Post("/:id/save", s.SavePost)
	posts.Delete("/:id/save", s.UnsavePost)
	posts.Delete("/:id", s.DeletePost)

	// Comment moderation and reactions
	comments := protected.Group("/comments")
	comments.Post("/:id/reactions", s.ReactToComment)
	comments.Delete("/:id", s.DeleteComment)

	// Protected community routes
	protectedCommunities := protected.Group("/communities")
	protectedCommunities.Post("/", s.CreateCommunity)
	protectedCommunities.Put("/:id", s.UpdateCommunity)
	protectedCommunities.Post("/:id/join", s.JoinCommunity)
	protectedCommunities.Delete("/:id/join", s.LeaveCommunity)

	// Direct message routes
	conversations := protected.Group("/conversations")
	conversations.Get("/", s.GetConversations)
	conversations.Get("/:userId", s.GetConversation)
	conversations.Post("/:userId", middleware.RateLimit(
		s.redis, 15, time.Minute, "send_message"), s.SendMessage)

	// Websocket endpoint: authentication happens inside the handshake, via
	// single-use ticket or bearer token.
	api.Get("/ws", s.WebsocketHandler())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
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

// AuthRequired returns the authentication middleware. It accepts a Bearer
// token or, for websocket paths, a short-lived single-use ticket.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewAuthenticationError("Authorization required"))
		}

		userID, err := s.authService.Verify(c.UserContext(), tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewAuthenticationError("Invalid or expired token"))
		}

		c.Locals("userID", userID)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// optionalUserID extracts the viewer from the Authorization header when
// present but does not enforce authentication.
func (s *Server) optionalUserID(c *fiber.Ctx) uint {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0
	}
	userID, err := s.authService.Verify(c.UserContext(), parts[1])
	if err != nil {
		return 0
	}
	return userID
}

// currentUserID returns the authenticated user set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals("userID").(uint)
	return userID
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	tracingShutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  "cirqls-api",
		Environment:  s.config.Env,
		Enabled:      s.config.TracingEnabled,
		Exporter:     s.config.TracingExporter,
		OTLPEndpoint: s.config.TracingOTLPEndpoint,
		SamplerRatio: s.config.TracingSamplerRatio,
	})
	if err != nil {
		return err
	}
	s.tracingShutdown = tracingShutdown

	app := fiber.New(fiber.Config{
		AppName: "Cirqls API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Wire the hub to the Redis subscriber so events published by any
	// process reach subscribers registered here.
	if s.notifier != nil {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				log.Printf("failed to start hub wiring: %v", err)
			}
		}()
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		log.Printf("error shutting down hub: %v", err)
	}

	if s.tracingShutdown != nil {
		if err := s.tracingShutdown(ctx); err != nil {
			log.Printf("error shutting down tracing: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}

// wsCredentialVerifier resolves websocket handshake credentials: a session
// token verifies directly, anything else is tried as a single-use ticket.
type wsCredentialVerifier struct {
	auth *service.AuthService
}

func (v *wsCredentialVerifier) Verify(ctx context.Context, credential string) (uint, error) {
	if userID, err := v.auth.Verify(ctx, credential); err == nil {
		return userID, nil
	}
	return v.auth.RedeemTicket(ctx, credential)
}
