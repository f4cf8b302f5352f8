package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clubconnect/auth-service/internal/api/handler"
	"github.com/clubconnect/auth-service/internal/api/middleware"
	"github.com/clubconnect/auth-service/internal/core/domain"
	"github.com/clubconnect/auth-service/internal/core/service"
	"github.com/clubconnect/auth-service/internal/infrastructure/config"
	mongostore "github.com/clubconnect/auth-service/internal/infrastructure/db/mongo"
	redisstore "github.com/clubconnect/auth-service/internal/infrastructure/db/redis"
	"github.com/clubconnect/auth-service/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("clubconnect_auth"))
	e.Use(middleware.Gate(cfg.JWTSecret))

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(db)
	throttle := redisstore.NewLoginThrottle(rdb)
	tokenService := service.NewTokenService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	accountService := service.NewAccountService(userRepo, tokenService, throttle, log)
	membershipService := service.NewMembershipService(userRepo, log)

	authHandler := handler.NewAuthHandler(accountService, tokenService)
	eventHandler := handler.NewEventHandler(membershipService)
	dataHandler := handler.NewDataHandler()

	authMiddleware := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/register-admin", authHandler.RegisterAdmin, authMiddleware, adminOnly)
	// Refresh validates the presented token itself so a stale token maps
	// to 403 rather than the middleware's 401.
	auth.POST("/refresh-token", authHandler.Refresh)

	// --- Attended-event routes (resource owner or admin) ---
	auth.POST("/add-event/:username/:eventId", eventHandler.Add, authMiddleware)
	auth.DELETE("/remove-event/:username/:eventId", eventHandler.Remove, authMiddleware)
	auth.GET("/events/:username", eventHandler.List, authMiddleware)

	// --- Role-gated sample resources (enforced by the Gate) ---
	e.GET("/api/private/data", dataHandler.Private)
	e.GET("/api/admin/data", dataHandler.Admin)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
