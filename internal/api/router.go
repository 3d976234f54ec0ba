package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/coursedesk/credits-system/internal/api/handler"
	"github.com/coursedesk/credits-system/internal/api/middleware"
	"github.com/coursedesk/credits-system/internal/core/domain"
	"github.com/coursedesk/credits-system/internal/core/ports"
	"github.com/coursedesk/credits-system/internal/core/service"
	mongodb "github.com/coursedesk/credits-system/internal/infrastructure/db/mongo"
	redisdb "github.com/coursedesk/credits-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, notifier ports.Notifier, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("credits"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Dependencies ---
	ledgerRepo := mongodb.NewLedgerRepository(db)
	issuanceRepo := mongodb.NewIssuanceRepository(db)
	ticketRepo := mongodb.NewTicketRepository(db)
	authRepo := mongodb.NewAuthRepository(db)
	guard := redisdb.NewIdempotencyGuard(rdb)

	ledgerService := service.NewLedgerService(ledgerRepo, log)
	issuanceService := service.NewIssuanceService(issuanceRepo, guard, log)
	ticketService := service.NewTicketService(ticketRepo, notifier, log)
	authService := service.NewAuthService(authRepo, jwtSecret, 24*time.Hour)

	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	issuanceHandler := handler.NewIssuanceHandler(issuanceService)
	ticketHandler := handler.NewTicketHandler(ticketService)
	authHandler := handler.NewAuthHandler(authService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(jwtSecret))

	v1.GET("/credits/balance", ledgerHandler.Balance)
	v1.POST("/credits/purchase", ledgerHandler.Purchase)
	v1.GET("/credits/purchases", ledgerHandler.History)

	v1.POST("/issuances", issuanceHandler.Submit)
	v1.GET("/issuances/:group_id", issuanceHandler.Get)

	v1.POST("/tickets", ticketHandler.Create)
	v1.GET("/tickets/:id", ticketHandler.Get)
	v1.PATCH("/tickets/:id/status", ticketHandler.UpdateStatus, middleware.RBAC(domain.RoleAdmin))

	return e
}
