package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/youcode/ebanking-api/internal/api/handler"
	"github.com/youcode/ebanking-api/internal/api/middleware"
	"github.com/youcode/ebanking-api/internal/api/policy"
	"github.com/youcode/ebanking-api/internal/core/ports"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	users ports.UserService,
	audit ports.AuditService,
	jwtSecret string,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("ebanking"))
	e.Use(middleware.Authenticate(jwtSecret))
	e.Use(policy.Enforce(policy.DefaultTable()))

	// --- Handlers ---
	userHandler := handler.NewUserHandler(users, audit)
	bankHandler := handler.NewBankHandler()
	publicHandler := handler.NewPublicHandler()

	// --- Account routes ---
	e.POST("/api/users/register", userHandler.Register)
	e.POST("/api/users/login", userHandler.Login)
	e.POST("/api/users/changePassword", userHandler.ChangePassword)

	// --- Admin routes ---
	e.PUT("/api/users/:username/role", userHandler.UpdateRole)
	e.GET("/api/users", userHandler.List)
	e.GET("/api/users/:username", userHandler.Get)
	e.DELETE("/api/users/:username", userHandler.Delete)
	e.GET("/api/users/:username/audit", userHandler.Audit)

	// --- USER-role account pages ---
	e.GET("/api/myLoans", bankHandler.MyLoans)
	e.GET("/api/myCards", bankHandler.MyCards)
	e.GET("/api/myAccount", bankHandler.MyAccount)
	e.GET("/api/myBalance", bankHandler.MyBalance)

	// --- Public pages ---
	e.GET("/api/notices", publicHandler.Notices)
	e.GET("/api/contact", publicHandler.Contact)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
