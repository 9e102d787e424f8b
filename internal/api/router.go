package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/modernmember/member-directory/docs"
	"github.com/modernmember/member-directory/internal/api/handler"
	mw "github.com/modernmember/member-directory/internal/api/middleware"
	"github.com/modernmember/member-directory/internal/core/domain"
	"github.com/modernmember/member-directory/internal/core/ports"
	"github.com/modernmember/member-directory/internal/core/token"
	"github.com/modernmember/member-directory/internal/infrastructure/config"
	redisdb "github.com/modernmember/member-directory/internal/infrastructure/db/redis"
)

// Deps carries everything the router needs wired in.
type Deps struct {
	AuthService   ports.AuthService
	MemberService ports.MemberService
	AuditRepo     ports.AuditRepository
	Validator     *token.Validator
	Mongo         *mongo.Database
	Redis         *goredis.Client
	Config        *config.Config
	Logger        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("memberdir"))
	e.Use(mw.Authenticate(d.Validator))

	limiter := redisdb.NewLoginLimiter(d.Redis, d.Config.Auth.LoginRateLimit, d.Config.Auth.LoginRateWindow)

	authHandler := handler.NewAuthHandler(d.AuthService)
	memberHandler := handler.NewMemberHandler(d.MemberService)
	auditHandler := handler.NewAuditHandler(d.AuditRepo)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login, mw.LoginRateLimit(limiter, d.Logger))

	// --- Directory routes ---
	members := e.Group("/api/v1/members", mw.RequireAuthenticated())
	members.GET("", memberHandler.List)
	members.GET("/me", memberHandler.Me)
	members.GET("/:id", memberHandler.Get)
	members.PUT("/:id", memberHandler.Update)
	members.DELETE("/:id", memberHandler.Delete)
	members.PUT("/:id/password", memberHandler.ChangePassword)
	members.PUT("/:id/role", memberHandler.UpdateRole, mw.RequireRole(domain.RoleAdmin))
	members.GET("/:id/audit", auditHandler.BySubject, mw.RequireRole(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
