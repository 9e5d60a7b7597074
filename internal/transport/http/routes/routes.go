package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jooshwells/nanta-mobile/internal/infra/config"
	"github.com/jooshwells/nanta-mobile/internal/transport/http/handlers"
	"github.com/jooshwells/nanta-mobile/internal/transport/http/middleware"
	"github.com/jooshwells/nanta-mobile/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth         *usecase.AuthService
	Registration *usecase.RegistrationService
	Verification *usecase.VerificationService
	Accounts     *usecase.AccountService
	Notes        *usecase.NoteService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	Dispatcher  handlers.NotificationDispatcher
	Metrics     *middleware.HTTPMetrics
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))

	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	sessionGate := middleware.SessionAuth(deps.Services.Auth, deps.Config.Auth.CookieName)

	healthOptions := make([]handlers.HealthOption, 0, 2)

	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}

	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		cookie := handlers.CookieSettings{
			Name:   deps.Config.Auth.CookieName,
			Domain: deps.Config.Auth.CookieDomain,
			Secure: deps.Config.IsProduction(),
			MaxAge: deps.Config.Auth.SessionTTL,
		}

		authGroup := api.Group("/auth")

		authHandler := handlers.NewAuthHandler(
			deps.Services.Auth,
			deps.Services.Registration,
			deps.Dispatcher,
			cookie,
			deps.Config.Auth.VerificationTTL,
			deps.Logger,
		)
		authHandler.RegisterRoutes(authGroup,
			buildRateLimitMiddlewares(deps, "auth_register_ip", deps.Config.RateLimit.RegisterMaxAttempts),
			buildRateLimitMiddlewares(deps, "auth_login_ip", deps.Config.RateLimit.LoginMaxAttempts),
		)

		userHandler := handlers.NewUserHandler(
			deps.Services.Verification,
			deps.Dispatcher,
			deps.Config.Auth.VerificationTTL,
			deps.Logger,
		)

		userGroup := authGroup.Group("/user")
		userGroup.GET("", sessionGate, userHandler.GetUser)
		userGroup.GET("/authenticate", sessionGate, userHandler.Authenticate)

		resendHandlers := buildRateLimitMiddlewares(deps, "verify_resend_ip", deps.Config.RateLimit.ResendMaxAttempts)
		resendHandlers = append(resendHandlers, sessionGate, userHandler.ResendVerification)
		userGroup.POST("/verify-email/resend", resendHandlers...)

		// The confirm endpoint authenticates by the token in the path, not
		// by session.
		userGroup.POST("/verify-email/:token", userHandler.VerifyEmail)

		notesGroup := api.Group("/notes")
		notesGroup.Use(sessionGate)
		notesHandler := handlers.NewNotesHandler(deps.Services.Notes, deps.Logger)
		notesHandler.RegisterRoutes(notesGroup)

		profileGroup := api.Group("/profile")
		profileGroup.Use(sessionGate)
		profileHandler := handlers.NewProfileHandler(deps.Services.Accounts, deps.Logger)
		profileHandler.RegisterRoutes(profileGroup)
	}

	return r
}

func buildRateLimitMiddlewares(deps Dependencies, name string, limit int) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil || limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
