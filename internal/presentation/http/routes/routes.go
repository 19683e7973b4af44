package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/invowise-api/internal/config"
	domainRepo "github.com/sangkips/invowise-api/internal/domain/repository"
	"github.com/sangkips/invowise-api/internal/presentation/http/dto/request"
	"github.com/sangkips/invowise-api/internal/presentation/http/handler"
	"github.com/sangkips/invowise-api/internal/presentation/http/middleware"
	"github.com/sangkips/invowise-api/pkg/logger"
	"github.com/sangkips/invowise-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Client    *handler.ClientHandler
	Invoice   *handler.InvoiceHandler
	Dashboard *handler.DashboardHandler
	Health    *handler.HealthHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Verifier        *utils.TokenVerifier
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.UserRateLimiter
	Log             *logger.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = logger.L
	}

	if err := request.RegisterValidators(); err != nil {
		log.Errorw("failed to register request validators", "error", err)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.LoggerMiddleware(log.Named("http")))
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Check)

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Verifier))

		rateLimiter := deps.RateLimiter
		if rateLimiter == nil {
			rateLimiter = middleware.NewUserRateLimiter(middleware.RateLimiterConfigFrom(&deps.Cfg.RateLimit))
		}
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps, log)
	}

	return router
}

func registerAuthRoutes(rg *gin.RouterGroup, h *Handlers) {
	auth := rg.Group("/auth")
	{
		auth.POST("/signup", h.Auth.SignUp)
		auth.POST("/signin", h.Auth.SignIn)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.GET("/clear-cookies", h.Auth.ClearCookies)
		auth.POST("/clear-cookies", h.Auth.ClearCookies)
	}
}

func registerProtectedRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps, log *logger.Logger) {
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
		Log:  log.Named("idempotency"),
	})

	auth := rg.Group("/auth")
	{
		auth.POST("/signout", h.Auth.SignOut)
		auth.GET("/profile", h.Auth.GetProfile)
		auth.PUT("/profile", h.Auth.UpdateProfile)
	}

	clients := rg.Group("/clients")
	{
		clients.GET("", h.Client.List)
		clients.POST("", idempotency, h.Client.Create)
		clients.GET("/:id", h.Client.Get)
		clients.PUT("/:id", h.Client.Update)
		clients.DELETE("/:id", h.Client.Delete)
	}

	invoices := rg.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.POST("", idempotency, h.Invoice.Create)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.PUT("/:id", h.Invoice.Update)
		invoices.DELETE("/:id", h.Invoice.Delete)
		invoices.PATCH("/:id/status", h.Invoice.UpdateStatus)
		invoices.POST("/:id/payments", idempotency, h.Invoice.RecordPayment)
		invoices.GET("/:id/pdf", h.Invoice.DownloadPDF)
		invoices.POST("/:id/send", idempotency, h.Invoice.Send)
	}

	rg.GET("/dashboard/stats", h.Dashboard.GetStats)
}
