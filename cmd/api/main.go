package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/invowise-api/internal/application/service"
	"github.com/sangkips/invowise-api/internal/config"
	"github.com/sangkips/invowise-api/internal/domain/repository"
	"github.com/sangkips/invowise-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/invowise-api/internal/infrastructure/repository"
	"github.com/sangkips/invowise-api/internal/infrastructure/supabase"
	"github.com/sangkips/invowise-api/internal/presentation/http/handler"
	"github.com/sangkips/invowise-api/internal/presentation/http/middleware"
	"github.com/sangkips/invowise-api/internal/presentation/http/routes"
	"github.com/sangkips/invowise-api/pkg/email"
	"github.com/sangkips/invowise-api/pkg/invoicepdf"
	"github.com/sangkips/invowise-api/pkg/logger"
	"github.com/sangkips/invowise-api/pkg/utils"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.App.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	logger.L = log

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}

	if err := database.AutoMigrate(db, log); err != nil {
		log.Fatalw("failed to run migrations", "error", err)
	}

	// Initialize repositories
	clientRepo := infraRepo.NewClientRepository(db)
	invoiceRepo := infraRepo.NewInvoiceRepository(db)
	profileRepo := infraRepo.NewProfileRepository(db)
	analyticsRepo := infraRepo.NewAnalyticsRepository(db)
	idempotencyRepo := infraRepo.NewIdempotencyRepository(db)

	supaClient, err := supabase.NewClient(&cfg.Supabase)
	if err != nil {
		log.Fatalw("failed to create supabase client", "error", err)
	}
	authProvider := supabase.NewAuthProvider(supaClient)

	var reader repository.InvoiceReader = infraRepo.NewInvoiceReader(db)
	if cfg.Supabase.DataSource == config.DataSourceSupabase {
		reader = supabase.NewInvoiceReader(supaClient)
	}
	log.Infow("invoice export source", "source", cfg.Supabase.DataSource)

	emailService := email.NewEmailService(email.EmailConfig{
		Enabled:     cfg.Email.Enabled,
		APIKey:      cfg.Email.APIKey,
		FromName:    cfg.Email.FromName,
		FromAddress: cfg.Email.FromAddress,
		ReplyTo:     cfg.Email.ReplyTo,
	})
	if !emailService.IsEnabled() {
		log.Warn("email delivery is disabled")
	}

	renderer := invoicepdf.NewRenderer(cfg.PDF.RenderConfig())
	verifier := utils.NewTokenVerifier(cfg.Supabase.JWTSecret, cfg.Supabase.Audience)

	// Initialize services
	authService := service.NewAuthService(authProvider, profileRepo, log)
	profileService := service.NewProfileService(profileRepo)
	clientService := service.NewClientService(clientRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, clientRepo, cfg.Invoice)
	documentService := service.NewDocumentService(reader, invoiceRepo, renderer, emailService, cfg.App.Name, log)
	dashboardService := service.NewDashboardService(analyticsRepo)

	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService, profileService, cfg.App.SecureCookies),
		Client:    handler.NewClientHandler(clientService),
		Invoice:   handler.NewInvoiceHandler(invoiceService, documentService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Health: handler.NewHealthHandler(cfg.App.Name, func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}),
	}

	rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfigFrom(&cfg.RateLimit))
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		Verifier:        verifier,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Log:             log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Maintenance.Enabled {
		maintenance := service.NewMaintenanceService(invoiceRepo, idempotencyRepo, cfg.Maintenance.Interval, log)
		go maintenance.Run(ctx)
	}

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("starting server", "service", cfg.App.Name, "port", port, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("graceful shutdown failed", "error", err)
	}
}
