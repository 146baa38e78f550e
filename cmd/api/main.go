package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/highveld-fm/commercial-api/docs"
	"github.com/highveld-fm/commercial-api/internal/auth"
	"github.com/highveld-fm/commercial-api/internal/config"
	"github.com/highveld-fm/commercial-api/internal/database"
	"github.com/highveld-fm/commercial-api/internal/http/handler"
	"github.com/highveld-fm/commercial-api/internal/http/middleware"
	"github.com/highveld-fm/commercial-api/internal/http/router"
	"github.com/highveld-fm/commercial-api/internal/jobs"
	"github.com/highveld-fm/commercial-api/internal/logger"
	"github.com/highveld-fm/commercial-api/internal/pricing"
	"github.com/highveld-fm/commercial-api/internal/repository"
	"github.com/highveld-fm/commercial-api/internal/service"
	"github.com/highveld-fm/commercial-api/internal/storage"
	"go.uber.org/zap"
)

// @title Highveld Commercial API
// @version 1.0
// @description Commercial document lifecycle and numbering API: projects, scopes of work, quotations, invoices and payments
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@highveld.fm

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "commercial-api-staging.highveld.fm"
	case "production":
		docs.SwaggerInfo.Host = "api.highveld.fm"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize storage
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize pricing warehouse connection (optional - for price suggestions)
	// The connection is read-only and the app continues without it if not configured
	var pricingClient *pricing.Client
	var pricingSource service.PricingSource
	if cfg.Pricing.Enabled {
		pricingClient, err = pricing.NewClient(&cfg.Pricing, log)
		if err != nil {
			log.Warn("Pricing warehouse connection failed, continuing without it",
				zap.Error(err),
			)
		} else if pricingClient != nil {
			pricingSource = pricingClient
			log.Info("Pricing warehouse connected successfully",
				zap.Int("max_open_conns", cfg.Pricing.MaxOpenConns),
				zap.Int("query_timeout_seconds", cfg.Pricing.QueryTimeout),
			)
		}
	} else {
		log.Info("Pricing warehouse not configured, skipping")
	}

	// Initialize repositories
	companyRepo := repository.NewCompanyRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	clientRepo := repository.NewClientRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	sowRepo := repository.NewScopeOfWorkRepository(db)
	wbpRepo := repository.NewWorkBreakdownRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	fileRepo := repository.NewFileRepository(db)

	// Initialize services
	sequenceService := service.NewSequenceService(settingsRepo, log)
	companyService := service.NewCompanyService(companyRepo, settingsRepo, log)
	clientService := service.NewClientService(clientRepo, log)
	projectService := service.NewProjectService(projectRepo, clientRepo, sowRepo, wbpRepo, log)
	workflowService := service.NewWorkflowService(db, projectRepo, sowRepo, wbpRepo, invoiceRepo, settingsRepo, auditRepo, sequenceService, pricingSource, log)
	invoiceService := service.NewInvoiceService(db, invoiceRepo, auditRepo, log)
	paymentService := service.NewPaymentService(db, invoiceRepo, paymentRepo, auditRepo, log)
	auditService := service.NewAuditService(auditRepo, log)
	fileService := service.NewFileService(fileRepo, invoiceRepo, fileStorage, cfg.Storage.MaxUploadSizeMB, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	companyFilterMiddleware := middleware.NewCompanyFilterMiddleware(log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	clientHandler := handler.NewClientHandler(clientService, log)
	projectHandler := handler.NewProjectHandler(projectService, workflowService, auditService, log)
	wbpHandler := handler.NewWBPHandler(workflowService, log)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, workflowService, paymentService, log)
	settingsHandler := handler.NewSettingsHandler(sequenceService, log)
	companyHandler := handler.NewCompanyHandler(companyService, log)
	fileHandler := handler.NewFileHandler(fileService, log)
	auditHandler := handler.NewAuditHandler(auditService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		companyFilterMiddleware,
		rateLimiter,
		clientHandler,
		projectHandler,
		wbpHandler,
		invoiceHandler,
		settingsHandler,
		companyHandler,
		fileHandler,
		auditHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)

		if err := jobs.RegisterOverdueSweepJob(
			scheduler,
			invoiceService,
			log,
			cfg.Jobs.OverdueSweepSchedule,
		); err != nil {
			log.Error("Failed to register overdue sweep job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with overdue sweep job",
				zap.String("cron_expr", cfg.Jobs.OverdueSweepSchedule),
			)
		}
	} else {
		log.Info("Background jobs disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		// Close pricing warehouse connection if initialized
		if pricingClient != nil {
			if err := pricingClient.Close(); err != nil {
				log.Warn("Error closing pricing warehouse connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
