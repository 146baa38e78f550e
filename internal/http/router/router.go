package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/highveld-fm/commercial-api/internal/auth"
	"github.com/highveld-fm/commercial-api/internal/config"
	"github.com/highveld-fm/commercial-api/internal/database"
	"github.com/highveld-fm/commercial-api/internal/http/handler"
	"github.com/highveld-fm/commercial-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/highveld-fm/commercial-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                     *config.Config
	logger                  *zap.Logger
	db                      *gorm.DB
	authMiddleware          *auth.Middleware
	companyFilterMiddleware *middleware.CompanyFilterMiddleware
	rateLimiter             *middleware.RateLimiter
	clientHandler           *handler.ClientHandler
	projectHandler          *handler.ProjectHandler
	wbpHandler              *handler.WBPHandler
	invoiceHandler          *handler.InvoiceHandler
	settingsHandler         *handler.SettingsHandler
	companyHandler          *handler.CompanyHandler
	fileHandler             *handler.FileHandler
	auditHandler            *handler.AuditHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	companyFilterMiddleware *middleware.CompanyFilterMiddleware,
	rateLimiter *middleware.RateLimiter,
	clientHandler *handler.ClientHandler,
	projectHandler *handler.ProjectHandler,
	wbpHandler *handler.WBPHandler,
	invoiceHandler *handler.InvoiceHandler,
	settingsHandler *handler.SettingsHandler,
	companyHandler *handler.CompanyHandler,
	fileHandler *handler.FileHandler,
	auditHandler *handler.AuditHandler,
) *Router {
	return &Router{
		cfg:                     cfg,
		logger:                  logger,
		db:                      db,
		authMiddleware:          authMiddleware,
		companyFilterMiddleware: companyFilterMiddleware,
		rateLimiter:             rateLimiter,
		clientHandler:           clientHandler,
		projectHandler:          projectHandler,
		wbpHandler:              wbpHandler,
		invoiceHandler:          invoiceHandler,
		settingsHandler:         settingsHandler,
		companyHandler:          companyHandler,
		fileHandler:             fileHandler,
		auditHandler:            auditHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
				"max_idle_closed":      stats.MaxIdleClosed,
				"max_lifetime_closed":  stats.MaxLifetimeClosed,
			},
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		// Check database
		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.companyFilterMiddleware.Filter)

			// Companies
			r.Route("/companies", func(r chi.Router) {
				r.Get("/", rt.companyHandler.List)
				r.Get("/{id}", rt.companyHandler.Get)
			})

			// Clients
			r.Route("/clients", func(r chi.Router) {
				r.Get("/", rt.clientHandler.List)
				r.Post("/", rt.clientHandler.Create)
				r.Get("/{id}", rt.clientHandler.Get)
			})

			// Projects and the scope of work pipeline
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", rt.projectHandler.List)
				r.Post("/", rt.projectHandler.Create)
				r.Get("/{id}", rt.projectHandler.Get)
				r.Post("/{id}/scope-of-work", rt.projectHandler.SubmitScopeOfWork)
				r.Get("/{id}/scope-of-work", rt.projectHandler.GetScopeOfWork)
				r.Get("/{id}/wbp", rt.projectHandler.ListWorkBreakdowns)
				r.Get("/{id}/timeline", rt.projectHandler.Timeline)
			})

			// Work breakdown plans
			r.Route("/wbp", func(r chi.Router) {
				r.Put("/{id}/draft", rt.wbpHandler.SaveDraft)
				r.Post("/{id}/quotation", rt.wbpHandler.GenerateQuotation)
				r.Post("/{id}/suggest-prices", rt.wbpHandler.SuggestPrices)
			})

			// Quotations and invoices
			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", rt.invoiceHandler.List)
				r.Get("/{id}", rt.invoiceHandler.Get)
				r.Put("/{id}/items", rt.invoiceHandler.UpdateItems)

				// Quote decisions
				r.Post("/{id}/approve", rt.invoiceHandler.Approve)
				r.Post("/{id}/reject", rt.invoiceHandler.Reject)

				// Invoice lifecycle
				r.Post("/{id}/send", rt.invoiceHandler.Send)
				r.Post("/{id}/payments", rt.invoiceHandler.RecordPayment)
				r.Get("/{id}/payments", rt.invoiceHandler.ListPayments)

				// Attachments
				r.Post("/{id}/files", rt.fileHandler.Upload)
				r.Get("/{id}/files", rt.fileHandler.List)
			})

			// Files
			r.Route("/files", func(r chi.Router) {
				r.Get("/{id}", rt.fileHandler.Download)
				r.Delete("/{id}", rt.fileHandler.Delete)
			})

			// Settings and numbering previews
			r.Route("/settings", func(r chi.Router) {
				r.Get("/", rt.companyHandler.GetSettings)
				r.Put("/", rt.companyHandler.UpdateSettings)
				r.Get("/next-quote-number", rt.settingsHandler.NextQuoteNumber)
				r.Get("/next-invoice-number", rt.settingsHandler.NextInvoiceNumber)
			})

			// Audit trail
			r.Get("/audit", rt.auditHandler.List)
		})
	})

	return r
}
