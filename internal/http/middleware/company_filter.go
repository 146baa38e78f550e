package middleware

import (
	"net/http"

	"github.com/highveld-fm/commercial-api/internal/auth"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"go.uber.org/zap"
)

// CompanyFilterMiddleware handles multi-tenant data isolation.
// Regular users are always scoped to the company from their token.
// Super admins and API service callers may select a company with the
// companyId query parameter or the X-Company-ID header.
type CompanyFilterMiddleware struct {
	logger *zap.Logger
}

// NewCompanyFilterMiddleware creates a new company filter middleware
func NewCompanyFilterMiddleware(logger *zap.Logger) *CompanyFilterMiddleware {
	return &CompanyFilterMiddleware{
		logger: logger,
	}
}

// Filter sets the effective company filter in the request context
func (m *CompanyFilterMiddleware) Filter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := auth.FromContext(r.Context())
		if !ok {
			// Authentication middleware should have already rejected
			// unauthenticated requests
			next.ServeHTTP(w, r)
			return
		}

		requested := r.URL.Query().Get("companyId")
		if requested == "" {
			requested = r.Header.Get("X-Company-ID")
		}

		var filter *auth.CompanyFilter

		if requested != "" {
			companyID := domain.CompanyID(requested)

			if !userCtx.CanAccessCompany(companyID) {
				m.logger.Warn("user attempted to access unauthorized company",
					zap.String("user_id", userCtx.UserID.String()),
					zap.String("user_company", string(userCtx.CompanyID)),
					zap.String("requested_company", requested),
				)
				http.Error(w, "Access denied: you cannot access data for this company", http.StatusForbidden)
				return
			}

			filter = &auth.CompanyFilter{
				CompanyID:           &companyID,
				RequestedExplicitly: userCtx.IsSuperAdmin(),
			}
		} else if userCtx.CompanyID != "" {
			companyID := userCtx.CompanyID
			filter = &auth.CompanyFilter{
				CompanyID: &companyID,
			}
		} else {
			// Super admin without a company scope sees all data
			filter = &auth.CompanyFilter{}
		}

		ctx := auth.WithCompanyFilter(r.Context(), filter)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
