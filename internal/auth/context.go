package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	Roles       []domain.UserRoleType
	CompanyID   domain.CompanyID
	AccessToken string
}

type contextKey string

const userContextKey contextKey = "userContext"
const companyFilterKey contextKey = "companyFilter"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// HasRole checks if user has a specific role
func (u *UserContext) HasRole(role domain.UserRoleType) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...domain.UserRoleType) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// IsSuperAdmin checks if user is a super admin (has access to all companies)
func (u *UserContext) IsSuperAdmin() bool {
	return u.HasRole(domain.RoleSuperAdmin)
}

// IsFinance checks if user may approve and settle commercial documents
func (u *UserContext) IsFinance() bool {
	return u.HasAnyRole(domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleFinance)
}

// CanAccessCompany checks if user can access data for a specific company
func (u *UserContext) CanAccessCompany(companyID domain.CompanyID) bool {
	if u.IsSuperAdmin() {
		return true
	}
	return u.CompanyID == companyID
}

// GetCompanyFilter returns the company ID to filter queries by
// Returns nil for super admins (no filtering needed)
func (u *UserContext) GetCompanyFilter() *domain.CompanyID {
	if u.IsSuperAdmin() {
		return nil
	}
	return &u.CompanyID
}

// RolesAsStrings returns roles as a slice of strings
func (u *UserContext) RolesAsStrings() []string {
	result := make([]string, len(u.Roles))
	for i, role := range u.Roles {
		result[i] = string(role)
	}
	return result
}

// CompanyFilter represents the effective company filter for queries
// This is set by middleware based on user context and query parameters
type CompanyFilter struct {
	// CompanyID is the company to filter by (nil means no filter / all companies)
	CompanyID *domain.CompanyID
	// RequestedExplicitly indicates a super admin asked for a specific company
	RequestedExplicitly bool
}

// WithCompanyFilter adds company filter to the context
func WithCompanyFilter(ctx context.Context, filter *CompanyFilter) context.Context {
	return context.WithValue(ctx, companyFilterKey, filter)
}

// CompanyFilterFromContext extracts company filter from the context
func CompanyFilterFromContext(ctx context.Context) (*CompanyFilter, bool) {
	filter, ok := ctx.Value(companyFilterKey).(*CompanyFilter)
	return filter, ok
}

// GetEffectiveCompanyFilter returns the company ID to filter queries by
// This should be used by repositories to apply multi-tenant filtering
// Returns nil if no filtering should be applied (user has access to all companies)
func GetEffectiveCompanyFilter(ctx context.Context) *domain.CompanyID {
	// First check if there's an explicit company filter set by middleware
	if filter, ok := CompanyFilterFromContext(ctx); ok && filter != nil {
		return filter.CompanyID
	}

	// Fall back to user's default company filter
	if userCtx, ok := FromContext(ctx); ok {
		return userCtx.GetCompanyFilter()
	}

	return nil
}
