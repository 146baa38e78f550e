// Package testutil provides shared helpers for package tests. Tests run
// against an in-memory SQLite database so they need no external services;
// the repositories skip FOR UPDATE clauses on this dialect.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/auth"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Test tenant identifiers seeded by SetupTestDB
const (
	CompanyA = domain.CompanyID("highveld-projects")
	CompanyB = domain.CompanyID("highveld-roofing")
)

// SetupTestDB opens a fresh in-memory database with the full schema and the
// two test companies. Every call returns an isolated database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open in-memory database")

	// Each pooled connection gets its own :memory: database, so the pool
	// is pinned to a single connection to keep one shared schema.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&domain.Company{},
		&domain.CompanySettings{},
		&domain.Client{},
		&domain.Project{},
		&domain.ScopeOfWork{},
		&domain.SOWItem{},
		&domain.WorkBreakdown{},
		&domain.WBPItem{},
		&domain.Invoice{},
		&domain.InvoiceItem{},
		&domain.Payment{},
		&domain.AuditEntry{},
		&domain.File{},
	)
	require.NoError(t, err, "failed to migrate schema")

	for _, c := range []domain.Company{
		{ID: CompanyA, Name: "Highveld Projects", IsActive: true},
		{ID: CompanyB, Name: "Highveld Roofing", IsActive: true},
	} {
		require.NoError(t, db.Create(&c).Error)
	}

	return db
}

// ContextWithCompany returns a context scoped to one company, the way the
// company filter middleware scopes request contexts.
func ContextWithCompany(companyID domain.CompanyID) context.Context {
	return auth.WithCompanyFilter(context.Background(), &auth.CompanyFilter{
		CompanyID: &companyID,
	})
}

// ContextUnscoped returns a context with no company filter, as seen by a
// super admin who did not request a specific company.
func ContextUnscoped() context.Context {
	return auth.WithCompanyFilter(context.Background(), &auth.CompanyFilter{})
}

// ContextWithUser returns a company-scoped context that also carries an
// authenticated user, for paths that record the actor on the audit trail.
func ContextWithUser(companyID domain.CompanyID, roles ...domain.UserRoleType) context.Context {
	user := &auth.UserContext{
		UserID:      uuid.New(),
		DisplayName: "Test User",
		Email:       "test@example.com",
		Roles:       roles,
		CompanyID:   companyID,
	}
	ctx := auth.WithUserContext(context.Background(), user)
	return auth.WithCompanyFilter(ctx, &auth.CompanyFilter{CompanyID: user.GetCompanyFilter()})
}

// CreateTestClient creates a client for a company and returns it
func CreateTestClient(t *testing.T, db *gorm.DB, companyID domain.CompanyID, name string) *domain.Client {
	t.Helper()
	client := &domain.Client{
		CompanyID: companyID,
		Name:      name,
		Email:     "client@example.com",
		Phone:     "0111234567",
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

// CreateTestProject creates a project for a company and returns it
func CreateTestProject(t *testing.T, db *gorm.DB, companyID domain.CompanyID, clientID uuid.UUID, name string) *domain.Project {
	t.Helper()
	start := time.Now()
	project := &domain.Project{
		CompanyID:     companyID,
		ClientID:      clientID,
		Name:          name,
		Status:        domain.ProjectStatusNew,
		WorkflowStage: domain.StageSOW,
		StartDate:     &start,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}
