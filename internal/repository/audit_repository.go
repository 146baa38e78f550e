package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"gorm.io/gorm"
)

// AuditFilter represents filter options for querying the audit trail
type AuditFilter struct {
	ProjectID  *uuid.UUID
	EntityType string
	EntityID   *uuid.UUID
	Milestone  domain.Milestone
	ActorID    string
	StartTime  *time.Time
	EndTime    *time.Time
}

// AuditRepository handles audit trail data access. Entries are append-only;
// there are no update or delete operations.
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts a new audit entry
func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List retrieves audit entries with pagination and optional filters
func (r *AuditRepository) List(ctx context.Context, filter *AuditFilter, page, pageSize int) ([]domain.AuditEntry, int64, error) {
	var entries []domain.AuditEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.AuditEntry{})
	query = ApplyCompanyFilter(ctx, query)
	query = r.applyFilters(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("occurred_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&entries).Error

	return entries, total, err
}

// ListByEntity retrieves audit entries for a specific entity
func (r *AuditRepository) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit int) ([]domain.AuditEntry, error) {
	var entries []domain.AuditEntry
	query := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("occurred_at DESC").
		Limit(limit)
	query = ApplyCompanyFilter(ctx, query)
	err := query.Find(&entries).Error
	return entries, err
}

// ListByProject retrieves the full trail for a project, oldest first, so
// the history reads as a timeline.
func (r *AuditRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.AuditEntry, error) {
	var entries []domain.AuditEntry
	query := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("occurred_at ASC")
	query = ApplyCompanyFilter(ctx, query)
	err := query.Find(&entries).Error
	return entries, err
}

// applyFilters applies optional filters to the query
func (r *AuditRepository) applyFilters(query *gorm.DB, filter *AuditFilter) *gorm.DB {
	if filter == nil {
		return query
	}

	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}

	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}

	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}

	if filter.Milestone != "" {
		query = query.Where("milestone = ?", filter.Milestone)
	}

	if filter.ActorID != "" {
		query = query.Where("actor_id = ?", filter.ActorID)
	}

	if filter.StartTime != nil {
		query = query.Where("occurred_at >= ?", *filter.StartTime)
	}

	if filter.EndTime != nil {
		query = query.Where("occurred_at <= ?", *filter.EndTime)
	}

	return query
}
