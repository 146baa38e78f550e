package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	query := r.db.WithContext(ctx).Preload("Client").Where("id = ?", id)
	query = ApplyCompanyFilter(ctx, query)
	err := query.First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Project{}, "id = ?", id).Error
}

func (r *ProjectRepository) List(ctx context.Context, page, pageSize int, clientID *uuid.UUID, status *domain.ProjectStatus, sort SortConfig) ([]domain.Project, int64, error) {
	var projects []domain.Project
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Project{}).Preload("Client")

	// Apply multi-tenant company filter
	query = ApplyCompanyFilter(ctx, query)

	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderClause := BuildOrderClause(sort, map[string]string{
		"name":      "name",
		"status":    "status",
		"stage":     "workflow_stage",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	}, "updated_at")

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order(orderClause).Find(&projects).Error

	return projects, total, err
}

func (r *ProjectRepository) Search(ctx context.Context, searchQuery string, limit int) ([]domain.Project, error) {
	var projects []domain.Project
	searchPattern := "%" + strings.ToLower(searchQuery) + "%"
	query := r.db.WithContext(ctx).Preload("Client").
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchPattern, searchPattern)
	query = ApplyCompanyFilter(ctx, query)
	err := query.Limit(limit).Find(&projects).Error
	return projects, err
}

// CountByStage returns the number of projects per workflow stage, used by
// the dashboard summary.
func (r *ProjectRepository) CountByStage(ctx context.Context) (map[domain.WorkflowStage]int64, error) {
	type row struct {
		WorkflowStage domain.WorkflowStage
		Count         int64
	}
	var rows []row

	query := r.db.WithContext(ctx).Model(&domain.Project{}).
		Select("workflow_stage, COUNT(*) as count").
		Group("workflow_stage")
	query = ApplyCompanyFilter(ctx, query)
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[domain.WorkflowStage]int64, len(rows))
	for _, r := range rows {
		counts[r.WorkflowStage] = r.Count
	}
	return counts, nil
}
