package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"gorm.io/gorm"
)

type ScopeOfWorkRepository struct {
	db *gorm.DB
}

func NewScopeOfWorkRepository(db *gorm.DB) *ScopeOfWorkRepository {
	return &ScopeOfWorkRepository{db: db}
}

func (r *ScopeOfWorkRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScopeOfWork, error) {
	var sow domain.ScopeOfWork
	query := r.db.WithContext(ctx).
		Preload("Items", orderByPosition).
		Where("id = ?", id)
	query = ApplyCompanyFilter(ctx, query)
	err := query.First(&sow).Error
	if err != nil {
		return nil, err
	}
	return &sow, nil
}

// GetLatestByProject returns the highest submitted version for a project,
// or gorm.ErrRecordNotFound when the project has no scope of work yet.
func (r *ScopeOfWorkRepository) GetLatestByProject(ctx context.Context, projectID uuid.UUID) (*domain.ScopeOfWork, error) {
	var sow domain.ScopeOfWork
	query := r.db.WithContext(ctx).
		Preload("Items", orderByPosition).
		Where("project_id = ?", projectID).
		Order("version DESC")
	query = ApplyCompanyFilter(ctx, query)
	err := query.First(&sow).Error
	if err != nil {
		return nil, err
	}
	return &sow, nil
}

// ListByProject returns all scope of work versions for a project, newest first.
func (r *ScopeOfWorkRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.ScopeOfWork, error) {
	var sows []domain.ScopeOfWork
	query := r.db.WithContext(ctx).
		Preload("Items", orderByPosition).
		Where("project_id = ?", projectID).
		Order("version DESC")
	query = ApplyCompanyFilter(ctx, query)
	err := query.Find(&sows).Error
	return sows, err
}

// NextVersionTx returns the next version number for a project's scope of
// work inside the caller's transaction.
func (r *ScopeOfWorkRepository) NextVersionTx(tx *gorm.DB, projectID uuid.UUID) (int, error) {
	var maxVersion int
	err := tx.Model(&domain.ScopeOfWork{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&maxVersion).Error
	if err != nil {
		return 0, err
	}
	return maxVersion + 1, nil
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
