package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"gorm.io/gorm"
)

type WorkBreakdownRepository struct {
	db *gorm.DB
}

func NewWorkBreakdownRepository(db *gorm.DB) *WorkBreakdownRepository {
	return &WorkBreakdownRepository{db: db}
}

func (r *WorkBreakdownRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkBreakdown, error) {
	var wbp domain.WorkBreakdown
	query := r.db.WithContext(ctx).
		Preload("Items", orderByPosition).
		Where("id = ?", id)
	query = ApplyCompanyFilter(ctx, query)
	err := query.First(&wbp).Error
	if err != nil {
		return nil, err
	}
	return &wbp, nil
}

// GetByIDTx fetches a work breakdown with a row lock inside the caller's
// transaction. Items are loaded separately because Preload does not
// combine with locking clauses.
func (r *WorkBreakdownRepository) GetByIDTx(tx *gorm.DB, id uuid.UUID) (*domain.WorkBreakdown, error) {
	var wbp domain.WorkBreakdown
	if err := LockForUpdate(tx).Where("id = ?", id).First(&wbp).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("work_breakdown_id = ?", id).Order("position ASC").Find(&wbp.Items).Error; err != nil {
		return nil, err
	}
	return &wbp, nil
}

// GetBySOW returns the work breakdown mirrored from a scope of work version.
func (r *WorkBreakdownRepository) GetBySOW(ctx context.Context, sowID uuid.UUID) (*domain.WorkBreakdown, error) {
	var wbp domain.WorkBreakdown
	query := r.db.WithContext(ctx).
		Preload("Items", orderByPosition).
		Where("scope_of_work_id = ?", sowID)
	query = ApplyCompanyFilter(ctx, query)
	err := query.First(&wbp).Error
	if err != nil {
		return nil, err
	}
	return &wbp, nil
}

// ListByProject returns all work breakdowns for a project, newest first.
func (r *WorkBreakdownRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.WorkBreakdown, error) {
	var wbps []domain.WorkBreakdown
	query := r.db.WithContext(ctx).
		Preload("Items", orderByPosition).
		Where("project_id = ?", projectID).
		Order("created_at DESC")
	query = ApplyCompanyFilter(ctx, query)
	err := query.Find(&wbps).Error
	return wbps, err
}

// ReplaceItemsTx deletes and recreates the line items of a work breakdown
// inside the caller's transaction. Draft saves are full replacements, not
// merges, so the editor state is always authoritative.
func (r *WorkBreakdownRepository) ReplaceItemsTx(tx *gorm.DB, wbpID uuid.UUID, items []domain.WBPItem) error {
	if err := tx.Where("work_breakdown_id = ?", wbpID).Delete(&domain.WBPItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].WorkBreakdownID = wbpID
		items[i].Position = i
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}
