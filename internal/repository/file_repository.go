package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"gorm.io/gorm"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, file *domain.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.File, error) {
	var file domain.File
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyCompanyFilter(ctx, query)
	err := query.First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// ListByInvoice returns all files attached to an invoice or quotation
func (r *FileRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.File, error) {
	var files []domain.File
	query := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at DESC")
	query = ApplyCompanyFilter(ctx, query)
	err := query.Find(&files).Error
	return files, err
}

func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.File{}, "id = ?", id).Error
}

// CountByInvoice returns the count of files attached to an invoice
func (r *FileRepository) CountByInvoice(ctx context.Context, invoiceID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.File{}).
		Where("invoice_id = ?", invoiceID).
		Count(&count).Error
	return count, err
}
