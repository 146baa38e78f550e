package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/auth"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"github.com/highveld-fm/commercial-api/internal/mapper"
	"github.com/highveld-fm/commercial-api/internal/repository"
	"github.com/highveld-fm/commercial-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileService handles uploaded documents (client purchase orders, proofs of
// payment) attached to invoices and quotations.
type FileService struct {
	fileRepo    *repository.FileRepository
	invoiceRepo *repository.InvoiceRepository
	store       storage.Storage
	maxSize     int64
	logger      *zap.Logger
}

// NewFileService creates a new FileService
func NewFileService(
	fileRepo *repository.FileRepository,
	invoiceRepo *repository.InvoiceRepository,
	store storage.Storage,
	maxUploadSizeMB int64,
	logger *zap.Logger,
) *FileService {
	return &FileService{
		fileRepo:    fileRepo,
		invoiceRepo: invoiceRepo,
		store:       store,
		maxSize:     maxUploadSizeMB * 1024 * 1024,
		logger:      logger,
	}
}

// UploadForInvoice stores a file and attaches it to an invoice
func (s *FileService) UploadForInvoice(ctx context.Context, invoiceID uuid.UUID, filename, contentType string, data io.Reader) (*domain.FileDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	limited := io.LimitReader(data, s.maxSize+1)
	storagePath, size, err := s.store.Upload(ctx, filename, contentType, limited)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}
	if size > s.maxSize {
		if delErr := s.store.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to remove oversized upload", zap.Error(delErr))
		}
		return nil, fmt.Errorf("%w: file exceeds maximum upload size", ErrValidation)
	}

	file := &domain.File{
		CompanyID:   userCtx.CompanyID,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		StoragePath: storagePath,
		InvoiceID:   &invoice.ID,
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		if delErr := s.store.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to clean up orphaned upload", zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to save file record: %w", err)
	}

	s.logger.Info("file uploaded",
		zap.String("fileID", file.ID.String()),
		zap.String("invoiceID", invoice.ID.String()),
		zap.String("filename", filename),
		zap.Int64("size", size))

	dto := mapper.ToFileDTO(file)
	return &dto, nil
}

// Download returns the file metadata and a reader over its content.
// The caller must close the reader.
func (s *FileService) Download(ctx context.Context, id uuid.UUID) (*domain.FileDTO, io.ReadCloser, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to get file: %w", err)
	}

	reader, err := s.store.Download(ctx, file.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open stored file: %w", err)
	}

	dto := mapper.ToFileDTO(file)
	return &dto, reader, nil
}

// ListForInvoice returns the files attached to an invoice
func (s *FileService) ListForInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.FileDTO, error) {
	files, err := s.fileRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	dtos := make([]domain.FileDTO, len(files))
	for i := range files {
		dtos[i] = mapper.ToFileDTO(&files[i])
	}
	return dtos, nil
}

// Delete removes a file record and its stored content
func (s *FileService) Delete(ctx context.Context, id uuid.UUID) error {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to get file: %w", err)
	}

	if err := s.fileRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	if err := s.store.Delete(ctx, file.StoragePath); err != nil {
		s.logger.Warn("failed to delete stored file",
			zap.String("storagePath", file.StoragePath),
			zap.Error(err))
	}

	return nil
}
