package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"github.com/highveld-fm/commercial-api/internal/mapper"
	"github.com/highveld-fm/commercial-api/internal/repository"
	"go.uber.org/zap"
)

// AuditService exposes the milestone trail for reporting. Writing entries
// happens inside the workflow transactions; this service only reads.
type AuditService struct {
	auditRepo *repository.AuditRepository
	logger    *zap.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(auditRepo *repository.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// ListEntries returns a filtered page of audit entries, newest first
func (s *AuditService) ListEntries(ctx context.Context, filter *repository.AuditFilter, page, pageSize int) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > repository.MaxPageSize {
		pageSize = 50
	}

	entries, total, err := s.auditRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	dtos := make([]domain.AuditEntryDTO, len(entries))
	for i := range entries {
		dtos[i] = mapper.ToAuditEntryDTO(&entries[i])
	}

	return &domain.PaginatedResponse{
		Data:       dtos,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// ProjectTimeline returns the full milestone history of a project in
// chronological order
func (s *AuditService) ProjectTimeline(ctx context.Context, projectID uuid.UUID) ([]domain.AuditEntryDTO, error) {
	entries, err := s.auditRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project timeline: %w", err)
	}

	dtos := make([]domain.AuditEntryDTO, len(entries))
	for i := range entries {
		dtos[i] = mapper.ToAuditEntryDTO(&entries[i])
	}
	return dtos, nil
}
