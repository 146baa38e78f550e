package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/highveld-fm/commercial-api/internal/auth"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"github.com/highveld-fm/commercial-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CompanyService handles tenant companies and their document defaults
type CompanyService struct {
	companyRepo  *repository.CompanyRepository
	settingsRepo *repository.SettingsRepository
	logger       *zap.Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(
	companyRepo *repository.CompanyRepository,
	settingsRepo *repository.SettingsRepository,
	logger *zap.Logger,
) *CompanyService {
	return &CompanyService{
		companyRepo:  companyRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// ListCompanies returns all active companies. Super admin only.
func (s *CompanyService) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.IsSuperAdmin() {
		return nil, ErrPermissionDenied
	}

	companies, err := s.companyRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// GetCompany returns a single company. Callers may only read their own
// company unless they are super admins.
func (s *CompanyService) GetCompany(ctx context.Context, id domain.CompanyID) (*domain.Company, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.CanAccessCompany(id) {
		return nil, ErrCompanyNotFound
	}

	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// GetSettings returns the document defaults for a company
func (s *CompanyService) GetSettings(ctx context.Context, companyID domain.CompanyID) (*domain.CompanySettingsDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.CanAccessCompany(companyID) {
		return nil, ErrCompanyNotFound
	}

	settings, err := s.settingsRepo.GetByCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return settingsToDTO(defaultSettings(companyID)), nil
		}
		return nil, fmt.Errorf("failed to get company settings: %w", err)
	}

	return settingsToDTO(settings), nil
}

// UpdateSettings changes document defaults for a company. Counters are
// never touched here; they only move through the allocator.
func (s *CompanyService) UpdateSettings(ctx context.Context, companyID domain.CompanyID, req *domain.UpdateCompanySettingsRequest) (*domain.CompanySettingsDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.CanAccessCompany(companyID) {
		return nil, ErrCompanyNotFound
	}
	if !userCtx.IsFinance() {
		return nil, ErrPermissionDenied
	}

	settings, err := s.settingsRepo.GetByCompany(ctx, companyID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to get company settings: %w", err)
		}
		settings = defaultSettings(companyID)
	}

	if req.QuotePrefix != nil {
		settings.QuotePrefix = *req.QuotePrefix
	}
	if req.InvoicePrefix != nil {
		settings.InvoicePrefix = *req.InvoicePrefix
	}
	if req.PaymentTermsDays != nil {
		settings.PaymentTermsDays = *req.PaymentTermsDays
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to update company settings: %w", err)
	}

	s.logger.Info("company settings updated",
		zap.String("companyID", string(companyID)),
		zap.String("updatedBy", userCtx.UserID.String()))

	return settingsToDTO(settings), nil
}

func defaultSettings(companyID domain.CompanyID) *domain.CompanySettings {
	return &domain.CompanySettings{
		CompanyID:        companyID,
		QuotePrefix:      "Quotation",
		InvoicePrefix:    "INV",
		Currency:         domain.DefaultCurrency,
		PaymentTermsDays: 30,
	}
}

func settingsToDTO(settings *domain.CompanySettings) *domain.CompanySettingsDTO {
	return &domain.CompanySettingsDTO{
		CompanyID:        settings.CompanyID,
		QuotePrefix:      settings.QuotePrefix,
		InvoicePrefix:    settings.InvoicePrefix,
		Currency:         settings.Currency,
		PaymentTermsDays: settings.PaymentTermsDays,
		UpdatedAt:        settings.UpdatedAt,
	}
}
