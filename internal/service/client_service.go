package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/auth"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"github.com/highveld-fm/commercial-api/internal/mapper"
	"github.com/highveld-fm/commercial-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ClientService handles client CRUD
type ClientService struct {
	clientRepo *repository.ClientRepository
	logger     *zap.Logger
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo *repository.ClientRepository, logger *zap.Logger) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		logger:     logger,
	}
}

// CreateClient creates a new client for the caller's company
func (s *ClientService) CreateClient(ctx context.Context, req *domain.CreateClientRequest) (*domain.ClientDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	client := &domain.Client{
		CompanyID:     userCtx.CompanyID,
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		PostalCode:    req.PostalCode,
		VATNumber:     req.VATNumber,
		ContactPerson: req.ContactPerson,
		SiteAreas:     req.SiteAreas,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.Info("client created",
		zap.String("clientID", client.ID.String()),
		zap.String("companyID", string(client.CompanyID)),
		zap.String("name", client.Name))

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

// GetClient returns a single client
func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*domain.ClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

// ListClients returns a page of clients
func (s *ClientService) ListClients(ctx context.Context, page, pageSize int, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > repository.MaxPageSize {
		pageSize = 50
	}

	clients, total, err := s.clientRepo.List(ctx, page, pageSize, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	dtos := make([]domain.ClientDTO, len(clients))
	for i := range clients {
		dtos[i] = mapper.ToClientDTO(&clients[i])
	}

	return &domain.PaginatedResponse{
		Data:       dtos,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}
