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

// ProjectService handles project CRUD. Lifecycle transitions are driven by
// WorkflowService and PaymentService; this service never changes a
// project's status or stage directly.
type ProjectService struct {
	projectRepo *repository.ProjectRepository
	clientRepo  *repository.ClientRepository
	sowRepo     *repository.ScopeOfWorkRepository
	wbpRepo     *repository.WorkBreakdownRepository
	logger      *zap.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo *repository.ProjectRepository,
	clientRepo *repository.ClientRepository,
	sowRepo *repository.ScopeOfWorkRepository,
	wbpRepo *repository.WorkBreakdownRepository,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		clientRepo:  clientRepo,
		sowRepo:     sowRepo,
		wbpRepo:     wbpRepo,
		logger:      logger,
	}
}

// CreateProject creates a new project in the NEW status at the start of
// the pipeline.
func (s *ProjectService) CreateProject(ctx context.Context, req *domain.CreateProjectRequest) (*domain.ProjectDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	client, err := s.clientRepo.GetByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	project := &domain.Project{
		CompanyID:     userCtx.CompanyID,
		ClientID:      client.ID,
		ClientName:    client.Name,
		Name:          req.Name,
		SiteAddress:   req.SiteAddress,
		Description:   req.Description,
		Status:        domain.ProjectStatusNew,
		WorkflowStage: domain.StageSOW,
		StartDate:     req.StartDate,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("project created",
		zap.String("projectID", project.ID.String()),
		zap.String("companyID", string(project.CompanyID)),
		zap.String("name", project.Name))

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

// GetProject returns a single project.
func (s *ProjectService) GetProject(ctx context.Context, id uuid.UUID) (*domain.ProjectDTO, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

// ListProjects returns a filtered page of projects.
func (s *ProjectService) ListProjects(ctx context.Context, page, pageSize int, clientID *uuid.UUID, status *domain.ProjectStatus, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > repository.MaxPageSize {
		pageSize = 50
	}

	projects, total, err := s.projectRepo.List(ctx, page, pageSize, clientID, status, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	dtos := make([]domain.ProjectDTO, len(projects))
	for i := range projects {
		dtos[i] = mapper.ToProjectDTO(&projects[i])
	}

	return &domain.PaginatedResponse{
		Data:       dtos,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// GetLatestScopeOfWork returns the newest scope of work version for a
// project.
func (s *ProjectService) GetLatestScopeOfWork(ctx context.Context, projectID uuid.UUID) (*domain.ScopeOfWorkDTO, error) {
	sow, err := s.sowRepo.GetLatestByProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScopeOfWorkNotFound
		}
		return nil, fmt.Errorf("failed to get scope of work: %w", err)
	}

	dto := mapper.ToScopeOfWorkDTO(sow)
	return &dto, nil
}

// ListWorkBreakdowns returns all work breakdown plans for a project.
func (s *ProjectService) ListWorkBreakdowns(ctx context.Context, projectID uuid.UUID) ([]domain.WorkBreakdownDTO, error) {
	wbps, err := s.wbpRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list work breakdowns: %w", err)
	}

	dtos := make([]domain.WorkBreakdownDTO, len(wbps))
	for i := range wbps {
		dtos[i] = mapper.ToWorkBreakdownDTO(&wbps[i])
	}
	return dtos, nil
}
