package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hartwell-build/siteline/internal/domain/phase"
	"github.com/hartwell-build/siteline/internal/repository"
)

// Service handles project operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	ID         string
	Name       string
	ClientName string
	Phone      string
	Email      string
	Address    string
}

// Create creates a new project in the intake phase.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	now := time.Now()
	proj := &Project{
		ID:         id,
		TenantID:   tenantID,
		Name:       req.Name,
		ClientName: req.ClientName,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		Phase:      phase.Intake,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, tenantID, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns project summaries.
func (s *Service) List(ctx context.Context, tenantID string) ([]Summary, error) {
	return s.repo.List(ctx, tenantID)
}

// Search finds projects matching a free-text query over name, client, and
// address. An empty query falls back to the full list.
func (s *Service) Search(ctx context.Context, tenantID, query string, limit int) ([]Summary, error) {
	if strings.TrimSpace(query) == "" {
		return s.repo.List(ctx, tenantID)
	}
	return s.repo.Search(ctx, tenantID, query, limit)
}

// UpdateRequest defines mutable project fields; nil leaves a field as-is.
type UpdateRequest struct {
	Name              *string
	ClientName        *string
	Phone             *string
	Email             *string
	Address           *string
	EstimateLow       *float64
	EstimateHigh      *float64
	SelectedTier      *string
	LineItems         []LineItem
	SelectionsPending *int
	AmountPaid        *float64
}

// Update applies a partial update to a project. The phase field is not
// updatable here; phase changes go through the workflow package.
func (s *Service) Update(ctx context.Context, tenantID, id string, req UpdateRequest) (*Project, error) {
	proj, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrInvalidInput
		}
		proj.Name = *req.Name
	}
	if req.ClientName != nil {
		proj.ClientName = *req.ClientName
	}
	if req.Phone != nil {
		proj.Phone = *req.Phone
	}
	if req.Email != nil {
		proj.Email = *req.Email
	}
	if req.Address != nil {
		proj.Address = *req.Address
	}
	if req.EstimateLow != nil {
		proj.EstimateLow = *req.EstimateLow
	}
	if req.EstimateHigh != nil {
		proj.EstimateHigh = *req.EstimateHigh
	}
	if req.SelectedTier != nil {
		proj.SelectedTier = *req.SelectedTier
	}
	if req.LineItems != nil {
		proj.LineItems = req.LineItems
	}
	if req.SelectionsPending != nil {
		proj.SelectionsPending = *req.SelectionsPending
	}
	if req.AmountPaid != nil {
		proj.AmountPaid = *req.AmountPaid
	}
	proj.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, tenantID, proj); err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}

	return proj, nil
}

// NormalizePhase resolves a raw phase string, accepting historical aliases.
func NormalizePhase(raw string) (phase.Phase, error) {
	p, ok := phase.Normalize(raw)
	if !ok {
		return "", ErrInvalidPhase
	}
	return p, nil
}
