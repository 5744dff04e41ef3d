package framing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hartwell-build/siteline/internal/repository"
)

// SavedOpening is a named opening a user keeps for reuse. The saved member
// list is a snapshot of the derivation at save time; recomputing from the
// stored dimensions may differ if defaults change.
type SavedOpening struct {
	ID          string      `json:"id"`
	TenantID    string      `json:"tenant_id"`
	Tag         string      `json:"tag"`
	OpeningType OpeningType `json:"type"`
	RoughWidth  float64     `json:"ro_width"`
	RoughHeight float64     `json:"ro_height"`
	Members     []Member    `json:"items"`
	CreatedAt   time.Time   `json:"timestamp"`
}

// OpeningRepository persists saved openings. The store is append-and-remove
// only; saved entries are never updated in place.
type OpeningRepository interface {
	Append(ctx context.Context, tenantID string, opening *SavedOpening) error
	List(ctx context.Context, tenantID string) ([]SavedOpening, error)
	Remove(ctx context.Context, tenantID, id string) error
	Clear(ctx context.Context, tenantID string) error
}

// Service handles cut-list derivation and the saved-openings list.
type Service struct {
	openings OpeningRepository
	logger   *slog.Logger
}

// NewService creates a new framing service.
func NewService(openings OpeningRepository, logger *slog.Logger) *Service {
	return &Service{openings: openings, logger: logger}
}

// Compute derives a cut list for the given opening spec.
func (s *Service) Compute(_ context.Context, spec OpeningSpec) (*Result, error) {
	return Compute(spec)
}

// Export derives a cut list and renders the plain-text report.
func (s *Service) Export(_ context.Context, spec OpeningSpec) (string, error) {
	res, err := Compute(spec)
	if err != nil {
		return "", err
	}
	return Report(spec, res), nil
}

// Save derives the cut list for spec and appends it under the given tag.
func (s *Service) Save(ctx context.Context, tenantID, tag string, spec OpeningSpec) (*SavedOpening, error) {
	if strings.TrimSpace(tag) == "" {
		return nil, ErrInvalidInput
	}

	res, err := Compute(spec)
	if err != nil {
		return nil, err
	}

	opening := &SavedOpening{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Tag:         tag,
		OpeningType: spec.OpeningType,
		RoughWidth:  spec.RoughWidth,
		RoughHeight: spec.RoughHeight,
		Members:     res.Members,
		CreatedAt:   time.Now(),
	}

	if err := s.openings.Append(ctx, tenantID, opening); err != nil {
		return nil, fmt.Errorf("saving opening: %w", err)
	}

	return opening, nil
}

// List returns all saved openings for a tenant, newest first.
func (s *Service) List(ctx context.Context, tenantID string) ([]SavedOpening, error) {
	return s.openings.List(ctx, tenantID)
}

// Remove deletes one saved opening.
func (s *Service) Remove(ctx context.Context, tenantID, id string) error {
	if err := s.openings.Remove(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOpeningNotFound
		}
		return fmt.Errorf("removing opening: %w", err)
	}
	return nil
}

// Clear deletes every saved opening for a tenant.
func (s *Service) Clear(ctx context.Context, tenantID string) error {
	if err := s.openings.Clear(ctx, tenantID); err != nil {
		return fmt.Errorf("clearing openings: %w", err)
	}
	return nil
}
