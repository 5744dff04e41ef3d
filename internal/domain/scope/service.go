package scope

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hartwell-build/siteline/internal/domain/project"
	"github.com/hartwell-build/siteline/internal/repository"
)

// scaffoldTitles are the default production tasks created when a project
// goes active without any estimate-derived scope.
var scaffoldTitles = []string{
	"Site protection and prep",
	"Demolition",
	"Rough framing",
	"Mechanical, electrical, plumbing rough-in",
	"Inspection",
	"Insulation and drywall",
	"Finish work",
	"Final walkthrough",
}

// Service handles scope task operations.
type Service struct {
	tasks  Repository
	logger *slog.Logger
}

// NewService creates a new scope service.
func NewService(tasks Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{tasks: tasks, logger: logger}
}

// GenerateFromEstimate derives one task per estimate line item, carrying the
// line category through. Called by the contract-signing path.
func (s *Service) GenerateFromEstimate(ctx context.Context, tenantID string, proj *project.Project) ([]Task, error) {
	if proj == nil {
		return nil, ErrInvalidInput
	}

	now := time.Now()
	tasks := make([]Task, 0, len(proj.LineItems))
	for i, item := range proj.LineItems {
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		tasks = append(tasks, Task{
			ID:        uuid.NewString(),
			TenantID:  tenantID,
			ProjectID: proj.ID,
			Title:     item.Name,
			Category:  item.Category,
			Status:    StatusPending,
			SortOrder: i,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if len(tasks) == 0 {
		return nil, nil
	}
	if err := s.tasks.CreateBatch(ctx, tenantID, tasks); err != nil {
		return nil, fmt.Errorf("generating scope: %w", err)
	}

	s.logger.Info("scope generated from estimate",
		"project_id", proj.ID, "tasks", len(tasks))
	return tasks, nil
}

// EnsureScaffolding creates the default production task list if the project
// has no scope yet. Called lazily by the production-start path; a project
// with existing tasks is left untouched.
func (s *Service) EnsureScaffolding(ctx context.Context, tenantID, projectID string) ([]Task, error) {
	existing, err := s.tasks.List(ctx, tenantID, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing scope: %w", err)
	}
	if len(existing) > 0 {
		return existing, nil
	}

	now := time.Now()
	tasks := make([]Task, 0, len(scaffoldTitles))
	for i, title := range scaffoldTitles {
		tasks = append(tasks, Task{
			ID:        uuid.NewString(),
			TenantID:  tenantID,
			ProjectID: projectID,
			Title:     title,
			Status:    StatusPending,
			SortOrder: i,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.tasks.CreateBatch(ctx, tenantID, tasks); err != nil {
		return nil, fmt.Errorf("scaffolding scope: %w", err)
	}

	s.logger.Info("production scaffolding created",
		"project_id", projectID, "tasks", len(tasks))
	return tasks, nil
}

// List returns all tasks for a project in sort order.
func (s *Service) List(ctx context.Context, tenantID, projectID string) ([]Task, error) {
	return s.tasks.List(ctx, tenantID, projectID)
}

// UpdateStatus moves a task to a new status with an optional note.
func (s *Service) UpdateStatus(ctx context.Context, tenantID, id string, status TaskStatus, note string) (*Task, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	if err := s.tasks.UpdateStatus(ctx, tenantID, id, status, note); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("updating task status: %w", err)
	}

	task, err := s.tasks.Get(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("reloading task: %w", err)
	}
	return task, nil
}

// Stats returns the progress summary for a project's scope.
func (s *Service) Stats(ctx context.Context, tenantID, projectID string) (Stats, error) {
	return s.tasks.Stats(ctx, tenantID, projectID)
}
