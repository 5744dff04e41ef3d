package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hartwell-build/siteline/internal/domain/activity"
	"github.com/hartwell-build/siteline/internal/domain/project"
	"github.com/hartwell-build/siteline/internal/domain/scope"
	"github.com/hartwell-build/siteline/internal/framing"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, tenantID string, proj *project.Project) error {
	args := m.Called(ctx, tenantID, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	args := m.Called(ctx, tenantID, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, tenantID string) ([]project.Summary, error) {
	args := m.Called(ctx, tenantID)
	if list, ok := args.Get(0).([]project.Summary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Search(ctx context.Context, tenantID, query string, limit int) ([]project.Summary, error) {
	args := m.Called(ctx, tenantID, query, limit)
	if list, ok := args.Get(0).([]project.Summary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, tenantID string, proj *project.Project) error {
	args := m.Called(ctx, tenantID, proj)
	return args.Error(0)
}

func (m *ProjectRepository) UpdatePhase(ctx context.Context, tenantID, id string, upd project.PhaseUpdate) (*project.Project, error) {
	args := m.Called(ctx, tenantID, id, upd)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

// TaskRepository is a mock for scope.Repository.
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) CreateBatch(ctx context.Context, tenantID string, tasks []scope.Task) error {
	args := m.Called(ctx, tenantID, tasks)
	return args.Error(0)
}

func (m *TaskRepository) Get(ctx context.Context, tenantID, id string) (*scope.Task, error) {
	args := m.Called(ctx, tenantID, id)
	if task, ok := args.Get(0).(*scope.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) List(ctx context.Context, tenantID, projectID string) ([]scope.Task, error) {
	args := m.Called(ctx, tenantID, projectID)
	if list, ok := args.Get(0).([]scope.Task); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) UpdateStatus(ctx context.Context, tenantID, id string, status scope.TaskStatus, note string) error {
	args := m.Called(ctx, tenantID, id, status, note)
	return args.Error(0)
}

func (m *TaskRepository) Stats(ctx context.Context, tenantID, projectID string) (scope.Stats, error) {
	args := m.Called(ctx, tenantID, projectID)
	return args.Get(0).(scope.Stats), args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Append(ctx context.Context, tenantID string, entry *activity.Entry) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// OpeningRepository is a mock for framing.OpeningRepository.
type OpeningRepository struct {
	mock.Mock
}

func (m *OpeningRepository) Append(ctx context.Context, tenantID string, opening *framing.SavedOpening) error {
	args := m.Called(ctx, tenantID, opening)
	return args.Error(0)
}

func (m *OpeningRepository) List(ctx context.Context, tenantID string) ([]framing.SavedOpening, error) {
	args := m.Called(ctx, tenantID)
	if list, ok := args.Get(0).([]framing.SavedOpening); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *OpeningRepository) Remove(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *OpeningRepository) Clear(ctx context.Context, tenantID string) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}
