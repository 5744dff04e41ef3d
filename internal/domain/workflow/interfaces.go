package workflow

import (
	"context"

	"github.com/hartwell-build/siteline/internal/domain/activity"
	"github.com/hartwell-build/siteline/internal/domain/project"
	"github.com/hartwell-build/siteline/internal/domain/scope"
)

// ProjectStore defines the project persistence operations the orchestrator
// needs. UpdatePhase applies the phase change atomically and returns the
// committed project snapshot.
type ProjectStore interface {
	Get(ctx context.Context, tenantID, id string) (*project.Project, error)
	UpdatePhase(ctx context.Context, tenantID, id string, upd project.PhaseUpdate) (*project.Project, error)
}

// ScopeService defines the scope operations the transition side effects use.
type ScopeService interface {
	GenerateFromEstimate(ctx context.Context, tenantID string, proj *project.Project) ([]scope.Task, error)
	EnsureScaffolding(ctx context.Context, tenantID, projectID string) ([]scope.Task, error)
	Stats(ctx context.Context, tenantID, projectID string) (scope.Stats, error)
}

// ActivityLogger appends immutable audit entries.
type ActivityLogger interface {
	Append(ctx context.Context, tenantID string, entry *activity.Entry) error
}
