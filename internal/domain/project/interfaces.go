package project

import (
	"context"
	"time"

	"github.com/hartwell-build/siteline/internal/domain/phase"
)

// PhaseUpdate is the persistence payload for a phase change: the new phase
// plus the extra-data bag of date stamps and transition context. The
// repository applies it atomically and returns the updated project.
type PhaseUpdate struct {
	Phase          phase.Phase
	PhaseChangedAt time.Time
	Dates          map[phase.DateField]time.Time
	CancelReason   *string
	WallSections   []string
	ContractValue  *float64
	SelectedTier   *string
}

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, tenantID string, proj *Project) error
	Get(ctx context.Context, tenantID, id string) (*Project, error)
	List(ctx context.Context, tenantID string) ([]Summary, error)
	Search(ctx context.Context, tenantID, query string, limit int) ([]Summary, error)
	Update(ctx context.Context, tenantID string, proj *Project) error
	UpdatePhase(ctx context.Context, tenantID, id string, upd PhaseUpdate) (*Project, error)
}
