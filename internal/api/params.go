package api

import (
	"time"

	"github.com/hartwell-build/siteline/internal/domain/activity"
	"github.com/hartwell-build/siteline/internal/domain/phase"
	"github.com/hartwell-build/siteline/internal/domain/project"
	"github.com/hartwell-build/siteline/internal/domain/scope"
	"github.com/hartwell-build/siteline/internal/framing"
)

// CreateProjectParams creates a project in the intake phase.
type CreateProjectParams struct {
	Name       string `json:"name" validate:"required"`
	ClientName string `json:"client_name"`
	Phone      string `json:"phone"`
	Email      string `json:"email" validate:"omitempty,email"`
	Address    string `json:"address"`
}

// GetProjectParams fetches one project with its scope figures.
type GetProjectParams struct {
	ProjectID string `json:"project_id" validate:"required"`
}

// ProjectDetail is the dashboard's project view: the aggregate plus the
// task-derived figures and the legal next moves.
type ProjectDetail struct {
	Project     *project.Project   `json:"project"`
	Stats       scope.Stats        `json:"stats"`
	Transitions []phase.Transition `json:"available_transitions"`
}

// ListProjectsParams lists or searches project summaries.
type ListProjectsParams struct {
	Query string `json:"query"`
	Limit int    `json:"limit" validate:"omitempty,gt=0"`
}

// UpdateProjectParams applies a partial update; nil leaves a field as-is.
type UpdateProjectParams struct {
	ProjectID         string             `json:"project_id" validate:"required"`
	Name              *string            `json:"name"`
	ClientName        *string            `json:"client_name"`
	Phone             *string            `json:"phone"`
	Email             *string            `json:"email" validate:"omitempty,email"`
	Address           *string            `json:"address"`
	EstimateLow       *float64           `json:"estimate_low" validate:"omitempty,gte=0"`
	EstimateHigh      *float64           `json:"estimate_high" validate:"omitempty,gte=0"`
	SelectedTier      *string            `json:"selected_tier" validate:"omitempty,oneof=good better best"`
	LineItems         []project.LineItem `json:"line_items"`
	SelectionsPending *int               `json:"selections_pending" validate:"omitempty,gte=0"`
	AmountPaid        *float64           `json:"amount_paid" validate:"omitempty,gte=0"`
}

// TransitionParams names a phase move on a project.
type TransitionParams struct {
	ProjectID    string   `json:"project_id" validate:"required"`
	From         string   `json:"from"`
	To           string   `json:"to" validate:"required"`
	Notes        string   `json:"notes"`
	Date         string   `json:"date"`
	Reason       string   `json:"reason"`
	WallSections []string `json:"wall_sections"`
	Actor        string   `json:"actor"`
}

// ValidateTransitionParams checks a move without performing it.
type ValidateTransitionParams struct {
	ProjectID string `json:"project_id" validate:"required"`
	To        string `json:"to" validate:"required"`
}

// SignContractParams records the signed contract directly.
type SignContractParams struct {
	ProjectID     string             `json:"project_id" validate:"required"`
	ContractValue float64            `json:"contract_value" validate:"omitempty,gte=0"`
	SelectedTier  string             `json:"selected_tier" validate:"omitempty,oneof=good better best"`
	LineItems     []project.LineItem `json:"line_items"`
	Actor         string             `json:"actor"`
}

// StartProductionParams moves a contracted project into production.
type StartProductionParams struct {
	ProjectID    string   `json:"project_id" validate:"required"`
	WallSections []string `json:"wall_sections"`
	Actor        string   `json:"actor"`
}

// ListTasksParams lists a project's scope tasks.
type ListTasksParams struct {
	ProjectID string `json:"project_id" validate:"required"`
}

// UpdateTaskStatusParams moves a task to a new status.
type UpdateTaskStatusParams struct {
	TaskID string `json:"task_id" validate:"required"`
	Status string `json:"status" validate:"required,oneof=pending in_progress done blocked"`
	Note   string `json:"note"`
}

// RecentActivityParams filters the activity feed.
type RecentActivityParams struct {
	ProjectID string `json:"project_id"`
	EventType string `json:"event_type"`
	Actor     string `json:"actor"`
	Limit     int    `json:"limit" validate:"omitempty,gt=0"`
	Offset    int    `json:"offset" validate:"omitempty,gte=0"`
}

// ActivityFeed wraps the result entries.
type ActivityFeed struct {
	Entries []activity.Entry `json:"entries"`
}

// SaveOpeningParams stores a computed cut list under a tag.
type SaveOpeningParams struct {
	Tag string `json:"tag" validate:"required"`
	CutlistParams
}

// DeleteOpeningParams removes one saved opening.
type DeleteOpeningParams struct {
	OpeningID string `json:"opening_id" validate:"required"`
}

// ExportResult carries the fixed-width report text.
type ExportResult struct {
	Report string `json:"report"`
}

// OpeningList wraps saved openings.
type OpeningList struct {
	Openings []framing.SavedOpening `json:"openings"`
}

// parseDate accepts a bare date or a full timestamp.
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, invalidParams("date must be YYYY-MM-DD or RFC 3339")
}
