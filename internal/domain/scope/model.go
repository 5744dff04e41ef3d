package scope

import "time"

// TaskStatus represents the workflow state of a scope task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
	StatusBlocked    TaskStatus = "blocked"
)

// ValidStatus reports whether a status value is in the enumeration.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone, StatusBlocked:
		return true
	}
	return false
}

// Task is one unit of project scope: a line of work derived from the
// estimate or added during production.
type Task struct {
	ID        string     `json:"id"`
	TenantID  string     `json:"tenant_id"`
	ProjectID string     `json:"project_id"`
	Title     string     `json:"title"`
	Category  string     `json:"category,omitempty"`
	Status    TaskStatus `json:"status"`
	Note      string     `json:"note,omitempty"`
	SortOrder int        `json:"sort_order"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Stats summarizes a project's task progress. Progress is a 0-100
// percentage; an empty scope counts as zero progress.
type Stats struct {
	Total    int     `json:"total"`
	Done     int     `json:"done"`
	Blocked  int     `json:"blocked"`
	Progress float64 `json:"progress"`
}
