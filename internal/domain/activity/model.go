package activity

import "time"

// EventType represents the type of activity event.
type EventType string

const (
	TypePhaseChange        EventType = "phase_change"
	TypeContractSigned     EventType = "contract_signed"
	TypeProductionStarted  EventType = "production_started"
	TypeProjectCreated     EventType = "project_created"
	TypeProjectUpdated     EventType = "project_updated"
	TypeTaskStatusChanged  EventType = "task_status_changed"
	TypeProjectCancelled   EventType = "project_cancelled"
)

// Entry is one immutable record in a project's audit trail. Entries are
// append-only: there is no update or delete path anywhere in the system.
type Entry struct {
	ID        int64     `json:"id"`
	TenantID  string    `json:"tenant_id"`
	ProjectID string    `json:"project_id"`
	EventType EventType `json:"event_type"`
	EventData string    `json:"event_data,omitempty"` // JSON string
	Actor     string    `json:"actor,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
