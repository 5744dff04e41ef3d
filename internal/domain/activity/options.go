package activity

// ListOptions provides filtering options for listing activity.
type ListOptions struct {
	ProjectID string
	EventType *EventType
	Actor     *string
	Limit     int
	Offset    int
}
