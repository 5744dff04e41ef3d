package scope

import "context"

// Repository provides persistence for scope tasks.
type Repository interface {
	CreateBatch(ctx context.Context, tenantID string, tasks []Task) error
	Get(ctx context.Context, tenantID, id string) (*Task, error)
	List(ctx context.Context, tenantID, projectID string) ([]Task, error)
	UpdateStatus(ctx context.Context, tenantID, id string, status TaskStatus, note string) error
	Stats(ctx context.Context, tenantID, projectID string) (Stats, error)
}
