package activity

import "context"

// Repository provides append-and-list persistence for activity entries.
// There is deliberately no update or delete operation.
type Repository interface {
	Append(ctx context.Context, tenantID string, entry *Entry) error
	List(ctx context.Context, tenantID string, opts ListOptions) ([]Entry, error)
}
