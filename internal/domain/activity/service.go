package activity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrInvalidInput indicates invalid activity input.
var ErrInvalidInput = errors.New("invalid activity input")

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Append records an activity entry, stamping the current time if missing.
func (s *Service) Append(ctx context.Context, tenantID string, entry *Entry) error {
	if entry == nil || entry.ProjectID == "" || entry.EventType == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.repo.Append(ctx, tenantID, entry); err != nil {
		return fmt.Errorf("appending activity: %w", err)
	}
	return nil
}

// Recent lists activity entries with filtering, newest first.
func (s *Service) Recent(ctx context.Context, tenantID string, opts ListOptions) ([]Entry, error) {
	return s.repo.List(ctx, tenantID, opts)
}
