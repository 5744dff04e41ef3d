package repository

import (
	"encoding/json"
	"errors"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an optimistic concurrency check fails
	ErrConflict = errors.New("conflict: entity was modified concurrently")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// StoreError is the single structured error type at the persistence
// boundary. Stores that receive heterogeneous error shapes from their
// backend convert them here immediately so business logic never sees raw
// driver or transport payloads.
type StoreError struct {
	Message string
	Details string
	Raw     map[string]any
}

func (e *StoreError) Error() string {
	return e.DisplayMessage()
}

// DisplayMessage renders the error for users with a fixed priority:
// message, then details, then a JSON dump of whatever the backend sent.
func (e *StoreError) DisplayMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Details != "" {
		return e.Details
	}
	if len(e.Raw) > 0 {
		if data, err := json.Marshal(e.Raw); err == nil {
			return string(data)
		}
	}
	return "storage error"
}
