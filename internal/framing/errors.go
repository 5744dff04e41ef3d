package framing

import "errors"

var (
	// ErrMissingDimensions indicates a required opening dimension is absent.
	ErrMissingDimensions = errors.New("rough width, rough height, and wall height are required")
	// ErrOpeningNotFound indicates the saved opening doesn't exist.
	ErrOpeningNotFound = errors.New("saved opening not found")
	// ErrInvalidInput indicates invalid saved-opening input.
	ErrInvalidInput = errors.New("invalid opening input")
)
