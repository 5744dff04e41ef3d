package sqlite

import (
	"strings"

	"github.com/hartwell-build/siteline/internal/repository"
)

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// storeError converts a raw driver error into the structured form the rest
// of the system displays. Driver text goes in Details; Raw keeps the
// operation for logs.
func storeError(op string, err error) error {
	return &repository.StoreError{
		Details: op + ": " + err.Error(),
		Raw: map[string]any{
			"op":    op,
			"error": err.Error(),
		},
	}
}
