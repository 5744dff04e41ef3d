package api

import (
	"errors"
	"fmt"

	"github.com/hartwell-build/siteline/internal/domain/project"
	"github.com/hartwell-build/siteline/internal/domain/scope"
	"github.com/hartwell-build/siteline/internal/domain/workflow"
	"github.com/hartwell-build/siteline/internal/framing"
	"github.com/hartwell-build/siteline/internal/repository"
)

// JSON-RPC error codes. The -32000 range is reserved for application
// errors; the dashboard keys retry and prompt behavior off these.
const (
	CodeInvalidParams     = -32602
	CodeInternal          = -32603
	CodeNotFound          = -32001
	CodeInvalidTransition = -32002
	CodeBlocked           = -32003
	CodeConflict          = -32004
)

// Error is the API error shape carried through the JSON-RPC envelope.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// invalidParams builds a CodeInvalidParams error with a caller-facing message.
func invalidParams(message string) *Error {
	return &Error{Code: CodeInvalidParams, Message: message}
}

// MapError converts a domain error into its API shape. Blocked transitions
// carry the individual check failures in Data so the dashboard can render
// them one by one.
func MapError(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var blocked *workflow.BlockedError
	if errors.As(err, &blocked) {
		return &Error{
			Code:    CodeBlocked,
			Message: "transition blocked",
			Data:    blocked.Blockers,
		}
	}

	switch {
	case errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, scope.ErrTaskNotFound),
		errors.Is(err, framing.ErrOpeningNotFound),
		errors.Is(err, repository.ErrNotFound):
		return &Error{Code: CodeNotFound, Message: "not found"}
	case errors.Is(err, workflow.ErrInvalidTransition):
		return &Error{Code: CodeInvalidTransition, Message: "invalid phase transition"}
	case errors.Is(err, workflow.ErrReasonRequired):
		return invalidParams("a reason is required for this transition")
	case errors.Is(err, repository.ErrConflict):
		return &Error{Code: CodeConflict, Message: "conflict"}
	case errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, project.ErrInvalidPhase),
		errors.Is(err, scope.ErrInvalidStatus),
		errors.Is(err, framing.ErrInvalidInput),
		errors.Is(err, framing.ErrMissingDimensions):
		return invalidParams(err.Error())
	default:
		return &Error{Code: CodeInternal, Message: workflow.ErrorMessage(err)}
	}
}
