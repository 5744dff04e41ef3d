package workflow

import (
	"errors"
	"strings"

	"github.com/hartwell-build/siteline/internal/domain/phase"
	"github.com/hartwell-build/siteline/internal/repository"
)

var (
	// ErrInvalidTransition indicates the from/to pair is not in the
	// transition graph. Rejected before any state change.
	ErrInvalidTransition = errors.New("invalid phase transition")
	// ErrReasonRequired indicates the gate demands a reason and none was given.
	ErrReasonRequired = errors.New("a reason is required for this transition")
	// ErrTransitionInFlight indicates a confirm is already submitting.
	ErrTransitionInFlight = errors.New("a transition is already in flight")
	// ErrNotConfirming indicates Confirm was called outside a confirm flow.
	ErrNotConfirming = errors.New("no transition is awaiting confirmation")
)

// BlockedError carries the hard-check failures that prevented a transition.
type BlockedError struct {
	Blockers []phase.CheckResult
}

func (e *BlockedError) Error() string {
	msgs := make([]string, 0, len(e.Blockers))
	for _, b := range e.Blockers {
		msgs = append(msgs, b.Message)
	}
	return "transition blocked: " + strings.Join(msgs, "; ")
}

// ErrorMessage normalizes any error into a single display string. Structured
// store errors render by their message/details/JSON priority; everything
// else falls back to Error().
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var storeErr *repository.StoreError
	if errors.As(err, &storeErr) {
		return storeErr.DisplayMessage()
	}
	var blocked *BlockedError
	if errors.As(err, &blocked) {
		return blocked.Error()
	}
	return err.Error()
}
