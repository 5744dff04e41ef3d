package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hartwell-build/siteline/internal/domain/phase"
	"github.com/hartwell-build/siteline/internal/domain/project"
)

// FlowState is the lifecycle stage of a pending confirmation.
type FlowState string

const (
	FlowIdle       FlowState = "idle"
	FlowConfirming FlowState = "confirming"
	FlowSubmitting FlowState = "submitting"
)

// Confirmation is the open prompt presented to the caller: the validated
// gate plus whatever extra inputs the gate demands before Confirm.
type Confirmation struct {
	ProjectID              string              `json:"project_id"`
	From                   phase.Phase         `json:"from"`
	To                     phase.Phase         `json:"to"`
	Action                 string              `json:"action"`
	Description            string              `json:"description"`
	Warnings               []phase.CheckResult `json:"warnings,omitempty"`
	RequiresDate           bool                `json:"requires_date"`
	RequiresReason         bool                `json:"requires_reason"`
	PromptsForWallSections bool                `json:"prompts_for_wall_sections"`
}

// ConfirmInput carries the caller's answers to the confirmation prompt.
type ConfirmInput struct {
	Notes        string
	Date         *time.Time
	Reason       string
	WallSections []string
	Actor        string
}

// Flow is the two-step confirm machine wrapped around Execute. Initiate
// validates and opens a confirmation; Confirm submits it. A failed submit
// leaves the confirmation open with LastError set, so the caller can fix
// the inputs and retry without re-initiating.
type Flow struct {
	svc      *Service
	tenantID string
	onUpdate func(*project.Project)
	logger   *slog.Logger

	mu      sync.Mutex
	state   FlowState
	pending *Confirmation
	lastErr string
}

// NewFlow creates a confirm flow for one tenant. onUpdate, when non-nil, is
// invoked with the committed project after each successful transition.
func NewFlow(svc *Service, tenantID string, onUpdate func(*project.Project), logger *slog.Logger) *Flow {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Flow{
		svc:      svc,
		tenantID: tenantID,
		onUpdate: onUpdate,
		logger:   logger,
		state:    FlowIdle,
	}
}

// State returns the flow stage, the open confirmation (nil when idle), and
// the error message from the last failed submit ("" when none).
func (f *Flow) State() (FlowState, *Confirmation, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, f.pending, f.lastErr
}

// Initiate validates the transition against live project state and, if it
// can proceed, opens a confirmation. A blocked or illegal transition never
// opens the flow.
func (f *Flow) Initiate(ctx context.Context, projectID string, to phase.Phase) (*Confirmation, error) {
	f.mu.Lock()
	if f.state == FlowSubmitting {
		f.mu.Unlock()
		return nil, ErrTransitionInFlight
	}
	f.mu.Unlock()

	proj, err := f.svc.projects.Get(ctx, f.tenantID, projectID)
	if err != nil {
		return nil, err
	}
	if !phase.IsValid(proj.Phase, to) {
		return nil, ErrInvalidTransition
	}

	res, err := f.svc.Validate(ctx, f.tenantID, projectID, to)
	if err != nil {
		return nil, err
	}
	if !res.CanProceed {
		return nil, &BlockedError{Blockers: res.Blockers}
	}

	conf := &Confirmation{
		ProjectID:              projectID,
		From:                   proj.Phase,
		To:                     to,
		Action:                 res.Gate.Action,
		Description:            res.Gate.Description,
		Warnings:               res.Warnings,
		RequiresDate:           res.Gate.RequiresDate,
		RequiresReason:         res.Gate.RequiresReason,
		PromptsForWallSections: res.Gate.PromptsForWallSections,
	}

	f.mu.Lock()
	f.state = FlowConfirming
	f.pending = conf
	f.lastErr = ""
	f.mu.Unlock()

	return conf, nil
}

// Confirm submits the open confirmation. On success the flow resets to
// idle. On failure the confirmation stays open and LastError is populated,
// so the prompt survives for a retry.
func (f *Flow) Confirm(ctx context.Context, input ConfirmInput) (*project.Project, error) {
	f.mu.Lock()
	switch f.state {
	case FlowSubmitting:
		f.mu.Unlock()
		return nil, ErrTransitionInFlight
	case FlowIdle:
		f.mu.Unlock()
		return nil, ErrNotConfirming
	}
	conf := f.pending
	f.state = FlowSubmitting
	f.mu.Unlock()

	updated, err := f.svc.Execute(ctx, f.tenantID, TransitionRequest{
		ProjectID:    conf.ProjectID,
		From:         conf.From,
		To:           conf.To,
		Notes:        input.Notes,
		Date:         input.Date,
		Reason:       input.Reason,
		WallSections: input.WallSections,
		Actor:        input.Actor,
	})
	if err != nil {
		// Keep the prompt open; the caller fixes inputs and retries.
		f.mu.Lock()
		f.state = FlowConfirming
		f.lastErr = ErrorMessage(err)
		f.mu.Unlock()
		return nil, err
	}

	f.mu.Lock()
	f.state = FlowIdle
	f.pending = nil
	f.lastErr = ""
	f.mu.Unlock()

	if f.onUpdate != nil {
		if updated == nil {
			f.logger.Warn("transition committed but no project snapshot returned",
				"project_id", conf.ProjectID, "to", conf.To)
		} else {
			f.onUpdate(updated)
		}
	}

	return updated, nil
}

// Cancel abandons the open confirmation without touching the project.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == FlowSubmitting {
		return
	}
	f.state = FlowIdle
	f.pending = nil
	f.lastErr = ""
}
