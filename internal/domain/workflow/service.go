// Package workflow orchestrates project phase transitions: validation
// against the gate table, the per-transition side effects, persistence, and
// the audit trail. The phase change is always committed before any activity
// entry is appended, so the log only ever records committed state.
package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hartwell-build/siteline/internal/domain/activity"
	"github.com/hartwell-build/siteline/internal/domain/phase"
	"github.com/hartwell-build/siteline/internal/domain/project"
)

// DefaultTier is the pricing tier assumed when the client never picked one.
const DefaultTier = "better"

// Service executes phase transitions.
type Service struct {
	projects ProjectStore
	scope    ScopeService
	activity ActivityLogger
	logger   *slog.Logger
}

// NewService creates a new workflow service.
func NewService(projects ProjectStore, scopeSvc ScopeService, activitySvc ActivityLogger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		projects: projects,
		scope:    scopeSvc,
		activity: activitySvc,
		logger:   logger,
	}
}

// TransitionRequest describes one requested phase change.
type TransitionRequest struct {
	ProjectID string
	// From guards against stale callers; when set it must match the
	// project's current phase.
	From         phase.Phase
	To           phase.Phase
	Notes        string
	Date         *time.Time
	Reason       string
	WallSections []string
	Actor        string
}

// Available enumerates the legal transitions out of the project's current
// phase, enriched with gate metadata.
func (s *Service) Available(ctx context.Context, tenantID, projectID string) ([]phase.Transition, error) {
	proj, err := s.projects.Get(ctx, tenantID, projectID)
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return phase.Available(proj.Phase), nil
}

// Validate evaluates the gate for a transition against the live project,
// including task-derived progress figures.
func (s *Service) Validate(ctx context.Context, tenantID, projectID string, to phase.Phase) (phase.Result, error) {
	proj, err := s.projects.Get(ctx, tenantID, projectID)
	if err != nil {
		return phase.Result{}, fmt.Errorf("getting project: %w", err)
	}
	snap, err := s.snapshotFor(ctx, tenantID, proj)
	if err != nil {
		return phase.Result{}, err
	}
	return phase.Validate(snap, proj.Phase, to), nil
}

// Execute validates and performs a phase transition, dispatching on the
// gate's effect variant. It re-validates against the live project state, so
// a request prepared against a stale snapshot is rejected rather than
// applied.
func (s *Service) Execute(ctx context.Context, tenantID string, req TransitionRequest) (*project.Project, error) {
	proj, err := s.projects.Get(ctx, tenantID, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}

	if req.From != "" && req.From != proj.Phase {
		return nil, &BlockedError{Blockers: []phase.CheckResult{{
			Name:    "stale_phase",
			Message: fmt.Sprintf("Project is now in %s, not %s", phase.Label(proj.Phase), phase.Label(req.From)),
		}}}
	}

	if !phase.IsValid(proj.Phase, req.To) {
		return nil, ErrInvalidTransition
	}

	snap, err := s.snapshotFor(ctx, tenantID, proj)
	if err != nil {
		return nil, err
	}

	res := phase.Validate(snap, proj.Phase, req.To)
	if !res.CanProceed {
		return nil, &BlockedError{Blockers: res.Blockers}
	}

	gate := res.Gate
	if gate.RequiresReason && strings.TrimSpace(req.Reason) == "" {
		return nil, ErrReasonRequired
	}

	switch gate.Effect {
	case phase.EffectSignsContract:
		return s.SignContract(ctx, tenantID, SignContractRequest{
			ProjectID: req.ProjectID,
			Actor:     req.Actor,
		})
	case phase.EffectStartsProduction:
		return s.StartProduction(ctx, tenantID, req.ProjectID, req.WallSections, req.Actor)
	default:
		return s.executeStandard(ctx, tenantID, proj, req, gate)
	}
}

func (s *Service) executeStandard(ctx context.Context, tenantID string, proj *project.Project, req TransitionRequest, gate *phase.Gate) (*project.Project, error) {
	now := time.Now()
	upd := project.PhaseUpdate{
		Phase:          req.To,
		PhaseChangedAt: now,
	}

	if gate.SetsDate != "" {
		when := now
		// A caller-supplied date is honored only when the gate asks for one.
		if gate.RequiresDate && req.Date != nil {
			when = *req.Date
		}
		upd.Dates = map[phase.DateField]time.Time{gate.SetsDate: when}
	}

	if req.To == phase.Cancelled {
		reason := req.Reason
		upd.CancelReason = &reason
	}

	updated, err := s.projects.UpdatePhase(ctx, tenantID, req.ProjectID, upd)
	if err != nil {
		return nil, fmt.Errorf("persisting phase change: %w", err)
	}

	s.appendActivity(ctx, tenantID, &activity.Entry{
		ProjectID: req.ProjectID,
		EventType: activity.TypePhaseChange,
		EventData: encodeEventData(map[string]any{
			"from":       proj.Phase,
			"to":         req.To,
			"from_label": phase.Label(proj.Phase),
			"to_label":   phase.Label(req.To),
			"notes":      req.Notes,
		}),
		Actor: req.Actor,
	})

	return updated, nil
}

// SignContractRequest carries the contract details for the quoted →
// contracted transition. Zero values fall back to project-stored intake
// data: tier defaults to "better", value to whichever of high/low exists.
type SignContractRequest struct {
	ProjectID     string
	ContractValue float64
	SelectedTier  string
	LineItems     []project.LineItem
	Actor         string
}

// SignContract records the signed contract, moves the project to
// contracted, and derives scope tasks from the estimate line items. The
// project must be in quoted with an estimate on file; the gate is checked
// here as well as in Execute so the direct RPC surface cannot skip it.
func (s *Service) SignContract(ctx context.Context, tenantID string, req SignContractRequest) (*project.Project, error) {
	proj, err := s.projects.Get(ctx, tenantID, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	if proj.Phase != phase.Quoted {
		return nil, ErrInvalidTransition
	}

	if res := phase.Validate(proj.Snapshot(), phase.Quoted, phase.Contracted); !res.CanProceed {
		return nil, &BlockedError{Blockers: res.Blockers}
	}

	tier := req.SelectedTier
	if tier == "" {
		tier = proj.SelectedTier
	}
	if tier == "" {
		tier = DefaultTier
	}

	value := req.ContractValue
	if value == 0 {
		value = proj.Snapshot().EstimateValue()
	}

	lineItems := req.LineItems
	if lineItems == nil {
		lineItems = proj.LineItems
	}

	now := time.Now()
	updated, err := s.projects.UpdatePhase(ctx, tenantID, req.ProjectID, project.PhaseUpdate{
		Phase:          phase.Contracted,
		PhaseChangedAt: now,
		Dates:          map[phase.DateField]time.Time{phase.DateContractSigned: now},
		ContractValue:  &value,
		SelectedTier:   &tier,
	})
	if err != nil {
		return nil, fmt.Errorf("persisting contract: %w", err)
	}

	scopeSource := *updated
	scopeSource.LineItems = lineItems
	tasks, err := s.scope.GenerateFromEstimate(ctx, tenantID, &scopeSource)
	if err != nil {
		return nil, fmt.Errorf("contract signed but scope generation failed: %w", err)
	}

	s.appendActivity(ctx, tenantID, &activity.Entry{
		ProjectID: req.ProjectID,
		EventType: activity.TypeContractSigned,
		EventData: encodeEventData(map[string]any{
			"contract_value": value,
			"selected_tier":  tier,
			"scope_tasks":    len(tasks),
		}),
		Actor: req.Actor,
	})

	return updated, nil
}

// StartProduction moves a contracted project to active, stamps the actual
// start date, and scaffolds a task list if the project has no scope yet.
func (s *Service) StartProduction(ctx context.Context, tenantID, projectID string, wallSections []string, actor string) (*project.Project, error) {
	proj, err := s.projects.Get(ctx, tenantID, projectID)
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	if proj.Phase != phase.Contracted {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	updated, err := s.projects.UpdatePhase(ctx, tenantID, projectID, project.PhaseUpdate{
		Phase:          phase.Active,
		PhaseChangedAt: now,
		Dates:          map[phase.DateField]time.Time{phase.DateActualStart: now},
		WallSections:   wallSections,
	})
	if err != nil {
		return nil, fmt.Errorf("persisting production start: %w", err)
	}

	tasks, err := s.scope.EnsureScaffolding(ctx, tenantID, projectID)
	if err != nil {
		return nil, fmt.Errorf("production started but scaffolding failed: %w", err)
	}

	s.appendActivity(ctx, tenantID, &activity.Entry{
		ProjectID: projectID,
		EventType: activity.TypeProductionStarted,
		EventData: encodeEventData(map[string]any{
			"scope_tasks":   len(tasks),
			"wall_sections": wallSections,
		}),
		Actor: actor,
	})

	return updated, nil
}

// snapshotFor builds the gate-check view of a project, overlaying the
// task-derived progress figures.
func (s *Service) snapshotFor(ctx context.Context, tenantID string, proj *project.Project) (phase.Snapshot, error) {
	snap := proj.Snapshot()

	stats, err := s.scope.Stats(ctx, tenantID, proj.ID)
	if err != nil {
		return phase.Snapshot{}, fmt.Errorf("getting scope stats: %w", err)
	}
	snap.Progress = stats.Progress
	snap.OpenBlockers = stats.Blocked

	return snap, nil
}

// appendActivity records an audit entry for an already-committed change.
// The commit stands regardless; an append failure is logged, not returned.
func (s *Service) appendActivity(ctx context.Context, tenantID string, entry *activity.Entry) {
	if err := s.activity.Append(ctx, tenantID, entry); err != nil {
		s.logger.Error("activity append failed after committed change",
			"project_id", entry.ProjectID, "event_type", entry.EventType, "error", err)
	}
}

func encodeEventData(data map[string]any) string {
	encoded, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}
