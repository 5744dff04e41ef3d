// Package api implements the dashboard's JSON-RPC method surface. Each
// method decodes typed params, validates them, and dispatches to a domain
// service; errors leave as *Error so the transport can build the envelope.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hartwell-build/siteline/internal/domain/activity"
	"github.com/hartwell-build/siteline/internal/domain/phase"
	"github.com/hartwell-build/siteline/internal/domain/project"
	"github.com/hartwell-build/siteline/internal/domain/scope"
	"github.com/hartwell-build/siteline/internal/domain/workflow"
	"github.com/hartwell-build/siteline/internal/framing"
)

// Handler dispatches dashboard methods to domain services.
type Handler struct {
	projects *project.Service
	scope    *scope.Service
	activity *activity.Service
	workflow *workflow.Service
	framing  *framing.Service
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates the dashboard API handler.
func NewHandler(
	projects *project.Service,
	scopeSvc *scope.Service,
	activitySvc *activity.Service,
	workflowSvc *workflow.Service,
	framingSvc *framing.Service,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		projects: projects,
		scope:    scopeSvc,
		activity: activitySvc,
		workflow: workflowSvc,
		framing:  framingSvc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Handle dispatches one method call. Unknown methods return nil, false.
func (h *Handler) Handle(ctx context.Context, tenantID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "create_project":
		return h.createProject(ctx, tenantID, params)
	case "get_project":
		return h.getProject(ctx, tenantID, params)
	case "list_projects":
		return h.listProjects(ctx, tenantID, params)
	case "update_project":
		return h.updateProject(ctx, tenantID, params)
	case "get_available_transitions":
		return h.availableTransitions(ctx, tenantID, params)
	case "validate_transition":
		return h.validateTransition(ctx, tenantID, params)
	case "transition_phase":
		return h.transitionPhase(ctx, tenantID, params)
	case "sign_contract":
		return h.signContract(ctx, tenantID, params)
	case "start_production":
		return h.startProduction(ctx, tenantID, params)
	case "list_tasks":
		return h.listTasks(ctx, tenantID, params)
	case "update_task_status":
		return h.updateTaskStatus(ctx, tenantID, params)
	case "get_recent_activity":
		return h.recentActivity(ctx, tenantID, params)
	case "compute_cutlist":
		return h.computeCutlist(ctx, params)
	case "export_cutlist":
		return h.exportCutlist(ctx, params)
	case "save_opening":
		return h.saveOpening(ctx, tenantID, params)
	case "list_openings":
		return h.listOpenings(ctx, tenantID)
	case "delete_opening":
		return h.deleteOpening(ctx, tenantID, params)
	case "clear_openings":
		return nil, h.framing.Clear(ctx, tenantID)
	default:
		return nil, ErrMethodNotFound
	}
}

// ErrMethodNotFound is returned by Handle for unknown method names.
var ErrMethodNotFound = &Error{Code: -32601, Message: "method not found"}

// decodeParams unmarshals and validates request params into dst.
func (h *Handler) decodeParams(params json.RawMessage, dst any) error {
	if len(params) > 0 {
		if err := json.Unmarshal(params, dst); err != nil {
			return invalidParams("malformed params: " + err.Error())
		}
	}
	if err := h.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fe.Field()+" failed "+fe.Tag())
			}
			return invalidParams(strings.Join(msgs, "; "))
		}
		return invalidParams(err.Error())
	}
	return nil
}

func (h *Handler) createProject(ctx context.Context, tenantID string, params json.RawMessage) (any, error) {
	var p CreateProjectParams
	if err := h.decodeParams(params, &p); err != nil {
		return nil, err
	}
	proj, err := h.projects.Create(ctx, tenantID, project.CreateRequest{
		Name:       p.Name,
		ClientName: p.ClientName,
		Phone:      p.Phone,
		Email:      p.Email,
		Address:    p.Address,
	})
	if err != nil {
		return nil, err
	}
	return proj, nil
}

func (h *Handler) getProject(ctx context.Context, tenantID string, params json.RawMessage) (any, error) {
	var p GetProjectParams
	if err := h.decodeParams(params, &p); err != nil {
		return nil, err
	}
	proj, err := h.projects.Get(ctx, tenantID, p.ProjectID)
	if err != nil {
		return nil, err
	}
	stats, err := h.scope.Stats(ctx, tenantID, p.ProjectID)
	if err != nil {
		return nil, err
	}
	return ProjectDetail{
		Project:     proj,
		Stats:       stats,
		Transitions: phase.Available(proj.Phase),
	}, nil
}

func (h *Handler) listProjects(ctx context.Context, tenantID string, params json.RawMessage) (any, error) {
	var p ListProjectsParams
	if err := h.decodeParams(params, &p); err != nil {
		return nil, err
	}
	return h.projects.Search(ctx, tenantID, p.Query, p.Limit)
}

func (h *Handler) updateProject(ctx context.Context, tenantID string, params json.RawMessage) (any, error) {
	var p UpdateProjectParams
	if err := h.decodeParams(params, &p); err != nil {
		return nil, err
	}
	return h.projects.Update(ctx, tenantID, p.ProjectID, project.UpdateRequest{
		Name:              p.Name,
		ClientName:        p.ClientName,
		Phone:             p.Phone,
		Email:             p.Email,
		Address:           p.Address,
		EstimateLow:       p.EstimateLow,
		EstimateHigh:      p.EstimateHigh,
		SelectedTier:      p.SelectedTier,
		LineItems:         p.LineItems,
		SelectionsPending: p.SelectionsPending,
		AmountPaid:        p.AmountPaid,
	})
}

func (h *Handler) availableTransitions(ctx context.Context, tenantID string, params json.RawMessage) (any, error) {
	var p GetProjectParams
	if err := h.decodeParams(params, &p); err != nil {
		return nil, err
	}
	return h.workflow.Available(ctx, tenantID, p.ProjectID)
}

func (h *Handler) validateTransition(ctx context.Context, tenantID string, params json.RawMessage) (any, error) {
	var p ValidateTransitionParams
	if err := h.decodeParams(params, &p); err != nil {
		return nil, err
	}
	to, err := project.NormalizePhase(p.To)
	if err != nil {
		return nil, err
	}
	return h.workflow.Validate(ctx, tenantID, p.ProjectID, to)
}

func (h *Handler) transitionPhase(ctx context.Context, tenantID string, params json.RawMessage) (any, error) {
	var p TransitionParams
	if err := h.decodeParams(params, &p); err != nil {
		return nil, err
	}
	to, err := project.NormalizePhase(p.To)
	if err != nil {
		return nil, err
	}
	var from phase.Phase
	if p.From != "" {
		if from, err = project.NormalizePhase(p.From); err != nil {
			return nil, err
		}
	}
	date, err := parseDate(p.Date)
	if err != nil {
		return nil, err
	}
	return h.workflow.Execute(ctx, tenantID, workflow.TransitionRequest{
		ProjectID:    p.ProjectID,
		From:         from,
		To:           to,
		Notes:        p.Notes,
		Date:         date,
		Reason:       p.Reason,
		WallSections: p.WallSections,
		Actor:        p.Actor,
	})
}

func (h *Handler) signContract(ctx context.Context, tenantID string, params json.RawMessage) (any, error) {
	var p SignContractParams
	if err := h.decodeParams(params, &p); err != nil {
		return nil, err
	}
	return h.workflow.SignContract(ctx, tenantID, workflow.SignContractRequest{
		ProjectID:     p.ProjectID,
		ContractValue: p.ContractValue,
		SelectedTier:  p.SelectedTier,
		LineItems:     p.LineItems,
		Actor:         p.Actor,
	})
}

func (h *Handler) startProduction(ctx context.Context, tenantID string, params json.RawMessage) (any, error) {
	var p StartProductionParams
	if err := h.decodeParams(params, &p); err != nil {
		return nil, err
	}
	return h.workflow.StartProduction(ctx, tenantID, p.ProjectID, p.WallSections, p.Actor)
}

func (h *Handler) listTasks(ctx context.Context, tenantID string, params json.RawMessage) (any, error) {
	var p ListTasksParams
	if err := h.decodeParams(params, &p); err != nil {
		return nil, err
	}
	return h.scope.List(ctx, tenantID, p.ProjectID)
}

func (h *Handler) updateTaskStatus(ctx context.Context, tenantID string, params json.RawMessage) (any, error) {
	var p UpdateTaskStatusParams
	if err := h.decodeParams(params, &p); err != nil {
		return nil, err
	}
	return h.scope.UpdateStatus(ctx, tenantID, p.TaskID, scope.TaskStatus(p.Status), p.Note)
}

func (h *Handler) recentActivity(ctx context.Context, tenantID string, params json.RawMessage) (any, error) {
	var p RecentActivityParams
	if err := h.decodeParams(params, &p); err != nil {
		return nil, err
	}
	opts := activity.ListOptions{
		ProjectID: p.ProjectID,
		Limit:     p.Limit,
		Offset:    p.Offset,
	}
	if p.EventType != "" {
		eventType := activity.EventType(p.EventType)
		opts.EventType = &eventType
	}
	if p.Actor != "" {
		opts.Actor = &p.Actor
	}
	entries, err := h.activity.Recent(ctx, tenantID, opts)
	if err != nil {
		return nil, err
	}
	return ActivityFeed{Entries: entries}, nil
}

func (h *Handler) computeCutlist(ctx context.Context, params json.RawMessage) (any, error) {
	var p CutlistParams
	if err := h.decodeParams(params, &p); err != nil {
		return nil, err
	}
	spec, err := p.toSpec()
	if err != nil {
		return nil, err
	}
	return h.framing.Compute(ctx, spec)
}

func (h *Handler) exportCutlist(ctx context.Context, params json.RawMessage) (any, error) {
	var p CutlistParams
	if err := h.decodeParams(params, &p); err != nil {
		return nil, err
	}
	spec, err := p.toSpec()
	if err != nil {
		return nil, err
	}
	report, err := h.framing.Export(ctx, spec)
	if err != nil {
		return nil, err
	}
	return ExportResult{Report: report}, nil
}

func (h *Handler) saveOpening(ctx context.Context, tenantID string, params json.RawMessage) (any, error) {
	var p SaveOpeningParams
	if err := h.decodeParams(params, &p); err != nil {
		return nil, err
	}
	spec, err := p.toSpec()
	if err != nil {
		return nil, err
	}
	return h.framing.Save(ctx, tenantID, p.Tag, spec)
}

func (h *Handler) listOpenings(ctx context.Context, tenantID string) (any, error) {
	openings, err := h.framing.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return OpeningList{Openings: openings}, nil
}

func (h *Handler) deleteOpening(ctx context.Context, tenantID string, params json.RawMessage) (any, error) {
	var p DeleteOpeningParams
	if err := h.decodeParams(params, &p); err != nil {
		return nil, err
	}
	return nil, h.framing.Remove(ctx, tenantID, p.OpeningID)
}
