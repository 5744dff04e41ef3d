package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hartwell-build/siteline/internal/api"
	"github.com/hartwell-build/siteline/internal/domain/phase"
	"github.com/hartwell-build/siteline/internal/domain/project"
	"github.com/hartwell-build/siteline/internal/domain/scope"
	"github.com/hartwell-build/siteline/internal/framing"
)

// ===== TOOL INPUTS =====

type createProjectInput struct {
	Name       string `json:"name" jsonschema:"required,Project display name"`
	ClientName string `json:"client_name,omitempty" jsonschema:"Homeowner or client name"`
	Phone      string `json:"phone,omitempty" jsonschema:"Client phone number"`
	Email      string `json:"email,omitempty" jsonschema:"Client email address"`
	Address    string `json:"address,omitempty" jsonschema:"Job site address"`
}

type projectIDInput struct {
	ProjectID string `json:"project_id" jsonschema:"required,Project ID"`
}

type listProjectsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Free-text search over project name and client and address (omit to list all)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results"`
}

type updateProjectInput struct {
	ProjectID         string             `json:"project_id" jsonschema:"required,Project ID"`
	Name              *string            `json:"name,omitempty" jsonschema:"New project name"`
	ClientName        *string            `json:"client_name,omitempty" jsonschema:"New client name"`
	Phone             *string            `json:"phone,omitempty" jsonschema:"New phone number"`
	Email             *string            `json:"email,omitempty" jsonschema:"New email address"`
	Address           *string            `json:"address,omitempty" jsonschema:"New job site address"`
	EstimateLow       *float64           `json:"estimate_low,omitempty" jsonschema:"Low end of the estimate range in dollars"`
	EstimateHigh      *float64           `json:"estimate_high,omitempty" jsonschema:"High end of the estimate range in dollars"`
	SelectedTier      *string            `json:"selected_tier,omitempty" jsonschema:"Estimate tier: good / better / best"`
	LineItems         []project.LineItem `json:"line_items,omitempty" jsonschema:"Estimate line items"`
	SelectionsPending *int               `json:"selections_pending,omitempty" jsonschema:"Number of undecided client selections"`
	AmountPaid        *float64           `json:"amount_paid,omitempty" jsonschema:"Total paid to date in dollars"`
}

type transitionInput struct {
	ProjectID    string   `json:"project_id" jsonschema:"required,Project ID"`
	From         string   `json:"from,omitempty" jsonschema:"Expected current phase (transition is rejected if the project has moved on)"`
	To           string   `json:"to" jsonschema:"required,Target phase"`
	Notes        string   `json:"notes,omitempty" jsonschema:"Free-form notes recorded with the change"`
	Date         string   `json:"date,omitempty" jsonschema:"Effective date (YYYY-MM-DD or RFC 3339) for gates that ask for one"`
	Reason       string   `json:"reason,omitempty" jsonschema:"Required when cancelling a project"`
	WallSections []string `json:"wall_sections,omitempty" jsonschema:"Wall sections to track when production starts"`
	Actor        string   `json:"actor,omitempty" jsonschema:"Who is making the change"`
}

type validateTransitionInput struct {
	ProjectID string `json:"project_id" jsonschema:"required,Project ID"`
	To        string `json:"to" jsonschema:"required,Target phase to validate"`
}

type signContractInput struct {
	ProjectID     string             `json:"project_id" jsonschema:"required,Project ID"`
	ContractValue float64            `json:"contract_value,omitempty" jsonschema:"Signed contract value in dollars (defaults to the estimate high)"`
	SelectedTier  string             `json:"selected_tier,omitempty" jsonschema:"Tier the client signed for: good / better / best"`
	LineItems     []project.LineItem `json:"line_items,omitempty" jsonschema:"Contracted line items (defaults to the estimate's)"`
	Actor         string             `json:"actor,omitempty" jsonschema:"Who recorded the signing"`
}

type startProductionInput struct {
	ProjectID    string   `json:"project_id" jsonschema:"required,Project ID"`
	WallSections []string `json:"wall_sections,omitempty" jsonschema:"Wall sections to track during the build"`
	Actor        string   `json:"actor,omitempty" jsonschema:"Who started production"`
}

type updateTaskStatusInput struct {
	TaskID string `json:"task_id" jsonschema:"required,Task ID"`
	Status string `json:"status" jsonschema:"required,New status: pending / in_progress / done / blocked"`
	Note   string `json:"note,omitempty" jsonschema:"Optional note recorded with the status change"`
}

type recentActivityInput struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"Limit to one project"`
	EventType string `json:"event_type,omitempty" jsonschema:"Limit to one event type (e.g. phase_change, contract_signed)"`
	Actor     string `json:"actor,omitempty" jsonschema:"Limit to one actor"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of entries"`
	Offset    int    `json:"offset,omitempty" jsonschema:"Offset for pagination"`
}

// cutlistInput mirrors the dashboard's cut-list request: dimensions are
// imperial strings ("36", "3' 6 1/2\"", "92 5/8").
type cutlistInput struct {
	OpeningType         string  `json:"opening_type,omitempty" jsonschema:"Opening type: window / door / pass-through (default window)"`
	RoughWidth          string  `json:"rough_width" jsonschema:"required,Rough opening width as an imperial measurement string"`
	RoughHeight         string  `json:"rough_height" jsonschema:"required,Rough opening height as an imperial measurement string"`
	SillHeight          string  `json:"sill_height,omitempty" jsonschema:"Height of the sill above the subfloor (windows only)"`
	WallHeight          string  `json:"wall_height" jsonschema:"required,Wall height from subfloor to top of plates"`
	HeaderSize          string  `json:"header_size,omitempty" jsonschema:"Header lumber size such as 2x10 (default 2x10)"`
	HeaderType          string  `json:"header_type,omitempty" jsonschema:"Header build: built-up / solid / lvl (default built-up)"`
	TopPlates           string  `json:"top_plates,omitempty" jsonschema:"Top plate count: single / double (default double)"`
	StudSpacing         float64 `json:"stud_spacing,omitempty" jsonschema:"Stud spacing in inches on center (default 16)"`
	SillStyle           string  `json:"sill_style,omitempty" jsonschema:"Sill build: flat / double / sloped (default flat)"`
	SlopedSillThickness string  `json:"sloped_sill_thickness,omitempty" jsonschema:"Thickness of a sloped sill"`
	StudMaterial        string  `json:"stud_material,omitempty" jsonschema:"Stud lumber size such as 2x4 or 2x6 (default 2x4)"`
	HeaderTight         bool    `json:"header_tight,omitempty" jsonschema:"Header sits tight to the top plates (no cripples above)"`
	FinishFloor         string  `json:"finish_floor,omitempty" jsonschema:"Finish floor thickness to add below the sill height"`
}

type saveOpeningInput struct {
	Tag string `json:"tag" jsonschema:"required,Name to save the opening under"`
	cutlistInput
}

type deleteOpeningInput struct {
	OpeningID string `json:"opening_id" jsonschema:"required,Saved opening ID"`
}

type emptyInput struct{}

// ===== TOOL OUTPUTS =====

type projectListOutput struct {
	Projects []project.Summary `json:"projects"`
}

type transitionListOutput struct {
	Transitions []phase.Transition `json:"transitions"`
}

type taskListOutput struct {
	Tasks []scope.Task `json:"tasks"`
}

type ackOutput struct {
	OK bool `json:"ok"`
}

// dispatch routes a tool call through the shared method handler and asserts
// the result back to the tool's output type.
func dispatch[Out any](ctx context.Context, h Handler, method string, args any) (Out, error) {
	var out Out

	tenantID := getTenantID(ctx)
	if tenantID == "" {
		return out, errors.New("unauthorized: no tenant in context")
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return out, err
	}

	res, err := h.Handle(ctx, tenantID, method, raw)
	if err != nil {
		return out, toolError(err)
	}
	if res == nil {
		return out, nil
	}

	typed, ok := res.(Out)
	if !ok {
		return out, fmt.Errorf("%s: unexpected result type %T", method, res)
	}
	return typed, nil
}

// toolError renders a dashboard error for an agent, keeping structured
// details (like transition blockers) visible in the message.
func toolError(err error) error {
	apiErr := api.MapError(err)
	if apiErr.Data != nil {
		if data, mErr := json.Marshal(apiErr.Data); mErr == nil {
			return fmt.Errorf("%s: %s", apiErr.Message, data)
		}
	}
	return errors.New(apiErr.Message)
}

// registerTools registers all siteline tools against the shared handler so
// the MCP surface and the dashboard RPC stay identical.
func registerTools(server *sdkmcp.Server, h Handler) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a new project in the intake phase",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args createProjectInput) (*sdkmcp.CallToolResult, *project.Project, error) {
		proj, err := dispatch[*project.Project](ctx, h, "create_project", args)
		return nil, proj, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get one project with its task stats and the transitions available from its current phase",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args projectIDInput) (*sdkmcp.CallToolResult, api.ProjectDetail, error) {
		detail, err := dispatch[api.ProjectDetail](ctx, h, "get_project", args)
		return nil, detail, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List project summaries, optionally filtered by a free-text search over name, client, and address",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args listProjectsInput) (*sdkmcp.CallToolResult, projectListOutput, error) {
		summaries, err := dispatch[[]project.Summary](ctx, h, "list_projects", args)
		return nil, projectListOutput{Projects: summaries}, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_project",
		Description: "Apply a partial update to a project's intake and estimate fields; omitted fields are left unchanged",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args updateProjectInput) (*sdkmcp.CallToolResult, *project.Project, error) {
		proj, err := dispatch[*project.Project](ctx, h, "update_project", args)
		return nil, proj, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_available_transitions",
		Description: "List the phases a project can legally move to from its current phase",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args projectIDInput) (*sdkmcp.CallToolResult, transitionListOutput, error) {
		transitions, err := dispatch[[]phase.Transition](ctx, h, "get_available_transitions", args)
		return nil, transitionListOutput{Transitions: transitions}, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "validate_transition",
		Description: "Check a phase transition without performing it; returns warnings and blockers from the gate checks",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args validateTransitionInput) (*sdkmcp.CallToolResult, phase.Result, error) {
		result, err := dispatch[phase.Result](ctx, h, "validate_transition", args)
		return nil, result, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "transition_phase",
		Description: "Move a project to a new phase. Blocked transitions fail with the blocker list; cancellation requires a reason",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args transitionInput) (*sdkmcp.CallToolResult, *project.Project, error) {
		proj, err := dispatch[*project.Project](ctx, h, "transition_phase", args)
		return nil, proj, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "sign_contract",
		Description: "Record a signed contract: moves the project to contracted, stamps the date, and generates scope tasks from the estimate",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args signContractInput) (*sdkmcp.CallToolResult, *project.Project, error) {
		proj, err := dispatch[*project.Project](ctx, h, "sign_contract", args)
		return nil, proj, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "start_production",
		Description: "Move a contracted project into active production, stamping the actual start date",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args startProductionInput) (*sdkmcp.CallToolResult, *project.Project, error) {
		proj, err := dispatch[*project.Project](ctx, h, "start_production", args)
		return nil, proj, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_tasks",
		Description: "List a project's scope tasks in build order",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args projectIDInput) (*sdkmcp.CallToolResult, taskListOutput, error) {
		tasks, err := dispatch[[]scope.Task](ctx, h, "list_tasks", args)
		return nil, taskListOutput{Tasks: tasks}, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_task_status",
		Description: "Move a scope task to a new status (pending, in_progress, done, blocked) with an optional note",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args updateTaskStatusInput) (*sdkmcp.CallToolResult, *scope.Task, error) {
		task, err := dispatch[*scope.Task](ctx, h, "update_task_status", args)
		return nil, task, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "Get the activity feed (phase changes, contract signings, task updates), newest first",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args recentActivityInput) (*sdkmcp.CallToolResult, api.ActivityFeed, error) {
		feed, err := dispatch[api.ActivityFeed](ctx, h, "get_recent_activity", args)
		return nil, feed, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "compute_cutlist",
		Description: "Compute the framing cut list for one rough opening. Dimensions are imperial strings like \"36\", \"3' 6 1/2\\\"\", or \"92 5/8\"",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args cutlistInput) (*sdkmcp.CallToolResult, *framing.Result, error) {
		result, err := dispatch[*framing.Result](ctx, h, "compute_cutlist", args)
		return nil, result, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_cutlist",
		Description: "Render the cut list for one rough opening as a printable text report",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args cutlistInput) (*sdkmcp.CallToolResult, api.ExportResult, error) {
		result, err := dispatch[api.ExportResult](ctx, h, "export_cutlist", args)
		return nil, result, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_opening",
		Description: "Compute a cut list and save it under a tag for reuse",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args saveOpeningInput) (*sdkmcp.CallToolResult, *framing.SavedOpening, error) {
		opening, err := dispatch[*framing.SavedOpening](ctx, h, "save_opening", args)
		return nil, opening, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_openings",
		Description: "List saved openings, newest first",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args emptyInput) (*sdkmcp.CallToolResult, api.OpeningList, error) {
		openings, err := dispatch[api.OpeningList](ctx, h, "list_openings", args)
		return nil, openings, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_opening",
		Description: "Delete one saved opening",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args deleteOpeningInput) (*sdkmcp.CallToolResult, ackOutput, error) {
		if _, err := dispatch[any](ctx, h, "delete_opening", args); err != nil {
			return nil, ackOutput{}, err
		}
		return nil, ackOutput{OK: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "clear_openings",
		Description: "Delete all saved openings for the current tenant",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args emptyInput) (*sdkmcp.CallToolResult, ackOutput, error) {
		if _, err := dispatch[any](ctx, h, "clear_openings", args); err != nil {
			return nil, ackOutput{}, err
		}
		return nil, ackOutput{OK: true}, nil
	})
}
