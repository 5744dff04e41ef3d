package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `siteline tracks remodeling projects for a small contracting outfit: intake → estimating → quoted → contracted → active → punch_list → complete, plus cancelled.

Core concepts (keep this mental model small):
- Project: one job for one client. Carries contact info, an estimate range with good/better/best tiers, line items, and milestone dates.
- Phase: where the job stands. Every move goes through a gate that runs checks; blockers stop the move, warnings don't.
- Scope: the task list for the build. Generated from the estimate's line items when the contract is signed.
- Cut list: framing calculator for rough openings (windows, doors, pass-throughs). Dimensions are imperial strings the way a tape measure reads.

Rules of engagement (default workflow):
1) Orient: list_projects (optionally with a search query), then get_project for detail.
2) Before moving a job: validate_transition shows what a gate will say without committing.
3) Move jobs with transition_phase. A blocked move returns the blocker list; fix the data (update_project) and retry.
   - Cancelling always needs a reason.
   - quoted → contracted is the contract signing: use sign_contract to set the value and tier; scope tasks are generated from the line items.
   - contracted → active starts production: use start_production; wall sections are optional.
4) Track the build: list_tasks / update_task_status. Task stats feed the completion gates.
5) Framing math: compute_cutlist for member counts and lengths, export_cutlist for a printable report, save_opening to keep one under a tag.

Transport notes:
- HTTP: pass session id via Mcp-Session-Id header.
- Stdio: auth is off; everything runs as the default tenant.

Docs (progressive disclosure):
- siteline://docs/index (what to read when)
- siteline://docs/phases (the phase graph and every gate's checks)
- siteline://docs/cutlist (measurement syntax and framing rules)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "siteline://docs/index",
		Name:        "docs_index",
		Title:       "siteline docs index",
		Description: "Entry point for agent-facing docs: what exists and what to read when.",
		Content: `# siteline: Agent Docs Index

Keep your baseline context small and load deeper docs only when needed.

## Quick start (no deep docs)

1. ` + "`list_projects`" + ` to orient; add a ` + "`query`" + ` to search by name, client, or address.
2. ` + "`get_project`" + ` for the full record, task stats, and legal next moves.
3. ` + "`validate_transition`" + ` before a risky move; ` + "`transition_phase`" + ` to commit.
4. ` + "`sign_contract`" + ` and ` + "`start_production`" + ` for the two moves with side effects.
5. ` + "`compute_cutlist`" + ` for framing math; dimensions are imperial strings.

## Docs (read on demand)

- ` + "`siteline://docs/phases`" + ` — the phase graph, every gate's warnings and blockers, and which moves stamp dates.
- ` + "`siteline://docs/cutlist`" + ` — measurement string syntax and the framing rules behind the calculator.

## Capabilities & intentional limitations

- Transitions are validated server-side; a blocked move returns machine-readable blockers, not a partial write.
- Activity is append-only. There is no undo; cancelled projects can be revived back to intake.
- Browse tools can return large result sets if you omit ` + "`limit`" + `.
`,
	},
	{
		URI:         "siteline://docs/phases",
		Name:        "docs_phases",
		Title:       "Phases and gates",
		Description: "The phase graph, gate checks (warnings vs blockers), and date side effects.",
		Content: `# Phases and gates

## The graph

` + "```" + `
intake → estimating → quoted → contracted → active → punch_list → complete
   ↑                                                      ↑
cancelled (from any working phase; revivable back to intake)   complete → punch_list (reopen)
` + "```" + `

Backward moves between neighboring working phases are allowed (e.g. quoted → estimating to rework numbers).

## Gates

Every move runs a gate. **Blockers** stop the move; **warnings** are advisory and the move proceeds.

- estimating: warns on missing client contact info.
- quoted: warns on a missing address; **blocks** when there is no estimate range at all. Stamps ` + "`quote_sent_at`" + ` and accepts an explicit date.
- contracted: **blocks** on undecided selections and on a zero contract value when no estimate exists. This is the signing move: it stamps ` + "`contract_signed_at`" + `, fixes the value and tier, and generates scope tasks from the line items.
- active: requires a signed contract. Stamps ` + "`actual_start`" + ` and ensures the project has scope (default scaffolding tasks if none).
- punch_list: warns while tasks are still blocked or overall progress is low.
- complete: **blocks** while more than $1,000 of the contract is unpaid. Stamps ` + "`actual_completion`" + `.
- cancelled: always needs a ` + "`reason`" + `; warns when cancelling mid-production.

## Concurrency

Pass ` + "`from`" + ` with the phase you believe the project is in. If someone else moved it first, the transition fails with a ` + "`stale_phase`" + ` blocker instead of double-applying.
`,
	},
	{
		URI:         "siteline://docs/cutlist",
		Name:        "docs_cutlist",
		Title:       "Cut-list calculator",
		Description: "Imperial measurement syntax and the framing rules behind compute_cutlist.",
		Content: `# Cut-list calculator

## Measurement strings

Dimensions are written the way a tape measure reads. All of these parse:

- ` + "`36`" + ` — inches
- ` + "`92 5/8`" + ` — inches and a fraction
- ` + "`3' 6 1/2\"`" + ` — feet, inches, fraction
- ` + "`6'`" + ` — feet only

Output lengths come back the same way, rounded to the nearest 1/16".

## What the calculator does

Given a rough opening (width × height), wall height, and framing options, it produces the full member list: king studs, jack (trimmer) studs, the header with its plywood spacers, sill plates, and cripple studs above the header and below the sill.

Rules worth knowing:

- Jack stud count scales with opening width (wider openings carry more load).
- Header length = rough width + the jacks on both sides.
- A built-up header gets a 1/2" plywood spacer; solid and LVL headers don't.
- ` + "`header_tight`" + ` pushes the header against the top plates and drops the upper cripples.
- Sloped sills change the cripple math under the sill.
- Doors have no sill; ` + "`sill_height`" + ` is ignored for them.

The result includes ` + "`warnings`" + ` for spans that need an engineer or non-standard configurations. Warnings never block the math.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
