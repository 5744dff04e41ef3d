package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hartwell-build/siteline/internal/domain/phase"
	"github.com/hartwell-build/siteline/internal/domain/project"
	"github.com/hartwell-build/siteline/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
	id, tenant_id, name, client_name, phone, email, address, phase,
	estimate_low, estimate_high, contract_value, selected_tier, line_items,
	selections_pending, amount_paid, cancel_reason, wall_sections,
	quote_sent_at, contract_signed_at, actual_start, actual_completion,
	phase_changed_at, created_at, updated_at
`

// dateColumns maps gate date fields to their project columns. The map
// doubles as an allowlist; UpdatePhase never interpolates a field name that
// isn't in it.
var dateColumns = map[phase.DateField]string{
	phase.DateQuoteSent:        "quote_sent_at",
	phase.DateContractSigned:   "contract_signed_at",
	phase.DateActualStart:      "actual_start",
	phase.DateActualCompletion: "actual_completion",
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, tenantID string, proj *project.Project) error {
	lineItems, err := json.Marshal(proj.LineItems)
	if err != nil {
		return fmt.Errorf("failed to encode line items: %w", err)
	}
	wallSections, err := json.Marshal(proj.WallSections)
	if err != nil {
		return fmt.Errorf("failed to encode wall sections: %w", err)
	}

	query := `
		INSERT INTO projects (
			id, tenant_id, name, client_name, phone, email, address, phase,
			estimate_low, estimate_high, contract_value, selected_tier, line_items,
			selections_pending, amount_paid, cancel_reason, wall_sections,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		proj.ID,
		tenantID,
		proj.Name,
		proj.ClientName,
		proj.Phone,
		proj.Email,
		proj.Address,
		string(proj.Phase),
		proj.EstimateLow,
		proj.EstimateHigh,
		proj.ContractValue,
		proj.SelectedTier,
		string(lineItems),
		proj.SelectionsPending,
		proj.AmountPaid,
		proj.CancelReason,
		string(wallSections),
		proj.CreatedAt,
		proj.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return storeError("create project", err)
	}

	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ? AND tenant_id = ?`

	row := r.db.QueryRowContext(ctx, query, id, tenantID)
	proj, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return proj, nil
}

// List returns all projects for a tenant with summary information
func (r *ProjectRepository) List(ctx context.Context, tenantID string) ([]project.Summary, error) {
	query := `
		SELECT
			p.id,
			p.name,
			p.client_name,
			p.phase,
			CASE WHEN p.contract_value > 0 THEN p.contract_value ELSE p.estimate_high END as value,
			COUNT(t.id) as task_count,
			COUNT(CASE WHEN t.status = 'done' THEN t.id END) as done_tasks,
			p.created_at
		FROM projects p
		LEFT JOIN tasks t ON t.project_id = p.id AND t.tenant_id = p.tenant_id
		WHERE p.tenant_id = ?
		GROUP BY p.id, p.name, p.client_name, p.phase, p.contract_value, p.estimate_high, p.created_at
		ORDER BY p.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var summaries []project.Summary
	for rows.Next() {
		var summary project.Summary
		var ph string
		err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.ClientName,
			&ph,
			&summary.Value,
			&summary.TaskCount,
			&summary.DoneTasks,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		summary.Phase = phase.Phase(ph)
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return summaries, nil
}

// Search performs a full-text search over project name, client, and address
func (r *ProjectRepository) Search(ctx context.Context, tenantID, query string, limit int) ([]project.Summary, error) {
	baseQuery := `
		SELECT
			p.id,
			p.name,
			p.client_name,
			p.phase,
			CASE WHEN p.contract_value > 0 THEN p.contract_value ELSE p.estimate_high END as value,
			(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id AND t.tenant_id = p.tenant_id) as task_count,
			(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id AND t.tenant_id = p.tenant_id AND t.status = 'done') as done_tasks,
			p.created_at
		FROM projects_fts
		JOIN projects p ON p.rowid = projects_fts.rowid
		WHERE p.tenant_id = ? AND projects_fts MATCH ?
		ORDER BY rank
	`

	args := []interface{}{tenantID, query}
	if limit > 0 {
		baseQuery += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search projects: %w", err)
	}
	defer rows.Close()

	var summaries []project.Summary
	for rows.Next() {
		var summary project.Summary
		var ph string
		err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.ClientName,
			&ph,
			&summary.Value,
			&summary.TaskCount,
			&summary.DoneTasks,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		summary.Phase = phase.Phase(ph)
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}

	return summaries, nil
}

// Update persists the project's intake and estimate fields. Phase and its
// date stamps change only through UpdatePhase.
func (r *ProjectRepository) Update(ctx context.Context, tenantID string, proj *project.Project) error {
	lineItems, err := json.Marshal(proj.LineItems)
	if err != nil {
		return fmt.Errorf("failed to encode line items: %w", err)
	}

	query := `
		UPDATE projects
		SET name = ?, client_name = ?, phone = ?, email = ?, address = ?,
		    estimate_low = ?, estimate_high = ?, selected_tier = ?,
		    line_items = ?, selections_pending = ?, amount_paid = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		proj.Name,
		proj.ClientName,
		proj.Phone,
		proj.Email,
		proj.Address,
		proj.EstimateLow,
		proj.EstimateHigh,
		proj.SelectedTier,
		string(lineItems),
		proj.SelectionsPending,
		proj.AmountPaid,
		time.Now(),
		proj.ID,
		tenantID,
	)
	if err != nil {
		return storeError("update project", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdatePhase applies a phase change and its extra-data bag atomically and
// returns the committed project.
func (r *ProjectRepository) UpdatePhase(ctx context.Context, tenantID, id string, upd project.PhaseUpdate) (*project.Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sets := []string{"phase = ?", "phase_changed_at = ?", "updated_at = ?"}
	args := []interface{}{string(upd.Phase), upd.PhaseChangedAt, time.Now()}

	for field, when := range upd.Dates {
		column, ok := dateColumns[field]
		if !ok {
			return nil, fmt.Errorf("unknown date field %q: %w", field, repository.ErrInvalidInput)
		}
		sets = append(sets, column+" = ?")
		args = append(args, when)
	}

	if upd.CancelReason != nil {
		sets = append(sets, "cancel_reason = ?")
		args = append(args, *upd.CancelReason)
	}
	if upd.WallSections != nil {
		encoded, err := json.Marshal(upd.WallSections)
		if err != nil {
			return nil, fmt.Errorf("failed to encode wall sections: %w", err)
		}
		sets = append(sets, "wall_sections = ?")
		args = append(args, string(encoded))
	}
	if upd.ContractValue != nil {
		sets = append(sets, "contract_value = ?")
		args = append(args, *upd.ContractValue)
	}
	if upd.SelectedTier != nil {
		sets = append(sets, "selected_tier = ?")
		args = append(args, *upd.SelectedTier)
	}

	query := "UPDATE projects SET " + strings.Join(sets, ", ") + " WHERE id = ? AND tenant_id = ?"
	args = append(args, id, tenantID)

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("update phase", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, repository.ErrNotFound
	}

	row := tx.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ? AND tenant_id = ?`, id, tenantID)
	proj, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("failed to read updated project: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, storeError("commit phase change", err)
	}

	return proj, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var proj project.Project
	var ph string
	var lineItems, wallSections string
	var quoteSent, contractSigned, actualStart, actualCompletion, phaseChanged sql.NullTime

	err := row.Scan(
		&proj.ID,
		&proj.TenantID,
		&proj.Name,
		&proj.ClientName,
		&proj.Phone,
		&proj.Email,
		&proj.Address,
		&ph,
		&proj.EstimateLow,
		&proj.EstimateHigh,
		&proj.ContractValue,
		&proj.SelectedTier,
		&lineItems,
		&proj.SelectionsPending,
		&proj.AmountPaid,
		&proj.CancelReason,
		&wallSections,
		&quoteSent,
		&contractSigned,
		&actualStart,
		&actualCompletion,
		&phaseChanged,
		&proj.CreatedAt,
		&proj.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	proj.Phase = phase.Phase(ph)
	if err := json.Unmarshal([]byte(lineItems), &proj.LineItems); err != nil {
		return nil, fmt.Errorf("failed to decode line items: %w", err)
	}
	if err := json.Unmarshal([]byte(wallSections), &proj.WallSections); err != nil {
		return nil, fmt.Errorf("failed to decode wall sections: %w", err)
	}

	proj.QuoteSentAt = nullableTime(quoteSent)
	proj.ContractSignedAt = nullableTime(contractSigned)
	proj.ActualStart = nullableTime(actualStart)
	proj.ActualCompletion = nullableTime(actualCompletion)
	proj.PhaseChangedAt = nullableTime(phaseChanged)

	return &proj, nil
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
