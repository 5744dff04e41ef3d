package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hartwell-build/siteline/internal/domain/scope"
	"github.com/hartwell-build/siteline/internal/repository"
)

// TaskRepository implements scope.Repository for SQLite
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreateBatch inserts a group of tasks in one transaction
func (r *TaskRepository) CreateBatch(ctx context.Context, tenantID string, tasks []scope.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO tasks (
			id, tenant_id, project_id, title, category, status,
			note, sort_order, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, task := range tasks {
		_, err := tx.ExecContext(ctx, query,
			task.ID,
			tenantID,
			task.ProjectID,
			task.Title,
			task.Category,
			string(task.Status),
			task.Note,
			task.SortOrder,
			task.CreatedAt,
			task.UpdatedAt,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return repository.ErrNotFound
			}
			return storeError("create task", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeError("commit task batch", err)
	}

	return nil
}

// Get retrieves a task by ID
func (r *TaskRepository) Get(ctx context.Context, tenantID, id string) (*scope.Task, error) {
	query := `
		SELECT id, tenant_id, project_id, title, category, status,
		       note, sort_order, created_at, updated_at
		FROM tasks
		WHERE id = ? AND tenant_id = ?
	`

	var task scope.Task
	var status string
	err := r.db.QueryRowContext(ctx, query, id, tenantID).Scan(
		&task.ID,
		&task.TenantID,
		&task.ProjectID,
		&task.Title,
		&task.Category,
		&status,
		&task.Note,
		&task.SortOrder,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	task.Status = scope.TaskStatus(status)
	return &task, nil
}

// List returns a project's tasks in display order
func (r *TaskRepository) List(ctx context.Context, tenantID, projectID string) ([]scope.Task, error) {
	query := `
		SELECT id, tenant_id, project_id, title, category, status,
		       note, sort_order, created_at, updated_at
		FROM tasks
		WHERE tenant_id = ? AND project_id = ?
		ORDER BY sort_order ASC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []scope.Task
	for rows.Next() {
		var task scope.Task
		var status string
		err := rows.Scan(
			&task.ID,
			&task.TenantID,
			&task.ProjectID,
			&task.Title,
			&task.Category,
			&status,
			&task.Note,
			&task.SortOrder,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		task.Status = scope.TaskStatus(status)
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// UpdateStatus changes a task's status and note
func (r *TaskRepository) UpdateStatus(ctx context.Context, tenantID, id string, status scope.TaskStatus, note string) error {
	query := `
		UPDATE tasks
		SET status = ?, note = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ?
	`

	result, err := r.db.ExecContext(ctx, query, string(status), note, time.Now(), id, tenantID)
	if err != nil {
		return storeError("update task status", err)
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

// Stats aggregates a project's task counts
func (r *TaskRepository) Stats(ctx context.Context, tenantID, projectID string) (scope.Stats, error) {
	query := `
		SELECT
			COUNT(*) as total,
			COUNT(CASE WHEN status = 'done' THEN 1 END) as done,
			COUNT(CASE WHEN status = 'blocked' THEN 1 END) as blocked
		FROM tasks
		WHERE tenant_id = ? AND project_id = ?
	`

	var stats scope.Stats
	err := r.db.QueryRowContext(ctx, query, tenantID, projectID).Scan(
		&stats.Total,
		&stats.Done,
		&stats.Blocked,
	)
	if err != nil {
		return scope.Stats{}, fmt.Errorf("failed to get task stats: %w", err)
	}

	if stats.Total > 0 {
		stats.Progress = float64(stats.Done) / float64(stats.Total) * 100
	}

	return stats, nil
}
