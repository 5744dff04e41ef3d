package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hartwell-build/siteline/internal/framing"
	"github.com/hartwell-build/siteline/internal/repository"
)

// OpeningRepository implements framing.OpeningRepository for SQLite
type OpeningRepository struct {
	db *DB
}

// NewOpeningRepository creates a new OpeningRepository
func NewOpeningRepository(db *DB) *OpeningRepository {
	return &OpeningRepository{db: db}
}

// Append stores a computed cut list under its tag
func (r *OpeningRepository) Append(ctx context.Context, tenantID string, opening *framing.SavedOpening) error {
	members, err := json.Marshal(opening.Members)
	if err != nil {
		return fmt.Errorf("failed to encode members: %w", err)
	}

	createdAt := opening.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO saved_openings (id, tenant_id, tag, opening_type, rough_width, rough_height, members, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		opening.ID,
		tenantID,
		opening.Tag,
		string(opening.OpeningType),
		opening.RoughWidth,
		opening.RoughHeight,
		string(members),
		createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return storeError("save opening", err)
	}

	opening.TenantID = tenantID
	opening.CreatedAt = createdAt

	return nil
}

// List returns a tenant's saved openings, newest first
func (r *OpeningRepository) List(ctx context.Context, tenantID string) ([]framing.SavedOpening, error) {
	query := `
		SELECT id, tenant_id, tag, opening_type, rough_width, rough_height, members, created_at
		FROM saved_openings
		WHERE tenant_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list openings: %w", err)
	}
	defer rows.Close()

	var openings []framing.SavedOpening
	for rows.Next() {
		var opening framing.SavedOpening
		var openingType, members string
		err := rows.Scan(
			&opening.ID,
			&opening.TenantID,
			&opening.Tag,
			&openingType,
			&opening.RoughWidth,
			&opening.RoughHeight,
			&members,
			&opening.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan opening: %w", err)
		}
		opening.OpeningType = framing.OpeningType(openingType)
		if err := json.Unmarshal([]byte(members), &opening.Members); err != nil {
			return nil, fmt.Errorf("failed to decode members: %w", err)
		}
		openings = append(openings, opening)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating opening rows: %w", err)
	}

	return openings, nil
}

// Remove deletes one saved opening
func (r *OpeningRepository) Remove(ctx context.Context, tenantID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM saved_openings WHERE id = ? AND tenant_id = ?`, id, tenantID)
	if err != nil {
		return storeError("remove opening", err)
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

// Clear deletes all of a tenant's saved openings
func (r *OpeningRepository) Clear(ctx context.Context, tenantID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM saved_openings WHERE tenant_id = ?`, tenantID); err != nil {
		return storeError("clear openings", err)
	}
	return nil
}
