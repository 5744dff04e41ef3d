package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hartwell-build/siteline/internal/framing"
	"github.com/hartwell-build/siteline/internal/repository"
)

func savedOpening(id, tag string) *framing.SavedOpening {
	return &framing.SavedOpening{
		ID:          id,
		Tag:         tag,
		OpeningType: framing.Window,
		RoughWidth:  36,
		RoughHeight: 48,
		Members: []framing.Member{
			{Name: "King Studs", Length: `7' 8 5/8"`, Qty: 2, Material: "2x4"},
			{Name: "Jack Studs", Length: `7'`, Qty: 2, Material: "2x4"},
		},
	}
}

func TestOpeningRepository_AppendAndList(t *testing.T) {
	db := NewTestDB(t)
	repo := NewOpeningRepository(db)
	ctx := context.Background()

	opening := savedOpening("o1", "W3 living room")
	require.NoError(t, repo.Append(ctx, "tenant1", opening))
	require.Equal(t, "tenant1", opening.TenantID)
	require.False(t, opening.CreatedAt.IsZero())

	openings, err := repo.List(ctx, "tenant1")
	require.NoError(t, err)
	require.Len(t, openings, 1)
	require.Equal(t, "W3 living room", openings[0].Tag)
	require.Len(t, openings[0].Members, 2)
	require.Equal(t, `7' 8 5/8"`, openings[0].Members[0].Length)
}

func TestOpeningRepository_ListNewestFirst(t *testing.T) {
	db := NewTestDB(t)
	repo := NewOpeningRepository(db)
	ctx := context.Background()

	first := savedOpening("o1", "W1")
	first.CreatedAt = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	second := savedOpening("o2", "W2")
	second.CreatedAt = time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, "tenant1", first))
	require.NoError(t, repo.Append(ctx, "tenant1", second))

	openings, err := repo.List(ctx, "tenant1")
	require.NoError(t, err)
	require.Len(t, openings, 2)
	require.Equal(t, "W2", openings[0].Tag)
}

func TestOpeningRepository_Remove(t *testing.T) {
	db := NewTestDB(t)
	repo := NewOpeningRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, "tenant1", savedOpening("o1", "W1")))
	require.NoError(t, repo.Remove(ctx, "tenant1", "o1"))

	openings, err := repo.List(ctx, "tenant1")
	require.NoError(t, err)
	require.Empty(t, openings)

	require.ErrorIs(t, repo.Remove(ctx, "tenant1", "o1"), repository.ErrNotFound)
}

func TestOpeningRepository_Clear(t *testing.T) {
	db := NewTestDB(t)
	repo := NewOpeningRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, "tenant1", savedOpening("o1", "W1")))
	require.NoError(t, repo.Append(ctx, "tenant1", savedOpening("o2", "W2")))
	require.NoError(t, repo.Append(ctx, "tenant2", savedOpening("o3", "W3")))

	require.NoError(t, repo.Clear(ctx, "tenant1"))

	openings, err := repo.List(ctx, "tenant1")
	require.NoError(t, err)
	require.Empty(t, openings)

	// Other tenants are untouched.
	openings, err = repo.List(ctx, "tenant2")
	require.NoError(t, err)
	require.Len(t, openings, 1)
}
