package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hartwell-build/siteline/internal/domain/phase"
	"github.com/hartwell-build/siteline/internal/domain/project"
	"github.com/hartwell-build/siteline/internal/repository"
)

func seedProject(t *testing.T, repo *ProjectRepository, id string) *project.Project {
	t.Helper()
	proj := &project.Project{
		ID:           id,
		TenantID:     "tenant1",
		Name:         "Miller Addition",
		ClientName:   "Dana Miller",
		Phone:        "555-0101",
		Address:      "14 Birch Ln",
		Phase:        phase.Intake,
		EstimateLow:  42000,
		EstimateHigh: 55000,
		LineItems: []project.LineItem{
			{Name: "Demo and haul-off", Good: 3000, Better: 3500, Best: 4200},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), "tenant1", proj))
	return proj
}

func TestProjectRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := seedProject(t, repo, "p1")

	retrieved, err := repo.Get(ctx, "tenant1", "p1")
	require.NoError(t, err)
	require.Equal(t, proj.ID, retrieved.ID)
	require.Equal(t, proj.Name, retrieved.Name)
	require.Equal(t, phase.Intake, retrieved.Phase)
	require.Len(t, retrieved.LineItems, 1)
	require.Equal(t, "Demo and haul-off", retrieved.LineItems[0].Name)
	require.Nil(t, retrieved.QuoteSentAt)
	require.Nil(t, retrieved.PhaseChangedAt)
}

func TestProjectRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	_, err := repo.Get(context.Background(), "tenant1", "ghost")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_TenantIsolation(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	seedProject(t, repo, "p1")

	_, err := repo.Get(ctx, "tenant2", "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_DuplicateID(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	proj := seedProject(t, repo, "p1")
	err := repo.Create(context.Background(), "tenant1", proj)
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestProjectRepository_Update(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := seedProject(t, repo, "p1")
	proj.Email = "dana@example.com"
	proj.EstimateHigh = 61000
	proj.AmountPaid = 5000

	require.NoError(t, repo.Update(ctx, "tenant1", proj))

	retrieved, err := repo.Get(ctx, "tenant1", "p1")
	require.NoError(t, err)
	require.Equal(t, "dana@example.com", retrieved.Email)
	require.Equal(t, 61000.0, retrieved.EstimateHigh)
	require.Equal(t, 5000.0, retrieved.AmountPaid)
}

func TestProjectRepository_UpdateNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	err := repo.Update(context.Background(), "tenant1", &project.Project{ID: "ghost", Name: "x"})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_UpdatePhase(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	seedProject(t, repo, "p1")

	changed := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	sent := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	updated, err := repo.UpdatePhase(ctx, "tenant1", "p1", project.PhaseUpdate{
		Phase:          phase.Quoted,
		PhaseChangedAt: changed,
		Dates:          map[phase.DateField]time.Time{phase.DateQuoteSent: sent},
	})
	require.NoError(t, err)
	require.Equal(t, phase.Quoted, updated.Phase)
	require.NotNil(t, updated.QuoteSentAt)
	require.True(t, updated.QuoteSentAt.Equal(sent))
	require.NotNil(t, updated.PhaseChangedAt)
	// Untouched date columns stay null.
	require.Nil(t, updated.ContractSignedAt)
}

func TestProjectRepository_UpdatePhaseContract(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	seedProject(t, repo, "p1")

	value := 55000.0
	tier := "better"
	updated, err := repo.UpdatePhase(ctx, "tenant1", "p1", project.PhaseUpdate{
		Phase:          phase.Contracted,
		PhaseChangedAt: time.Now(),
		Dates:          map[phase.DateField]time.Time{phase.DateContractSigned: time.Now()},
		ContractValue:  &value,
		SelectedTier:   &tier,
	})
	require.NoError(t, err)
	require.Equal(t, 55000.0, updated.ContractValue)
	require.Equal(t, "better", updated.SelectedTier)
	require.NotNil(t, updated.ContractSignedAt)
}

func TestProjectRepository_UpdatePhaseCancellation(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	seedProject(t, repo, "p1")

	reason := "client sold the house"
	updated, err := repo.UpdatePhase(ctx, "tenant1", "p1", project.PhaseUpdate{
		Phase:          phase.Cancelled,
		PhaseChangedAt: time.Now(),
		CancelReason:   &reason,
	})
	require.NoError(t, err)
	require.Equal(t, phase.Cancelled, updated.Phase)
	require.Equal(t, reason, updated.CancelReason)
}

func TestProjectRepository_UpdatePhaseWallSections(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	seedProject(t, repo, "p1")

	updated, err := repo.UpdatePhase(ctx, "tenant1", "p1", project.PhaseUpdate{
		Phase:          phase.Active,
		PhaseChangedAt: time.Now(),
		Dates:          map[phase.DateField]time.Time{phase.DateActualStart: time.Now()},
		WallSections:   []string{"North wall", "Garage header"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"North wall", "Garage header"}, updated.WallSections)
}

func TestProjectRepository_UpdatePhaseNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	_, err := repo.UpdatePhase(context.Background(), "tenant1", "ghost", project.PhaseUpdate{
		Phase:          phase.Estimating,
		PhaseChangedAt: time.Now(),
	})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_List(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	tasks := NewTaskRepository(db)
	ctx := context.Background()

	seedProject(t, repo, "p1")
	seedProject(t, repo, "p2")
	seedTasks(t, tasks, "p1")

	summaries, err := repo.List(ctx, "tenant1")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byID := map[string]project.Summary{}
	for _, s := range summaries {
		byID[s.ID] = s
	}
	require.Equal(t, 3, byID["p1"].TaskCount)
	require.Equal(t, 1, byID["p1"].DoneTasks)
	require.Equal(t, 0, byID["p2"].TaskCount)
	// No contract yet, so the high estimate stands in as the value.
	require.Equal(t, 55000.0, byID["p1"].Value)
}

func TestProjectRepository_Search(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	seedProject(t, repo, "p1")
	other := &project.Project{
		ID:         "p2",
		Name:       "Kitchen Remodel",
		ClientName: "Sam Okafor",
		Address:    "9 Quarry Rd",
		Phase:      phase.Intake,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, repo.Create(ctx, "tenant1", other))

	results, err := repo.Search(ctx, "tenant1", "miller", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "p1", results[0].ID)

	results, err = repo.Search(ctx, "tenant1", "kitchen", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "p2", results[0].ID)
}
