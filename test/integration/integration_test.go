package integration_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hartwell-build/siteline/internal/domain/activity"
	"github.com/hartwell-build/siteline/internal/domain/phase"
	"github.com/hartwell-build/siteline/internal/domain/project"
	"github.com/hartwell-build/siteline/internal/domain/scope"
	"github.com/hartwell-build/siteline/internal/domain/workflow"
	"github.com/hartwell-build/siteline/internal/framing"
	"github.com/hartwell-build/siteline/internal/sqlite"
)

type testEnv struct {
	db *sqlite.DB

	projectSvc  *project.Service
	scopeSvc    *scope.Service
	activitySvc *activity.Service
	workflowSvc *workflow.Service
	framingSvc  *framing.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	projectRepo := sqlite.NewProjectRepository(db)
	taskRepo := sqlite.NewTaskRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	openingRepo := sqlite.NewOpeningRepository(db)

	projectSvc := project.NewService(projectRepo, nil)
	scopeSvc := scope.NewService(taskRepo, nil)
	activitySvc := activity.NewService(activityRepo, nil)
	workflowSvc := workflow.NewService(projectRepo, scopeSvc, activitySvc, nil)
	framingSvc := framing.NewService(openingRepo, nil)

	return &testEnv{
		db:          db,
		projectSvc:  projectSvc,
		scopeSvc:    scopeSvc,
		activitySvc: activitySvc,
		workflowSvc: workflowSvc,
		framingSvc:  framingSvc,
	}
}

func estimate(t *testing.T, env *testEnv, tenantID, projectID string) {
	t.Helper()
	low, high := 42000.0, 55000.0
	_, err := env.projectSvc.Update(context.Background(), tenantID, projectID, project.UpdateRequest{
		EstimateLow:  &low,
		EstimateHigh: &high,
		LineItems: []project.LineItem{
			{Name: "Cabinets", Category: "millwork"},
			{Name: "Counters", Category: "finishes"},
		},
	})
	require.NoError(t, err)
}

func move(t *testing.T, env *testEnv, tenantID, projectID string, to phase.Phase) *project.Project {
	t.Helper()
	proj, err := env.workflowSvc.Execute(context.Background(), tenantID, workflow.TransitionRequest{
		ProjectID: projectID,
		To:        to,
	})
	require.NoError(t, err)
	return proj
}

func TestIntegration_FullLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tenantID := "tenant1"

	proj, err := env.projectSvc.Create(ctx, tenantID, project.CreateRequest{
		Name:       "Miller Kitchen",
		ClientName: "Dana Miller",
		Phone:      "555-0134",
		Address:    "18 Orchard Ln",
	})
	require.NoError(t, err)
	require.Equal(t, phase.Intake, proj.Phase)

	move(t, env, tenantID, proj.ID, phase.Estimating)
	estimate(t, env, tenantID, proj.ID)
	move(t, env, tenantID, proj.ID, phase.Quoted)

	// Signing sets the value from the estimate and generates scope.
	signed, err := env.workflowSvc.SignContract(ctx, tenantID, workflow.SignContractRequest{ProjectID: proj.ID})
	require.NoError(t, err)
	require.Equal(t, phase.Contracted, signed.Phase)
	require.Equal(t, 55000.0, signed.ContractValue)
	require.NotNil(t, signed.ContractSignedAt)

	tasks, err := env.scopeSvc.List(ctx, tenantID, proj.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	started, err := env.workflowSvc.StartProduction(ctx, tenantID, proj.ID, []string{"north wall"}, "pm")
	require.NoError(t, err)
	require.Equal(t, phase.Active, started.Phase)
	require.NotNil(t, started.ActualStart)

	// Finish the work and pay down the balance so completion clears.
	for _, task := range tasks {
		_, err := env.scopeSvc.UpdateStatus(ctx, tenantID, task.ID, scope.StatusDone, "")
		require.NoError(t, err)
	}
	paid := 54500.0
	_, err = env.projectSvc.Update(ctx, tenantID, proj.ID, project.UpdateRequest{AmountPaid: &paid})
	require.NoError(t, err)

	move(t, env, tenantID, proj.ID, phase.PunchList)
	done := move(t, env, tenantID, proj.ID, phase.Complete)
	require.Equal(t, phase.Complete, done.Phase)
	require.NotNil(t, done.ActualCompletion)

	entries, err := env.activitySvc.Recent(ctx, tenantID, activity.ListOptions{ProjectID: proj.ID})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(entries), 6)
}

func TestIntegration_StalePhaseDetection(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tenantID := "tenant1"

	proj, err := env.projectSvc.Create(ctx, tenantID, project.CreateRequest{Name: "Race Job"})
	require.NoError(t, err)
	move(t, env, tenantID, proj.ID, phase.Estimating)

	// A second caller still believes the project is in intake.
	_, err = env.workflowSvc.Execute(ctx, tenantID, workflow.TransitionRequest{
		ProjectID: proj.ID,
		From:      phase.Intake,
		To:        phase.Estimating,
	})
	require.Error(t, err)

	var blocked *workflow.BlockedError
	require.ErrorAs(t, err, &blocked)
	require.Equal(t, "stale_phase", blocked.Blockers[0].Name)
}

func TestIntegration_CompletionBlockedByBalance(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tenantID := "tenant1"

	proj, err := env.projectSvc.Create(ctx, tenantID, project.CreateRequest{
		Name:       "Balance Job",
		ClientName: "Lee Okafor",
		Phone:      "555-0188",
	})
	require.NoError(t, err)

	move(t, env, tenantID, proj.ID, phase.Estimating)
	estimate(t, env, tenantID, proj.ID)
	move(t, env, tenantID, proj.ID, phase.Quoted)
	_, err = env.workflowSvc.SignContract(ctx, tenantID, workflow.SignContractRequest{ProjectID: proj.ID})
	require.NoError(t, err)
	_, err = env.workflowSvc.StartProduction(ctx, tenantID, proj.ID, nil, "")
	require.NoError(t, err)

	tasks, err := env.scopeSvc.List(ctx, tenantID, proj.ID)
	require.NoError(t, err)
	for _, task := range tasks {
		_, err := env.scopeSvc.UpdateStatus(ctx, tenantID, task.ID, scope.StatusDone, "")
		require.NoError(t, err)
	}
	move(t, env, tenantID, proj.ID, phase.PunchList)

	// More than $1,000 outstanding blocks completion.
	_, err = env.workflowSvc.Execute(ctx, tenantID, workflow.TransitionRequest{
		ProjectID: proj.ID,
		To:        phase.Complete,
	})
	var blocked *workflow.BlockedError
	require.ErrorAs(t, err, &blocked)
	require.Equal(t, "unpaid_balance", blocked.Blockers[0].Name)

	paid := 54500.0
	_, err = env.projectSvc.Update(ctx, tenantID, proj.ID, project.UpdateRequest{AmountPaid: &paid})
	require.NoError(t, err)

	done := move(t, env, tenantID, proj.ID, phase.Complete)
	require.Equal(t, phase.Complete, done.Phase)
}

func TestIntegration_CancellationAndRevival(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tenantID := "tenant1"

	proj, err := env.projectSvc.Create(ctx, tenantID, project.CreateRequest{Name: "Doomed Job"})
	require.NoError(t, err)

	_, err = env.workflowSvc.Execute(ctx, tenantID, workflow.TransitionRequest{
		ProjectID: proj.ID,
		To:        phase.Cancelled,
	})
	require.ErrorIs(t, err, workflow.ErrReasonRequired)

	cancelled, err := env.workflowSvc.Execute(ctx, tenantID, workflow.TransitionRequest{
		ProjectID: proj.ID,
		To:        phase.Cancelled,
		Reason:    "client moved away",
	})
	require.NoError(t, err)
	require.Equal(t, phase.Cancelled, cancelled.Phase)
	require.Equal(t, "client moved away", cancelled.CancelReason)

	revived := move(t, env, tenantID, proj.ID, phase.Intake)
	require.Equal(t, phase.Intake, revived.Phase)
}

func TestIntegration_SavedOpeningsPerTenant(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	spec := framing.OpeningSpec{
		OpeningType:  framing.Window,
		RoughWidth:   36,
		RoughHeight:  48,
		SillHeight:   36,
		WallHeight:   97.125,
		HeaderSize:   "2x10",
		HeaderType:   framing.HeaderBuiltUp,
		TopPlates:    framing.PlateDouble,
		StudSpacing:  16,
		SillStyle:    framing.SillFlat,
		StudMaterial: "2x4",
	}

	saved, err := env.framingSvc.Save(ctx, "tenant1", "kitchen window", spec)
	require.NoError(t, err)
	require.NotEmpty(t, saved.Members)

	mine, err := env.framingSvc.List(ctx, "tenant1")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	theirs, err := env.framingSvc.List(ctx, "tenant2")
	require.NoError(t, err)
	require.Empty(t, theirs)

	require.NoError(t, env.framingSvc.Remove(ctx, "tenant1", saved.ID))
	mine, err = env.framingSvc.List(ctx, "tenant1")
	require.NoError(t, err)
	require.Empty(t, mine)
}
