package workflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hartwell-build/siteline/internal/domain/activity"
	"github.com/hartwell-build/siteline/internal/domain/phase"
	"github.com/hartwell-build/siteline/internal/domain/project"
	"github.com/hartwell-build/siteline/internal/domain/scope"
	"github.com/hartwell-build/siteline/internal/repository"
)

type mockProjectStore struct {
	mock.Mock
}

func (m *mockProjectStore) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *mockProjectStore) UpdatePhase(ctx context.Context, tenantID, id string, upd project.PhaseUpdate) (*project.Project, error) {
	args := m.Called(ctx, tenantID, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

type mockScopeService struct {
	mock.Mock
}

func (m *mockScopeService) GenerateFromEstimate(ctx context.Context, tenantID string, proj *project.Project) ([]scope.Task, error) {
	args := m.Called(ctx, tenantID, proj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scope.Task), args.Error(1)
}

func (m *mockScopeService) EnsureScaffolding(ctx context.Context, tenantID, projectID string) ([]scope.Task, error) {
	args := m.Called(ctx, tenantID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scope.Task), args.Error(1)
}

func (m *mockScopeService) Stats(ctx context.Context, tenantID, projectID string) (scope.Stats, error) {
	args := m.Called(ctx, tenantID, projectID)
	return args.Get(0).(scope.Stats), args.Error(1)
}

type mockActivityLogger struct {
	mock.Mock
}

func (m *mockActivityLogger) Append(ctx context.Context, tenantID string, entry *activity.Entry) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testDeps struct {
	projects *mockProjectStore
	scope    *mockScopeService
	activity *mockActivityLogger
	svc      *Service
}

func newTestService(t *testing.T) testDeps {
	t.Helper()
	projects := &mockProjectStore{}
	scopeSvc := &mockScopeService{}
	activitySvc := &mockActivityLogger{}
	return testDeps{
		projects: projects,
		scope:    scopeSvc,
		activity: activitySvc,
		svc:      NewService(projects, scopeSvc, activitySvc, testLogger()),
	}
}

func testProject(ph phase.Phase) *project.Project {
	return &project.Project{
		ID:           "proj-1",
		TenantID:     "tenant-1",
		Name:         "Miller Addition",
		ClientName:   "Dana Miller",
		Phone:        "555-0101",
		Address:      "14 Birch Ln",
		Phase:        ph,
		EstimateLow:  42000,
		EstimateHigh: 55000,
		LineItems: []project.LineItem{
			{Name: "Demo and haul-off", Good: 3000, Better: 3500, Best: 4200},
			{Name: "Framing", Good: 12000, Better: 14000, Best: 16500},
		},
		CreatedAt: time.Now(),
	}
}

func TestExecuteStandardTransition(t *testing.T) {
	d := newTestService(t)
	proj := testProject(phase.Intake)
	moved := testProject(phase.Estimating)

	d.projects.On("Get", mock.Anything, "tenant-1", "proj-1").Return(proj, nil)
	d.scope.On("Stats", mock.Anything, "tenant-1", "proj-1").Return(scope.Stats{}, nil)
	d.projects.On("UpdatePhase", mock.Anything, "tenant-1", "proj-1", mock.MatchedBy(func(upd project.PhaseUpdate) bool {
		return upd.Phase == phase.Estimating && upd.Dates == nil && upd.CancelReason == nil
	})).Return(moved, nil)
	d.activity.On("Append", mock.Anything, "tenant-1", mock.MatchedBy(func(e *activity.Entry) bool {
		return e.EventType == activity.TypePhaseChange && e.ProjectID == "proj-1"
	})).Return(nil)

	got, err := d.svc.Execute(context.Background(), "tenant-1", TransitionRequest{
		ProjectID: "proj-1",
		To:        phase.Estimating,
		Actor:     "pm@hartwell",
	})
	require.NoError(t, err)
	require.Equal(t, phase.Estimating, got.Phase)
	d.activity.AssertExpectations(t)
}

func TestExecuteStampsGateDate(t *testing.T) {
	d := newTestService(t)
	proj := testProject(phase.Estimating)
	moved := testProject(phase.Quoted)
	sent := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	d.projects.On("Get", mock.Anything, "tenant-1", "proj-1").Return(proj, nil)
	d.scope.On("Stats", mock.Anything, "tenant-1", "proj-1").Return(scope.Stats{}, nil)
	d.projects.On("UpdatePhase", mock.Anything, "tenant-1", "proj-1", mock.MatchedBy(func(upd project.PhaseUpdate) bool {
		when, ok := upd.Dates[phase.DateQuoteSent]
		return upd.Phase == phase.Quoted && ok && when.Equal(sent)
	})).Return(moved, nil)
	d.activity.On("Append", mock.Anything, "tenant-1", mock.Anything).Return(nil)

	_, err := d.svc.Execute(context.Background(), "tenant-1", TransitionRequest{
		ProjectID: "proj-1",
		To:        phase.Quoted,
		Date:      &sent,
	})
	require.NoError(t, err)
	d.projects.AssertExpectations(t)
}

func TestExecuteBlockedWithoutEstimate(t *testing.T) {
	d := newTestService(t)
	proj := testProject(phase.Estimating)
	proj.EstimateLow = 0
	proj.EstimateHigh = 0

	d.projects.On("Get", mock.Anything, "tenant-1", "proj-1").Return(proj, nil)
	d.scope.On("Stats", mock.Anything, "tenant-1", "proj-1").Return(scope.Stats{}, nil)

	_, err := d.svc.Execute(context.Background(), "tenant-1", TransitionRequest{
		ProjectID: "proj-1",
		To:        phase.Quoted,
	})
	var blocked *BlockedError
	require.ErrorAs(t, err, &blocked)
	require.Len(t, blocked.Blockers, 1)
	require.Equal(t, "no_estimate", blocked.Blockers[0].Name)
	d.projects.AssertNotCalled(t, "UpdatePhase", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteRejectsIllegalTransition(t *testing.T) {
	d := newTestService(t)
	d.projects.On("Get", mock.Anything, "tenant-1", "proj-1").Return(testProject(phase.Intake), nil)

	_, err := d.svc.Execute(context.Background(), "tenant-1", TransitionRequest{
		ProjectID: "proj-1",
		To:        phase.Active,
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExecuteRejectsStaleFrom(t *testing.T) {
	d := newTestService(t)
	d.projects.On("Get", mock.Anything, "tenant-1", "proj-1").Return(testProject(phase.Active), nil)

	_, err := d.svc.Execute(context.Background(), "tenant-1", TransitionRequest{
		ProjectID: "proj-1",
		From:      phase.Quoted,
		To:        phase.Contracted,
	})
	var blocked *BlockedError
	require.ErrorAs(t, err, &blocked)
	require.Equal(t, "stale_phase", blocked.Blockers[0].Name)
}

func TestExecuteCancellationRequiresReason(t *testing.T) {
	d := newTestService(t)
	d.projects.On("Get", mock.Anything, "tenant-1", "proj-1").Return(testProject(phase.Estimating), nil)
	d.scope.On("Stats", mock.Anything, "tenant-1", "proj-1").Return(scope.Stats{}, nil)

	_, err := d.svc.Execute(context.Background(), "tenant-1", TransitionRequest{
		ProjectID: "proj-1",
		To:        phase.Cancelled,
		Reason:    "   ",
	})
	require.ErrorIs(t, err, ErrReasonRequired)
}

func TestExecuteCancellationStoresReason(t *testing.T) {
	d := newTestService(t)
	proj := testProject(phase.Estimating)
	cancelled := testProject(phase.Cancelled)

	d.projects.On("Get", mock.Anything, "tenant-1", "proj-1").Return(proj, nil)
	d.scope.On("Stats", mock.Anything, "tenant-1", "proj-1").Return(scope.Stats{}, nil)
	d.projects.On("UpdatePhase", mock.Anything, "tenant-1", "proj-1", mock.MatchedBy(func(upd project.PhaseUpdate) bool {
		return upd.Phase == phase.Cancelled && upd.CancelReason != nil && *upd.CancelReason == "client sold the house"
	})).Return(cancelled, nil)
	d.activity.On("Append", mock.Anything, "tenant-1", mock.Anything).Return(nil)

	_, err := d.svc.Execute(context.Background(), "tenant-1", TransitionRequest{
		ProjectID: "proj-1",
		To:        phase.Cancelled,
		Reason:    "client sold the house",
	})
	require.NoError(t, err)
	d.projects.AssertExpectations(t)
}

func TestExecuteDispatchesContractSigning(t *testing.T) {
	d := newTestService(t)
	proj := testProject(phase.Quoted)
	signed := testProject(phase.Contracted)
	signed.ContractValue = 55000
	signed.SelectedTier = DefaultTier

	d.projects.On("Get", mock.Anything, "tenant-1", "proj-1").Return(proj, nil).Once()
	d.scope.On("Stats", mock.Anything, "tenant-1", "proj-1").Return(scope.Stats{}, nil)
	// SignContract re-reads the project before writing.
	d.projects.On("Get", mock.Anything, "tenant-1", "proj-1").Return(proj, nil)
	d.projects.On("UpdatePhase", mock.Anything, "tenant-1", "proj-1", mock.MatchedBy(func(upd project.PhaseUpdate) bool {
		_, stamped := upd.Dates[phase.DateContractSigned]
		return upd.Phase == phase.Contracted && stamped &&
			upd.ContractValue != nil && *upd.ContractValue == 55000 &&
			upd.SelectedTier != nil && *upd.SelectedTier == DefaultTier
	})).Return(signed, nil)
	d.scope.On("GenerateFromEstimate", mock.Anything, "tenant-1", mock.Anything).
		Return([]scope.Task{{Title: "Demo and haul-off"}, {Title: "Framing"}}, nil)
	d.activity.On("Append", mock.Anything, "tenant-1", mock.MatchedBy(func(e *activity.Entry) bool {
		return e.EventType == activity.TypeContractSigned
	})).Return(nil)

	got, err := d.svc.Execute(context.Background(), "tenant-1", TransitionRequest{
		ProjectID: "proj-1",
		To:        phase.Contracted,
	})
	require.NoError(t, err)
	require.Equal(t, phase.Contracted, got.Phase)
	d.scope.AssertExpectations(t)
	d.activity.AssertExpectations(t)
}

func TestSignContractExplicitTierAndValue(t *testing.T) {
	d := newTestService(t)
	proj := testProject(phase.Quoted)
	signed := testProject(phase.Contracted)

	d.projects.On("Get", mock.Anything, "tenant-1", "proj-1").Return(proj, nil)
	d.projects.On("UpdatePhase", mock.Anything, "tenant-1", "proj-1", mock.MatchedBy(func(upd project.PhaseUpdate) bool {
		return upd.ContractValue != nil && *upd.ContractValue == 61250 &&
			upd.SelectedTier != nil && *upd.SelectedTier == "best"
	})).Return(signed, nil)
	d.scope.On("GenerateFromEstimate", mock.Anything, "tenant-1", mock.Anything).Return([]scope.Task{}, nil)
	d.activity.On("Append", mock.Anything, "tenant-1", mock.Anything).Return(nil)

	_, err := d.svc.SignContract(context.Background(), "tenant-1", SignContractRequest{
		ProjectID:     "proj-1",
		ContractValue: 61250,
		SelectedTier:  "best",
	})
	require.NoError(t, err)
	d.projects.AssertExpectations(t)
}

func TestSignContractRequiresQuotedPhase(t *testing.T) {
	d := newTestService(t)
	d.projects.On("Get", mock.Anything, "tenant-1", "proj-1").Return(testProject(phase.Cancelled), nil)

	_, err := d.svc.SignContract(context.Background(), "tenant-1", SignContractRequest{
		ProjectID:     "proj-1",
		ContractValue: 61250,
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
	d.projects.AssertNotCalled(t, "UpdatePhase", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSignContractBlockedWithoutEstimate(t *testing.T) {
	d := newTestService(t)
	proj := testProject(phase.Quoted)
	proj.EstimateLow = 0
	proj.EstimateHigh = 0
	proj.LineItems = nil
	d.projects.On("Get", mock.Anything, "tenant-1", "proj-1").Return(proj, nil)

	_, err := d.svc.SignContract(context.Background(), "tenant-1", SignContractRequest{ProjectID: "proj-1"})

	var blocked *BlockedError
	require.ErrorAs(t, err, &blocked)
	require.Equal(t, "no_estimate", blocked.Blockers[0].Name)
	d.projects.AssertNotCalled(t, "UpdatePhase", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteDispatchesProductionStart(t *testing.T) {
	d := newTestService(t)
	proj := testProject(phase.Contracted)
	active := testProject(phase.Active)
	walls := []string{"North wall", "Garage header"}

	d.projects.On("Get", mock.Anything, "tenant-1", "proj-1").Return(proj, nil)
	d.scope.On("Stats", mock.Anything, "tenant-1", "proj-1").Return(scope.Stats{}, nil)
	d.projects.On("UpdatePhase", mock.Anything, "tenant-1", "proj-1", mock.MatchedBy(func(upd project.PhaseUpdate) bool {
		_, stamped := upd.Dates[phase.DateActualStart]
		return upd.Phase == phase.Active && stamped && len(upd.WallSections) == 2
	})).Return(active, nil)
	d.scope.On("EnsureScaffolding", mock.Anything, "tenant-1", "proj-1").Return([]scope.Task{}, nil)
	d.activity.On("Append", mock.Anything, "tenant-1", mock.MatchedBy(func(e *activity.Entry) bool {
		return e.EventType == activity.TypeProductionStarted
	})).Return(nil)

	got, err := d.svc.Execute(context.Background(), "tenant-1", TransitionRequest{
		ProjectID:    "proj-1",
		To:           phase.Active,
		WallSections: walls,
	})
	require.NoError(t, err)
	require.Equal(t, phase.Active, got.Phase)
	d.scope.AssertExpectations(t)
}

func TestStartProductionRequiresContractedPhase(t *testing.T) {
	d := newTestService(t)
	d.projects.On("Get", mock.Anything, "tenant-1", "proj-1").Return(testProject(phase.Quoted), nil)

	_, err := d.svc.StartProduction(context.Background(), "tenant-1", "proj-1", nil, "")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExecutePersistenceFailureSkipsActivity(t *testing.T) {
	d := newTestService(t)
	d.projects.On("Get", mock.Anything, "tenant-1", "proj-1").Return(testProject(phase.Intake), nil)
	d.scope.On("Stats", mock.Anything, "tenant-1", "proj-1").Return(scope.Stats{}, nil)
	d.projects.On("UpdatePhase", mock.Anything, "tenant-1", "proj-1", mock.Anything).
		Return(nil, &repository.StoreError{Message: "disk full"})

	_, err := d.svc.Execute(context.Background(), "tenant-1", TransitionRequest{
		ProjectID: "proj-1",
		To:        phase.Estimating,
	})
	require.Error(t, err)
	require.Equal(t, "disk full", ErrorMessage(err))
	d.activity.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteActivityFailureDoesNotFailTransition(t *testing.T) {
	d := newTestService(t)
	proj := testProject(phase.Intake)
	moved := testProject(phase.Estimating)

	d.projects.On("Get", mock.Anything, "tenant-1", "proj-1").Return(proj, nil)
	d.scope.On("Stats", mock.Anything, "tenant-1", "proj-1").Return(scope.Stats{}, nil)
	d.projects.On("UpdatePhase", mock.Anything, "tenant-1", "proj-1", mock.Anything).Return(moved, nil)
	d.activity.On("Append", mock.Anything, "tenant-1", mock.Anything).Return(errors.New("log table locked"))

	got, err := d.svc.Execute(context.Background(), "tenant-1", TransitionRequest{
		ProjectID: "proj-1",
		To:        phase.Estimating,
	})
	require.NoError(t, err)
	require.Equal(t, phase.Estimating, got.Phase)
}

func TestValidateOverlaysScopeStats(t *testing.T) {
	d := newTestService(t)
	proj := testProject(phase.Active)
	proj.ContractValue = 55000

	d.projects.On("Get", mock.Anything, "tenant-1", "proj-1").Return(proj, nil)
	d.scope.On("Stats", mock.Anything, "tenant-1", "proj-1").
		Return(scope.Stats{Total: 10, Done: 4, Blocked: 2, Progress: 40}, nil)

	res, err := d.svc.Validate(context.Background(), "tenant-1", "proj-1", phase.PunchList)
	require.NoError(t, err)
	require.True(t, res.CanProceed)

	names := make([]string, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		names = append(names, w.Name)
	}
	require.Contains(t, names, "open_blockers")
	require.Contains(t, names, "low_progress")
}

func TestAvailableReflectsCurrentPhase(t *testing.T) {
	d := newTestService(t)
	d.projects.On("Get", mock.Anything, "tenant-1", "proj-1").Return(testProject(phase.Quoted), nil)

	transitions, err := d.svc.Available(context.Background(), "tenant-1", "proj-1")
	require.NoError(t, err)

	targets := make([]phase.Phase, 0, len(transitions))
	for _, tr := range transitions {
		targets = append(targets, tr.To)
	}
	require.Contains(t, targets, phase.Contracted)
	require.Contains(t, targets, phase.Estimating)
	require.Contains(t, targets, phase.Cancelled)
	require.NotContains(t, targets, phase.Active)
}
