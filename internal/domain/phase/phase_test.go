package phase_test

import (
	"testing"

	"github.com/hartwell-build/siteline/internal/domain/phase"
	"github.com/stretchr/testify/require"
)

func healthySnapshot() phase.Snapshot {
	return phase.Snapshot{
		ClientName:   "Dana Whitfield",
		Phone:        "555-0142",
		Email:        "dana@example.com",
		Address:      "18 Alder Ln",
		EstimateLow:  42000,
		EstimateHigh: 55000,
		Progress:     100,
	}
}

func TestNormalize_Aliases(t *testing.T) {
	cases := map[string]phase.Phase{
		"intake":     phase.Intake,
		"estimate":   phase.Estimating,
		"estimating": phase.Estimating,
		"quote":      phase.Quoted,
		"quoted":     phase.Quoted,
		"contract":   phase.Contracted,
		"contracted": phase.Contracted,
		"punch_list": phase.PunchList,
		"cancelled":  phase.Cancelled,
	}
	for raw, want := range cases {
		got, ok := phase.Normalize(raw)
		require.True(t, ok, "raw %q", raw)
		require.Equal(t, want, got, "raw %q", raw)
	}

	_, ok := phase.Normalize("bogus")
	require.False(t, ok)
	_, ok = phase.Normalize("")
	require.False(t, ok)
}

func TestIsValid_Adjacency(t *testing.T) {
	require.True(t, phase.IsValid(phase.Intake, phase.Estimating))
	require.True(t, phase.IsValid(phase.Estimating, phase.Intake))
	require.True(t, phase.IsValid(phase.PunchList, phase.Complete))
	require.True(t, phase.IsValid(phase.Complete, phase.PunchList))
	require.True(t, phase.IsValid(phase.Cancelled, phase.Intake))
	require.True(t, phase.IsValid(phase.Active, phase.Cancelled))

	require.False(t, phase.IsValid(phase.Intake, phase.Active))
	require.False(t, phase.IsValid(phase.Intake, phase.Complete))
	require.False(t, phase.IsValid(phase.Complete, phase.Cancelled))
	require.False(t, phase.IsValid(phase.Complete, phase.Intake))
	require.False(t, phase.IsValid(phase.Cancelled, phase.Active))
}

func TestIsValid_MatchesAvailable(t *testing.T) {
	for _, from := range phase.All() {
		available := phase.Available(from)
		targets := map[phase.Phase]bool{}
		for _, tr := range available {
			targets[tr.To] = true
		}
		for _, to := range phase.All() {
			require.Equal(t, targets[to], phase.IsValid(from, to),
				"%s -> %s", from, to)
		}
	}
}

func TestValidate_NoEstimateBlocksQuote(t *testing.T) {
	snap := healthySnapshot()
	snap.EstimateLow = 0
	snap.EstimateHigh = 0
	snap.SelectionsPending = 3

	res := phase.Validate(snap, phase.Estimating, phase.Quoted)
	require.False(t, res.CanProceed)
	require.NotEmpty(t, res.Blockers)
	// Warnings still surface but never decide the outcome.
	require.NotEmpty(t, res.Warnings)
}

func TestValidate_WarningsDoNotBlock(t *testing.T) {
	snap := healthySnapshot()
	snap.ClientName = ""
	snap.Address = ""

	res := phase.Validate(snap, phase.Intake, phase.Estimating)
	require.True(t, res.CanProceed)
	require.Len(t, res.Warnings, 2)
	require.Empty(t, res.Blockers)
}

func TestValidate_UndeclaredTransitionBlocked(t *testing.T) {
	res := phase.Validate(healthySnapshot(), phase.Intake, phase.Complete)
	require.False(t, res.CanProceed)
	require.NotEmpty(t, res.Blockers)
	require.Nil(t, res.Gate)
}

func TestValidate_BackwardTransitionsNeverHardBlock(t *testing.T) {
	// Worst-case snapshot: nothing filled in, everything unpaid.
	snap := phase.Snapshot{BalanceDue: 50000, OpenBlockers: 9}

	for _, from := range phase.All() {
		for _, tr := range phase.Available(from) {
			if !phase.IsBackward(from, tr.To) || tr.To == phase.Cancelled {
				continue
			}
			res := phase.Validate(snap, from, tr.To)
			require.Empty(t, res.Blockers, "%s -> %s", from, tr.To)
			require.True(t, res.CanProceed, "%s -> %s", from, tr.To)
			require.NotEmpty(t, res.Warnings, "%s -> %s should acknowledge the undo", from, tr.To)
		}
	}
}

func TestValidate_CancellationAlwaysPermitted(t *testing.T) {
	snap := phase.Snapshot{}
	for _, from := range []phase.Phase{
		phase.Intake, phase.Estimating, phase.Quoted,
		phase.Contracted, phase.Active, phase.PunchList,
	} {
		res := phase.Validate(snap, from, phase.Cancelled)
		require.True(t, res.CanProceed, "from %s", from)
		require.NotNil(t, res.Gate)
		require.True(t, res.Gate.RequiresReason, "from %s", from)
	}

	// Only contracted and active cancellations warn.
	require.NotEmpty(t, phase.Validate(snap, phase.Contracted, phase.Cancelled).Warnings)
	require.NotEmpty(t, phase.Validate(snap, phase.Active, phase.Cancelled).Warnings)
	require.Empty(t, phase.Validate(snap, phase.Quoted, phase.Cancelled).Warnings)
}

func TestValidate_RevivalUnconditional(t *testing.T) {
	res := phase.Validate(phase.Snapshot{}, phase.Cancelled, phase.Intake)
	require.True(t, res.CanProceed)
	require.Empty(t, res.Warnings)
	require.Empty(t, res.Blockers)
}

func TestValidate_UnpaidBalanceBlocksCompletion(t *testing.T) {
	snap := healthySnapshot()
	snap.BalanceDue = 1500
	res := phase.Validate(snap, phase.PunchList, phase.Complete)
	require.False(t, res.CanProceed)

	snap.BalanceDue = 1000
	res = phase.Validate(snap, phase.PunchList, phase.Complete)
	require.True(t, res.CanProceed)
}

func TestValidate_PunchListSoftChecks(t *testing.T) {
	snap := healthySnapshot()
	snap.Progress = 60
	snap.OpenBlockers = 2

	res := phase.Validate(snap, phase.Active, phase.PunchList)
	require.True(t, res.CanProceed)
	require.Len(t, res.Warnings, 2)
}

func TestGateEffects(t *testing.T) {
	gate, ok := phase.GateFor(phase.Quoted, phase.Contracted)
	require.True(t, ok)
	require.Equal(t, phase.EffectSignsContract, gate.Effect)
	require.Equal(t, phase.DateContractSigned, gate.SetsDate)

	gate, ok = phase.GateFor(phase.Contracted, phase.Active)
	require.True(t, ok)
	require.Equal(t, phase.EffectStartsProduction, gate.Effect)
	require.True(t, gate.PromptsForWallSections)

	gate, ok = phase.GateFor(phase.Estimating, phase.Quoted)
	require.True(t, ok)
	require.Equal(t, phase.EffectStandard, gate.Effect)
	require.True(t, gate.RequiresDate)
	require.Equal(t, phase.DateQuoteSent, gate.SetsDate)
}

func TestAvailable_EnrichesMetadata(t *testing.T) {
	available := phase.Available(phase.Quoted)
	require.Len(t, available, 3)

	byTarget := map[phase.Phase]phase.Transition{}
	for _, tr := range available {
		byTarget[tr.To] = tr
	}
	require.Equal(t, "Sign Contract", byTarget[phase.Contracted].Action)
	require.True(t, byTarget[phase.Cancelled].RequiresReason)
	require.True(t, byTarget[phase.Estimating].Backward)
}
