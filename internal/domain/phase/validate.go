package phase

// CheckResult is one triggered check in a validation outcome.
type CheckResult struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Result is the outcome of validating one transition against a project
// snapshot. Warnings never affect CanProceed; any blocker clears it.
type Result struct {
	CanProceed bool          `json:"can_proceed"`
	Warnings   []CheckResult `json:"warnings,omitempty"`
	Blockers   []CheckResult `json:"blockers,omitempty"`
	Gate       *Gate         `json:"-"`
}

// IsValid reports whether the transition appears in the adjacency list.
func IsValid(from, to Phase) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Validate evaluates every gate check for the transition against the
// snapshot. A transition without a declared gate cannot proceed.
func Validate(snap Snapshot, from, to Phase) Result {
	gate, ok := GateFor(from, to)
	if !ok {
		return Result{
			CanProceed: false,
			Blockers: []CheckResult{{
				Name:    "no_gate",
				Message: "Transition from " + Label(from) + " to " + Label(to) + " is not permitted",
			}},
		}
	}

	res := Result{Gate: &gate}
	for _, check := range gate.Warnings {
		if check.Failed(snap) {
			res.Warnings = append(res.Warnings, CheckResult{Name: check.Name, Message: check.Message})
		}
	}
	for _, check := range gate.Blockers {
		if check.Failed(snap) {
			res.Blockers = append(res.Blockers, CheckResult{Name: check.Name, Message: check.Message})
		}
	}
	res.CanProceed = len(res.Blockers) == 0
	return res
}

// Transition describes one legal move out of a phase, enriched with gate
// metadata for UI enumeration.
type Transition struct {
	To             Phase  `json:"to"`
	Label          string `json:"label"`
	Action         string `json:"action"`
	Description    string `json:"description"`
	RequiresReason bool   `json:"requires_reason,omitempty"`
	RequiresDate   bool   `json:"requires_date,omitempty"`
	Backward       bool   `json:"backward,omitempty"`
}

// Available enumerates the legal transitions out of the current phase.
func Available(current Phase) []Transition {
	targets := transitions[current]
	out := make([]Transition, 0, len(targets))
	for _, to := range targets {
		t := Transition{
			To:       to,
			Label:    Label(to),
			Backward: IsBackward(current, to),
		}
		if gate, ok := GateFor(current, to); ok {
			t.Action = gate.Action
			t.Description = gate.Description
			t.RequiresReason = gate.RequiresReason
			t.RequiresDate = gate.RequiresDate
		}
		out = append(out, t)
	}
	return out
}
