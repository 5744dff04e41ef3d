package phase

// CompletionBalanceThreshold is the unpaid balance (dollars) above which a
// project cannot be marked complete.
const CompletionBalanceThreshold = 1000.0

// DateField names a project date column a gate stamps on success.
type DateField string

const (
	DateQuoteSent        DateField = "quote_sent_at"
	DateContractSigned   DateField = "contract_signed_at"
	DateActualStart      DateField = "actual_start"
	DateActualCompletion DateField = "actual_completion"
)

// Effect is the side-effect variant a transition triggers. It is resolved
// once from the gate and dispatched by the workflow package.
type Effect int

const (
	// EffectStandard persists the phase change and logs one activity entry.
	EffectStandard Effect = iota
	// EffectSignsContract runs the contract-signing path, deriving scope
	// items from the stored estimate.
	EffectSignsContract
	// EffectStartsProduction runs the production-start path, scaffolding
	// tasks when none exist yet.
	EffectStartsProduction
)

// Key identifies one directed transition in the gate table.
type Key struct {
	From Phase
	To   Phase
}

// Check is a named predicate evaluated against a project snapshot. Failed
// returning true appends Message to the validation result.
type Check struct {
	Name    string
	Message string
	Failed  func(Snapshot) bool
}

// Gate holds the guard conditions and side-effect flags for one transition.
// Gates are static; they are looked up, never mutated.
type Gate struct {
	Action      string
	Description string

	// Warnings are soft checks: surfaced but never blocking.
	Warnings []Check
	// Blockers are hard checks: any failure prevents the transition.
	Blockers []Check

	Effect                 Effect
	SetsDate               DateField
	RequiresDate           bool
	RequiresReason         bool
	PromptsForWallSections bool
}

// transitions is the legal adjacency list. Forward moves, single-step
// backward moves, cancellation from any non-terminal phase, reopening a
// completed project, and reviving a cancelled one.
var transitions = map[Phase][]Phase{
	Intake:     {Estimating, Cancelled},
	Estimating: {Quoted, Intake, Cancelled},
	Quoted:     {Contracted, Estimating, Cancelled},
	Contracted: {Active, Quoted, Cancelled},
	Active:     {PunchList, Contracted, Cancelled},
	PunchList:  {Complete, Active, Cancelled},
	Complete:   {PunchList},
	Cancelled:  {Intake},
}

var gates = map[Key]Gate{
	{Intake, Estimating}: {
		Action:      "Start Estimating",
		Description: "Begin working up an estimate for this project",
		Warnings: []Check{
			{
				Name:    "missing_contact",
				Message: "No client contact info on file",
				Failed:  func(s Snapshot) bool { return !s.HasContact() },
			},
			{
				Name:    "missing_address",
				Message: "No project address on file",
				Failed:  func(s Snapshot) bool { return s.Address == "" },
			},
		},
	},
	{Estimating, Quoted}: {
		Action:      "Send Quote",
		Description: "Mark the quote as sent to the client",
		Blockers: []Check{
			{
				Name:    "no_estimate",
				Message: "An estimate value is required before quoting",
				Failed:  func(s Snapshot) bool { return !s.HasEstimate() },
			},
		},
		Warnings: []Check{
			{
				Name:    "undecided_selections",
				Message: "Some selections are still undecided",
				Failed:  func(s Snapshot) bool { return s.SelectionsPending > 0 },
			},
		},
		SetsDate:     DateQuoteSent,
		RequiresDate: true,
	},
	{Quoted, Contracted}: {
		Action:      "Sign Contract",
		Description: "Record the signed contract and generate project scope",
		Blockers: []Check{
			{
				Name:    "no_estimate",
				Message: "An estimate value is required to sign a contract",
				Failed:  func(s Snapshot) bool { return !s.HasEstimate() },
			},
		},
		Effect:   EffectSignsContract,
		SetsDate: DateContractSigned,
	},
	{Contracted, Active}: {
		Action:      "Start Production",
		Description: "Kick off on-site work",
		Blockers: []Check{
			{
				Name:    "no_contract_value",
				Message: "A contract or estimate value is required to start production",
				Failed:  func(s Snapshot) bool { return s.EstimateValue() <= 0 },
			},
		},
		Effect:                 EffectStartsProduction,
		SetsDate:               DateActualStart,
		PromptsForWallSections: true,
	},
	{Active, PunchList}: {
		Action:      "Move to Punch List",
		Description: "Main scope complete; track remaining punch items",
		Warnings: []Check{
			{
				Name:    "open_blockers",
				Message: "There are unresolved blockers on this project",
				Failed:  func(s Snapshot) bool { return s.OpenBlockers > 0 },
			},
			{
				Name:    "low_progress",
				Message: "Less than 90% of tasks are complete",
				Failed:  func(s Snapshot) bool { return s.Progress < 90 },
			},
		},
	},
	{PunchList, Complete}: {
		Action:      "Complete Project",
		Description: "Close out the project",
		Blockers: []Check{
			{
				Name:    "unpaid_balance",
				Message: "Unpaid balance exceeds $1,000",
				Failed:  func(s Snapshot) bool { return s.BalanceDue > CompletionBalanceThreshold },
			},
		},
		SetsDate: DateActualCompletion,
	},

	// Backward transitions are always permitted with acknowledgment; they
	// soft-warn and never hard-block.
	{Estimating, Intake}: backwardGate("Back to Intake",
		"Move the project back to intake"),
	{Quoted, Estimating}: backwardGate("Back to Estimating",
		"Withdraw the quote and rework the estimate"),
	{Contracted, Quoted}: backwardGate("Back to Quoted",
		"Unwind the contract back to a quote"),
	{Active, Contracted}: backwardGate("Back to Contracted",
		"Pause production and return to pre-start"),
	{PunchList, Active}: backwardGate("Back to Production",
		"Reopen the main scope of work"),
	{Complete, PunchList}: backwardGate("Reopen Project",
		"Reopen a completed project for punch work"),

	// Cancellation: always permitted, always needs a reason. Contracted and
	// active cancellations carry contextual warnings.
	{Intake, Cancelled}:     cancelGate(nil),
	{Estimating, Cancelled}: cancelGate(nil),
	{Quoted, Cancelled}:     cancelGate(nil),
	{Contracted, Cancelled}: cancelGate([]Check{
		{
			Name:    "signed_contract",
			Message: "A signed contract is in place; cancellation may have contractual consequences",
			Failed:  func(Snapshot) bool { return true },
		},
	}),
	{Active, Cancelled}: cancelGate([]Check{
		{
			Name:    "work_in_progress",
			Message: "Production work is underway; confirm site and billing status before cancelling",
			Failed:  func(Snapshot) bool { return true },
		},
	}),

	// Revival is unconditional.
	{Cancelled, Intake}: {
		Action:      "Revive Project",
		Description: "Bring a cancelled project back to intake",
	},
}

func backwardGate(action, description string) Gate {
	return Gate{
		Action:      action,
		Description: description,
		Warnings: []Check{
			{
				Name:    "backward_move",
				Message: "This moves the project to an earlier phase",
				Failed:  func(Snapshot) bool { return true },
			},
		},
	}
}

func cancelGate(extraWarnings []Check) Gate {
	return Gate{
		Action:         "Cancel Project",
		Description:    "Cancel this project",
		Warnings:       extraWarnings,
		RequiresReason: true,
	}
}

// GateFor returns the gate for a transition, if one is declared.
func GateFor(from, to Phase) (Gate, bool) {
	g, ok := gates[Key{From: from, To: to}]
	return g, ok
}
