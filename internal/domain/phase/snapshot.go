package phase

// Snapshot is the read-only project view gate checks evaluate against. The
// project package builds one from its aggregate; keeping the view here lets
// check predicates stay pure functions with no dependency on persistence
// types.
type Snapshot struct {
	ClientName string
	Phone      string
	Email      string
	Address    string

	EstimateLow   float64
	EstimateHigh  float64
	ContractValue float64

	// SelectionsPending counts intake selections the client hasn't decided.
	SelectionsPending int

	// Progress is the task completion percentage, 0-100.
	Progress float64

	// OpenBlockers counts unresolved blocked tasks.
	OpenBlockers int

	// BalanceDue is the unpaid balance in dollars.
	BalanceDue float64
}

// HasContact reports whether any way of reaching the client is on file.
func (s Snapshot) HasContact() bool {
	return s.ClientName != "" && (s.Phone != "" || s.Email != "")
}

// HasEstimate reports whether any estimate value has been entered.
func (s Snapshot) HasEstimate() bool {
	return s.EstimateLow > 0 || s.EstimateHigh > 0
}

// EstimateValue returns the best available estimate figure: the contract
// value when signed, otherwise whichever of high/low exists.
func (s Snapshot) EstimateValue() float64 {
	if s.ContractValue > 0 {
		return s.ContractValue
	}
	if s.EstimateHigh > 0 {
		return s.EstimateHigh
	}
	return s.EstimateLow
}
