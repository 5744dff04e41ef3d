package project

import (
	"time"

	"github.com/hartwell-build/siteline/internal/domain/phase"
)

// Project is a renovation/construction job tracked from intake to
// completion. A project is always in exactly one phase.
type Project struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`

	ClientName string `json:"client_name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address,omitempty"`

	Phase phase.Phase `json:"phase"`

	EstimateLow   float64    `json:"estimate_low,omitempty"`
	EstimateHigh  float64    `json:"estimate_high,omitempty"`
	ContractValue float64    `json:"contract_value,omitempty"`
	SelectedTier  string     `json:"selected_tier,omitempty"`
	LineItems     []LineItem `json:"line_items,omitempty"`

	// SelectionsPending counts intake selections still undecided.
	SelectionsPending int `json:"selections_pending,omitempty"`

	AmountPaid   float64  `json:"amount_paid,omitempty"`
	CancelReason string   `json:"cancel_reason,omitempty"`
	WallSections []string `json:"wall_sections,omitempty"`

	QuoteSentAt      *time.Time `json:"quote_sent_at,omitempty"`
	ContractSignedAt *time.Time `json:"contract_signed_at,omitempty"`
	ActualStart      *time.Time `json:"actual_start,omitempty"`
	ActualCompletion *time.Time `json:"actual_completion,omitempty"`
	PhaseChangedAt   *time.Time `json:"phase_changed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LineItem is one estimate line with good/better/best tier pricing.
type LineItem struct {
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Good     float64 `json:"good,omitempty"`
	Better   float64 `json:"better,omitempty"`
	Best     float64 `json:"best,omitempty"`
}

// PriceFor returns the line price for a tier, falling back to the better
// tier for unknown values.
func (li LineItem) PriceFor(tier string) float64 {
	switch tier {
	case "good":
		return li.Good
	case "best":
		return li.Best
	default:
		return li.Better
	}
}

// BalanceDue is the unpaid remainder of the contract value.
func (p *Project) BalanceDue() float64 {
	due := p.ContractValue - p.AmountPaid
	if due < 0 {
		return 0
	}
	return due
}

// Snapshot projects the fields gate checks read. Task-derived figures
// (progress, open blockers) are zero here; callers with scope stats overlay
// them before validating.
func (p *Project) Snapshot() phase.Snapshot {
	return phase.Snapshot{
		ClientName:        p.ClientName,
		Phone:             p.Phone,
		Email:             p.Email,
		Address:           p.Address,
		EstimateLow:       p.EstimateLow,
		EstimateHigh:      p.EstimateHigh,
		ContractValue:     p.ContractValue,
		SelectionsPending: p.SelectionsPending,
		BalanceDue:        p.BalanceDue(),
	}
}

// Summary is a lightweight representation for project lists.
type Summary struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	ClientName string      `json:"client_name,omitempty"`
	Phase      phase.Phase `json:"phase"`
	Value      float64     `json:"value,omitempty"`
	TaskCount  int         `json:"task_count"`
	DoneTasks  int         `json:"done_tasks"`
	CreatedAt  time.Time   `json:"created_at"`
}
