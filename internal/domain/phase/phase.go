// Package phase declares the project lifecycle: the phase enumeration, the
// legal transition graph, and the per-transition gates with their soft
// (warning) and hard (blocking) checks. Everything here is static data plus
// pure functions; nothing in this package touches persistence.
package phase

// Phase is a project lifecycle state. The string values are part of the
// external contract and must not change spelling.
type Phase string

const (
	Intake     Phase = "intake"
	Estimating Phase = "estimating"
	Quoted     Phase = "quoted"
	Contracted Phase = "contracted"
	Active     Phase = "active"
	PunchList  Phase = "punch_list"
	Complete   Phase = "complete"
	Cancelled  Phase = "cancelled"
)

// aliases maps historical phase spellings to their current values.
var aliases = map[string]Phase{
	"estimate": Estimating,
	"quote":    Quoted,
	"contract": Contracted,
}

// order positions the main-line phases for backward-transition detection.
// Cancelled sits outside the ordering.
var order = map[Phase]int{
	Intake:     0,
	Estimating: 1,
	Quoted:     2,
	Contracted: 3,
	Active:     4,
	PunchList:  5,
	Complete:   6,
}

// labels are the human-readable phase names the dashboard shows.
var labels = map[Phase]string{
	Intake:     "Intake",
	Estimating: "Estimating",
	Quoted:     "Quoted",
	Contracted: "Contracted",
	Active:     "In Production",
	PunchList:  "Punch List",
	Complete:   "Complete",
	Cancelled:  "Cancelled",
}

// Normalize resolves a raw phase string, accepting historical aliases. The
// second return is false for values outside the enumeration.
func Normalize(raw string) (Phase, bool) {
	if p, ok := aliases[raw]; ok {
		return p, true
	}
	p := Phase(raw)
	if _, ok := order[p]; ok {
		return p, true
	}
	if p == Cancelled {
		return p, true
	}
	return "", false
}

// Label returns the display name for a phase, falling back to the raw value.
func Label(p Phase) string {
	if l, ok := labels[p]; ok {
		return l
	}
	return string(p)
}

// IsBackward reports whether a transition moves earlier in the main line.
// Transitions touching cancelled are never backward.
func IsBackward(from, to Phase) bool {
	fromOrder, fromOK := order[from]
	toOrder, toOK := order[to]
	return fromOK && toOK && toOrder < fromOrder
}

// All returns every phase in lifecycle order, cancelled last.
func All() []Phase {
	return []Phase{Intake, Estimating, Quoted, Contracted, Active, PunchList, Complete, Cancelled}
}
