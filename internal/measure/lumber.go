package measure

import "sort"

// LumberSize holds the actual (not nominal) cross-section of a lumber size
// in inches. Width is the narrow face, Height the wide face.
type LumberSize struct {
	Width  float64
	Height float64
}

// Dimension selects which face of a lumber cross-section to read.
type Dimension int

const (
	// Width is the narrow face (1.5" for dimensional lumber).
	Width Dimension = iota
	// Height is the wide face (9.25" for a 2x10).
	Height
)

// lumberSizes maps nominal size keys to actual dimensions. Framing math must
// resolve member dimensions through this table, never hardcode actual sizes.
var lumberSizes = map[string]LumberSize{
	"2x3":        {Width: 1.5, Height: 2.5},
	"2x4":        {Width: 1.5, Height: 3.5},
	"2x6":        {Width: 1.5, Height: 5.5},
	"2x8":        {Width: 1.5, Height: 7.25},
	"2x10":       {Width: 1.5, Height: 9.25},
	"2x12":       {Width: 1.5, Height: 11.25},
	"4x4":        {Width: 3.5, Height: 3.5},
	"4x6":        {Width: 3.5, Height: 5.5},
	"LVL-7.25":   {Width: 1.75, Height: 7.25},
	"LVL-9.25":   {Width: 1.75, Height: 9.25},
	"LVL-9.5":    {Width: 1.75, Height: 9.5},
	"LVL-11.25":  {Width: 1.75, Height: 11.25},
	"LVL-11.875": {Width: 1.75, Height: 11.875},
	"LVL-14":     {Width: 1.75, Height: 14},
	"LVL-16":     {Width: 1.75, Height: 16},
}

// LumberDimension returns the requested actual dimension for a nominal size.
// Unknown sizes return 0; callers must treat 0 as unresolvable rather than a
// usable measurement.
func LumberDimension(nominal string, dim Dimension) float64 {
	size, ok := lumberSizes[nominal]
	if !ok {
		return 0
	}
	if dim == Width {
		return size.Width
	}
	return size.Height
}

// KnownLumberSizes returns the nominal size keys in sorted order.
func KnownLumberSizes() []string {
	keys := make([]string, 0, len(lumberSizes))
	for k := range lumberSizes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
