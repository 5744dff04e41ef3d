// Package framing derives complete cut lists for window and door rough
// openings. The derivation is a pure function of the opening spec; it holds
// no state and is cheap enough to run on every input change.
package framing

import (
	"fmt"

	"github.com/hartwell-build/siteline/internal/measure"
)

// OpeningType identifies what the rough opening will receive.
type OpeningType string

const (
	Window      OpeningType = "window"
	Door        OpeningType = "door"
	PassThrough OpeningType = "pass-through"
)

// HeaderType selects how the header is built up.
type HeaderType string

const (
	HeaderBuiltUp HeaderType = "built-up"
	HeaderSolid   HeaderType = "solid"
	HeaderLVL     HeaderType = "lvl"
)

// SillStyle selects the window sill construction.
type SillStyle string

const (
	SillFlat   SillStyle = "flat"
	SillDouble SillStyle = "double"
	SillSloped SillStyle = "sloped"
)

// TopPlateConfig selects single or double top plates.
type TopPlateConfig string

const (
	PlateSingle TopPlateConfig = "single"
	PlateDouble TopPlateConfig = "double"
)

// Plate and default thicknesses in inches.
const (
	bottomPlateThickness = 1.5
	singlePlateThickness = 1.5
	doublePlateThickness = 3.0
	flatSillThickness    = 1.5
	doubleSillThickness  = 3.0
	defaultSlopedSill    = 2.0
	defaultStudSpacing   = 16.0
)

// Jack-count span breakpoints in inches. Spans past the last breakpoint get
// a third jack pair plus an engineering advisory.
const (
	singleJackMaxSpan = 72.0
	doubleJackMaxSpan = 96.0
)

// OpeningSpec is the input aggregate for a cut-list derivation. All linear
// values are decimal inches; string measurements are parsed by callers at
// the boundary.
type OpeningSpec struct {
	OpeningType         OpeningType
	RoughWidth          float64
	RoughHeight         float64
	SillHeight          float64
	WallHeight          float64
	HeaderSize          string
	HeaderType          HeaderType
	TopPlates           TopPlateConfig
	StudSpacing         float64
	SillStyle           SillStyle
	SlopedSillThickness float64
	StudMaterial        string
	HeaderTight         bool
	FinishFloor         float64
}

// Member is one cut-list entry. Length is formatted for display; cut lists
// are rebuilt whole on every derivation, never patched in place.
type Member struct {
	Name      string `json:"name"`
	Length    string `json:"length"`
	Qty       int    `json:"qty"`
	Material  string `json:"material"`
	Note      string `json:"note,omitempty"`
	Highlight bool   `json:"highlight,omitempty"`
}

// Warning codes emitted by the derivation.
const (
	WarnEngineeringRequired = "engineering_required"
	WarnHeaderTightSavings  = "header_tight_savings"
)

// Warning is an advisory attached to a cut list. Warnings never prevent the
// derivation from completing.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is a full derivation output: the assembled cut list plus the
// intermediate lengths the UI surfaces alongside it.
type Result struct {
	Members  []Member  `json:"members"`
	Warnings []Warning `json:"warnings,omitempty"`

	JacksPerSide   int     `json:"jacks_per_side"`
	KingStudLength float64 `json:"king_stud_length"`
	JackStudLength float64 `json:"jack_stud_length"`
	HeaderLength   float64 `json:"header_length"`
	HeaderDepth    float64 `json:"header_depth"`
	HeaderGap      float64 `json:"header_gap"`
	SillThickness  float64 `json:"sill_thickness"`
}

// Compute derives the full cut list for an opening. It returns
// ErrMissingDimensions when rough width, rough height, or wall height is
// absent; beyond that it performs no bounds validation and computes whatever
// the arithmetic yields.
func Compute(spec OpeningSpec) (*Result, error) {
	if spec.RoughWidth == 0 || spec.RoughHeight == 0 || spec.WallHeight == 0 {
		return nil, ErrMissingDimensions
	}

	topPlate := singlePlateThickness
	if spec.TopPlates == PlateDouble {
		topPlate = doublePlateThickness
	}

	headerDepth := measure.LumberDimension(spec.HeaderSize, measure.Height)
	studWidth := measure.LumberDimension(spec.StudMaterial, measure.Width)

	sillThickness := flatSillThickness
	switch spec.SillStyle {
	case SillDouble:
		sillThickness = doubleSillThickness
	case SillSloped:
		sillThickness = spec.SlopedSillThickness
		if sillThickness == 0 {
			sillThickness = defaultSlopedSill
		}
	}

	spacing := spec.StudSpacing
	if spacing <= 0 {
		spacing = defaultStudSpacing
	}

	res := &Result{
		HeaderDepth:   headerDepth,
		SillThickness: sillThickness,
	}

	res.JacksPerSide = jacksForSpan(spec.RoughWidth)
	if spec.RoughWidth > doubleJackMaxSpan {
		res.Warnings = append(res.Warnings, Warning{
			Code: WarnEngineeringRequired,
			Message: fmt.Sprintf("opening span %s exceeds %s; header sizing requires engineering review",
				measure.FormatInches(spec.RoughWidth), measure.FormatInches(doubleJackMaxSpan)),
		})
	}

	res.KingStudLength = spec.WallHeight - bottomPlateThickness - topPlate

	if spec.OpeningType == Window {
		res.JackStudLength = spec.SillHeight + spec.RoughHeight + sillThickness - bottomPlateThickness
	} else {
		res.JackStudLength = spec.RoughHeight + spec.FinishFloor
	}
	// Jack studs can never run past the kings; clip silently.
	if res.JackStudLength > res.KingStudLength {
		res.JackStudLength = res.KingStudLength
	}

	res.HeaderLength = spec.RoughWidth + 2*studWidth*float64(res.JacksPerSide)
	res.HeaderGap = res.KingStudLength - res.JackStudLength - res.HeaderDepth

	crippleQty := crippleCount(spec.RoughWidth, studWidth, spacing)

	res.Members = assemble(spec, res, crippleQty)

	if spec.HeaderTight && res.HeaderGap > 0 && crippleQty > 2 {
		res.Warnings = append(res.Warnings, Warning{
			Code:    WarnHeaderTightSavings,
			Message: fmt.Sprintf("tight header replaces %d top cripples with a single filler", crippleQty),
		})
	}

	return res, nil
}

// jacksForSpan returns the jack studs required per side for a rough width.
func jacksForSpan(roughWidth float64) int {
	switch {
	case roughWidth <= singleJackMaxSpan:
		return 1
	case roughWidth <= doubleJackMaxSpan:
		return 2
	default:
		return 3
	}
}

// crippleCount applies the stud-spacing layout formula, floored at zero.
func crippleCount(roughWidth, studWidth, spacing float64) int {
	n := int((roughWidth - studWidth) / spacing)
	if n < 0 {
		return 0
	}
	return n
}

// assemble projects the computed lengths into the display cut list. Lengths
// are formatted here and nowhere earlier.
func assemble(spec OpeningSpec, res *Result, crippleQty int) []Member {
	members := []Member{
		{
			Name:     "King Studs",
			Length:   measure.FormatInches(res.KingStudLength),
			Qty:      2,
			Material: spec.StudMaterial,
		},
		{
			Name:     "Jack Studs",
			Length:   measure.FormatInches(res.JackStudLength),
			Qty:      2 * res.JacksPerSide,
			Material: spec.StudMaterial,
		},
	}

	headerQty := 1
	headerMaterial := spec.HeaderSize
	switch spec.HeaderType {
	case HeaderBuiltUp:
		headerQty = 2
		headerMaterial = spec.HeaderSize + ` + 1/2" ply`
	case HeaderLVL:
		headerMaterial = "LVL " + spec.HeaderSize
	}
	members = append(members, Member{
		Name:      "Header",
		Length:    measure.FormatInches(res.HeaderLength),
		Qty:       headerQty,
		Material:  headerMaterial,
		Highlight: true,
	})

	if res.HeaderGap > 0 {
		if spec.HeaderTight {
			members = append(members, Member{
				Name:     "Header Filler",
				Length:   measure.FormatInches(res.HeaderLength),
				Qty:      1,
				Material: spec.StudMaterial,
				Note:     "flat plate above header",
			})
		} else if crippleQty > 0 {
			members = append(members, Member{
				Name:     "Top Cripples",
				Length:   measure.FormatInches(res.HeaderGap),
				Qty:      crippleQty,
				Material: spec.StudMaterial,
			})
		}
	}

	if spec.OpeningType == Window {
		sillQty := 1
		if spec.SillStyle == SillDouble {
			sillQty = 2
		}
		members = append(members, Member{
			Name:     "Sill",
			Length:   measure.FormatInches(spec.RoughWidth),
			Qty:      sillQty,
			Material: spec.StudMaterial,
		})

		bottomCripple := spec.SillHeight - bottomPlateThickness - res.SillThickness
		if bottomCripple < 0 {
			bottomCripple = 0
		}
		if bottomCripple > 0 && crippleQty > 0 {
			members = append(members, Member{
				Name:     "Bottom Cripples",
				Length:   measure.FormatInches(bottomCripple),
				Qty:      crippleQty,
				Material: spec.StudMaterial,
			})
		}
	}

	return members
}
