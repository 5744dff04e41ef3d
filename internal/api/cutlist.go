package api

import (
	"fmt"

	"github.com/hartwell-build/siteline/internal/framing"
	"github.com/hartwell-build/siteline/internal/measure"
)

// CutlistParams describes one rough opening. Dimensions arrive as imperial
// strings the way the crew writes them (`36`, `3' 6 1/2"`, `92 5/8`); they
// are parsed here so the engine only ever sees inches.
type CutlistParams struct {
	OpeningType         string  `json:"opening_type" validate:"omitempty,oneof=window door pass-through"`
	RoughWidth          string  `json:"rough_width" validate:"required"`
	RoughHeight         string  `json:"rough_height" validate:"required"`
	SillHeight          string  `json:"sill_height"`
	WallHeight          string  `json:"wall_height" validate:"required"`
	HeaderSize          string  `json:"header_size"`
	HeaderType          string  `json:"header_type" validate:"omitempty,oneof=built-up solid lvl"`
	TopPlates           string  `json:"top_plates" validate:"omitempty,oneof=single double"`
	StudSpacing         float64 `json:"stud_spacing" validate:"omitempty,gt=0"`
	SillStyle           string  `json:"sill_style" validate:"omitempty,oneof=flat double sloped"`
	SlopedSillThickness string  `json:"sloped_sill_thickness"`
	StudMaterial        string  `json:"stud_material"`
	HeaderTight         bool    `json:"header_tight"`
	FinishFloor         string  `json:"finish_floor"`
}

// parseDimension converts one imperial string to inches. Required fields
// must parse to a positive value; optional fields may be empty.
func parseDimension(field, raw string, required bool) (float64, error) {
	if raw == "" {
		if required {
			return 0, invalidParams(fmt.Sprintf("%s is required", field))
		}
		return 0, nil
	}
	value, ok := measure.Parse(raw)
	if !ok {
		return 0, invalidParams(fmt.Sprintf("%s: unparseable measurement %q", field, raw))
	}
	if value <= 0 && required {
		return 0, invalidParams(fmt.Sprintf("%s must be positive", field))
	}
	if value < 0 {
		return 0, invalidParams(fmt.Sprintf("%s must not be negative", field))
	}
	return value, nil
}

// toSpec parses and defaults the request into an engine spec.
func (p CutlistParams) toSpec() (framing.OpeningSpec, error) {
	spec := framing.OpeningSpec{
		OpeningType:  framing.OpeningType(p.OpeningType),
		HeaderSize:   p.HeaderSize,
		HeaderType:   framing.HeaderType(p.HeaderType),
		TopPlates:    framing.TopPlateConfig(p.TopPlates),
		StudSpacing:  p.StudSpacing,
		SillStyle:    framing.SillStyle(p.SillStyle),
		StudMaterial: p.StudMaterial,
		HeaderTight:  p.HeaderTight,
	}

	if spec.OpeningType == "" {
		spec.OpeningType = framing.Window
	}
	if spec.HeaderSize == "" {
		spec.HeaderSize = "2x10"
	}
	if spec.HeaderType == "" {
		spec.HeaderType = framing.HeaderBuiltUp
	}
	if spec.TopPlates == "" {
		spec.TopPlates = framing.PlateDouble
	}
	if spec.StudSpacing == 0 {
		spec.StudSpacing = 16
	}
	if spec.SillStyle == "" {
		spec.SillStyle = framing.SillFlat
	}
	if spec.StudMaterial == "" {
		spec.StudMaterial = "2x4"
	}

	var err error
	if spec.RoughWidth, err = parseDimension("rough_width", p.RoughWidth, true); err != nil {
		return framing.OpeningSpec{}, err
	}
	if spec.RoughHeight, err = parseDimension("rough_height", p.RoughHeight, true); err != nil {
		return framing.OpeningSpec{}, err
	}
	if spec.WallHeight, err = parseDimension("wall_height", p.WallHeight, true); err != nil {
		return framing.OpeningSpec{}, err
	}
	if spec.SillHeight, err = parseDimension("sill_height", p.SillHeight, false); err != nil {
		return framing.OpeningSpec{}, err
	}
	if spec.SlopedSillThickness, err = parseDimension("sloped_sill_thickness", p.SlopedSillThickness, false); err != nil {
		return framing.OpeningSpec{}, err
	}
	if spec.FinishFloor, err = parseDimension("finish_floor", p.FinishFloor, false); err != nil {
		return framing.OpeningSpec{}, err
	}

	return spec, nil
}
