// Package measure converts between imperial feet-inch-fraction strings and
// decimal inches. Decimal inches are the canonical unit everywhere in the
// server; formatted strings are a display projection only.
package measure

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultPrecision is the fraction denominator used when none is given.
const DefaultPrecision = 16

// Parse converts a measurement string to decimal inches. Accepted forms
// include `3' 6 1/2"`, `42.5`, `6 1/2`, `1/2`, `3ft 4`. The second return is
// false only for empty or whitespace input, so callers can tell "no value"
// apart from zero. Parse never panics; malformed numeric fragments degrade
// to zero for that fragment.
func Parse(input string) (float64, bool) {
	value, _, ok := parse(input)
	return value, ok
}

// ParseStrict behaves like Parse but additionally reports whether every
// fragment of the input parsed cleanly. Callers that feed parsed values into
// calculations can use exact=false to warn instead of silently computing
// with a zeroed fragment.
func ParseStrict(input string) (value float64, exact bool, ok bool) {
	return parse(input)
}

func parse(input string) (float64, bool, bool) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return 0, true, false
	}

	s = strings.TrimSpace(strings.TrimSuffix(s, `"`))
	if s == "" {
		return 0, true, false
	}

	feetSeg, inchSeg, hasFeet := splitFeet(s)

	exact := true
	var feet float64
	if hasFeet {
		f, fOK := parseNumber(feetSeg)
		feet = f
		exact = exact && fOK
	}

	inches, inchExact := parseInchSegment(inchSeg)
	exact = exact && inchExact

	return feet*12 + inches, exact, true
}

// splitFeet detects a feet marker (apostrophe or "ft") and splits the input
// into a feet segment and an inches segment.
func splitFeet(s string) (feetSeg, inchSeg string, hasFeet bool) {
	if idx := strings.Index(s, "'"); idx >= 0 {
		return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+1:]), true
	}
	if idx := strings.Index(s, "ft"); idx >= 0 {
		return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+2:]), true
	}
	return "", strings.TrimSpace(s), false
}

// parseInchSegment handles `6 1/2`, `1/2`, `6`, and `6.5`. An empty segment
// is zero inches. Anything unparseable contributes zero with exact=false.
func parseInchSegment(seg string) (float64, bool) {
	if seg == "" {
		return 0, true
	}

	fields := strings.Fields(seg)
	switch len(fields) {
	case 1:
		if strings.Contains(fields[0], "/") {
			return parseFraction(fields[0])
		}
		return parseNumber(fields[0])
	case 2:
		whole, wholeOK := parseNumber(fields[0])
		frac, fracOK := parseFraction(fields[1])
		return whole + frac, wholeOK && fracOK
	default:
		return 0, false
	}
}

func parseFraction(s string) (float64, bool) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, false
	}
	num, numOK := parseNumber(parts[0])
	den, denOK := parseNumber(parts[1])
	if !numOK || !denOK || den == 0 {
		return 0, false
	}
	return num / den, true
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatOptions controls fraction-string rendering.
type FormatOptions struct {
	// ShowFeet forces feet notation regardless of magnitude.
	ShowFeet bool
	// AutoFeet switches to feet notation when the magnitude is at least 12".
	AutoFeet bool
	// Precision is the fraction denominator granularity (16 = nearest 1/16").
	Precision int
}

// DefaultFormat returns the standard display options: auto feet notation at
// one foot and sixteenth-inch precision.
func DefaultFormat() FormatOptions {
	return FormatOptions{AutoFeet: true, Precision: DefaultPrecision}
}

// FormatInches renders decimal inches with default options.
func FormatInches(d float64) string {
	return Format(d, DefaultFormat())
}

// Format renders decimal inches as a feet-inch-fraction string, e.g.
// 42.5 -> `3' 6 1/2"`. Zero magnitude always renders as `0"`. The result
// round-trips through Parse within 1/Precision of an inch.
func Format(d float64, opts FormatOptions) string {
	precision := opts.Precision
	if precision <= 0 {
		precision = DefaultPrecision
	}

	abs := math.Abs(d)
	negative := d < 0

	useFeet := opts.ShowFeet || (opts.AutoFeet && abs >= 12)

	feet := 0
	remainder := abs
	if useFeet {
		feet = int(remainder / 12)
		remainder -= float64(feet) * 12
	}

	steps := int(math.Round(remainder * float64(precision)))
	whole := steps / precision
	numerator := steps % precision

	// Rounding can push the remainder up to a full foot.
	if useFeet && whole >= 12 {
		feet += whole / 12
		whole = whole % 12
	}

	den := precision
	if numerator > 0 {
		g := gcd(numerator, den)
		numerator /= g
		den /= g
	}

	inchPart := ""
	if whole > 0 {
		inchPart = strconv.Itoa(whole)
	}
	if numerator > 0 {
		if inchPart != "" {
			inchPart += " "
		}
		inchPart += fmt.Sprintf("%d/%d", numerator, den)
	}
	if inchPart != "" {
		inchPart += `"`
	}

	out := ""
	if useFeet && feet > 0 {
		out = fmt.Sprintf("%d'", feet)
	}
	if inchPart != "" {
		if out != "" {
			out += " "
		}
		out += inchPart
	}
	if out == "" {
		return `0"`
	}
	if negative {
		out = "-" + out
	}
	return out
}

// RoundToFraction rounds decimal inches to the nearest 1/denominator.
func RoundToFraction(d float64, denominator int) float64 {
	if denominator <= 0 {
		denominator = DefaultPrecision
	}
	return math.Round(d*float64(denominator)) / float64(denominator)
}

// Add parses each input and sums the results. Inputs that fail to parse
// contribute zero, matching Parse's degradation contract.
func Add(inputs ...string) float64 {
	total := 0.0
	for _, in := range inputs {
		v, _ := Parse(in)
		total += v
	}
	return total
}

// Sub parses both inputs and returns their difference in decimal inches.
func Sub(a, b string) float64 {
	av, _ := Parse(a)
	bv, _ := Parse(b)
	return av - bv
}

// Mul parses the input and scales it by factor.
func Mul(input string, factor float64) float64 {
	v, _ := Parse(input)
	return v * factor
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
