package framing

import (
	"fmt"
	"strings"

	"github.com/hartwell-build/siteline/internal/measure"
)

// Column widths and rule length for the plain-text export. The layout is a
// user-facing contract: the rendered text gets pasted into estimates and
// texts, so it must stay stable byte for byte.
const (
	reportRuleWidth   = 50
	reportNameWidth   = 20
	reportLengthWidth = 16
	reportQtyWidth    = 8
)

// Report renders a cut list as a fixed-width plain-text table suitable for
// clipboard export.
func Report(spec OpeningSpec, res *Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "CUT LIST - %s %s x %s RO\n",
		strings.ToUpper(string(spec.OpeningType)),
		measure.FormatInches(spec.RoughWidth),
		measure.FormatInches(spec.RoughHeight))
	b.WriteString(strings.Repeat("═", reportRuleWidth))
	b.WriteString("\n")

	b.WriteString(pad("MEMBER", reportNameWidth))
	b.WriteString(pad("LENGTH", reportLengthWidth))
	b.WriteString(pad("QTY", reportQtyWidth))
	b.WriteString("MATERIAL\n")
	b.WriteString(strings.Repeat("─", reportRuleWidth))
	b.WriteString("\n")

	for _, m := range res.Members {
		b.WriteString(pad(m.Name, reportNameWidth))
		b.WriteString(pad(m.Length, reportLengthWidth))
		b.WriteString(pad(fmt.Sprintf("%d", m.Qty), reportQtyWidth))
		b.WriteString(m.Material)
		if m.Note != "" {
			fmt.Fprintf(&b, " (%s)", m.Note)
		}
		b.WriteString("\n")
	}

	for _, w := range res.Warnings {
		fmt.Fprintf(&b, "\n⚠ %s", w.Message)
	}

	return b.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}
