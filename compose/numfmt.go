package compose

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coregx/pdfcore/internal/engine"
)

// formatNumber renders v the way an overlay or layer content stream must:
// the shortest decimal representation that round-trips, trailing zeros
// stripped but at least one digit kept after the point, so a downstream
// reader never has to guess whether a bare "2" is an integer or a real.
// Generalizes internal/object.Real.String (same strip-trailing-zeros
// strategy) for content-stream emission, where placement matrices are
// built from ordinary float64 page geometry rather than already-typed
// Real values.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		return s + ".0"
	}
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

// formatCM renders a `cm` content-stream operator invocation for m.
func formatCM(m engine.Matrix) string {
	return fmt.Sprintf("%s %s %s %s %s %s cm",
		formatNumber(m.A), formatNumber(m.B), formatNumber(m.C),
		formatNumber(m.D), formatNumber(m.E), formatNumber(m.F))
}
