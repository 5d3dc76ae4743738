package floor

import "github.com/chazu/storey/pkg/plan"

// DefaultGap is the vertical gap between consecutive floors in scene units.
const DefaultGap = 0.05

// Elevations returns the base elevation of each floor in declaration order.
// Floor 0 sits at 0; each later floor sits on top of the previous one's
// scaled extrusion depth plus gap.
func Elevations(specs []plan.FloorSpec, gap float64) []float64 {
	out := make([]float64, len(specs))
	for i := 1; i < len(specs); i++ {
		out[i] = out[i-1] + specs[i-1].ScaledDepth() + gap
	}
	return out
}
