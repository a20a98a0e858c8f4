package life

import "math"

// DefaultBeta is the near-field boundary as a fraction of RMax.
const DefaultBeta = 0.3

// ForceLaw maps a normalized distance d = distance/RMax and a rule
// coefficient to a signed force magnitude. Positive pulls toward the
// neighbor.
//
// Below beta the particles repel regardless of the rule, linearly from -1 at
// d = 0 to 0 at d = beta. Between beta and 1 a tent peaking at (1+beta)/2 is
// scaled by the rule. At or beyond 1 there is no force.
func ForceLaw(d, rule, beta float64) float64 {
	switch {
	case d < beta:
		return d/beta - 1
	case d < 1:
		return rule * (1 - math.Abs((2*d-1-beta)/(1-beta)))
	default:
		return 0
	}
}
