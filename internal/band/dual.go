package band

import "math"

// Dual is a two-tier uncertainty value ((n_a, u_t), (n_m, u_m)).
//
// The actual tier carries a latent true/target nominal n_a with its
// epistemic tolerance u_t. The measured tier carries an observed nominal
// n_m with its measurement precision u_m. A Dual is considered valid when
// the cross-tier triangle inequality |n_m - n_a| <= u_t + u_m holds;
// construction does not enforce this, TriangleHolds checks it.
//
// Duals are immutable. Every operator returns a new Dual.
type Dual struct {
	Actual   Pair `json:"actual"`
	Measured Pair `json:"measured"`
}

// NewDual creates a Dual from four scalars, clamping negative bounds to
// zero on both tiers.
func NewDual(actualNominal, tolerance, measuredNominal, precision float64) Dual {
	return Dual{
		Actual:   NewPair(actualNominal, tolerance),
		Measured: NewPair(measuredNominal, precision),
	}
}

// Add is component-wise addition on each tier independently. The triangle
// inequality survives addition: the sum of two valid gaps bounds the gap
// of the sum.
func (d Dual) Add(o Dual) Dual {
	return Dual{
		Actual:   d.Actual.Add(o.Actual),
		Measured: d.Measured.Add(o.Measured),
	}
}

// Scale multiplies both tiers by k. Both sides of the triangle inequality
// scale by |k|, so validity is preserved.
func (d Dual) Scale(k float64) Dual {
	return Dual{
		Actual:   d.Actual.Scale(k),
		Measured: d.Measured.Scale(k),
	}
}

// Sub is Add(o.Scale(-1)). Bounds add: subtracting never reduces
// uncertainty.
func (d Dual) Sub(o Dual) Dual {
	return d.Add(o.Scale(-1))
}

// Collapse forces the actual tier to the zero pair and folds the tier gap
// and the tolerance into the measured bound:
//
//	((0, 0), (n_m, |n_m - n_a| + u_t + u_m))
//
// It models withdrawing trust in the actual tier entirely. The measured
// bound grows by at least the prior tier gap; the result is always valid.
func (d Dual) Collapse() Dual {
	folded := math.Abs(d.Measured.Nominal-d.Actual.Nominal) + d.Actual.Bound + d.Measured.Bound
	return Dual{
		Actual:   Pair{},
		Measured: Pair{Nominal: d.Measured.Nominal, Bound: folded},
	}
}

// Swap exchanges the two tiers. It performs no arithmetic, only
// reassignment, so Swap(Swap(x)) == x exactly.
func (d Dual) Swap() Dual {
	return Dual{Actual: d.Measured, Measured: d.Actual}
}
