package band

import "math"

// Slack is the numerical tolerance applied when checking the triangle
// inequality and interval contact. Chained operations accumulate rounding
// error; without this, legitimately-valid values occasionally fail the
// check at the last bit.
const Slack = 1e-10

// TriangleHolds reports whether |n_m - n_a| <= u_t + u_m + Slack.
//
// A false result is a diagnostic, not an error: the algebra detects
// invalid values, it never prevents them.
func (d Dual) TriangleHolds() bool {
	return d.TriangleGap() >= -Slack
}

// TriangleGap returns (u_t + u_m) - |n_m - n_a|. Positive means slack
// remains; negative beyond Slack means the invariant is violated.
func (d Dual) TriangleGap() float64 {
	diff := math.Abs(d.Measured.Nominal - d.Actual.Nominal)
	return (d.Actual.Bound + d.Measured.Bound) - diff
}

// Budget returns |n_a| + u_t + |n_m| + u_m, the total epistemic mass
// across both tiers.
func (d Dual) Budget() float64 {
	return d.Actual.Budget() + d.Measured.Budget()
}

// ActualBounds returns [n_a - u_t, n_a + u_t].
func (d Dual) ActualBounds() Interval {
	return d.Actual.Bounds()
}

// MeasuredBounds returns [n_m - u_m, n_m + u_m].
func (d Dual) MeasuredBounds() Interval {
	return d.Measured.Bounds()
}

// CombinedBounds returns the hull of both tiers' intervals: the worst
// case where the actual value sits far from the measured one.
func (d Dual) CombinedBounds() Interval {
	a, m := d.Actual.Bounds(), d.Measured.Bounds()
	return Interval{
		Lower: math.Min(a.Lower, m.Lower),
		Upper: math.Max(a.Upper, m.Upper),
	}
}
