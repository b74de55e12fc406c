package band

import "math"

// Pair is a single-tier uncertainty value: a nominal plus a non-negative
// symmetric half-width around it.
//
// Pairs are immutable. Operations return new Pairs and never mutate the
// receiver. Construct with NewPair so negative bounds are clamped; a Pair
// built from a struct literal with a negative Bound is outside the algebra's
// domain and operations on it make no promises.
type Pair struct {
	Nominal float64 `json:"nominal"`
	Bound   float64 `json:"bound"`
}

// NewPair creates a Pair, clamping a negative bound to zero.
//
// Clamping is a silent-correction policy, not an error: downstream callers
// rely on a negative input producing a zero-width Pair rather than a
// rejection.
func NewPair(nominal, bound float64) Pair {
	return Pair{Nominal: nominal, Bound: math.Max(0, bound)}
}

// Add returns (n1+n2, u1+u2). Bounds only grow under addition.
func (p Pair) Add(q Pair) Pair {
	return Pair{Nominal: p.Nominal + q.Nominal, Bound: p.Bound + q.Bound}
}

// Mul returns (n1*n2, |n1|*u2 + |n2|*u1), the first-order propagation
// rule. Valid inputs always yield a non-negative bound, so no clamp is
// needed at operation time.
func (p Pair) Mul(q Pair) Pair {
	return Pair{
		Nominal: p.Nominal * q.Nominal,
		Bound:   math.Abs(p.Nominal)*q.Bound + math.Abs(q.Nominal)*p.Bound,
	}
}

// Scale returns (k*n, |k|*u).
func (p Pair) Scale(k float64) Pair {
	return Pair{Nominal: k * p.Nominal, Bound: math.Abs(k) * p.Bound}
}

// Budget returns |n| + u, the total epistemic mass of the pair.
// Used for sanity and regression checks, never for control flow.
func (p Pair) Budget() float64 {
	return math.Abs(p.Nominal) + p.Bound
}

// Bounds returns the interval [n-u, n+u].
func (p Pair) Bounds() Interval {
	return Interval{Lower: p.Nominal - p.Bound, Upper: p.Nominal + p.Bound}
}

// Interval is a closed interval on the real line.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Gap returns the distance between two disjoint intervals, or 0 if they
// touch or intersect.
func (iv Interval) Gap(other Interval) float64 {
	if iv.Lower > other.Lower {
		iv, other = other, iv
	}
	if g := other.Lower - iv.Upper; g > 0 {
		return g
	}
	return 0
}

// Overlaps reports whether the intervals touch or intersect, allowing
// Slack of numerical tolerance at the boundary.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Gap(other) <= Slack
}
