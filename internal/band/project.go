package band

import "math"

// Project reduces a Dual to a single-tier Pair.
//
// With actualKnown, the actual nominal is treated as ground truth and the
// projection absorbs the tier gap: (n_m, |n_m - n_a| + u_m).
//
// Without it, the projection is the conservative sum (n_m, u_t + u_m).
// This is the policy required by the conservativity contract below; the
// known-actual policy produces spurious cancellation in aggregate checks
// and must not be used for them.
func (d Dual) Project(actualKnown bool) Pair {
	if actualKnown {
		gap := math.Abs(d.Measured.Nominal - d.Actual.Nominal)
		return Pair{Nominal: d.Measured.Nominal, Bound: gap + d.Measured.Bound}
	}
	return Pair{Nominal: d.Measured.Nominal, Bound: d.Actual.Bound + d.Measured.Bound}
}

// Op names a binary Dual operation for the property verifiers.
type Op string

const (
	OpAdd Op = "add"
	OpMul Op = "mul"
)

func (op Op) apply(x, y Dual) Dual {
	if op == OpMul {
		return x.Mul(y)
	}
	return x.Add(y)
}

func (op Op) applyPair(x, y Pair) Pair {
	if op == OpMul {
		return x.Mul(y)
	}
	return x.Add(y)
}

// Conservative verifies that operating in two tiers and then projecting
// never under-reports uncertainty relative to projecting first and
// operating single-tier:
//
//	project(x ∘ y).Bound >= (project(x) ∘ project(y)).Bound - Slack
//
// Projection uses the unknown-actual policy on both sides.
func Conservative(x, y Dual, op Op) bool {
	projected := op.apply(x, y).Project(false).Bound
	direct := op.applyPair(x.Project(false), y.Project(false)).Bound
	return projected >= direct-Slack
}

// Associativity measures how far op is from associating on the given
// triple. It returns whether the maximum component-wise difference
// between (x∘y)∘z and x∘(y∘z) is below 1e-9, along with that difference.
//
// For multiplication this is an empirical check, not a law: the quadratic
// terms are not known to associate, and callers must report violations
// rather than assume them away.
func Associativity(x, y, z Dual, op Op) (bool, float64) {
	left := op.apply(op.apply(x, y), z)
	right := op.apply(x, op.apply(y, z))

	maxDiff := 0.0
	for _, diff := range []float64{
		left.Actual.Nominal - right.Actual.Nominal,
		left.Actual.Bound - right.Actual.Bound,
		left.Measured.Nominal - right.Measured.Nominal,
		left.Measured.Bound - right.Measured.Bound,
	} {
		maxDiff = math.Max(maxDiff, math.Abs(diff))
	}
	return maxDiff < 1e-9, maxDiff
}
