package band

import "math"

// Blend weights for multiplication.
const (
	// ExactBlend includes the full second-order terms, matching exact
	// symmetric-interval product semantics [a±Δa]×[b±Δb]. This is the
	// default and the recommended mode for uncertainty-critical use.
	ExactBlend = 1.0

	// LinearBlend drops all bound-by-bound terms, reducing multiplication
	// to first-order propagation. It under-estimates uncertainty over deep
	// operation chains but matches single-tier conventions.
	LinearBlend = 0.0
)

// ValidBlend reports whether the blend weight is in [0,1]. MulBlend
// accepts any weight; out-of-range weights produce non-conservative or
// over-conservative bounds and should be surfaced by validation layers,
// not silently passed through.
func ValidBlend(lam float64) bool {
	return lam >= 0 && lam <= 1
}

// Mul multiplies with ExactBlend.
func (d Dual) Mul(o Dual) Dual {
	return d.MulBlend(o, ExactBlend)
}

// MulBlend multiplies two Duals with blend weight lam on the quadratic
// terms:
//
//	n_a' = n_a1*n_a2
//	u_t' = |n_a1|u_t2 + |n_a2|u_t1         linear, actual tier
//	     + |n_m1|u_t2 + |n_m2|u_t1         cross-tier guard
//	     + lam*u_t1*u_t2                   quadratic, actual tier
//	     + lam*(u_t1*u_m2 + u_m1*u_t2)     quadratic, cross
//	n_m' = n_m1*n_m2
//	u_m' = |n_m1|u_m2 + |n_m2|u_m1 + lam*u_m1*u_m2
//
// The guard term keeps the triangle inequality closed under
// multiplication: n_m1*n_m2 - n_a1*n_a2 factors as
// n_m1*(n_m2 - n_a2) + n_a2*(n_m1 - n_a1), and each factor is bounded by
// the corresponding tier sums. Covering the |n_a2| factor also needs the
// cross and measured quadratic terms, so the closure guarantee holds at
// ExactBlend; reduced blends can leak when bounds dominate nominals.
// All cross-tier interaction lands in the tolerance tier; splitting it
// symmetrically would break the bound, so the asymmetry is load-bearing.
//
// Every term is symmetric in the two operands, so MulBlend commutes
// exactly. Associativity is not an algebraic law of this formula; tests
// measure the deviation rather than assert it away.
func (d Dual) MulBlend(o Dual, lam float64) Dual {
	na1, ut1 := d.Actual.Nominal, d.Actual.Bound
	nm1, um1 := d.Measured.Nominal, d.Measured.Bound
	na2, ut2 := o.Actual.Nominal, o.Actual.Bound
	nm2, um2 := o.Measured.Nominal, o.Measured.Bound

	// Each parenthesized group is symmetric under operand swap, so the
	// accumulation order is identical for d.MulBlend(o) and o.MulBlend(d)
	// and commutativity holds bit-exactly, not just within tolerance.
	tolerance := (math.Abs(na1)*ut2 + math.Abs(na2)*ut1) +
		(math.Abs(nm1)*ut2 + math.Abs(nm2)*ut1) +
		lam*(ut1*ut2) +
		lam*(ut1*um2+um1*ut2)

	precision := (math.Abs(nm1)*um2 + math.Abs(nm2)*um1) +
		lam*(um1*um2)

	return Dual{
		Actual:   Pair{Nominal: na1 * na2, Bound: tolerance},
		Measured: Pair{Nominal: nm1 * nm2, Bound: precision},
	}
}
