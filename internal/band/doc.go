// Package band provides the dual-tier uncertainty value types and their
// algebra.
//
// This package contains value types and pure operations only. All other
// internal packages may import band; band imports nothing internal. This
// keeps the algebra the foundational layer with no circular dependencies.
//
// Two value types:
//
//   - Pair: a single (nominal, bound) tuple. The bound is a non-negative
//     symmetric half-width around the nominal. Constructors clamp negative
//     bounds to zero rather than rejecting them.
//   - Dual: two nested Pairs, an actual/tolerance tier and a
//     measured/precision tier, written ((n_a, u_t), (n_m, u_m)).
//
// Key design constraints:
//   - All values are immutable; every operation returns a new value.
//   - All operations are total. There is no division and no
//     domain-restricted function, so nothing past construction can fail.
//   - The cross-tier triangle inequality |n_m - n_a| <= u_t + u_m is
//     checked (TriangleHolds), never enforced. Producing an invalid value
//     is legal; callers decide what to do about it.
//   - Multiplication takes a blend weight controlling second-order
//     bound-by-bound terms. Weights outside [0,1] are accepted but flagged
//     by ValidBlend.
package band
