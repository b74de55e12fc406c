// Package harness provides conformance testing for the dual-tier
// algebra and the reconciliation diagnostic.
//
// Scenarios are YAML files declaring named input values, a flow of
// algebra operations, expected step outputs, and property assertions.
// The harness executes the flow and evaluates every assertion, so
// algebraic contracts live as data instead of hand-written test bodies.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	values:
//	  x: [10.0, 0.5, 10.2, 0.3]    # actual nominal, tolerance, measured nominal, precision
//	flow:
//	  - op: mul                     # add | sub | mul | scale | collapse | swap
//	    left: x
//	    right: y                    # binary ops only
//	    blend: 1.0                  # mul only, defaults to 1.0
//	    factor: 2.0                 # scale only
//	    result: p
//	expect:
//	  p:
//	    actual_nominal: 50.0
//	    tolerance: 9.30
//	    measured_nominal: 52.02
//	    precision: 2.58
//	    within: 1e-9                # defaults to 1e-9
//	assertions:
//	  - type: triangle_holds
//	    target: p
//	reconcile:
//	  measurements:
//	    - {name: A, nominal: 67.3217, bound: 0.3963}
//	  weighted: true                # inverse-variance anchor
//	  tensor_distance: 0.0          # runs the merge when set
//
// # Assertion Types
//
//   - triangle_holds / triangle_violated: invariant diagnostics on a value
//   - commutes: op(left, right) equals op(right, left) bit-exactly
//   - conservative: two-tier-then-project never under-reports versus
//     project-then-single-tier
//   - involution: target survives a double tier swap unchanged
//   - projection: projected nominal/bound match expectations
//   - budget_max: the value's epistemic budget stays under a limit
//
// # Deterministic Reports
//
// Golden comparison renders results with fixed six-decimal formatting so
// reports are byte-stable across runs and platforms. Run ids are excluded
// from snapshots; they change per invocation by design.
package harness
