package harness

import (
	"fmt"
	"math"

	"github.com/roach88/dualband/internal/band"
	"github.com/roach88/dualband/internal/reconcile"
)

// defaultWithin is the comparison tolerance when a clause leaves it
// unset.
const defaultWithin = 1e-9

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool

	// Values holds every named value after the flow, inputs included.
	Values map[string]band.Dual

	// Reconciliation is the diagnostic output, when the scenario has a
	// reconcile block.
	Reconciliation *reconcile.Result

	// Merged is the merge output, when the scenario sets a tensor
	// distance.
	Merged *reconcile.Merged

	// Failures lists every failed expectation or assertion.
	Failures []string
}

// Run executes a scenario: builds the declared values, applies the flow,
// checks expect clauses and assertions, and runs the reconcile block.
//
// Execution is pure and deterministic; running the same scenario twice
// yields identical Results apart from the reconciliation run id.
func Run(scenario *Scenario) (*Result, error) {
	values := make(map[string]band.Dual, len(scenario.Values))
	for name, c := range scenario.Values {
		values[name] = band.NewDual(c[0], c[1], c[2], c[3])
	}

	for i, step := range scenario.Flow {
		out, err := applyStep(step, values)
		if err != nil {
			return nil, fmt.Errorf("flow[%d]: %w", i, err)
		}
		values[step.Result] = out
	}

	res := &Result{Pass: true, Values: values}

	for name, clause := range scenario.Expect {
		checkExpect(res, name, values[name], clause)
	}
	for i, a := range scenario.Assertions {
		if err := evalAssertion(a, values); err != nil {
			res.fail("assertions[%d]: %v", i, err)
		}
	}

	if scenario.Reconcile != nil {
		if err := runReconcile(scenario.Reconcile, res); err != nil {
			return nil, err
		}
	}

	return res, nil
}

func applyStep(step FlowStep, values map[string]band.Dual) (band.Dual, error) {
	left, ok := values[step.Left]
	if !ok {
		return band.Dual{}, fmt.Errorf("undefined value %q", step.Left)
	}

	switch step.Op {
	case "add", "sub", "mul":
		right, ok := values[step.Right]
		if !ok {
			return band.Dual{}, fmt.Errorf("undefined value %q", step.Right)
		}
		switch step.Op {
		case "add":
			return left.Add(right), nil
		case "sub":
			return left.Sub(right), nil
		default:
			lam := band.ExactBlend
			if step.Blend != nil {
				lam = *step.Blend
			}
			return left.MulBlend(right, lam), nil
		}
	case "scale":
		return left.Scale(*step.Factor), nil
	case "collapse":
		return left.Collapse(), nil
	case "swap":
		return left.Swap(), nil
	default:
		return band.Dual{}, fmt.Errorf("unknown op %q", step.Op)
	}
}

func checkExpect(res *Result, name string, value band.Dual, clause ExpectClause) {
	within := clause.Within
	if within == 0 {
		within = defaultWithin
	}

	check := func(component string, want *float64, got float64) {
		if want == nil {
			return
		}
		if math.Abs(got-*want) > within {
			res.fail("expect %s: %s = %v, want %v (within %v)",
				name, component, got, *want, within)
		}
	}

	check("actual_nominal", clause.ActualNominal, value.Actual.Nominal)
	check("tolerance", clause.Tolerance, value.Actual.Bound)
	check("measured_nominal", clause.MeasuredNominal, value.Measured.Nominal)
	check("precision", clause.Precision, value.Measured.Bound)
}

func runReconcile(spec *ReconcileSpec, res *Result) error {
	opts := reconcile.Options{Anchor: spec.Anchor}
	if spec.Weighted {
		weights, err := reconcile.InverseVariance(spec.Measurements)
		if err != nil {
			return fmt.Errorf("reconcile weights: %w", err)
		}
		opts.Weights = weights
	}

	out, err := reconcile.Reconcile(spec.Measurements, opts)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}
	res.Reconciliation = out

	if spec.TensorDistance != nil {
		merged := out.Merge(*spec.TensorDistance)
		res.Merged = &merged
	}
	return nil
}

func (r *Result) fail(format string, args ...any) {
	r.Pass = false
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}
