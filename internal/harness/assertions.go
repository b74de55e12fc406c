package harness

import (
	"fmt"
	"math"

	"github.com/roach88/dualband/internal/band"
)

// AssertionError reports a failed property assertion with enough context
// to debug it without re-running the scenario.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion %s failed: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

func evalAssertion(a Assertion, values map[string]band.Dual) error {
	switch a.Type {
	case "triangle_holds":
		return assertTriangle(values[a.Target], true)
	case "triangle_violated":
		return assertTriangle(values[a.Target], false)
	case "commutes":
		return assertCommutes(a, values)
	case "conservative":
		return assertConservative(a, values)
	case "involution":
		return assertInvolution(values[a.Target])
	case "projection":
		return assertProjection(a, values[a.Target])
	case "budget_max":
		return assertBudgetMax(a, values[a.Target])
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertTriangle(d band.Dual, want bool) error {
	if d.TriangleHolds() == want {
		return nil
	}
	name := "triangle_holds"
	expected := "|n_m - n_a| <= u_t + u_m"
	if !want {
		name = "triangle_violated"
		expected = "|n_m - n_a| > u_t + u_m"
	}
	return &AssertionError{
		Type:     name,
		Expected: expected,
		Actual:   fmt.Sprintf("gap %v", d.TriangleGap()),
	}
}

func assertCommutes(a Assertion, values map[string]band.Dual) error {
	x, y := values[a.Left], values[a.Right]

	var lr, rl band.Dual
	if a.Op == "mul" {
		lr, rl = x.Mul(y), y.Mul(x)
	} else {
		lr, rl = x.Add(y), y.Add(x)
	}

	if lr == rl {
		return nil
	}
	return &AssertionError{
		Type:     "commutes",
		Expected: fmt.Sprintf("%s(%s, %s) == %s(%s, %s) exactly", a.Op, a.Left, a.Right, a.Op, a.Right, a.Left),
		Actual:   fmt.Sprintf("%+v vs %+v", lr, rl),
	}
}

func assertConservative(a Assertion, values map[string]band.Dual) error {
	op := band.OpAdd
	if a.Op == "mul" {
		op = band.OpMul
	}
	if band.Conservative(values[a.Left], values[a.Right], op) {
		return nil
	}
	return &AssertionError{
		Type:     "conservative",
		Expected: fmt.Sprintf("project(%s %s %s) bound >= single-tier bound", a.Left, a.Op, a.Right),
		Actual:   "two-tier projection under-reported",
	}
}

func assertInvolution(d band.Dual) error {
	if d.Swap().Swap() == d {
		return nil
	}
	return &AssertionError{
		Type:     "involution",
		Expected: "swap(swap(x)) == x exactly",
		Actual:   fmt.Sprintf("%+v", d.Swap().Swap()),
	}
}

func assertProjection(a Assertion, d band.Dual) error {
	within := a.Within
	if within == 0 {
		within = defaultWithin
	}

	p := d.Project(a.ActualKnown)
	if a.Nominal != nil && math.Abs(p.Nominal-*a.Nominal) > within {
		return &AssertionError{
			Type:     "projection",
			Expected: fmt.Sprintf("nominal %v within %v", *a.Nominal, within),
			Actual:   fmt.Sprintf("nominal %v", p.Nominal),
		}
	}
	if a.Bound != nil && math.Abs(p.Bound-*a.Bound) > within {
		return &AssertionError{
			Type:     "projection",
			Expected: fmt.Sprintf("bound %v within %v", *a.Bound, within),
			Actual:   fmt.Sprintf("bound %v", p.Bound),
		}
	}
	return nil
}

func assertBudgetMax(a Assertion, d band.Dual) error {
	if d.Budget() <= a.Max {
		return nil
	}
	return &AssertionError{
		Type:     "budget_max",
		Expected: fmt.Sprintf("budget <= %v", a.Max),
		Actual:   fmt.Sprintf("budget %v", d.Budget()),
	}
}
