package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dualband/internal/band"
)

func testValues() map[string]band.Dual {
	return map[string]band.Dual{
		"x":      band.NewDual(10.0, 0.5, 10.2, 0.3),
		"y":      band.NewDual(5.0, 0.2, 5.1, 0.1),
		"broken": band.NewDual(0.0, 0.1, 5.0, 0.1),
	}
}

func TestAssertTriangle(t *testing.T) {
	values := testValues()

	assert.NoError(t, evalAssertion(Assertion{Type: "triangle_holds", Target: "x"}, values))
	assert.NoError(t, evalAssertion(Assertion{Type: "triangle_violated", Target: "broken"}, values))

	err := evalAssertion(Assertion{Type: "triangle_holds", Target: "broken"}, values)
	require.Error(t, err)
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "triangle_holds", ae.Type)
	assert.Contains(t, ae.Actual, "gap")
}

func TestAssertCommutes(t *testing.T) {
	values := testValues()

	assert.NoError(t, evalAssertion(Assertion{Type: "commutes", Op: "add", Left: "x", Right: "y"}, values))
	assert.NoError(t, evalAssertion(Assertion{Type: "commutes", Op: "mul", Left: "x", Right: "y"}, values))
}

func TestAssertConservative(t *testing.T) {
	values := testValues()

	assert.NoError(t, evalAssertion(Assertion{Type: "conservative", Op: "add", Left: "x", Right: "y"}, values))
	assert.NoError(t, evalAssertion(Assertion{Type: "conservative", Op: "mul", Left: "x", Right: "y"}, values))
}

func TestAssertInvolution(t *testing.T) {
	assert.NoError(t, evalAssertion(Assertion{Type: "involution", Target: "x"}, testValues()))
}

func TestAssertProjection(t *testing.T) {
	values := testValues()

	assert.NoError(t, evalAssertion(Assertion{
		Type: "projection", Target: "x",
		Nominal: fptr(10.2), Bound: fptr(0.8),
	}, values))

	err := evalAssertion(Assertion{
		Type: "projection", Target: "x",
		Bound: fptr(0.5),
	}, values)
	require.Error(t, err)
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "projection", ae.Type)
}

func TestAssertProjectionKnownActual(t *testing.T) {
	values := testValues()

	// Known-actual absorbs the tier gap instead of the tolerance:
	// |10.2 - 10| + 0.3 = 0.5.
	assert.NoError(t, evalAssertion(Assertion{
		Type: "projection", Target: "x", ActualKnown: true,
		Bound: fptr(0.5),
	}, values))
}

func TestAssertBudgetMax(t *testing.T) {
	values := testValues()

	// Budget of x: 10 + 0.5 + 10.2 + 0.3 = 21.
	assert.NoError(t, evalAssertion(Assertion{Type: "budget_max", Target: "x", Max: 21.1}, values))
	assert.Error(t, evalAssertion(Assertion{Type: "budget_max", Target: "x", Max: 20.0}, values))
}
