package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenDeterministicAcrossReset(t *testing.T) {
	g := NewGen(42)

	first := make([]any, 0, 6)
	for i := 0; i < 3; i++ {
		first = append(first, g.Dual(), g.Pair())
	}

	g.Reset()
	for i := 0; i < 3; i++ {
		assert.Equal(t, first[2*i], g.Dual())
		assert.Equal(t, first[2*i+1], g.Pair())
	}
}

func TestGenEqualSeedsEqualStreams(t *testing.T) {
	a, b := NewGen(7), NewGen(7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Dual(), b.Dual())
	}
}

func TestGenDualSatisfiesTriangle(t *testing.T) {
	g := NewGen(1)
	for i := 0; i < 500; i++ {
		d := g.Dual()
		require.True(t, d.TriangleHolds(), "iteration %d: %+v", i, d)
	}
}

func TestGenInvalidDualViolatesTriangle(t *testing.T) {
	g := NewGen(1)
	for i := 0; i < 200; i++ {
		d := g.InvalidDual()
		require.False(t, d.TriangleHolds(), "iteration %d: %+v", i, d)
	}
}

func TestGenBlendInRange(t *testing.T) {
	g := NewGen(3)
	for i := 0; i < 100; i++ {
		lam := g.Blend()
		assert.GreaterOrEqual(t, lam, 0.0)
		assert.Less(t, lam, 1.0)
	}
}

func TestGenPairBoundNonNegative(t *testing.T) {
	g := NewGen(9)
	for i := 0; i < 200; i++ {
		assert.GreaterOrEqual(t, g.Pair().Bound, 0.0)
	}
}
