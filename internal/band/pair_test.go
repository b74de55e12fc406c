package band

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPairClampsNegativeBound(t *testing.T) {
	tests := []struct {
		name      string
		nominal   float64
		bound     float64
		wantBound float64
	}{
		{"positive bound kept", 10.0, 0.5, 0.5},
		{"zero bound kept", 10.0, 0.0, 0.0},
		{"negative bound clamped", 10.0, -0.5, 0.0},
		{"large negative clamped", -3.0, -1e9, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPair(tt.nominal, tt.bound)
			assert.Equal(t, tt.nominal, p.Nominal)
			assert.Equal(t, tt.wantBound, p.Bound)
		})
	}
}

func TestPairAdd(t *testing.T) {
	a := NewPair(10.0, 0.5)
	b := NewPair(-3.0, 0.25)

	sum := a.Add(b)

	assert.Equal(t, 7.0, sum.Nominal)
	assert.Equal(t, 0.75, sum.Bound)

	// Bit-exact commutativity.
	assert.Equal(t, sum, b.Add(a))
}

func TestPairMulFirstOrder(t *testing.T) {
	a := NewPair(10.0, 0.5)
	b := NewPair(5.0, 0.25)

	prod := a.Mul(b)

	assert.Equal(t, 50.0, prod.Nominal)
	// |10|*0.25 + |5|*0.5 = 2.5 + 2.5
	assert.Equal(t, 5.0, prod.Bound)
	assert.Equal(t, prod, b.Mul(a))
}

func TestPairMulNegativeNominals(t *testing.T) {
	a := NewPair(-4.0, 0.5)
	b := NewPair(2.0, 0.25)

	prod := a.Mul(b)

	assert.Equal(t, -8.0, prod.Nominal)
	// |-4|*0.25 + |2|*0.5 = 1 + 1
	assert.Equal(t, 2.0, prod.Bound)
	assert.GreaterOrEqual(t, prod.Bound, 0.0)
}

func TestPairScale(t *testing.T) {
	p := NewPair(3.0, 0.5)

	assert.Equal(t, Pair{Nominal: 6.0, Bound: 1.0}, p.Scale(2))
	assert.Equal(t, Pair{Nominal: -6.0, Bound: 1.0}, p.Scale(-2))
	assert.Equal(t, Pair{Nominal: 0.0, Bound: 0.0}, p.Scale(0))
}

func TestPairBudget(t *testing.T) {
	assert.Equal(t, 10.5, NewPair(10.0, 0.5).Budget())
	assert.Equal(t, 10.5, NewPair(-10.0, 0.5).Budget())
	assert.Equal(t, 0.0, NewPair(0, 0).Budget())
}

func TestPairBounds(t *testing.T) {
	iv := NewPair(10.0, 0.5).Bounds()
	assert.Equal(t, Interval{Lower: 9.5, Upper: 10.5}, iv)
}

func TestIntervalGap(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want float64
	}{
		{"disjoint", Interval{0, 1}, Interval{3, 4}, 2.0},
		{"disjoint reversed args", Interval{3, 4}, Interval{0, 1}, 2.0},
		{"touching", Interval{0, 1}, Interval{1, 2}, 0.0},
		{"overlapping", Interval{0, 2}, Interval{1, 3}, 0.0},
		{"contained", Interval{0, 10}, Interval{2, 3}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Gap(tt.b))
		})
	}
}

func TestIntervalOverlaps(t *testing.T) {
	assert.True(t, Interval{0, 1}.Overlaps(Interval{1, 2}))
	assert.True(t, Interval{0, 1}.Overlaps(Interval{0.5, 2}))
	// Within numerical slack still counts as contact.
	assert.True(t, Interval{0, 1}.Overlaps(Interval{1 + 1e-12, 2}))
	assert.False(t, Interval{0, 1}.Overlaps(Interval{1.1, 2}))
}
