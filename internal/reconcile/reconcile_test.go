package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dualband/internal/band"
)

// The two-measurement tension scenario used throughout: a precise low
// measurement against a looser high one.
func tensionPair() []Measurement {
	return []Measurement{
		{Name: "A", Nominal: 67.3217, Bound: 0.3963},
		{Name: "B", Nominal: 72.6744, Bound: 0.9029},
	}
}

func TestReconcileReferenceScenario(t *testing.T) {
	res, err := Reconcile(tensionPair(), Options{})
	require.NoError(t, err)

	assert.InDelta(t, 69.99805, res.Anchor.Nominal, 1e-9)
	// Mean of input bounds.
	assert.InDelta(t, 0.6496, res.Anchor.Bound, 1e-9)

	// Both measurements sit 2.67635 from the anchor, beyond what the
	// anchor bound plus their own bound allows, so both inflate to
	// d - u0 = 2.02675.
	require.Len(t, res.Adjusted, 2)
	assert.InDelta(t, 2.02675, res.Adjusted[0].Bound, 1e-9)
	assert.InDelta(t, 2.02675, res.Adjusted[1].Bound, 1e-9)

	// The intervals meet exactly at the anchor.
	require.Len(t, res.Intervals, 2)
	assert.InDelta(t, res.Anchor.Nominal, res.Intervals[0].Interval.Upper, 1e-9)
	assert.InDelta(t, res.Anchor.Nominal, res.Intervals[1].Interval.Lower, 1e-9)

	assert.True(t, res.Overlap)
	assert.Equal(t, 0.0, res.Gap)
}

func TestReconcileInflationIsMinimal(t *testing.T) {
	res, err := Reconcile(tensionPair(), Options{})
	require.NoError(t, err)

	// Inflation makes the triangle inequality an equality, never more:
	// each adjusted reach lands exactly on the distance to the anchor.
	for i, m := range res.Adjusted {
		d := res.Anchor.Nominal - m.Nominal
		if d < 0 {
			d = -d
		}
		assert.InDelta(t, d, res.Anchor.Bound+m.Bound, 1e-9, "measurement %d", i)
	}
}

func TestReconcileNoInflationWhenConsistent(t *testing.T) {
	ms := []Measurement{
		{Name: "close-1", Nominal: 10.0, Bound: 1.0},
		{Name: "close-2", Nominal: 10.5, Bound: 1.0},
	}

	res, err := Reconcile(ms, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1.0, res.Adjusted[0].Bound)
	assert.Equal(t, 1.0, res.Adjusted[1].Bound)
	assert.True(t, res.Overlap)
	assert.Equal(t, 0.0, res.Gap)
}

func TestReconcileExplicitAnchor(t *testing.T) {
	res, err := Reconcile(tensionPair(), Options{
		Anchor: &Anchor{Nominal: 70.0, Bound: 0.1},
	})
	require.NoError(t, err)

	assert.Equal(t, 70.0, res.Anchor.Nominal)
	assert.Equal(t, 0.1, res.Anchor.Bound)

	// A tight anchor bound just inflates harder; it is not an error.
	assert.Greater(t, res.Adjusted[0].Bound, 2.02675)
	assert.True(t, res.Overlap)
}

func TestReconcileExplicitAnchorNegativeBoundClamped(t *testing.T) {
	res, err := Reconcile(tensionPair(), Options{
		Anchor: &Anchor{Nominal: 70.0, Bound: -1.0},
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.Anchor.Bound)
}

func TestReconcileIntervalsAlwaysReachAnchor(t *testing.T) {
	// Minimal inflation guarantees every reconciled interval contains
	// the anchor nominal, so reconciled families always overlap.
	for _, anchor := range []float64{60, 67.3217, 70, 80} {
		res, err := Reconcile(tensionPair(), Options{
			Anchor: &Anchor{Nominal: anchor, Bound: 0.05},
		})
		require.NoError(t, err)

		for _, iv := range res.Intervals {
			assert.LessOrEqual(t, iv.Interval.Lower, anchor+band.Slack)
			assert.GreaterOrEqual(t, iv.Interval.Upper, anchor-band.Slack)
		}
		assert.True(t, res.Overlap, "anchor %v", anchor)
	}
}

func TestReconcileWeighted(t *testing.T) {
	ms := tensionPair()
	weights, err := InverseVariance(ms)
	require.NoError(t, err)

	weighted, err := Reconcile(ms, Options{Weights: weights})
	require.NoError(t, err)
	unweighted, err := Reconcile(ms, Options{})
	require.NoError(t, err)

	// Inverse-variance weighting pulls the anchor toward the more
	// precise measurement.
	assert.Less(t, weighted.Anchor.Nominal, unweighted.Anchor.Nominal)
	assert.Greater(t, weighted.Anchor.Nominal, ms[0].Nominal)
	// The anchor bound aggregation is unaffected by weights.
	assert.Equal(t, unweighted.Anchor.Bound, weighted.Anchor.Bound)
}

func TestReconcileUniformWeightsMatchUnweighted(t *testing.T) {
	ms := tensionPair()

	weighted, err := Reconcile(ms, Options{Weights: []float64{1, 1}})
	require.NoError(t, err)
	unweighted, err := Reconcile(ms, Options{})
	require.NoError(t, err)

	assert.InDelta(t, unweighted.Anchor.Nominal, weighted.Anchor.Nominal, 1e-12)
}

func TestReconcileNegativeBoundClamped(t *testing.T) {
	ms := []Measurement{
		{Name: "neg", Nominal: 10.0, Bound: -0.5},
		{Name: "pos", Nominal: 10.2, Bound: 0.5},
	}

	res, err := Reconcile(ms, Options{})
	require.NoError(t, err)

	// Clamped to zero before anchoring, so the anchor bound is 0.25.
	assert.InDelta(t, 0.25, res.Anchor.Bound, 1e-12)
	assert.GreaterOrEqual(t, res.Adjusted[0].Bound, 0.0)
}

func TestReconcileNormalizesNames(t *testing.T) {
	// Decomposed e + combining acute composes to the same name as the
	// precomposed form.
	ms := []Measurement{
		{Name: "café", Nominal: 10.0, Bound: 1.0},
		{Name: "café-2", Nominal: 10.5, Bound: 1.0},
	}

	res, err := Reconcile(ms, Options{})
	require.NoError(t, err)

	assert.Equal(t, "café", res.Adjusted[0].Name)
}

func TestReconcileSingleMeasurement(t *testing.T) {
	res, err := Reconcile([]Measurement{{Name: "only", Nominal: 5.0, Bound: 0.1}}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 5.0, res.Anchor.Nominal)
	assert.True(t, res.Overlap)
	assert.Equal(t, 0.0, res.Gap)
}

func TestReconcileRunIDsUnique(t *testing.T) {
	a, err := Reconcile(tensionPair(), Options{})
	require.NoError(t, err)
	b, err := Reconcile(tensionPair(), Options{})
	require.NoError(t, err)

	assert.NotEmpty(t, a.RunID)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestPairwise(t *testing.T) {
	res, err := Pairwise(67.3217, 0.3963, 72.6744, 0.9029)
	require.NoError(t, err)

	assert.InDelta(t, 69.99805, res.Anchor.Nominal, 1e-9)
	assert.True(t, res.Overlap)
}

func TestReconcileInputShapeErrors(t *testing.T) {
	tests := []struct {
		name     string
		ms       []Measurement
		opts     Options
		wantCode DiagnosticErrorCode
	}{
		{"empty dataset", nil, Options{}, ErrCodeEmptyDataset},
		{"weight mismatch", tensionPair(), Options{Weights: []float64{1}}, ErrCodeWeightMismatch},
		{"zero weight sum", tensionPair(), Options{Weights: []float64{1, -1}}, ErrCodeZeroWeightSum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Reconcile(tt.ms, tt.opts)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, IsInputShapeError(err))
			assert.Equal(t, tt.wantCode, CodeOf(err))
		})
	}
}

func TestInverseVariance(t *testing.T) {
	weights, err := InverseVariance(tensionPair())
	require.NoError(t, err)
	require.Len(t, weights, 2)

	assert.InDelta(t, 1/(0.3963*0.3963), weights[0], 1e-9)
	assert.InDelta(t, 1/(0.9029*0.9029), weights[1], 1e-9)
	assert.Greater(t, weights[0], weights[1])
}

func TestInverseVarianceZeroBound(t *testing.T) {
	_, err := InverseVariance([]Measurement{{Name: "exact", Nominal: 1.0, Bound: 0}})

	require.Error(t, err)
	assert.Equal(t, ErrCodeZeroBound, CodeOf(err))
	assert.Contains(t, err.Error(), "exact")
}

func TestCheckOverlap(t *testing.T) {
	iv := func(name string, lo, hi float64) NamedInterval {
		return NamedInterval{Name: name, Interval: band.Interval{Lower: lo, Upper: hi}}
	}

	tests := []struct {
		name        string
		intervals   []NamedInterval
		wantOverlap bool
		wantGap     float64
	}{
		{"single", []NamedInterval{iv("a", 0, 1)}, true, 0},
		{"touching", []NamedInterval{iv("a", 0, 1), iv("b", 1, 2)}, true, 0},
		{"disjoint", []NamedInterval{iv("a", 0, 1), iv("b", 3, 4)}, false, 2},
		{"contained", []NamedInterval{iv("a", 0, 10), iv("b", 2, 3), iv("c", 2.5, 6)}, true, 0},
		{
			// Chain-connected but not pairwise: a-b and b-c touch while
			// a and c stay apart.
			"chain without pairwise",
			[]NamedInterval{iv("a", 0, 5), iv("b", 1, 6), iv("c", 5.5, 7)},
			false, 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overlap, gap := checkOverlap(tt.intervals)
			assert.Equal(t, tt.wantOverlap, overlap)
			assert.InDelta(t, tt.wantGap, gap, 1e-12)
		})
	}
}
