package reconcile

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/dualband/internal/band"
)

// Measurement is one named single-tier input to the diagnostic.
type Measurement struct {
	Name    string  `json:"name"`
	Nominal float64 `json:"nominal"`
	Bound   float64 `json:"bound"`
}

// Pair returns the measurement's value as an algebra Pair, with the
// bound clamped non-negative under the standard construction policy.
func (m Measurement) Pair() band.Pair {
	return band.NewPair(m.Nominal, m.Bound)
}

// Anchor is the shared reference every measurement is reconciled
// against.
type Anchor struct {
	Nominal float64 `json:"nominal"`
	Bound   float64 `json:"bound"`
}

// Options configures a reconciliation run.
type Options struct {
	// Weights, when non-nil, selects the weighted-mean anchor nominal.
	// Must have one weight per measurement. Typically inverse-variance
	// weights; see InverseVariance.
	Weights []float64

	// Anchor, when non-nil, bypasses anchor computation entirely. An
	// anchor tighter than the inputs require just inflates bounds more
	// aggressively.
	Anchor *Anchor
}

// NamedInterval is a measurement's reconciled interval.
type NamedInterval struct {
	Name     string        `json:"name"`
	Interval band.Interval `json:"interval"`
}

// Result is the diagnostic output. It is derived and non-persistent; the
// store package can record it, but the diagnostic itself keeps no state
// between invocations.
type Result struct {
	// RunID uniquely identifies this invocation.
	RunID string `json:"run_id"`

	// Anchor is the shared reference used for reconciliation.
	Anchor Anchor `json:"anchor"`

	// Adjusted holds each input with its minimally inflated bound.
	Adjusted []Measurement `json:"adjusted"`

	// Intervals holds each adjusted measurement projected to
	// [n - (u0+u'), n + (u0+u')].
	Intervals []NamedInterval `json:"intervals"`

	// Overlap reports whether all intervals touch or intersect within
	// numerical slack.
	Overlap bool `json:"overlap"`

	// Gap is the widest break between neighboring intervals once sorted,
	// 0 when they all touch or overlap. Positive means a genuine disjoint
	// gap survived reconciliation.
	Gap float64 `json:"gap"`
}

// Reconcile runs the shared-anchor diagnostic over the measurements.
//
// Anchor nominal: arithmetic mean of input nominals, or the weighted mean
// when Options.Weights is set, or Options.Anchor verbatim. Anchor bound:
// mean of input bounds when computed (an aggregation choice, not a
// derived minimum).
//
// Each bound is then inflated by exactly the shortfall d - (u0 + u) when
// the measurement sits farther from the anchor than the triangle
// inequality allows, and left untouched otherwise. Never more.
//
// Negative input bounds are clamped to zero, matching Pair construction.
func Reconcile(measurements []Measurement, opts Options) (*Result, error) {
	if len(measurements) == 0 {
		return nil, newDiagnosticError(ErrCodeEmptyDataset, "no measurements supplied")
	}

	ms := make([]Measurement, len(measurements))
	for i, m := range measurements {
		p := m.Pair()
		ms[i] = Measurement{
			// NFC so visually identical names compare and sort identically
			// in reports and store keys.
			Name:    norm.NFC.String(m.Name),
			Nominal: p.Nominal,
			Bound:   p.Bound,
		}
	}

	anchor, err := computeAnchor(ms, opts)
	if err != nil {
		return nil, err
	}

	adjusted := make([]Measurement, len(ms))
	intervals := make([]NamedInterval, len(ms))
	for i, m := range ms {
		d := math.Abs(m.Nominal - anchor.Nominal)
		bound := m.Bound
		if d > anchor.Bound+bound {
			// Minimal inflation: make the inequality an equality.
			bound += d - (anchor.Bound + bound)
		}
		adjusted[i] = Measurement{Name: m.Name, Nominal: m.Nominal, Bound: bound}

		reach := anchor.Bound + bound
		intervals[i] = NamedInterval{
			Name:     m.Name,
			Interval: band.Interval{Lower: m.Nominal - reach, Upper: m.Nominal + reach},
		}
	}

	overlap, gap := checkOverlap(intervals)

	return &Result{
		RunID:     uuid.NewString(),
		Anchor:    anchor,
		Adjusted:  adjusted,
		Intervals: intervals,
		Overlap:   overlap,
		Gap:       gap,
	}, nil
}

// Pairwise reconciles exactly two measurements, the common case.
func Pairwise(n1, u1, n2, u2 float64) (*Result, error) {
	return Reconcile([]Measurement{
		{Name: "dataset-1", Nominal: n1, Bound: u1},
		{Name: "dataset-2", Nominal: n2, Bound: u2},
	}, Options{})
}

// InverseVariance returns 1/u^2 weights for the measurements, the
// standard weighting for combining inputs of different precision. A zero
// bound has no finite weight and is rejected.
func InverseVariance(measurements []Measurement) ([]float64, error) {
	weights := make([]float64, len(measurements))
	for i, m := range measurements {
		bound := math.Max(0, m.Bound)
		if bound == 0 {
			return nil, &DiagnosticError{
				Code:        ErrCodeZeroBound,
				Message:     "inverse-variance weighting requires a positive bound",
				Measurement: m.Name,
			}
		}
		weights[i] = 1 / (bound * bound)
	}
	return weights, nil
}

func computeAnchor(ms []Measurement, opts Options) (Anchor, error) {
	if opts.Anchor != nil {
		a := *opts.Anchor
		a.Bound = math.Max(0, a.Bound)
		return a, nil
	}

	var nominal float64
	if opts.Weights == nil {
		for _, m := range ms {
			nominal += m.Nominal
		}
		nominal /= float64(len(ms))
	} else {
		if len(opts.Weights) != len(ms) {
			return Anchor{}, newDiagnosticError(ErrCodeWeightMismatch,
				fmt.Sprintf("%d weights for %d measurements", len(opts.Weights), len(ms)))
		}
		var weightSum, weighted float64
		for i, m := range ms {
			weightSum += opts.Weights[i]
			weighted += opts.Weights[i] * m.Nominal
		}
		if weightSum == 0 {
			return Anchor{}, newDiagnosticError(ErrCodeZeroWeightSum, "weights sum to zero")
		}
		nominal = weighted / weightSum
	}

	var boundSum float64
	for _, m := range ms {
		boundSum += m.Bound
	}
	return Anchor{Nominal: nominal, Bound: boundSum / float64(len(ms))}, nil
}

// checkOverlap decides whether every pair of intervals touches or
// intersects. In one dimension that holds exactly when the largest lower
// bound does not exceed the smallest upper bound, so no pair enumeration
// is needed. The reported gap is the shortfall between those two
// extremes: the widening required before every pair would touch.
func checkOverlap(intervals []NamedInterval) (bool, float64) {
	if len(intervals) < 2 {
		return true, 0
	}

	maxLower := math.Inf(-1)
	minUpper := math.Inf(1)
	for _, iv := range intervals {
		maxLower = math.Max(maxLower, iv.Interval.Lower)
		minUpper = math.Min(minUpper, iv.Interval.Upper)
	}

	if gap := maxLower - minUpper; gap > band.Slack {
		return false, gap
	}
	return true, 0
}
