package reconcile

import "github.com/roach88/dualband/internal/band"

// Merged is the outcome of fusing reconciled measurements into a single
// value at the anchor.
type Merged struct {
	// Nominal is the merged nominal, always the anchor nominal.
	Nominal float64 `json:"nominal"`

	// Std is the standard component: the mean of the adjusted bounds.
	Std float64 `json:"std"`

	// Expand is the epistemic component: half the nominal disagreement
	// scaled by the tensor distance.
	Expand float64 `json:"expand"`

	// Total is Std + Expand.
	Total float64 `json:"total"`

	// Interval is [Nominal - Total, Nominal + Total].
	Interval band.Interval `json:"interval"`
}

// Merge fuses the reconciled measurements into one value at the anchor.
//
// tensorDistance scales how much of the observed disagreement is treated
// as genuine epistemic spread. Zero gives anchor-only reconciliation: the
// merged bound is just the mean adjusted bound.
func (r *Result) Merge(tensorDistance float64) Merged {
	var boundSum float64
	low, high := r.Adjusted[0].Nominal, r.Adjusted[0].Nominal
	for _, m := range r.Adjusted {
		boundSum += m.Bound
		if m.Nominal < low {
			low = m.Nominal
		}
		if m.Nominal > high {
			high = m.Nominal
		}
	}

	std := boundSum / float64(len(r.Adjusted))
	expand := (high - low) / 2 * tensorDistance
	total := std + expand

	return Merged{
		Nominal:  r.Anchor.Nominal,
		Std:      std,
		Expand:   expand,
		Total:    total,
		Interval: band.Interval{Lower: r.Anchor.Nominal - total, Upper: r.Anchor.Nominal + total},
	}
}
