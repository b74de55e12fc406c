package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// ReportSnapshot is the golden-file rendering of a scenario result.
// Every float is formatted with six decimals so the bytes are identical
// across runs and platforms; the reconciliation run id is excluded
// because it changes per invocation by design.
type ReportSnapshot struct {
	ScenarioName   string             `json:"scenario_name"`
	Pass           bool               `json:"pass"`
	Failures       []string           `json:"failures,omitempty"`
	Values         []ValueSnapshot    `json:"values,omitempty"`
	Reconciliation *ReconcileSnapshot `json:"reconciliation,omitempty"`
	Merged         *MergedSnapshot    `json:"merged,omitempty"`
}

// ValueSnapshot renders one named dual value.
type ValueSnapshot struct {
	Name            string `json:"name"`
	ActualNominal   string `json:"actual_nominal"`
	Tolerance       string `json:"tolerance"`
	MeasuredNominal string `json:"measured_nominal"`
	Precision       string `json:"precision"`
	TriangleOK      bool   `json:"triangle_ok"`
	TriangleGap     string `json:"triangle_gap"`
}

// ReconcileSnapshot renders a diagnostic result.
type ReconcileSnapshot struct {
	AnchorNominal string             `json:"anchor_nominal"`
	AnchorBound   string             `json:"anchor_bound"`
	Adjusted      []TripleSnapshot   `json:"adjusted"`
	Intervals     []IntervalSnapshot `json:"intervals"`
	Overlap       bool               `json:"overlap"`
	Gap           string             `json:"gap"`
}

// TripleSnapshot renders one adjusted measurement.
type TripleSnapshot struct {
	Name    string `json:"name"`
	Nominal string `json:"nominal"`
	Bound   string `json:"bound"`
}

// IntervalSnapshot renders one reconciled interval.
type IntervalSnapshot struct {
	Name  string `json:"name"`
	Lower string `json:"lower"`
	Upper string `json:"upper"`
}

// MergedSnapshot renders a merge outcome.
type MergedSnapshot struct {
	Nominal string `json:"nominal"`
	Std     string `json:"std"`
	Expand  string `json:"expand"`
	Total   string `json:"total"`
}

// Snapshot converts a scenario result to its golden rendering. Values
// are sorted by name; maps have no stable iteration order.
func Snapshot(scenario *Scenario, result *Result) *ReportSnapshot {
	snap := &ReportSnapshot{
		ScenarioName: scenario.Name,
		Pass:         result.Pass,
		Failures:     result.Failures,
	}

	names := make([]string, 0, len(result.Values))
	for name := range result.Values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := result.Values[name]
		snap.Values = append(snap.Values, ValueSnapshot{
			Name:            name,
			ActualNominal:   f6(v.Actual.Nominal),
			Tolerance:       f6(v.Actual.Bound),
			MeasuredNominal: f6(v.Measured.Nominal),
			Precision:       f6(v.Measured.Bound),
			TriangleOK:      v.TriangleHolds(),
			TriangleGap:     f6(v.TriangleGap()),
		})
	}

	if rec := result.Reconciliation; rec != nil {
		rs := &ReconcileSnapshot{
			AnchorNominal: f6(rec.Anchor.Nominal),
			AnchorBound:   f6(rec.Anchor.Bound),
			Overlap:       rec.Overlap,
			Gap:           f6(rec.Gap),
		}
		for _, m := range rec.Adjusted {
			rs.Adjusted = append(rs.Adjusted, TripleSnapshot{
				Name:    m.Name,
				Nominal: f6(m.Nominal),
				Bound:   f6(m.Bound),
			})
		}
		for _, iv := range rec.Intervals {
			rs.Intervals = append(rs.Intervals, IntervalSnapshot{
				Name:  iv.Name,
				Lower: f6(iv.Interval.Lower),
				Upper: f6(iv.Interval.Upper),
			})
		}
		snap.Reconciliation = rs
	}

	if m := result.Merged; m != nil {
		snap.Merged = &MergedSnapshot{
			Nominal: f6(m.Nominal),
			Std:     f6(m.Std),
			Expand:  f6(m.Expand),
			Total:   f6(m.Total),
		}
	}

	return snap
}

// RunWithGolden executes a scenario and compares its report against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	data, err := marshalSnapshot(Snapshot(scenario, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return nil
}

func marshalSnapshot(snap *ReportSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// f6 renders a float with fixed six-decimal precision. Rounding here
// keeps reports stable: the last-bit noise of chained float operations
// sits far below the sixth decimal for every scenario magnitude in use.
func f6(v float64) string {
	return fmt.Sprintf("%.6f", v)
}
