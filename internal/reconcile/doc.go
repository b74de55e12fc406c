// Package reconcile implements the shared-anchor reconciliation
// diagnostic.
//
// Given several independent (name, nominal, bound) measurements, the
// diagnostic computes a common reference anchor, inflates each bound by
// the minimum amount needed to keep the measurement consistent with that
// anchor under the cross-tier triangle inequality, projects each adjusted
// measurement to an interval, and reports whether the intervals touch or
// overlap once reconciled.
//
// Overlap after reconciliation means the apparent tension between the
// measurements was referential, an artifact of incompatible reference
// frames. A remaining gap means the tension is genuine.
//
// The diagnostic always produces a result. An explicit anchor with a
// bound smaller than any input requires simply forces more aggressive
// inflation; that is expected behavior, not an error. The only error
// surface is input shape: empty datasets, mismatched weight counts, and
// degenerate weight sums are rejected with structured DiagnosticErrors.
package reconcile
