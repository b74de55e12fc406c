package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dualband/internal/reconcile"
	"github.com/roach88/dualband/internal/store"
)

// ReconcileOptions holds flags for the reconcile command.
type ReconcileOptions struct {
	*RootOptions
	Weighted       bool    // derive inverse-variance weights from the bounds
	AnchorNominal  float64 // explicit anchor nominal (with --anchor-bound)
	AnchorBound    float64 // explicit anchor bound (with --anchor-nominal)
	TensorDistance float64 // merge expansion distance
	DBPath         string  // persist the run to this store
}

// ReconcileReport is the payload emitted by the reconcile command.
type ReconcileReport struct {
	Result *reconcile.Result `json:"result"`
	Merged *reconcile.Merged `json:"merged,omitempty"`
}

// NewReconcileCommand creates the reconcile command.
func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReconcileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reconcile <dataset.yaml>",
		Short: "Reconcile measurements against a shared anchor",
		Long: `Run the shared-anchor diagnostic over a measurement dataset.

Each measurement's bound is inflated by the minimal amount needed to
reach the anchor, and the reconciled intervals are reported together
with the overlap verdict.

Exit codes:
  0 - Diagnostic completed
  2 - Command error (missing dataset, schema violation, etc.)

Examples:
  dualband reconcile ./measurements.yaml
  dualband reconcile ./measurements.yaml --weighted
  dualband reconcile ./measurements.yaml --tensor-distance 1.0
  dualband reconcile ./measurements.yaml --db runs.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Weighted, "weighted", false, "weight the anchor by inverse variance of the bounds")
	cmd.Flags().Float64Var(&opts.AnchorNominal, "anchor-nominal", 0, "explicit anchor nominal (requires --anchor-bound)")
	cmd.Flags().Float64Var(&opts.AnchorBound, "anchor-bound", 0, "explicit anchor bound (requires --anchor-nominal)")
	cmd.Flags().Float64Var(&opts.TensorDistance, "tensor-distance", 0, "merge the reconciled intervals with this expansion distance")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "persist the run to this SQLite store")

	return cmd
}

func runReconcile(opts *ReconcileOptions, datasetPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	ds, err := LoadDataset(datasetPath)
	if err != nil {
		return outputReconcileError(formatter, err)
	}
	formatter.VerboseLog("Loaded %d measurement(s) from %s", len(ds.Measurements), datasetPath)

	recOpts, err := buildOptions(opts, ds, cmd)
	if err != nil {
		return outputReconcileError(formatter, err)
	}

	result, err := reconcile.Reconcile(ds.Measurements, recOpts)
	if err != nil {
		return outputReconcileError(formatter, &DatasetError{Code: ErrCodeDiagnostic, Message: err.Error()})
	}

	report := &ReconcileReport{Result: result}
	if cmd.Flags().Changed("tensor-distance") {
		merged := result.Merge(opts.TensorDistance)
		report.Merged = &merged
	}

	if opts.DBPath != "" {
		if err := saveRun(cmd.Context(), opts.DBPath, ds.Measurements, result); err != nil {
			return outputReconcileError(formatter, &DatasetError{Code: ErrCodeStoreFailed, Message: err.Error()})
		}
		formatter.VerboseLog("Saved run %s to %s", result.RunID, opts.DBPath)
	}

	if opts.Format == "json" {
		return formatter.Success(report)
	}
	outputReconcileText(formatter, report)
	return nil
}

// buildOptions resolves the weighting and anchor flags against what the
// dataset itself declares. Explicit anchor flags win over a dataset
// anchor; --weighted wins over dataset weights.
func buildOptions(opts *ReconcileOptions, ds *Dataset, cmd *cobra.Command) (reconcile.Options, error) {
	recOpts := reconcile.Options{Weights: ds.Weights, Anchor: ds.Anchor}

	if opts.Weighted {
		weights, err := reconcile.InverseVariance(ds.Measurements)
		if err != nil {
			return reconcile.Options{}, &DatasetError{Code: ErrCodeDiagnostic, Message: err.Error()}
		}
		recOpts.Weights = weights
	}

	nomSet := cmd.Flags().Changed("anchor-nominal")
	boundSet := cmd.Flags().Changed("anchor-bound")
	if nomSet != boundSet {
		return reconcile.Options{}, &DatasetError{
			Code:    ErrCodeGeneric,
			Message: "--anchor-nominal and --anchor-bound must be set together",
		}
	}
	if nomSet {
		recOpts.Anchor = &reconcile.Anchor{Nominal: opts.AnchorNominal, Bound: opts.AnchorBound}
	}

	return recOpts, nil
}

func saveRun(ctx context.Context, path string, inputs []reconcile.Measurement, result *reconcile.Result) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.SaveRun(ctx, inputs, result)
}

func outputReconcileText(formatter *OutputFormatter, report *ReconcileReport) {
	w := formatter.Writer
	result := report.Result

	fmt.Fprintf(w, "Anchor: %.6f ± %.6f\n", result.Anchor.Nominal, result.Anchor.Bound)
	fmt.Fprintln(w, "Adjusted:")
	for _, m := range result.Adjusted {
		fmt.Fprintf(w, "  %s: %.6f ± %.6f\n", m.Name, m.Nominal, m.Bound)
	}
	fmt.Fprintln(w, "Intervals:")
	for _, iv := range result.Intervals {
		fmt.Fprintf(w, "  %s: [%.6f, %.6f]\n", iv.Name, iv.Interval.Lower, iv.Interval.Upper)
	}

	if result.Overlap {
		fmt.Fprintln(w, "✓ Intervals overlap")
	} else {
		fmt.Fprintf(w, "✗ Gap %.6f remains after reconciliation\n", result.Gap)
	}

	if m := report.Merged; m != nil {
		fmt.Fprintf(w, "Merged: %.6f ± %.6f (std %.6f, expand %.6f)\n", m.Nominal, m.Total, m.Std, m.Expand)
	}
}

func outputReconcileError(formatter *OutputFormatter, err error) error {
	var dsErr *DatasetError
	if errors.As(err, &dsErr) {
		_ = formatter.Error(dsErr.Code, dsErr.Message, nil)
		return NewExitError(ExitCommandError, dsErr.Error())
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return NewExitError(ExitCommandError, err.Error())
}
