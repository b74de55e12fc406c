package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/dualband/internal/reconcile"
	"github.com/roach88/dualband/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DBPath string // run store path
	Limit  int    // max runs to list (non-positive = all)
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Inspect stored reconciliation runs",
		Long: `List stored reconciliation runs, or show one run in full.

Runs are listed in insertion order, oldest first. With a run id, the
complete stored run is shown: inputs, anchor, adjusted bounds, and the
reconciled intervals.

Exit codes:
  0 - Success
  2 - Command error (store not found, unknown run id, etc.)

Examples:
  dualband history --db runs.db
  dualband history --db runs.db --limit 10
  dualband history --db runs.db 4f7c2a1e-... --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "run store path (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum runs to list (0 = all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(opts.DBPath); os.IsNotExist(err) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("store not found: %s", opts.DBPath), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("store not found: %s", opts.DBPath))
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening store", err)
	}
	defer st.Close()

	if len(args) == 1 {
		return showRun(formatter, st, args[0], cmd)
	}
	return listRuns(formatter, st, opts, cmd)
}

func showRun(formatter *OutputFormatter, st *store.Store, id string, cmd *cobra.Command) error {
	rec, err := st.GetRun(cmd.Context(), id)
	if errors.Is(err, store.ErrRunNotFound) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("run not found: %s", id), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", id))
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading run", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(runPayload(rec))
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Run %s (seq %d)\n", rec.Result.RunID, rec.Seq)
	fmt.Fprintln(w, "Inputs:")
	for _, m := range rec.Inputs {
		fmt.Fprintf(w, "  %s: %.6f ± %.6f\n", m.Name, m.Nominal, m.Bound)
	}
	outputReconcileText(formatter, &ReconcileReport{Result: &rec.Result})
	return nil
}

func listRuns(formatter *OutputFormatter, st *store.Store, opts *HistoryOptions, cmd *cobra.Command) error {
	recs, err := st.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "listing runs", err)
	}

	if formatter.Format == "json" {
		payloads := make([]historyPayload, 0, len(recs))
		for i := range recs {
			payloads = append(payloads, runPayload(&recs[i]))
		}
		return formatter.Success(payloads)
	}

	w := formatter.Writer
	if len(recs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, rec := range recs {
		verdict := "overlap"
		if !rec.Result.Overlap {
			verdict = fmt.Sprintf("gap %.6f", rec.Result.Gap)
		}
		fmt.Fprintf(w, "%4d  %s  anchor %.6f ± %.6f  %d input(s)  %s\n",
			rec.Seq, rec.Result.RunID, rec.Result.Anchor.Nominal, rec.Result.Anchor.Bound,
			len(rec.Inputs), verdict)
	}
	return nil
}

// historyPayload is the JSON rendering of one stored run.
type historyPayload struct {
	Seq    int64                   `json:"seq"`
	Inputs []reconcile.Measurement `json:"inputs"`
	Result reconcile.Result        `json:"result"`
}

func runPayload(rec *store.RunRecord) historyPayload {
	return historyPayload{Seq: rec.Seq, Inputs: rec.Inputs, Result: rec.Result}
}
