package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/balancelog/internal/record"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// RunsResult is the JSON payload of the runs command.
type RunsResult struct {
	Count int                `json:"count"`
	Runs  []record.RunRecord `json:"runs"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show ingestion run history",
		Long: `Show completed ingestion runs, newest first.

Runs that failed part way are not recorded.

Example:
  balancelog runs
  balancelog runs --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config, summary.db)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs (0 for all)")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	cfg, err := opts.loadConfig(ctx)
	if err != nil {
		return err
	}

	st, err := openExistingStore(pick(opts.Database, cfg.Database))
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list runs", err)
	}

	formatter := opts.formatter(cmd)
	if formatter.JSON() {
		return formatter.Success(RunsResult{Count: len(runs), Runs: runs})
	}
	return outputRunsText(formatter, runs)
}

func outputRunsText(f *OutputFormatter, runs []record.RunRecord) error {
	if len(runs) == 0 {
		return f.Success("No runs recorded.")
	}

	p := f.Printer()
	tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tDURATION\tLINES\tINGESTED\tDUP LINES\tDUP TIMESTAMPS\tMALFORMED\tTRUNCATED")
	for _, r := range runs {
		p.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			r.ID,
			r.StartedAt.Format(time.RFC3339),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond),
			r.LinesRead,
			r.BlocksIngested,
			r.DuplicateLines,
			r.DuplicateTimestamps,
			r.MalformedBlocks,
			r.TruncatedBlocks,
		)
	}
	return tw.Flush()
}
