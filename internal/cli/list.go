package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/balancelog/internal/record"
	"github.com/roach88/balancelog/internal/store"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Database string
	From     string
	To       string
	Limit    int
}

// ListResult is the JSON payload of the list command.
type ListResult struct {
	Count     int                    `json:"count"`
	Summaries []record.SummaryRecord `json:"summaries"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored summaries",
		Long: `List stored summary rows ordered by timestamp.

--from and --to filter on the summary date (the day the counters describe),
inclusive, in YYYY-MM-DD form.

Example:
  balancelog list
  balancelog list --from 2024-03-01 --to 2024-03-31
  balancelog list --limit 10 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config, summary.db)")
	cmd.Flags().StringVar(&opts.From, "from", "", "earliest summary date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.To, "to", "", "latest summary date to include (YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of rows (0 for all)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	if err := validateDate("--from", opts.From); err != nil {
		return err
	}
	if err := validateDate("--to", opts.To); err != nil {
		return err
	}

	cfg, err := opts.loadConfig(ctx)
	if err != nil {
		return err
	}

	st, err := openExistingStore(pick(opts.Database, cfg.Database))
	if err != nil {
		return err
	}
	defer st.Close()

	summaries, err := st.ListSummaries(ctx, store.SummaryFilter{
		From:  opts.From,
		To:    opts.To,
		Limit: opts.Limit,
	})
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list summaries", err)
	}

	formatter := opts.formatter(cmd)
	if formatter.JSON() {
		return formatter.Success(ListResult{Count: len(summaries), Summaries: summaries})
	}
	return outputListText(formatter, summaries)
}

func outputListText(f *OutputFormatter, summaries []record.SummaryRecord) error {
	if len(summaries) == 0 {
		return f.Success("No summaries found.")
	}

	p := f.Printer()
	tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATETIME\tDATE\tWITH BALANCE\tWITHOUT BALANCE")
	for _, s := range summaries {
		p.Fprintf(tw, "%s\t%s\t%d\t%d\n", s.DateTime, s.Date, s.WithBalance, s.WithoutBalance)
	}
	return tw.Flush()
}

// validateDate rejects a non-empty flag value that is not YYYY-MM-DD.
func validateDate(flag, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(record.DateLayout, value); err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("invalid %s date %q", flag, value), err).
			WithCode(ErrCodeUsage)
	}
	return nil
}
