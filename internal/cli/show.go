package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/balancelog/internal/record"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <datetime>",
		Short: "Show the summary stored for one timestamp",
		Long: `Show the summary row stored for an exact header timestamp.

The timestamp is given as "YYYY-MM-DD HH:MM:SS". Rows are always stored in
that layout, so use it even when patterns.timestamp_layout is customized.
Exits with code 2 when no row exists.

Example:
  balancelog show "2024-03-15 08:00:00"
  balancelog show "2024-03-15 08:00:00" --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config, summary.db)")

	return cmd
}

func runShow(opts *ShowOptions, datetime string, cmd *cobra.Command) error {
	ctx := context.Background()

	if _, err := time.Parse(record.DateTimeLayout, datetime); err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("invalid datetime %q", datetime), err).
			WithCode(ErrCodeUsage)
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

	summary, err := st.ReadSummary(ctx, datetime)
	if errors.Is(err, sql.ErrNoRows) {
		return WrapExitError(ExitCommandError, fmt.Sprintf("no summary for %s", datetime), err)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read summary", err)
	}

	formatter := opts.formatter(cmd)
	if formatter.JSON() {
		return formatter.Success(summary)
	}

	p := formatter.Printer()
	p.Fprintf(formatter.Writer, "Datetime:        %s\n", summary.DateTime)
	p.Fprintf(formatter.Writer, "Date:            %s\n", summary.Date)
	p.Fprintf(formatter.Writer, "With balance:    %d\n", summary.WithBalance)
	p.Fprintf(formatter.Writer, "Without balance: %d\n", summary.WithoutBalance)
	return nil
}
