package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/balancelog/internal/block"
	"github.com/roach88/balancelog/internal/ingest"
)

// IngestOptions holds flags for the ingest command.
type IngestOptions struct {
	*RootOptions
	Database string
	LogFile  string

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs ingest.RunIDGenerator

	// Clock allows overriding the wall clock (for testing).
	// If nil, defaults to time.Now.
	Clock func() time.Time
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	return newIngestCommand(&IngestOptions{RootOptions: rootOpts})
}

func newIngestCommand(opts *IngestOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest summary blocks from a log",
		Long: `Scan the log from the start and store every summary block not seen before.

A block is a "Summary for <YYYY-MM-DD HH:MM:SS>" header followed by
"Total with balance: N" and "Total without balance: N". Each stored row is
dated the day before its header timestamp. Headers already in the ledger are
skipped, and a timestamp that already has a row keeps its first values.

Example:
  balancelog ingest
  balancelog ingest --db ./summary.db --log /var/log/app/summary.log
  balancelog ingest --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config, summary.db)")
	cmd.Flags().StringVar(&opts.LogFile, "log", "", "path to the log to ingest (default from config, summary.log)")

	return cmd
}

func runIngest(opts *IngestOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := opts.formatter(cmd)

	cfg, err := opts.loadConfig(ctx)
	if err != nil {
		return err
	}
	dbPath := pick(opts.Database, cfg.Database)
	logPath := pick(opts.LogFile, cfg.LogFile)

	parser, err := block.NewParser(cfg.Patterns)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid block patterns", err).WithCode(ErrCodeConfig)
	}

	formatter.VerboseLog("Opening database: %s", dbPath)
	st, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	ingestOpts := []ingest.Option{
		ingest.WithParser(parser),
		ingest.WithLogger(opts.newLogger(cfg, formatter.GetErrWriter())),
	}
	if opts.RunIDs != nil {
		ingestOpts = append(ingestOpts, ingest.WithRunIDGenerator(opts.RunIDs))
	}
	if opts.Clock != nil {
		ingestOpts = append(ingestOpts, ingest.WithClock(opts.Clock))
	}

	report, err := ingest.New(st, ingestOpts...).IngestFile(ctx, logPath)
	if err != nil {
		if errors.Is(err, ingest.ErrSourceUnavailable) {
			return WrapExitError(ExitCommandError, "failed to open log", err)
		}
		return WrapExitError(ExitFailure, "ingestion failed", err)
	}

	if formatter.JSON() {
		return formatter.Success(report)
	}
	return outputIngestText(formatter, report)
}

func outputIngestText(f *OutputFormatter, r ingest.Report) error {
	if err := f.Success("Processing complete."); err != nil {
		return err
	}
	if !f.Verbose {
		return nil
	}

	p := f.Printer()
	p.Fprintf(f.Writer, "  Lines read: %d\n", r.LinesRead)
	p.Fprintf(f.Writer, "  Blocks ingested: %d\n", r.BlocksIngested)
	p.Fprintf(f.Writer, "  Duplicate lines: %d\n", r.DuplicateLines)
	p.Fprintf(f.Writer, "  Duplicate timestamps: %d\n", r.DuplicateTimestamps)
	p.Fprintf(f.Writer, "  Malformed blocks: %d\n", r.MalformedBlocks)
	p.Fprintf(f.Writer, "  Truncated blocks: %d\n", r.TruncatedBlocks)
	return nil
}
