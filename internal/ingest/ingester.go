package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/roach88/balancelog/internal/block"
	"github.com/roach88/balancelog/internal/record"
	"github.com/roach88/balancelog/internal/source"
)

// Store is the persistence the ingester needs. Implemented by *store.Store.
type Store interface {
	// IsProcessed reports whether a line hash is in the dedup ledger.
	IsProcessed(ctx context.Context, lineHash string) (bool, error)

	// IngestBlock writes the block's summary row (insert-or-ignore) and the
	// header's ledger marker. inserted is false for a duplicate timestamp.
	IngestBlock(ctx context.Context, b record.ParsedBlock) (inserted bool, err error)

	// WriteRun records a completed run.
	WriteRun(ctx context.Context, run record.RunRecord) error
}

// Ingester runs the ingestion loop against an injected store.
//
// An Ingester holds no per-run state and may be reused for many runs, but
// runs must not overlap: the loop assumes it is the only writer.
type Ingester struct {
	store  Store
	parser *block.Parser
	runIDs RunIDGenerator
	now    func() time.Time
	log    zerolog.Logger
}

// Option configures an Ingester.
type Option func(*Ingester)

// WithParser sets the block parser. Default: block.Default().
func WithParser(p *block.Parser) Option {
	return func(i *Ingester) {
		i.parser = p
	}
}

// WithRunIDGenerator sets the run ID source. Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(i *Ingester) {
		i.runIDs = g
	}
}

// WithClock sets the wall clock used for run start/finish times.
func WithClock(now func() time.Time) Option {
	return func(i *Ingester) {
		i.now = now
	}
}

// WithLogger sets the logger. Default: disabled.
func WithLogger(l zerolog.Logger) Option {
	return func(i *Ingester) {
		i.log = l
	}
}

// New creates an Ingester writing to s.
func New(s Store, opts ...Option) *Ingester {
	i := &Ingester{
		store:  s,
		parser: block.Default(),
		runIDs: UUIDv7Generator{},
		now:    time.Now,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// IngestFile opens the log at path and runs the loop over it.
// An unopenable file fails with ErrSourceUnavailable before anything is read.
func (i *Ingester) IngestFile(ctx context.Context, path string) (Report, error) {
	src, err := source.OpenFile(path)
	if err != nil {
		return Report{}, err
	}
	defer src.Close()

	return i.Run(ctx, src)
}

// pathed is implemented by sources that know where they read from.
type pathed interface {
	Path() string
}

// Run ingests every block in src and records the run.
//
// On a fatal error the returned Report holds the counts up to the failure
// and the error is a *RunError.
func (i *Ingester) Run(ctx context.Context, src source.LineSource) (Report, error) {
	r := &run{
		Ingester: i,
		src:      src,
		report: Report{
			RunID:     i.runIDs.Generate(),
			StartedAt: i.now(),
		},
	}
	if p, ok := src.(pathed); ok {
		r.report.LogPath = p.Path()
	}
	r.log = i.log.With().Str("run_id", r.report.RunID).Logger()

	r.log.Info().Str("log_path", r.report.LogPath).Msg("ingestion started")

	if err := r.loop(ctx); err != nil {
		r.report.FinishedAt = i.now()
		r.log.Error().Err(err).Int64("line", r.report.LinesRead).Msg("ingestion failed")
		return r.report, &RunError{RunID: r.report.RunID, Line: r.report.LinesRead, Err: err}
	}

	r.report.FinishedAt = i.now()
	if err := i.store.WriteRun(ctx, r.report.RunRecord()); err != nil {
		return r.report, &RunError{RunID: r.report.RunID, Err: err}
	}

	r.log.Info().
		Int64("lines_read", r.report.LinesRead).
		Int64("duplicate_lines", r.report.DuplicateLines).
		Int64("blocks_ingested", r.report.BlocksIngested).
		Int64("duplicate_timestamps", r.report.DuplicateTimestamps).
		Int64("malformed_blocks", r.report.MalformedBlocks).
		Int64("truncated_blocks", r.report.TruncatedBlocks).
		Dur("duration", r.report.Duration()).
		Msg("ingestion complete")

	return r.report, nil
}

// run is the state of a single pass over a source.
type run struct {
	*Ingester
	src    source.LineSource
	report Report
	log    zerolog.Logger
}

// next reads one line. ok is false at end of input.
func (r *run) next(ctx context.Context) (line string, ok bool, err error) {
	line, err = r.src.Next(ctx)
	if errors.Is(err, io.EOF) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read line: %w", err)
	}
	r.report.LinesRead++
	return line, true, nil
}

func (r *run) loop(ctx context.Context) error {
	for {
		line, ok, err := r.next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		seen, err := r.store.IsProcessed(ctx, record.LineHash(line))
		if err != nil {
			return err
		}
		if seen {
			r.report.DuplicateLines++
			continue
		}

		if !r.parser.MatchHeader(line) {
			continue
		}
		headerAt := r.report.LinesRead

		withLine, ok, err := r.next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			r.truncated(headerAt)
			return nil
		}
		withoutLine, ok, err := r.next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			r.truncated(headerAt)
			return nil
		}

		b, err := r.parser.TryParse(line, withLine, withoutLine)
		if err != nil {
			return err
		}
		if b == nil {
			r.report.MalformedBlocks++
			r.log.Debug().Int64("line", headerAt).Msg("malformed block discarded")
			continue
		}

		if err := r.ingest(ctx, *b, headerAt); err != nil {
			return err
		}
	}
}

func (r *run) ingest(ctx context.Context, b record.ParsedBlock, headerAt int64) error {
	inserted, err := r.store.IngestBlock(ctx, b)
	if err != nil {
		return err
	}

	rec := b.Record()
	if !inserted {
		r.report.DuplicateTimestamps++
		r.log.Debug().Int64("line", headerAt).Str("datetime", rec.DateTime).Msg("timestamp already stored, block ignored")
		return nil
	}

	r.report.BlocksIngested++
	r.log.Debug().
		Int64("line", headerAt).
		Str("datetime", rec.DateTime).
		Int64("with_balance", rec.WithBalance).
		Int64("without_balance", rec.WithoutBalance).
		Msg("block ingested")
	return nil
}

func (r *run) truncated(headerAt int64) {
	r.report.TruncatedBlocks++
	r.log.Debug().Int64("line", headerAt).Msg("trailing block incomplete, left for a later run")
}
