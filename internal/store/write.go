package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/balancelog/internal/record"
)

// IngestBlock persists a parsed block: the summary row, then the ledger
// marker for the block's header line, in a single transaction.
//
// The summary insert uses ON CONFLICT(datetime) DO NOTHING - a timestamp that
// already has a row keeps its first values and inserted is false. The marker
// is written either way, since the header line has now been fully examined.
// Any other failure rolls back both writes.
func (s *Store) IngestBlock(ctx context.Context, b record.ParsedBlock) (inserted bool, err error) {
	rec := b.Record()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("ingest block: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO summary
		(datetime, date, with_balance, without_balance)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(datetime) DO NOTHING
	`,
		rec.DateTime,
		rec.Date,
		rec.WithBalance,
		rec.WithoutBalance,
	)
	if err != nil {
		return false, fmt.Errorf("ingest block: insert summary: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ingest block: rows affected: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO processed_lines (line_hash)
		VALUES (?)
		ON CONFLICT(line_hash) DO NOTHING
	`, record.LineHash(b.Header))
	if err != nil {
		return false, fmt.Errorf("ingest block: insert marker: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("ingest block: commit: %w", err)
	}

	return rowsAffected > 0, nil
}

// WriteRun records a completed ingestion run.
// Uses ON CONFLICT(id) DO NOTHING - writing the same run twice is a no-op.
func (s *Store) WriteRun(ctx context.Context, run record.RunRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingest_runs
		(id, log_path, started_at, finished_at, lines_read, duplicate_lines,
		 blocks_ingested, duplicate_timestamps, malformed_blocks, truncated_blocks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.LogPath,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
		run.LinesRead,
		run.DuplicateLines,
		run.BlocksIngested,
		run.DuplicateTimestamps,
		run.MalformedBlocks,
		run.TruncatedBlocks,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// runTimeLayout is fixed-width so run timestamps sort lexically.
const runTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(runTimeLayout)
}
