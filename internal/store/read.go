package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/balancelog/internal/record"
)

// IsProcessed reports whether a line hash is in the dedup ledger.
func (s *Store) IsProcessed(ctx context.Context, lineHash string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM processed_lines WHERE line_hash = ?)
	`, lineHash).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check processed line: %w", err)
	}
	return exists, nil
}

// ReadSummary retrieves the summary row for an exact timestamp.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadSummary(ctx context.Context, datetime string) (record.SummaryRecord, error) {
	var rec record.SummaryRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT datetime, date, with_balance, without_balance
		FROM summary
		WHERE datetime = ?
	`, datetime).Scan(&rec.DateTime, &rec.Date, &rec.WithBalance, &rec.WithoutBalance)
	if err != nil {
		return record.SummaryRecord{}, err
	}
	return rec, nil
}

// SummaryFilter narrows ListSummaries. From and To bound the date column
// (inclusive, "YYYY-MM-DD"); empty means unbounded. Limit <= 0 means no limit.
type SummaryFilter struct {
	From  string
	To    string
	Limit int
}

// ListSummaries returns summary rows ordered by datetime ASC.
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListSummaries(ctx context.Context, f SummaryFilter) ([]record.SummaryRecord, error) {
	var (
		where []string
		args  []any
	)
	if f.From != "" {
		where = append(where, "date >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		where = append(where, "date <= ?")
		args = append(args, f.To)
	}

	query := "SELECT datetime, date, with_balance, without_balance FROM summary"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY datetime ASC, id ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	records := []record.SummaryRecord{}
	for rows.Next() {
		var rec record.SummaryRecord
		if err := rows.Scan(&rec.DateTime, &rec.Date, &rec.WithBalance, &rec.WithoutBalance); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}

	return records, nil
}

// CountSummaries returns the number of summary rows.
func (s *Store) CountSummaries(ctx context.Context) (int64, error) {
	return s.count(ctx, "summary")
}

// CountProcessedLines returns the number of ledger markers.
func (s *Store) CountProcessedLines(ctx context.Context) (int64, error) {
	return s.count(ctx, "processed_lines")
}

// count is only called with fixed table names.
func (s *Store) count(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// ListRuns returns recorded runs, newest first. Limit <= 0 means no limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]record.RunRecord, error) {
	query := `
		SELECT id, log_path, started_at, finished_at, lines_read, duplicate_lines,
		       blocks_ingested, duplicate_timestamps, malformed_blocks, truncated_blocks
		FROM ingest_runs
		ORDER BY started_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []record.RunRecord{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// scanRun scans a row into a RunRecord.
func scanRun(rows *sql.Rows) (record.RunRecord, error) {
	var run record.RunRecord
	var startedAt, finishedAt string

	if err := rows.Scan(
		&run.ID, &run.LogPath, &startedAt, &finishedAt,
		&run.LinesRead, &run.DuplicateLines, &run.BlocksIngested,
		&run.DuplicateTimestamps, &run.MalformedBlocks, &run.TruncatedBlocks,
	); err != nil {
		return record.RunRecord{}, fmt.Errorf("scan run: %w", err)
	}

	var err error
	if run.StartedAt, err = time.Parse(runTimeLayout, startedAt); err != nil {
		return record.RunRecord{}, fmt.Errorf("scan run %s: started_at: %w", run.ID, err)
	}
	if run.FinishedAt, err = time.Parse(runTimeLayout, finishedAt); err != nil {
		return record.RunRecord{}, fmt.Errorf("scan run %s: finished_at: %w", run.ID, err)
	}

	return run, nil
}
