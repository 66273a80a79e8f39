package ingest

import (
	"time"

	"github.com/roach88/balancelog/internal/record"
)

// Report summarizes one ingestion run.
//
// Only BlocksIngested changes the summary table. The other counters are the
// non-error outcomes: duplicate lines skipped via the ledger, blocks whose
// timestamp already had a row, malformed blocks, and a trailing block cut
// short by the end of the log.
type Report struct {
	RunID               string    `json:"run_id"`
	LogPath             string    `json:"log_path"`
	StartedAt           time.Time `json:"started_at"`
	FinishedAt          time.Time `json:"finished_at"`
	LinesRead           int64     `json:"lines_read"`
	DuplicateLines      int64     `json:"duplicate_lines"`
	BlocksIngested      int64     `json:"blocks_ingested"`
	DuplicateTimestamps int64     `json:"duplicate_timestamps"`
	MalformedBlocks     int64     `json:"malformed_blocks"`
	TruncatedBlocks     int64     `json:"truncated_blocks"`
}

// Duration returns how long the run took.
func (r Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunRecord converts the report into its persisted form.
func (r Report) RunRecord() record.RunRecord {
	return record.RunRecord{
		ID:                  r.RunID,
		LogPath:             r.LogPath,
		StartedAt:           r.StartedAt,
		FinishedAt:          r.FinishedAt,
		LinesRead:           r.LinesRead,
		DuplicateLines:      r.DuplicateLines,
		BlocksIngested:      r.BlocksIngested,
		DuplicateTimestamps: r.DuplicateTimestamps,
		MalformedBlocks:     r.MalformedBlocks,
		TruncatedBlocks:     r.TruncatedBlocks,
	}
}
