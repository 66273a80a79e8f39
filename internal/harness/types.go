package harness

import (
	"github.com/roach88/balancelog/internal/ingest"
	"github.com/roach88/balancelog/internal/record"
)

// RunOutcome is what one ingestion pass produced.
type RunOutcome struct {
	RunID               string `json:"run_id"`
	LinesRead           int64  `json:"lines_read"`
	DuplicateLines      int64  `json:"duplicate_lines"`
	BlocksIngested      int64  `json:"blocks_ingested"`
	DuplicateTimestamps int64  `json:"duplicate_timestamps"`
	MalformedBlocks     int64  `json:"malformed_blocks"`
	TruncatedBlocks     int64  `json:"truncated_blocks"`

	// Error is the fatal error kind, empty if the run succeeded.
	Error string `json:"error,omitempty"`
}

// counters returns the report counters by their JSON names.
func (o RunOutcome) counters() map[string]int64 {
	return map[string]int64{
		"lines_read":           o.LinesRead,
		"duplicate_lines":      o.DuplicateLines,
		"blocks_ingested":      o.BlocksIngested,
		"duplicate_timestamps": o.DuplicateTimestamps,
		"malformed_blocks":     o.MalformedBlocks,
		"truncated_blocks":     o.TruncatedBlocks,
	}
}

func newRunOutcome(r ingest.Report, err error) RunOutcome {
	return RunOutcome{
		RunID:               r.RunID,
		LinesRead:           r.LinesRead,
		DuplicateLines:      r.DuplicateLines,
		BlocksIngested:      r.BlocksIngested,
		DuplicateTimestamps: r.DuplicateTimestamps,
		MalformedBlocks:     r.MalformedBlocks,
		TruncatedBlocks:     r.TruncatedBlocks,
		Error:               errorKind(err),
	}
}

// errorKind names a run error for expect clauses.
func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case ingest.IsTimestampError(err):
		return ErrorTimestamp
	default:
		return err.Error()
	}
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success.
	// True if every expect clause and assertion matched.
	Pass bool `json:"pass"`

	// Runs holds one outcome per run step, in order.
	Runs []RunOutcome `json:"runs"`

	// Summaries is the final summary table, ordered by datetime.
	Summaries []record.SummaryRecord `json:"summaries"`

	// ProcessedLines is the final size of the ledger.
	ProcessedLines int64 `json:"processed_lines"`

	// RecordedRuns is the number of completed runs in the run history.
	RecordedRuns int64 `json:"recorded_runs"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Runs:      []RunOutcome{},
		Summaries: []record.SummaryRecord{},
		Errors:    []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// summary returns the stored row for datetime.
func (r *Result) summary(datetime string) (record.SummaryRecord, bool) {
	for _, s := range r.Summaries {
		if s.DateTime == datetime {
			return s, true
		}
	}
	return record.SummaryRecord{}, false
}
