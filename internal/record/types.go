package record

import "time"

// Layouts used when rendering timestamps and dates for storage.
const (
	DateTimeLayout = "2006-01-02 15:04:05"
	DateLayout     = "2006-01-02"
)

// SummaryRecord is one row of the summary table.
//
// DateTime is the unique key. Date is the calendar day before DateTime's day;
// the summary printed at a given timestamp describes the previous day.
type SummaryRecord struct {
	DateTime       string `json:"datetime"`
	Date           string `json:"date"`
	WithBalance    int64  `json:"with_balance"`
	WithoutBalance int64  `json:"without_balance"`
}

// ParsedBlock is the result of matching a three-line summary block.
type ParsedBlock struct {
	// Header is the raw header line. Its hash becomes the ledger marker.
	Header string

	// Timestamp is the header timestamp interpreted as a naive wall-clock time.
	Timestamp time.Time

	WithBalance    int64
	WithoutBalance int64
}

// Record converts the block into the row persisted for it.
func (b ParsedBlock) Record() SummaryRecord {
	return SummaryRecord{
		DateTime:       b.Timestamp.Format(DateTimeLayout),
		Date:           PreviousDay(b.Timestamp).Format(DateLayout),
		WithBalance:    b.WithBalance,
		WithoutBalance: b.WithoutBalance,
	}
}

// PreviousDay returns midnight of the calendar day before t's day.
func PreviousDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d-1, 0, 0, 0, 0, t.Location())
}

// RunRecord is the persisted outcome of one completed ingestion run.
type RunRecord struct {
	ID                  string    `json:"id"`
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
