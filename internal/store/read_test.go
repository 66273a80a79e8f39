package store

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/balancelog/internal/record"
)

func TestIsProcessed_Unknown(t *testing.T) {
	s := createTestStore(t)

	ok, err := s.IsProcessed(context.Background(), record.LineHash("never seen"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReadSummary_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadSummary(context.Background(), "2024-01-10 12:00:00")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func seedSummaries(t *testing.T, s *Store, datetimes ...string) {
	t.Helper()
	for i, dt := range datetimes {
		_, err := s.IngestBlock(context.Background(), createTestBlock(t, dt, int64(i), int64(i*2)))
		require.NoError(t, err)
	}
}

func TestListSummaries_OrderedByDatetime(t *testing.T) {
	s := createTestStore(t)
	seedSummaries(t, s,
		"2024-01-12 08:00:00",
		"2024-01-10 08:00:00",
		"2024-01-11 08:00:00",
	)

	recs, err := s.ListSummaries(context.Background(), SummaryFilter{})
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "2024-01-10 08:00:00", recs[0].DateTime)
	assert.Equal(t, "2024-01-11 08:00:00", recs[1].DateTime)
	assert.Equal(t, "2024-01-12 08:00:00", recs[2].DateTime)
}

func TestListSummaries_Empty(t *testing.T) {
	s := createTestStore(t)

	recs, err := s.ListSummaries(context.Background(), SummaryFilter{})
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestListSummaries_Filter(t *testing.T) {
	s := createTestStore(t)
	var dts []string
	for d := 1; d <= 10; d++ {
		dts = append(dts, fmt.Sprintf("2024-02-%02d 06:00:00", d))
	}
	seedSummaries(t, s, dts...)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter SummaryFilter
		first  string
		count  int
	}{
		// date is the day before datetime
		{"from", SummaryFilter{From: "2024-02-05"}, "2024-02-06 06:00:00", 5},
		{"to", SummaryFilter{To: "2024-02-02"}, "2024-02-01 06:00:00", 3},
		{"range", SummaryFilter{From: "2024-02-03", To: "2024-02-04"}, "2024-02-04 06:00:00", 2},
		{"limit", SummaryFilter{Limit: 4}, "2024-02-01 06:00:00", 4},
		{"range and limit", SummaryFilter{From: "2024-02-01", Limit: 1}, "2024-02-02 06:00:00", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := s.ListSummaries(ctx, tt.filter)
			require.NoError(t, err)
			require.Len(t, recs, tt.count)
			assert.Equal(t, tt.first, recs[0].DateTime)
		})
	}
}

func TestCounts(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	n, err := s.CountSummaries(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	seedSummaries(t, s, "2024-01-10 12:00:00", "2024-01-11 12:00:00")

	n, err = s.CountSummaries(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.CountProcessedLines(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestListRuns_NewestFirstWithLimit(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		started := base.Add(time.Duration(i) * 500 * time.Millisecond)
		require.NoError(t, s.WriteRun(ctx, record.RunRecord{
			ID:         fmt.Sprintf("run-%d", i),
			LogPath:    "summary.log",
			StartedAt:  started,
			FinishedAt: started,
		}))
	}

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "run-1", runs[1].ID)
	assert.Equal(t, "run-0", runs[2].ID)

	runs, err = s.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-2", runs[0].ID)
}

func TestListRuns_Empty(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}
