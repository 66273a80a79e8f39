package block

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryParse_EndToEndExample(t *testing.T) {
	p := Default()

	b, err := p.TryParse(
		"Summary for 2024-01-10 12:00:00",
		"Total with balance: 5",
		"Total without balance: 3",
	)
	require.NoError(t, err)
	require.NotNil(t, b)

	rec := b.Record()
	assert.Equal(t, "2024-01-10 12:00:00", rec.DateTime)
	assert.Equal(t, "2024-01-09", rec.Date)
	assert.Equal(t, int64(5), rec.WithBalance)
	assert.Equal(t, int64(3), rec.WithoutBalance)
}

func TestTryParse_SurroundingTextIgnored(t *testing.T) {
	p := Default()

	b, err := p.TryParse(
		"[INFO] 08:00 Summary for 2024-03-15 08:00:00 (nightly)",
		"[INFO] Total with balance: 42 accounts",
		"[INFO] Total without balance: 7 accounts",
	)
	require.NoError(t, err)
	require.NotNil(t, b)

	assert.Equal(t, "[INFO] 08:00 Summary for 2024-03-15 08:00:00 (nightly)", b.Header)
	assert.Equal(t, time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC), b.Timestamp)
	assert.Equal(t, int64(42), b.WithBalance)
	assert.Equal(t, int64(7), b.WithoutBalance)
	assert.Equal(t, "2024-03-14", b.Record().Date)
}

func TestTryParse_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		with    string
		without string
	}{
		{"no header", "nothing here", "Total with balance: 1", "Total without balance: 2"},
		{"short timestamp", "Summary for 2024-01-10 12:00", "Total with balance: 1", "Total without balance: 2"},
		{"bad first value line", "Summary for 2024-01-10 12:00:00", "Total balance: 1", "Total without balance: 2"},
		{"bad second value line", "Summary for 2024-01-10 12:00:00", "Total with balance: 1", "Total with balance: 2"},
		{"value lines swapped", "Summary for 2024-01-10 12:00:00", "Total without balance: 2", "Total with balance: 1"},
		{"both value lines bad", "Summary for 2024-01-10 12:00:00", "foo", "bar"},
	}

	p := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := p.TryParse(tt.header, tt.with, tt.without)
			assert.NoError(t, err)
			assert.Nil(t, b)
		})
	}
}

func TestTryParse_InvalidCalendarDateIsError(t *testing.T) {
	p := Default()

	b, err := p.TryParse(
		"Summary for 2024-01-32 12:00:00",
		"Total with balance: 5",
		"Total without balance: 3",
	)
	require.Error(t, err)
	assert.Nil(t, b)

	var tpe *TimestampParseError
	require.True(t, errors.As(err, &tpe))
	assert.Equal(t, "2024-01-32 12:00:00", tpe.Value)
	assert.Equal(t, "Summary for 2024-01-32 12:00:00", tpe.Line)
}

func TestTryParse_LeapSecondIsError(t *testing.T) {
	header := "Summary for 2024-06-30 23:59:60"
	b, err := Default().TryParse(header, "Total with balance: 1", "Total without balance: 2")

	assert.Nil(t, b)
	var tpe *TimestampParseError
	require.ErrorAs(t, err, &tpe)
	assert.Equal(t, "2024-06-30 23:59:60", tpe.Value)
}

func TestTryParse_InvalidTimestampIgnoredWhenBlockMalformed(t *testing.T) {
	p := Default()

	b, err := p.TryParse("Summary for 2024-13-01 00:00:00", "x", "y")
	assert.NoError(t, err)
	assert.Nil(t, b)
}

func TestTryParse_DefaultZeroCoercion(t *testing.T) {
	tests := []struct {
		name string
		with string
		want int64
	}{
		{"non numeric", "Total with balance: abc", 0},
		{"empty", "Total with balance: ", 0},
		{"overflow", "Total with balance: 2147483648", 0},
		{"max int32", "Total with balance: 2147483647", 2147483647},
		{"negative", "Total with balance: -4", 0},
		{"digits then text", "Total with balance: 12abc", 12},
		{"leading zeros", "Total with balance: 007", 7},
	}

	p := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := p.TryParse("Summary for 2024-01-10 12:00:00", tt.with, "Total without balance: 1")
			require.NoError(t, err)
			require.NotNil(t, b)
			assert.Equal(t, tt.want, b.WithBalance)
			assert.Equal(t, int64(1), b.WithoutBalance)
		})
	}
}

func TestMatchHeader(t *testing.T) {
	p := Default()

	assert.True(t, p.MatchHeader("Summary for 2024-01-10 12:00:00"))
	assert.True(t, p.MatchHeader("x Summary for 2024-01-10 12:00:00 y"))
	assert.True(t, p.MatchHeader("Summary for 2024-99-99 99:99:99"), "header match is syntactic")
	assert.False(t, p.MatchHeader("summary for 2024-01-10 12:00:00"))
	assert.False(t, p.MatchHeader("Total with balance: 5"))
	assert.False(t, p.MatchHeader(""))
}

func TestNewParser_CustomPatterns(t *testing.T) {
	p, err := NewParser(Patterns{
		Header:          `Report @ (\d{2}/\d{2}/\d{4} \d{2}:\d{2})`,
		WithBalance:     `funded=(\S+)`,
		WithoutBalance:  `empty=(\S+)`,
		TimestampLayout: "02/01/2006 15:04",
	})
	require.NoError(t, err)

	b, err := p.TryParse("Report @ 15/03/2024 08:30", "funded=10", "empty=x")
	require.NoError(t, err)
	require.NotNil(t, b)

	rec := b.Record()
	assert.Equal(t, "2024-03-15 08:30:00", rec.DateTime)
	assert.Equal(t, "2024-03-14", rec.Date)
	assert.Equal(t, int64(10), rec.WithBalance)
	assert.Equal(t, int64(0), rec.WithoutBalance)
}

func TestNewParser_InvalidPatterns(t *testing.T) {
	base := DefaultPatterns()

	tests := []struct {
		name    string
		mutate  func(p *Patterns)
		wantErr string
	}{
		{"bad regex", func(p *Patterns) { p.Header = `Summary for (` }, "header: invalid pattern"},
		{"no group", func(p *Patterns) { p.WithBalance = `Total with balance: \d+` }, "with_balance: pattern must have exactly one capture group"},
		{"two groups", func(p *Patterns) { p.WithoutBalance = `(Total) without balance: (\d+)` }, "without_balance: pattern must have exactly one capture group"},
		{"empty header", func(p *Patterns) { p.Header = "" }, "header: pattern is required"},
		{"empty layout", func(p *Patterns) { p.TimestampLayout = "" }, "timestamp_layout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			_, err := NewParser(p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Error(t, p.Validate())
		})
	}
}

func TestPatterns_WithDefaults(t *testing.T) {
	p := Patterns{WithBalance: `funded=(\d+)`}.WithDefaults()

	assert.Equal(t, DefaultHeaderPattern, p.Header)
	assert.Equal(t, `funded=(\d+)`, p.WithBalance)
	assert.Equal(t, DefaultWithoutBalancePattern, p.WithoutBalance)
	assert.Equal(t, DefaultTimestampLayout, p.TimestampLayout)
}
