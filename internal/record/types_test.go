package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPreviousDay(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"mid month", "2024-03-15 08:00:00", "2024-03-14"},
		{"first of month", "2024-03-01 00:00:00", "2024-02-29"},
		{"first of year", "2024-01-01 23:59:59", "2023-12-31"},
		{"non leap year", "2023-03-01 12:00:00", "2023-02-28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := time.Parse(DateTimeLayout, tt.in)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, PreviousDay(ts).Format(DateLayout))
		})
	}
}

func TestParsedBlock_Record(t *testing.T) {
	ts, err := time.Parse(DateTimeLayout, "2024-01-10 12:00:00")
	assert.NoError(t, err)

	b := ParsedBlock{
		Header:         "Summary for 2024-01-10 12:00:00",
		Timestamp:      ts,
		WithBalance:    5,
		WithoutBalance: 3,
	}

	assert.Equal(t, SummaryRecord{
		DateTime:       "2024-01-10 12:00:00",
		Date:           "2024-01-09",
		WithBalance:    5,
		WithoutBalance: 3,
	}, b.Record())
}
