package ingest

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/balancelog/internal/block"
)

func blockParserForTest() (*block.Parser, error) {
	return block.NewParser(block.Patterns{
		Header:          `Report @ (\d{2}/\d{2}/\d{4} \d{2}:\d{2})`,
		WithBalance:     `funded=(\S+)`,
		WithoutBalance:  `empty=(\S+)`,
		TimestampLayout: "02/01/2006 15:04",
	})
}

func TestRunError_Message(t *testing.T) {
	cause := errors.New("disk full")

	withLine := &RunError{RunID: "r1", Line: 12, Err: cause}
	assert.Equal(t, "run r1 failed at line 12: disk full", withLine.Error())
	assert.ErrorIs(t, withLine, cause)

	noLine := &RunError{RunID: "r1", Err: cause}
	assert.Equal(t, "run r1 failed: disk full", noLine.Error())
}

func TestIsTimestampError(t *testing.T) {
	tpe := &TimestampParseError{Value: "2024-01-32 00:00:00", Err: errors.New("day out of range")}

	assert.True(t, IsTimestampError(tpe))
	assert.True(t, IsTimestampError(fmt.Errorf("wrapped: %w", &RunError{RunID: "r", Err: tpe})))
	assert.False(t, IsTimestampError(errors.New("other")))
	assert.False(t, IsTimestampError(nil))
}
