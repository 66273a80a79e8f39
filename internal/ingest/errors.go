package ingest

import (
	"errors"
	"fmt"

	"github.com/roach88/balancelog/internal/block"
	"github.com/roach88/balancelog/internal/source"
	"github.com/roach88/balancelog/internal/store"
)

// Fatal error kinds. Match with errors.Is / errors.As.
var (
	// ErrSourceUnavailable means the log could not be opened.
	ErrSourceUnavailable = source.ErrUnavailable

	// ErrStorageInit means the database or its tables could not be set up.
	ErrStorageInit = store.ErrStorageInit
)

// TimestampParseError reports a header with an impossible timestamp.
type TimestampParseError = block.TimestampParseError

// RunError is a fatal error raised while walking the log. It records where
// the run stopped.
type RunError struct {
	// RunID identifies the failed run.
	RunID string

	// Line is the 1-based number of the last line read when the run failed.
	// Zero if the failure happened before any line was read.
	Line int64

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *RunError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("run %s failed at line %d: %v", e.RunID, e.Line, e.Err)
	}
	return fmt.Sprintf("run %s failed: %v", e.RunID, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// IsTimestampError returns true if err is or wraps a TimestampParseError.
func IsTimestampError(err error) bool {
	var tpe *TimestampParseError
	return errors.As(err, &tpe)
}
