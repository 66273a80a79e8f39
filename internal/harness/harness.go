package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/roach88/balancelog/internal/block"
	"github.com/roach88/balancelog/internal/ingest"
	"github.com/roach88/balancelog/internal/source"
	"github.com/roach88/balancelog/internal/store"
	"github.com/roach88/balancelog/internal/testutil"
)

// clockStart is the first instant handed to the ingester in every scenario.
var clockStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Harness is the scenario execution state.
type Harness struct {
	store    *store.Store
	ingester *ingest.Ingester

	// log is everything appended so far. Every run re-reads it from the start.
	log []string
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Run IDs are "<name>-run-<n>" and the clock advances one second per reading.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. For each run step, append its lines and ingest the whole log
// 3. Check each run against its expect clause
// 4. Capture the final tables and evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	parser := block.Default()
	if scenario.Patterns != nil {
		parser, err = block.NewParser(scenario.Patterns.WithDefaults())
		if err != nil {
			return nil, fmt.Errorf("failed to compile patterns: %w", err)
		}
	}

	ids := make([]string, len(scenario.Runs))
	for i := range ids {
		ids[i] = fmt.Sprintf("%s-run-%d", scenario.Name, i+1)
	}
	clock := testutil.NewDeterministicClock(clockStart, time.Second)

	h := &Harness{
		store: st,
		ingester: ingest.New(st,
			ingest.WithParser(parser),
			ingest.WithRunIDGenerator(ingest.NewFixedGenerator(ids...)),
			ingest.WithClock(clock.Now),
			ingest.WithLogger(zerolog.Nop()), // Suppress logs in tests
		),
	}

	ctx := context.Background()
	result := NewResult()

	for i, step := range scenario.Runs {
		h.log = append(h.log, step.Append...)

		report, runErr := h.ingester.Run(ctx, source.FromLines(h.log))
		outcome := newRunOutcome(report, runErr)
		result.Runs = append(result.Runs, outcome)

		checkExpect(i, step.Expect, outcome, result)
	}

	if err := h.capture(ctx, result); err != nil {
		return nil, err
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

// capture copies the final tables into result.
func (h *Harness) capture(ctx context.Context, result *Result) error {
	summaries, err := h.store.ListSummaries(ctx, store.SummaryFilter{})
	if err != nil {
		return fmt.Errorf("failed to read summaries: %w", err)
	}
	processed, err := h.store.CountProcessedLines(ctx)
	if err != nil {
		return fmt.Errorf("failed to count processed lines: %w", err)
	}
	runs, err := h.store.ListRuns(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to read runs: %w", err)
	}

	result.Summaries = summaries
	result.ProcessedLines = processed
	result.RecordedRuns = int64(len(runs))
	return nil
}

// checkExpect compares one run outcome with its expect clause.
func checkExpect(index int, expect *ExpectClause, outcome RunOutcome, result *Result) {
	wantErr := ""
	if expect != nil {
		wantErr = expect.Error
	}
	if outcome.Error != wantErr {
		result.AddError(fmt.Sprintf("runs[%d]: expected error %q, got %q", index, wantErr, outcome.Error))
	}
	if expect == nil {
		return
	}

	got := outcome.counters()
	for name, want := range expect.Report {
		if got[name] != want {
			result.AddError(fmt.Sprintf("runs[%d]: %s = %d, expected %d", index, name, got[name], want))
		}
	}
}
