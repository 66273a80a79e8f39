package harness

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/balancelog/internal/record"
)

// Snapshot captures what a scenario produced, for golden comparison.
type Snapshot struct {
	ScenarioName   string                 `json:"scenario_name"`
	Runs           []RunOutcome           `json:"runs"`
	Summaries      []record.SummaryRecord `json:"summaries"`
	ProcessedLines int64                  `json:"processed_lines"`
	RecordedRuns   int64                  `json:"recorded_runs"`
}

// NewSnapshot builds the snapshot of a scenario result.
func NewSnapshot(name string, result *Result) Snapshot {
	return Snapshot{
		ScenarioName:   name,
		Runs:           result.Runs,
		Summaries:      result.Summaries,
		ProcessedLines: result.ProcessedLines,
		RecordedRuns:   result.RecordedRuns,
	}
}

// Marshal renders the snapshot as indented JSON with a trailing newline.
func (s Snapshot) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// RunWithGolden runs scenario and fails t when its snapshot differs from
// testdata/golden/<name>.golden. Pass -update to rewrite the snapshots.
// The returned error covers the run itself, not the comparison.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, runErr := Run(scenario)
	if runErr != nil {
		return nil, runErr
	}
	snapshot, marshalErr := NewSnapshot(scenario.Name, result).Marshal()
	if marshalErr != nil {
		return nil, marshalErr
	}

	goldie.New(t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithNameSuffix(".golden"),
	).Assert(t, scenario.Name, snapshot)
	return result, nil
}
