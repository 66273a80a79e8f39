package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/balancelog/internal/block"
)

// Scenario defines an ingestion scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Patterns overrides the block patterns. Unset fields keep the defaults.
	Patterns *block.Patterns `yaml:"patterns,omitempty"`

	// Runs are ingestion passes, in order. Before each pass its Append lines
	// are added to the end of the log.
	Runs []RunStep `yaml:"runs"`

	// Assertions validate the final database contents.
	Assertions []Assertion `yaml:"assertions"`
}

// RunStep is one ingestion pass.
type RunStep struct {
	// Append is added to the log before the run. May be empty to re-run
	// over an unchanged log.
	Append []string `yaml:"append"`

	// Expect specifies the expected outcome.
	// If nil, the run is only required to succeed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a run.
type ExpectClause struct {
	// Error names the fatal error the run must stop with. Empty means the
	// run must succeed. Supported: "timestamp".
	Error string `yaml:"error,omitempty"`

	// Report contains expected report counters.
	// This is a subset match - only specified counters are validated.
	Report map[string]int64 `yaml:"report,omitempty"`
}

// Assertion validates the final database contents.
type Assertion struct {
	// Type specifies the assertion type:
	// - "summary": the row at DateTime matches Expect
	// - "summary_absent": no row exists at DateTime
	// - "summary_count": the summary table has Count rows
	// - "processed_count": the ledger has Count entries
	// - "run_count": Count runs were recorded
	Type string `yaml:"type"`

	// DateTime is the summary key (used by summary, summary_absent).
	DateTime string `yaml:"datetime,omitempty"`

	// Expect contains expected row values (used by summary).
	// Subset match over date, with_balance and without_balance.
	Expect map[string]any `yaml:"expect,omitempty"`

	// Count is the expected number of rows (used by the *_count types).
	Count *int64 `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertSummary        = "summary"
	AssertSummaryAbsent  = "summary_absent"
	AssertSummaryCount   = "summary_count"
	AssertProcessedCount = "processed_count"
	AssertRunCount       = "run_count"
)

// Expected run error kinds.
const (
	ErrorTimestamp = "timestamp"
)

// reportCounters lists the counters an expect clause may name.
var reportCounters = map[string]bool{
	"lines_read":           true,
	"duplicate_lines":      true,
	"blocks_ingested":      true,
	"duplicate_timestamps": true,
	"malformed_blocks":     true,
	"truncated_blocks":     true,
}

// summaryFields lists the row fields a summary assertion may name.
var summaryFields = map[string]bool{
	"date":            true,
	"with_balance":    true,
	"without_balance": true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Runs) == 0 {
		return fmt.Errorf("runs list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if s.Patterns != nil {
		if err := s.Patterns.WithDefaults().Validate(); err != nil {
			return fmt.Errorf("patterns: %w", err)
		}
	}

	for i, step := range s.Runs {
		if step.Expect == nil {
			continue
		}
		switch step.Expect.Error {
		case "", ErrorTimestamp:
		default:
			return fmt.Errorf("runs[%d].expect: unknown error kind %q", i, step.Expect.Error)
		}
		for name := range step.Expect.Report {
			if !reportCounters[name] {
				return fmt.Errorf("runs[%d].expect.report: unknown counter %q", i, name)
			}
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertSummary:
		if a.DateTime == "" {
			return fmt.Errorf("assertions[%d]: datetime is required for summary", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for summary", index)
		}
		for field := range a.Expect {
			if !summaryFields[field] {
				return fmt.Errorf("assertions[%d]: unknown summary field %q", index, field)
			}
		}
	case AssertSummaryAbsent:
		if a.DateTime == "" {
			return fmt.Errorf("assertions[%d]: datetime is required for summary_absent", index)
		}
	case AssertSummaryCount, AssertProcessedCount, AssertRunCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
