package harness

import (
	"fmt"
	"sort"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes the final summary table to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Result   *Result
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Result != nil {
		fmt.Fprintf(&buf, "\nSummary table:\n")
		for _, s := range e.Result.Summaries {
			fmt.Fprintf(&buf, "  %s date=%s with=%d without=%d\n", s.DateTime, s.Date, s.WithBalance, s.WithoutBalance)
		}
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against result and returns the
// failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertSummary:
		return assertSummary(result, a)
	case AssertSummaryAbsent:
		if s, ok := result.summary(a.DateTime); ok {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("no row for %s", a.DateTime),
				Actual:   fmt.Sprintf("row with date %s", s.Date),
				Result:   result,
			}
		}
		return nil
	case AssertSummaryCount:
		return assertCount(result, a, int64(len(result.Summaries)))
	case AssertProcessedCount:
		return assertCount(result, a, result.ProcessedLines)
	case AssertRunCount:
		return assertCount(result, a, result.RecordedRuns)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertSummary checks the row at a.DateTime (subset match on a.Expect).
func assertSummary(result *Result, a Assertion) error {
	s, ok := result.summary(a.DateTime)
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("row for %s", a.DateTime),
			Actual:   "not found",
			Result:   result,
		}
	}

	actual := map[string]any{
		"date":            s.Date,
		"with_balance":    s.WithBalance,
		"without_balance": s.WithoutBalance,
	}

	// Sorted for stable messages
	fields := make([]string, 0, len(a.Expect))
	for field := range a.Expect {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var mismatches []string
	for _, field := range fields {
		if !valuesEqual(actual[field], a.Expect[field]) {
			mismatches = append(mismatches, fmt.Sprintf("%s=%v (expected %v)", field, actual[field], a.Expect[field]))
		}
	}
	if len(mismatches) > 0 {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("row for %s matching %v", a.DateTime, a.Expect),
			Actual:   strings.Join(mismatches, ", "),
			Result:   result,
		}
	}
	return nil
}

func assertCount(result *Result, a Assertion, actual int64) error {
	if actual != *a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d", *a.Count),
			Actual:   fmt.Sprintf("%d", actual),
			Result:   result,
		}
	}
	return nil
}

// valuesEqual compares a stored value with one decoded from YAML. YAML
// integers decode as int while rows hold int64, so both sides are compared
// in their printed form.
func valuesEqual(actual, expected any) bool {
	return fmt.Sprint(actual) == fmt.Sprint(expected)
}
