package cli

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/balancelog/internal/ingest"
	"github.com/roach88/balancelog/internal/testutil"
)

// testStart is the first instant handed out by test clocks.
var testStart = time.Date(2024, 3, 18, 6, 0, 0, 0, time.UTC)

// fixtureLines is a small log with three blocks and some noise.
func fixtureLines() []string {
	return testutil.Lines(
		[]string{"2024-03-15 07:59:58 INFO starting nightly report"},
		testutil.Block("2024-03-15 08:00:00", 42, 7),
		testutil.Block("2024-03-16 08:00:00", 1500, 12),
		[]string{"2024-03-16 08:00:01 INFO report sent"},
		testutil.Block("2024-03-17 08:00:00", "n/a", 3),
	)
}

// runCommand executes cmd with args and returns stdout and stderr.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// testIngestOptions returns ingest options with deterministic run IDs and
// clock.
func testIngestOptions(format string, runIDs ...string) *IngestOptions {
	if len(runIDs) == 0 {
		runIDs = []string{"run-0001"}
	}
	return &IngestOptions{
		RootOptions: &RootOptions{Format: format},
		RunIDs:      ingest.NewFixedGenerator(runIDs...),
		Clock:       testutil.NewDeterministicClock(testStart, time.Second).Now,
	}
}

// seedDatabase ingests lines into a fresh database and returns its path.
func seedDatabase(t *testing.T, lines ...string) string {
	t.Helper()
	logPath := testutil.WriteLog(t, "summary.log", lines...)
	dbPath := filepath.Join(t.TempDir(), "summary.db")

	_, _, err := runCommand(t, newIngestCommand(testIngestOptions("text")), "--db", dbPath, "--log", logPath)
	require.NoError(t, err)
	return dbPath
}
