package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_Golden(t *testing.T) {
	dbPath := seedDatabase(t, fixtureLines()...)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	t.Run("text", func(t *testing.T) {
		stdout, _, err := runCommand(t, NewListCommand(&RootOptions{Format: "text"}), "--db", dbPath)
		require.NoError(t, err)
		g.Assert(t, "list_text", []byte(stdout))
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := runCommand(t, NewListCommand(&RootOptions{Format: "json"}), "--db", dbPath)
		require.NoError(t, err)
		g.Assert(t, "list_json", []byte(stdout))
	})
}

func TestList_Filters(t *testing.T) {
	dbPath := seedDatabase(t, fixtureLines()...)

	tests := []struct {
		name  string
		args  []string
		dates []string
	}{
		{"all", nil, []string{"2024-03-14", "2024-03-15", "2024-03-16"}},
		{"from", []string{"--from", "2024-03-15"}, []string{"2024-03-15", "2024-03-16"}},
		{"to", []string{"--to", "2024-03-15"}, []string{"2024-03-14", "2024-03-15"}},
		{"range", []string{"--from", "2024-03-15", "--to", "2024-03-15"}, []string{"2024-03-15"}},
		{"limit", []string{"--limit", "2"}, []string{"2024-03-14", "2024-03-15"}},
		{"empty_range", []string{"--from", "2025-01-01"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--db", dbPath}, tt.args...)
			stdout, _, err := runCommand(t, NewListCommand(&RootOptions{Format: "json"}), args...)
			require.NoError(t, err)

			var resp struct {
				Data ListResult `json:"data"`
			}
			require.NoError(t, json.Unmarshal([]byte(stdout), &resp))

			dates := []string{}
			for _, s := range resp.Data.Summaries {
				dates = append(dates, s.Date)
			}
			assert.Equal(t, tt.dates, dates)
			assert.Equal(t, len(tt.dates), resp.Data.Count)
		})
	}
}

func TestList_EmptyText(t *testing.T) {
	dbPath := seedDatabase(t, "nothing to see here")

	stdout, _, err := runCommand(t, NewListCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "No summaries found.\n", stdout)
}

func TestList_InvalidDate(t *testing.T) {
	dbPath := seedDatabase(t, fixtureLines()...)

	_, _, err := runCommand(t, NewListCommand(&RootOptions{Format: "text"}), "--db", dbPath, "--from", "15/03/2024")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid --from date "15/03/2024"`)
}

func TestList_MissingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing.db")

	_, _, err := runCommand(t, NewListCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.NoFileExists(t, dbPath)
}
