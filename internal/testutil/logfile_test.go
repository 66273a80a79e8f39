package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlock(t *testing.T) {
	assert.Equal(t, []string{
		"Summary for 2024-01-10 12:00:00",
		"Total with balance: 5",
		"Total without balance: abc",
	}, Block("2024-01-10 12:00:00", 5, "abc"))
}

func TestWriteAndAppendLog(t *testing.T) {
	path := WriteLog(t, "summary.log", Lines([]string{"a"}, []string{"b"})...)
	AppendLog(t, path, "c")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", string(data))
}
