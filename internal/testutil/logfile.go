// Package testutil provides fixtures shared by balancelog tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Block returns the three lines of a well-formed summary block.
// with and without are formatted with %v so tests can pass non-numeric values.
func Block(datetime string, with, without any) []string {
	return []string{
		"Summary for " + datetime,
		fmt.Sprintf("Total with balance: %v", with),
		fmt.Sprintf("Total without balance: %v", without),
	}
}

// Lines concatenates groups of lines, e.g. several Blocks and noise.
func Lines(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// WriteLog writes lines to name inside a fresh temp directory and returns the
// path. Every line, including the last, is newline-terminated.
func WriteLog(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(join(lines)), 0o644); err != nil {
		t.Fatalf("write log %s: %v", path, err)
	}
	return path
}

// AppendLog appends lines to an existing log, as a growing log file would.
func AppendLog(t *testing.T, path string, lines ...string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log %s: %v", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(join(lines)); err != nil {
		t.Fatalf("append log %s: %v", path, err)
	}
}

func join(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
