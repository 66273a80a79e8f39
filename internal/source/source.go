// Package source provides sequential line sources for the ingester.
package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrUnavailable is returned by OpenFile when the log cannot be opened.
var ErrUnavailable = errors.New("log source unavailable")

// readBufferSize is the initial read buffer. Longer lines still come back
// whole.
const readBufferSize = 64 * 1024

// LineSource provides an iterator over raw log lines.
// Implementations are sequential, not safe for concurrent use.
type LineSource interface {
	// Next returns the next line without its terminator.
	// Returns io.EOF when no more lines are available.
	Next(ctx context.Context) (string, error)

	// Close releases any resources held by the source.
	Close() error
}

// FileSource reads lines from a single file, start to finish.
type FileSource struct {
	path   string
	file   *os.File
	reader *bufio.Reader
	line   int
}

// OpenFile opens path for reading. Failures wrap ErrUnavailable.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided path is expected
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return &FileSource{path: path, file: f, reader: bufio.NewReaderSize(f, readBufferSize)}, nil
}

// Path returns the path the source was opened from.
func (s *FileSource) Path() string {
	return s.path
}

// Next returns the next line with "\n" or "\r\n" stripped. Lines have no
// length limit. A final line without a terminator is still returned.
func (s *FileSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.reader == nil {
		return "", io.EOF
	}

	line, err := s.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading %s line %d: %w", s.path, s.line+1, err)
	}
	if line == "" {
		return "", io.EOF
	}

	s.line++
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// Close closes the underlying file. Safe to call more than once.
func (s *FileSource) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.reader = nil
	return err
}

// SliceSource serves lines from memory.
type SliceSource struct {
	lines []string
	idx   int
}

// FromLines returns a source over the given lines.
func FromLines(lines []string) *SliceSource {
	return &SliceSource{lines: lines}
}

// Next returns the next line or io.EOF.
func (s *SliceSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.idx >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.idx]
	s.idx++
	return line, nil
}

// Close is a no-op.
func (s *SliceSource) Close() error {
	return nil
}
