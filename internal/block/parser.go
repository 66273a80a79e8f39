package block

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/roach88/balancelog/internal/record"
)

// TimestampParseError reports a header whose timestamp matched the header
// pattern but is not a valid time under the layout, e.g. a 32nd day.
// It aborts the whole run.
type TimestampParseError struct {
	Line  string
	Value string
	Err   error
}

func (e *TimestampParseError) Error() string {
	return fmt.Sprintf("parse timestamp %q: %v", e.Value, e.Err)
}

func (e *TimestampParseError) Unwrap() error {
	return e.Err
}

// Parser matches summary blocks. A Parser is immutable and safe for
// concurrent use.
type Parser struct {
	header         *regexp.Regexp
	withBalance    *regexp.Regexp
	withoutBalance *regexp.Regexp
	layout         string
}

// NewParser compiles the given patterns. Empty fields are not defaulted; use
// Patterns.WithDefaults first if partial configuration is allowed.
func NewParser(p Patterns) (*Parser, error) {
	header, err := compile("header", p.Header)
	if err != nil {
		return nil, err
	}
	with, err := compile("with_balance", p.WithBalance)
	if err != nil {
		return nil, err
	}
	without, err := compile("without_balance", p.WithoutBalance)
	if err != nil {
		return nil, err
	}
	if p.TimestampLayout == "" {
		return nil, errNoLayout
	}

	return &Parser{
		header:         header,
		withBalance:    with,
		withoutBalance: without,
		layout:         p.TimestampLayout,
	}, nil
}

// Default returns a parser for the standard summary block.
func Default() *Parser {
	p, err := NewParser(DefaultPatterns())
	if err != nil {
		panic(err)
	}
	return p
}

// MatchHeader reports whether line contains a block header.
func (p *Parser) MatchHeader(line string) bool {
	return p.header.MatchString(line)
}

// TryParse matches a header and the two value lines that follow it.
//
// Returns (nil, nil) when the header or either value line does not match;
// that is a rejected block, not an error. Returns a *TimestampParseError when
// the header matched but its timestamp is invalid.
func (p *Parser) TryParse(header, withLine, withoutLine string) (*record.ParsedBlock, error) {
	hm := p.header.FindStringSubmatch(header)
	if hm == nil {
		return nil, nil
	}
	wm := p.withBalance.FindStringSubmatch(withLine)
	if wm == nil {
		return nil, nil
	}
	wom := p.withoutBalance.FindStringSubmatch(withoutLine)
	if wom == nil {
		return nil, nil
	}

	ts, err := time.Parse(p.layout, hm[1])
	if err != nil {
		return nil, &TimestampParseError{Line: header, Value: hm[1], Err: err}
	}

	return &record.ParsedBlock{
		Header:         header,
		Timestamp:      ts,
		WithBalance:    parseCount(wm[1]),
		WithoutBalance: parseCount(wom[1]),
	}, nil
}

// parseCount parses a counter capture. Anything that is not a non-negative
// decimal in the 32-bit signed range becomes 0; counters have always been
// stored in that range.
func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
