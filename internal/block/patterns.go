package block

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/roach88/balancelog/internal/record"
)

// Default patterns. Value lines capture the first token after the label so a
// non-numeric count still matches and is coerced to zero by the parser.
const (
	DefaultHeaderPattern         = `Summary for (\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`
	DefaultWithBalancePattern    = `Total with balance: (\d+|\S*)`
	DefaultWithoutBalancePattern = `Total without balance: (\d+|\S*)`
	DefaultTimestampLayout       = record.DateTimeLayout
)

// Patterns holds the uncompiled block patterns. Each pattern must contain
// exactly one capture group.
type Patterns struct {
	Header          string `yaml:"header" json:"header"`
	WithBalance     string `yaml:"with_balance" json:"with_balance"`
	WithoutBalance  string `yaml:"without_balance" json:"without_balance"`
	TimestampLayout string `yaml:"timestamp_layout" json:"timestamp_layout"`
}

// DefaultPatterns returns the patterns of the standard summary block.
func DefaultPatterns() Patterns {
	return Patterns{
		Header:          DefaultHeaderPattern,
		WithBalance:     DefaultWithBalancePattern,
		WithoutBalance:  DefaultWithoutBalancePattern,
		TimestampLayout: DefaultTimestampLayout,
	}
}

// WithDefaults fills empty fields from DefaultPatterns.
func (p Patterns) WithDefaults() Patterns {
	d := DefaultPatterns()
	if p.Header == "" {
		p.Header = d.Header
	}
	if p.WithBalance == "" {
		p.WithBalance = d.WithBalance
	}
	if p.WithoutBalance == "" {
		p.WithoutBalance = d.WithoutBalance
	}
	if p.TimestampLayout == "" {
		p.TimestampLayout = d.TimestampLayout
	}
	return p
}

// compile compiles a pattern and checks it has a single capture group.
func compile(name, pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%s: pattern is required", name)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid pattern: %w", name, err)
	}
	if re.NumSubexp() != 1 {
		return nil, fmt.Errorf("%s: pattern must have exactly one capture group, has %d", name, re.NumSubexp())
	}
	return re, nil
}

// Validate compiles every pattern and reports the first problem.
func (p Patterns) Validate() error {
	_, err := NewParser(p)
	return err
}

var errNoLayout = errors.New("timestamp_layout: layout is required")
