// Package grouping folds flat frame records into per-key statistics,
// independent of call-stack position.
package grouping

import (
	"fmt"

	"github.com/flame-analysis/pkg/model"
	"github.com/flame-analysis/pkg/symbol"
)

// Mode selects the grouping key derived from a frame label.
type Mode string

const (
	// ModeFunction groups by the full label.
	ModeFunction Mode = "function"
	// ModeModule groups by the enclosing scope (label minus its last
	// path component).
	ModeModule Mode = "module"
	// ModeCrate groups by the top-level namespace.
	ModeCrate Mode = "crate"
)

// ParseMode parses a grouping mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFunction, ModeModule, ModeCrate:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown grouping mode: %s (valid: function, module, crate)", s)
	}
}

// Calculator accumulates per-group statistics from frame records.
type Calculator struct {
	mode     Mode
	simplify bool
}

// Option configures the Calculator.
type Option func(*Calculator)

// WithMode sets the grouping mode.
func WithMode(mode Mode) Option {
	return func(c *Calculator) {
		c.mode = mode
	}
}

// WithSimplify applies symbol simplification to labels before the
// grouping key is derived.
func WithSimplify(enabled bool) Option {
	return func(c *Calculator) {
		c.simplify = enabled
	}
}

// NewCalculator creates a Calculator; the default groups by full
// label without simplification.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{mode: ModeFunction}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate folds the frames into one GroupStat per key: the sum of
// sample counts and the peak percentage. Percentages at different
// depths overlap in attribution, so they are never summed; the maximum
// stands in as the representative value. Groups come back in
// first-seen order, which downstream sorting uses as its tie-break.
func (c *Calculator) Calculate(frames []*model.Frame) []*model.GroupStat {
	index := make(map[string]int)
	groups := make([]*model.GroupStat, 0)

	for _, f := range frames {
		key := c.keyFor(f.Label)

		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, &model.GroupStat{Key: key})
		}

		groups[i].TotalSamples += f.Samples
		if f.Percent > groups[i].MaxPercent {
			groups[i].MaxPercent = f.Percent
		}
	}

	return groups
}

func (c *Calculator) keyFor(label string) string {
	if c.simplify {
		label = symbol.Simplify(label)
	}
	switch c.mode {
	case ModeModule:
		return symbol.Scope(label)
	case ModeCrate:
		return symbol.Namespace(label)
	default:
		return label
	}
}
