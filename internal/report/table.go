package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/flame-analysis/pkg/model"
)

// SortKey selects the ranked table ordering.
type SortKey string

const (
	// SortBySamples orders by total sample count.
	SortBySamples SortKey = "samples"
	// SortByPercent orders by peak percentage.
	SortByPercent SortKey = "percent"
)

// ParseSortKey parses a sort key string.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case SortBySamples, SortByPercent:
		return SortKey(s), nil
	default:
		return "", fmt.Errorf("unknown sort key: %s (valid: samples, percent)", s)
	}
}

// TableOptions holds presentation parameters for the ranked table.
type TableOptions struct {
	TopN       int
	MinPercent float64
	SortBy     SortKey
}

// FormatTable renders grouped records as a ranked table: threshold
// filter first, then sort, then top-N truncation. The sample column
// width follows the widest count actually shown.
func FormatTable(groups []*model.GroupStat, opts TableOptions) string {
	filtered := make([]*model.GroupStat, 0, len(groups))
	for _, g := range groups {
		if g.MaxPercent >= opts.MinPercent {
			filtered = append(filtered, g)
		}
	}

	// Stable sort keeps first-seen order as the tie-break.
	if opts.SortBy == SortByPercent {
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].MaxPercent > filtered[j].MaxPercent
		})
	} else {
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].TotalSamples > filtered[j].TotalSamples
		})
	}

	if opts.TopN > 0 && len(filtered) > opts.TopN {
		filtered = filtered[:opts.TopN]
	}

	if len(filtered) == 0 {
		return "No entries found matching criteria."
	}

	// Width comes only from the widest shown count; the header cell
	// overflows it when counts are narrow.
	samplesWidth := 0
	for _, g := range filtered {
		if w := len(comma(g.TotalSamples)); w > samplesWidth {
			samplesWidth = w
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%*s  %6s  Function/Path\n", samplesWidth, "Samples", "%")
	b.WriteString(strings.Repeat("-", samplesWidth+2+6+2+50))
	b.WriteString("\n")

	for _, g := range filtered {
		fmt.Fprintf(&b, "%*s  %5.2f%%  %s\n", samplesWidth, comma(g.TotalSamples), g.MaxPercent, g.Key)
	}

	return strings.TrimRight(b.String(), "\n")
}
