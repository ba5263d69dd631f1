package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/flame-analysis/pkg/model"
)

// maxStackIndent caps trace indentation so deep stacks stay readable.
const maxStackIndent = 4

// StackOptions holds presentation parameters for the hottest-stack
// listing.
type StackOptions struct {
	TopN       int
	MinPercent float64

	// MaxFrames abbreviates traces longer than this many frames;
	// zero means unlimited. The abbreviation keeps a head of
	// MaxFrames/3 frames, an explicit omission marker, and a tail
	// with the remainder, so the terminal leaf frame stays visible.
	MaxFrames int

	// Rename is applied to every frame label at render time; nil
	// keeps raw labels.
	Rename func(string) string
}

// FormatStacks renders leaf stacks sorted by descending sample count,
// threshold-filtered and truncated to top-N. Each stack prints as an
// indented root-to-leaf trace with the leaf marked distinctly.
func FormatStacks(leaves []*model.Stack, opts StackOptions) string {
	sorted := make([]*model.Stack, len(leaves))
	copy(sorted, leaves)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Samples > sorted[j].Samples
	})

	filtered := make([]*model.Stack, 0, len(sorted))
	for _, s := range sorted {
		if s.Percent >= opts.MinPercent {
			filtered = append(filtered, s)
		}
	}
	if opts.TopN > 0 && len(filtered) > opts.TopN {
		filtered = filtered[:opts.TopN]
	}

	if len(filtered) == 0 {
		return "No stacks found matching criteria."
	}

	var b strings.Builder
	rule := strings.Repeat("=", 80)
	b.WriteString(rule + "\n")
	b.WriteString("HOTTEST STACK TRACES (leaf frames only)\n")
	b.WriteString(rule + "\n\n")

	for i, s := range filtered {
		fmt.Fprintf(&b, "#%d: %s samples (%.2f%%)\n", i+1, comma(s.Samples), s.Percent)
		b.WriteString(strings.Repeat("-", 40) + "\n")
		writeTrace(&b, s.Frames, opts)
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeTrace(b *strings.Builder, frames []string, opts StackOptions) {
	rename := opts.Rename
	if rename == nil {
		rename = func(s string) string { return s }
	}

	writeFrame := func(depth int, frame string, isLeaf bool) {
		indent := strings.Repeat("  ", min(depth, maxStackIndent))
		if isLeaf {
			fmt.Fprintf(b, "%s→ %s\n", indent, rename(frame))
		} else {
			fmt.Fprintf(b, "%s%s\n", indent, rename(frame))
		}
	}

	if opts.MaxFrames == 0 || len(frames) <= opts.MaxFrames {
		for depth, frame := range frames {
			writeFrame(depth, frame, depth == len(frames)-1)
		}
		return
	}

	headCount := opts.MaxFrames / 3
	tailCount := opts.MaxFrames - headCount
	omitted := len(frames) - headCount - tailCount

	for depth := 0; depth < headCount; depth++ {
		writeFrame(depth, frames[depth], false)
	}
	fmt.Fprintf(b, "    ... (%d frames omitted) ...\n", omitted)
	for depth := len(frames) - tailCount; depth < len(frames); depth++ {
		writeFrame(depth, frames[depth], depth == len(frames)-1)
	}
}
