package report

import (
	"fmt"
	"strings"

	"github.com/flame-analysis/internal/stacktree"
)

const (
	// maxTreeNameLen truncates long symbol names in the tree view.
	maxTreeNameLen = 60

	// selfTimeFloor hides self-time annotations below this percentage
	// of the global total.
	selfTimeFloor = 0.1
)

// TreeOptions holds presentation parameters for the hottest-path tree.
type TreeOptions struct {
	TopN       int
	MinPercent float64

	// TotalSamples is the global sample total percentages are computed
	// against. Zero falls back to the tree's own folded total; the two
	// differ when some extracted frames carried no geometry.
	TotalSamples int64
}

// FormatTree renders the aggregated tree depth-first, children in
// descending total-sample order, pruning subtrees below the minimum
// percentage of the global total. Output is capped at 3 x top-N nodes
// to bound the view on deep or wide trees. Nodes with non-negligible
// self time carry a separate self annotation.
func FormatTree(tree *stacktree.Tree, opts TreeOptions) string {
	total := opts.TotalSamples
	if total == 0 {
		total = tree.TotalSamples
	}

	var b strings.Builder
	rule := strings.Repeat("=", 80)
	b.WriteString(rule + "\n")
	b.WriteString("STACK TREE (hottest paths)\n")
	b.WriteString(rule + "\n\n")
	fmt.Fprintf(&b, "Total samples: %s\n\n", comma(total))

	r := &treeRenderer{
		b:     &b,
		opts:  opts,
		total: total,
	}
	r.renderChildren(tree.Root, 0)

	return strings.TrimRight(b.String(), "\n")
}

type treeRenderer struct {
	b     *strings.Builder
	opts  TreeOptions
	total int64
	shown int
}

func (r *treeRenderer) renderChildren(node *stacktree.Node, depth int) {
	if r.shown >= r.opts.TopN*3 {
		return
	}

	for _, child := range node.SortedChildren() {
		pct := 0.0
		selfPct := 0.0
		if r.total > 0 {
			pct = float64(child.TotalSamples) / float64(r.total) * 100
			selfPct = float64(child.SelfSamples) / float64(r.total) * 100
		}

		if pct < r.opts.MinPercent {
			continue
		}

		indent := strings.Repeat("  ", depth)
		selfInfo := ""
		if child.SelfSamples > 0 && selfPct >= selfTimeFloor {
			selfInfo = fmt.Sprintf(" [self: %s (%.1f%%)]", comma(child.SelfSamples), selfPct)
		}

		fmt.Fprintf(r.b, "%s%s\n", indent, truncateName(child.Name, maxTreeNameLen))
		fmt.Fprintf(r.b, "%s  └─ %s samples (%.1f%%)%s\n", indent, comma(child.TotalSamples), pct, selfInfo)

		r.shown++
		r.renderChildren(child, depth+1)
		if r.shown >= r.opts.TopN*3 {
			return
		}
	}
}
