package stacktree

import (
	"fmt"
	"io"
)

// FoldedWriter writes a tree in collapsed/folded stack format,
// compatible with flamegraph.pl and the usual stackcollapse tooling.
// Only self samples are emitted per path; re-rendering the output
// reproduces the original totals.
type FoldedWriter struct{}

// NewFoldedWriter creates a new folded format writer.
func NewFoldedWriter() *FoldedWriter {
	return &FoldedWriter{}
}

// Write writes the tree in folded format: "frame;frame;frame count",
// one line per path with self samples, children in descending
// TotalSamples order. The sentinel root never appears in paths; its
// children are the top-level frames.
func (w *FoldedWriter) Write(t *Tree, out io.Writer) error {
	for _, child := range t.Root.SortedChildren() {
		if err := w.writeNode(child, "", out); err != nil {
			return err
		}
	}
	return nil
}

func (w *FoldedWriter) writeNode(node *Node, prefix string, out io.Writer) error {
	path := node.Name
	if prefix != "" {
		path = prefix + ";" + node.Name
	}

	if node.SelfSamples > 0 {
		if _, err := fmt.Fprintf(out, "%s %d\n", path, node.SelfSamples); err != nil {
			return err
		}
	}

	for _, child := range node.SortedChildren() {
		if err := w.writeNode(child, path, out); err != nil {
			return err
		}
	}
	return nil
}
