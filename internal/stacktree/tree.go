// Package stacktree folds reconstructed call stacks into a shared
// prefix tree with per-node sample attribution.
package stacktree

import (
	"sort"

	"github.com/flame-analysis/pkg/model"
)

// Node is one entry in the aggregation tree, owned exclusively by its
// parent. TotalSamples accumulates for every stack passing through the
// node; SelfSamples only when the node is the terminal frame of a
// folded stack, so SelfSamples <= TotalSamples always holds.
type Node struct {
	Name         string  `json:"name"`
	SelfSamples  int64   `json:"self_samples"`
	TotalSamples int64   `json:"total_samples"`
	Children     []*Node `json:"children,omitempty"`

	// Internal use only, not serialized. Insertion order of children
	// is irrelevant; rendering re-sorts by TotalSamples.
	childrenMap map[string]int
}

// NewNode creates a new tree node.
func NewNode(name string) *Node {
	return &Node{
		Name:        name,
		childrenMap: make(map[string]int),
	}
}

// Child returns the child with the given label, or nil.
func (n *Node) Child(name string) *Node {
	if idx, ok := n.childrenMap[name]; ok {
		return n.Children[idx]
	}
	return nil
}

// ensureChild returns the child with the given label, creating it if
// absent.
func (n *Node) ensureChild(name string) *Node {
	if child := n.Child(name); child != nil {
		return child
	}
	child := NewNode(name)
	n.childrenMap[name] = len(n.Children)
	n.Children = append(n.Children, child)
	return child
}

// SortedChildren returns the children ordered by descending
// TotalSamples. The underlying slice is not modified.
func (n *Node) SortedChildren() []*Node {
	sorted := make([]*Node, len(n.Children))
	copy(sorted, n.Children)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalSamples > sorted[j].TotalSamples
	})
	return sorted
}

// Tree is the aggregation tree over all reconstructed stacks, rooted
// at an implicit sentinel node. It is process-scoped for the duration
// of one report run.
type Tree struct {
	Root         *Node `json:"root"`
	TotalSamples int64 `json:"total_samples"`
}

// NewTree creates an empty tree with a sentinel root.
func NewTree() *Tree {
	return &Tree{Root: NewNode("root")}
}

// Fold builds a tree from the given stacks. An optional rename
// function is applied to every label before insertion (label
// normalization for display and merging); pass nil to keep raw labels.
func Fold(stacks []*model.Stack, rename func(string) string) *Tree {
	t := NewTree()
	for _, s := range stacks {
		t.Add(s, rename)
	}
	return t
}

// Add folds one stack into the tree: every node along the path
// accumulates the stack's samples into TotalSamples, the terminal node
// additionally into SelfSamples.
func (t *Tree) Add(s *model.Stack, rename func(string) string) {
	if len(s.Frames) == 0 {
		return
	}

	t.TotalSamples += s.Samples
	t.Root.TotalSamples += s.Samples

	node := t.Root
	for i, frame := range s.Frames {
		if rename != nil {
			frame = rename(frame)
		}
		node = node.ensureChild(frame)
		node.TotalSamples += s.Samples
		if i == len(s.Frames)-1 {
			node.SelfSamples += s.Samples
		}
	}
}

// MaxDepth returns the depth of the deepest node, counting the
// sentinel root as depth zero.
func (t *Tree) MaxDepth() int {
	return maxDepth(t.Root, 0)
}

func maxDepth(n *Node, depth int) int {
	deepest := depth
	for _, child := range n.Children {
		if d := maxDepth(child, depth+1); d > deepest {
			deepest = d
		}
	}
	return deepest
}
