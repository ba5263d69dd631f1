package stacktree

import (
	"bytes"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flame-analysis/pkg/model"
	"github.com/flame-analysis/pkg/symbol"
)

func stack(samples int64, frames ...string) *model.Stack {
	return &model.Stack{Frames: frames, Samples: samples}
}

func TestFold_SharedPrefixSplit(t *testing.T) {
	tree := Fold([]*model.Stack{
		stack(30, "a", "b", "c"),
		stack(20, "a", "b", "d"),
	}, nil)

	a := tree.Root.Child("a")
	require.NotNil(t, a)
	b := a.Child("b")
	require.NotNil(t, b)

	assert.Equal(t, int64(50), a.TotalSamples)
	assert.Equal(t, int64(0), a.SelfSamples)
	assert.Equal(t, int64(50), b.TotalSamples)

	c := b.Child("c")
	d := b.Child("d")
	require.NotNil(t, c)
	require.NotNil(t, d)
	assert.Equal(t, int64(30), c.TotalSamples)
	assert.Equal(t, int64(30), c.SelfSamples)
	assert.Equal(t, int64(20), d.TotalSamples)
	assert.Equal(t, int64(20), d.SelfSamples)
}

func TestFold_Conservation(t *testing.T) {
	stacks := []*model.Stack{
		stack(30, "a", "b", "c"),
		stack(20, "a", "b"),
		stack(50, "x"),
		stack(1, "a"),
	}

	tree := Fold(stacks, nil)

	var sum int64
	for _, s := range stacks {
		sum += s.Samples
	}
	assert.Equal(t, sum, tree.TotalSamples)
	assert.Equal(t, sum, tree.Root.TotalSamples)

	// self_samples <= total_samples for every node.
	var walk func(n *Node)
	walk = func(n *Node) {
		assert.LessOrEqual(t, n.SelfSamples, n.TotalSamples, "node %s", n.Name)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(tree.Root)
}

func TestFold_SelfOnIntermediateNode(t *testing.T) {
	// "a -> b" terminates at b even though b also has a child via the
	// longer stack: self and passthrough samples coexist on one node.
	tree := Fold([]*model.Stack{
		stack(30, "a", "b", "c"),
		stack(20, "a", "b"),
	}, nil)

	b := tree.Root.Child("a").Child("b")
	require.NotNil(t, b)
	assert.Equal(t, int64(50), b.TotalSamples)
	assert.Equal(t, int64(20), b.SelfSamples)
}

func TestFold_RenameMergesNodes(t *testing.T) {
	tree := Fold([]*model.Stack{
		stack(10, "f<u8>"),
		stack(5, "f<u16>"),
	}, symbol.Simplify)

	f := tree.Root.Child("f")
	require.NotNil(t, f)
	assert.Equal(t, int64(15), f.TotalSamples)
	assert.Equal(t, int64(15), f.SelfSamples)
	assert.Len(t, tree.Root.Children, 1)
}

func TestNode_SortedChildren(t *testing.T) {
	tree := Fold([]*model.Stack{
		stack(10, "cold"),
		stack(99, "hot"),
		stack(50, "warm"),
	}, nil)

	sorted := tree.Root.SortedChildren()
	require.Len(t, sorted, 3)
	assert.Equal(t, "hot", sorted[0].Name)
	assert.Equal(t, "warm", sorted[1].Name)
	assert.Equal(t, "cold", sorted[2].Name)
	assert.True(t, sort.SliceIsSorted(sorted, func(i, j int) bool {
		return sorted[i].TotalSamples > sorted[j].TotalSamples
	}))
}

func TestTree_MaxDepth(t *testing.T) {
	tree := Fold([]*model.Stack{
		stack(1, "a", "b", "c"),
		stack(1, "x"),
	}, nil)
	assert.Equal(t, 3, tree.MaxDepth())
	assert.Equal(t, 0, NewTree().MaxDepth())
}

func TestFoldedWriter_RoundTripShape(t *testing.T) {
	tree := Fold([]*model.Stack{
		stack(30, "a", "b", "c"),
		stack(20, "a", "b"),
		stack(50, "x"),
	}, nil)

	var buf bytes.Buffer
	require.NoError(t, NewFoldedWriter().Write(tree, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.ElementsMatch(t, []string{
		"a;b;c 30",
		"a;b 20",
		"x 50",
	}, lines)
}

func TestFoldedWriter_SkipsPassthroughNodes(t *testing.T) {
	tree := Fold([]*model.Stack{stack(10, "a", "b")}, nil)

	var buf bytes.Buffer
	require.NoError(t, NewFoldedWriter().Write(tree, &buf))
	assert.Equal(t, "a;b 10\n", buf.String())
}

func TestFoldedWriter_FrameNamedRoot(t *testing.T) {
	// A genuine top-level frame labeled "root" must not be confused
	// with the sentinel.
	tree := Fold([]*model.Stack{
		stack(100, "root"),
		stack(60, "root", "child"),
	}, nil)

	var buf bytes.Buffer
	require.NoError(t, NewFoldedWriter().Write(tree, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.ElementsMatch(t, []string{
		"root 100",
		"root;child 60",
	}, lines)
}
