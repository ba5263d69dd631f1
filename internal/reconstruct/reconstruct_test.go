package reconstruct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flame-analysis/pkg/model"
)

func geoFrame(label string, x, w, depth int, samples int64) *model.Frame {
	return &model.Frame{
		Label:       label,
		Samples:     samples,
		X:           x,
		Width:       w,
		Depth:       depth,
		HasGeometry: true,
	}
}

func TestStacks_RootToLeafOrder(t *testing.T) {
	// Level 2 frame [0,10] contains level 1 frame [2,6] contains
	// level 0 frame [3,4]. Larger depth = closer to root.
	frames := []*model.Frame{
		geoFrame("level2", 0, 10, 2, 100),
		geoFrame("level1", 2, 4, 1, 60),
		geoFrame("level0", 3, 1, 0, 30),
	}

	stacks := Stacks(frames)
	require.Len(t, stacks, 3)

	var leaf *model.Stack
	for _, s := range stacks {
		if s.Leaf() == "level0" {
			leaf = s
		}
	}
	require.NotNil(t, leaf)
	assert.Equal(t, []string{"level2", "level1", "level0"}, leaf.Frames)
	assert.Equal(t, int64(30), leaf.Samples)
}

func TestStacks_SiblingsSplitAtSharedParent(t *testing.T) {
	frames := []*model.Frame{
		geoFrame("root", 0, 100, 2, 100),
		geoFrame("left", 0, 40, 1, 40),
		geoFrame("right", 50, 50, 1, 50),
	}

	stacks := Stacks(frames)
	require.Len(t, stacks, 3)

	byLeaf := make(map[string][]string)
	for _, s := range stacks {
		byLeaf[s.Leaf()] = s.Frames
	}
	assert.Equal(t, []string{"root", "left"}, byLeaf["left"])
	assert.Equal(t, []string{"root", "right"}, byLeaf["right"])
}

func TestStacks_MissingLevelOmitted(t *testing.T) {
	// No ancestor at depth 1 covers [60,70]; the chain connects
	// straight to the root level.
	frames := []*model.Frame{
		geoFrame("root", 0, 100, 2, 100),
		geoFrame("elsewhere", 0, 40, 1, 40),
		geoFrame("orphaned", 60, 10, 0, 10),
	}

	stacks := Stacks(frames)
	byLeaf := make(map[string][]string)
	for _, s := range stacks {
		byLeaf[s.Leaf()] = s.Frames
	}
	assert.Equal(t, []string{"root", "orphaned"}, byLeaf["orphaned"])
}

func TestStacks_AmbiguousContainmentTieBreak(t *testing.T) {
	// Degenerate geometry: two identical frames at depth 1 both
	// contain the leaf. The first by ascending x wins; with equal x
	// the earlier-sorted record wins deterministically.
	frames := []*model.Frame{
		geoFrame("wide_left", 0, 50, 1, 50),
		geoFrame("wide_right", 10, 90, 1, 90),
		geoFrame("leaf", 12, 5, 0, 5),
	}

	// Both depth-1 frames contain [12,17]; wide_left has the smaller x.
	stacks := Stacks(frames)
	byLeaf := make(map[string][]string)
	for _, s := range stacks {
		byLeaf[s.Leaf()] = s.Frames
	}
	assert.Equal(t, []string{"wide_left", "leaf"}, byLeaf["leaf"])
}

func TestStacks_ChainContinuesFromMatchedRange(t *testing.T) {
	// The leaf's own range is narrow, but once matched to its parent
	// the scan continues from the parent's wider range, so a
	// grandparent must contain the parent, not just the leaf.
	frames := []*model.Frame{
		geoFrame("grandparent", 0, 100, 2, 100),
		geoFrame("narrow_top", 40, 10, 2, 10),
		geoFrame("parent", 0, 80, 1, 80),
		geoFrame("leaf", 45, 2, 0, 2),
	}

	stacks := Stacks(frames)
	byLeaf := make(map[string][]string)
	for _, s := range stacks {
		byLeaf[s.Leaf()] = s.Frames
	}
	// narrow_top contains the leaf's range but not parent's; only
	// grandparent can continue the chain above parent.
	assert.Equal(t, []string{"grandparent", "parent", "leaf"}, byLeaf["leaf"])
}

func TestStacks_GeometrylessFramesSkipped(t *testing.T) {
	frames := []*model.Frame{
		geoFrame("root", 0, 10, 1, 10),
		{Label: "legendish", Samples: 5},
	}

	stacks := Stacks(frames)
	require.Len(t, stacks, 1)
	assert.Equal(t, []string{"root"}, stacks[0].Frames)
}

func TestStacks_Empty(t *testing.T) {
	assert.Empty(t, Stacks(nil))
	assert.Empty(t, Stacks([]*model.Frame{{Label: "nogeo"}}))
}
