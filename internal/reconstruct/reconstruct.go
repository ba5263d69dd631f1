// Package reconstruct rebuilds call stacks from the flat frame records
// of a rendered flame graph. The rendering never stores an explicit
// tree; ancestry is recovered from x-range containment across depth
// levels.
package reconstruct

import (
	"sort"

	"github.com/flame-analysis/pkg/model"
)

// levelIndex buckets geometry-bearing frames by depth level, each level
// sorted by ascending x. Larger depth values sit closer to the root:
// flame graphs grow upward from a base row at the bottom of the image.
type levelIndex struct {
	depths []int
	frames map[int][]*model.Frame
}

func buildLevelIndex(frames []*model.Frame) *levelIndex {
	idx := &levelIndex{frames: make(map[int][]*model.Frame)}

	for _, f := range frames {
		if !f.HasGeometry {
			continue
		}
		if _, seen := idx.frames[f.Depth]; !seen {
			idx.depths = append(idx.depths, f.Depth)
		}
		idx.frames[f.Depth] = append(idx.frames[f.Depth], f)
	}

	sort.Ints(idx.depths)
	for _, level := range idx.frames {
		sort.Slice(level, func(i, j int) bool { return level[i].X < level[j].X })
	}
	return idx
}

// ancestorAt returns the first frame at the given depth level, in
// ascending x order, whose range contains [x, x+width].
//
// A consistent encoding has at most one containing frame per level,
// because the rendering that produced it was itself a tree. Degenerate
// geometry can offer several; the ascending-x tie-break is an explicit
// deterministic policy, not a semantic choice.
func (idx *levelIndex) ancestorAt(depth, x, width int) *model.Frame {
	for _, cand := range idx.frames[depth] {
		if cand.X > x {
			// Sorted by x: no later frame can contain the range.
			return nil
		}
		if cand.Contains(x, width) {
			return cand
		}
	}
	return nil
}

// Stacks reconstructs one root-to-leaf stack per geometry-bearing
// frame. For each frame the ancestor chain is found by scanning depth
// levels toward the root, at each level selecting the frame containing
// the current range and continuing from that frame's own range. Levels
// with no containing frame are omitted from the chain; a consistent
// encoding yields a fully connected chain down to the root level.
//
// Frames without geometry are skipped: they cannot be placed in a call
// path. The cost is O(F x L) over F frames and L depth levels, which
// stays cheap because flame graph depth is bounded by realistic call
// stack depth.
func Stacks(frames []*model.Frame) []*model.Stack {
	idx := buildLevelIndex(frames)

	stacks := make([]*model.Stack, 0, len(frames))
	for _, f := range frames {
		if !f.HasGeometry {
			continue
		}
		stacks = append(stacks, reconstructOne(idx, f))
	}
	return stacks
}

func reconstructOne(idx *levelIndex, f *model.Frame) *model.Stack {
	// Built leaf-to-root, reversed at the end.
	chain := []string{f.Label}
	curX, curW := f.X, f.Width

	for _, depth := range idx.depths {
		if depth <= f.Depth {
			continue
		}
		ancestor := idx.ancestorAt(depth, curX, curW)
		if ancestor == nil {
			continue
		}
		chain = append(chain, ancestor.Label)
		curX, curW = ancestor.X, ancestor.Width
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	return &model.Stack{
		Frames:  chain,
		Samples: f.Samples,
		Percent: f.Percent,
	}
}
