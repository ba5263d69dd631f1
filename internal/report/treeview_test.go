package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flame-analysis/internal/stacktree"
	"github.com/flame-analysis/pkg/model"
)

func buildTree(t *testing.T, stacks []*model.Stack) *stacktree.Tree {
	t.Helper()
	return stacktree.Fold(stacks, nil)
}

func TestFormatTree_Layout(t *testing.T) {
	tree := buildTree(t, []*model.Stack{
		{Frames: []string{"main", "work", "hotloop"}, Samples: 800},
		{Frames: []string{"main", "work"}, Samples: 200},
	})

	out := FormatTree(tree, TreeOptions{TopN: 10})

	assert.Contains(t, out, "STACK TREE (hottest paths)")
	assert.Contains(t, out, "Total samples: 1,000")
	assert.Contains(t, out, "main\n  └─ 1,000 samples (100.0%)")
	assert.Contains(t, out, "  work\n    └─ 1,000 samples (100.0%) [self: 200 (20.0%)]")
	assert.Contains(t, out, "    hotloop\n      └─ 800 samples (80.0%) [self: 800 (80.0%)]")
}

func TestFormatTree_ChildrenDescendingByTotal(t *testing.T) {
	tree := buildTree(t, []*model.Stack{
		{Frames: []string{"root", "cold"}, Samples: 100},
		{Frames: []string{"root", "hot"}, Samples: 900},
	})

	out := FormatTree(tree, TreeOptions{TopN: 10})
	assert.Less(t, strings.Index(out, "hot\n"), strings.Index(out, "cold\n"))
}

func TestFormatTree_MinPercentPrunesSubtree(t *testing.T) {
	tree := buildTree(t, []*model.Stack{
		{Frames: []string{"main", "big"}, Samples: 990},
		{Frames: []string{"main", "tiny", "inner"}, Samples: 10},
	})

	out := FormatTree(tree, TreeOptions{TopN: 10, MinPercent: 5.0})
	assert.Contains(t, out, "big")
	assert.NotContains(t, out, "tiny")
	assert.NotContains(t, out, "inner")
}

func TestFormatTree_NodeCap(t *testing.T) {
	stacks := make([]*model.Stack, 0, 20)
	for i := 0; i < 20; i++ {
		stacks = append(stacks, &model.Stack{
			Frames:  []string{string(rune('a' + i))},
			Samples: int64(100 - i),
		})
	}
	tree := buildTree(t, stacks)

	out := FormatTree(tree, TreeOptions{TopN: 2})

	// Each shown node renders two lines; a top-N of 2 caps at 6 nodes.
	body := out[strings.Index(out, "Total samples"):]
	assert.Equal(t, 6, strings.Count(body, "└─"))
}

func TestFormatTree_SelfAnnotationFloor(t *testing.T) {
	tree := buildTree(t, []*model.Stack{
		{Frames: []string{"main", "work"}, Samples: 99950},
		{Frames: []string{"main"}, Samples: 50},
	})

	out := FormatTree(tree, TreeOptions{TopN: 10})

	// main's 50 self samples are 0.05% of 100,000, below the floor.
	lines := strings.Split(out, "\n")
	var mainLine string
	for i, l := range lines {
		if strings.TrimSpace(l) == "main" {
			mainLine = lines[i+1]
			break
		}
	}
	require.NotEmpty(t, mainLine)
	assert.NotContains(t, mainLine, "self")
}

func TestFormatTree_TotalSamplesOverride(t *testing.T) {
	tree := buildTree(t, []*model.Stack{
		{Frames: []string{"main"}, Samples: 500},
	})

	out := FormatTree(tree, TreeOptions{TopN: 10, TotalSamples: 1000})
	assert.Contains(t, out, "Total samples: 1,000")
	assert.Contains(t, out, "500 samples (50.0%)")
}

func TestFormatTree_LongNameTruncated(t *testing.T) {
	long := strings.Repeat("x", 80)
	tree := buildTree(t, []*model.Stack{
		{Frames: []string{long}, Samples: 10},
	})

	out := FormatTree(tree, TreeOptions{TopN: 10})
	assert.Contains(t, out, strings.Repeat("x", 57)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 61))
}
