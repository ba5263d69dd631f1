package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrame_Contains(t *testing.T) {
	outer := &Frame{X: 0, Width: 10}

	assert.True(t, outer.Contains(2, 6))
	assert.True(t, outer.Contains(0, 10), "a frame contains its own range")
	assert.False(t, outer.Contains(5, 10), "right edge outside")
	assert.False(t, outer.Contains(-1, 5), "left edge outside")
}

func TestTotalSamples(t *testing.T) {
	frames := []*Frame{
		{Label: "a", Samples: 100},
		{Label: "b", Samples: 50},
		{Label: "c", Samples: 0},
	}
	assert.Equal(t, int64(150), TotalSamples(frames))
	assert.Equal(t, int64(0), TotalSamples(nil))
}

func TestStack_IsStrictPrefixOf(t *testing.T) {
	ab := &Stack{Frames: []string{"a", "b"}}
	abc := &Stack{Frames: []string{"a", "b", "c"}}
	ac := &Stack{Frames: []string{"a", "c"}}

	assert.True(t, ab.IsStrictPrefixOf(abc))
	assert.False(t, abc.IsStrictPrefixOf(ab))
	assert.False(t, ab.IsStrictPrefixOf(ab), "a stack is not a strict prefix of itself")
	assert.False(t, ab.IsStrictPrefixOf(ac))
}

func TestStack_Leaf(t *testing.T) {
	assert.Equal(t, "c", (&Stack{Frames: []string{"a", "b", "c"}}).Leaf())
	assert.Equal(t, "", (&Stack{}).Leaf())
}
