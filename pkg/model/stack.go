package model

// Stack is an ordered root-to-leaf sequence of frame labels
// reconstructed from one frame plus its inferred ancestor chain. It
// carries the sample count and percentage of the originating frame.
type Stack struct {
	Frames  []string `json:"frames"`
	Samples int64    `json:"samples"`
	Percent float64  `json:"percent"`
}

// Leaf returns the terminal (deepest) frame label, or "" for an empty
// stack.
func (s *Stack) Leaf() string {
	if len(s.Frames) == 0 {
		return ""
	}
	return s.Frames[len(s.Frames)-1]
}

// IsStrictPrefixOf reports whether s's frame sequence is a strict
// prefix of other's. A stack that is a strict prefix of another stack
// represents a passthrough caller, not actually-executing code.
func (s *Stack) IsStrictPrefixOf(other *Stack) bool {
	if len(s.Frames) >= len(other.Frames) {
		return false
	}
	for i, frame := range s.Frames {
		if other.Frames[i] != frame {
			return false
		}
	}
	return true
}

// GroupStat accumulates statistics for one grouping key: the sum of
// sample counts and the maximum percentage observed across contributing
// frames. Percentages at different depths overlap in attribution and
// are not additive, so only the peak is kept.
type GroupStat struct {
	Key          string  `json:"key"`
	TotalSamples int64   `json:"total_samples"`
	MaxPercent   float64 `json:"max_percent"`
}
