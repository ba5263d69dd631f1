package reconstruct

import "github.com/flame-analysis/pkg/model"

// Leaves filters reconstructed stacks down to those that are not a
// strict prefix of any other stack in the set. A stack that prefixes a
// longer one represents a caller merely passing through to a hot
// descendant; keeping it would double-count its samples as "hot".
//
// Stacks are compared exactly. Equal-length duplicates are never
// prefixes of each other and are all kept. Input order is preserved.
func Leaves(stacks []*model.Stack) []*model.Stack {
	// Bucket by length: a strict prefix is always shorter than the
	// stack it prefixes, so each candidate only checks longer buckets.
	byLen := make(map[int][]*model.Stack)
	maxLen := 0
	for _, s := range stacks {
		byLen[len(s.Frames)] = append(byLen[len(s.Frames)], s)
		if len(s.Frames) > maxLen {
			maxLen = len(s.Frames)
		}
	}

	leaves := make([]*model.Stack, 0, len(stacks))
	for _, s := range stacks {
		if isPrefixOfAny(s, byLen, maxLen) {
			continue
		}
		leaves = append(leaves, s)
	}
	return leaves
}

func isPrefixOfAny(s *model.Stack, byLen map[int][]*model.Stack, maxLen int) bool {
	for length := len(s.Frames) + 1; length <= maxLen; length++ {
		for _, other := range byLen[length] {
			if s.IsStrictPrefixOf(other) {
				return true
			}
		}
	}
	return false
}
