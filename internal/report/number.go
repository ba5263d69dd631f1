// Package report renders aggregated flame graph data into the textual
// hotspot views: ranked table, hottest-stack listing and hottest-path
// tree.
package report

import "strconv"

// comma formats n with thousands separators, matching the sample-count
// notation of the flame graph annotations themselves.
func comma(n int64) string {
	s := strconv.FormatInt(n, 10)
	start := 0
	if n < 0 {
		start = 1
	}

	digits := len(s) - start
	if digits <= 3 {
		return s
	}

	out := make([]byte, 0, len(s)+(digits-1)/3)
	out = append(out, s[:start]...)
	for i := start; i < len(s); i++ {
		if i > start && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// truncateName shortens a display name to at most max characters,
// ellipsized.
func truncateName(name string, max int) string {
	if len(name) <= max {
		return name
	}
	return name[:max-3] + "..."
}
