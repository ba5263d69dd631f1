package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flame-analysis/pkg/model"
)

func TestComma(t *testing.T) {
	assert.Equal(t, "0", comma(0))
	assert.Equal(t, "999", comma(999))
	assert.Equal(t, "1,000", comma(1000))
	assert.Equal(t, "1,234,567", comma(1234567))
	assert.Equal(t, "-1,234", comma(-1234))
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "short", truncateName("short", 60))
	long := strings.Repeat("a", 70)
	got := truncateName(long, 60)
	assert.Len(t, got, 60)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestFormatTable_SortsBySamplesDescending(t *testing.T) {
	groups := []*model.GroupStat{
		{Key: "work", TotalSamples: 100, MaxPercent: 10.0},
		{Key: "hotloop", TotalSamples: 150, MaxPercent: 15.0},
		{Key: "main", TotalSamples: 100, MaxPercent: 100.0},
	}

	out := FormatTable(groups, TableOptions{TopN: 50, SortBy: SortBySamples})
	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 5)

	assert.Contains(t, lines[2], "hotloop")
	// Equal sample counts keep input order.
	assert.Contains(t, lines[3], "work")
	assert.Contains(t, lines[4], "main")
}

func TestFormatTable_SortByPercent(t *testing.T) {
	groups := []*model.GroupStat{
		{Key: "work", TotalSamples: 150, MaxPercent: 10.0},
		{Key: "main", TotalSamples: 100, MaxPercent: 100.0},
	}

	out := FormatTable(groups, TableOptions{TopN: 50, SortBy: SortByPercent})
	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[2], "main")
	assert.Contains(t, lines[3], "work")
}

func TestFormatTable_MinPercentFiltersBeforeTopN(t *testing.T) {
	groups := []*model.GroupStat{
		{Key: "big", TotalSamples: 900, MaxPercent: 90.0},
		{Key: "tiny", TotalSamples: 500, MaxPercent: 0.5},
		{Key: "mid", TotalSamples: 100, MaxPercent: 10.0},
	}

	out := FormatTable(groups, TableOptions{TopN: 2, MinPercent: 1.0, SortBy: SortBySamples})
	assert.Contains(t, out, "big")
	assert.Contains(t, out, "mid")
	assert.NotContains(t, out, "tiny")
}

func TestFormatTable_TopNTruncates(t *testing.T) {
	groups := []*model.GroupStat{
		{Key: "a", TotalSamples: 3, MaxPercent: 3},
		{Key: "b", TotalSamples: 2, MaxPercent: 2},
		{Key: "c", TotalSamples: 1, MaxPercent: 1},
	}

	out := FormatTable(groups, TableOptions{TopN: 2, SortBy: SortBySamples})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "a")
	assert.Contains(t, lines[3], "b")
}

func TestFormatTable_Empty(t *testing.T) {
	out := FormatTable(nil, TableOptions{TopN: 10, SortBy: SortBySamples})
	assert.Equal(t, "No entries found matching criteria.", out)

	groups := []*model.GroupStat{{Key: "x", TotalSamples: 1, MaxPercent: 0.01}}
	out = FormatTable(groups, TableOptions{TopN: 10, MinPercent: 5.0, SortBy: SortBySamples})
	assert.Equal(t, "No entries found matching criteria.", out)
}

func TestFormatTable_SampleColumnWidth(t *testing.T) {
	groups := []*model.GroupStat{
		{Key: "wide", TotalSamples: 123456789, MaxPercent: 99.0},
		{Key: "narrow", TotalSamples: 5, MaxPercent: 1.0},
	}

	out := FormatTable(groups, TableOptions{TopN: 10, SortBy: SortBySamples})
	lines := strings.Split(out, "\n")

	// "123,456,789" is 11 wide, so every samples column pads to 11.
	assert.True(t, strings.HasPrefix(lines[2], "123,456,789"))
	assert.True(t, strings.HasPrefix(lines[3], strings.Repeat(" ", 10)+"5"))
}

func TestFormatTable_NarrowCountsGetNoHeaderPadding(t *testing.T) {
	groups := []*model.GroupStat{
		{Key: "f", TotalSamples: 42, MaxPercent: 5.0},
	}

	out := FormatTable(groups, TableOptions{TopN: 10, SortBy: SortBySamples})
	lines := strings.Split(out, "\n")

	// The widest count is 2 wide; the header cell overflows, the rule
	// and rows follow the count width.
	assert.Equal(t, "Samples       %  Function/Path", lines[0])
	assert.Equal(t, strings.Repeat("-", 2+2+6+2+50), lines[1])
	assert.Equal(t, "42   5.00%  f", lines[2])
}

func TestParseSortKey(t *testing.T) {
	key, err := ParseSortKey("samples")
	require.NoError(t, err)
	assert.Equal(t, SortBySamples, key)

	key, err = ParseSortKey("percent")
	require.NoError(t, err)
	assert.Equal(t, SortByPercent, key)

	_, err = ParseSortKey("latency")
	assert.Error(t, err)
}
