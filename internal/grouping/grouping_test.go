package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flame-analysis/pkg/model"
)

func frame(label string, samples int64, percent float64) *model.Frame {
	return &model.Frame{Label: label, Samples: samples, Percent: percent}
}

func TestCalculate_SumSamplesMaxPercent(t *testing.T) {
	calc := NewCalculator()
	groups := calc.Calculate([]*model.Frame{
		frame("hot", 100, 40.0),
		frame("hot", 50, 25.0),
	})

	require.Len(t, groups, 1)
	assert.Equal(t, int64(150), groups[0].TotalSamples, "samples are summed")
	assert.Equal(t, 40.0, groups[0].MaxPercent, "percent is the peak, never a sum or average")
}

func TestCalculate_FirstSeenOrder(t *testing.T) {
	calc := NewCalculator()
	groups := calc.Calculate([]*model.Frame{
		frame("b", 1, 1),
		frame("a", 1, 1),
		frame("b", 1, 1),
		frame("c", 1, 1),
	})

	require.Len(t, groups, 3)
	assert.Equal(t, "b", groups[0].Key)
	assert.Equal(t, "a", groups[1].Key)
	assert.Equal(t, "c", groups[2].Key)
}

func TestCalculate_ModuleMode(t *testing.T) {
	calc := NewCalculator(WithMode(ModeModule))
	groups := calc.Calculate([]*model.Frame{
		frame("foo::bar::baz", 10, 5),
		frame("foo::bar::qux", 20, 8),
		frame("standalone", 1, 1),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "foo::bar", groups[0].Key)
	assert.Equal(t, int64(30), groups[0].TotalSamples)
	assert.Equal(t, 8.0, groups[0].MaxPercent)
	assert.Equal(t, "standalone", groups[1].Key)
}

func TestCalculate_CrateMode(t *testing.T) {
	calc := NewCalculator(WithMode(ModeCrate))
	groups := calc.Calculate([]*model.Frame{
		frame("foo::bar::baz", 10, 5),
		frame("foo::other", 5, 2),
		frame("v8::internal::Heap", 3, 1),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "foo", groups[0].Key)
	assert.Equal(t, int64(15), groups[0].TotalSamples)
	assert.Equal(t, "v8", groups[1].Key)
}

func TestCalculate_SimplifyMergesGenerics(t *testing.T) {
	calc := NewCalculator(WithSimplify(true))
	groups := calc.Calculate([]*model.Frame{
		frame("f<u8>", 10, 5),
		frame("f<u16>", 20, 9),
	})

	require.Len(t, groups, 1)
	assert.Equal(t, "f", groups[0].Key)
	assert.Equal(t, int64(30), groups[0].TotalSamples)
}

func TestCalculate_GeometrylessFramesIncluded(t *testing.T) {
	// Grouping needs no ancestry; label-only frames contribute fully.
	calc := NewCalculator()
	groups := calc.Calculate([]*model.Frame{
		{Label: "nogeo", Samples: 7, Percent: 3},
	})
	require.Len(t, groups, 1)
	assert.Equal(t, int64(7), groups[0].TotalSamples)
}

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"function", "module", "crate"} {
		mode, err := ParseMode(valid)
		require.NoError(t, err)
		assert.Equal(t, Mode(valid), mode)
	}

	_, err := ParseMode("namespace")
	assert.Error(t, err)
}
