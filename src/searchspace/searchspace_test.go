package searchspace

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ryansname/gridsizer/src/portfolio"
)

func pvWith(min, max, step float64, enabled bool) portfolio.PV {
	pv := portfolio.DefaultPV()
	pv.Capacity = portfolio.Range{Min: min, Max: max, Step: step}
	pv.Enabled = enabled
	return pv
}

func allDisabled() portfolio.Snapshot {
	snap := portfolio.DefaultSnapshot()
	snap.PV.Enabled = false
	snap.Wind.Enabled = false
	snap.Hydro.Enabled = false
	snap.BESS.Enabled = false
	return snap
}

func TestOptionCount(t *testing.T) {
	t.Run("disabled is one option regardless of range", func(t *testing.T) {
		assert.Equal(t, 1, OptionCount(pvWith(0, 100, 1, false)))
		assert.Equal(t, 1, OptionCount(pvWith(5, 2, 0, false)))
		assert.Equal(t, 1, OptionCount(pvWith(0, 10, -3, false)))
	})

	t.Run("single point range", func(t *testing.T) {
		for _, step := range []float64{0.1, 1, 7.5} {
			assert.Equal(t, 1, OptionCount(pvWith(3, 3, step, true)), "step=%g", step)
		}
	})

	t.Run("inclusive count", func(t *testing.T) {
		assert.Equal(t, 11, OptionCount(pvWith(0, 10, 1, true)))
	})

	t.Run("floor does not round up to max", func(t *testing.T) {
		assert.Equal(t, 3, OptionCount(pvWith(0, 5, 2, true)))
	})

	t.Run("non-positive step is one option", func(t *testing.T) {
		assert.Equal(t, 1, OptionCount(pvWith(0, 10, 0, true)))
		assert.Equal(t, 1, OptionCount(pvWith(0, 10, -1, true)))
	})

	t.Run("huge ratio saturates", func(t *testing.T) {
		assert.Equal(t, math.MaxInt, OptionCount(pvWith(0, 1e300, 1e-10, true)))
		assert.Equal(t, math.MaxInt, OptionCount(pvWith(0, math.MaxFloat64, 1e-300, true)))
	})

	t.Run("bess counts the power range", func(t *testing.T) {
		assert.Equal(t, 4, OptionCount(portfolio.DefaultBESS()))
	})
}

func TestTotalCombinations(t *testing.T) {
	t.Run("all disabled is one", func(t *testing.T) {
		assert.Equal(t, 1, TotalCombinations(allDisabled()))
	})

	t.Run("product across components", func(t *testing.T) {
		snap := allDisabled()
		snap.PV = pvWith(0, 10, 1, true)
		assert.Equal(t, 11, TotalCombinations(snap))
	})

	t.Run("defaults", func(t *testing.T) {
		// PV 5, wind 4, hydro 3, BESS 4
		assert.Equal(t, 240, TotalCombinations(portfolio.DefaultSnapshot()))
	})

	t.Run("overflowing product saturates", func(t *testing.T) {
		// 65536^4 = 2^64 wraps to 0 without saturation
		wide := portfolio.Range{Min: 0, Max: 65535, Step: 1}
		snap := portfolio.DefaultSnapshot()
		snap.PV.Capacity = wide
		snap.Wind.Capacity = wide
		snap.Hydro.Capacity = wide
		snap.BESS.Capacity = wide

		assert.Equal(t, 65536, OptionCount(snap.PV))
		assert.Equal(t, math.MaxInt, TotalCombinations(snap))

		report := BuildReport(snap)
		assert.Equal(t, BandLarge, report.Band)
		assert.Greater(t, report.EstimatedMinutes, 1.0)
	})

	t.Run("saturated component keeps total saturated", func(t *testing.T) {
		snap := portfolio.DefaultSnapshot()
		snap.PV = pvWith(0, 1e300, 1e-10, true)
		assert.Equal(t, math.MaxInt, TotalCombinations(snap))
	})
}

func TestEstimatedRuntimeMinutes(t *testing.T) {
	assert.Equal(t, 1.0, EstimatedRuntimeMinutes(1))
	assert.Equal(t, 1.0, EstimatedRuntimeMinutes(0))
	assert.Equal(t, 1.0, EstimatedRuntimeMinutes(1200))
	assert.InDelta(t, 100.0, EstimatedRuntimeMinutes(120000), 1e-9)
}

func TestClassify(t *testing.T) {
	for _, tc := range []struct {
		count int
		band  Band
	}{
		{1, BandSmall},
		{10, BandSmall},
		{11, BandMedium},
		{50, BandMedium},
		{51, BandLarge},
	} {
		assert.Equal(t, tc.band, Classify(tc.count), "count=%d", tc.count)
	}
	assert.Equal(t, "medium", BandMedium.String())
}

func TestBuildReport(t *testing.T) {
	report := BuildReport(portfolio.DefaultSnapshot())
	assert.Equal(t, 240, report.Total)
	assert.Equal(t, 1.0, report.EstimatedMinutes)
	assert.Equal(t, BandLarge, report.Band)
	assert.False(t, report.AllDisabled)
	assert.Len(t, report.Components, 4)
	assert.Equal(t, 5, report.Options(portfolio.KindPV))
	assert.Equal(t, BandSmall, report.Components[0].Band)

	empty := BuildReport(allDisabled())
	assert.Equal(t, 1, empty.Total)
	assert.True(t, empty.AllDisabled)
	assert.Equal(t, 1.0, empty.EstimatedMinutes)
}
