package searchspace

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryansname/gridsizer/src/portfolio"
)

func mustPoints(t *testing.T, spec portfolio.Spec) []float64 {
	t.Helper()
	p, err := CapacityPoints(spec)
	require.NoError(t, err)
	return p
}

func TestCapacityPoints(t *testing.T) {
	assert.Equal(t, []float64{0, 2, 4}, mustPoints(t, pvWith(0, 5, 2, true)))
	assert.Equal(t, []float64{0}, mustPoints(t, pvWith(1, 5, 1, false)))
	assert.Equal(t, []float64{3}, mustPoints(t, pvWith(3, 10, 0, true)))

	for _, pv := range []portfolio.PV{pvWith(0, 10, 1, true), pvWith(1, 5, 0.5, true)} {
		assert.Len(t, mustPoints(t, pv), OptionCount(pv))
	}
}

func TestCapacityPoints_TooLarge(t *testing.T) {
	_, err := CapacityPoints(pvWith(0, 1e15, 1, true))
	assert.ErrorIs(t, err, ErrGridTooLarge)

	// Disabled components are a single point whatever their range
	assert.Equal(t, []float64{0}, mustPoints(t, pvWith(0, 1e15, 1, false)))
}

func TestEach(t *testing.T) {
	snap := allDisabled()
	snap.PV = pvWith(0, 2, 1, true)
	snap.BESS.Enabled = true
	snap.BESS.Capacity = portfolio.Range{Min: 5, Max: 10, Step: 5}

	var points []Point
	require.NoError(t, Each(snap, func(p Point) bool {
		points = append(points, p)
		return true
	}))

	assert.Len(t, points, TotalCombinations(snap))
	assert.Equal(t, Point{0, 0, 0, 5}, points[0])
	assert.Equal(t, Point{0, 0, 0, 10}, points[1])
	assert.Equal(t, Point{2, 0, 0, 10}, points[5])
}

func TestEach_StopsEarly(t *testing.T) {
	calls := 0
	require.NoError(t, Each(portfolio.DefaultSnapshot(), func(Point) bool {
		calls++
		return calls < 3
	}))
	assert.Equal(t, 3, calls)
}

func TestEach_RefusesOversizedGrid(t *testing.T) {
	snap := portfolio.DefaultSnapshot()
	snap.Wind.Capacity = portfolio.Range{Min: 0, Max: 1e10, Step: 1}

	calls := 0
	err := Each(snap, func(Point) bool {
		calls++
		return true
	})
	assert.ErrorIs(t, err, ErrGridTooLarge)
	assert.Zero(t, calls)
}

func TestCapitalCostRange(t *testing.T) {
	pv := pvWith(1, 5, 1, true) // $1000/kW
	low, high := CapitalCostRange(pv)
	assert.True(t, decimal.NewFromInt(1_000_000).Equal(low), low.String())
	assert.True(t, decimal.NewFromInt(5_000_000).Equal(high), high.String())

	// 20 MW * $300/kW + 80 MWh * $200/kWh
	_, high = CapitalCostRange(portfolio.DefaultBESS())
	assert.True(t, decimal.NewFromInt(22_000_000).Equal(high), high.String())

	low, high = CapitalCostRange(pvWith(1, 5, 1, false))
	assert.True(t, low.IsZero())
	assert.True(t, high.IsZero())
}

func TestPortfolioCapitalRange(t *testing.T) {
	snap := allDisabled()
	snap.PV = pvWith(0, 5, 2, true)
	low, high := PortfolioCapitalRange(snap)
	assert.True(t, low.IsZero())
	// last grid point is 4 MW, not 5
	assert.True(t, decimal.NewFromInt(4_000_000).Equal(high), high.String())
}

func TestCapitalCostRange_HugeRangeDoesNotBuildGrid(t *testing.T) {
	low, high := CapitalCostRange(pvWith(0, 1e15, 1, true))
	assert.True(t, low.IsZero())
	// 1e15 MW * 1000 kW/MW * $1000/kW
	assert.True(t, decimal.New(1, 21).Equal(high), high.String())
}
