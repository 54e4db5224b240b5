package searchspace

import (
	"github.com/shopspring/decimal"

	"github.com/ryansname/gridsizer/src/portfolio"
)

var kwPerMW = decimal.NewFromInt(1000)

// CapitalCost is the up-front cost of building a component at capacityMW.
// Batteries add the energy cost of capacityMW * duration.
func CapitalCost(spec portfolio.Spec, capacityMW float64) decimal.Decimal {
	b := spec.Common()
	kw := decimal.NewFromFloat(capacityMW).Mul(kwPerMW)
	cost := kw.Mul(decimal.NewFromFloat(b.Capex))

	if bess, ok := spec.(portfolio.BESS); ok {
		kwh := kw.Mul(decimal.NewFromFloat(bess.DurationHours))
		cost = cost.Add(kwh.Mul(decimal.NewFromFloat(bess.EnergyCapex)))
	}
	return cost.Round(2)
}

// CapitalCostRange is the capital cost at the smallest and largest grid point.
// Disabled components cost nothing.
func CapitalCostRange(spec portfolio.Spec) (low, high decimal.Decimal) {
	b := spec.Common()
	if !b.Enabled {
		return decimal.Zero, decimal.Zero
	}
	return CapitalCost(spec, b.Capacity.Min), CapitalCost(spec, lastPoint(spec))
}

// PortfolioCapitalRange sums CapitalCostRange over every component
func PortfolioCapitalRange(snap portfolio.Snapshot) (low, high decimal.Decimal) {
	low, high = decimal.Zero, decimal.Zero
	for _, spec := range snap.Specs() {
		l, h := CapitalCostRange(spec)
		low = low.Add(l)
		high = high.Add(h)
	}
	return low, high
}
