package searchspace

import (
	"errors"
	"fmt"

	"github.com/ryansname/gridsizer/src/portfolio"
)

// MaxGridPoints caps how many capacity points a single component grid may hold
const MaxGridPoints = 1 << 20

// ErrGridTooLarge is returned when a component grid exceeds MaxGridPoints
var ErrGridTooLarge = errors.New("capacity grid too large")

// CapacityPoints returns the capacity grid (MW) an optimizer would iterate for a
// component: min + i*step for each option. A disabled component is the single 0 MW point.
func CapacityPoints(spec portfolio.Spec) ([]float64, error) {
	b := spec.Common()
	if !b.Enabled {
		return []float64{0}, nil
	}
	n := OptionCount(spec)
	if n > MaxGridPoints {
		return nil, fmt.Errorf("%s: %d points: %w", spec.Kind(), n, ErrGridTooLarge)
	}
	points := make([]float64, n)
	for i := range points {
		points[i] = gridPoint(b.Capacity, i)
	}
	return points, nil
}

func gridPoint(r portfolio.Range, i int) float64 {
	return r.Min + float64(i)*r.Step
}

// lastPoint is the largest capacity in a component's grid, without building it
func lastPoint(spec portfolio.Spec) float64 {
	b := spec.Common()
	if !b.Enabled {
		return 0
	}
	return gridPoint(b.Capacity, OptionCount(spec)-1)
}

// Point is one combination of component capacities, indexed by kind
type Point [4]float64

// Each calls fn for every combination in the search space, in odometer order with
// BESS varying fastest. It stops early if fn returns false.
func Each(snap portfolio.Snapshot, fn func(Point) bool) error {
	specs := snap.Specs()
	grids := make([][]float64, len(specs))
	for i, spec := range specs {
		points, err := CapacityPoints(spec)
		if err != nil {
			return err
		}
		grids[i] = points
	}

	idx := make([]int, len(grids))
	for {
		var p Point
		for i, g := range grids {
			p[i] = g[idx[i]]
		}
		if !fn(p) {
			return nil
		}

		i := len(idx) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(grids[i]) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return nil
		}
	}
}
