package portfolio

// Limits are the editor bounds for one asset class. They keep a search space
// within what an optimizer run can cover.
type Limits struct {
	CapacityMax float64 // MW
	StepMin     float64 // MW
	StepMax     float64 // MW
	DurationMin float64 // hours, BESS only
	DurationMax float64 // hours, BESS only
}

var limits = map[Kind]Limits{
	KindPV:    {CapacityMax: 50, StepMin: 0.1, StepMax: 10},
	KindWind:  {CapacityMax: 50, StepMin: 0.1, StepMax: 10},
	KindHydro: {CapacityMax: 30, StepMin: 0.1, StepMax: 10},
	KindBESS:  {CapacityMax: 100, StepMin: 0.5, StepMax: 20, DurationMin: 0.5, DurationMax: 8},
}

// LimitsFor returns the editor bounds for a kind
func LimitsFor(k Kind) Limits {
	return limits[k]
}

func checkLimits(spec Spec) error {
	l := LimitsFor(spec.Kind())
	b := spec.Common()

	if b.Capacity.Max > l.CapacityMax {
		return invalid(capacityField(spec, "max"), "must not exceed %g MW, got %g", l.CapacityMax, b.Capacity.Max)
	}
	if b.Capacity.Step < l.StepMin || b.Capacity.Step > l.StepMax {
		return invalid(capacityField(spec, "step"), "must be within [%g, %g] MW, got %g",
			l.StepMin, l.StepMax, b.Capacity.Step)
	}
	if bess, ok := spec.(BESS); ok {
		if bess.DurationHours < l.DurationMin || bess.DurationHours > l.DurationMax {
			return invalid("duration_hours", "must be within [%g, %g] hours, got %g",
				l.DurationMin, l.DurationMax, bess.DurationHours)
		}
	}
	return nil
}
