package portfolio

import (
	"fmt"
	"maps"
	"math"
	"slices"
)

// ValidationError reports the first invariant a configuration violates
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks a spec and returns the first violated invariant as a *ValidationError.
// Order: range ordering, step, SOC ordering, efficiencies, operating hours, then
// capacity/cost/lifetime/duration bounds, then the per-kind Limits.
// Disabled specs only get the structural checks.
func Validate(spec Spec) error {
	if spec == nil {
		return invalid("kind", "missing component")
	}
	if err := checkFinite(spec); err != nil {
		return err
	}

	b := spec.Common()
	if !b.Enabled {
		return nil
	}

	if b.Capacity.Min > b.Capacity.Max {
		return invalid(capacityField(spec, "min"), "must not exceed %s (%g > %g)",
			capacityField(spec, "max"), b.Capacity.Min, b.Capacity.Max)
	}
	if b.Capacity.Step <= 0 {
		return invalid(capacityField(spec, "step"), "must be positive, got %g", b.Capacity.Step)
	}

	if bess, ok := spec.(BESS); ok {
		if bess.MinSOC >= bess.MaxSOC {
			return invalid("min_soc", "must be below max_soc (%d >= %d)", bess.MinSOC, bess.MaxSOC)
		}
		if err := checkPercent("min_soc", bess.MinSOC); err != nil {
			return err
		}
		if err := checkPercent("max_soc", bess.MaxSOC); err != nil {
			return err
		}
		if err := checkPercent("charge_eff", bess.ChargeEff); err != nil {
			return err
		}
		if err := checkPercent("discharge_eff", bess.DischargeEff); err != nil {
			return err
		}
	}

	if hydro, ok := spec.(Hydro); ok {
		if hydro.OperatingHoursPerDay < 1 || hydro.OperatingHoursPerDay > 24 {
			return invalid("operating_hours_per_day", "must be within [1, 24], got %d", hydro.OperatingHoursPerDay)
		}
	}

	if b.Capacity.Min < 0 {
		return invalid(capacityField(spec, "min"), "must not be negative, got %g", b.Capacity.Min)
	}
	if b.Capex < 0 {
		return invalid("capex", "must not be negative, got %g", b.Capex)
	}
	if b.Opex < 0 {
		return invalid("opex", "must not be negative, got %g", b.Opex)
	}
	if b.LifetimeYears <= 0 {
		return invalid("lifetime_years", "must be positive, got %d", b.LifetimeYears)
	}

	if bess, ok := spec.(BESS); ok {
		if bess.DurationHours <= 0 {
			return invalid("duration_hours", "must be positive, got %g", bess.DurationHours)
		}
		if bess.EnergyCapex < 0 {
			return invalid("energy_capex", "must not be negative, got %g", bess.EnergyCapex)
		}
	}

	return checkLimits(spec)
}

// ValidateGlobal checks the project-wide financial parameters
func ValidateGlobal(g GlobalConfig) error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"discount_rate", g.DiscountRatePct},
		{"inflation_rate", g.InflationRatePct},
		{"target_unmet_load_pct", g.TargetUnmetLoadPct},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return invalid(f.name, "must be a finite number")
		}
	}
	if g.ProjectLifetimeYears <= 0 {
		return invalid("project_lifetime_years", "must be positive, got %d", g.ProjectLifetimeYears)
	}
	if g.TargetUnmetLoadPct < 0 {
		return invalid("target_unmet_load_pct", "must not be negative, got %g", g.TargetUnmetLoadPct)
	}
	return nil
}

func checkPercent(field string, v int) error {
	if v < 0 || v > 100 {
		return invalid(field, "must be within [0, 100], got %d", v)
	}
	return nil
}

func checkFinite(spec Spec) error {
	b := spec.Common()
	values := map[string]float64{
		capacityField(spec, "min"):  b.Capacity.Min,
		capacityField(spec, "max"):  b.Capacity.Max,
		capacityField(spec, "step"): b.Capacity.Step,
		"capex":                     b.Capex,
		"opex":                      b.Opex,
	}
	if bess, ok := spec.(BESS); ok {
		values["duration_hours"] = bess.DurationHours
		values["energy_capex"] = bess.EnergyCapex
	}
	for _, name := range slices.Sorted(maps.Keys(values)) {
		v := values[name]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid(name, "must be a finite number")
		}
	}
	return nil
}

// capacityField names the range fields the way the operator sees them:
// batteries are sized by power, everything else by capacity.
func capacityField(spec Spec, part string) string {
	if spec.Kind() == KindBESS {
		return "power_" + part
	}
	return part
}
