package portfolio

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// ApplyFields returns a copy of spec with the given string field values applied.
// Values come straight from the console or an MQTT payload, so parsing failures and
// unknown names are reported as *ValidationError. The result is not validated.
func ApplyFields(spec Spec, fields map[string]string) (Spec, error) {
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		var err error
		spec, err = applyField(spec, normalizeField(name), strings.TrimSpace(fields[name]))
		if err != nil {
			return nil, err
		}
	}
	return spec, nil
}

// ApplyGlobalFields returns a copy of g with the given string field values applied
func ApplyGlobalFields(g GlobalConfig, fields map[string]string) (GlobalConfig, error) {
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		value := strings.TrimSpace(fields[name])
		var err error
		switch normalizeField(name) {
		case "discount_rate":
			g.DiscountRatePct, err = parseFloat(name, value)
		case "inflation_rate":
			g.InflationRatePct, err = parseFloat(name, value)
		case "project_lifetime_years", "project_lifetime", "lifetime_years", "lifetime":
			g.ProjectLifetimeYears, err = parseInt(name, value)
		case "target_unmet_load_pct", "target_unmet", "unmet":
			g.TargetUnmetLoadPct, err = parseFloat(name, value)
		default:
			return g, invalid(name, "unknown global field")
		}
		if err != nil {
			return g, err
		}
	}
	return g, nil
}

func normalizeField(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

func applyField(spec Spec, name, value string) (Spec, error) {
	b := spec.Common()
	var err error

	switch name {
	case "enabled":
		b.Enabled, err = parseBool(name, value)
		return spec.withBase(b), err
	case "min", "power_min", "min_power":
		b.Capacity.Min, err = parseFloat(name, value)
		return spec.withBase(b), err
	case "max", "power_max", "max_power":
		b.Capacity.Max, err = parseFloat(name, value)
		return spec.withBase(b), err
	case "step", "power_step", "step_power":
		b.Capacity.Step, err = parseFloat(name, value)
		return spec.withBase(b), err
	case "capex", "power_capex":
		b.Capex, err = parseFloat(name, value)
		return spec.withBase(b), err
	case "opex":
		b.Opex, err = parseFloat(name, value)
		return spec.withBase(b), err
	case "lifetime", "lifetime_years":
		b.LifetimeYears, err = parseInt(name, value)
		return spec.withBase(b), err
	}

	switch s := spec.(type) {
	case Hydro:
		switch name {
		case "hours_per_day", "operating_hours_per_day", "hours":
			s.OperatingHoursPerDay, err = parseInt(name, value)
			return s, err
		}
	case BESS:
		switch name {
		case "duration", "duration_hours":
			s.DurationHours, err = parseFloat(name, value)
		case "min_soc":
			s.MinSOC, err = parseInt(name, value)
		case "max_soc":
			s.MaxSOC, err = parseInt(name, value)
		case "charge_eff":
			s.ChargeEff, err = parseInt(name, value)
		case "discharge_eff":
			s.DischargeEff, err = parseInt(name, value)
		case "energy_capex":
			s.EnergyCapex, err = parseFloat(name, value)
		default:
			return nil, invalid(name, "unknown field for %s", spec.Kind())
		}
		return s, err
	}

	return nil, invalid(name, "unknown field for %s", spec.Kind())
}

func parseFloat(field, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, invalid(field, "not a number: %q", value)
	}
	return v, nil
}

func parseInt(field, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, invalid(field, "not an integer: %q", value)
	}
	return v, nil
}

func parseBool(field, value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	v, err := strconv.ParseBool(value)
	if err != nil {
		return false, invalid(field, "not a boolean: %q", value)
	}
	return v, nil
}
