package portfolio

// Range is an inclusive, evenly stepped capacity range in MW
type Range struct {
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
	Step float64 `json:"step" yaml:"step"`
}

// Base holds the fields every asset class shares
type Base struct {
	Enabled       bool       `json:"enabled" yaml:"enabled"`
	Capacity      Range      `json:"capacity" yaml:"capacity"`
	Capex         float64    `json:"capex" yaml:"capex"`                   // $/kW
	Opex          float64    `json:"opex" yaml:"opex"`                     // $/kW/yr
	LifetimeYears int        `json:"lifetime_years" yaml:"lifetime_years"` // years
	Profile       ProfileRef `json:"profile,omitzero" yaml:"profile,omitempty"`
}

// Spec is one asset class's configuration. Implemented by PV, Wind, Hydro and BESS.
type Spec interface {
	Kind() Kind
	Common() Base
	withBase(b Base) Spec
}

// PV is a solar photovoltaic array
type PV struct {
	Base `yaml:",inline"`
}

// Wind is a wind farm
type Wind struct {
	Base `yaml:",inline"`
}

// Hydro is a run-of-river or dispatchable hydro plant
type Hydro struct {
	Base                 `yaml:",inline"`
	OperatingHoursPerDay int `json:"operating_hours_per_day" yaml:"operating_hours_per_day"`
}

// BESS is battery energy storage. Capacity is the power range, Capex the
// power capex in $/kW and EnergyCapex the energy capex in $/kWh.
type BESS struct {
	Base          `yaml:",inline"`
	DurationHours float64 `json:"duration_hours" yaml:"duration_hours"`
	MinSOC        int     `json:"min_soc" yaml:"min_soc"`             // %
	MaxSOC        int     `json:"max_soc" yaml:"max_soc"`             // %
	ChargeEff     int     `json:"charge_eff" yaml:"charge_eff"`       // %
	DischargeEff  int     `json:"discharge_eff" yaml:"discharge_eff"` // %
	EnergyCapex   float64 `json:"energy_capex" yaml:"energy_capex"`
}

func (s PV) Kind() Kind    { return KindPV }
func (s Wind) Kind() Kind  { return KindWind }
func (s Hydro) Kind() Kind { return KindHydro }
func (s BESS) Kind() Kind  { return KindBESS }

// Common returns the shared fields
func (s PV) Common() Base    { return s.Base }
func (s Wind) Common() Base  { return s.Base }
func (s Hydro) Common() Base { return s.Base }
func (s BESS) Common() Base  { return s.Base }

func (s PV) withBase(b Base) Spec    { s.Base = b; return s }
func (s Wind) withBase(b Base) Spec  { s.Base = b; return s }
func (s Hydro) withBase(b Base) Spec { s.Base = b; return s }
func (s BESS) withBase(b Base) Spec  { s.Base = b; return s }

// PowerCapex is the $/kW part of the battery cost
func (s BESS) PowerCapex() float64 {
	return s.Capex
}

// MaxEnergyMWh is the energy capacity at the top of the power range
func (s BESS) MaxEnergyMWh() float64 {
	return s.Capacity.Max * s.DurationHours
}

// WithEnabled returns a copy of spec with the enabled flag changed
func WithEnabled(spec Spec, enabled bool) Spec {
	b := spec.Common()
	b.Enabled = enabled
	return spec.withBase(b)
}

// WithProfile returns a copy of spec referencing the given profile
func WithProfile(spec Spec, ref ProfileRef) Spec {
	b := spec.Common()
	b.Profile = ref
	return spec.withBase(b)
}

// DefaultPV returns the session-start PV configuration
func DefaultPV() PV {
	return PV{Base{
		Enabled:       true,
		Capacity:      Range{Min: 1.0, Max: 5.0, Step: 1.0},
		Capex:         1000,
		Opex:          10,
		LifetimeYears: 25,
	}}
}

// DefaultWind returns the session-start wind configuration
func DefaultWind() Wind {
	return Wind{Base{
		Enabled:       true,
		Capacity:      Range{Min: 0.0, Max: 3.0, Step: 1.0},
		Capex:         1200,
		Opex:          15,
		LifetimeYears: 20,
	}}
}

// DefaultHydro returns the session-start hydro configuration
func DefaultHydro() Hydro {
	return Hydro{
		Base: Base{
			Enabled:       true,
			Capacity:      Range{Min: 0.0, Max: 2.0, Step: 1.0},
			Capex:         2000,
			Opex:          20,
			LifetimeYears: 50,
		},
		OperatingHoursPerDay: 8,
	}
}

// DefaultBESS returns the session-start battery configuration
func DefaultBESS() BESS {
	return BESS{
		Base: Base{
			Enabled:       true,
			Capacity:      Range{Min: 5.0, Max: 20.0, Step: 5.0},
			Capex:         300,
			Opex:          2,
			LifetimeYears: 15,
		},
		DurationHours: 4.0,
		MinSOC:        20,
		MaxSOC:        100,
		ChargeEff:     95,
		DischargeEff:  95,
		EnergyCapex:   200,
	}
}

// Default returns the session-start spec for a kind
func Default(k Kind) Spec {
	switch k {
	case KindWind:
		return DefaultWind()
	case KindHydro:
		return DefaultHydro()
	case KindBESS:
		return DefaultBESS()
	default:
		return DefaultPV()
	}
}
