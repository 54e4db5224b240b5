package portfolio

// GlobalConfig holds the project-wide financial and load parameters
type GlobalConfig struct {
	DiscountRatePct      float64    `json:"discount_rate" yaml:"discount_rate"`
	InflationRatePct     float64    `json:"inflation_rate" yaml:"inflation_rate"`
	ProjectLifetimeYears int        `json:"project_lifetime_years" yaml:"project_lifetime_years"`
	TargetUnmetLoadPct   float64    `json:"target_unmet_load_pct" yaml:"target_unmet_load_pct"`
	LoadProfile          ProfileRef `json:"load_profile,omitzero" yaml:"load_profile,omitempty"`
}

// DefaultGlobal returns the session-start financial parameters
func DefaultGlobal() GlobalConfig {
	return GlobalConfig{
		DiscountRatePct:      8.0,
		InflationRatePct:     2.0,
		ProjectLifetimeYears: 25,
		TargetUnmetLoadPct:   0.1,
	}
}
