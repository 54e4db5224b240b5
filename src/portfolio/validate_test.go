package portfolio

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireField(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.Equal(t, field, verr.Field)
}

func TestValidate_Defaults(t *testing.T) {
	for _, k := range Kinds {
		assert.NoError(t, Validate(Default(k)), k.String())
	}
}

func TestValidate_RangeOrdering(t *testing.T) {
	pv := DefaultPV()
	pv.Capacity = Range{Min: 5, Max: 2, Step: 1}
	requireField(t, Validate(pv), "min")

	// Range ordering is reported before the step
	pv.Capacity.Step = 0
	requireField(t, Validate(pv), "min")
}

func TestValidate_Step(t *testing.T) {
	t.Run("zero step enabled", func(t *testing.T) {
		wind := DefaultWind()
		wind.Capacity.Step = 0
		requireField(t, Validate(wind), "step")
	})

	t.Run("negative step enabled", func(t *testing.T) {
		wind := DefaultWind()
		wind.Capacity.Step = -1
		requireField(t, Validate(wind), "step")
	})

	t.Run("bess names power fields", func(t *testing.T) {
		bess := DefaultBESS()
		bess.Capacity.Step = 0
		requireField(t, Validate(bess), "power_step")
	})
}

func TestValidate_DisabledSkipsRangeChecks(t *testing.T) {
	pv := DefaultPV()
	pv.Enabled = false
	pv.Capacity = Range{Min: 5, Max: 2, Step: 0}
	assert.NoError(t, Validate(pv))

	bess := DefaultBESS()
	bess.Enabled = false
	bess.MinSOC, bess.MaxSOC = 90, 10
	bess.ChargeEff = 150
	assert.NoError(t, Validate(bess))
}

func TestValidate_DisabledStillStructural(t *testing.T) {
	pv := DefaultPV()
	pv.Enabled = false
	pv.Capex = math.NaN()
	requireField(t, Validate(pv), "capex")
}

func TestValidate_BESS(t *testing.T) {
	t.Run("soc ordering", func(t *testing.T) {
		bess := DefaultBESS()
		bess.MinSOC, bess.MaxSOC = 50, 50
		requireField(t, Validate(bess), "min_soc")
	})

	t.Run("soc ordering before efficiency", func(t *testing.T) {
		bess := DefaultBESS()
		bess.MinSOC, bess.MaxSOC = 80, 20
		bess.ChargeEff = 101
		requireField(t, Validate(bess), "min_soc")
	})

	t.Run("soc bounds", func(t *testing.T) {
		bess := DefaultBESS()
		bess.MaxSOC = 120
		requireField(t, Validate(bess), "max_soc")
	})

	t.Run("efficiency bounds", func(t *testing.T) {
		bess := DefaultBESS()
		bess.ChargeEff = 101
		requireField(t, Validate(bess), "charge_eff")

		bess = DefaultBESS()
		bess.DischargeEff = -1
		requireField(t, Validate(bess), "discharge_eff")
	})

	t.Run("efficiency edges are valid", func(t *testing.T) {
		bess := DefaultBESS()
		bess.ChargeEff, bess.DischargeEff = 0, 100
		assert.NoError(t, Validate(bess))
	})

	t.Run("duration", func(t *testing.T) {
		bess := DefaultBESS()
		bess.DurationHours = 0
		requireField(t, Validate(bess), "duration_hours")
	})
}

func TestValidate_HydroHours(t *testing.T) {
	for _, tc := range []struct {
		hours int
		ok    bool
	}{
		{0, false},
		{1, true},
		{24, true},
		{25, false},
	} {
		hydro := DefaultHydro()
		hydro.OperatingHoursPerDay = tc.hours
		err := Validate(hydro)
		if tc.ok {
			assert.NoError(t, err, "hours=%d", tc.hours)
		} else {
			requireField(t, err, "operating_hours_per_day")
		}
	}
}

func TestValidate_CostsAndLifetime(t *testing.T) {
	pv := DefaultPV()
	pv.Opex = -1
	requireField(t, Validate(pv), "opex")

	pv = DefaultPV()
	pv.LifetimeYears = 0
	requireField(t, Validate(pv), "lifetime_years")

	pv = DefaultPV()
	pv.Capacity = Range{Min: -1, Max: 2, Step: 1}
	requireField(t, Validate(pv), "min")
}

func TestValidateGlobal(t *testing.T) {
	assert.NoError(t, ValidateGlobal(DefaultGlobal()))

	g := DefaultGlobal()
	g.ProjectLifetimeYears = 0
	requireField(t, ValidateGlobal(g), "project_lifetime_years")

	g = DefaultGlobal()
	g.TargetUnmetLoadPct = -0.1
	requireField(t, ValidateGlobal(g), "target_unmet_load_pct")

	g = DefaultGlobal()
	g.DiscountRatePct = math.Inf(1)
	requireField(t, ValidateGlobal(g), "discount_rate")
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Field: "step", Reason: "must be positive, got 0"}
	assert.Equal(t, "step: must be positive, got 0", err.Error())
}
