package portfolio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreset_RoundTrip(t *testing.T) {
	snap := DefaultSnapshot()
	snap.Wind.Enabled = false
	snap.BESS.DurationHours = 2
	snap.PV.Profile = NewProfileRef("pv.csv")

	var buf bytes.Buffer
	require.NoError(t, WritePreset(&buf, snap))

	loaded, err := LoadPreset(&buf)
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)
}

func TestPreset_PartialKeepsDefaults(t *testing.T) {
	doc := `
pv:
  capacity:
    min: 0
    max: 10
    step: 2
global:
  discount_rate: 6
`
	snap, err := LoadPreset(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, Range{Min: 0, Max: 10, Step: 2}, snap.PV.Capacity)
	assert.Equal(t, 1000.0, snap.PV.Capex)
	assert.Equal(t, 6.0, snap.Global.DiscountRatePct)
	assert.Equal(t, DefaultBESS(), snap.BESS)
}

func TestPreset_Empty(t *testing.T) {
	snap, err := LoadPreset(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultSnapshot(), snap)
}

func TestPreset_Invalid(t *testing.T) {
	_, err := LoadPreset(strings.NewReader("bess:\n  min_soc: 90\n  max_soc: 10\n"))
	requireField(t, err, "min_soc")

	_, err = LoadPreset(strings.NewReader("solar:\n  enabled: true\n"))
	assert.Error(t, err)
}
