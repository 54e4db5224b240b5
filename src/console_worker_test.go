package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryansname/gridsizer/src/portfolio"
)

func TestParseConsoleLine(t *testing.T) {
	tests := []struct {
		line string
		op   Op
		view consoleView
		cmd  Command
	}{
		{"show", OpShow, viewSnapshot, Command{}},
		{"space", OpShow, viewSpace, Command{}},
		{"topology", OpShow, viewTopology, Command{}},
		{"topology yaml", OpShow, viewTopologyYAML, Command{}},
		{"edit bess", OpSelect, viewSnapshot, Command{Target: "bess"}},
		{"set max 12", OpSet, viewStatus, Command{Fields: map[string]string{"max": "12"}}},
		{"disable", OpSet, viewStatus, Command{Fields: map[string]string{"enabled": "false"}}},
		{"enable", OpSet, viewStatus, Command{Fields: map[string]string{"enabled": "true"}}},
		{"save", OpSave, viewStatus, Command{}},
		{"cancel", OpCancel, viewStatus, Command{}},
		{"global discount_rate 6", OpSetGlobal, viewStatus, Command{Fields: map[string]string{"discount_rate": "6"}}},
		{"attach load demand.csv", OpAttach, viewStatus, Command{Target: "load", Fields: map[string]string{"name": "demand.csv"}}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			req, err := parseConsoleLine(tt.line)
			require.NoError(t, err)

			want := tt.cmd
			want.Session = ConsoleSession
			want.Op = tt.op
			assert.Equal(t, want, req.cmd)
			assert.Equal(t, tt.view, req.view)
		})
	}
}

func TestParseConsoleLine_Errors(t *testing.T) {
	for _, line := range []string{
		"",
		"launch",
		"edit",
		"edit nuclear",
		"set max",
		"global discount_rate",
		"attach pv",
		"export",
		"preview 0",
		"preview many",
		"preview 1000",
	} {
		t.Run(line, func(t *testing.T) {
			_, err := parseConsoleLine(line)
			assert.Error(t, err)
		})
	}
}

func TestParseConsoleLine_AttachWithID(t *testing.T) {
	req, err := parseConsoleLine("attach wind wind.csv 6f1c2f0e-4d59-4c43-9a4e-2f3f0c9b7d11")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"name": "wind.csv",
		"id":   "6f1c2f0e-4d59-4c43-9a4e-2f3f0c9b7d11",
	}, req.cmd.Fields)
}

func TestFormatSnapshot(t *testing.T) {
	snap := portfolio.DefaultSnapshot()
	snap.Selected = portfolio.Select(portfolio.KindWind)
	snap.Wind.Enabled = false

	out := formatSnapshot(snap, map[string]string{"step": "0.5", "max": "4"})

	assert.Contains(t, out, "Editing: wind (unsaved: max=4, step=0.5)")
	assert.Contains(t, out, "wind   off")
	assert.Contains(t, out, "8 h/day")
	assert.Contains(t, out, "80.0 MWh max")
	assert.Contains(t, out, "load profile none")
}

func TestFormatSearchSpace(t *testing.T) {
	out := formatSearchSpace(buildSearchSpacePayload(portfolio.DefaultSnapshot()))

	assert.Contains(t, out, "Total combinations: 240 (large)")
	assert.Contains(t, out, "Estimated runtime: 1.0 min")
	assert.Contains(t, out, "Capital cost: $6500000 - $34600000")
	assert.NotContains(t, out, "no components enabled")
}

func TestFormatSearchSpace_AllDisabled(t *testing.T) {
	snap := portfolio.DefaultSnapshot()
	snap.PV.Enabled = false
	snap.Wind.Enabled = false
	snap.Hydro.Enabled = false
	snap.BESS.Enabled = false

	out := formatSearchSpace(buildSearchSpacePayload(snap))
	assert.Contains(t, out, "no components enabled")
	assert.Contains(t, out, "Total combinations: 1 (small)")
	assert.Contains(t, out, "Capital cost: $0 - $0")
}

func TestConsoleRender(t *testing.T) {
	var out bytes.Buffer
	state := &ConsoleState{out: &out}
	reply := Reply{Snapshot: portfolio.DefaultSnapshot()}

	require.NoError(t, state.render(consoleRequest{cmd: Command{Op: OpSave}}, reply))
	assert.Equal(t, "save ok\n", out.String())

	out.Reset()
	require.NoError(t, state.render(consoleRequest{view: viewTopology}, reply))
	assert.Contains(t, out.String(), "bus -> load (supply)")

	failed := Reply{Err: errors.New("rejected")}
	assert.EqualError(t, state.render(consoleRequest{view: viewSnapshot}, failed), "rejected")
}

func TestConsoleRender_Export(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.yaml")
	state := &ConsoleState{out: &bytes.Buffer{}}

	snap := portfolio.DefaultSnapshot()
	snap.Hydro.Enabled = false
	require.NoError(t, state.render(consoleRequest{view: viewExport, path: path}, Reply{Snapshot: snap}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	loaded, err := portfolio.LoadPreset(f)
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)
}

func TestLoadSeed(t *testing.T) {
	snap, err := loadSeed("")
	require.NoError(t, err)
	assert.Equal(t, portfolio.DefaultSnapshot(), snap)

	_, err = loadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseConsoleLine_Preview(t *testing.T) {
	req, err := parseConsoleLine("preview")
	require.NoError(t, err)
	assert.Equal(t, viewPreview, req.view)
	assert.Equal(t, defaultPreviewRows, req.limit)
	assert.Equal(t, OpShow, req.cmd.Op)

	req, err = parseConsoleLine("preview 3")
	require.NoError(t, err)
	assert.Equal(t, 3, req.limit)
}

func TestFormatPreview(t *testing.T) {
	out, err := formatPreview(portfolio.DefaultSnapshot(), 3)
	require.NoError(t, err)

	// BESS varies fastest: 5, 10, 15 MW
	assert.Contains(t, out, "       1.0      0.0      0.0      5.0\n")
	assert.Contains(t, out, "       1.0      0.0      0.0     15.0\n")
	assert.NotContains(t, out, "     20.0\n")
	assert.Contains(t, out, "... 237 more")
}

func TestFormatPreview_WholeSpace(t *testing.T) {
	snap := portfolio.DefaultSnapshot()
	snap.PV.Enabled = false
	snap.Wind.Enabled = false
	snap.Hydro.Enabled = false

	out, err := formatPreview(snap, maxPreviewRows)
	require.NoError(t, err)
	assert.Contains(t, out, "     20.0\n")
	assert.NotContains(t, out, "more")
}
