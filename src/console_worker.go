package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/ryansname/gridsizer/src/portfolio"
	"github.com/ryansname/gridsizer/src/searchspace"
	"github.com/ryansname/gridsizer/src/topology"
)

// ConsoleSession is the session id used by the interactive console
const ConsoleSession = "console"

// consoleView is what the console prints once a command is answered
type consoleView int

const (
	viewStatus consoleView = iota
	viewSnapshot
	viewSpace
	viewTopology
	viewTopologyYAML
	viewExport
	viewPreview
)

const (
	defaultPreviewRows = 10
	maxPreviewRows     = 100
)

type consoleRequest struct {
	cmd   Command
	view  consoleView
	path  string
	limit int
}

// readlineWriter wraps log output to work with readline
type readlineWriter struct {
	rl *readline.Instance
}

func (w *readlineWriter) Write(p []byte) (n int, err error) {
	if w.rl != nil {
		w.rl.Clean()
	}
	n, err = os.Stderr.Write(p)
	if w.rl != nil {
		w.rl.Refresh()
	}
	return n, err
}

// Global readline writer for log output
var rlWriter = &readlineWriter{}

// parseConsoleLine turns an input line into a session command and the view to print
func parseConsoleLine(line string) (consoleRequest, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return consoleRequest{}, errors.New("empty command")
	}

	req := consoleRequest{cmd: Command{Session: ConsoleSession, Op: OpShow}}
	args := parts[1:]

	switch parts[0] {
	case "show":
		req.view = viewSnapshot

	case "space":
		req.view = viewSpace

	case "topology":
		req.view = viewTopology
		if len(args) > 0 && args[0] == "yaml" {
			req.view = viewTopologyYAML
		}

	case "preview":
		req.view = viewPreview
		req.limit = defaultPreviewRows
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 || n > maxPreviewRows {
				return req, fmt.Errorf("usage: preview [1-%d]", maxPreviewRows)
			}
			req.limit = n
		}

	case "export":
		if len(args) != 1 {
			return req, errors.New("usage: export <file>")
		}
		req.view = viewExport
		req.path = args[0]

	case "edit":
		if len(args) != 1 {
			return req, errors.New("usage: edit <pv|wind|hydro|bess>")
		}
		if _, err := portfolio.ParseKind(args[0]); err != nil {
			return req, err
		}
		req.cmd.Op = OpSelect
		req.cmd.Target = args[0]
		req.view = viewSnapshot

	case "set":
		if len(args) != 2 {
			return req, errors.New("usage: set <field> <value>")
		}
		req.cmd.Op = OpSet
		req.cmd.Fields = map[string]string{args[0]: args[1]}

	case "enable", "disable":
		req.cmd.Op = OpSet
		req.cmd.Fields = map[string]string{"enabled": fmt.Sprint(parts[0] == "enable")}

	case "save":
		req.cmd.Op = OpSave

	case "cancel":
		req.cmd.Op = OpCancel

	case "global":
		if len(args) != 2 {
			return req, errors.New("usage: global <field> <value>")
		}
		req.cmd.Op = OpSetGlobal
		req.cmd.Fields = map[string]string{args[0]: args[1]}

	case "attach":
		if len(args) < 2 || len(args) > 3 {
			return req, errors.New("usage: attach <pv|wind|hydro|bess|load> <name> [id]")
		}
		req.cmd.Op = OpAttach
		req.cmd.Target = args[0]
		req.cmd.Fields = map[string]string{"name": args[1]}
		if len(args) == 3 {
			req.cmd.Fields["id"] = args[2]
		}

	default:
		return req, fmt.Errorf("unknown command: %s (try 'help')", parts[0])
	}

	return req, nil
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

// formatSnapshot renders a session for the console
func formatSnapshot(snap portfolio.Snapshot, draft map[string]string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Editing: %s", snap.Selected)
	if len(draft) > 0 {
		pending := make([]string, 0, len(draft))
		for _, k := range slices.Sorted(maps.Keys(draft)) {
			pending = append(pending, k+"="+draft[k])
		}
		fmt.Fprintf(&b, " (unsaved: %s)", strings.Join(pending, ", "))
	}
	b.WriteByte('\n')

	for _, spec := range snap.Specs() {
		c := spec.Common()
		fmt.Fprintf(&b, "  %-6s %-3s %.1f-%.1f MW step %.1f, capex %g, opex %g, %dy, profile %s",
			spec.Kind(), onOff(c.Enabled), c.Capacity.Min, c.Capacity.Max, c.Capacity.Step,
			c.Capex, c.Opex, c.LifetimeYears, c.Profile)
		switch s := spec.(type) {
		case portfolio.Hydro:
			fmt.Fprintf(&b, ", %d h/day", s.OperatingHoursPerDay)
		case portfolio.BESS:
			fmt.Fprintf(&b, ", %.1f h (%.1f MWh max), SOC %d-%d%%, eff %d/%d%%, energy capex %g",
				s.DurationHours, s.MaxEnergyMWh(), s.MinSOC, s.MaxSOC, s.ChargeEff, s.DischargeEff, s.EnergyCapex)
		}
		b.WriteByte('\n')
	}

	g := snap.Global
	fmt.Fprintf(&b, "  global discount %.1f%%, inflation %.1f%%, lifetime %dy, unmet load %.1f%%, load profile %s\n",
		g.DiscountRatePct, g.InflationRatePct, g.ProjectLifetimeYears, g.TargetUnmetLoadPct, g.LoadProfile)
	return b.String()
}

// formatSearchSpace renders the search space report for the console
func formatSearchSpace(p searchSpacePayload) string {
	var b strings.Builder
	for _, c := range p.Components {
		fmt.Fprintf(&b, "  %-6s %-3s %4d options (%s)\n", c.Kind, onOff(c.Enabled), c.Options, c.Band)
	}
	if p.AllDisabled {
		b.WriteString("  no components enabled\n")
	}
	fmt.Fprintf(&b, "Total combinations: %d (%s)\n", p.Total, p.Band)
	fmt.Fprintf(&b, "Estimated runtime: %.1f min\n", p.EstimatedMinutes)
	fmt.Fprintf(&b, "Capital cost: $%s - $%s\n", p.CapitalCostLow.StringFixed(0), p.CapitalCostHigh.StringFixed(0))
	return b.String()
}

// formatPreview lists the first combinations an optimizer would evaluate
func formatPreview(snap portfolio.Snapshot, limit int) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "  %8s %8s %8s %8s  (MW)\n", "pv", "wind", "hydro", "bess")
	rows := 0
	err := searchspace.Each(snap, func(p searchspace.Point) bool {
		fmt.Fprintf(&b, "  %8.1f %8.1f %8.1f %8.1f\n", p[0], p[1], p[2], p[3])
		rows++
		return rows < limit
	})
	if err != nil {
		return "", err
	}
	if total := searchspace.TotalCombinations(snap); total > rows {
		fmt.Fprintf(&b, "  ... %d more\n", total-rows)
	}
	return b.String(), nil
}

// formatUpdate is the one-line summary printed whenever the session changes
func formatUpdate(update SessionUpdate) string {
	report := searchspace.BuildReport(update.Snapshot)
	return fmt.Sprintf("Search space: %d combinations (%s), ~%.1f min",
		report.Total, report.Band, report.EstimatedMinutes)
}

// ConsoleState holds the readline instance the console prints through
type ConsoleState struct {
	rl  *readline.Instance
	out io.Writer
}

// print outputs text, handling readline prompt properly
func (s *ConsoleState) print(text string) {
	if s.rl != nil {
		s.rl.Clean()
	}
	fmt.Fprint(s.out, strings.TrimRight(text, "\n")+"\n")
	if s.rl != nil {
		s.rl.Refresh()
	}
}

// render prints the view a request asked for
func (s *ConsoleState) render(req consoleRequest, reply Reply) error {
	if reply.Err != nil {
		return reply.Err
	}

	switch req.view {
	case viewSnapshot:
		s.print(formatSnapshot(reply.Snapshot, reply.Draft))
	case viewSpace:
		s.print(formatSearchSpace(buildSearchSpacePayload(reply.Snapshot)))
	case viewTopology:
		s.print(topology.Summary(topology.Build(reply.Snapshot)))
	case viewTopologyYAML:
		s.print(topology.RenderYAML(topology.Build(reply.Snapshot)))
	case viewPreview:
		text, err := formatPreview(reply.Snapshot, req.limit)
		if err != nil {
			return err
		}
		s.print(text)
	case viewExport:
		if err := exportPreset(req.path, reply.Snapshot); err != nil {
			return err
		}
		s.print("Exported to " + req.path)
	default:
		s.print(fmt.Sprintf("%s ok", req.cmd.Op))
	}
	return nil
}

func exportPreset(path string, snap portfolio.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := portfolio.WritePreset(f, snap); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func printConsoleHelp() {
	fmt.Println("Commands:")
	fmt.Println("  show                          - Show the portfolio")
	fmt.Println("  edit <pv|wind|hydro|bess>     - Select a component to edit")
	fmt.Println("  set <field> <value>           - Change a field of the selected component")
	fmt.Println("  enable | disable              - Enable or disable the selected component")
	fmt.Println("  save                          - Validate and save the selected component")
	fmt.Println("  cancel                        - Discard unsaved changes")
	fmt.Println("  global <field> <value>        - Change a financial parameter")
	fmt.Println("  attach <component|load> <name> [id] - Attach an uploaded profile")
	fmt.Println("  space                         - Show the search space")
	fmt.Println("  topology [yaml]               - Show the system topology")
	fmt.Println("  preview [n]                   - List the first n capacity combinations")
	fmt.Println("  export <file>                 - Write the portfolio as a YAML preset")
	fmt.Println("  quit                          - Exit")
}

// handleConsoleCommand runs one console line against the session worker
func handleConsoleCommand(ctx context.Context, line string, state *ConsoleState, commandChan chan<- Command) {
	req, err := parseConsoleLine(line)
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}

	replyChan := make(chan Reply, 1)
	req.cmd.Reply = replyChan

	select {
	case commandChan <- req.cmd:
	case <-ctx.Done():
		return
	}

	select {
	case reply := <-replyChan:
		if err := state.render(req, reply); err != nil {
			log.Printf("Error: %v", err)
		}
	case <-ctx.Done():
	}
}

// readlineLoop runs the readline loop, sending commands to the channel
func readlineLoop(
	ctx context.Context,
	cancel context.CancelFunc,
	rl *readline.Instance,
	lineChan chan<- string,
) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			cancel() // Ctrl+C or Ctrl+D, shutdown the app
			return
		}
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line != "" {
			lineChan <- line
		}
	}
}

// getHistoryFilePath returns the path for the console history file
func getHistoryFilePath() string {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "" // No history if we can't find home
		}
		cacheDir = filepath.Join(home, ".cache")
	}
	appCache := filepath.Join(cacheDir, "gridsizer")
	_ = os.MkdirAll(appCache, 0750)
	return filepath.Join(appCache, "console_history")
}

// consoleWorker provides the interactive portfolio editor
func consoleWorker(
	ctx context.Context,
	cancel context.CancelFunc,
	commandChan chan<- Command,
	updateChan <-chan SessionUpdate,
) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "gridsizer> ",
		HistoryFile: getHistoryFilePath(),
	})
	if err != nil {
		log.Printf("Console worker: readline init failed: %v", err)
		return
	}
	defer func() {
		_ = rl.Close()
		rlWriter.rl = nil
	}()

	// Redirect log output through readline-aware writer
	rlWriter.rl = rl
	log.SetOutput(rlWriter)

	log.Println("Console started (type 'help' for commands)")

	lineChan := make(chan string, 10)
	state := &ConsoleState{rl: rl, out: os.Stdout}

	go readlineLoop(ctx, cancel, rl, lineChan)

	for {
		select {
		case line := <-lineChan:
			switch line {
			case "help":
				printConsoleHelp()
			case "quit", "exit":
				cancel()
				return
			default:
				handleConsoleCommand(ctx, line, state, commandChan)
			}
		case update := <-updateChan:
			if update.Session == ConsoleSession && update.Err == nil {
				state.print(formatUpdate(update))
			}
		case <-ctx.Done():
			log.Println("Console worker stopped")
			return
		}
	}
}
