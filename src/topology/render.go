package topology

import (
	"fmt"
	"strings"
)

// indentWriter helps produce properly indented YAML output
type indentWriter struct {
	builder *strings.Builder
	depth   int
}

func newIndentWriter() *indentWriter {
	return &indentWriter{builder: &strings.Builder{}}
}

func (w *indentWriter) indent() {
	w.depth++
}

func (w *indentWriter) unindent() {
	w.depth--
}

func (w *indentWriter) writeLine(line string) {
	for i := 0; i < w.depth*2; i++ {
		w.builder.WriteByte(' ')
	}
	w.builder.WriteString(line)
	w.builder.WriteByte('\n')
}

func (w *indentWriter) String() string {
	return w.builder.String()
}

func (w *indentWriter) writeStyle(s Style) {
	w.writeLine(fmt.Sprintf("color: \"%s\"", s.Color))
	w.writeLine(fmt.Sprintf("opacity: %.1f", s.Opacity))
}

// RenderYAML renders the graph as the dashboard's diagram card config.
// Output is stable for a given graph so it can be compared against snapshots.
func RenderYAML(g Graph) string {
	w := newIndentWriter()

	w.writeLine("type: custom:topology-card")
	w.writeLine("nodes:")
	w.indent()
	for _, n := range g.Nodes {
		w.writeLine(fmt.Sprintf("- id: %s", n.ID))
		w.indent()
		w.writeLine(fmt.Sprintf("name: \"%s\"", n.Label))
		w.writeLine(fmt.Sprintf("detail: \"%s\"", n.Detail))
		w.writeLine(fmt.Sprintf("x: %.2f", n.X))
		w.writeLine(fmt.Sprintf("y: %.2f", n.Y))
		w.writeLine(fmt.Sprintf("enabled: %t", n.Enabled))
		w.writeStyle(n.Style)
		w.unindent()
	}
	w.unindent()

	if len(g.Edges) == 0 {
		w.writeLine("edges: []")
		return w.String()
	}

	w.writeLine("edges:")
	w.indent()
	for _, e := range g.Edges {
		w.writeLine(fmt.Sprintf("- from: %s", e.From))
		w.indent()
		w.writeLine(fmt.Sprintf("to: %s", e.To))
		w.writeLine(fmt.Sprintf("flow: %s", e.Flow))
		w.writeStyle(e.Style)
		w.unindent()
	}
	w.unindent()

	return w.String()
}

// Summary renders the graph for the console: each node, the flows leaving it,
// and which sources can reach the load.
func Summary(g Graph) string {
	var b strings.Builder
	var sources []string
	for _, n := range g.Nodes {
		state := "on"
		if !n.Enabled {
			state = "off"
		}
		fmt.Fprintf(&b, "%-6s %-3s %s\n", n.ID, state, n.Detail)

		for _, to := range g.Successors(n.ID) {
			if e, ok := g.FlowBetween(n.ID, to); ok {
				fmt.Fprintf(&b, "  %s -> %s (%s)\n", e.From, e.To, e.Flow)
			}
		}
		if n.SuppliesLoad && n.ID != NodeBus {
			sources = append(sources, n.ID.String())
		}
	}

	if len(sources) == 0 {
		b.WriteString("Load supplied by: nothing\n")
	} else {
		fmt.Fprintf(&b, "Load supplied by: %s\n", strings.Join(sources, ", "))
	}
	return b.String()
}
