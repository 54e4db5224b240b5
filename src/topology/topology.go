// Package topology builds the power-flow graph of a portfolio for display:
// generators feed the bus, the bus feeds the load, and the battery both charges
// from and discharges to the bus.
package topology

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/ryansname/gridsizer/src/portfolio"
)

// NodeID identifies a fixed node in the topology
type NodeID int64

const (
	NodePV NodeID = iota
	NodeWind
	NodeHydro
	NodeBus
	NodeBESS
	NodeLoad
)

// NodeIDs lists every node in layout order
var NodeIDs = []NodeID{NodePV, NodeWind, NodeHydro, NodeBus, NodeBESS, NodeLoad}

func (n NodeID) String() string {
	switch n {
	case NodePV:
		return "pv"
	case NodeWind:
		return "wind"
	case NodeHydro:
		return "hydro"
	case NodeBus:
		return "bus"
	case NodeBESS:
		return "bess"
	case NodeLoad:
		return "load"
	default:
		return "unknown"
	}
}

// MarshalText encodes the node by name
func (n NodeID) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// ParseNodeID is the inverse of NodeID.String
func ParseNodeID(s string) (NodeID, error) {
	for _, id := range NodeIDs {
		if id.String() == s {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown node: %q", s)
}

// Flow is the direction of power on an edge
type Flow int

const (
	FlowGeneration Flow = iota // generator -> bus
	FlowSupply                 // bus -> load
	FlowCharge                 // bus -> bess
	FlowDischarge              // bess -> bus
)

func (f Flow) String() string {
	switch f {
	case FlowGeneration:
		return "generation"
	case FlowSupply:
		return "supply"
	case FlowCharge:
		return "charge"
	case FlowDischarge:
		return "discharge"
	default:
		return "unknown"
	}
}

// MarshalText encodes the flow by name
func (f Flow) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Style is how a node or edge is drawn
type Style struct {
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// Node is a drawable node at normalized coordinates in [0, 1]
type Node struct {
	ID           NodeID  `json:"id"`
	Label        string  `json:"label"`
	Detail       string  `json:"detail"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Enabled      bool    `json:"enabled"`
	Style        Style   `json:"style"`
	SuppliesLoad bool    `json:"supplies_load"` // power from this node can reach the load
}

// Edge is a directed power flow
type Edge struct {
	From  NodeID `json:"from"`
	To    NodeID `json:"to"`
	Flow  Flow   `json:"flow"`
	Style Style  `json:"style"`
}

// Graph is the topology of one snapshot
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	g *simple.DirectedGraph
}

type layout struct {
	label string
	x, y  float64
	color string
}

var layouts = map[NodeID]layout{
	NodePV:    {"Solar PV", 0.1, 0.8, "#FFD700"},
	NodeWind:  {"Wind", 0.1, 0.5, "#00D9FF"},
	NodeHydro: {"Hydro", 0.1, 0.2, "#1E90FF"},
	NodeBus:   {"Electricity Grid", 0.5, 0.5, "#00FFB3"},
	NodeBESS:  {"BESS", 0.9, 0.3, "#00FF88"},
	NodeLoad:  {"Load Demand", 0.9, 0.7, "#FF6B6B"},
}

const (
	flowColor       = "#FFD700"
	disabledColor   = "#666666"
	disabledOpacity = 0.5
)

var componentNodes = map[portfolio.Kind]NodeID{
	portfolio.KindPV:    NodePV,
	portfolio.KindWind:  NodeWind,
	portfolio.KindHydro: NodeHydro,
	portfolio.KindBESS:  NodeBESS,
}

// NodeFor returns the node that draws a component
func NodeFor(k portfolio.Kind) NodeID {
	return componentNodes[k]
}

func nodeStyle(id NodeID, enabled bool) Style {
	if !enabled {
		return Style{Color: disabledColor, Opacity: disabledOpacity}
	}
	return Style{Color: layouts[id].color, Opacity: 1.0}
}

func edgeStyle() Style {
	return Style{Color: flowColor, Opacity: 1.0}
}

// Build derives the topology for a snapshot
func Build(snap portfolio.Snapshot) Graph {
	out := Graph{
		Nodes: make([]Node, 0, len(NodeIDs)),
		g:     simple.NewDirectedGraph(),
	}

	enabled := map[NodeID]bool{NodeBus: true, NodeLoad: true}
	details := map[NodeID]string{NodeBus: "Distribution Hub", NodeLoad: "Consumer Load"}
	for _, spec := range snap.Specs() {
		id := NodeFor(spec.Kind())
		b := spec.Common()
		enabled[id] = b.Enabled
		if b.Enabled {
			details[id] = fmt.Sprintf("%.1f-%.1f MW", b.Capacity.Min, b.Capacity.Max)
		} else {
			details[id] = "disabled"
		}
	}

	for _, id := range NodeIDs {
		l := layouts[id]
		out.Nodes = append(out.Nodes, Node{
			ID:      id,
			Label:   l.label,
			Detail:  details[id],
			X:       l.x,
			Y:       l.y,
			Enabled: enabled[id],
			Style:   nodeStyle(id, enabled[id]),
		})
		out.g.AddNode(simple.Node(id))
	}

	for _, id := range []NodeID{NodePV, NodeWind, NodeHydro} {
		if enabled[id] {
			out.addEdge(id, NodeBus, FlowGeneration)
		}
	}
	out.addEdge(NodeBus, NodeLoad, FlowSupply)
	if enabled[NodeBESS] {
		out.addEdge(NodeBus, NodeBESS, FlowCharge)
		out.addEdge(NodeBESS, NodeBus, FlowDischarge)
	}

	for i := range out.Nodes {
		id := out.Nodes[i].ID
		out.Nodes[i].SuppliesLoad = id != NodeLoad && out.Feeds(id, NodeLoad)
	}

	return out
}

func (g *Graph) addEdge(from, to NodeID, flow Flow) {
	g.Edges = append(g.Edges, Edge{From: from, To: to, Flow: flow, Style: edgeStyle()})
	g.g.SetEdge(g.g.NewEdge(simple.Node(from), simple.Node(to)))
}

// Node returns the node with the given id
func (g Graph) Node(id NodeID) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// HasFlow reports whether power flows directly from one node to another
func (g Graph) HasFlow(from, to NodeID) bool {
	return g.g.HasEdgeFromTo(int64(from), int64(to))
}

// FlowBetween returns the edge carrying power from one node to another
func (g Graph) FlowBetween(from, to NodeID) (Edge, bool) {
	for _, e := range g.Edges {
		if e.From == from && e.To == to {
			return e, true
		}
	}
	return Edge{}, false
}

// Successors returns the nodes a node sends power to, in layout order
func (g Graph) Successors(id NodeID) []NodeID {
	return sortedIDs(g.g.From(int64(id)))
}

// Predecessors returns the nodes a node receives power from, in layout order
func (g Graph) Predecessors(id NodeID) []NodeID {
	return sortedIDs(g.g.To(int64(id)))
}

// Feeds reports whether power from one node can reach another along flow directions
func (g Graph) Feeds(from, to NodeID) bool {
	if from == to {
		return true
	}
	var bf traverse.BreadthFirst
	found := bf.Walk(g.g, simple.Node(from), func(n graph.Node, _ int) bool {
		return n.ID() == int64(to)
	})
	return found != nil
}

func sortedIDs(nodes graph.Nodes) []NodeID {
	present := make(map[NodeID]bool)
	for nodes.Next() {
		present[NodeID(nodes.Node().ID())] = true
	}
	ids := make([]NodeID, 0, len(present))
	for _, id := range NodeIDs {
		if present[id] {
			ids = append(ids, id)
		}
	}
	return ids
}
