package graph

import (
	"errors"
	"sort"
)

var (
	ErrNodeSetMismatch = errors.New("graph node set differs from the network lane set")
	ErrNotFrozen       = errors.New("graph is not frozen")
)

type Edge struct {
	From   uint32
	To     uint32
	Weight uint32
}

// InputGraph is a directed weighted edge list. Its node count is inferred from
// the largest node index referenced by an edge, so a node that no edge touches
// past the last referenced one does not exist for the graph.
type InputGraph struct {
	edges     []Edge
	firstOut  []uint32
	numNodes  int
	frozen    bool
	fill      Edge
	hasFiller bool
}

func NewInputGraph() *InputGraph {
	return &InputGraph{
		edges: make([]Edge, 0),
	}
}

// AddEdge panics once the graph is frozen.
func (g *InputGraph) AddEdge(from, to, weight uint32) {
	if g.frozen {
		panic("graph: AddEdge on a frozen graph")
	}
	g.edges = append(g.edges, Edge{From: from, To: to, Weight: weight})
}

// addPlaceholder adds an edge that keeps node from inside the inferred node
// range. It is remembered so queries never start a search through it.
func (g *InputGraph) addPlaceholder(from, to uint32) {
	g.AddEdge(from, to, 1)
	g.fill = Edge{From: from, To: to, Weight: 1}
	g.hasFiller = true
}

// Freeze drops loops, keeps the cheapest edge per (from, to) pair and sorts the
// edges by (from, to).
func (g *InputGraph) Freeze() {
	if g.frozen {
		return
	}
	sort.Slice(g.edges, func(i, j int) bool {
		a, b := g.edges[i], g.edges[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Weight < b.Weight
	})

	kept := g.edges[:0]
	for _, e := range g.edges {
		if e.From == e.To {
			continue
		}
		if n := len(kept); n > 0 && kept[n-1].From == e.From && kept[n-1].To == e.To {
			continue
		}
		kept = append(kept, e)
	}
	g.edges = kept

	maxNode := -1
	for _, e := range g.edges {
		if int(e.From) > maxNode {
			maxNode = int(e.From)
		}
		if int(e.To) > maxNode {
			maxNode = int(e.To)
		}
	}
	g.numNodes = maxNode + 1

	g.firstOut = make([]uint32, g.numNodes+1)
	for _, e := range g.edges {
		g.firstOut[e.From+1]++
	}
	for i := 1; i <= g.numNodes; i++ {
		g.firstOut[i] += g.firstOut[i-1]
	}
	g.frozen = true
}

func (g *InputGraph) IsFrozen() bool {
	return g.frozen
}

func (g *InputGraph) NumNodes() int {
	return g.numNodes
}

func (g *InputGraph) NumEdges() int {
	return len(g.edges)
}

// Edges is sorted by (from, to) once the graph is frozen. The slice is shared.
func (g *InputGraph) Edges() []Edge {
	return g.edges
}

// OutEdges only works on a frozen graph.
func (g *InputGraph) OutEdges(node uint32) []Edge {
	if int(node) >= g.numNodes {
		return nil
	}
	return g.edges[g.firstOut[node]:g.firstOut[node+1]]
}

// Placeholder reports the injected edge, if the builder needed one.
func (g *InputGraph) Placeholder() (Edge, bool) {
	return g.fill, g.hasFiller
}

// IsPlaceholder reports whether e is the injected edge.
func (g *InputGraph) IsPlaceholder(e Edge) bool {
	return g.hasFiller && e.From == g.fill.From && e.To == g.fill.To
}
