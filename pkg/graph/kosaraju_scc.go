package graph

import (
	"math"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/util"
)

type SCC struct {
	// Components in reverse topological order of the condensation.
	Components [][]uint32
	// ComponentOf[v] is the index of v's component.
	ComponentOf []uint32
	// CondensationAdj[c] lists the components reachable from c by one edge.
	CondensationAdj [][]uint32
}

// StronglyConnectedComponents runs Kosaraju on a frozen graph.
func (g *InputGraph) StronglyConnectedComponents() (SCC, error) {
	if !g.frozen {
		return SCC{}, ErrNotFrozen
	}
	n := uint32(g.numNodes)

	inEdges := make([][]uint32, n)
	for _, e := range g.edges {
		inEdges[e.To] = append(inEdges[e.To], e.From)
	}

	order := make([]uint32, 0, n)
	visited := make([]bool, n)
	for v := uint32(0); v < n; v++ {
		if !visited[v] {
			g.dfs(v, &order, visited, nil)
		}
	}

	order = util.ReverseG(order)

	// reset visited
	visited = make([]bool, n)
	roots := make([]uint32, n)
	components := make([][]uint32, 0)

	for _, v := range order {
		if visited[v] {
			continue
		}
		component := make([]uint32, 0)
		g.dfs(v, &component, visited, inEdges)
		components = append(components, component)

		root := uint32(math.MaxUint32)
		for _, node := range component {
			if node < root {
				root = node
			}
		}
		for _, node := range component {
			roots[node] = root
		}
	}

	scc := SCC{
		Components:      components,
		ComponentOf:     make([]uint32, n),
		CondensationAdj: make([][]uint32, len(components)),
	}
	for i, component := range components {
		for _, v := range component {
			scc.ComponentOf[v] = uint32(i)
		}
	}

	seen := make(map[[2]uint32]struct{})
	for _, e := range g.edges {
		if roots[e.From] == roots[e.To] {
			continue
		}
		from, to := scc.ComponentOf[e.From], scc.ComponentOf[e.To]
		if _, ok := seen[[2]uint32{from, to}]; ok {
			continue
		}
		seen[[2]uint32{from, to}] = struct{}{}
		scc.CondensationAdj[from] = append(scc.CondensationAdj[from], to)
	}

	return scc, nil
}

// dfs walks out-edges, or the given in-edge lists when reversed is non-nil,
// appending v after all of its descendants.
func (g *InputGraph) dfs(v uint32, output *[]uint32, visited []bool, reversed [][]uint32) {
	visited[v] = true

	if reversed == nil {
		for _, e := range g.OutEdges(v) {
			if !visited[e.To] {
				g.dfs(e.To, output, visited, reversed)
			}
		}
	} else {
		for _, from := range reversed[v] {
			if !visited[from] {
				g.dfs(from, output, visited, reversed)
			}
		}
	}

	*output = append(*output, v)
}
