package contractor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/graph"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/network"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/nodemap"
)

/*
from https://jlazarsfeld.github.io/ch.150.project/sections/8-contraction/
p=0, v=1, q=2, w=3, r=4

	 p
	  \
	   \
	    10
	     \
		  v -----3----- r
		 /            /
		6            5
	   /    		/
	  q ---5----- w

all edges are bidirectional

after contracting v:

	 p ___
	| \   \___
	|  \      \ 13
	|  10          \__
	16   \            \
	|	  v -----3----- r
	|	 /          /  /
	|	6    _  9    5
	|  / _ /   		/
	 q------5----- w
*/
func NewGraph() *graph.InputGraph {
	g := graph.NewInputGraph()
	p, v, q, w, r := uint32(0), uint32(1), uint32(2), uint32(3), uint32(4)

	addBoth := func(a, b, weight uint32) {
		g.AddEdge(a, b, weight)
		g.AddEdge(b, a, weight)
	}
	addBoth(p, v, 10)
	addBoth(v, r, 3)
	addBoth(v, q, 6)
	addBoth(q, w, 5)
	addBoth(w, r, 5)

	g.Freeze()
	return g
}

func TestContractNode(t *testing.T) {
	g := NewGraph()

	t.Run("contract node v", func(t *testing.T) {
		cfg := newConfig(nil)
		c, err := newContractor(g, cfg)
		require.NoError(t, err)

		c.contractNode(1) //  id 1 = node V

		assert.Equal(t, 6, c.shortcuts)

		expected := map[[2]uint32]uint32{
			{0, 2}: 16, // p -> q
			{0, 4}: 13, // p -> r
			{2, 0}: 16, // q -> p
			{2, 4}: 9,  // q -> r
			{4, 0}: 13, // r -> p
			{4, 2}: 9,  // r -> q
		}
		for pair, weight := range expected {
			found := false
			for _, arc := range c.out[pair[0]] {
				if arc.node == pair[1] {
					found = true
					assert.Equal(t, weight, arc.weight)
					assert.Equal(t, uint32(1), arc.via)
					assert.Equal(t, uint32(2), arc.hops)
				}
			}
			assert.True(t, found, "missing shortcut %v", pair)
		}

		// v is detached from the remaining graph
		for _, u := range []uint32{0, 2, 4} {
			for _, arc := range c.out[u] {
				assert.NotEqual(t, uint32(1), arc.node)
			}
		}
		assert.Len(t, c.upArcs[1], 3)
		assert.Len(t, c.downArcs[1], 3)
	})
}

func TestPrepareWithOrder(t *testing.T) {
	g := NewGraph()

	h, err := PrepareWithOrder(g, []uint32{1, 0, 2, 3, 4})
	require.NoError(t, err)
	require.NoError(t, h.Validate())

	assert.Equal(t, uint32(6), h.Shortcuts)
	assert.Equal(t, []uint32{1, 0, 2, 3, 4}, h.NodeOrdering())
	assert.Equal(t, uint32(0), h.Rank[1])
	assert.Equal(t, uint32(4), h.Rank[4])

	arc, ok := h.FindUp(0, 2)
	require.True(t, ok)
	assert.Equal(t, Arc{To: 2, Weight: 16, Via: 1}, arc)

	// q -> v is stored at v as a down arc, v -> r as an up arc
	arc, ok = h.FindDown(1, 2)
	require.True(t, ok)
	assert.Equal(t, uint32(6), arc.Weight)
	assert.False(t, arc.IsShortcut())

	arc, ok = h.FindUp(1, 4)
	require.True(t, ok)
	assert.Equal(t, uint32(3), arc.Weight)

	// every up arc goes to a more important node
	for v := uint32(0); v < uint32(h.NumNodes()); v++ {
		for _, a := range h.UpArcs(v) {
			assert.Greater(t, h.Rank[a.To], h.Rank[v])
		}
		for _, a := range h.DownArcs(v) {
			assert.Greater(t, h.Rank[a.To], h.Rank[v])
		}
	}
}

func TestPrepareWithOrderRejectsBadOrdering(t *testing.T) {
	g := NewGraph()

	tests := []struct {
		name  string
		order []uint32
	}{
		{"too short", []uint32{0, 1, 2, 3}},
		{"too long", []uint32{0, 1, 2, 3, 4, 5}},
		{"repeated node", []uint32{0, 1, 2, 3, 3}},
		{"unknown node", []uint32{0, 1, 2, 3, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PrepareWithOrder(g, tt.order)
			assert.ErrorIs(t, err, ErrOrderMismatch)

			var perr *PreprocessingError
			assert.True(t, errors.As(err, &perr))
		})
	}
}

func TestPrepareFailures(t *testing.T) {
	unfrozen := graph.NewInputGraph()
	unfrozen.AddEdge(0, 1, 1)
	_, err := Prepare(unfrozen)
	assert.ErrorIs(t, err, graph.ErrNotFrozen)

	empty := graph.NewInputGraph()
	empty.Freeze()
	_, err = Prepare(empty)
	assert.ErrorIs(t, err, ErrEmptyGraph)
}

func TestPrepareDeterministic(t *testing.T) {
	g := NewGraph()

	h1, err := Prepare(g)
	require.NoError(t, err)
	h2, err := Prepare(g)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	require.NoError(t, h1.Validate())

	order := h1.NodeOrdering()
	seen := make(map[uint32]bool)
	for _, v := range order {
		seen[v] = true
	}
	assert.Len(t, seen, g.NumNodes())

	// contracting in the same order reproduces the hierarchy
	h3, err := PrepareWithOrder(g, order)
	require.NoError(t, err)
	assert.Equal(t, h1, h3)
}

func TestPlaceholderIsRecorded(t *testing.T) {
	net, err := network.NewMap(
		[]network.Road{
			{ID: 0, SpeedLimit: 10, Lanes: []network.LaneID{0, 1}},
			{ID: 1, SpeedLimit: 1, Lanes: []network.LaneID{2}},
		},
		[]network.Lane{
			{ID: 0, Road: 0, Type: network.LaneTypeDriving, Length: 100, SrcI: 0, DstI: 1},
			{ID: 1, Road: 0, Type: network.LaneTypeDriving, Length: 100, SrcI: 1, DstI: 0},
			{ID: 2, Road: 1, Type: network.LaneTypeSidewalk, Length: 100, SrcI: 0, DstI: 1},
		},
		[]network.Turn{
			{ID: network.TurnID{Parent: 1, Src: 0, Dst: 1}},
			{ID: network.TurnID{Parent: 0, Src: 1, Dst: 0}},
		},
	)
	require.NoError(t, err)

	g, err := graph.Build(net, nodemap.New[network.LaneID](), network.ModeCar)
	require.NoError(t, err)

	h, err := Prepare(g)
	require.NoError(t, err)
	assert.True(t, h.IsPlaceholderSource(2))
	assert.False(t, h.IsPlaceholderSource(0))
	assert.False(t, NewGraphHierarchy(t).HasPlaceholder)
}

func NewGraphHierarchy(t *testing.T) *Hierarchy {
	t.Helper()
	h, err := Prepare(NewGraph())
	require.NoError(t, err)
	return h
}

func TestValidateCatchesCorruption(t *testing.T) {
	h, err := PrepareWithOrder(NewGraph(), []uint32{1, 0, 2, 3, 4})
	require.NoError(t, err)

	h.Rank[0] = 3
	assert.ErrorIs(t, h.Validate(), ErrCorruptHierarchy)
}
