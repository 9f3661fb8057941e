package contractor

import (
	"fmt"
	"math"
	"sort"
)

// NoVia marks an arc that is an edge of the input graph, not a shortcut.
const NoVia = math.MaxUint32

type Arc struct {
	To     uint32
	Weight uint32
	Via    uint32
}

func (a Arc) IsShortcut() bool {
	return a.Via != NoVia
}

// Hierarchy is a contracted graph. Up[FirstUp[v]:FirstUp[v+1]] holds the arcs
// v->w with rank(w) > rank(v). Down[FirstDown[v]:FirstDown[v+1]] holds the arcs
// u->v with rank(u) > rank(v), stored with To = u. A shortcut u->w via v is the
// concatenation of u->v (in v's down arcs) and v->w (in v's up arcs).
//
// Fields are exported for serialization only; a Hierarchy is never mutated
// after it is built.
type Hierarchy struct {
	Order     []uint32
	Rank      []uint32
	FirstUp   []uint32
	Up        []Arc
	FirstDown []uint32
	Down      []Arc

	HasPlaceholder    bool
	PlaceholderSource uint32
	Shortcuts         uint32
}

func (h *Hierarchy) NumNodes() int {
	return len(h.Rank)
}

// NodeOrdering returns the nodes from least to most important.
func (h *Hierarchy) NodeOrdering() []uint32 {
	order := make([]uint32, len(h.Order))
	copy(order, h.Order)
	return order
}

func (h *Hierarchy) UpArcs(node uint32) []Arc {
	return h.Up[h.FirstUp[node]:h.FirstUp[node+1]]
}

func (h *Hierarchy) DownArcs(node uint32) []Arc {
	return h.Down[h.FirstDown[node]:h.FirstDown[node+1]]
}

// IsPlaceholderSource reports whether node only has an out-edge because the
// graph builder had to pad the node range with it.
func (h *Hierarchy) IsPlaceholderSource(node uint32) bool {
	return h.HasPlaceholder && h.PlaceholderSource == node
}

// FindUp returns the arc from -> to stored in from's up arcs.
func (h *Hierarchy) FindUp(from, to uint32) (Arc, bool) {
	return findArc(h.UpArcs(from), to)
}

// FindDown returns the arc from -> at stored in at's down arcs.
func (h *Hierarchy) FindDown(at, from uint32) (Arc, bool) {
	return findArc(h.DownArcs(at), from)
}

// arcs are sorted by To.
func findArc(arcs []Arc, to uint32) (Arc, bool) {
	i := sort.Search(len(arcs), func(i int) bool {
		return arcs[i].To >= to
	})
	if i < len(arcs) && arcs[i].To == to {
		return arcs[i], true
	}
	return Arc{}, false
}

// Validate checks the structural consistency of a decoded hierarchy.
func (h *Hierarchy) Validate() error {
	n := len(h.Rank)
	if len(h.Order) != n || len(h.FirstUp) != n+1 || len(h.FirstDown) != n+1 {
		return fmt.Errorf("%w: inconsistent array lengths", ErrCorruptHierarchy)
	}
	if int(h.FirstUp[n]) != len(h.Up) || int(h.FirstDown[n]) != len(h.Down) {
		return fmt.Errorf("%w: arc offsets out of range", ErrCorruptHierarchy)
	}
	for i := 0; i < n; i++ {
		if h.FirstUp[i] > h.FirstUp[i+1] || h.FirstDown[i] > h.FirstDown[i+1] {
			return fmt.Errorf("%w: arc offsets not monotone at node %d", ErrCorruptHierarchy, i)
		}
	}
	for pos, node := range h.Order {
		if int(node) >= n || h.Rank[node] != uint32(pos) {
			return fmt.Errorf("%w: order and rank disagree at position %d", ErrCorruptHierarchy, pos)
		}
	}
	for _, arcs := range [][]Arc{h.Up, h.Down} {
		for _, a := range arcs {
			if int(a.To) >= n || (a.IsShortcut() && int(a.Via) >= n) {
				return fmt.Errorf("%w: arc references unknown node", ErrCorruptHierarchy)
			}
		}
	}
	if h.HasPlaceholder && int(h.PlaceholderSource) >= n {
		return fmt.Errorf("%w: placeholder source out of range", ErrCorruptHierarchy)
	}
	return nil
}
