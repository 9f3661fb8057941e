package routingalgorithm

import (
	"fmt"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/contractor"
)

// arcBetween looks up the hierarchy arc a -> b. Arcs into a more important
// node live in a's up arcs, the others in b's down arcs.
func (e *Engine) arcBetween(a, b uint32) contractor.Arc {
	var (
		arc contractor.Arc
		ok  bool
	)
	if e.h.Rank[a] < e.h.Rank[b] {
		arc, ok = e.h.FindUp(a, b)
	} else {
		arc, ok = e.h.FindDown(b, a)
	}
	if !ok {
		panic(fmt.Sprintf("hierarchy has no arc %d -> %d", a, b))
	}
	return arc
}

func cacheKey(a, b uint32) uint64 {
	return uint64(a)<<32 | uint64(b)
}

// unpackArc appends the input graph nodes after a up to and including b. A
// shortcut a -> b via v is a -> v followed by v -> b.
func (e *Engine) unpackArc(a, b uint32, path []uint32) []uint32 {
	arc := e.arcBetween(a, b)
	if !arc.IsShortcut() {
		return append(path, b)
	}

	key := cacheKey(a, b)
	if e.puCache != nil {
		if nodes, ok := e.puCache.Get(key); ok {
			return append(path, nodes...)
		}
	}

	start := len(path)
	stack := [][2]uint32{{a, b}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cur := e.arcBetween(top[0], top[1])
		if !cur.IsShortcut() {
			path = append(path, top[1])
			continue
		}
		// first half on top
		stack = append(stack, [2]uint32{cur.Via, top[1]}, [2]uint32{top[0], cur.Via})
	}

	if e.puCache != nil {
		nodes := make([]uint32, len(path)-start)
		copy(nodes, path[start:])
		e.puCache.Add(key, nodes)
	}
	return path
}
