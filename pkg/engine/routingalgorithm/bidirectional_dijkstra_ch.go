package routingalgorithm

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/contractor"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/util"
)

const defaultUnpackCacheSize = 1 << 14

// RawPath is a shortest path in the input graph: its total weight and every
// node on it, source and target included.
type RawPath struct {
	Weight uint64
	Nodes  []uint32
}

type Option func(*Engine)

// WithUnpackCacheSize sets how many unpacked shortcuts are cached. Zero turns
// the cache off.
func WithUnpackCacheSize(size int) Option {
	return func(e *Engine) {
		e.puCacheSize = size
	}
}

// WithScratchAllocHook is called whenever the pool has to allocate a new
// QueryState.
func WithScratchAllocHook(fn func()) Option {
	return func(e *Engine) {
		e.onScratchAlloc = fn
	}
}

// Engine answers shortest path queries on one immutable hierarchy. It is safe
// for concurrent use; every query checks out its own QueryState.
type Engine struct {
	h              *contractor.Hierarchy
	bufPool        sync.Pool
	puCache        *lru.Cache[uint64, []uint32]
	puCacheSize    int
	onScratchAlloc func()
}

func NewEngine(h *contractor.Hierarchy, opts ...Option) (*Engine, error) {
	e := &Engine{
		h:           h,
		puCacheSize: defaultUnpackCacheSize,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.puCacheSize > 0 {
		cache, err := lru.New[uint64, []uint32](e.puCacheSize)
		if err != nil {
			return nil, fmt.Errorf("unpack cache: %w", err)
		}
		e.puCache = cache
	}
	e.BuildBufferPool()
	return e, nil
}

func (e *Engine) BuildBufferPool() {
	n := e.h.NumNodes()
	e.bufPool = sync.Pool{
		New: func() any {
			if e.onScratchAlloc != nil {
				e.onScratchAlloc()
			}
			return NewQueryState(n)
		},
	}
}

func (e *Engine) Hierarchy() *contractor.Hierarchy {
	return e.h
}

/*
CalcPath runs a bidirectional dijkstra that only relaxes arcs towards more
important nodes: up arcs from the source, down arcs from the target. The
search stops once neither queue can improve the best meeting point. ok is false
when the target is unreachable.
*/
func (e *Engine) CalcPath(from, to uint32) (RawPath, bool) {
	if from == to {
		return RawPath{Weight: 0, Nodes: []uint32{from}}, true
	}
	if e.h.IsPlaceholderSource(from) {
		// the padding edge is not a real movement
		return RawPath{}, false
	}

	qs := e.bufPool.Get().(*QueryState)
	defer func() {
		qs.Reset()
		e.bufPool.Put(qs)
	}()

	qs.setForward(from, 0, from)
	qs.setBackward(to, 0, to)

	estimate := uint64(infDist)
	bestCommonVertex := from

	for !qs.forwQ.IsEmpty() || !qs.backQ.IsEmpty() {
		fMin, bMin := minRank(qs.forwQ), minRank(qs.backQ)
		if fMin >= float64(estimate) && bMin >= float64(estimate) {
			// no queued node can be part of a shorter path
			break
		}

		if fMin <= bMin {
			node, _ := qs.forwQ.ExtractMin()
			u := node.Item
			du := qs.df[u]
			if qs.db[u] != infDist && du+qs.db[u] < estimate {
				estimate = du + qs.db[u]
				bestCommonVertex = u
			}
			if e.h.IsPlaceholderSource(u) {
				continue
			}
			for _, arc := range e.h.UpArcs(u) {
				newCost := du + uint64(arc.Weight)
				if newCost >= qs.df[arc.To] {
					continue
				}
				qs.setForward(arc.To, newCost, u)
				if qs.db[arc.To] != infDist && newCost+qs.db[arc.To] < estimate {
					estimate = newCost + qs.db[arc.To]
					bestCommonVertex = arc.To
				}
			}
		} else {
			node, _ := qs.backQ.ExtractMin()
			u := node.Item
			du := qs.db[u]
			if qs.df[u] != infDist && du+qs.df[u] < estimate {
				estimate = du + qs.df[u]
				bestCommonVertex = u
			}
			for _, arc := range e.h.DownArcs(u) {
				newCost := du + uint64(arc.Weight)
				if newCost >= qs.db[arc.To] {
					continue
				}
				qs.setBackward(arc.To, newCost, u)
				if qs.df[arc.To] != infDist && newCost+qs.df[arc.To] < estimate {
					estimate = newCost + qs.df[arc.To]
					bestCommonVertex = arc.To
				}
			}
		}
	}

	if estimate == infDist {
		return RawPath{}, false
	}

	return RawPath{
		Weight: estimate,
		Nodes:  e.createPath(bestCommonVertex, from, to, qs),
	}, true
}

// createPath walks the predecessor chains out of the meeting point and unpacks
// every shortcut on them.
func (e *Engine) createPath(commonVertex, from, to uint32, qs *QueryState) []uint32 {
	fPath := []uint32{commonVertex}
	for v := commonVertex; v != from; {
		v = qs.cameFromf[v]
		fPath = append(fPath, v)
	}
	fPath = util.ReverseG(fPath)

	bPath := make([]uint32, 0)
	for v := commonVertex; v != to; {
		v = qs.cameFromb[v]
		bPath = append(bPath, v)
	}

	hierarchyPath := append(fPath, bPath...)

	path := []uint32{from}
	for i := 0; i+1 < len(hierarchyPath); i++ {
		path = e.unpackArc(hierarchyPath[i], hierarchyPath[i+1], path)
	}
	return path
}
