package contractor

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/graph"
)

var (
	ErrEmptyGraph       = errors.New("graph has no nodes")
	ErrOrderMismatch    = errors.New("node ordering does not fit the graph")
	ErrCorruptHierarchy = errors.New("corrupt hierarchy")
)

// PreprocessingError is returned when a graph can't be contracted.
type PreprocessingError struct {
	Stage string
	Err   error
}

func (e *PreprocessingError) Error() string {
	return fmt.Sprintf("contraction hierarchy %s: %v", e.Stage, e.Err)
}

func (e *PreprocessingError) Unwrap() error {
	return e.Err
}

// InputGraph is what the contractor reads from the graph builder.
type InputGraph interface {
	IsFrozen() bool
	NumNodes() int
	Edges() []graph.Edge
	Placeholder() (graph.Edge, bool)
}

const (
	defaultContractionSettledLimit = 500
	defaultPrioritySettledLimit    = 50
)

type config struct {
	logger                  *zap.Logger
	contractionSettledLimit int
	prioritySettledLimit    int
}

type Option func(*config)

func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithWitnessSettledLimit bounds the witness searches run while contracting.
// A search that hits the limit gives up and the shortcut is added.
func WithWitnessSettledLimit(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.contractionSettledLimit = n
		}
	}
}

// WithPrioritySettledLimit bounds the witness searches that only estimate a
// node's priority.
func WithPrioritySettledLimit(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.prioritySettledLimit = n
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		logger:                  zap.NewNop(),
		contractionSettledLimit: defaultContractionSettledLimit,
		prioritySettledLimit:    defaultPrioritySettledLimit,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// workArc is an arc of the graph that is still being contracted. node is the
// head of an out arc and the tail of an in arc.
type workArc struct {
	node   uint32
	weight uint32
	via    uint32
	hops   uint32
}

type contractor struct {
	cfg config

	out [][]workArc
	in  [][]workArc

	contracted           []bool
	contractedNeighbours []uint32

	order    []uint32
	upArcs   [][]Arc
	downArcs [][]Arc

	shortcuts int
	ws        *witnessSearch
}

func newContractor(g InputGraph, cfg config) (*contractor, error) {
	if !g.IsFrozen() {
		return nil, &PreprocessingError{Stage: "init", Err: graph.ErrNotFrozen}
	}
	n := g.NumNodes()
	if n == 0 {
		return nil, &PreprocessingError{Stage: "init", Err: ErrEmptyGraph}
	}

	c := &contractor{
		cfg:                  cfg,
		out:                  make([][]workArc, n),
		in:                   make([][]workArc, n),
		contracted:           make([]bool, n),
		contractedNeighbours: make([]uint32, n),
		order:                make([]uint32, 0, n),
		upArcs:               make([][]Arc, n),
		downArcs:             make([][]Arc, n),
		ws:                   newWitnessSearch(n),
	}

	for _, e := range g.Edges() {
		c.out[e.From] = append(c.out[e.From], workArc{node: e.To, weight: e.Weight, via: NoVia, hops: 1})
		c.in[e.To] = append(c.in[e.To], workArc{node: e.From, weight: e.Weight, via: NoVia, hops: 1})
	}
	return c, nil
}

// Prepare contracts g with a freshly computed node ordering. Nodes are taken
// from a lazily updated priority queue keyed by
// 10*edgeDifference + originalEdges + contractedNeighbours.
func Prepare(g InputGraph, opts ...Option) (*Hierarchy, error) {
	cfg := newConfig(opts)
	c, err := newContractor(g, cfg)
	if err != nil {
		return nil, err
	}
	st := time.Now()

	nq := datastructure.NewMinHeap[uint32]()
	c.updatePrioritiesOfRemainingNodes(nq)

	for nq.Size() != 0 {
		polledItem, err := nq.ExtractMin()
		if err != nil {
			return nil, &PreprocessingError{Stage: "ordering", Err: err}
		}

		// lazy update
		priority := c.calculatePriority(polledItem.Item)
		if nq.Size() > 0 {
			smallestItem, err := nq.GetMin()
			if err != nil {
				return nil, &PreprocessingError{Stage: "ordering", Err: err}
			}
			if priority > smallestItem.Rank {
				nq.Insert(datastructure.PriorityQueueNode[uint32]{Item: polledItem.Item, Rank: priority})
				continue
			}
		}

		c.contractNode(polledItem.Item)
	}

	h := c.finish(g)
	cfg.logger.Info("contracted graph with fresh ordering",
		zap.Int("nodes", h.NumNodes()),
		zap.Int("edges", len(g.Edges())),
		zap.Uint32("shortcuts", h.Shortcuts),
		zap.Duration("took", time.Since(st)))
	return h, nil
}

// PrepareWithOrder contracts g in the given order, least important node first.
// The order is usually the NodeOrdering of a hierarchy built over the same node
// set, so the expensive ordering search is skipped.
func PrepareWithOrder(g InputGraph, order []uint32, opts ...Option) (*Hierarchy, error) {
	cfg := newConfig(opts)
	if err := checkOrder(g.NumNodes(), order); err != nil {
		return nil, &PreprocessingError{Stage: "order reuse", Err: err}
	}
	c, err := newContractor(g, cfg)
	if err != nil {
		return nil, err
	}
	st := time.Now()

	for _, v := range order {
		c.contractNode(v)
	}

	h := c.finish(g)
	cfg.logger.Info("contracted graph with reused ordering",
		zap.Int("nodes", h.NumNodes()),
		zap.Int("edges", len(g.Edges())),
		zap.Uint32("shortcuts", h.Shortcuts),
		zap.Duration("took", time.Since(st)))
	return h, nil
}

func checkOrder(n int, order []uint32) error {
	if len(order) != n {
		return fmt.Errorf("%w: ordering has %d nodes, graph has %d", ErrOrderMismatch, len(order), n)
	}
	seen := make([]bool, n)
	for _, v := range order {
		if int(v) >= n || seen[v] {
			return fmt.Errorf("%w: ordering is not a permutation (node %d)", ErrOrderMismatch, v)
		}
		seen[v] = true
	}
	return nil
}

func (c *contractor) updatePrioritiesOfRemainingNodes(nq *datastructure.MinHeap[uint32]) {
	for v := range c.out {
		priority := c.calculatePriority(uint32(v))
		nq.Insert(datastructure.PriorityQueueNode[uint32]{Item: uint32(v), Rank: priority})

		if (v+1)%10000 == 0 {
			c.cfg.logger.Debug("initial priorities", zap.Int("nodes", v+1))
		}
	}
}

func (c *contractor) calculatePriority(v uint32) float64 {
	shortcutsCount, originalEdgesCount := c.findAndHandleShortcuts(v, c.cfg.prioritySettledLimit, countShortcut)

	// |shortcuts(v)| - |{(u, v) | u uncontracted}| - |{(v, w) | w uncontracted}|
	edgeDifference := shortcutsCount - len(c.in[v]) - len(c.out[v])

	return float64(10*edgeDifference + originalEdgesCount + int(c.contractedNeighbours[v]))
}

/*
findAndHandleShortcuts, when contracting v, looks for a path u -> w that avoids
v for every in-neighbour u and out-neighbour w of v. If no such path costs at
most c(u,v) + c(v,w), the shortcut (u,w) is handed to shortcutHandler.
One witness search per u covers every w, bounded by c(u,v) + max c(v,w).
*/
func (c *contractor) findAndHandleShortcuts(v uint32, maxSettledNodes int,
	shortcutHandler func(from, to, via, weight, hops uint32)) (int, int) {
	shortcutCount := 0
	originalEdgesCount := 0

	var pOutMax uint32
	for _, outArc := range c.out[v] {
		if outArc.weight > pOutMax {
			pOutMax = outArc.weight
		}
	}

	if len(c.out[v]) == 0 {
		return 0, 0
	}

	for _, inArc := range c.in[v] {
		u := inArc.node
		if len(c.out[v]) == 1 && c.out[v][0].node == u {
			// only the way back to u, nothing to search for
			continue
		}

		c.ws.search(c, u, v, uint64(inArc.weight)+uint64(pOutMax), maxSettledNodes)

		for _, outArc := range c.out[v] {
			w := outArc.node
			if w == u {
				continue
			}

			viaWeight := uint64(inArc.weight) + uint64(outArc.weight)
			if c.ws.distTo(w) <= viaWeight {
				// witness found
				continue
			}

			hops := inArc.hops + outArc.hops
			shortcutCount++
			originalEdgesCount += int(hops)
			shortcutHandler(u, w, v, clampWeight(viaWeight), hops)
		}
	}
	return shortcutCount, originalEdgesCount
}

func countShortcut(from, to, via, weight, hops uint32) {}

func clampWeight(w uint64) uint32 {
	if w >= math.MaxUint32 {
		return math.MaxUint32 - 1
	}
	return uint32(w)
}

// addOrUpdateShortcut adds from -> to, or lowers the weight of an existing arc
// between the two nodes.
func (c *contractor) addOrUpdateShortcut(from, to, via, weight, hops uint32) {
	for i := range c.out[from] {
		arc := &c.out[from][i]
		if arc.node != to {
			continue
		}
		if weight < arc.weight {
			arc.weight, arc.via, arc.hops = weight, via, hops
			for j := range c.in[to] {
				if c.in[to][j].node == from {
					c.in[to][j].weight, c.in[to][j].via, c.in[to][j].hops = weight, via, hops
					break
				}
			}
		}
		return
	}

	c.out[from] = append(c.out[from], workArc{node: to, weight: weight, via: via, hops: hops})
	c.in[to] = append(c.in[to], workArc{node: from, weight: weight, via: via, hops: hops})
	c.shortcuts++
}

// contractNode adds the shortcuts v needs, then freezes v's remaining arcs as
// its up and down arcs and detaches v from its neighbours.
func (c *contractor) contractNode(v uint32) {
	if c.contracted[v] {
		return
	}
	c.findAndHandleShortcuts(v, c.cfg.contractionSettledLimit, c.addOrUpdateShortcut)

	c.contracted[v] = true
	c.order = append(c.order, v)

	for _, outArc := range c.out[v] {
		w := outArc.node
		c.upArcs[v] = append(c.upArcs[v], Arc{To: w, Weight: outArc.weight, Via: outArc.via})
		c.in[w] = removeArc(c.in[w], v)
		c.contractedNeighbours[w]++
	}
	for _, inArc := range c.in[v] {
		u := inArc.node
		c.downArcs[v] = append(c.downArcs[v], Arc{To: u, Weight: inArc.weight, Via: inArc.via})
		c.out[u] = removeArc(c.out[u], v)
		c.contractedNeighbours[u]++
	}
	c.out[v] = nil
	c.in[v] = nil

	if len(c.order)%10000 == 0 {
		c.cfg.logger.Debug("contracting", zap.Int("nodes", len(c.order)))
	}
}

func removeArc(arcs []workArc, node uint32) []workArc {
	for i, a := range arcs {
		if a.node == node {
			return append(arcs[:i], arcs[i+1:]...)
		}
	}
	return arcs
}

func (c *contractor) finish(g InputGraph) *Hierarchy {
	n := len(c.out)
	h := &Hierarchy{
		Order:     c.order,
		Rank:      make([]uint32, n),
		FirstUp:   make([]uint32, n+1),
		FirstDown: make([]uint32, n+1),
		Up:        make([]Arc, 0),
		Down:      make([]Arc, 0),
		Shortcuts: uint32(c.shortcuts),
	}
	for pos, v := range c.order {
		h.Rank[v] = uint32(pos)
	}

	for v := 0; v < n; v++ {
		sortArcs(c.upArcs[v])
		sortArcs(c.downArcs[v])
		h.FirstUp[v] = uint32(len(h.Up))
		h.Up = append(h.Up, c.upArcs[v]...)
		h.FirstDown[v] = uint32(len(h.Down))
		h.Down = append(h.Down, c.downArcs[v]...)
	}
	h.FirstUp[n] = uint32(len(h.Up))
	h.FirstDown[n] = uint32(len(h.Down))

	if fill, ok := g.Placeholder(); ok {
		h.HasPlaceholder = true
		h.PlaceholderSource = fill.From
	}
	return h
}

func sortArcs(arcs []Arc) {
	sort.Slice(arcs, func(i, j int) bool {
		return arcs[i].To < arcs[j].To
	})
}
