package pathfind

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/contractor"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/costfunction"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/graph"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/metrics"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/network"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/nodemap"
)

var (
	ErrNotVehicleMode  = errors.New("mode is not served by a vehicle pathfinder")
	ErrNodeSetMismatch = graph.ErrNodeSetMismatch
)

// Network is everything a vehicle pathfinder reads from the road network.
type Network interface {
	graph.Network
	NumLanes() int
	GetLane(id network.LaneID) network.Lane
	GetTurn(id network.TurnID) (network.Turn, bool)
	FindClosestLane(id network.LaneID, types []network.LaneType) (network.LaneID, error)
}

/*
VehiclePathfinder answers car, bike or bus queries over a contraction
hierarchy of one network snapshot. Any number of goroutines may call Pathfind
at once. ApplyEdits swaps in a rebuilt engine atomically; queries already
running finish on the engine they started with.
*/
type VehiclePathfinder struct {
	mode   network.Mode
	nodes  *nodemap.NodeMap[network.LaneID]
	engine atomic.Pointer[routingalgorithm.Engine]
	cfg    config
}

// New builds a pathfinder with a fresh node ordering.
func New(net Network, mode network.Mode, opts ...Option) (*VehiclePathfinder, error) {
	if !mode.IsVehicle() {
		return nil, fmt.Errorf("%w: %v", ErrNotVehicleMode, mode)
	}
	p := &VehiclePathfinder{
		mode:  mode,
		nodes: nodemap.New[network.LaneID](),
		cfg:   newConfig(opts),
	}
	e, err := p.build(net, nil)
	if err != nil {
		return nil, err
	}
	p.engine.Store(e)
	return p, nil
}

// NewWithOrder builds a pathfinder over the same lanes as a sibling, reusing
// its node map and contracting in its node ordering. Both must describe
// exactly the lanes of net, otherwise ErrNodeSetMismatch or
// contractor.ErrOrderMismatch is returned and the caller should build a fresh
// pathfinder with New.
func NewWithOrder(net Network, mode network.Mode, nodes *nodemap.NodeMap[network.LaneID], order []uint32,
	opts ...Option) (*VehiclePathfinder, error) {
	if !mode.IsVehicle() {
		return nil, fmt.Errorf("%w: %v", ErrNotVehicleMode, mode)
	}
	if nodes.Len() != net.NumLanes() {
		return nil, fmt.Errorf("%w: node map has %d nodes, network has %d lanes",
			ErrNodeSetMismatch, nodes.Len(), net.NumLanes())
	}
	p := &VehiclePathfinder{
		mode:  mode,
		nodes: nodes,
		cfg:   newConfig(opts),
	}
	e, err := p.build(net, order)
	if err != nil {
		return nil, err
	}
	p.engine.Store(e)
	return p, nil
}

// build runs the graph builder and the contractor. A nil order asks for a
// fresh ordering.
func (p *VehiclePathfinder) build(net Network, order []uint32) (*routingalgorithm.Engine, error) {
	ordering := metrics.OrderingFresh
	if order != nil {
		ordering = metrics.OrderingReuse
	}

	start := time.Now()
	e, err := func() (*routingalgorithm.Engine, error) {
		g, err := graph.Build(net, p.nodes, p.mode, graph.WithLogger(p.cfg.logger))
		if err != nil {
			return nil, err
		}

		var h *contractor.Hierarchy
		if order == nil {
			h, err = contractor.Prepare(g, p.cfg.contractorOptions()...)
		} else {
			h, err = contractor.PrepareWithOrder(g, order, p.cfg.contractorOptions()...)
		}
		if err != nil {
			return nil, err
		}
		return p.newEngine(h)
	}()
	took := time.Since(start)
	p.cfg.metrics.ObserveBuild(p.mode.String(), ordering, err, took)

	if err != nil {
		return nil, fmt.Errorf("building %v pathfinder: %w", p.mode, err)
	}
	p.cfg.logger.Info("built vehicle pathfinder",
		zap.String("mode", p.mode.String()),
		zap.String("ordering", ordering),
		zap.Uint32("shortcuts", e.Hierarchy().Shortcuts),
		zap.Duration("took", took))
	return e, nil
}

func (p *VehiclePathfinder) newEngine(h *contractor.Hierarchy) (*routingalgorithm.Engine, error) {
	return routingalgorithm.NewEngine(h, p.cfg.engineOptions(p.mode.String())...)
}

func (p *VehiclePathfinder) Mode() network.Mode {
	return p.mode
}

// NodeMap is shared with every pathfinder built from this one's ordering.
func (p *VehiclePathfinder) NodeMap() *nodemap.NodeMap[network.LaneID] {
	return p.nodes
}

// NodeOrdering returns the live hierarchy's contraction order.
func (p *VehiclePathfinder) NodeOrdering() []uint32 {
	return p.engine.Load().Hierarchy().NodeOrdering()
}

/*
Pathfind returns the cheapest path for req, or false if the end can't be
reached in this mode. It panics if req is for another mode or if the start or
end lane can't be used in this mode; callers filter requests by mode first.
*/
func (p *VehiclePathfinder) Pathfind(req PathRequest, net Network) (*Path, bool) {
	if req.Mode != p.mode {
		panic(fmt.Sprintf("%v pathfinder got request %v", p.mode, req))
	}
	startLane := net.GetLane(req.Start.Lane)
	endLane := net.GetLane(req.End.Lane)
	if !p.mode.CanUse(startLane) {
		panic(fmt.Sprintf("%v can't start on %v of type %v", p.mode, startLane.ID, startLane.Type))
	}
	if !p.mode.CanUse(endLane) {
		panic(fmt.Sprintf("%v can't end on %v of type %v", p.mode, endLane.ID, endLane.Type))
	}

	start := time.Now()
	raw, ok := p.engine.Load().CalcPath(p.nodes.Get(startLane.ID), p.nodes.Get(endLane.ID))
	if !ok {
		p.cfg.metrics.ObserveQuery(p.mode.String(), false, time.Since(start))
		return nil, false
	}

	path := &Path{
		Steps:     assembleSteps(p.nodes.Translate(raw.Nodes), net),
		StartDist: req.Start.DistAlong,
		EndDist:   req.End.DistAlong,
		Cost:      float64(raw.Weight),
		Unit:      costfunction.UnitOf(p.mode),
	}
	p.cfg.metrics.ObserveQuery(p.mode.String(), true, time.Since(start))
	return path, true
}

// assembleSteps puts a turn between every two lanes. Turns come straight from
// the lane ids; the graph only has edges for turns that exist.
func assembleSteps(lanes []network.LaneID, net Network) []PathStep {
	steps := make([]PathStep, 0, 2*len(lanes)-1)
	for i, l := range lanes {
		if i > 0 {
			prev := lanes[i-1]
			steps = append(steps, TurnStep(network.TurnID{
				Parent: net.GetLane(prev).DstI,
				Src:    prev,
				Dst:    l,
			}))
		}
		steps = append(steps, LaneStep(l))
	}
	return steps
}

/*
ApplyEdits rebuilds the graph from the edited network and contracts it in the
current node ordering, then swaps the new engine in. The node map is kept. If
the network doesn't have the same lanes any more, ErrNodeSetMismatch is
returned and the current engine stays live.

ApplyEdits must not run concurrently with itself.
*/
func (p *VehiclePathfinder) ApplyEdits(net Network) error {
	e, err := p.rebuild(net)
	if err != nil {
		return err
	}
	p.engine.Store(e)
	return nil
}

func (p *VehiclePathfinder) rebuild(net Network) (*routingalgorithm.Engine, error) {
	if net.NumLanes() != p.nodes.Len() {
		return nil, fmt.Errorf("%w: node map has %d nodes, edited network has %d lanes",
			ErrNodeSetMismatch, p.nodes.Len(), net.NumLanes())
	}
	return p.build(net, p.NodeOrdering())
}

// Audit checks a bike path for lanes that have a cheaper parallel bike lane
// and logs what it finds. The path is not changed. Other modes return nil.
func (p *VehiclePathfinder) Audit(path *Path, net Network) []BikeLaneFinding {
	if p.mode != network.ModeBike {
		return nil
	}
	findings := AuditBikeRoute(path, net)
	for _, f := range findings {
		p.cfg.logger.Warn("bike route skips a cheaper bike lane",
			zap.Stringer("turn", f.Turn),
			zap.Stringer("lane", f.Lane),
			zap.Uint32("lane_cost", f.LaneCost),
			zap.Stringer("bike_lane", f.BikeLane),
			zap.Uint32("bike_lane_cost", f.BikeLaneCost))
	}
	return findings
}
