package pathfind

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/contractor"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/network"
)

// Pathfinders holds one vehicle pathfinder per vehicle mode, all built from
// the same network snapshot and sharing one node map.
type Pathfinders struct {
	byMode map[network.Mode]*VehiclePathfinder
	logger *zap.Logger
}

// NewPathfinders contracts the first vehicle mode from scratch and seeds the
// others with its node ordering. A mode whose ordering can't be reused is
// built fresh.
func NewPathfinders(net Network, opts ...Option) (*Pathfinders, error) {
	cfg := newConfig(opts)
	pfs := &Pathfinders{
		byMode: make(map[network.Mode]*VehiclePathfinder, len(network.VehicleModes)),
		logger: cfg.logger,
	}

	first, err := New(net, network.VehicleModes[0], opts...)
	if err != nil {
		return nil, err
	}
	pfs.byMode[first.Mode()] = first
	order := first.NodeOrdering()

	for _, mode := range network.VehicleModes[1:] {
		pf, err := NewWithOrder(net, mode, first.NodeMap(), order, opts...)
		if errors.Is(err, ErrNodeSetMismatch) || errors.Is(err, contractor.ErrOrderMismatch) {
			pfs.logger.Warn("node ordering can't be reused, contracting from scratch",
				zap.String("mode", mode.String()), zap.Error(err))
			pf, err = New(net, mode, opts...)
		}
		if err != nil {
			return nil, err
		}
		pfs.byMode[mode] = pf
	}
	return pfs, nil
}

// PathfindersFrom groups pathfinders restored with Load. Every vehicle mode
// must be present exactly once, and all of them must map the same lanes to the
// same nodes. The node map of the first mode is then shared by all of them.
func PathfindersFrom(pfs []*VehiclePathfinder, opts ...Option) (*Pathfinders, error) {
	cfg := newConfig(opts)
	out := &Pathfinders{
		byMode: make(map[network.Mode]*VehiclePathfinder, len(pfs)),
		logger: cfg.logger,
	}
	for _, pf := range pfs {
		if _, dup := out.byMode[pf.Mode()]; dup {
			return nil, fmt.Errorf("duplicate %v pathfinder", pf.Mode())
		}
		out.byMode[pf.Mode()] = pf
	}
	for _, mode := range network.VehicleModes {
		if _, ok := out.byMode[mode]; !ok {
			return nil, fmt.Errorf("missing %v pathfinder", mode)
		}
	}

	shared := out.byMode[network.VehicleModes[0]].nodes
	for _, mode := range network.VehicleModes[1:] {
		if !slices.Equal(shared.Keys(), out.byMode[mode].nodes.Keys()) {
			return nil, fmt.Errorf("%w: %v and %v pathfinders map different lanes",
				ErrNodeSetMismatch, network.VehicleModes[0], mode)
		}
	}
	for _, pf := range out.byMode {
		pf.nodes = shared
	}
	return out, nil
}

// Get returns the pathfinder for a vehicle mode, or nil.
func (p *Pathfinders) Get(mode network.Mode) *VehiclePathfinder {
	return p.byMode[mode]
}

// All returns the pathfinders in network.VehicleModes order.
func (p *Pathfinders) All() []*VehiclePathfinder {
	all := make([]*VehiclePathfinder, 0, len(p.byMode))
	for _, mode := range network.VehicleModes {
		all = append(all, p.byMode[mode])
	}
	return all
}

// Pathfind dispatches on req.Mode. It panics for a mode no pathfinder serves.
func (p *Pathfinders) Pathfind(req PathRequest, net Network) (*Path, bool) {
	pf, ok := p.byMode[req.Mode]
	if !ok {
		panic(fmt.Sprintf("no pathfinder for mode %v", req.Mode))
	}
	return pf.Pathfind(req, net)
}

// ApplyEdits rebuilds every pathfinder against the edited network and only
// swaps the new engines in once all of them built.
func (p *Pathfinders) ApplyEdits(net Network) error {
	all := p.All()
	engines := make([]*routingalgorithm.Engine, len(all))
	for i, pf := range all {
		e, err := pf.rebuild(net)
		if err != nil {
			return err
		}
		engines[i] = e
	}
	for i, pf := range all {
		pf.engine.Store(engines[i])
	}
	return nil
}
