package graph

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/costfunction"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/network"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/nodemap"
)

type Network interface {
	costfunction.Network
	AllLanes() []network.Lane
	TurnsFor(id network.LaneID, mode network.Mode) []network.Turn
}

type Option func(*buildConfig)

type buildConfig struct {
	logger *zap.Logger
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *buildConfig) {
		c.logger = logger
	}
}

// Build turns every lane of net into a node and every turn the mode may take
// into an edge weighted by the mode's cost function. An empty node map is
// filled in lane order; a non-empty one must already hold exactly the lanes of
// net and is only read.
func Build(net Network, nodes *nodemap.NodeMap[network.LaneID], mode network.Mode, opts ...Option) (*InputGraph, error) {
	cfg := buildConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	lanes := net.AllLanes()
	if len(lanes) == 0 {
		return nil, fmt.Errorf("%w: network has no lanes", ErrNodeSetMismatch)
	}

	if nodes.Len() == 0 {
		for _, l := range lanes {
			nodes.GetOrInsert(l.ID)
		}
	} else {
		if nodes.Len() != len(lanes) {
			return nil, fmt.Errorf("%w: node map has %d nodes, network has %d lanes",
				ErrNodeSetMismatch, nodes.Len(), len(lanes))
		}
		for _, l := range lanes {
			if _, ok := nodes.Lookup(l.ID); !ok {
				return nil, fmt.Errorf("%w: %v is not in the node map", ErrNodeSetMismatch, l.ID)
			}
		}
	}

	g := NewInputGraph()
	last := uint32(nodes.Len() - 1)
	lastReferenced := false

	for _, l := range lanes {
		if !mode.CanUse(l) {
			continue
		}
		from := nodes.Get(l.ID)
		for _, turn := range net.TurnsFor(l.ID, mode) {
			to := nodes.Get(turn.ID.Dst)
			g.AddEdge(from, to, costfunction.Cost(l, turn, mode, net))
			if (from == last || to == last) && from != to {
				lastReferenced = true
			}
		}
	}

	if !lastReferenced && last != 0 {
		g.addPlaceholder(last, 0)
		cfg.logger.Debug("injected placeholder edge",
			zap.String("mode", mode.String()),
			zap.Stringer("lane", nodes.Key(last)))
	}

	g.Freeze()

	if g.NumNodes() != len(lanes) {
		return nil, fmt.Errorf("%w: graph for %v has %d nodes, network has %d lanes",
			ErrNodeSetMismatch, mode, g.NumNodes(), len(lanes))
	}

	if ce := cfg.logger.Check(zap.DebugLevel, "built input graph"); ce != nil {
		scc, err := g.StronglyConnectedComponents()
		if err != nil {
			return nil, err
		}
		ce.Write(
			zap.String("mode", mode.String()),
			zap.Int("nodes", g.NumNodes()),
			zap.Int("edges", g.NumEdges()),
			zap.Int("components", len(scc.Components)),
		)
	}

	return g, nil
}
