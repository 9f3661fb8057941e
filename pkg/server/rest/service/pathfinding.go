package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/analysis"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/kv"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/network"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/pathfind"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/server"
)

// Route is a found path with what clients need to draw and describe it.
type Route struct {
	Path     *pathfind.Path
	Length   float64
	Findings []pathfind.BikeLaneFinding
}

/*
PathfindingService owns the live network and its pathfinders. Queries share a
read lock; edits take the write lock so a rebuild never overlaps a query on
the network it replaces.
*/
type PathfindingService struct {
	mu       sync.RWMutex
	net      *network.Map
	pfs      *pathfind.Pathfinders
	analyzer *analysis.Analyzer
	store    kv.Store
	logger   *zap.Logger
}

// NewPathfindingService serves queries on net. When store is not nil, the
// pathfinders are saved to it after every edit.
func NewPathfindingService(net *network.Map, pfs *pathfind.Pathfinders, store kv.Store,
	logger *zap.Logger, opts ...analysis.Option) *PathfindingService {
	opts = append([]analysis.Option{analysis.WithLogger(logger)}, opts...)
	return &PathfindingService{
		net:      net,
		pfs:      pfs,
		analyzer: analysis.New(pfs, opts...),
		store:    store,
		logger:   logger,
	}
}

func (s *PathfindingService) checkPosition(pos pathfind.Position, mode network.Mode, what string) error {
	id := pos.Lane
	if int(id) >= s.net.NumLanes() {
		return server.NewErrorf(server.ErrBadParamInput, "%s lane %d does not exist", what, id)
	}
	l := s.net.GetLane(id)
	if !mode.CanUse(l) {
		return server.NewErrorf(server.ErrBadParamInput, "%s lane %d is a %v lane, %v can't use it",
			what, id, l.Type, mode)
	}
	if pos.DistAlong < 0 || pos.DistAlong > l.Length {
		return server.NewErrorf(server.ErrBadParamInput, "%s offset %.2fm is outside lane %d (%.2fm long)",
			what, pos.DistAlong, id, l.Length)
	}
	return nil
}

// Pathfind validates req before handing it to the pathfinder, which treats
// bad requests as programming errors. audit runs the bike lane check on the
// result.
func (s *PathfindingService) Pathfind(ctx context.Context, req pathfind.PathRequest, audit bool) (Route, error) {
	if err := ctx.Err(); err != nil {
		return Route{}, err
	}
	if !req.Mode.IsVehicle() {
		return Route{}, server.NewErrorf(server.ErrBadParamInput, "mode %v is not supported", req.Mode)
	}
	if audit && req.Mode != network.ModeBike {
		return Route{}, server.NewErrorf(server.ErrBadParamInput, "only bike routes can be audited")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkPosition(req.Start, req.Mode, "start"); err != nil {
		return Route{}, err
	}
	if err := s.checkPosition(req.End, req.Mode, "end"); err != nil {
		return Route{}, err
	}

	path, ok := s.pfs.Pathfind(req, s.net)
	if !ok {
		return Route{}, server.NewErrorf(server.ErrNotFound, "no %v route from lane %d to lane %d",
			req.Mode, req.Start.Lane, req.End.Lane)
	}

	route := Route{
		Path:   path,
		Length: path.Length(s.net),
	}
	if audit {
		route.Findings = s.pfs.Get(network.ModeBike).Audit(path, s.net)
	}
	return route, nil
}

// ApplyEdits edits the network and rebuilds every pathfinder with its current
// node ordering.
func (s *PathfindingService) ApplyEdits(ctx context.Context, edits network.Edits) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	edited, err := s.net.ApplyEdits(edits)
	if err != nil {
		return server.WrapErrorf(err, server.ErrBadParamInput, "invalid edits")
	}

	start := time.Now()
	if err := s.pfs.ApplyEdits(edited); err != nil {
		if errors.Is(err, pathfind.ErrNodeSetMismatch) {
			return server.WrapErrorf(err, server.ErrConflict, "edits changed the lane set")
		}
		return server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	s.net = edited
	s.logger.Info("applied network edits",
		zap.Int("changed_lane_types", len(edits.ChangedLaneTypes)),
		zap.Int("closed_lanes", len(edits.ClosedLanes)),
		zap.Int("banned_turns", len(edits.BannedTurns)),
		zap.Duration("took", time.Since(start)))

	if s.store != nil {
		if err := kv.SavePathfinders(ctx, s.store, s.pfs, edited); err != nil {
			return server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
		}
	}
	return nil
}

// NetworkGaps evaluates the trips and counts the high stress roads on the bike
// routes of those passing filters.
func (s *PathfindingService) NetworkGaps(ctx context.Context, trips []analysis.Trip,
	filters analysis.Filters) (analysis.NetworkGaps, error) {
	if err := ctx.Err(); err != nil {
		return analysis.NetworkGaps{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, trip := range trips {
		for _, id := range []network.LaneID{trip.Origin.Lane, trip.Destination.Lane} {
			if int(id) >= s.net.NumLanes() {
				return analysis.NetworkGaps{}, server.NewErrorf(server.ErrBadParamInput,
					"trip %d references lane %d which does not exist", i, id)
			}
		}
	}

	candidates := s.analyzer.EvaluateTrips(s.net, trips)
	return s.analyzer.NetworkGaps(s.net, candidates, filters), nil
}
