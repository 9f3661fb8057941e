package analysis

import (
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/concurrent"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/network"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/pathfind"
)

const (
	// 10 mph
	defaultMaxBikeSpeed = 4.4704
	// roads faster than 25 mph without a bike lane are stressful to ride on
	defaultHighStressSpeed = 11.176
)

type Network interface {
	pathfind.Network
	AllRoads() []network.Road
}

// Trip is a journey someone currently makes by car.
type Trip struct {
	Origin      pathfind.Position
	Destination pathfind.Position
}

// CandidateTrip is a car trip that could also be made by bike.
type CandidateTrip struct {
	Trip           Trip
	BikeReq        pathfind.PathRequest
	DrivingTime    time.Duration
	BikingTime     time.Duration
	BikingDistance float64
}

type Option func(*Analyzer)

func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithMaxBikeSpeed sets the speed in m/s used to estimate biking time.
func WithMaxBikeSpeed(speed float64) Option {
	return func(a *Analyzer) {
		if speed > 0 {
			a.maxBikeSpeed = speed
		}
	}
}

// WithHighStressSpeed sets the speed limit in m/s above which a road without
// a bike lane counts as high stress.
func WithHighStressSpeed(speed float64) Option {
	return func(a *Analyzer) {
		a.highStressSpeed = speed
	}
}

// Analyzer evaluates batches of trips against a set of vehicle pathfinders.
// Every trip is an independent query, fanned out over a worker pool.
type Analyzer struct {
	pfs             *pathfind.Pathfinders
	workers         int
	logger          *zap.Logger
	maxBikeSpeed    float64
	highStressSpeed float64
}

func New(pfs *pathfind.Pathfinders, opts ...Option) *Analyzer {
	a := &Analyzer{
		pfs:             pfs,
		workers:         runtime.GOMAXPROCS(0),
		logger:          zap.NewNop(),
		maxBikeSpeed:    defaultMaxBikeSpeed,
		highStressSpeed: defaultHighStressSpeed,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// requestFor moves the trip's endpoints onto lanes the mode can use, looking
// for the closest such lane on the same road when needed.
func requestFor(trip Trip, mode network.Mode, net Network) (pathfind.PathRequest, bool) {
	start, ok := usableLane(trip.Origin, mode, net)
	if !ok {
		return pathfind.PathRequest{}, false
	}
	end, ok := usableLane(trip.Destination, mode, net)
	if !ok {
		return pathfind.PathRequest{}, false
	}
	return pathfind.PathRequest{Start: start, End: end, Mode: mode}, true
}

func usableLane(pos pathfind.Position, mode network.Mode, net Network) (pathfind.Position, bool) {
	if mode.CanUse(net.GetLane(pos.Lane)) {
		return pos, true
	}
	var types []network.LaneType
	switch mode {
	case network.ModeCar:
		types = []network.LaneType{network.LaneTypeDriving}
	case network.ModeBike:
		types = []network.LaneType{network.LaneTypeBiking, network.LaneTypeDriving, network.LaneTypeBus}
	case network.ModeBus:
		types = []network.LaneType{network.LaneTypeBus, network.LaneTypeDriving}
	}
	lane, err := net.FindClosestLane(pos.Lane, types)
	if err != nil {
		return pathfind.Position{}, false
	}
	// keep the relative position along the road
	dist := pos.DistAlong
	if l := net.GetLane(lane).Length; dist > l {
		dist = l
	}
	return pathfind.Position{Lane: lane, DistAlong: dist}, true
}

type tripResult struct {
	candidate CandidateTrip
	ok        bool
}

// EvaluateTrips routes every trip by car and by bike. Trips that can't be
// made both ways are dropped; the rest keep their input order.
func (a *Analyzer) EvaluateTrips(net Network, trips []Trip) []CandidateTrip {
	start := time.Now()
	wp := concurrent.NewWorkerPool[concurrent.Job[Trip], concurrent.Job[tripResult]](a.workers, len(trips))
	for i, trip := range trips {
		wp.AddJob(concurrent.NewJob(i, trip))
	}
	wp.Close()
	wp.Start(func(job concurrent.Job[Trip]) concurrent.Job[tripResult] {
		c, ok := a.evaluateTrip(job.JobItem, net)
		return concurrent.NewJob(job.ID, tripResult{candidate: c, ok: ok})
	})
	wp.Wait()

	byID := make([]tripResult, len(trips))
	for r := range wp.CollectResults() {
		byID[r.ID] = r.JobItem
	}
	candidates := make([]CandidateTrip, 0, len(trips))
	for _, r := range byID {
		if r.ok {
			candidates = append(candidates, r.candidate)
		}
	}

	a.logger.Info("evaluated trips",
		zap.Int("trips", len(trips)),
		zap.Int("candidates", len(candidates)),
		zap.Duration("took", time.Since(start)))
	return candidates
}

func (a *Analyzer) evaluateTrip(trip Trip, net Network) (CandidateTrip, bool) {
	driveReq, ok := requestFor(trip, network.ModeCar, net)
	if !ok {
		return CandidateTrip{}, false
	}
	bikeReq, ok := requestFor(trip, network.ModeBike, net)
	if !ok {
		return CandidateTrip{}, false
	}
	driving, ok := a.pfs.Pathfind(driveReq, net)
	if !ok {
		return CandidateTrip{}, false
	}
	biking, ok := a.pfs.Pathfind(bikeReq, net)
	if !ok {
		return CandidateTrip{}, false
	}

	dist := biking.Length(net)
	return CandidateTrip{
		Trip:           trip,
		BikeReq:        bikeReq,
		DrivingTime:    seconds(driving.Cost),
		BikingTime:     seconds(dist / a.maxBikeSpeed),
		BikingDistance: dist,
	}, true
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
