package analysis

import (
	"sort"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/concurrent"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/network"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/pathfind"
)

// Filters picks the car trips that are short enough to switch to a bike.
type Filters struct {
	MaxDrivingTime    time.Duration
	MaxBikingTime     time.Duration
	MaxBikingDistance float64
}

func DefaultFilters() Filters {
	return Filters{
		MaxDrivingTime: 30 * time.Minute,
		MaxBikingTime:  30 * time.Minute,
		// 10 miles
		MaxBikingDistance: 16093.44,
	}
}

func (f Filters) Apply(c CandidateTrip) bool {
	return c.DrivingTime <= f.MaxDrivingTime &&
		c.BikingTime <= f.MaxBikingTime &&
		c.BikingDistance <= f.MaxBikingDistance
}

type RoadCount struct {
	Road  network.RoadID
	Count int
}

// NetworkGaps counts, for every high stress road, how many of the filtered
// bike trips ride along it.
type NetworkGaps struct {
	CountPerRoad     map[network.RoadID]int
	NumFilteredTrips int
}

// Ranked returns the roads from most to least used, ties by road id.
func (g NetworkGaps) Ranked() []RoadCount {
	ranked := make([]RoadCount, 0, len(g.CountPerRoad))
	for r, c := range g.CountPerRoad {
		ranked = append(ranked, RoadCount{Road: r, Count: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Road < ranked[j].Road
	})
	return ranked
}

// HighStressRoads returns the roads bikes share with fast traffic: no bike
// lane, at least one lane bikes may use, and a speed limit above the
// threshold.
func (a *Analyzer) HighStressRoads(net Network) *roaring.Bitmap {
	roads := roaring.New()
	for _, r := range net.AllRoads() {
		if r.SpeedLimit <= a.highStressSpeed {
			continue
		}
		hasBikeLane, rideable := false, false
		for _, id := range r.Lanes {
			l := net.GetLane(id)
			if l.IsBiking() {
				hasBikeLane = true
			}
			if network.ModeBike.CanUse(l) {
				rideable = true
			}
		}
		if rideable && !hasBikeLane {
			roads.Add(uint32(r.ID))
		}
	}
	return roads
}

// NetworkGaps routes the bike side of every candidate passing filters and
// counts the high stress roads on the routes. A road is counted once per
// trip.
func (a *Analyzer) NetworkGaps(net Network, candidates []CandidateTrip, filters Filters) NetworkGaps {
	highStress := a.HighStressRoads(net)

	requests := make([]pathfind.PathRequest, 0, len(candidates))
	for _, c := range candidates {
		if filters.Apply(c) {
			requests = append(requests, c.BikeReq)
		}
	}

	wp := concurrent.NewWorkerPool[pathfind.PathRequest, *roaring.Bitmap](a.workers, len(requests))
	for _, req := range requests {
		wp.AddJob(req)
	}
	wp.Close()
	wp.Start(func(req pathfind.PathRequest) *roaring.Bitmap {
		roads := roaring.New()
		path, ok := a.pfs.Pathfind(req, net)
		if !ok {
			return roads
		}
		for _, l := range path.Lanes() {
			road := uint32(net.GetLane(l).Road)
			if highStress.Contains(road) {
				roads.Add(road)
			}
		}
		return roads
	})
	wp.Wait()

	gaps := NetworkGaps{
		CountPerRoad:     make(map[network.RoadID]int),
		NumFilteredTrips: len(requests),
	}
	for roads := range wp.CollectResults() {
		it := roads.Iterator()
		for it.HasNext() {
			gaps.CountPerRoad[network.RoadID(it.Next())]++
		}
	}

	a.logger.Info("calculated network gaps",
		zap.Int("filtered_trips", len(requests)),
		zap.Uint64("high_stress_roads", highStress.GetCardinality()),
		zap.Int("roads_with_gaps", len(gaps.CountPerRoad)))
	return gaps
}
