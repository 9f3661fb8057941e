package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/network"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/pathfind"
)

func setup(t *testing.T) (*network.Map, *Analyzer) {
	t.Helper()
	net, err := network.LoadJSONFile("../network/testdata/small_town.json")
	require.NoError(t, err)
	pfs, err := pathfind.NewPathfinders(net)
	require.NoError(t, err)
	return net, New(pfs, WithWorkers(4))
}

func trip(from, to network.LaneID) Trip {
	return Trip{
		Origin:      pathfind.Position{Lane: from},
		Destination: pathfind.Position{Lane: to},
	}
}

func TestHighStressRoads(t *testing.T) {
	net, a := setup(t)
	// road 0 has a bike lane, road 2 is slow, road 4 is a footpath
	assert.Equal(t, []uint32{1, 3}, a.HighStressRoads(net).ToArray())
}

func TestEvaluateTrips(t *testing.T) {
	net, a := setup(t)

	candidates := a.EvaluateTrips(net, []Trip{
		trip(0, 6),
		// no road lane next to the footpath
		trip(10, 6),
		trip(1, 8),
		trip(6, 0),
	})
	require.Len(t, candidates, 3)

	assert.Equal(t, trip(0, 6), candidates[0].Trip)
	assert.Equal(t, 18*time.Second, candidates[0].DrivingTime)
	assert.Equal(t, network.ModeBike, candidates[0].BikeReq.Mode)
	// lane 0, the bus lane and both turns
	assert.InDelta(t, 230.0, candidates[0].BikingDistance, 1e-9)
	assert.Equal(t, seconds(230/defaultMaxBikeSpeed), candidates[0].BikingTime)

	assert.Equal(t, trip(1, 8), candidates[1].Trip)
	assert.Equal(t, 8*time.Second, candidates[1].DrivingTime)
	assert.InDelta(t, 105.0, candidates[1].BikingDistance, 1e-9)

	assert.Equal(t, trip(6, 0), candidates[2].Trip)
	assert.InDelta(t, 490.0, candidates[2].BikingDistance, 1e-9)
}

func TestRequestForMovesOntoUsableLane(t *testing.T) {
	net, _ := setup(t)

	// lane 2 is the bike lane of road 0, cars move to lane 0 next to it
	req, ok := requestFor(trip(2, 6), network.ModeCar, net)
	require.True(t, ok)
	assert.Equal(t, network.LaneID(0), req.Start.Lane)
	assert.Equal(t, network.LaneID(6), req.End.Lane)

	req, ok = requestFor(trip(2, 6), network.ModeBike, net)
	require.True(t, ok)
	assert.Equal(t, network.LaneID(2), req.Start.Lane)

	_, ok = requestFor(trip(10, 6), network.ModeBike, net)
	assert.False(t, ok)
}

func TestNetworkGaps(t *testing.T) {
	net, a := setup(t)
	candidates := a.EvaluateTrips(net, []Trip{trip(0, 6), trip(1, 8), trip(6, 0)})
	require.Len(t, candidates, 3)

	gaps := a.NetworkGaps(net, candidates, DefaultFilters())
	assert.Equal(t, 3, gaps.NumFilteredTrips)
	assert.Equal(t, map[network.RoadID]int{1: 1, 3: 2}, gaps.CountPerRoad)
	assert.Equal(t, []RoadCount{{Road: 3, Count: 2}, {Road: 1, Count: 1}}, gaps.Ranked())

	short := DefaultFilters()
	short.MaxBikingDistance = 200
	gaps = a.NetworkGaps(net, candidates, short)
	assert.Equal(t, 1, gaps.NumFilteredTrips)
	assert.Equal(t, map[network.RoadID]int{3: 1}, gaps.CountPerRoad)
}

func TestFilters(t *testing.T) {
	f := DefaultFilters()
	ok := CandidateTrip{DrivingTime: time.Minute, BikingTime: 5 * time.Minute, BikingDistance: 1000}
	assert.True(t, f.Apply(ok))

	tooLong := ok
	tooLong.BikingTime = time.Hour
	assert.False(t, f.Apply(tooLong))

	tooFar := ok
	tooFar.BikingDistance = 20000
	assert.False(t, f.Apply(tooFar))
}
