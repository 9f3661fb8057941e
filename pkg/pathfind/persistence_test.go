package pathfind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/network"
)

func TestMarshalRoundTrip(t *testing.T) {
	net := loadSmallTown(t)
	pfs, err := NewPathfinders(net)
	require.NoError(t, err)

	for _, pf := range pfs.All() {
		data, err := pf.MarshalBinary()
		require.NoError(t, err)

		loaded, err := Load(data)
		require.NoError(t, err)
		assert.Equal(t, pf.Mode(), loaded.Mode())
		assert.Equal(t, pf.NodeOrdering(), loaded.NodeOrdering())
		assert.Equal(t, pf.NodeMap().Keys(), loaded.NodeMap().Keys())
		assert.Equal(t, allPaths(t, net, pf), allPaths(t, net, loaded), "%v", pf.Mode())
	}
}

func TestLoadedPathfinderCanBeEdited(t *testing.T) {
	net := loadSmallTown(t)
	car, err := New(net, network.ModeCar)
	require.NoError(t, err)
	data, err := car.MarshalBinary()
	require.NoError(t, err)

	loaded, err := Load(data)
	require.NoError(t, err)

	edited, err := net.ApplyEdits(network.Edits{ClosedLanes: []network.LaneID{3}})
	require.NoError(t, err)
	require.NoError(t, loaded.ApplyEdits(edited))

	_, ok := loaded.Pathfind(request(network.ModeCar, 0, 6), edited)
	assert.False(t, ok)
	_, ok = car.Pathfind(request(network.ModeCar, 0, 6), net)
	assert.True(t, ok)
}

func TestLoadRejectsGarbage(t *testing.T) {
	_, err := Load([]byte("definitely not a pathfinder"))
	assert.Error(t, err)

	var pf VehiclePathfinder
	assert.Error(t, pf.UnmarshalBinary(nil))
}

func TestPathfindersFrom(t *testing.T) {
	net := loadSmallTown(t)
	pfs, err := NewPathfinders(net)
	require.NoError(t, err)

	var loaded []*VehiclePathfinder
	for _, pf := range pfs.All() {
		data, err := pf.MarshalBinary()
		require.NoError(t, err)
		l, err := Load(data)
		require.NoError(t, err)
		loaded = append(loaded, l)
	}

	restored, err := PathfindersFrom(loaded)
	require.NoError(t, err)
	path, ok := restored.Pathfind(request(network.ModeBike, 0, 6), net)
	require.True(t, ok)
	assert.Equal(t, []network.LaneID{0, 5, 6}, path.Lanes())

	// loaded separately, the modes end up on one node map again
	shared := restored.Get(network.VehicleModes[0]).NodeMap()
	for _, pf := range restored.All() {
		assert.Same(t, shared, pf.NodeMap(), "%v", pf.Mode())
	}

	_, err = PathfindersFrom(loaded[:2])
	assert.Error(t, err)
	_, err = PathfindersFrom(append(loaded, loaded[0]))
	assert.Error(t, err)
}

func TestPathfindersFromRejectsDifferentLaneSets(t *testing.T) {
	net := loadSmallTown(t)
	pfs, err := NewPathfinders(net)
	require.NoError(t, err)
	other, err := New(straightRoad(t), network.ModeBus)
	require.NoError(t, err)

	var loaded []*VehiclePathfinder
	for _, pf := range pfs.All() {
		if pf.Mode() == network.ModeBus {
			pf = other
		}
		data, err := pf.MarshalBinary()
		require.NoError(t, err)
		l, err := Load(data)
		require.NoError(t, err)
		loaded = append(loaded, l)
	}

	_, err = PathfindersFrom(loaded)
	assert.ErrorIs(t, err, ErrNodeSetMismatch)
}
