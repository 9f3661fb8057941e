package kv

import (
	"context"
	"testing"

	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/network"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/pathfind"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	b, err := OpenBadger("", zap.NewNop())
	require.NoError(t, err)
	p, err := OpenPebble("db", vfs.NewMem(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, b.Close())
		assert.NoError(t, p.Close())
	})
	return map[string]Store{"badger": b, "pebble": p}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			require.NoError(t, store.Put(ctx, "a", []byte("1")))
			require.NoError(t, store.PutBatch(ctx, map[string][]byte{
				"b": []byte("2"),
				"c": []byte("3"),
			}))

			for key, want := range map[string]string{"a": "1", "b": "2", "c": "3"} {
				val, err := store.Get(ctx, key)
				require.NoError(t, err)
				assert.Equal(t, want, string(val))
			}

			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			assert.ErrorIs(t, store.Put(cancelled, "d", []byte("4")), context.Canceled)
		})
	}
}

func TestPathfindersRoundTrip(t *testing.T) {
	ctx := context.Background()
	net, err := network.LoadJSONFile("../network/testdata/small_town.json")
	require.NoError(t, err)
	pfs, err := pathfind.NewPathfinders(net)
	require.NoError(t, err)

	req := pathfind.PathRequest{
		Start: pathfind.Position{Lane: 0},
		End:   pathfind.Position{Lane: 6},
		Mode:  network.ModeBike,
	}
	want, ok := pfs.Pathfind(req, net)
	require.True(t, ok)

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := LoadPathfinders(ctx, store, net)
			assert.ErrorIs(t, err, ErrKeyNotFound)

			require.NoError(t, SavePathfinders(ctx, store, pfs, net))
			loaded, err := LoadPathfinders(ctx, store, net)
			require.NoError(t, err)

			got, ok := loaded.Pathfind(req, net)
			require.True(t, ok)
			assert.Equal(t, want, got)
			assert.Equal(t, pfs.Get(network.ModeBus).NodeOrdering(), loaded.Get(network.ModeBus).NodeOrdering())
		})
	}
}

func TestLoadPathfindersRejectsEditedNetwork(t *testing.T) {
	ctx := context.Background()
	net, err := network.LoadJSONFile("../network/testdata/small_town.json")
	require.NoError(t, err)

	// lane 2 is a bike lane until it's opened to cars
	edited, err := net.ApplyEdits(network.Edits{
		ChangedLaneTypes: map[network.LaneID]network.LaneType{2: network.LaneTypeDriving},
	})
	require.NoError(t, err)
	pfs, err := pathfind.NewPathfinders(net)
	require.NoError(t, err)
	require.NoError(t, pfs.ApplyEdits(edited))

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, SavePathfinders(ctx, store, pfs, edited))

			_, err := LoadPathfinders(ctx, store, net)
			assert.ErrorIs(t, err, ErrStaleNetwork)

			loaded, err := LoadPathfinders(ctx, store, edited)
			require.NoError(t, err)
			req := pathfind.PathRequest{
				Start: pathfind.Position{Lane: 1},
				End:   pathfind.Position{Lane: 2},
				Mode:  network.ModeCar,
			}
			want, ok := pfs.Pathfind(req, edited)
			require.True(t, ok)
			got, ok := loaded.Pathfind(req, edited)
			require.True(t, ok)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadPathfindersWithoutFingerprint(t *testing.T) {
	ctx := context.Background()
	net, err := network.LoadJSONFile("../network/testdata/small_town.json")
	require.NoError(t, err)
	pfs, err := pathfind.NewPathfinders(net)
	require.NoError(t, err)

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, pf := range pfs.All() {
				data, err := pf.MarshalBinary()
				require.NoError(t, err)
				require.NoError(t, store.Put(ctx, PathfinderKey(pf.Mode()), data))
			}
			_, err := LoadPathfinders(ctx, store, net)
			assert.ErrorIs(t, err, ErrKeyNotFound)

			require.NoError(t, store.Put(ctx, FingerprintKey, []byte{1, 2}))
			_, err = LoadPathfinders(ctx, store, net)
			assert.Error(t, err)
		})
	}
}

func TestPathfinderKey(t *testing.T) {
	assert.Equal(t, "pathfinder/car", PathfinderKey(network.ModeCar))
	assert.Equal(t, "pathfinder/bike", PathfinderKey(network.ModeBike))
}

func TestOpen(t *testing.T) {
	for _, backend := range []string{"badger", "pebble"} {
		t.Run(backend, func(t *testing.T) {
			store, err := Open(backend, t.TempDir(), zap.NewNop())
			require.NoError(t, err)
			require.NoError(t, store.Put(context.Background(), "k", []byte("v")))
			assert.NoError(t, store.Close())
		})
	}

	_, err := Open("bolt", t.TempDir(), zap.NewNop())
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
