package kv

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/network"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/pathfind"
)

// SavePathfinders writes one blob per vehicle mode, plus the fingerprint of
// the network they were compiled from, in a single batch.
func SavePathfinders(ctx context.Context, store Store, pfs *pathfind.Pathfinders, net *network.Map) error {
	kvs := make(map[string][]byte, len(network.VehicleModes)+1)
	for _, pf := range pfs.All() {
		data, err := pf.MarshalBinary()
		if err != nil {
			return err
		}
		kvs[PathfinderKey(pf.Mode())] = data
	}
	kvs[FingerprintKey] = binary.LittleEndian.AppendUint64(nil, net.Fingerprint())
	if err := store.PutBatch(ctx, kvs); err != nil {
		return fmt.Errorf("saving pathfinders: %w", err)
	}
	return nil
}

// LoadPathfinders reads back what SavePathfinders wrote. It returns
// ErrStaleNetwork when they were compiled for a network other than net, and
// ErrKeyNotFound when nothing, or no fingerprint, was saved.
func LoadPathfinders(ctx context.Context, store Store, net *network.Map,
	opts ...pathfind.Option) (*pathfind.Pathfinders, error) {
	fp, err := store.Get(ctx, FingerprintKey)
	if err != nil {
		return nil, fmt.Errorf("loading network fingerprint: %w", err)
	}
	if len(fp) != 8 {
		return nil, errors.New("malformed network fingerprint")
	}
	if got, want := binary.LittleEndian.Uint64(fp), net.Fingerprint(); got != want {
		return nil, fmt.Errorf("%w: fingerprint %x, network has %x", ErrStaleNetwork, got, want)
	}

	loaded := make([]*pathfind.VehiclePathfinder, 0, len(network.VehicleModes))
	for _, mode := range network.VehicleModes {
		data, err := store.Get(ctx, PathfinderKey(mode))
		if err != nil {
			return nil, fmt.Errorf("loading %v pathfinder: %w", mode, err)
		}
		pf, err := pathfind.Load(data, opts...)
		if err != nil {
			return nil, fmt.Errorf("loading %v pathfinder: %w", mode, err)
		}
		loaded = append(loaded, pf)
	}
	return pathfind.PathfindersFrom(loaded, opts...)
}
