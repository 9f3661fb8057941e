package kv

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/network"
)

var (
	ErrKeyNotFound    = errors.New("key not found")
	ErrUnknownBackend = errors.New("unknown kv backend")
	ErrStaleNetwork   = errors.New("stored pathfinders were compiled for another network")
)

// FingerprintKey holds the network.Map fingerprint the stored pathfinders were
// compiled from.
const FingerprintKey = "network/fingerprint"

// Store is an embedded key-value database holding compiled pathfinders.
type Store interface {
	Put(ctx context.Context, key string, val []byte) error
	// PutBatch writes every pair or, on error, possibly only some of them.
	PutBatch(ctx context.Context, kvs map[string][]byte) error
	// Get returns ErrKeyNotFound for a missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	Close() error
}

func PathfinderKey(mode network.Mode) string {
	return fmt.Sprintf("pathfinder/%s", mode)
}

// Open opens the store named by backend, "badger" or "pebble", in dir.
func Open(backend, dir string, logger *zap.Logger) (Store, error) {
	var (
		store Store
		err   error
	)
	switch backend {
	case "badger":
		store, err = OpenBadger(dir, logger)
	case "pebble":
		store, err = OpenPebble(dir, nil, logger)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownBackend, backend)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}
