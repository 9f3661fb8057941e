package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"go.uber.org/zap"
)

type PebbleStore struct {
	db *pebble.DB
}

// OpenPebble opens a pebble database in dir on fs. A nil fs is the OS
// filesystem.
func OpenPebble(dir string, fs vfs.FS, logger *zap.Logger) (*PebbleStore, error) {
	if fs == nil {
		fs = vfs.Default
	}
	db, err := pebble.Open(dir, &pebble.Options{
		FS:     fs,
		Logger: logger.Named("pebble").Sugar(),
	})
	if err != nil {
		return nil, fmt.Errorf("opening pebble at %q: %w", dir, err)
	}
	return &PebbleStore{db: db}, nil
}

func (p *PebbleStore) Put(ctx context.Context, key string, val []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.db.Set([]byte(key), val, pebble.Sync)
}

func (p *PebbleStore) PutBatch(ctx context.Context, kvs map[string][]byte) error {
	batch := p.db.NewBatch()
	defer batch.Close()

	for key, val := range kvs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := batch.Set([]byte(key), val, nil); err != nil {
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}

func (p *PebbleStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	val, closer, err := p.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (p *PebbleStore) Close() error {
	return p.db.Close()
}
