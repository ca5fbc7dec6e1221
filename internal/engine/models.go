package engine

import (
	"context"

	"github.com/rshade/ecofocus/internal/engine/cache"
	"github.com/rshade/ecofocus/internal/predictor"
)

// FileBundleCache keeps model snapshots in a cache.FileStore under one key.
// Expired or unreadable entries count as misses.
type FileBundleCache struct {
	store *cache.FileStore
	key   string
}

// NewFileBundleCache returns a bundle cache writing entry key of store.
func NewFileBundleCache(store *cache.FileStore, key string) *FileBundleCache {
	return &FileBundleCache{store: store, key: key}
}

// LoadBundle restores the saved bundle.
func (c *FileBundleCache) LoadBundle(context.Context) (*predictor.Bundle, predictor.Report, error) {
	snap, _, err := cache.LoadJSON[predictor.Snapshot](c.store, c.key)
	if err != nil {
		return nil, predictor.Report{}, err
	}
	b, err := predictor.Restore(snap)
	if err != nil {
		return nil, predictor.Report{}, err
	}
	return b, snap.Report, nil
}

// SaveBundle replaces the saved bundle with b.
func (c *FileBundleCache) SaveBundle(_ context.Context, b *predictor.Bundle, r predictor.Report) error {
	snap, err := b.Snapshot(r)
	if err != nil {
		return err
	}
	return cache.SaveJSON(c.store, c.key, snap)
}
