package memory

import (
	"context"
	"fmt"
	"sync"
)

type quotaStore struct {
	Store
	limit int64
	mu    sync.Mutex
}

// WithQuota bounds the total size of store at limit bytes, counting keys and
// values. A Save that would push usage over the limit fails with an error
// matching both ErrSaveFailed and ErrQuotaExceeded, and nothing is written.
// A limit <= 0 returns store unchanged.
//
// Usage is recomputed from the wrapped store on every Save, so writes made
// around the wrapper are still accounted for.
func WithQuota(store Store, limit int64) Store {
	if limit <= 0 {
		return store
	}
	return &quotaStore{Store: store, limit: limit}
}

func (q *quotaStore) Save(ctx context.Context, entries ...Entry) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	replacing := make(map[string]bool, len(entries))
	var incoming int64
	for _, e := range entries {
		replacing[e.Key] = true
		incoming += e.Size()
	}

	used, err := q.usage(ctx, replacing)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	if used+incoming > q.limit {
		return fmt.Errorf("%w: %w: %d of %d bytes in use, %d requested",
			ErrSaveFailed, ErrQuotaExceeded, used, q.limit, incoming)
	}

	return q.Store.Save(ctx, entries...)
}

// usage sums the size of all stored entries except those about to be replaced.
func (q *quotaStore) usage(ctx context.Context, skip map[string]bool) (int64, error) {
	keys, err := q.Store.List(ctx)
	if err != nil {
		return 0, err
	}

	var toLoad []string
	for _, key := range keys {
		if !skip[key] {
			toLoad = append(toLoad, key)
		}
	}
	if len(toLoad) == 0 {
		return 0, nil
	}

	entries, err := q.Store.Load(ctx, toLoad...)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, e := range entries {
		total += e.Size()
	}
	return total, nil
}
