package cache

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrNoStore wraps a fetch outcome that must be returned to the caller
// but never cached, so the next call retries the upstream. Used for
// rate-limited (429) responses.
var ErrNoStore = errors.New("transient result: do not cache")

// Dedup coalesces concurrent fetches of the same key onto a single
// outstanding call and memoizes successful outcomes in a Cache. The
// quick and full investigation lanes share one Dedup per collector so
// each distinct outbound call is issued at most once per window.
type Dedup struct {
	cache Cache
	group singleflight.Group
}

// NewDedup creates a Dedup over the given cache.
func NewDedup(c Cache) *Dedup {
	return &Dedup{cache: c}
}

// Do returns the cached value for key, or runs fn once for all
// concurrent callers and caches its result for ttl. fn returning an
// error wrapped in ErrNoStore yields its value without caching and
// without surfacing an error.
func (d *Dedup) Do(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) (any, error)) (any, error) {
	if v, ok := d.cache.Get(key); ok {
		return v, nil
	}

	v, err, _ := d.group.Do(key, func() (any, error) {
		if v, ok := d.cache.Get(key); ok {
			return v, nil
		}
		v, err := fn(ctx)
		if err != nil {
			if errors.Is(err, ErrNoStore) {
				// Deliberately uncached so the next call can retry.
				return v, nil
			}
			return nil, err
		}
		d.cache.Set(key, v, ttl)
		return v, nil
	})
	return v, err
}
