// Package cache keeps rendered pages for a fixed time. Entries are only
// dropped when they expire or when the cache is cleared explicitly, writes to
// the underlying data never invalidate them.
package cache

import (
	"context"
	"time"
)

type Entry struct {
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type PageCache interface {
	Get(ctx context.Context, key string) (Entry, bool)
	Set(ctx context.Context, key string, entry Entry, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Clear(ctx context.Context)
}
