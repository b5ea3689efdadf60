package cache

import (
	"context"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

const DefaultMaxEntries = 1000

type memoryItem struct {
	entry   Entry
	expires time.Time
}

// MemoryCache is a process-wide cache. Expired entries are removed when read or
// when the cache is full, and at most MaxEntries pages are kept.
type MemoryCache struct {
	MaxEntries int
	items      cmap.ConcurrentMap[string, memoryItem]
	now        func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		MaxEntries: DefaultMaxEntries,
		items:      cmap.New[memoryItem](),
		now:        time.Now,
	}
}

func (m *MemoryCache) Len() int {
	return m.items.Count()
}

func (m *MemoryCache) Get(_ context.Context, key string) (Entry, bool) {
	item, ok := m.items.Get(key)
	if !ok {
		return Entry{}, false
	}
	if !m.now().Before(item.expires) {
		m.removeIfExpires(key, item.expires)
		return Entry{}, false
	}
	return item.entry, true
}

func (m *MemoryCache) Set(_ context.Context, key string, entry Entry, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if m.MaxEntries > 0 && !m.items.Has(key) && m.items.Count() >= m.MaxEntries {
		m.cull()
	}
	m.items.Set(key, memoryItem{entry: entry, expires: m.now().Add(ttl)})
}

func (m *MemoryCache) Delete(_ context.Context, key string) {
	m.items.Remove(key)
}

func (m *MemoryCache) Clear(_ context.Context) {
	m.items.Clear()
}

// cull drops every expired entry, then the entries closest to expiry until
// there is room for one more
func (m *MemoryCache) cull() {
	now := m.now()
	expired := map[string]time.Time{}
	var soonest []string
	var soonestAt time.Time
	m.items.IterCb(func(key string, item memoryItem) {
		if !now.Before(item.expires) {
			expired[key] = item.expires
			return
		}
		switch {
		case len(soonest) == 0 || item.expires.Before(soonestAt):
			soonest, soonestAt = []string{key}, item.expires
		case item.expires.Equal(soonestAt):
			soonest = append(soonest, key)
		}
	})
	for key, expires := range expired {
		m.removeIfExpires(key, expires)
	}
	for _, key := range soonest {
		if m.items.Count() < m.MaxEntries {
			return
		}
		m.removeIfExpires(key, soonestAt)
	}
}

// removeIfExpires leaves the key alone when it was rewritten in the meantime
func (m *MemoryCache) removeIfExpires(key string, expires time.Time) {
	m.items.RemoveCb(key, func(_ string, current memoryItem, exists bool) bool {
		return exists && current.expires.Equal(expires)
	})
}
