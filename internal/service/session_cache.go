package service

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
)

// SessionCache remembers recent successful validations keyed by token
// fingerprint.
type SessionCache interface {
	Get(key string, now time.Time) (*domain.Session, bool)
	Set(key string, session *domain.Session, now time.Time)
	Delete(key string)
	// Prune drops entries that are no longer servable and returns how many were removed.
	Prune(now time.Time) int
}

type cacheEntry struct {
	session   domain.Session
	expiresAt time.Time
}

type memorySessionCache struct {
	ttl   time.Duration
	items *gocache.Cache
}

// NewMemorySessionCache returns a process-local cache. Entries live for at
// most ttl and never beyond the cached session's own expiry.
func NewMemorySessionCache(ttl time.Duration) SessionCache {
	// eviction runs from the housekeeping sweeper, so the janitor is off
	return &memorySessionCache{
		ttl:   ttl,
		items: gocache.New(ttl, 0),
	}
}

func (c *memorySessionCache) Get(key string, now time.Time) (*domain.Session, bool) {
	v, ok := c.items.Get(key)
	if !ok {
		return nil, false
	}
	entry := v.(cacheEntry)
	if !now.Before(entry.expiresAt) {
		c.items.Delete(key)
		return nil, false
	}
	session := entry.session
	return &session, true
}

func (c *memorySessionCache) Set(key string, session *domain.Session, now time.Time) {
	if session == nil || c.ttl <= 0 {
		return
	}
	expiresAt := now.Add(c.ttl)
	if session.ExpiresAt.Before(expiresAt) {
		expiresAt = session.ExpiresAt
	}
	if !now.Before(expiresAt) {
		return
	}
	c.items.Set(key, cacheEntry{session: *session, expiresAt: expiresAt}, expiresAt.Sub(now))
}

func (c *memorySessionCache) Delete(key string) {
	c.items.Delete(key)
}

func (c *memorySessionCache) Prune(now time.Time) int {
	removed := 0
	for key, item := range c.items.Items() {
		entry, ok := item.Object.(cacheEntry)
		if ok && now.Before(entry.expiresAt) {
			continue
		}
		c.items.Delete(key)
		removed++
	}

	before := c.items.ItemCount()
	c.items.DeleteExpired()
	return removed + before - c.items.ItemCount()
}
