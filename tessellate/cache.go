package tessellate

import (
	"sync"

	"github.com/notargets/gotess/brep"
)

type CacheKey struct {
	FaceID     int
	Deflection float64
	ConfigHash uint64
}

// Cache keeps finished face triangulations between runs; safe for concurrent use
type Cache struct {
	mu      sync.RWMutex
	entries map[CacheKey]*brep.Triangulation
	hits    int
	misses  int
}

func NewCache() *Cache {
	return &Cache{entries: make(map[CacheKey]*brep.Triangulation)}
}

func (c *Cache) Get(key CacheKey) (tr *brep.Triangulation, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tr, ok = c.entries[key]; ok {
		c.hits++
	} else {
		c.misses++
	}
	return
}

func (c *Cache) Put(key CacheKey, tr *brep.Triangulation) {
	if tr == nil {
		return
	}
	c.mu.Lock()
	c.entries[key] = tr
	c.mu.Unlock()
}

// Invalidate drops every entry of the face
func (c *Cache) Invalidate(faceID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.FaceID == faceID {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
