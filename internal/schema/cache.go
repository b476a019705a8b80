package schema

import (
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// cache memoizes compiled schema documents keyed by absolute path. Capacity
// is small and fixed; eviction is FIFO. Entries are immutable once compiled
// and safe to share read-only across invocations.
type cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*jsonschema.Schema
	order    []string
}

func newCache(capacity int) *cache {
	if capacity < 1 {
		capacity = 1
	}
	return &cache{
		capacity: capacity,
		entries:  make(map[string]*jsonschema.Schema, capacity),
	}
}

func (c *cache) get(key string) (*jsonschema.Schema, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[key]
	return s, ok
}

func (c *cache) put(key string, s *jsonschema.Schema) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = s
	c.order = append(c.order, key)
}

func (c *cache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
