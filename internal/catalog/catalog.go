// Package catalog keeps a bounded in-memory map from item ID to the item's
// marketplace web slug, populated from search results and used to resolve
// item URLs for the get_item_links tool.
package catalog

import "sync"

// Catalog is a bounded id → slug map with insertion-order eviction.
type Catalog struct {
	capacity int

	mu    sync.Mutex
	slugs map[string]string
	order []string
}

// New creates a catalog holding at most capacity entries.
func New(capacity int) *Catalog {
	return &Catalog{
		capacity: capacity,
		slugs:    make(map[string]string),
	}
}

// PutAll records every id → slug pair, evicting the oldest entries once the
// capacity is exceeded.
func (c *Catalog) PutAll(slugs map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, slug := range slugs {
		if _, known := c.slugs[id]; !known {
			c.order = append(c.order, id)
		}
		c.slugs[id] = slug
	}

	for len(c.slugs) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.slugs, oldest)
	}
}

// Slug returns the web slug recorded for id.
func (c *Catalog) Slug(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	slug, ok := c.slugs[id]
	return slug, ok
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.slugs)
}
