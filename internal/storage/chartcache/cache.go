// Package chartcache keeps recently rendered chart images in memory.
package chartcache

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Entry is a cached rendered image.
type Entry struct {
	ContentType string
	Body        []byte
}

// Key identifies one render request.
type Key struct {
	Kind     string
	Format   string
	Width    int
	Height   int
	PointerX float64
	PointerY float64
	Pointer  bool
	Seed     int64
}

func (k Key) String() string {
	if k.Pointer {
		return fmt.Sprintf("%s|%s|%dx%d|%g,%g|%d", k.Kind, k.Format, k.Width, k.Height, k.PointerX, k.PointerY, k.Seed)
	}
	return fmt.Sprintf("%s|%s|%dx%d|-|%d", k.Kind, k.Format, k.Width, k.Height, k.Seed)
}

// Cache is a TTL cache of rendered images.
type Cache struct {
	c *gocache.Cache
}

// New creates a cache whose entries expire after ttl.
func New(ttl, cleanup time.Duration) *Cache {
	return &Cache{c: gocache.New(ttl, cleanup)}
}

// Get returns the cached entry for k.
func (c *Cache) Get(k Key) (Entry, bool) {
	v, ok := c.c.Get(k.String())
	if !ok {
		return Entry{}, false
	}
	e, ok := v.(Entry)
	return e, ok
}

// Set stores e under k with the default expiration.
func (c *Cache) Set(k Key, e Entry) {
	c.c.Set(k.String(), e, gocache.DefaultExpiration)
}

// Flush drops every entry, e.g. after the dataset changes.
func (c *Cache) Flush() {
	c.c.Flush()
}

// Len returns the number of entries, including expired ones not yet swept.
func (c *Cache) Len() int {
	return c.c.ItemCount()
}
