package lrucache

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// LRUCache is a least-recently-used cache for any type
// that's able to be indexed by DomainHash
type LRUCache struct {
	cache *lru.Cache
}

// New creates a new LRUCache
func New(capacity int) *LRUCache {
	cache, err := lru.New(capacity)
	if err != nil {
		panic(errors.Wrapf(err, "cannot create an LRU cache with capacity %d", capacity))
	}
	return &LRUCache{cache: cache}
}

// Add adds an entry to the LRUCache
func (c *LRUCache) Add(key *externalapi.DomainHash, value interface{}) {
	c.cache.Add(*key, value)
}

// Get returns the entry for the given key, or (nil, false) otherwise
func (c *LRUCache) Get(key *externalapi.DomainHash) (interface{}, bool) {
	return c.cache.Get(*key)
}

// Has returns whether the LRUCache contains the given key
func (c *LRUCache) Has(key *externalapi.DomainHash) bool {
	return c.cache.Contains(*key)
}

// Remove removes the entry for the the given key. Does nothing if
// the entry does not exist
func (c *LRUCache) Remove(key *externalapi.DomainHash) {
	c.cache.Remove(*key)
}

// Len returns the number of entries in the cache
func (c *LRUCache) Len() int {
	return c.cache.Len()
}

// Clear clears the cache
func (c *LRUCache) Clear() {
	c.cache.Purge()
}
