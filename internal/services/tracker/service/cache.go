// Package service contains the tracker workflows
package service

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"guia/internal/core/address"
)

const (
	defaultMemoSize = 512
	defaultMemoTTL  = 30 * time.Minute
)

// Cache holds one session's previous/current address pair plus a bounded memo
// of raw payload fingerprints to normalized results. Reverse geocoders return
// byte-identical payloads for nearby coordinates, so the memo saves most
// normalization work on a slow drive
type Cache struct {
	mu       sync.Mutex
	previous *address.Address
	current  *address.Address

	norm *address.Normalizer
	memo *expirable.LRU[string, address.Address]
}

// CacheOptions bounds the memo table
type CacheOptions struct {
	MemoSize int
	MemoTTL  time.Duration
}

// NewCache returns an empty cache over the given normalizer
func NewCache(norm *address.Normalizer, opts CacheOptions) *Cache {
	if norm == nil {
		norm = address.New()
	}
	size := opts.MemoSize
	if size <= 0 {
		size = defaultMemoSize
	}
	ttl := opts.MemoTTL
	if ttl <= 0 {
		ttl = defaultMemoTTL
	}
	return &Cache{
		norm: norm,
		memo: expirable.NewLRU[string, address.Address](size, nil, ttl),
	}
}

// Push normalizes raw, demotes current to previous, and installs the result
// as current. Returns the new pair; previous is nil for the first push
func (c *Cache) Push(raw map[string]any) (prev, cur *address.Address) {
	key := address.Fingerprint(raw)

	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.memo.Get(key)
	if !ok {
		a = c.norm.Normalize(raw)
		c.memo.Add(key, a)
	}

	c.previous = c.current
	c.current = &a
	return c.previous, c.current
}

// Pair returns the current previous/current snapshot
func (c *Cache) Pair() (prev, cur *address.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.previous, c.current
}

// Clear resets both slots and the memo table
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.previous, c.current = nil, nil
	c.memo.Purge()
}
