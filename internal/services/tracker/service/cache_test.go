package service

import (
	"testing"

	"guia/internal/core/address"
)

func TestCache_MemoHitReturnsSameValue(t *testing.T) {
	c := NewCache(address.New(), CacheOptions{})

	raw1 := rawAddr("Rua Direita", "Serro")
	// a distinct map value with byte-identical content must hit the memo
	raw2 := rawAddr("Rua Direita", "Serro")

	_, first := c.Push(raw1)
	prev, second := c.Push(raw2)

	if c.memo.Len() != 1 {
		t.Fatalf("memo entries = %d, want 1", c.memo.Len())
	}
	if !first.Street.Equal(second.Street) || !first.Municipality.Equal(second.Municipality) {
		t.Fatalf("memoized result differs: %+v vs %+v", first, second)
	}
	if prev == nil || !prev.Street.Equal(second.Street) {
		t.Fatalf("previous slot should hold the demoted identical address")
	}
}

func TestCache_DistinctPayloadsGetDistinctEntries(t *testing.T) {
	c := NewCache(address.New(), CacheOptions{})

	c.Push(rawAddr("Rua A", "Serro"))
	c.Push(rawAddr("Rua B", "Serro"))

	if c.memo.Len() != 2 {
		t.Fatalf("memo entries = %d, want 2", c.memo.Len())
	}
	prev, cur := c.Pair()
	if prev.Street.Str() != "Rua A" || cur.Street.Str() != "Rua B" {
		t.Fatalf("pair = %v / %v", prev.Street, cur.Street)
	}
}

func TestCache_SizeBoundEvicts(t *testing.T) {
	c := NewCache(address.New(), CacheOptions{MemoSize: 1})

	c.Push(rawAddr("Rua A", "Serro"))
	c.Push(rawAddr("Rua B", "Serro"))

	if c.memo.Len() != 1 {
		t.Fatalf("memo entries = %d, want 1 after eviction", c.memo.Len())
	}
}

func TestCache_ClearPurgesSlotsAndMemo(t *testing.T) {
	c := NewCache(address.New(), CacheOptions{})

	c.Push(rawAddr("Rua A", "Serro"))
	c.Clear()

	prev, cur := c.Pair()
	if prev != nil || cur != nil {
		t.Fatalf("slots survived Clear: %v / %v", prev, cur)
	}
	if c.memo.Len() != 0 {
		t.Fatalf("memo entries = %d after Clear, want 0", c.memo.Len())
	}

	// the cache keeps working after a reset
	if _, cur := c.Push(rawAddr("Rua B", "Serro")); cur.Street.Str() != "Rua B" {
		t.Fatalf("post-clear push = %v", cur.Street)
	}
}
