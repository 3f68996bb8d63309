// Package speech holds the announcement queue and text preparation shared by
// every speaker backend
package speech

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL bounds how long an undelivered announcement stays relevant.
// A street name spoken two minutes late is noise, not guidance
const DefaultTTL = 2 * time.Minute

// Item is one pending utterance. Immutable after enqueue; the id exists for
// log correlation only
type Item struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Priority   int       `json:"priority"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// QueueOptions configures a Queue
type QueueOptions struct {
	// TTL is the per-item lifetime; zero means DefaultTTL
	TTL time.Duration

	// Now overrides the clock, for tests
	Now func() time.Time
}

// Queue is a stable priority queue of pending utterances. Higher numeric
// priority dequeues first; equal priorities keep strict insertion order.
// Expired items are dropped lazily at read time, never by a background sweep.
// Safe for concurrent use
type Queue struct {
	mu    sync.Mutex
	items []*Item
	ttl   time.Duration
	now   func() time.Time
}

// NewQueue returns an empty queue with the default item lifetime
func NewQueue() *Queue { return NewQueueWithOptions(QueueOptions{}) }

// NewQueueWithOptions returns an empty queue with a custom lifetime or clock
func NewQueueWithOptions(opts QueueOptions) *Queue {
	q := &Queue{ttl: opts.TTL, now: opts.Now}
	if q.ttl <= 0 {
		q.ttl = DefaultTTL
	}
	if q.now == nil {
		q.now = time.Now
	}
	return q
}

// Enqueue appends an utterance. Empty text is dropped silently so callers
// never have to guard announcement formatting
func (q *Queue) Enqueue(text string, priority int) {
	if text == "" {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	now := q.now()
	q.items = append(q.items, &Item{
		ID:         uuid.NewString(),
		Text:       text,
		Priority:   priority,
		EnqueuedAt: now,
		ExpiresAt:  now.Add(q.ttl),
	})
}

// Dequeue removes and returns the highest-priority live item, preferring the
// earliest enqueued among equals. Returns nil when nothing live remains
func (q *Queue) Dequeue() *Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.dropExpiredLocked()

	best := -1
	for i, it := range q.items {
		if best < 0 || it.Priority > q.items[best].Priority {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	it := q.items[best]
	q.items = append(q.items[:best], q.items[best+1:]...)
	return it
}

// Size counts live items only
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.dropExpiredLocked()
	return len(q.items)
}

// IsEmpty reports whether no live item remains
func (q *Queue) IsEmpty() bool { return q.Size() == 0 }

// Clear drops everything, live or not
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}

// Snapshot returns the live items in stable dequeue order without removing
// them, for inspection endpoints
func (q *Queue) Snapshot() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.dropExpiredLocked()

	out := make([]Item, len(q.items))
	for i, it := range q.items {
		out[i] = *it
	}
	// insertion order is the tiebreak, and items is already in seq order
	sortStable(out)
	return out
}

func sortStable(items []Item) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].Priority > items[j-1].Priority; j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

func (q *Queue) dropExpiredLocked() {
	now := q.now()
	live := q.items[:0]
	for _, it := range q.items {
		if it.ExpiresAt.After(now) {
			live = append(live, it)
		}
	}
	q.items = live
}
