// Package pool provides a bounded free-list allocator for recycling run-time
// objects such as spell instances and messages.
//
// A Pool is an explicit service: callers create one and pass it to whoever
// allocates from it. Allocate never fails. When the free list is empty a new
// value is constructed on demand, and Release keeps at most Capacity values
// for reuse.
//
// Pools are not synchronised. They are meant to be used from the single
// goroutine that drives the simulation tick.
package pool

// Stats reports pool activity since creation.
type Stats struct {
	// Constructed counts values built because the free list was empty.
	Constructed int
	// Reused counts allocations served from the free list.
	Reused int
	// Dropped counts releases discarded because the pool was full.
	Dropped int
	// Free is the current length of the free list.
	Free int
}

// Pool recycles values of type T.
type Pool[T any] struct {
	capacity  int
	construct func() T
	reset     func(T)
	free      []T
	stats     Stats
}

// New creates a pool that retains at most capacity released values. construct
// builds a fresh value; reset, if non-nil, is applied to every value on
// release before it is stored.
func New[T any](capacity int, construct func() T, reset func(T)) *Pool[T] {
	if construct == nil {
		panic("pool: construct function must not be nil")
	}
	if capacity < 0 {
		capacity = 0
	}
	return &Pool[T]{
		capacity:  capacity,
		construct: construct,
		reset:     reset,
		free:      make([]T, 0, capacity),
	}
}

// Prewarm fills the free list up to capacity.
func (p *Pool[T]) Prewarm() {
	for len(p.free) < p.capacity {
		p.free = append(p.free, p.construct())
		p.stats.Constructed++
	}
}

// Allocate returns a usable value, reusing a released one when possible.
func (p *Pool[T]) Allocate() T {
	if n := len(p.free); n > 0 {
		v := p.free[n-1]
		var zero T
		p.free[n-1] = zero
		p.free = p.free[:n-1]
		p.stats.Reused++
		return v
	}
	p.stats.Constructed++
	return p.construct()
}

// Release resets v and returns it to the free list. It reports false when the
// pool is already at capacity and v was dropped.
func (p *Pool[T]) Release(v T) bool {
	if p.reset != nil {
		p.reset(v)
	}
	if len(p.free) >= p.capacity {
		p.stats.Dropped++
		return false
	}
	p.free = append(p.free, v)
	return true
}

// Capacity returns the maximum number of values kept for reuse.
func (p *Pool[T]) Capacity() int {
	return p.capacity
}

// Stats returns a snapshot of the pool counters.
func (p *Pool[T]) Stats() Stats {
	s := p.stats
	s.Free = len(p.free)
	return s
}
