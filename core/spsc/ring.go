// File: core/spsc/ring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Lock-free single-producer/single-consumer ring buffer with externally
// allocated slot storage. The only synchronization on the hot path is the
// release store of a cursor by its owning side paired with an acquire
// load by the other side; Go's atomics stand in for both, and each side
// keeps a plain (non-atomic) cache of the opposite cursor so that a stale
// but sufficient value skips the cross-core load entirely.

package spsc

import (
	"fmt"
	"sync/atomic"

	"github.com/momentics/fanring/api"
	"github.com/momentics/fanring/hints"
)

// MaxRingBits bounds the per-ring capacity exponent.
const MaxRingBits = 32

// pad keeps independently written field groups two cache lines apart,
// covering the adjacent-line prefetcher on cores that pull pairs.
type pad [128]byte

// Ensure compile-time interface compliance.
var _ api.Ring[any] = (*Ring[any])(nil)

// Ring is the externally-allocated SPSC ring variant.
//
// Field order is load-bearing: the producer-owned cursor group and the
// consumer-owned cursor group sit on separate cache lines so that one
// side publishing its cursor never invalidates the other side's line.
// cachedHead is touched only by the producer goroutine and cachedTail
// only by the consumer goroutine; neither is shared state.
type Ring[T any] struct {
	// Producer-owned hot group.
	tail       atomic.Uint64
	cachedHead uint64
	_          pad

	// Consumer-owned hot group.
	head       atomic.Uint64
	cachedTail uint64
	_          pad

	// Cold state.
	closed   atomic.Bool
	capacity uint64
	mask     uint64
	slots    []T
	unmap    func()
}

// NewRing allocates a ring of 1<<bits slots backed by the Go heap.
func NewRing[T any](bits uint8) *Ring[T] {
	r := new(Ring[T])
	r.Init(bits)
	return r
}

// NewMappedRing allocates a ring of 1<<bits slots backed by page-mapped
// memory where the platform supports it (see alloc_linux.go). Mapped
// storage is invisible to the garbage collector, so T must not contain
// Go pointers. The mapping is released by Release.
func NewMappedRing[T any](bits uint8) (*Ring[T], error) {
	r := new(Ring[T])
	if err := r.InitMapped(bits); err != nil {
		return nil, err
	}
	return r, nil
}

// Init prepares a zero Ring in place with heap-backed storage.
// Panics on an exponent out of range; allocation failure is fatal.
func (r *Ring[T]) Init(bits uint8) {
	if bits > MaxRingBits {
		panic(fmt.Sprintf("spsc: ring bits %d out of range", bits))
	}
	capacity := uint64(1) << bits
	r.capacity = capacity
	r.mask = capacity - 1
	r.slots = make([]T, capacity)
}

// InitMapped prepares a zero Ring in place with page-mapped storage.
func (r *Ring[T]) InitMapped(bits uint8) error {
	if bits > MaxRingBits {
		return fmt.Errorf("%w: 1<<%d slots", api.ErrInvalidCapacity, bits)
	}
	capacity := uint64(1) << bits
	slots, unmap, err := mapSlots[T](capacity)
	if err != nil {
		return fmt.Errorf("spsc: map %d slots: %w", capacity, err)
	}
	r.capacity = capacity
	r.mask = capacity - 1
	r.slots = slots
	r.unmap = unmap
	return nil
}

// Release frees the slot storage. For mapped rings this unmaps the
// backing pages, so it must run only once no side will touch the ring
// again; the shared handle layer calls it on the last reference drop.
func (r *Ring[T]) Release() {
	if r.unmap != nil {
		r.unmap()
		r.unmap = nil
	}
	r.slots = nil
}

// Reserve requests space for n contiguous slots to write.
//
// Free space is computed against the producer's cached head first; only
// when the cached value is insufficient is the authoritative head
// re-read (acquire), and the check retried once. Still insufficient
// means backpressure: ok == false, retry later.
func (r *Ring[T]) Reserve(n int) (api.Region[T], bool) {
	if n < 1 {
		return api.Region[T]{}, false
	}
	tail := r.tail.Load()

	free := r.capacity - (tail - r.cachedHead)
	if free < uint64(n) {
		r.cachedHead = r.head.Load()
		free = r.capacity - (tail - r.cachedHead)
		if free < uint64(n) {
			return api.Region[T]{}, false
		}
	}

	idx := tail & r.mask
	run := uint64(n)
	if left := r.capacity - idx; run > left {
		run = left
	}

	hints.WriteAhead(r.slots, (idx+uint64(n))&r.mask)

	return api.Region[T]{Slots: r.slots[idx : idx+run]}, true
}

// Commit publishes n written slots by advancing the write cursor.
// n must not exceed the run returned by the matching Reserve.
func (r *Ring[T]) Commit(n int) {
	r.tail.Store(r.tail.Load() + uint64(n))
}

// Peek returns the readable contiguous run without consuming it.
// An empty region means no data was known after one acquire re-read of
// the write cursor.
func (r *Ring[T]) Peek() api.Region[T] {
	head := r.head.Load()

	if head == r.cachedTail {
		r.cachedTail = r.tail.Load()
		if head == r.cachedTail {
			return api.Region[T]{}
		}
	}

	idx := head & r.mask
	run := r.cachedTail - head
	if left := r.capacity - idx; run > left {
		run = left
	}

	hints.ReadAhead(r.slots, (idx+run)&r.mask)

	return api.Region[T]{Slots: r.slots[idx : idx+run]}
}

// Advance acknowledges n peeked elements as processed.
func (r *Ring[T]) Advance(n int) {
	r.head.Store(r.head.Load() + uint64(n))
}

// ConsumeBatch processes the entire available span, walking cursor by
// cursor across the wrap point, and publishes the read cursor once at
// the end. Returns the number of elements handled.
func (r *Ring[T]) ConsumeBatch(handler func(*T)) int {
	head := r.head.Load()
	tail := r.tail.Load()

	avail := tail - head
	if avail == 0 {
		return 0
	}

	for pos := head; pos != tail; pos++ {
		handler(&r.slots[pos&r.mask])
	}

	r.head.Store(tail)
	r.cachedTail = tail
	return int(avail)
}

// ConsumeUpTo is ConsumeBatch bounded by max elements.
func (r *Ring[T]) ConsumeUpTo(max int, handler func(*T)) int {
	if max <= 0 {
		return 0
	}
	head := r.head.Load()
	tail := r.tail.Load()

	avail := tail - head
	if avail == 0 {
		return 0
	}
	if avail > uint64(max) {
		avail = uint64(max)
	}

	for pos := head; pos != head+avail; pos++ {
		handler(&r.slots[pos&r.mask])
	}

	r.head.Store(head + avail)
	r.cachedTail = tail
	return int(avail)
}

// Len returns the number of filled-but-unread slots. Always in
// [0, Cap()] under the single-writer/single-reader discipline.
func (r *Ring[T]) Len() int {
	return int(r.tail.Load() - r.head.Load())
}

// Cap returns the fixed slot capacity.
func (r *Ring[T]) Cap() int { return int(r.capacity) }

// IsEmpty reports whether no unread data is present.
func (r *Ring[T]) IsEmpty() bool {
	return r.tail.Load() == r.head.Load()
}

// IsFull reports whether every slot is filled and unread.
func (r *Ring[T]) IsFull() bool {
	return r.tail.Load()-r.head.Load() >= r.capacity
}

// IsClosed reports whether the producer signalled completion.
// See api.RingState for the closed-and-empty termination protocol.
func (r *Ring[T]) IsClosed() bool {
	return r.closed.Load()
}

// Close signals that the producer is done. It does not block, drain, or
// prevent reads of already committed data.
func (r *Ring[T]) Close() {
	r.closed.Store(true)
}
