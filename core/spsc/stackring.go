// File: core/spsc/stackring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// SPSC ring variant with the slot array embedded in the struct. Slot
// addressing is a base+offset the compiler folds, with no pointer load
// between the ring and its storage. Capacity is fixed at compile time;
// the zero value is ready to use, so a StackRing can live on the stack
// or in static storage with no constructor.

package spsc

import (
	"sync/atomic"

	"github.com/momentics/fanring/api"
)

const (
	// StackRingBits fixes the inline ring capacity exponent.
	StackRingBits = 8

	// StackRingCap is the inline ring slot count.
	StackRingCap = 1 << StackRingBits

	stackRingMask = StackRingCap - 1
)

// Ensure compile-time interface compliance.
var _ api.Ring[any] = (*StackRing[any])(nil)

// StackRing is the inline-storage SPSC ring variant. The protocol and
// the cursor layout rules are identical to Ring; only the storage
// strategy differs.
//
// Prefetch hints are deliberately absent here: with inline sequential
// storage the hardware prefetcher wins on current cores.
type StackRing[T any] struct {
	// Producer-owned hot group.
	tail       atomic.Uint64
	cachedHead uint64
	_          pad

	// Consumer-owned hot group.
	head       atomic.Uint64
	cachedTail uint64
	_          pad

	// Cold state.
	closed atomic.Bool
	_      pad

	// Inline storage, reached without a pointer dereference.
	slots [StackRingCap]T
}

// Reserve requests space for n contiguous slots to write.
// Semantics match Ring.Reserve.
func (r *StackRing[T]) Reserve(n int) (api.Region[T], bool) {
	if n < 1 {
		return api.Region[T]{}, false
	}
	tail := r.tail.Load()

	free := uint64(StackRingCap) - (tail - r.cachedHead)
	if free < uint64(n) {
		r.cachedHead = r.head.Load()
		free = uint64(StackRingCap) - (tail - r.cachedHead)
		if free < uint64(n) {
			return api.Region[T]{}, false
		}
	}

	idx := tail & stackRingMask
	run := uint64(n)
	if left := uint64(StackRingCap) - idx; run > left {
		run = left
	}
	return api.Region[T]{Slots: r.slots[idx : idx+run]}, true
}

// Commit publishes n written slots.
func (r *StackRing[T]) Commit(n int) {
	r.tail.Store(r.tail.Load() + uint64(n))
}

// Peek returns the readable contiguous run without consuming it.
func (r *StackRing[T]) Peek() api.Region[T] {
	head := r.head.Load()

	if head == r.cachedTail {
		r.cachedTail = r.tail.Load()
		if head == r.cachedTail {
			return api.Region[T]{}
		}
	}

	idx := head & stackRingMask
	run := r.cachedTail - head
	if left := uint64(StackRingCap) - idx; run > left {
		run = left
	}
	return api.Region[T]{Slots: r.slots[idx : idx+run]}
}

// Advance acknowledges n peeked elements as processed.
func (r *StackRing[T]) Advance(n int) {
	r.head.Store(r.head.Load() + uint64(n))
}

// ConsumeBatch processes the entire available span with a single read
// cursor publish at the end.
func (r *StackRing[T]) ConsumeBatch(handler func(*T)) int {
	head := r.head.Load()
	tail := r.tail.Load()

	avail := tail - head
	if avail == 0 {
		return 0
	}

	for pos := head; pos != tail; pos++ {
		handler(&r.slots[pos&stackRingMask])
	}

	r.head.Store(tail)
	r.cachedTail = tail
	return int(avail)
}

// ConsumeUpTo is ConsumeBatch bounded by max elements.
func (r *StackRing[T]) ConsumeUpTo(max int, handler func(*T)) int {
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
		handler(&r.slots[pos&stackRingMask])
	}

	r.head.Store(head + avail)
	r.cachedTail = tail
	return int(avail)
}

// Len returns the number of filled-but-unread slots.
func (r *StackRing[T]) Len() int {
	return int(r.tail.Load() - r.head.Load())
}

// Cap returns the fixed slot capacity.
func (r *StackRing[T]) Cap() int { return StackRingCap }

// IsEmpty reports whether no unread data is present.
func (r *StackRing[T]) IsEmpty() bool {
	return r.tail.Load() == r.head.Load()
}

// IsFull reports whether every slot is filled and unread.
func (r *StackRing[T]) IsFull() bool {
	return r.tail.Load()-r.head.Load() >= StackRingCap
}

// IsClosed reports whether the producer signalled completion.
func (r *StackRing[T]) IsClosed() bool {
	return r.closed.Load()
}

// Close signals that the producer is done.
func (r *StackRing[T]) Close() {
	r.closed.Store(true)
}
