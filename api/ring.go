// File: api/ring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// SPSC ring buffer contract. One goroutine produces, one goroutine
// consumes; every relaxed/acquire/release choice in the implementations
// depends on that discipline, so violating it is undefined behavior,
// not a checked error.

package api

// Region is a contiguous run of ring slots handed out by Reserve or Peek.
// A Region never wraps past the physical end of the ring: a caller that
// needs more than Len() slots issues another Reserve/Peek after the
// matching Commit/Advance.
type Region[T any] struct {
	// Slots aliases ring storage zero-copy. It is valid only until the
	// matching Commit (producer side) or Advance (consumer side).
	Slots []T
}

// Len returns the number of slots in the run.
func (r Region[T]) Len() int { return len(r.Slots) }

// RingProducer is the producer half of the protocol.
// All methods must be called from a single producer goroutine.
type RingProducer[T any] interface {
	// Reserve requests space for n >= 1 contiguous slots to write.
	// ok == false means insufficient free space: a normal backpressure
	// signal, not an error. The returned run may be shorter than n when
	// it would otherwise cross the physical end of the ring.
	Reserve(n int) (region Region[T], ok bool)

	// Commit publishes n previously reserved, now written slots.
	// n must be exactly the number of slots actually written and at most
	// the length returned by Reserve; over-committing corrupts the ring.
	Commit(n int)
}

// RingConsumer is the consumer half of the protocol.
// All methods must be called from a single consumer goroutine.
type RingConsumer[T any] interface {
	// Peek returns the currently readable contiguous run without
	// consuming it. An empty region means no data is known yet.
	Peek() Region[T]

	// Advance acknowledges n elements from a prior Peek as processed.
	Advance(n int)

	// ConsumeBatch processes the whole currently available span,
	// including across the wrap point, invoking handler once per element
	// in order. The read cursor is published once, after the full span.
	// Returns the number of elements processed.
	ConsumeBatch(handler func(*T)) int

	// ConsumeUpTo is ConsumeBatch bounded by max elements.
	ConsumeUpTo(max int, handler func(*T)) int
}

// RingState covers occupancy and lifecycle, callable from either side.
//
// Close only raises a flag; committed data remains readable. A consumer
// terminates on IsClosed() && IsEmpty() evaluated after a poll found no
// data. That sequence is racy by design: the producer may close between
// the two checks, so the protocol is poll-for-data, then check
// closed-and-empty, then poll again. A consumer that sees both true after
// finding nothing has definitively seen every element, because Commit
// publishes with release ordering before Close does.
type RingState interface {
	Len() int
	Cap() int
	IsEmpty() bool
	IsFull() bool
	IsClosed() bool
	Close()
}

// Ring is the full SPSC contract implemented by both storage variants.
type Ring[T any] interface {
	RingProducer[T]
	RingConsumer[T]
	RingState
}
