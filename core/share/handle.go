// File: core/share/handle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thin atomically reference-counted handle with intrusive layout: the
// count and the payload live in one allocation, so dereferencing is a
// single pointer chase with no separate control block. Built for sharing
// one ring between producer and consumer goroutines with deterministic
// release of the payload when the last holder drops it.

package share

import "sync/atomic"

// block is the single allocation behind every clone of a handle:
// refcount first, then the payload, nothing else.
type block[T any] struct {
	refs    atomic.Int64
	release func(*T)
	value   T
}

// Handle is a shared reference to one payload allocation.
//
// A Handle is a plain value holding one pointer. Copying it does NOT
// adjust the reference count; use Clone for an independently owned
// reference, and Drop exactly once per owned reference. The only
// concurrent mutation the handle supports is the count itself; the
// payload's own synchronization discipline is the payload's business.
type Handle[T any] struct {
	b *block[T]
}

// New allocates a {count, payload} block with the count at 1, runs init
// on the in-place payload, and returns the first handle. release, if
// non-nil, runs exactly once when the count drops from 1 to 0.
func New[T any](init func(*T) error, release func(*T)) (Handle[T], error) {
	b := &block[T]{release: release}
	b.refs.Store(1)
	if init != nil {
		if err := init(&b.value); err != nil {
			return Handle[T]{}, err
		}
	}
	return Handle[T]{b: b}, nil
}

// Clone increments the count and returns a new owned handle. The caller
// already holds a valid reference, so no other thread can be mid-release;
// no stronger ordering than the atomic add is needed. A count past the
// signed range aborts: that is an overflow guard, not a recoverable
// condition.
func (h Handle[T]) Clone() Handle[T] {
	if h.b.refs.Add(1) < 0 {
		panic("share: reference count overflow")
	}
	return h
}

// Drop releases one owned reference. If other holders remain it returns
// immediately; the holder that observes the count reach zero runs the
// release hook on the payload. Go's atomics give the decrement release
// semantics and the zero-observing thread acquire semantics, so every
// other holder's prior writes are visible before release runs.
func (h Handle[T]) Drop() {
	if h.b.refs.Add(-1) != 0 {
		return
	}
	if h.b.release != nil {
		h.b.release(&h.b.value)
	}
}

// Get returns the payload: one indirection, no control block hop.
// The pointer stays valid only while the caller owns a reference.
func (h Handle[T]) Get() *T { return &h.b.value }

// Valid reports whether the handle references a payload.
func (h Handle[T]) Valid() bool { return h.b != nil }

// Refs returns the current count. Inherently racy; for tests and
// introspection only.
func (h Handle[T]) Refs() int64 { return h.b.refs.Load() }
