// File: fanout/producer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-producer capability: a shared handle on exactly one ring plus the
// ring's index, exposing only the producer half of the protocol. This is
// the whole surface a producer goroutine touches, so consumer-side calls
// cannot leak into producer code.

package fanout

import "github.com/momentics/fanring/api"

// Producer writes to the single ring claimed for it at registration.
// All methods must be called from one goroutine.
type Producer[T any] struct {
	ring RingHandle[T]
	id   int
}

// Reserve forwards to the bound ring's Reserve.
func (p *Producer[T]) Reserve(n int) (api.Region[T], bool) {
	return p.ring.Get().Reserve(n)
}

// Commit forwards to the bound ring's Commit.
func (p *Producer[T]) Commit(n int) {
	p.ring.Get().Commit(n)
}

// Send reserves one slot, writes v, and commits it. Returns false on
// backpressure.
func (p *Producer[T]) Send(v T) bool {
	region, ok := p.ring.Get().Reserve(1)
	if !ok {
		return false
	}
	region.Slots[0] = v
	p.ring.Get().Commit(1)
	return true
}

// ID returns the ring index this producer is bound to.
func (p *Producer[T]) ID() int { return p.id }

// Close signals end-of-stream on the bound ring and drops the
// producer's reference to it. The producer must not be used afterwards.
func (p *Producer[T]) Close() {
	p.ring.Get().Close()
	p.ring.Drop()
}
