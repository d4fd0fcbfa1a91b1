// File: fanout/channel.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Multi-producer channel composed of independent SPSC rings: one ring
// per potential producer, allocated eagerly, each wrapped in a shared
// handle. Producers never contend on a ring; the consumer imposes its
// own total order by choosing the drain sequence across rings.

package fanout

import (
	"sync/atomic"

	"github.com/momentics/fanring/api"
	"github.com/momentics/fanring/core/share"
	"github.com/momentics/fanring/core/spsc"
)

// RingHandle is the shared-ownership handle a channel hands out for its
// rings. Clones held by producers or drainers keep a ring alive past the
// channel's own release.
type RingHandle[T any] = share.Handle[spsc.Ring[T]]

// Channel fans max_producers independent SPSC rings into one logical
// multi-producer endpoint.
type Channel[T any] struct {
	rings        []RingHandle[T]
	producerSeq  atomic.Uint64
	closed       atomic.Bool
	maxProducers int
	metrics      bool
}

// NewChannel eagerly allocates cfg.MaxProducers rings of 1<<cfg.RingBits
// slots each. Unset config fields take defaults.
func NewChannel[T any](cfg api.Config) (*Channel[T], error) {
	cfg = cfg.Normalize()
	if cfg.RingBits > spsc.MaxRingBits {
		return nil, api.ErrInvalidCapacity
	}

	ch := &Channel[T]{
		rings:        make([]RingHandle[T], cfg.MaxProducers),
		maxProducers: cfg.MaxProducers,
		metrics:      cfg.EnableMetrics,
	}
	for i := range ch.rings {
		h, err := share.New(
			func(r *spsc.Ring[T]) error { r.Init(cfg.RingBits); return nil },
			(*spsc.Ring[T]).Release,
		)
		if err != nil {
			return nil, err
		}
		ch.rings[i] = h
	}
	return ch, nil
}

// Register atomically claims the next unused ring and returns a producer
// bound to it. Fails with api.ErrChannelClosed after Close, and with
// api.ErrTooManyProducers once every ring is claimed. The claim counter
// is monotonic and never rolled back: attempts past the limit stay
// consumed, which keeps registration lock-free.
func (ch *Channel[T]) Register() (*Producer[T], error) {
	if ch.closed.Load() {
		return nil, api.ErrChannelClosed
	}
	id := ch.producerSeq.Add(1) - 1
	if id >= uint64(ch.maxProducers) {
		return nil, api.ErrTooManyProducers
	}
	return &Producer[T]{ring: ch.rings[id].Clone(), id: int(id)}, nil
}

// GetRing returns an owned clone of the handle for ring id, letting a
// consumer-side component enumerate and drain rings without going
// through registration. The caller must Drop the clone.
func (ch *Channel[T]) GetRing(id int) (RingHandle[T], error) {
	if id < 0 || id >= len(ch.rings) {
		return RingHandle[T]{}, api.ErrRingNotFound
	}
	return ch.rings[id].Clone(), nil
}

// ConsumeAll runs one ConsumeBatch round over every registered ring in
// index order and returns the total number of elements handled.
func (ch *Channel[T]) ConsumeAll(handler func(*T)) int {
	total := 0
	for i := 0; i < ch.ProducerCount(); i++ {
		total += ch.rings[i].Get().ConsumeBatch(handler)
	}
	return total
}

// Close marks the channel closed and closes every ring, signalling all
// consumers. Committed data stays readable; Close is idempotent.
func (ch *Channel[T]) Close() {
	if !ch.closed.CompareAndSwap(false, true) {
		return
	}
	for i := range ch.rings {
		ch.rings[i].Get().Close()
	}
}

// Release drops the channel's own reference on every ring. Handles
// cloned through Register or GetRing keep their rings alive; call this
// once producers and drainers no longer need the channel itself.
func (ch *Channel[T]) Release() {
	for i := range ch.rings {
		ch.rings[i].Drop()
	}
	ch.rings = nil
}

// IsClosed reports whether Close has run.
func (ch *Channel[T]) IsClosed() bool { return ch.closed.Load() }

// ProducerCount returns the number of successfully claimed rings.
func (ch *Channel[T]) ProducerCount() int {
	n := ch.producerSeq.Load()
	if n > uint64(ch.maxProducers) {
		n = uint64(ch.maxProducers)
	}
	return int(n)
}

// MaxProducers returns the registration limit.
func (ch *Channel[T]) MaxProducers() int { return ch.maxProducers }

// Stats exposes channel counters when metrics are enabled.
func (ch *Channel[T]) Stats() map[string]any {
	if !ch.metrics {
		return nil
	}
	pending := 0
	for i := 0; i < ch.ProducerCount(); i++ {
		pending += ch.rings[i].Get().Len()
	}
	return map[string]any{
		"max_producers": ch.maxProducers,
		"registered":    ch.ProducerCount(),
		"pending":       pending,
		"closed":        ch.closed.Load(),
	}
}
