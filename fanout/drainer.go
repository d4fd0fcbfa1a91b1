// File: fanout/drainer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Consumer-side drain loop over every ring of a channel. Round-robins
// ConsumeBatch in index order, backs off adaptively when idle, and
// terminates once the channel is closed and fully drained. The core
// never blocks; the drainer is the busy-poll strategy layered on top.
//
// A handler may reject an element by returning false. Rejected elements
// are parked on an unbounded FIFO and replayed before any new ring data,
// so per-ring order is preserved while ring slots are still freed
// eagerly for the producer.

package fanout

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"
	"golang.org/x/sys/cpu"
)

// drainCounters keeps the two hot counters on separate cache lines.
type drainCounters struct {
	processed atomic.Uint64
	_         cpu.CacheLinePad
	parked    atomic.Uint64
	_         cpu.CacheLinePad
}

// Drainer owns the consumer side of a channel: one handle clone per
// ring, a deferred-replay queue, and the poll/backoff loop. All methods
// except Stop must be called from the single consumer goroutine.
type Drainer[T any] struct {
	ch      *Channel[T]
	handler func(T) bool
	rings   []RingHandle[T]

	deferred *queue.Queue

	stopCh   chan struct{}
	running  atomic.Bool
	stopping atomic.Bool
	stopped  atomic.Bool

	backoffNs atomic.Int64
	metrics   bool
	counters  drainCounters
}

// NewDrainer clones a handle for every ring of ch and binds handler as
// the per-element callback. Handles are dropped when Run returns.
func NewDrainer[T any](ch *Channel[T], handler func(T) bool) *Drainer[T] {
	d := &Drainer[T]{
		ch:       ch,
		handler:  handler,
		deferred: queue.New(),
		stopCh:   make(chan struct{}),
		metrics:  ch.metrics,
	}
	d.backoffNs.Store(1)
	for i := 0; ; i++ {
		h, err := ch.GetRing(i)
		if err != nil {
			break
		}
		d.rings = append(d.rings, h)
	}
	return d
}

// Run polls until Stop is called or the channel is closed and every
// ring plus the deferred queue is drained. The termination test runs
// only after a poll round moved nothing, per the closed-and-empty
// protocol on api.RingState.
func (d *Drainer[T]) Run() {
	if !d.running.CompareAndSwap(false, true) {
		return
	}
	defer func() {
		for i := range d.rings {
			d.rings[i].Drop()
		}
		d.rings = nil
		d.stopped.Store(true)
	}()

	for {
		select {
		case <-d.stopCh:
			return
		default:
		}

		moved := d.DrainOnce()
		if moved == 0 {
			if d.deferred.Length() == 0 && d.ch.IsClosed() && d.idle() {
				return
			}
			d.backoff()
		} else {
			d.backoffNs.Store(1)
		}
	}
}

// DrainOnce performs one poll round: replay deferred elements first,
// then, only if none remain parked, one ConsumeBatch per ring. Returns
// the number of elements accepted by the handler this round.
func (d *Drainer[T]) DrainOnce() int {
	replayed := d.replay()
	if d.deferred.Length() > 0 {
		// Parked elements must go first; draining rings now would
		// reorder them past newer data.
		return replayed
	}

	parking := false
	accepted := replayed
	for i := range d.rings {
		d.rings[i].Get().ConsumeBatch(func(pt *T) {
			v := *pt
			if parking || !d.handler(v) {
				parking = true
				d.deferred.Add(v)
				if d.metrics {
					d.counters.parked.Add(1)
				}
				return
			}
			accepted++
			if d.metrics {
				d.counters.processed.Add(1)
			}
		})
	}
	return accepted
}

// replay feeds parked elements back to the handler in FIFO order,
// stopping at the first rejection.
func (d *Drainer[T]) replay() int {
	n := 0
	for d.deferred.Length() > 0 {
		v := d.deferred.Peek().(T)
		if !d.handler(v) {
			break
		}
		d.deferred.Remove()
		n++
		if d.metrics {
			d.counters.processed.Add(1)
		}
	}
	return n
}

// Stop requests termination and waits for Run to return.
func (d *Drainer[T]) Stop() {
	if !d.stopping.CompareAndSwap(false, true) {
		return
	}
	close(d.stopCh)
	for d.running.Load() && !d.stopped.Load() {
		time.Sleep(time.Microsecond)
	}
}

// Stats exposes drain counters when metrics are enabled.
func (d *Drainer[T]) Stats() map[string]any {
	if !d.metrics {
		return nil
	}
	return map[string]any{
		"processed": d.counters.processed.Load(),
		"parked":    d.counters.parked.Load(),
		"deferred":  d.deferred.Length(),
	}
}

func (d *Drainer[T]) idle() bool {
	for i := range d.rings {
		if !d.rings[i].Get().IsEmpty() {
			return false
		}
	}
	return true
}

// backoff ramps from spinning to yielding while no data arrives, in the
// 1ns..1ms doubling ladder.
func (d *Drainer[T]) backoff() {
	ns := d.backoffNs.Load()
	if ns < 1000 {
		time.Sleep(time.Microsecond)
	} else {
		runtime.Gosched()
	}
	next := ns * 2
	if next > 1_000_000 {
		next = 1_000_000
	}
	d.backoffNs.Store(next)
}
