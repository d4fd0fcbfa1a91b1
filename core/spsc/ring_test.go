// File: core/spsc/ring_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package spsc

import (
	"errors"
	"fmt"
	"runtime"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/momentics/fanring/api"
)

// TestRing_ReserveCommitPeekAdvance tests the basic producer/consumer cycle.
func TestRing_ReserveCommitPeekAdvance(t *testing.T) {
	r := NewRing[uint32](6)

	region, ok := r.Reserve(1)
	if !ok {
		t.Fatalf("Reserve(1) failed on empty ring")
	}
	if region.Len() != 1 {
		t.Fatalf("expected run of 1, got %d", region.Len())
	}
	region.Slots[0] = 42
	r.Commit(1)

	got := r.Peek()
	if got.Len() != 1 {
		t.Fatalf("expected peek run of 1, got %d", got.Len())
	}
	if got.Slots[0] != 42 {
		t.Errorf("expected 42, got %d", got.Slots[0])
	}
	r.Advance(1)

	if !r.IsEmpty() {
		t.Errorf("expected empty ring after advance")
	}
}

// TestRing_ConcreteScenario walks the capacity-4 fill/backpressure/free
// sequence: four single-slot writes fill the ring, the fifth reserve
// reports no space, and advancing one slot makes space again. The freed
// slot still holds its original value until the next write lands there.
func TestRing_ConcreteScenario(t *testing.T) {
	r := NewRing[uint64](2)

	for i := uint64(0); i < 4; i++ {
		region, ok := r.Reserve(1)
		if !ok {
			t.Fatalf("Reserve %d failed before ring was full", i)
		}
		region.Slots[0] = 100 + i
		r.Commit(1)
	}
	if !r.IsFull() {
		t.Fatalf("expected full ring, len=%d", r.Len())
	}

	if _, ok := r.Reserve(1); ok {
		t.Fatalf("expected no-space signal on full ring")
	}

	peeked := r.Peek()
	if peeked.Len() == 0 || peeked.Slots[0] != 100 {
		t.Fatalf("expected oldest element 100, got %+v", peeked.Slots)
	}
	r.Advance(1)

	region, ok := r.Reserve(1)
	if !ok {
		t.Fatalf("Reserve failed after freeing one slot")
	}
	// tail wrapped to physical slot 0; the slot still carries the value
	// written there before.
	if region.Slots[0] != 100 {
		t.Errorf("expected freed slot to hold original 100, got %d", region.Slots[0])
	}
}

// TestRing_ContiguousTruncation verifies the reserve run stops at the
// physical end of the buffer instead of wrapping.
func TestRing_ContiguousTruncation(t *testing.T) {
	r := NewRing[int](3) // capacity 8

	// Move both cursors to 6 so the next run has only 2 physical slots.
	region, ok := r.Reserve(6)
	if !ok || region.Len() != 6 {
		t.Fatalf("Reserve(6): ok=%v len=%d", ok, region.Len())
	}
	r.Commit(6)
	if n := r.ConsumeBatch(func(*int) {}); n != 6 {
		t.Fatalf("expected 6 consumed, got %d", n)
	}

	region, ok = r.Reserve(3)
	if !ok {
		t.Fatalf("Reserve(3) failed with 8 free slots")
	}
	if region.Len() != 2 {
		t.Errorf("expected contiguous run of 2 at index 6, got %d", region.Len())
	}
}

// TestRing_Wraparound routes capacity+5 elements through a capacity-4
// ring one at a time and checks every value survives the wrap intact.
func TestRing_Wraparound(t *testing.T) {
	r := NewRing[uint64](2)
	const total = 4 + 5

	for i := uint64(0); i < total; i++ {
		region, ok := r.Reserve(1)
		if !ok {
			t.Fatalf("Reserve failed at element %d", i)
		}
		region.Slots[0] = i
		r.Commit(1)

		peeked := r.Peek()
		if peeked.Len() != 1 {
			t.Fatalf("expected one readable element at %d, got %d", i, peeked.Len())
		}
		if peeked.Slots[0] != i {
			t.Errorf("element %d read back as %d", i, peeked.Slots[0])
		}
		r.Advance(1)
	}
}

// TestRing_ConsumeBatchAcrossWrap fills a span that crosses the physical
// end and checks ConsumeBatch walks it in order with one pass.
func TestRing_ConsumeBatchAcrossWrap(t *testing.T) {
	r := NewRing[int](2)

	// Shift cursors to 2 so a 4-element span wraps at index 4.
	reg, _ := r.Reserve(2)
	reg.Slots[0], reg.Slots[1] = -1, -1
	r.Commit(2)
	r.ConsumeBatch(func(*int) {})

	want := []int{10, 11, 12, 13}
	for _, v := range want {
		region, ok := r.Reserve(1)
		if !ok {
			t.Fatalf("Reserve failed for %d", v)
		}
		region.Slots[0] = v
		r.Commit(1)
	}

	var got []int
	n := r.ConsumeBatch(func(pv *int) { got = append(got, *pv) })
	if n != len(want) {
		t.Fatalf("expected %d consumed, got %d", len(want), n)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %d, got %d", i, want[i], got[i])
		}
	}
	if !r.IsEmpty() {
		t.Errorf("expected empty ring after batch consume")
	}
}

// TestRing_ConsumeUpTo bounds a batch consume below the available span.
func TestRing_ConsumeUpTo(t *testing.T) {
	r := NewRing[int](3)

	region, _ := r.Reserve(5)
	for i := range region.Slots {
		region.Slots[i] = i
	}
	r.Commit(5)

	var got []int
	if n := r.ConsumeUpTo(3, func(pv *int) { got = append(got, *pv) }); n != 3 {
		t.Fatalf("expected 3 consumed, got %d", n)
	}
	if len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Fatalf("unexpected elements: %v", got)
	}
	if r.Len() != 2 {
		t.Errorf("expected 2 remaining, got %d", r.Len())
	}

	if n := r.ConsumeUpTo(10, func(*int) {}); n != 2 {
		t.Errorf("expected remaining 2 consumed, got %d", n)
	}
	if n := r.ConsumeUpTo(0, func(*int) {}); n != 0 {
		t.Errorf("expected 0 for max<=0, got %d", n)
	}
}

// TestRing_ReserveBounds covers degenerate reserve sizes.
func TestRing_ReserveBounds(t *testing.T) {
	r := NewRing[int](2)

	if _, ok := r.Reserve(0); ok {
		t.Errorf("Reserve(0) must fail")
	}
	if _, ok := r.Reserve(5); ok {
		t.Errorf("Reserve beyond capacity must fail")
	}
	if region, ok := r.Reserve(4); !ok || region.Len() != 4 {
		t.Errorf("Reserve(capacity) on empty ring must return full run")
	}
}

// TestRing_CloseDrainTermination commits 100 elements, closes, and
// checks the polling consumer sees exactly 100 before closed-and-empty.
func TestRing_CloseDrainTermination(t *testing.T) {
	r := NewRing[uint64](4)
	const total = 100

	go func() {
		for i := uint64(0); i < total; i++ {
			for {
				region, ok := r.Reserve(1)
				if ok {
					region.Slots[0] = i
					r.Commit(1)
					break
				}
				runtime.Gosched()
			}
		}
		r.Close()
	}()

	var next uint64
	for {
		n := r.ConsumeBatch(func(pv *uint64) {
			if *pv != next {
				t.Errorf("expected %d, got %d", next, *pv)
			}
			next++
		})
		if n == 0 {
			if r.IsClosed() && r.IsEmpty() {
				break
			}
			runtime.Gosched()
		}
	}

	if next != total {
		t.Errorf("expected %d elements before termination, got %d", total, next)
	}
}

// TestRing_ConcurrentOrdering runs a producer and consumer in parallel
// and verifies no loss, no duplication, no reordering.
func TestRing_ConcurrentOrdering(t *testing.T) {
	r := NewRing[uint64](10)
	const total = 200000

	var g errgroup.Group
	g.Go(func() error {
		for i := uint64(0); i < total; i++ {
			for {
				region, ok := r.Reserve(1)
				if ok {
					region.Slots[0] = i
					r.Commit(1)
					break
				}
				runtime.Gosched()
			}
		}
		r.Close()
		return nil
	})
	g.Go(func() error {
		var next uint64
		for {
			region := r.Peek()
			if region.Len() == 0 {
				if r.IsClosed() && r.IsEmpty() {
					break
				}
				runtime.Gosched()
				continue
			}
			for _, v := range region.Slots {
				if v != next {
					return fmt.Errorf("expected %d, got %d", next, v)
				}
				next++
			}
			r.Advance(region.Len())
		}
		if next != total {
			return fmt.Errorf("consumed %d of %d", next, total)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

// TestMappedRing exercises the page-mapped storage variant end to end.
func TestMappedRing(t *testing.T) {
	r, err := NewMappedRing[uint64](4)
	if err != nil {
		t.Fatalf("NewMappedRing: %v", err)
	}
	defer r.Release()

	for i := uint64(0); i < 50; i++ {
		region, ok := r.Reserve(1)
		if !ok {
			t.Fatalf("Reserve failed at %d", i)
		}
		region.Slots[0] = i * 3
		r.Commit(1)

		peeked := r.Peek()
		if peeked.Slots[0] != i*3 {
			t.Fatalf("element %d read back as %d", i*3, peeked.Slots[0])
		}
		r.Advance(1)
	}
}

// TestMappedRing_InvalidBits checks the capacity guard.
func TestMappedRing_InvalidBits(t *testing.T) {
	if _, err := NewMappedRing[uint64](MaxRingBits + 1); !errors.Is(err, api.ErrInvalidCapacity) {
		t.Errorf("expected ErrInvalidCapacity, got %v", err)
	}
}

func BenchmarkRing_ReserveCommit(b *testing.B) {
	r := NewRing[uint64](12)
	go func() {
		for {
			if r.ConsumeBatch(func(*uint64) {}) == 0 {
				if r.IsClosed() && r.IsEmpty() {
					return
				}
				runtime.Gosched()
			}
		}
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for {
			region, ok := r.Reserve(1)
			if ok {
				region.Slots[0] = uint64(i)
				r.Commit(1)
				break
			}
			runtime.Gosched()
		}
	}
	b.StopTimer()
	r.Close()
}
