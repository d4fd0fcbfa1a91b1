// File: core/spsc/alloc_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux slot storage: anonymous private mapping, released with munmap.
// Page alignment comfortably covers the 128-byte alignment the cursor
// layout assumes for the buffer start.

//go:build linux

package spsc

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// mapSlots reserves zero-initialized storage for capacity slots of T
// outside the Go heap. The returned release func unmaps the pages.
// T must not contain Go pointers: the mapping is never scanned by the
// garbage collector. Zero-sized T falls back to the heap.
func mapSlots[T any](capacity uint64) ([]T, func(), error) {
	var zero T
	elem := unsafe.Sizeof(zero)
	if elem == 0 {
		return make([]T, capacity), nil, nil
	}

	size := int(elem * uintptr(capacity))
	page := os.Getpagesize()
	size = (size + page - 1) &^ (page - 1)

	mem, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, nil, err
	}

	slots := unsafe.Slice((*T)(unsafe.Pointer(&mem[0])), capacity)
	release := func() { _ = unix.Munmap(mem) }
	return slots, release, nil
}
