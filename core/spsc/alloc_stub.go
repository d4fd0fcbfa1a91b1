// File: core/spsc/alloc_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fallback slot storage for platforms without a mapping implementation:
// a plain Go slice, released by the garbage collector.

//go:build !linux

package spsc

func mapSlots[T any](capacity uint64) ([]T, func(), error) {
	return make([]T, capacity), nil, nil
}
