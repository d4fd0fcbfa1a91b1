// File: hints/hints.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Advisory cache prefetch for ring slot access. Hints have no observable
// effect on correctness; on architectures without an implementation every
// function compiles to nothing.

package hints

import "unsafe"

// ReadAhead hints that slots[idx] will be read soon.
func ReadAhead[T any](slots []T, idx uint64) {
	if idx < uint64(len(slots)) {
		prefetchRead(unsafe.Pointer(&slots[idx]))
	}
}

// WriteAhead hints that slots[idx] will be written soon.
func WriteAhead[T any](slots []T, idx uint64) {
	if idx < uint64(len(slots)) {
		prefetchWrite(unsafe.Pointer(&slots[idx]))
	}
}
