// File: hints/hints_amd64.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package hints

import "unsafe"

// Implemented in hints_amd64.s.
//
// Both hints issue PREFETCHT0. The exclusive-ownership variant (PREFETCHW)
// is left to the hardware prefetcher: sequential producer writes keep the
// line in M/E state on current cores anyway.

//go:noescape
func prefetchRead(p unsafe.Pointer)

//go:noescape
func prefetchWrite(p unsafe.Pointer)
