// File: hints/hints_generic.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// No-op prefetch for architectures without a dedicated implementation.

//go:build !amd64

package hints

import "unsafe"

func prefetchRead(p unsafe.Pointer) {}

func prefetchWrite(p unsafe.Pointer) {}
