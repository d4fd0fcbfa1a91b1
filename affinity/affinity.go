// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Platform-neutral API for CPU affinity. Platform-specific
// implementations live in separate files guarded by build tags.
//
// The ring core never calls this package: pinning is a collaborator for
// benchmarks and latency-sensitive callers that want a producer or
// consumer goroutine resident on one core.

package affinity

import "runtime"

// Pin locks the calling goroutine to its OS thread and binds that
// thread to the given logical CPU. On unsupported platforms it returns
// an error and leaves the thread unlocked.
func Pin(cpuID int) error {
	runtime.LockOSThread()
	if err := setAffinityPlatform(cpuID); err != nil {
		runtime.UnlockOSThread()
		return err
	}
	return nil
}
