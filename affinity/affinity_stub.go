// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stub for platforms without an affinity implementation.

//go:build !linux

package affinity

import "errors"

// setAffinityPlatform reports unavailability on this platform.
func setAffinityPlatform(cpuID int) error {
	return errors.New("affinity: not supported on this platform")
}
