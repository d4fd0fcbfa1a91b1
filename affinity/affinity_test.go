// File: affinity/affinity_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package affinity

import "testing"

func TestPin(t *testing.T) {
	if err := Pin(0); err != nil {
		// Restricted cpusets and non-Linux platforms legitimately refuse.
		t.Skipf("Pin unavailable here: %v", err)
	}
}
