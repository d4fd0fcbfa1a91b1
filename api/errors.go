// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions shared across the library. Capacity exhaustion on
// Reserve/Peek is deliberately not represented here: it is a normal
// backpressure signal returned as a boolean, never an error.

package api

import "errors"

var (
	// ErrTooManyProducers indicates Register was called after every ring
	// slot had been claimed. The channel stays usable for the producers
	// registered before the limit.
	ErrTooManyProducers = errors.New("fanring: too many producers")

	// ErrChannelClosed indicates registration on a closed channel.
	ErrChannelClosed = errors.New("fanring: channel is closed")

	// ErrRingNotFound indicates a ring index outside the channel.
	ErrRingNotFound = errors.New("fanring: ring not found")

	// ErrInvalidCapacity indicates a ring capacity exponent out of range.
	ErrInvalidCapacity = errors.New("fanring: invalid ring capacity")
)
