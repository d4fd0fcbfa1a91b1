// File: api/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Channel construction parameters and defaults.

package api

const (
	// DefaultRingBits sizes each ring at 1<<16 = 65536 slots.
	DefaultRingBits = 16

	// DefaultMaxProducers is the number of rings a channel pre-allocates.
	DefaultMaxProducers = 16
)

// Config controls per-ring capacity and fan-out width for a channel.
type Config struct {
	// RingBits is the capacity exponent: each ring holds 1<<RingBits slots.
	RingBits uint8

	// MaxProducers is the number of independent rings allocated eagerly
	// at channel construction; one registration claims one ring.
	MaxProducers int

	// EnableMetrics turns on channel and drainer counters. Metric
	// collection and reporting live outside the core.
	EnableMetrics bool
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		RingBits:     DefaultRingBits,
		MaxProducers: DefaultMaxProducers,
	}
}

// Normalize fills unset fields with defaults and returns the result.
func (c Config) Normalize() Config {
	if c.RingBits == 0 {
		c.RingBits = DefaultRingBits
	}
	if c.MaxProducers <= 0 {
		c.MaxProducers = DefaultMaxProducers
	}
	return c
}
