// File: api/config_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "testing"

func TestConfig_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.RingBits != DefaultRingBits {
		t.Errorf("expected RingBits %d, got %d", DefaultRingBits, cfg.RingBits)
	}
	if cfg.MaxProducers != DefaultMaxProducers {
		t.Errorf("expected MaxProducers %d, got %d", DefaultMaxProducers, cfg.MaxProducers)
	}
	if cfg.EnableMetrics {
		t.Errorf("metrics must default to off")
	}
}

func TestConfig_Normalize(t *testing.T) {
	cfg := Config{}.Normalize()
	if cfg.RingBits != DefaultRingBits || cfg.MaxProducers != DefaultMaxProducers {
		t.Errorf("Normalize did not fill defaults: %+v", cfg)
	}

	cfg = Config{RingBits: 4, MaxProducers: 2, EnableMetrics: true}.Normalize()
	if cfg.RingBits != 4 || cfg.MaxProducers != 2 || !cfg.EnableMetrics {
		t.Errorf("Normalize altered set fields: %+v", cfg)
	}
}
