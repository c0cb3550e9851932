package mcts

import (
	"errors"
	"testing"
	"time"
)

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBadConfigurations(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no budget", func(c *Config) { c.TimeLimit = 0; c.NumSimulations = 0 }},
		{"negative time", func(c *Config) { c.TimeLimit = -time.Second; c.NumSimulations = 0 }},
		{"zero threads", func(c *Config) { c.NumThreads = 0 }},
		{"too many threads", func(c *Config) { c.NumThreads = 65 }},
		{"non-positive c_puct", func(c *Config) { c.CPuct = 0 }},
		{"non-positive pw constant", func(c *Config) { c.PWConstant = 0 }},
		{"negative pw threshold", func(c *Config) { c.PWThreshold = -1 }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrBadConfiguration) {
			t.Errorf("%s: err = %v, want ErrBadConfiguration", tc.name, err)
		}
	}
}

func TestPWLimitGrowsWithVisits(t *testing.T) {
	cfg := DefaultConfig()
	const total = 20

	if got := cfg.pwLimit(0, total); got != 1 {
		t.Errorf("pwLimit(0) = %d, want 1 below the threshold", got)
	}
	if got := cfg.pwLimit(int64(cfg.PWThreshold)-1, total); got != 1 {
		t.Errorf("pwLimit(threshold-1) = %d, want 1", got)
	}
	// At 100 visits, 1.5*sqrt(100) = 15.
	if got := cfg.pwLimit(100, total); got != 15 {
		t.Errorf("pwLimit(100) = %d, want 15", got)
	}
	// The candidate count always caps the limit.
	if got := cfg.pwLimit(10000, total); got != total {
		t.Errorf("pwLimit(10000) = %d, want %d", got, total)
	}
}

func TestPWLimitDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProgressiveWidening = false
	if got := cfg.pwLimit(0, 17); got != 17 {
		t.Errorf("pwLimit with PW off = %d, want the full candidate count", got)
	}
}
