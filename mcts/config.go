package mcts

import (
	"fmt"
	"math"
	"time"
)

// Config holds the tunable parameters of one Solve call. The
// zero value is not valid; start from DefaultConfig and override what
// you need.
type Config struct {
	// TimeLimit bounds wall-clock search time. Ignored once
	// NumSimulations is set to a positive value.
	TimeLimit time.Duration
	// NumSimulations, if positive, overrides TimeLimit as the stop
	// condition.
	NumSimulations int
	// CPuct is the UCB exploration constant.
	CPuct float64
	// NumThreads is the number of symmetric parallel workers.
	NumThreads int
	// MaxRolloutDepth caps the number of street advances a rollout
	// performs before it is force-evaluated in place.
	MaxRolloutDepth int
	// VirtualLoss is the reward penalty applied to a node while a
	// worker's descent path still covers it; the visit-count
	// side of virtual loss is tracked as a separate integer counter
	// alongside the real one, not scaled by this amount.
	VirtualLoss float64
	// ProgressiveWidening enables bounding a node's branching factor by
	// a slowly growing function of its visit count.
	ProgressiveWidening bool
	// PWConstant scales the progressive-widening child-count formula.
	PWConstant float64
	// PWThreshold is the visit count below which a node is restricted
	// to a single child, deferring widening until the node has been
	// sampled enough to trust the wider candidate list.
	PWThreshold int
	// ProgressCallback, if set, is invoked at a bounded rate (roughly
	// every 100 simulations) with the number of simulations completed
	// so far. It must not block or panic; it is called from whichever
	// worker goroutine happens to cross the reporting boundary.
	ProgressCallback func(simulationsRun int)
}

// DefaultConfig returns the default parameter table.
func DefaultConfig() Config {
	return Config{
		TimeLimit:           30 * time.Second,
		NumSimulations:      0,
		CPuct:               1.4,
		NumThreads:          1,
		MaxRolloutDepth:     20,
		VirtualLoss:         1.0,
		ProgressiveWidening: true,
		PWConstant:          1.5,
		PWThreshold:         10,
	}
}

// Validate checks cfg for bad_configuration conditions,
// wrapping the first violation found.
func (cfg Config) Validate() error {
	if cfg.NumSimulations <= 0 && cfg.TimeLimit <= 0 {
		return fmt.Errorf("%w: time_limit or num_simulations must be positive", ErrBadConfiguration)
	}
	if cfg.NumThreads < 1 || cfg.NumThreads > 64 {
		return fmt.Errorf("%w: num_threads %d must be in [1,64]", ErrBadConfiguration, cfg.NumThreads)
	}
	if cfg.CPuct <= 0 {
		return fmt.Errorf("%w: c_puct must be positive", ErrBadConfiguration)
	}
	if cfg.ProgressiveWidening && cfg.PWConstant <= 0 {
		return fmt.Errorf("%w: pw_constant must be positive", ErrBadConfiguration)
	}
	if cfg.ProgressiveWidening && cfg.PWThreshold < 0 {
		return fmt.Errorf("%w: pw_threshold must be non-negative", ErrBadConfiguration)
	}
	return nil
}

// pwLimit returns the number of actions a node with N real visits is
// allowed to have materialized as children: a single child below
// PWThreshold visits, then max(1, PWConstant*sqrt(N)) above it.
// total is the number of candidate
// actions the generator produced, which always caps the result.
func (cfg Config) pwLimit(visits int64, total int) int {
	if !cfg.ProgressiveWidening {
		return total
	}
	limit := 1
	if int(visits) >= cfg.PWThreshold {
		limit = pwFormula(cfg.PWConstant, visits)
	}
	if limit > total {
		limit = total
	}
	return limit
}

// pwFormula implements max(1, pwConstant*sqrt(N)).
func pwFormula(pwConstant float64, visits int64) int {
	v := pwConstant * math.Sqrt(float64(visits))
	if v < 1 {
		v = 1
	}
	return int(v)
}
