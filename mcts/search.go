package mcts

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ofcsolver/ofcsolver/actiongen"
	"github.com/ofcsolver/ofcsolver/gamestate"
)

// progressInterval bounds how often ProgressCallback fires: once per
// this many completed simulations.
const progressInterval = 100

// workerSeedStride separates per-worker PRNG streams derived from the
// engine seed (splitmix64's increment, chosen for its dispersion).
const workerSeedStride = 0x9E3779B97F4A7C15

// Result carries everything a caller can read off a finished search.
// The tree itself is released before Search returns, so the statistics
// are copied out, not referenced.
type Result struct {
	// BestAction is the root action with the highest visit count.
	BestAction actiongen.Action
	// ExpectedScore is BestAction's mean backed-up reward.
	ExpectedScore float64
	// RootVisits is the root node's final visit count.
	RootVisits int64
	// SimulationsRun counts completed selection/expansion/evaluation/
	// backpropagation cycles across all workers.
	SimulationsRun int64
	// Elapsed is the wall-clock duration of the search.
	Elapsed time.Duration
	// TopActions is every root action's statistics, most visited first.
	TopActions []ActionStat
}

// Engine owns one search's configuration and stop flag. An Engine is
// single-use per Search call but may be retained for its Stop handle
// while the search runs on another goroutine.
type Engine struct {
	cfg  Config
	stop atomic.Bool
}

// NewEngine validates cfg and returns an engine ready to search.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Stop requests cancellation. Workers observe the flag at simulation
// boundaries: in-flight simulations finish, statistics are sealed, and
// Search returns whatever the tree holds (or ErrSearchCancelled if the
// flag was raised before any simulation completed).
func (e *Engine) Stop() {
	e.stop.Store(true)
}

// Search grows a tree from state and returns the best root action with
// its statistics. state itself is never mutated; the search works on a
// reseeded copy so two searches over the same state and seed see the
// same deck order.
func (e *Engine) Search(state *gamestate.GameState) (*Result, error) {
	if state.Arrangement.IsComplete() {
		return nil, fmt.Errorf("%w: arrangement already complete", ErrStateTerminal)
	}
	start := time.Now()

	rootState := state.CopyReseeded(state.Seed)
	if len(rootState.CurrentHand) == 0 {
		if err := rootState.DealStreet(); err != nil {
			return nil, err
		}
	}
	root := newNode(nil, nil, rootState)

	ctx := context.Background()
	var cancel context.CancelFunc
	var target int64
	if e.cfg.NumSimulations > 0 {
		target = int64(e.cfg.NumSimulations)
		ctx, cancel = context.WithCancel(ctx)
	} else {
		ctx, cancel = context.WithTimeout(ctx, e.cfg.TimeLimit)
	}
	defer cancel()

	var started, completed atomic.Int64
	grp, ctx := errgroup.WithContext(ctx)
	for w := 0; w < e.cfg.NumThreads; w++ {
		seed := int64(uint64(rootState.Seed) + uint64(w+1)*workerSeedStride)
		grp.Go(func() error {
			rng := rand.New(rand.NewSource(seed))
			for {
				if ctx.Err() != nil || e.stop.Load() {
					return nil
				}
				if target > 0 && started.Add(1) > target {
					return nil
				}
				if err := e.runSimulation(root, rng); err != nil {
					return err
				}
				n := completed.Add(1)
				if cb := e.cfg.ProgressCallback; cb != nil && n%progressInterval == 0 {
					cb(int(n))
				}
			}
		})
	}
	if err := grp.Wait(); err != nil {
		releaseTree(root)
		return nil, err
	}

	done := completed.Load()
	if done == 0 {
		releaseTree(root)
		return nil, fmt.Errorf("%w: stopped before any simulation completed", ErrSearchCancelled)
	}

	stats := root.ActionStatistics()
	result := &Result{
		RootVisits:     root.Visits(),
		SimulationsRun: done,
		Elapsed:        time.Since(start),
		TopActions:     stats,
	}
	if len(stats) > 0 {
		result.BestAction = stats[0].Action
		result.ExpectedScore = stats[0].MeanReward
	}
	releaseTree(root)
	return result, nil
}

// runSimulation performs one selection/expansion/evaluation/
// backpropagation cycle. Virtual loss is charged to every node on the
// descent path as it is entered and removed again just before the real
// update, so concurrent workers spread out instead of piling onto the
// same line.
func (e *Engine) runSimulation(root *Node, rng *rand.Rand) error {
	path := make([]*Node, 0, 8)
	enter := func(n *Node) {
		n.addVirtualLoss(e.cfg.VirtualLoss)
		path = append(path, n)
	}
	revoke := func(err error) error {
		for _, n := range path {
			n.removeVirtualLoss(e.cfg.VirtualLoss)
		}
		return err
	}

	enter(root)
	node := root
	for !node.IsTerminal() {
		if len(node.state.CurrentHand) == 0 {
			// Dead end: the deck could not cover another deal when this
			// node was expanded. Evaluate the position as it stands.
			break
		}
		if err := node.ensureActions(); err != nil {
			return revoke(err)
		}
		total := node.totalActions()
		if total == 0 {
			break
		}
		limit := e.cfg.pwLimit(node.visits.Load(), total)
		if node.childCount() < limit {
			child, err := node.expandOne(limit)
			if err == nil {
				enter(child)
				node = child
				break
			}
			if !errors.Is(err, ErrNothingToExpand) {
				return revoke(err)
			}
			// Another worker claimed the last allowed action between our
			// count check and the expansion attempt; select instead.
		}
		next := node.selectChild(e.cfg.CPuct)
		if next == nil {
			break
		}
		enter(next)
		node = next
	}

	value, err := e.evaluateLeaf(node, rng)
	if err != nil {
		return revoke(err)
	}
	for _, n := range path {
		n.removeVirtualLoss(e.cfg.VirtualLoss)
		n.update(value)
	}
	return nil
}
