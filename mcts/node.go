// Package mcts implements the parallel Monte-Carlo Tree Search engine:
// the node/tree topology with UCB selection and progressive widening
// and the selection/expansion/evaluation/backpropagation driver,
// sequential or virtual-loss parallel.
package mcts

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ofcsolver/ofcsolver/actiongen"
	"github.com/ofcsolver/ofcsolver/gamestate"
)

// floatAccum is a CAS-based atomic float64 accumulator - sync/atomic
// has no native float add, so reward sums (touched by every backed-up
// simulation, possibly from several worker goroutines at once) go
// through a compare-and-swap retry loop instead of a mutex.
type floatAccum struct {
	bits atomic.Uint64
}

func (f *floatAccum) add(delta float64) {
	for {
		old := f.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if f.bits.CompareAndSwap(old, next) {
			return
		}
	}
}

func (f *floatAccum) load() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Node is one position in the search tree: a game state reached by one
// action from its parent, visit/reward statistics, and whatever
// children have been materialized so far. The root has no parent and
// no action. Parent pointers are weak - walked upward only during
// backpropagation, never used for ownership - so the engine releases
// the tree by walking child references downward from the root
// (releaseTree), returning every node to the pool.
type Node struct {
	parent *Node
	action *actiongen.Action
	state  *gamestate.GameState

	mu       sync.RWMutex
	children map[string]*Node
	actions  []actiongen.Action // full candidate list, generated lazily

	visits        atomic.Int64
	virtualVisits atomic.Int64
	reward        floatAccum
	virtualReward floatAccum

	terminal bool
}

// IsTerminal reports whether this node's state is a completed
// arrangement - memoized at construction since completeness of an
// arrangement never reverts.
func (n *Node) IsTerminal() bool {
	return n.terminal
}

// effectiveVisits is the value used for UCB and progressive widening:
// real visits plus whatever virtual loss is currently in flight from
// concurrent workers still descending through this node.
func (n *Node) effectiveVisits() int64 {
	return n.visits.Load() + n.virtualVisits.Load()
}

// meanReward is the node's average backed-up value, net of any virtual
// loss currently charged against it.
func (n *Node) meanReward() float64 {
	v := n.effectiveVisits()
	if v == 0 {
		return 0
	}
	return (n.reward.load() - n.virtualReward.load()) / float64(v)
}

// ucb returns n's UCB1 score from its parent's point of view; an
// unvisited node scores +Inf so it is always preferred once offered as
// a child.
func (n *Node) ucb(parentVisits int64, cPuct float64) float64 {
	v := n.effectiveVisits()
	if v == 0 {
		return math.Inf(1)
	}
	exploit := n.meanReward()
	explore := cPuct * math.Sqrt(math.Log(float64(parentVisits))/float64(v))
	return exploit + explore
}

// selectChild returns the materialized child with the highest UCB
// score, or nil if n has no children yet. Exact score ties (including
// two unvisited children at +Inf) break on the action key so selection
// never depends on map iteration order.
func (n *Node) selectChild(cPuct float64) *Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if len(n.children) == 0 {
		return nil
	}
	parentVisits := n.effectiveVisits()
	if parentVisits == 0 {
		parentVisits = 1
	}
	var best *Node
	var bestScore float64
	var bestKey string
	for key, c := range n.children {
		s := c.ucb(parentVisits, cPuct)
		if best == nil || s > bestScore || (s == bestScore && key < bestKey) {
			best, bestScore, bestKey = c, s, key
		}
	}
	return best
}

// childCount reports how many children are currently materialized.
func (n *Node) childCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.children)
}

// addVirtualLoss charges amount against n's reward and marks one more
// in-flight visit, deterring other workers from re-selecting the same
// path.
func (n *Node) addVirtualLoss(amount float64) {
	n.virtualVisits.Add(1)
	n.virtualReward.add(amount)
}

// removeVirtualLoss undoes addVirtualLoss once the real backpropagation
// update for the same traversal is about to be applied.
func (n *Node) removeVirtualLoss(amount float64) {
	n.virtualVisits.Add(-1)
	n.virtualReward.add(-amount)
}

// update applies the real backpropagation step for one simulation: one
// more visit and its backed-up reward. It does not recurse - the
// engine walks the descent path itself.
func (n *Node) update(reward float64) {
	n.visits.Add(1)
	n.reward.add(reward)
}

// actionKey mirrors actiongen's canonical action key so a child's map
// key and its action's identity never drift apart.
func actionKey(a actiongen.Action) string {
	return actiongen.Key(a)
}

// ActionStat is one row of a node's action statistics: an action, how
// many times its child was visited, and its mean backed-up reward.
type ActionStat struct {
	Action     actiongen.Action
	Visits     int64
	MeanReward float64
}

// ActionStatistics returns n's children's (action, visits, mean reward)
// triples, sorted by visits descending.
func (n *Node) ActionStatistics() []ActionStat {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]ActionStat, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, ActionStat{
			Action:     *c.action,
			Visits:     c.visits.Load(),
			MeanReward: c.meanReward(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Visits != out[j].Visits {
			return out[i].Visits > out[j].Visits
		}
		if out[i].MeanReward != out[j].MeanReward {
			return out[i].MeanReward > out[j].MeanReward
		}
		return actionKey(out[i].Action) < actionKey(out[j].Action)
	})
	return out
}

// BestAction returns the action whose child has the most visits,
// ties broken by mean reward then lexicographically by action key.
// It returns false if n has no children at all.
func (n *Node) BestAction() (actiongen.Action, bool) {
	stats := n.ActionStatistics()
	if len(stats) == 0 {
		return actiongen.Action{}, false
	}
	return stats[0].Action, true
}

// Visits returns n's real (non-virtual) visit count.
func (n *Node) Visits() int64 {
	return n.visits.Load()
}

// MeanReward returns n's mean backed-up reward, net of any virtual loss
// still in flight; once the search is quiescent this is the real mean.
func (n *Node) MeanReward() float64 {
	return n.meanReward()
}
