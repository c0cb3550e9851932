package mcts

import (
	"sync"

	"github.com/ofcsolver/ofcsolver/actiongen"
	"github.com/ofcsolver/ofcsolver/gamestate"
)

// nodePool recycles Node allocations across searches. A search allocates
// one node per expansion and frees the whole tree on return, which is
// exactly the churn profile sync.Pool absorbs well.
var nodePool = sync.Pool{
	New: func() interface{} {
		return &Node{children: make(map[string]*Node, 8)}
	},
}

// newNode acquires a node from the pool and initializes it for state.
func newNode(parent *Node, action *actiongen.Action, state *gamestate.GameState) *Node {
	n := nodePool.Get().(*Node)
	n.parent = parent
	n.action = action
	n.state = state
	n.terminal = state.Arrangement.IsComplete()
	return n
}

// releaseTree returns n and every descendant to the pool. Callers must
// have copied any statistics they still need; the engine calls this
// once per search, after result extraction, when all workers have
// joined and the tree is quiescent.
func releaseTree(n *Node) {
	if n == nil {
		return
	}
	for _, child := range n.children {
		releaseTree(child)
	}
	n.reset()
	nodePool.Put(n)
}

// reset clears a node for reuse.
func (n *Node) reset() {
	n.parent = nil
	n.action = nil
	n.state = nil
	for k := range n.children {
		delete(n.children, k)
	}
	n.actions = nil
	n.visits.Store(0)
	n.virtualVisits.Store(0)
	n.reward.bits.Store(0)
	n.virtualReward.bits.Store(0)
	n.terminal = false
}
