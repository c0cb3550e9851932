package mcts

import (
	"errors"
	"fmt"

	"github.com/ofcsolver/ofcsolver/actiongen"
	"github.com/ofcsolver/ofcsolver/gamestate"
)

// ensureActions generates n's candidate action list on first use and
// caches it - action generation is the expensive step (it clones and
// evaluates a candidate state per action), so every later call in this
// node's lifetime reuses the same ordered list.
func (n *Node) ensureActions() error {
	n.mu.RLock()
	generated := n.actions != nil
	n.mu.RUnlock()
	if generated {
		return nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.actions != nil {
		return nil // lost the race to another worker; its result is just as good
	}
	actions, err := actiongen.Generate(n.state)
	if err != nil {
		return err
	}
	n.actions = actions
	return nil
}

// totalActions returns the size of n's cached candidate list. Call
// ensureActions first.
func (n *Node) totalActions() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.actions)
}

// expandOne consumes one untried action from within the first `limit`
// candidates (the progressive-widening slice) and materializes its
// child. It holds n's write lock for the whole clone-and-place
// sequence: gamestate.Copy reads n.state's PRNG stream, which is not
// safe for concurrent use, so two workers racing to expand the same
// node must not clone it at the same time.
func (n *Node) expandOne(limit int) (*Node, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if limit > len(n.actions) {
		limit = len(n.actions)
	}
	var chosen *actiongen.Action
	for i := range n.actions[:limit] {
		a := n.actions[i]
		if _, ok := n.children[actiongen.Key(a)]; !ok {
			chosen = &a
			break
		}
	}
	if chosen == nil {
		return nil, fmt.Errorf("%w", ErrNothingToExpand)
	}

	clone := n.state.Copy()
	if err := clone.PlaceCards(chosen.Placements, chosen.Discard); err != nil {
		return nil, err
	}
	if !clone.Arrangement.IsComplete() {
		// A deck too thin for another full deal leaves the child without
		// a hand; the driver evaluates such dead ends in place.
		if err := clone.DealStreet(); err != nil && !errors.Is(err, gamestate.ErrInsufficientCards) {
			return nil, err
		}
	}

	child := newNode(n, chosen, clone)
	n.children[actiongen.Key(*chosen)] = child
	return child, nil
}
