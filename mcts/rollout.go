package mcts

import (
	"errors"
	"math/rand"

	"github.com/ofcsolver/ofcsolver/actiongen"
	"github.com/ofcsolver/ofcsolver/gamestate"
	"github.com/ofcsolver/ofcsolver/stateeval"
)

// evaluateLeaf produces the backed-up value for a freshly expanded (or
// already-terminal) leaf: a terminal arrangement is scored directly;
// otherwise a shallow rollout plays the cheap policy forward up to
// MaxRolloutDepth street advances before falling back to the
// partial-state heuristic. The clone is reseeded from the worker's rng
// so concurrent rollouts off a shared node never touch its generator.
func (e *Engine) evaluateLeaf(n *Node, rng *rand.Rand) (float64, error) {
	clone := n.state.CopyReseeded(rng.Int63())
	for depth := 0; depth < e.cfg.MaxRolloutDepth && !clone.Arrangement.IsComplete(); depth++ {
		if len(clone.CurrentHand) == 0 {
			if err := clone.DealStreet(); err != nil {
				if errors.Is(err, gamestate.ErrInsufficientCards) {
					break
				}
				return 0, err
			}
		}
		action, err := quickRolloutAction(clone)
		if err != nil {
			return 0, err
		}
		if err := clone.PlaceCards(action.Placements, action.Discard); err != nil {
			return 0, err
		}
	}
	return stateeval.Evaluate(clone)
}

func quickRolloutAction(state *gamestate.GameState) (actiongen.Action, error) {
	if state.Street == gamestate.Initial {
		return actiongen.QuickInitialAction(state)
	}
	return actiongen.QuickRegularAction(state)
}
