package actiongen

import (
	"sort"

	"github.com/ofcsolver/ofcsolver/arrangement"
	"github.com/ofcsolver/ofcsolver/card"
	"github.com/ofcsolver/ofcsolver/gamestate"
	"github.com/ofcsolver/ofcsolver/stateeval"
)

// discardPenaltyWeight is the action-scoring coefficient
// subtracted per unit of the discarded card's rank value, to penalize
// throwing away high cards.
const discardPenaltyWeight = 0.1

// rankValue is the discard's rank value for the penalty term: Two=2 up
// through Ace=14, the conventional poker rank value (not the zero-based
// card.Rank ordinal).
func rankValue(c card.Card) float64 {
	r, ok := c.Rank()
	if !ok {
		return 14 // joker: penalized as an ace when tried as the discard
	}
	return float64(r) + 2
}

// scoreAction is the exact action-scoring heuristic: clone state,
// apply the action, evaluate the resulting state, then for
// regular-street actions subtract the discard-rank penalty.
func scoreAction(state *gamestate.GameState, a Action) (float64, error) {
	clone := state.Copy()
	if err := clone.PlaceCards(a.Placements, a.Discard); err != nil {
		return 0, err
	}
	v, err := stateeval.Evaluate(clone)
	if err != nil {
		return 0, err
	}
	if a.Discard != nil {
		v -= discardPenaltyWeight * rankValue(*a.Discard)
	}
	return v, nil
}

// quickEvaluatePlacement is the cheap heuristic used internally by the
// regular-street template to rank 2-card placements before the exact
// scoreAction pass runs over the union: it evaluates the resulting
// arrangement alone, skipping the full GameState clone (deck, history,
// PRNG) that scoreAction pays for.
func quickEvaluatePlacement(base *arrangement.Arrangement, p1, p2 gamestate.Placement) (float64, error) {
	arr := base.Clone()
	if err := arr.Place(p1.Card, p1.Row, p1.Index); err != nil {
		return 0, err
	}
	if err := arr.Place(p2.Card, p2.Row, p2.Index); err != nil {
		return 0, err
	}
	return stateeval.Evaluate(&gamestate.GameState{Arrangement: arr})
}

// sortActions orders candidates by descending score, breaking ties by
// the lexicographic action key.
func sortActions(state *gamestate.GameState, candidates []Action) ([]Action, error) {
	type scored struct {
		action Action
		score  float64
		key    string
	}
	list := make([]scored, 0, len(candidates))
	for _, a := range candidates {
		s, err := scoreAction(state, a)
		if err != nil {
			continue // an action that turns out illegal on this state is simply dropped
		}
		list = append(list, scored{action: a, score: s, key: Key(a)})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].score != list[j].score {
			return list[i].score > list[j].score
		}
		return list[i].key < list[j].key
	})
	out := make([]Action, len(list))
	for i, s := range list {
		out[i] = s.action
	}
	return out, nil
}
