package actiongen

import (
	"fmt"

	"github.com/ofcsolver/ofcsolver/arrangement"
	"github.com/ofcsolver/ofcsolver/gamestate"
)

// QuickInitialAction is the cheap, non-scored rollout policy for the
// 5-card initial street: sort the hand descending by
// rank and distribute it front, front, middle, middle, back. It is
// the same shape as balancedBaselineTemplates' 2-2-1 split but with
// front favored first, since a rollout cares about speed, not search
// quality - no clone-and-score pass runs over it.
func QuickInitialAction(state *gamestate.GameState) (Action, error) {
	hand := byDescRank(state.CurrentHand)
	if len(hand) != 5 {
		return Action{}, fmt.Errorf("actiongen: quick initial rollout wants 5 cards, got %d", len(hand))
	}
	rowSeq := [5]arrangement.Row{
		arrangement.Front, arrangement.Front,
		arrangement.Middle, arrangement.Middle,
		arrangement.Back,
	}
	a := newAssigner(openSlots(state))
	placements := make([]gamestate.Placement, 0, 5)
	for i, c := range hand {
		s, ok := a.take(rowSeq[i])
		if !ok {
			return Action{}, fmt.Errorf("actiongen: no open slot for rollout card %s", c)
		}
		placements = append(placements, gamestate.Placement{Card: c, Row: s.Row, Index: s.Index})
	}
	return Action{Placements: placements}, nil
}

// QuickRegularAction is the cheap rollout policy for every street after
// Initial: keep the two highest-ranked of the 3 dealt
// cards, discard the lowest, and place the keepers at the first open
// slots preferring back, then middle, then front.
func QuickRegularAction(state *gamestate.GameState) (Action, error) {
	hand := byDescRank(state.CurrentHand)
	if len(hand) != 3 {
		return Action{}, fmt.Errorf("actiongen: quick regular rollout wants 3 cards, got %d", len(hand))
	}
	keep, discard := hand[:2], hand[2]
	a := newAssigner(openSlots(state))
	placements := make([]gamestate.Placement, 0, 2)
	for _, c := range keep {
		s, ok := a.take(arrangement.Back, arrangement.Middle, arrangement.Front)
		if !ok {
			return Action{}, fmt.Errorf("actiongen: no open slot for rollout card %s", c)
		}
		placements = append(placements, gamestate.Placement{Card: c, Row: s.Row, Index: s.Index})
	}
	return Action{Placements: placements, Discard: &discard}, nil
}
