package actiongen

import (
	"sort"

	"github.com/ofcsolver/ofcsolver/card"
	"github.com/ofcsolver/ofcsolver/gamestate"
)

// regularTopPerDiscard bounds how many 2-card placements survive the
// cheap quickEvaluatePlacement pass for each of the 3 discard choices,
// so that the union across all three stays within KRegular.
const regularTopPerDiscard = 5

// generateRegular builds candidates for a post-initial street: every
// discard choice is explored (not just "keep the two highest"), each
// paired with every ordered 2-card placement over the open slots,
// pruned per-discard by quickEvaluatePlacement before the exact
// action-scoring pass orders the final union.
func generateRegular(state *gamestate.GameState) ([]Action, error) {
	hand := state.CurrentHand
	slots := openSlots(state)

	var union []Action
	for i := range hand {
		discard := hand[i]
		keep := make([]card.Card, 0, len(hand)-1)
		for j, c := range hand {
			if j != i {
				keep = append(keep, c)
			}
		}
		top, err := topPlacementsForDiscard(state, keep, slots, discard)
		if err != nil {
			return nil, err
		}
		union = append(union, top...)
	}

	ordered, err := sortActions(state, union)
	if err != nil {
		return nil, err
	}
	if len(ordered) > KRegular {
		ordered = ordered[:KRegular]
	}
	return ordered, nil
}

type scoredPlacement struct {
	p1, p2 gamestate.Placement
	score  float64
}

// topPlacementsForDiscard enumerates every ordered 2-card placement of
// keep over slots, scores each with quickEvaluatePlacement, and returns
// the best regularTopPerDiscard as full Actions carrying discard.
func topPlacementsForDiscard(state *gamestate.GameState, keep []card.Card, slots []slotRef, discard card.Card) ([]Action, error) {
	if len(keep) != 2 {
		return nil, nil
	}
	c1, c2 := keep[0], keep[1]

	var scored []scoredPlacement
	for i := 0; i < len(slots); i++ {
		for j := 0; j < len(slots); j++ {
			if i == j {
				continue
			}
			p1 := gamestate.Placement{Card: c1, Row: slots[i].Row, Index: slots[i].Index}
			p2 := gamestate.Placement{Card: c2, Row: slots[j].Row, Index: slots[j].Index}
			s, err := quickEvaluatePlacement(state.Arrangement, p1, p2)
			if err != nil {
				continue
			}
			scored = append(scored, scoredPlacement{p1: p1, p2: p2, score: s})
		}
	}
	scored = topN(scored, regularTopPerDiscard)

	d := discard
	out := make([]Action, 0, regularTopPerDiscard)
	for _, sp := range scored {
		out = append(out, Action{
			Placements: []gamestate.Placement{sp.p1, sp.p2},
			Discard:    &d,
		})
	}
	return out, nil
}

// topN sorts scored descending by score and truncates to its N
// highest-scoring entries.
func topN(scored []scoredPlacement, n int) []scoredPlacement {
	sort.Slice(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}
