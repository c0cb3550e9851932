// Package actiongen produces a small, prioritized set of candidate
// actions per street, pruning the combinatorial placement space with
// poker-shaped templates (pair/trips anchors, flush and straight draws,
// balanced baselines) rather than enumerating every legal placement.
package actiongen

import (
	"fmt"
	"sort"

	"github.com/ofcsolver/ofcsolver/arrangement"
	"github.com/ofcsolver/ofcsolver/card"
	"github.com/ofcsolver/ofcsolver/gamestate"
)

// KInitial and KRegular bound the number of actions Generate returns on
// the initial street and on every street after it, respectively.
const (
	KInitial = 20
	KRegular = 15
)

// Action pairs a set of placements with an optional discard - the same
// shape gamestate.PlaceCards accepts directly.
type Action struct {
	Placements []gamestate.Placement
	Discard    *card.Card
}

// Generate returns an ordered (best first) list of candidate actions
// for state's current hand, bounded by KInitial or KRegular. It fails
// only if state has no current hand to place.
func Generate(state *gamestate.GameState) ([]Action, error) {
	if len(state.CurrentHand) == 0 {
		return nil, fmt.Errorf("actiongen: no current hand to place")
	}
	if state.Street == gamestate.Initial {
		return generateInitial(state)
	}
	return generateRegular(state)
}

// slotRef is an open (row, index) pair, matching the anonymous struct
// gamestate.GameState.ValidPlacements returns.
type slotRef struct {
	Row   arrangement.Row
	Index int
}

func openSlots(state *gamestate.GameState) []slotRef {
	raw := state.ValidPlacements()
	out := make([]slotRef, len(raw))
	for i, s := range raw {
		out[i] = slotRef{Row: s.Row, Index: s.Index}
	}
	return out
}

// Key returns a canonical string for an Action's unordered multiset of
// placements plus discard, used both for deduplication and as the
// lexicographic tiebreaker when scores tie.
func Key(a Action) string {
	sorted := append([]gamestate.Placement(nil), a.Placements...)
	sort.Slice(sorted, func(i, j int) bool {
		// Card value alone is not a total order once two jokers are in
		// play; fall through to the slot so the key stays canonical.
		if sorted[i].Card.Value() != sorted[j].Card.Value() {
			return sorted[i].Card.Value() < sorted[j].Card.Value()
		}
		if sorted[i].Row != sorted[j].Row {
			return sorted[i].Row < sorted[j].Row
		}
		return sorted[i].Index < sorted[j].Index
	})
	s := ""
	for _, p := range sorted {
		s += fmt.Sprintf("%s@%s%d,", p.Card, p.Row, p.Index)
	}
	if a.Discard != nil {
		s += "d:" + a.Discard.String()
	}
	return s
}

// byDescRank sorts cards highest rank first; the joker sorts as high as
// an ace (its Value() already places it above every standard card).
func byDescRank(cards []card.Card) []card.Card {
	sorted := append([]card.Card(nil), cards...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Value() > sorted[j].Value()
	})
	return sorted
}
