package actiongen

import (
	"github.com/ofcsolver/ofcsolver/arrangement"
	"github.com/ofcsolver/ofcsolver/card"
	"github.com/ofcsolver/ofcsolver/gamestate"
)

// generateInitial builds candidates for the 5-card initial street under
// four templates, dedupes, scores with the exact action heuristic,
// and returns the top KInitial.
func generateInitial(state *gamestate.GameState) ([]Action, error) {
	hand := state.CurrentHand
	slots := openSlots(state)

	seen := make(map[string]Action)
	add := func(placements []gamestate.Placement) {
		if len(placements) != len(hand) {
			return
		}
		a := Action{Placements: placements}
		seen[Key(a)] = a
	}

	for _, p := range pairTripsAnchorTemplates(hand, slots) {
		add(p)
	}
	for _, p := range flushAnchorTemplates(hand, slots) {
		add(p)
	}
	for _, p := range straightAnchorTemplates(hand, slots) {
		add(p)
	}
	for _, p := range balancedBaselineTemplates(hand, slots) {
		add(p)
	}

	candidates := make([]Action, 0, len(seen))
	for _, a := range seen {
		candidates = append(candidates, a)
	}
	ordered, err := sortActions(state, candidates)
	if err != nil {
		return nil, err
	}
	if len(ordered) > KInitial {
		ordered = ordered[:KInitial]
	}
	return ordered, nil
}

// assigner hands out open slots from a preferred row order, falling
// through to whatever is left when the preferred rows run out of room.
type assigner struct {
	byRow map[arrangement.Row][]slotRef
}

func newAssigner(slots []slotRef) *assigner {
	a := &assigner{byRow: make(map[arrangement.Row][]slotRef)}
	for _, s := range slots {
		a.byRow[s.Row] = append(a.byRow[s.Row], s)
	}
	return a
}

// take returns the next open slot from the given row preference order,
// or false if every preferred row (and every other row, as a last
// resort) is exhausted.
func (a *assigner) take(preference ...arrangement.Row) (slotRef, bool) {
	for _, r := range preference {
		if list := a.byRow[r]; len(list) > 0 {
			s := list[0]
			a.byRow[r] = list[1:]
			return s, true
		}
	}
	for _, r := range []arrangement.Row{arrangement.Back, arrangement.Middle, arrangement.Front} {
		if list := a.byRow[r]; len(list) > 0 {
			s := list[0]
			a.byRow[r] = list[1:]
			return s, true
		}
	}
	return slotRef{}, false
}

// assignCards places cards into slots using the assigner, each card
// preferring rowPref; returns nil if any card can't find a slot.
func assignCards(cards []card.Card, rowPref []arrangement.Row, a *assigner) []gamestate.Placement {
	out := make([]gamestate.Placement, 0, len(cards))
	for _, c := range cards {
		s, ok := a.take(rowPref...)
		if !ok {
			return nil
		}
		out = append(out, gamestate.Placement{Card: c, Row: s.Row, Index: s.Index})
	}
	return out
}

var rankCounts5 = func(hand []card.Card) map[card.Rank][]card.Card {
	groups := make(map[card.Rank][]card.Card)
	for _, c := range hand {
		if c.IsJoker() {
			continue
		}
		r, _ := c.Rank()
		groups[r] = append(groups[r], c)
	}
	return groups
}

// pairTripsAnchorTemplates emits, for each natural pair (or trips) in
// hand, a variant anchoring it in front (when rank qualifies) and a
// variant anchoring it in the safer middle row; the remaining cards
// fill the back row highest-to-lowest, spilling to middle then front.
func pairTripsAnchorTemplates(hand []card.Card, slots []slotRef) [][]gamestate.Placement {
	var out [][]gamestate.Placement
	groups := rankCounts5(hand)

	for rank, cards := range groups {
		if len(cards) < 2 {
			continue
		}
		rest := remainderAfter(hand, cards)
		rest = byDescRank(rest)

		if len(cards) >= 3 || rank >= card.Six {
			a := newAssigner(slots)
			anchored := assignCards(cards, []arrangement.Row{arrangement.Front}, a)
			rem := assignCards(rest, []arrangement.Row{arrangement.Back, arrangement.Middle, arrangement.Front}, a)
			if anchored != nil && rem != nil {
				out = append(out, append(anchored, rem...))
			}
		}
		{
			a := newAssigner(slots)
			anchored := assignCards(cards, []arrangement.Row{arrangement.Middle}, a)
			rem := assignCards(rest, []arrangement.Row{arrangement.Back, arrangement.Middle, arrangement.Front}, a)
			if anchored != nil && rem != nil {
				out = append(out, append(anchored, rem...))
			}
		}
	}
	return out
}

// remainderAfter returns the hand cards not in used. Jokers are matched
// by count, not set membership, so a hand holding two copies keeps the
// second when only one was anchored.
func remainderAfter(hand, used []card.Card) []card.Card {
	usedSet := card.NewCardSet()
	usedJokers := 0
	for _, c := range used {
		if c.IsJoker() {
			usedJokers++
		} else {
			usedSet = usedSet.Add(c)
		}
	}
	out := make([]card.Card, 0, len(hand)-len(used))
	for _, c := range hand {
		if c.IsJoker() {
			if usedJokers > 0 {
				usedJokers--
				continue
			}
			out = append(out, c)
		} else if !usedSet.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// flushAnchorTemplates places every suit's same-suit run of >=3 cards
// (jokers count as wild for any suit) contiguously in the back row,
// spilling to middle if back has no room, and fills whatever is left
// by descending rank.
func flushAnchorTemplates(hand []card.Card, slots []slotRef) [][]gamestate.Placement {
	var out [][]gamestate.Placement
	jokers := jokersIn(hand)

	bySuit := make(map[card.Suit][]card.Card)
	for _, c := range hand {
		if c.IsJoker() {
			continue
		}
		s, _ := c.Suit()
		bySuit[s] = append(bySuit[s], c)
	}
	for _, suited := range bySuit {
		if len(suited)+len(jokers) < 3 {
			continue
		}
		anchor := append(append([]card.Card(nil), suited...), jokers...)
		rest := remainderAfter(hand, anchor)
		rest = byDescRank(rest)

		a := newAssigner(slots)
		anchored := assignCards(anchor, []arrangement.Row{arrangement.Back, arrangement.Middle}, a)
		rem := assignCards(rest, []arrangement.Row{arrangement.Back, arrangement.Middle, arrangement.Front}, a)
		if anchored != nil && rem != nil {
			out = append(out, append(anchored, rem...))
		}
	}
	return out
}

func jokersIn(hand []card.Card) []card.Card {
	var out []card.Card
	for _, c := range hand {
		if c.IsJoker() {
			out = append(out, c)
		}
	}
	return out
}

// straightAnchorTemplates finds the longest connected-rank run in hand
// (jokers fill at most one gap each) and anchors it middle or back.
func straightAnchorTemplates(hand []card.Card, slots []slotRef) [][]gamestate.Placement {
	chain := longestChain(hand)
	if len(chain) < 3 {
		return nil
	}
	rest := remainderAfter(hand, chain)
	rest = byDescRank(rest)

	var out [][]gamestate.Placement
	for _, row := range []arrangement.Row{arrangement.Back, arrangement.Middle} {
		a := newAssigner(slots)
		anchored := assignCards(chain, []arrangement.Row{row}, a)
		rem := assignCards(rest, []arrangement.Row{arrangement.Back, arrangement.Middle, arrangement.Front}, a)
		if anchored != nil && rem != nil {
			out = append(out, append(anchored, rem...))
		}
	}
	return out
}

// longestChain returns the longest run of cards in hand whose ranks are
// connected, allowing a one-joker-filled gap per joker available.
func longestChain(hand []card.Card) []card.Card {
	jokers := jokersIn(hand)
	var present [card.NumRanks]bool
	byRank := make(map[card.Rank]card.Card)
	for _, c := range hand {
		if c.IsJoker() {
			continue
		}
		r, _ := c.Rank()
		present[r] = true
		byRank[r] = c
	}

	bestLen, bestLow, bestGaps := 0, -1, 0
	for low := 0; low < card.NumRanks; low++ {
		gaps := 0
		length := 0
		for r := low; r < card.NumRanks; r++ {
			if present[r] {
				length++
			} else {
				if gaps >= len(jokers) {
					break
				}
				gaps++
				length++
			}
		}
		if length > bestLen {
			bestLen = length
			bestLow = low
			bestGaps = gaps
		}
	}
	if bestLow < 0 || bestLen < 3 {
		return nil
	}

	out := make([]card.Card, 0, bestLen)
	jokerIdx := 0
	for r := bestLow; r < bestLow+bestLen && r < card.NumRanks; r++ {
		if present[card.Rank(r)] {
			out = append(out, byRank[card.Rank(r)])
		} else if jokerIdx < bestGaps && jokerIdx < len(jokers) {
			out = append(out, jokers[jokerIdx])
			jokerIdx++
		}
	}
	return out
}

// balancedBaselineTemplates always contributes three rank-sorted
// distributions (2-2-1, 2-1-2, 1-2-2 across back/middle/front) as a
// safety net when no anchor template fits the hand well.
func balancedBaselineTemplates(hand []card.Card, slots []slotRef) [][]gamestate.Placement {
	sorted := byDescRank(hand)
	splits := [][3]int{{2, 2, 1}, {2, 1, 2}, {1, 2, 2}}
	var out [][]gamestate.Placement
	for _, split := range splits {
		a := newAssigner(slots)
		idx := 0
		var placements []gamestate.Placement
		ok := true
		for i, row := range []arrangement.Row{arrangement.Back, arrangement.Middle, arrangement.Front} {
			n := split[i]
			group := sorted[idx : idx+n]
			idx += n
			p := assignCards(group, []arrangement.Row{row}, a)
			if p == nil {
				ok = false
				break
			}
			placements = append(placements, p...)
		}
		if ok {
			out = append(out, placements)
		}
	}
	return out
}
