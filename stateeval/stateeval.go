// Package stateeval provides the heuristic value function used by mcts
// leaves: terminal states are scored by expected head-to-head points
// against a generic opponent, partial states by a blend of per-row
// strength, achievable royalty potential, and a foul-risk penalty.
package stateeval

import (
	"github.com/ofcsolver/ofcsolver/arrangement"
	"github.com/ofcsolver/ofcsolver/card"
	"github.com/ofcsolver/ofcsolver/gamestate"
	"github.com/ofcsolver/ofcsolver/handeval"
)

// foulPenalty is the fixed value assigned to a completed, fouled state.
const foulPenalty = -20.0

// fantasylandBonus is added to a terminal, qualifying, non-fouled state.
const fantasylandBonus = 5.0

// Evaluate returns a heuristic value for state, approximately in
// [-25, 50], interpreted as an expected-score estimate against a
// generic opponent. A complete arrangement is scored by expected
// head-to-head points; a partial one by strength, royalty
// potential, and foul risk.
func Evaluate(state *gamestate.GameState) (float64, error) {
	if state.Arrangement.IsComplete() {
		return evaluateTerminal(state.Arrangement)
	}
	return evaluatePartial(state.Arrangement), nil
}

func evaluateTerminal(a *arrangement.Arrangement) (float64, error) {
	reason, err := a.ValidateComplete()
	if err != nil {
		return 0, err
	}
	if reason != arrangement.NoFoul {
		return foulPenalty, nil
	}

	front, middle, back, err := a.Hands()
	if err != nil {
		return 0, err
	}
	pFront := winProbability(arrangement.Front, front)
	pMiddle := winProbability(arrangement.Middle, middle)
	pBack := winProbability(arrangement.Back, back)

	expectedPoints := (2*pFront - 1) + (2*pMiddle - 1) + (2*pBack - 1)
	expectedScoop := 3 * pFront * pMiddle * pBack

	royalties, err := a.Royalties()
	if err != nil {
		return 0, err
	}
	total := expectedPoints + expectedScoop + float64(royalties)

	fantasy, err := a.QualifiesFantasyland()
	if err != nil {
		return 0, err
	}
	if fantasy {
		total += fantasylandBonus
	}
	return total, nil
}

func evaluatePartial(a *arrangement.Arrangement) float64 {
	frontStrength, frontRoyalty := rowPotential(a, arrangement.Front)
	middleStrength, middleRoyalty := rowPotential(a, arrangement.Middle)
	backStrength, backRoyalty := rowPotential(a, arrangement.Back)

	strength := frontStrength + middleStrength + backStrength
	royaltyPotential := frontRoyalty + middleRoyalty + backRoyalty

	return strength + royaltyPotential - 20*foulRisk(a)
}

// rowPotential returns (strength, royalty-potential) for row r: if the
// row is complete, both are exact (category ordinal and the real
// royalty); otherwise both are heuristic estimates from the partial
// content.
func rowPotential(a *arrangement.Arrangement, r arrangement.Row) (float64, float64) {
	if a.IsRowFull(r) {
		return completeRowPotential(a, r)
	}
	return partialStrength(r, a.Filled(r)), partialRoyaltyPotential(r, a.Filled(r))
}

func completeRowPotential(a *arrangement.Arrangement, r arrangement.Row) (float64, float64) {
	var cards []card.Card
	switch r {
	case arrangement.Front:
		cards = a.FrontCards()
	case arrangement.Middle:
		cards = a.MiddleCards()
	case arrangement.Back:
		cards = a.BackCards()
	}
	var hand handeval.Hand
	var err error
	if r == arrangement.Front {
		hand, err = handeval.EvaluateThree(cards)
	} else {
		hand, err = handeval.EvaluateFive(cards)
	}
	if err != nil {
		return 0, 0
	}
	royalty := 0.0
	switch r {
	case arrangement.Front:
		switch hand.Category {
		case handeval.Pair:
			royalty = float64(arrangement.FrontPairRoyalty(hand.Primary))
		case handeval.ThreeOfAKind:
			royalty = float64(arrangement.FrontTripsRoyalty(hand.Primary))
		}
	case arrangement.Middle:
		royalty = float64(arrangement.MiddleRoyalty(hand.Category))
	case arrangement.Back:
		royalty = float64(arrangement.BackRoyalty(hand.Category))
	}
	return float64(hand.Category), royalty
}

// partialStrength estimates a row's eventual hand category strength
// (same 0-9 ordinal scale as handeval.Category) from whatever cards
// have been placed so far, via pair/trips density, flush-draw density,
// and connected-rank runs.
func partialStrength(r arrangement.Row, cards []card.Card) float64 {
	if len(cards) == 0 {
		return 0
	}
	var rankCounts [card.NumRanks]int
	var suitCounts [card.NumSuits]int
	var present [card.NumRanks]bool
	jokers := 0
	for _, c := range cards {
		if c.IsJoker() {
			jokers++
			continue
		}
		rk, _ := c.Rank()
		su, _ := c.Suit()
		rankCounts[rk]++
		suitCounts[su]++
		present[rk] = true
	}

	maxRankCount := 0
	for _, n := range rankCounts {
		if n > maxRankCount {
			maxRankCount = n
		}
	}
	maxRankCount += jokers

	maxSuitCount := 0
	for _, n := range suitCounts {
		if n > maxSuitCount {
			maxSuitCount = n
		}
	}
	maxSuitCount += jokers

	runLen := longestRun(present) + jokers
	if runLen > 5 {
		runLen = 5
	}

	pairStrength := 0.0
	switch maxRankCount {
	case 2:
		pairStrength = float64(handeval.Pair)
	case 3:
		pairStrength = float64(handeval.ThreeOfAKind)
	case 4:
		pairStrength = float64(handeval.FourOfAKind)
	}

	flushStrength := 0.0
	if r != arrangement.Front {
		density := float64(maxSuitCount) / 5.0
		flushStrength = density * float64(handeval.Flush)
	}

	straightStrength := 0.0
	if r != arrangement.Front {
		density := float64(runLen) / 5.0
		straightStrength = density * float64(handeval.Straight)
	}

	best := pairStrength
	if flushStrength > best {
		best = flushStrength
	}
	if straightStrength > best {
		best = straightStrength
	}
	// A sliver of credit per placed card, so a fuller row edges out an
	// emptier one with the same best draw.
	return best + float64(len(cards))*0.05
}

// longestRun returns the length of the longest run of consecutive
// present ranks, counting the ace-low wheel (A,2,3,4,5) as connected.
func longestRun(present [card.NumRanks]bool) int {
	best, cur := 0, 0
	for r := 0; r < card.NumRanks; r++ {
		if present[r] {
			cur++
			if cur > best {
				best = cur
			}
		} else {
			cur = 0
		}
	}
	if present[card.Ace] {
		wheel := 1
		for _, r := range []card.Rank{card.Two, card.Three, card.Four, card.Five} {
			if !present[r] {
				break
			}
			wheel++
		}
		if wheel > best {
			best = wheel
		}
	}
	return best
}

// partialRoyaltyPotential estimates royalty points achievable from a
// row's partial content: front rows key directly off the royalty table
// (a queen-high pair already banks most of its eventual value), middle
// and back rows only count draws strong enough to plausibly complete
// (flush, straight, quads), damped by how far the draw is from done.
func partialRoyaltyPotential(r arrangement.Row, cards []card.Card) float64 {
	if len(cards) == 0 {
		return 0
	}
	var rankCounts [card.NumRanks]int
	var suitCounts [card.NumSuits]int
	var present [card.NumRanks]bool
	jokers := 0
	for _, c := range cards {
		if c.IsJoker() {
			jokers++
			continue
		}
		rk, _ := c.Rank()
		su, _ := c.Suit()
		rankCounts[rk]++
		suitCounts[su]++
		present[rk] = true
	}

	if r == arrangement.Front {
		bestRank, bestCount := card.Rank(0), 0
		for rk, n := range rankCounts {
			n += jokers
			if n > bestCount {
				bestCount = n
				bestRank = card.Rank(rk)
			}
		}
		switch {
		case bestCount >= 3:
			return float64(arrangement.FrontTripsRoyalty(bestRank))
		case bestCount == 2 && bestRank >= card.Six:
			return float64(arrangement.FrontPairRoyalty(bestRank))
		default:
			return 0
		}
	}

	maxSuitCount := 0
	for _, n := range suitCounts {
		if n > maxSuitCount {
			maxSuitCount = n
		}
	}
	maxSuitCount += jokers
	runLen := longestRun(present) + jokers
	if runLen > 5 {
		runLen = 5
	}
	maxRankCount := 0
	for _, n := range rankCounts {
		if n > maxRankCount {
			maxRankCount = n
		}
	}
	maxRankCount += jokers

	royaltyFor := arrangement.BackRoyalty
	if r == arrangement.Middle {
		royaltyFor = arrangement.MiddleRoyalty
	}

	potential := 0.0
	if maxSuitCount >= 3 {
		damp := float64(maxSuitCount) / 5.0
		if v := damp * damp * float64(royaltyFor(handeval.Flush)); v > potential {
			potential = v
		}
	}
	if runLen >= 3 {
		damp := float64(runLen) / 5.0
		if v := damp * damp * float64(royaltyFor(handeval.Straight)); v > potential {
			potential = v
		}
	}
	if maxRankCount >= 3 {
		damp := float64(maxRankCount) / 5.0
		if v := damp * damp * float64(royaltyFor(handeval.FourOfAKind)); v > potential {
			potential = v
		}
	}
	return potential
}

// foulRisk estimates the probability in [0,1] that the current partial
// arrangement is heading toward a foul: 0.5 if the observed
// row strengths already violate back >= middle, +0.5 if middle already
// violates middle >= front, +0.3 extra if the front is unusually strong
// with fewer than 3 cards placed, clamped to 1.
func foulRisk(a *arrangement.Arrangement) float64 {
	frontStrength, _ := rowPotential(a, arrangement.Front)
	middleStrength, _ := rowPotential(a, arrangement.Middle)
	backStrength, _ := rowPotential(a, arrangement.Back)

	risk := 0.0
	if middleStrength > backStrength {
		risk += 0.5
	}
	if frontStrength > middleStrength {
		risk += 0.5
	}
	frontCards := a.Filled(arrangement.Front)
	if len(frontCards) < 3 && frontStrength >= float64(handeval.Pair) {
		risk += 0.3
	}
	if risk > 1 {
		risk = 1
	}
	return risk
}
