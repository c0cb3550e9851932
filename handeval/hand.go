package handeval

import (
	"fmt"
	"sort"

	"github.com/ofcsolver/ofcsolver/card"
)

// EvaluateThree categorizes a 3-card multiset into {high_card, pair,
// three_of_a_kind}, with 0-2 jokers acting as wildcards.
func EvaluateThree(cards []card.Card) (Hand, error) {
	if len(cards) != 3 {
		return Hand{}, fmt.Errorf("%w: evaluate_three wants 3 cards, got %d", ErrWrongHandSize, len(cards))
	}
	return bestWithJokers(cards, evaluateStandardThree), nil
}

// EvaluateFive categorizes a 5-card multiset into the full hand-category
// ordering, with 0-2 jokers acting as wildcards.
func EvaluateFive(cards []card.Card) (Hand, error) {
	if len(cards) != 5 {
		return Hand{}, fmt.Errorf("%w: evaluate_five wants 5 cards, got %d", ErrWrongHandSize, len(cards))
	}
	return bestWithJokers(cards, evaluateStandardFive), nil
}

// bestWithJokers tries every possible concrete substitution for each
// joker present in cards and keeps the highest resulting Hand, as
// evaluated by eval (which assumes no jokers). With at most two jokers
// in play this is at most 52*52 standard evaluations - cheap relative
// to the search budget that calls it.
func bestWithJokers(cards []card.Card, eval func([]card.Card) Hand) Hand {
	standard := make([]card.Card, 0, len(cards))
	numJokers := 0
	for _, c := range cards {
		if c.IsJoker() {
			numJokers++
		} else {
			standard = append(standard, c)
		}
	}
	if numJokers == 0 {
		return eval(standard)
	}

	var best Hand
	haveBest := false
	substitutes := allStandardCards()
	buf := make([]card.Card, len(standard), len(standard)+numJokers)
	copy(buf, standard)

	var recurse func(remaining int)
	recurse = func(remaining int) {
		if remaining == 0 {
			h := eval(buf)
			if !haveBest || best.Less(h) {
				best = h
				haveBest = true
			}
			return
		}
		for _, sub := range substitutes {
			buf = append(buf, sub)
			recurse(remaining - 1)
			buf = buf[:len(buf)-1]
		}
	}
	recurse(numJokers)
	return best
}

func allStandardCards() []card.Card {
	out := make([]card.Card, 52)
	for v := uint8(0); v < 52; v++ {
		out[v] = card.FromValue(v)
	}
	return out
}

// rankGroup is a rank paired with how many of the evaluated cards share it.
type rankGroup struct {
	rank  card.Rank
	count int
}

func groupByRank(cards []card.Card) []rankGroup {
	var counts [card.NumRanks]int
	for _, c := range cards {
		r, _ := c.Rank()
		counts[r]++
	}
	groups := make([]rankGroup, 0, card.NumRanks)
	for r := card.NumRanks - 1; r >= 0; r-- {
		if counts[r] > 0 {
			groups = append(groups, rankGroup{rank: card.Rank(r), count: counts[r]})
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].count > groups[j].count
	})
	return groups
}

// evaluateStandardThree evaluates exactly 3 non-joker cards.
func evaluateStandardThree(cards []card.Card) Hand {
	groups := groupByRank(cards)
	switch {
	case len(groups) == 1:
		return Hand{Category: ThreeOfAKind, Primary: groups[0].rank}
	case len(groups) == 2:
		return Hand{
			Category: Pair,
			Primary:  groups[0].rank,
			Kickers:  []card.Rank{groups[1].rank},
		}
	default:
		return Hand{
			Category: HighCard,
			Primary:  groups[0].rank,
			Kickers:  []card.Rank{groups[1].rank, groups[2].rank},
		}
	}
}

// evaluateStandardFive evaluates exactly 5 non-joker cards.
func evaluateStandardFive(cards []card.Card) Hand {
	var present [card.NumRanks]bool
	var suitCounts [card.NumSuits]int
	for _, c := range cards {
		r, _ := c.Rank()
		s, _ := c.Suit()
		present[r] = true
		suitCounts[s]++
	}
	isFlush := false
	for _, n := range suitCounts {
		if n == 5 {
			isFlush = true
		}
	}
	straightPrimary, isStraight := detectStraight(present)

	if isFlush && isStraight {
		if straightPrimary == card.Ace {
			return Hand{Category: RoyalFlush, Primary: straightPrimary}
		}
		return Hand{Category: StraightFlush, Primary: straightPrimary}
	}

	groups := groupByRank(cards)
	switch {
	case groups[0].count == 4:
		return Hand{
			Category: FourOfAKind,
			Primary:  groups[0].rank,
			Kickers:  []card.Rank{groups[1].rank},
		}
	case groups[0].count == 3 && len(groups) == 2:
		return Hand{
			Category:  FullHouse,
			Primary:   groups[0].rank,
			Secondary: groups[1].rank,
			HasSecond: true,
		}
	case isFlush:
		return Hand{
			Category: Flush,
			Primary:  groups[0].rank,
			Kickers:  ranksOf(groups[1:]),
		}
	case isStraight:
		return Hand{Category: Straight, Primary: straightPrimary}
	case groups[0].count == 3:
		return Hand{
			Category: ThreeOfAKind,
			Primary:  groups[0].rank,
			Kickers:  ranksOf(groups[1:]),
		}
	case groups[0].count == 2 && groups[1].count == 2:
		return Hand{
			Category:  TwoPair,
			Primary:   groups[0].rank,
			Secondary: groups[1].rank,
			HasSecond: true,
			Kickers:   ranksOf(groups[2:]),
		}
	case groups[0].count == 2:
		return Hand{
			Category: Pair,
			Primary:  groups[0].rank,
			Kickers:  ranksOf(groups[1:]),
		}
	default:
		return Hand{
			Category: HighCard,
			Primary:  groups[0].rank,
			Kickers:  ranksOf(groups[1:]),
		}
	}
}

func ranksOf(groups []rankGroup) []card.Rank {
	out := make([]card.Rank, len(groups))
	for i, g := range groups {
		out[i] = g.rank
	}
	return out
}

// detectStraight finds the highest 5-consecutive-rank run present in
// present, treating ace as both high (after king) and low (the wheel,
// A-2-3-4-5, which reports primary Five per the OFC convention).
func detectStraight(present [card.NumRanks]bool) (card.Rank, bool) {
	for low := int(card.NumRanks) - 5; low >= 0; low-- {
		ok := true
		for i := 0; i < 5; i++ {
			if !present[low+i] {
				ok = false
				break
			}
		}
		if ok {
			return card.Rank(low + 4), true
		}
	}
	if present[card.Ace] && present[card.Two] && present[card.Three] && present[card.Four] && present[card.Five] {
		return card.Five, true
	}
	return 0, false
}
