package stateeval

import (
	"github.com/ofcsolver/ofcsolver/arrangement"
	"github.com/ofcsolver/ofcsolver/handeval"
)

// frontWinBase and frontWinRankStep give the front row's win probability
// against a typical opponent: a base rate per category plus a per-rank
// step that spreads a pair of deuces and a pair of aces across the same
// category. These are fixed approximations -
// the exact numbers are locked in by TestWinProbabilityTable rather than
// re-derived from first principles.
const (
	frontWinBaseHighCard = 0.18
	frontWinBasePair     = 0.45
	frontWinRankStep     = 0.02 // per rank above Two, added to the pair base
	frontWinBaseTrips    = 0.97
)

// middleWinBase and backWinBase key the 5-card rows' win probability off
// category alone, with a small per-rank nudge for the primary rank.
var middleWinBase = map[handeval.Category]float64{
	handeval.HighCard:      0.05,
	handeval.Pair:          0.25,
	handeval.TwoPair:       0.45,
	handeval.ThreeOfAKind:  0.60,
	handeval.Straight:      0.74,
	handeval.Flush:         0.80,
	handeval.FullHouse:     0.90,
	handeval.FourOfAKind:   0.97,
	handeval.StraightFlush: 0.995,
	handeval.RoyalFlush:    0.999,
}

var backWinBase = map[handeval.Category]float64{
	handeval.HighCard:      0.10,
	handeval.Pair:          0.35,
	handeval.TwoPair:       0.55,
	handeval.ThreeOfAKind:  0.68,
	handeval.Straight:      0.80,
	handeval.Flush:         0.85,
	handeval.FullHouse:     0.93,
	handeval.FourOfAKind:   0.98,
	handeval.StraightFlush: 0.997,
	handeval.RoyalFlush:    0.999,
}

const rankNudgeStep = 0.005 // per rank above Two, added to a 5-card row's base

// winProbability returns the fixed win-probability estimate for a
// completed row's hand, against a typical opponent.
func winProbability(r arrangement.Row, h handeval.Hand) float64 {
	var p float64
	switch r {
	case arrangement.Front:
		switch h.Category {
		case handeval.HighCard:
			p = frontWinBaseHighCard
		case handeval.Pair:
			p = frontWinBasePair + float64(h.Primary)*frontWinRankStep
		case handeval.ThreeOfAKind:
			p = frontWinBaseTrips
		}
	case arrangement.Middle:
		p = middleWinBase[h.Category] + float64(h.Primary)*rankNudgeStep
	case arrangement.Back:
		p = backWinBase[h.Category] + float64(h.Primary)*rankNudgeStep
	}
	return clamp01(p)
}

func clamp01(p float64) float64 {
	if p < 0.01 {
		return 0.01
	}
	if p > 0.99 {
		return 0.99
	}
	return p
}
