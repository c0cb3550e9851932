// Package scoring turns a set of complete arrangements into point
// deltas: head-to-head row wins, the scoop bonus, royalty differences,
// and the foul penalty, then sums pairwise results for multi-opponent
// tables.
package scoring

import (
	"fmt"

	"github.com/ofcsolver/ofcsolver/arrangement"
)

// scoopBonus is added on top of the 3 row wins when one side sweeps all
// three rows; foulSweep is the total a non-fouling player collects off a
// fouling opponent (the 3 row wins + the scoop bonus it implies).
const (
	scoopBonus = 3
	foulSweep  = 6
)

// Breakdown names the components that sum to a head-to-head result, for
// callers that want to report more than the final number.
type Breakdown struct {
	RowWins     int // net of the three per-row +1/-1/0 outcomes
	ScoopBonus  int // +/-3 if one side swept all three rows
	RoyaltyDiff int // player's royalties minus opponent's
	Total       int
}

// HeadsUp scores player against opponent from player's point of view.
// It is antisymmetric: HeadsUp(a, b) == -HeadsUp(b, a).
func HeadsUp(player, opponent *arrangement.Arrangement) (Breakdown, error) {
	playerFoul, err := player.ValidateComplete()
	if err != nil {
		return Breakdown{}, fmt.Errorf("player arrangement: %w", err)
	}
	opponentFoul, err := opponent.ValidateComplete()
	if err != nil {
		return Breakdown{}, fmt.Errorf("opponent arrangement: %w", err)
	}

	if playerFoul != arrangement.NoFoul && opponentFoul != arrangement.NoFoul {
		return Breakdown{}, nil
	}

	playerRoyalty, err := player.Royalties()
	if err != nil {
		return Breakdown{}, err
	}
	opponentRoyalty, err := opponent.Royalties()
	if err != nil {
		return Breakdown{}, err
	}

	if playerFoul != arrangement.NoFoul {
		total := -(foulSweep + opponentRoyalty)
		return Breakdown{RowWins: -3, ScoopBonus: -scoopBonus, RoyaltyDiff: -opponentRoyalty, Total: total}, nil
	}
	if opponentFoul != arrangement.NoFoul {
		total := foulSweep + playerRoyalty
		return Breakdown{RowWins: 3, ScoopBonus: scoopBonus, RoyaltyDiff: playerRoyalty, Total: total}, nil
	}

	playerFront, playerMiddle, playerBack, err := player.Hands()
	if err != nil {
		return Breakdown{}, err
	}
	opponentFront, opponentMiddle, opponentBack, err := opponent.Hands()
	if err != nil {
		return Breakdown{}, err
	}

	rowWins := 0
	playerSweeps, opponentSweeps := 0, 0
	for _, cmp := range []int{
		playerFront.Compare(opponentFront),
		playerMiddle.Compare(opponentMiddle),
		playerBack.Compare(opponentBack),
	} {
		switch {
		case cmp > 0:
			rowWins++
			playerSweeps++
		case cmp < 0:
			rowWins--
			opponentSweeps++
		}
	}

	sweep := 0
	if playerSweeps == 3 {
		sweep = scoopBonus
	} else if opponentSweeps == 3 {
		sweep = -scoopBonus
	}

	royaltyDiff := playerRoyalty - opponentRoyalty
	return Breakdown{
		RowWins:     rowWins,
		ScoopBonus:  sweep,
		RoyaltyDiff: royaltyDiff,
		Total:       rowWins + sweep + royaltyDiff,
	}, nil
}

// Multiway scores each player against every other player pairwise and
// sums the results, the standard settlement for 3+ player OFC.
func Multiway(players []*arrangement.Arrangement) ([]int, error) {
	totals := make([]int, len(players))
	for i := range players {
		for j := range players {
			if i == j {
				continue
			}
			b, err := HeadsUp(players[i], players[j])
			if err != nil {
				return nil, fmt.Errorf("player %d vs %d: %w", i, j, err)
			}
			totals[i] += b.Total
		}
	}
	return totals, nil
}
