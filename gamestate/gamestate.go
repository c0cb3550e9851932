// Package gamestate drives one player's view of a Pineapple OFC hand
// through the deal/place street automaton: deck and opponent-consumed
// bookkeeping, the local arrangement, and rollback history for search.
package gamestate

import (
	"fmt"
	"math/rand"

	"github.com/ofcsolver/ofcsolver/arrangement"
	"github.com/ofcsolver/ofcsolver/card"
)

// Placement is one card assigned to one arrangement slot, as accepted by
// PlaceCards and produced by action generation.
type Placement struct {
	Card  card.Card
	Row   arrangement.Row
	Index int
}

// historyEntry is a rollback record for one Deal or PlaceCards call.
type historyEntry struct {
	isDeal              bool
	prevStreet          Street
	prevHand            []card.Card
	prevDeck            card.CardSet
	prevOpponentUsed    card.CardSet
	prevJokersRemaining int
	placements          []Placement
}

// GameState is one player's mutable view of an in-progress deal.
type GameState struct {
	NumPlayers       int
	PlayerIndex      int
	NumJokers        int
	Street           Street
	Deck             card.CardSet
	OpponentConsumed card.CardSet
	Arrangement      *arrangement.Arrangement
	CurrentHand      []card.Card
	Seed             int64

	// JokersRemaining tracks how many of NumJokers are still undrawn. A
	// CardSet bitmask can only mark "a joker is present," not count two
	// copies, so multiplicity is tracked here instead of in Deck, which
	// holds only the 52 standard cards.
	JokersRemaining int

	rng     *rand.Rand
	history []historyEntry
}

// New builds a fresh game state at the initial street, with all 52
// standard cards in Deck, numJokers undrawn jokers counted in
// JokersRemaining, and an empty arrangement.
func New(numPlayers, playerIndex, numJokers int, seed int64) (*GameState, error) {
	if numPlayers < 2 || numPlayers > 4 {
		return nil, fmt.Errorf("%w: num_players %d must be in [2,4]", ErrIllegalAction, numPlayers)
	}
	if playerIndex < 0 || playerIndex >= numPlayers {
		return nil, fmt.Errorf("%w: player_index %d out of range", ErrIllegalAction, playerIndex)
	}
	if numJokers < 0 || numJokers > 2 {
		return nil, fmt.Errorf("%w: num_jokers %d must be in [0,2]", ErrIllegalAction, numJokers)
	}
	return &GameState{
		NumPlayers:       numPlayers,
		PlayerIndex:      playerIndex,
		NumJokers:        numJokers,
		Street:           Initial,
		Deck:             card.FullDeck(0),
		OpponentConsumed: card.NewCardSet(),
		Arrangement:      arrangement.New(),
		CurrentHand:      nil,
		Seed:             seed,
		JokersRemaining:  numJokers,
		rng:              rand.New(rand.NewSource(seed)),
	}, nil
}

// DealStreet draws this street's cards from the remaining deck: one
// player's share becomes the current hand, the rest are recorded as
// opponent-consumed (cards known gone but not attributed to a specific
// seat, per the single-generic-opponent simplification).
func (g *GameState) DealStreet() error {
	if len(g.CurrentHand) != 0 {
		return fmt.Errorf("%w: deal requested with a non-empty current hand", ErrIllegalAction)
	}
	if g.Street == Complete {
		return fmt.Errorf("%w: deal requested on a complete street", ErrIllegalAction)
	}

	drawSize := g.Street.drawSize()
	total := g.NumPlayers * drawSize
	available := g.Deck.Len() + g.JokersRemaining
	if available < total {
		return fmt.Errorf("%w: deck has %d cards, need %d", ErrInsufficientCards, available, total)
	}

	pool := g.Deck.Cards()
	for i := 0; i < g.JokersRemaining; i++ {
		pool = append(pool, card.Joker)
	}
	for i := 0; i < total; i++ {
		j := i + g.rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	drawn := pool[:total]

	entry := historyEntry{
		isDeal:              true,
		prevStreet:          g.Street,
		prevHand:            append([]card.Card(nil), g.CurrentHand...),
		prevDeck:            g.Deck,
		prevOpponentUsed:    g.OpponentConsumed,
		prevJokersRemaining: g.JokersRemaining,
	}

	myHand := make([]card.Card, 0, drawSize)
	for i, c := range drawn {
		if c.IsJoker() {
			g.JokersRemaining--
		} else {
			g.Deck = g.Deck.Remove(c)
		}
		seat := i / drawSize
		if seat == g.PlayerIndex {
			myHand = append(myHand, c)
		} else {
			g.OpponentConsumed = g.OpponentConsumed.Add(c)
		}
	}
	g.CurrentHand = myHand
	g.history = append(g.history, entry)
	return nil
}

// ValidPlacements enumerates the arrangement's empty (row, index) slots.
func (g *GameState) ValidPlacements() []struct {
	Row   arrangement.Row
	Index int
} {
	return g.Arrangement.OpenSlots()
}

// PlaceCards applies placements (and, on every street but Initial, a
// discard) drawn from the current hand, then advances the street. The
// multiset of placed cards plus the discard must exactly equal the
// current hand.
func (g *GameState) PlaceCards(placements []Placement, discard *card.Card) error {
	if len(g.CurrentHand) == 0 {
		return fmt.Errorf("%w: place requested with an empty current hand", ErrIllegalAction)
	}
	wantPlacements := g.Street.placementCount()
	if len(placements) != wantPlacements {
		return fmt.Errorf("%w: street %s wants %d placements, got %d", ErrIllegalAction, g.Street, wantPlacements, len(placements))
	}
	wantDiscard := g.Street.requiresDiscard()
	if wantDiscard && discard == nil {
		return fmt.Errorf("%w: street %s requires a discard", ErrIllegalAction, g.Street)
	}
	if !wantDiscard && discard != nil {
		return fmt.Errorf("%w: street %s must not discard", ErrIllegalAction, g.Street)
	}

	// Jokers are counted rather than set-tracked: a hand may hold two
	// copies, which a one-bit-per-card mask cannot distinguish.
	consumed := card.NewCardSet()
	consumedJokers := 0
	listCard := func(c card.Card) error {
		if c.IsJoker() {
			consumedJokers++
			return nil
		}
		if consumed.Contains(c) {
			return fmt.Errorf("%w: %s listed more than once", ErrIllegalAction, c)
		}
		consumed = consumed.Add(c)
		return nil
	}
	for _, p := range placements {
		if err := listCard(p.Card); err != nil {
			return err
		}
	}
	if discard != nil {
		if err := listCard(*discard); err != nil {
			return err
		}
	}
	handSet := card.NewCardSet()
	handJokers := 0
	for _, c := range g.CurrentHand {
		if c.IsJoker() {
			handJokers++
		} else {
			handSet = handSet.Add(c)
		}
	}
	if consumed != handSet || consumedJokers != handJokers {
		return fmt.Errorf("%w: placed+discarded cards differ from the current hand", ErrIllegalAction)
	}

	applied := make([]Placement, 0, len(placements))
	for _, p := range placements {
		if err := g.Arrangement.Place(p.Card, p.Row, p.Index); err != nil {
			for _, done := range applied {
				_, _ = g.Arrangement.Remove(done.Row, done.Index)
			}
			return err
		}
		applied = append(applied, p)
	}

	g.history = append(g.history, historyEntry{
		isDeal:              false,
		prevStreet:          g.Street,
		prevHand:            append([]card.Card(nil), g.CurrentHand...),
		prevDeck:            g.Deck,
		prevOpponentUsed:    g.OpponentConsumed,
		prevJokersRemaining: g.JokersRemaining,
		placements:          applied,
	})
	// The discard is dead but known-consumed; folding it into the
	// opponent-consumed set keeps the arrangement/hand/consumed/deck
	// partition covering every card that has left the deck.
	if discard != nil {
		g.OpponentConsumed = g.OpponentConsumed.Add(*discard)
	}
	g.CurrentHand = nil
	g.Street = g.Street.next()
	return nil
}

// Undo reverts the most recent DealStreet or PlaceCards call.
func (g *GameState) Undo() error {
	if len(g.history) == 0 {
		return fmt.Errorf("%w", ErrNothingToUndo)
	}
	entry := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]

	if !entry.isDeal {
		for i := len(entry.placements) - 1; i >= 0; i-- {
			p := entry.placements[i]
			if _, err := g.Arrangement.Remove(p.Row, p.Index); err != nil {
				return err
			}
		}
	}
	g.Street = entry.prevStreet
	g.CurrentHand = entry.prevHand
	g.Deck = entry.prevDeck
	g.OpponentConsumed = entry.prevOpponentUsed
	g.JokersRemaining = entry.prevJokersRemaining
	return nil
}

// Copy produces an independent deep clone suitable for rollouts: the
// arrangement, hand, and history are all copied, and the RNG is split
// off the original's stream so draws on the copy never replay the
// original's. Splitting draws one value from g's generator, so Copy is
// not safe to call on the same state from two goroutines at once; use
// CopyReseeded where concurrent clones of a shared state are needed.
func (g *GameState) Copy() *GameState {
	return g.copyWith(cloneRand(g.rng))
}

// CopyReseeded is Copy with the clone's PRNG seeded from the given seed
// instead of split off the original's stream. It never touches g's
// generator, so concurrent workers cloning the same shared state each
// pass a seed drawn from their own thread-local stream.
func (g *GameState) CopyReseeded(seed int64) *GameState {
	return g.copyWith(rand.New(rand.NewSource(seed)))
}

func (g *GameState) copyWith(rng *rand.Rand) *GameState {
	clone := &GameState{
		NumPlayers:       g.NumPlayers,
		PlayerIndex:      g.PlayerIndex,
		NumJokers:        g.NumJokers,
		Street:           g.Street,
		Deck:             g.Deck,
		OpponentConsumed: g.OpponentConsumed,
		Arrangement:      g.Arrangement.Clone(),
		CurrentHand:      append([]card.Card(nil), g.CurrentHand...),
		Seed:             g.Seed,
		JokersRemaining:  g.JokersRemaining,
		rng:              rng,
	}
	if len(g.history) > 0 {
		clone.history = make([]historyEntry, len(g.history))
		for i, e := range g.history {
			ce := e
			ce.prevHand = append([]card.Card(nil), e.prevHand...)
			ce.placements = append([]Placement(nil), e.placements...)
			clone.history[i] = ce
		}
	}
	return clone
}

// cloneRand snapshots a *rand.Rand's stream by reseeding a fresh
// generator from a value drawn off the original, keeping both streams
// independent from the point of cloning onward.
func cloneRand(r *rand.Rand) *rand.Rand {
	return rand.New(rand.NewSource(r.Int63()))
}
