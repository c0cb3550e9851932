package gamestate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ofcsolver/ofcsolver/arrangement"
	"github.com/ofcsolver/ofcsolver/card"
)

// stateJSON is the portable dictionary form of a GameState, used at the
// external solve boundary. The remaining deck is derived on load (full
// deck minus every card the dictionary accounts for), so it is not part
// of the wire shape.
type stateJSON struct {
	NumPlayers       int             `json:"num_players"`
	PlayerIndex      int             `json:"player_index"`
	NumJokers        int             `json:"num_jokers"`
	CurrentStreet    string          `json:"current_street"`
	CurrentHand      []string        `json:"current_hand"`
	Arrangement      arrangementJSON `json:"arrangement"`
	OpponentConsumed []string        `json:"opponent_consumed"`
	Seed             *int64          `json:"seed"`
}

// arrangementJSON mirrors the three rows slot-by-slot; an empty slot is
// null.
type arrangementJSON struct {
	Front  []*string `json:"front"`
	Middle []*string `json:"middle"`
	Back   []*string `json:"back"`
}

// Serialize renders g as its portable dictionary form.
func (g *GameState) Serialize() ([]byte, error) {
	hand := make([]string, len(g.CurrentHand))
	for i, c := range g.CurrentHand {
		hand[i] = c.String()
	}
	consumed := g.OpponentConsumed.Cards()
	opp := make([]string, len(consumed))
	for i, c := range consumed {
		opp[i] = c.String()
	}

	arr := arrangementJSON{}
	var err error
	if arr.Front, err = rowStrings(g.Arrangement, arrangement.Front); err != nil {
		return nil, err
	}
	if arr.Middle, err = rowStrings(g.Arrangement, arrangement.Middle); err != nil {
		return nil, err
	}
	if arr.Back, err = rowStrings(g.Arrangement, arrangement.Back); err != nil {
		return nil, err
	}

	seed := g.Seed
	return json.Marshal(stateJSON{
		NumPlayers:       g.NumPlayers,
		PlayerIndex:      g.PlayerIndex,
		NumJokers:        g.NumJokers,
		CurrentStreet:    g.Street.String(),
		CurrentHand:      hand,
		Arrangement:      arr,
		OpponentConsumed: opp,
		Seed:             &seed,
	})
}

func rowStrings(a *arrangement.Arrangement, r arrangement.Row) ([]*string, error) {
	out := make([]*string, r.Capacity())
	for i := range out {
		c, filled, err := a.CardAt(r, i)
		if err != nil {
			return nil, err
		}
		if filled {
			s := c.String()
			out[i] = &s
		}
	}
	return out, nil
}

// Deserialize reconstructs a GameState from its dictionary form.
// Unknown fields are rejected. The remaining deck is rebuilt as the
// full deck minus every card the dictionary mentions; a card mentioned
// twice surfaces as illegal_action.
func Deserialize(data []byte) (*GameState, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var dto stateJSON
	if err := dec.Decode(&dto); err != nil {
		return nil, fmt.Errorf("%w: game state dictionary: %v", card.ErrInvalidFormat, err)
	}

	var seed int64
	if dto.Seed != nil {
		seed = *dto.Seed
	}
	g, err := New(dto.NumPlayers, dto.PlayerIndex, dto.NumJokers, seed)
	if err != nil {
		return nil, err
	}
	if g.Street, err = StreetFromString(dto.CurrentStreet); err != nil {
		return nil, err
	}

	// consume removes a standard card from the rebuilt deck, or spends
	// one joker; either way a card can only be accounted for once.
	jokersSeen := 0
	consume := func(c card.Card) error {
		if c.IsJoker() {
			jokersSeen++
			if jokersSeen > g.NumJokers {
				return fmt.Errorf("%w: more jokers mentioned than num_jokers %d", ErrIllegalAction, g.NumJokers)
			}
			return nil
		}
		if !g.Deck.Contains(c) {
			return fmt.Errorf("%w: %s mentioned more than once", ErrIllegalAction, c)
		}
		g.Deck = g.Deck.Remove(c)
		return nil
	}

	rows := []struct {
		row   arrangement.Row
		cards []*string
	}{
		{arrangement.Front, dto.Arrangement.Front},
		{arrangement.Middle, dto.Arrangement.Middle},
		{arrangement.Back, dto.Arrangement.Back},
	}
	for _, r := range rows {
		if len(r.cards) != r.row.Capacity() {
			return nil, fmt.Errorf("%w: row %s wants %d slots, got %d", card.ErrInvalidFormat, r.row, r.row.Capacity(), len(r.cards))
		}
		for i, s := range r.cards {
			if s == nil {
				continue
			}
			c, err := card.Parse(*s)
			if err != nil {
				return nil, err
			}
			if err := consume(c); err != nil {
				return nil, err
			}
			if err := g.Arrangement.Place(c, r.row, i); err != nil {
				return nil, err
			}
		}
	}

	g.CurrentHand = make([]card.Card, 0, len(dto.CurrentHand))
	for _, s := range dto.CurrentHand {
		c, err := card.Parse(s)
		if err != nil {
			return nil, err
		}
		if err := consume(c); err != nil {
			return nil, err
		}
		g.CurrentHand = append(g.CurrentHand, c)
	}

	for _, s := range dto.OpponentConsumed {
		c, err := card.Parse(s)
		if err != nil {
			return nil, err
		}
		if err := consume(c); err != nil {
			return nil, err
		}
		g.OpponentConsumed = g.OpponentConsumed.Add(c)
	}

	g.JokersRemaining = g.NumJokers - jokersSeen
	return g, nil
}
