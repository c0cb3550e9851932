package ofcsolver

import (
	"errors"
	"testing"

	"github.com/ofcsolver/ofcsolver/card"
	"github.com/ofcsolver/ofcsolver/gamestate"
	"github.com/ofcsolver/ofcsolver/mcts"
)

func solveConfig(sims int) mcts.Config {
	cfg := mcts.DefaultConfig()
	cfg.NumSimulations = sims
	return cfg
}

func TestSolveRoyalFlushInitialStreet(t *testing.T) {
	g, err := gamestate.New(2, 0, 0, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, s := range []string{"AS", "KS", "QS", "JS", "TS"} {
		c := card.MustParse(s)
		g.Deck = g.Deck.Remove(c)
		g.CurrentHand = append(g.CurrentHand, c)
	}

	res, err := Solve(g, solveConfig(300))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(res.BestAction.Placements) != 5 {
		t.Fatalf("best action has %d placements, want 5", len(res.BestAction.Placements))
	}
	for _, p := range res.BestAction.Placements {
		if p.Row != "back" {
			t.Errorf("%s placed in %q, want every card in back", p.Card, p.Row)
		}
	}
	if res.BestAction.Discard != nil {
		t.Errorf("initial-street action carries a discard %q", *res.BestAction.Discard)
	}
	if res.ExpectedScore <= 20 {
		t.Errorf("expected score %.2f, want > 20", res.ExpectedScore)
	}
	if res.SimulationsRun != 300 {
		t.Errorf("simulations_run = %d, want 300", res.SimulationsRun)
	}
	if res.Confidence != 0.03 {
		t.Errorf("confidence = %.4f, want 0.03 at 300 root visits", res.Confidence)
	}
	if res.ElapsedSeconds <= 0 {
		t.Errorf("elapsed_seconds = %f, want positive", res.ElapsedSeconds)
	}
	if len(res.TopActions) == 0 || len(res.TopActions) > TopActionCount {
		t.Errorf("top_actions has %d entries, want 1..%d", len(res.TopActions), TopActionCount)
	}
}

func TestSolveJSONRegularStreetShape(t *testing.T) {
	dict := []byte(`{
		"num_players": 2, "player_index": 0, "num_jokers": 0,
		"current_street": "second",
		"current_hand": ["QD", "9C", "8D"],
		"arrangement": {
			"front": ["QS", "QH", null],
			"middle": ["AS", "AH", null, null, null],
			"back": ["TS", "TH", "TD", null, null]
		},
		"opponent_consumed": [],
		"seed": 7
	}`)

	res, err := SolveJSON(dict, solveConfig(400))
	if err != nil {
		t.Fatalf("SolveJSON: %v", err)
	}
	if len(res.BestAction.Placements) != 2 {
		t.Fatalf("best action has %d placements, want 2", len(res.BestAction.Placements))
	}
	if res.BestAction.Discard == nil {
		t.Fatalf("regular-street action has no discard")
	}
	placed := map[string]bool{}
	for _, p := range res.BestAction.Placements {
		placed[p.Card] = true
	}
	if placed[*res.BestAction.Discard] {
		t.Errorf("discard %s is also placed", *res.BestAction.Discard)
	}
	if res.SimulationsRun != 400 {
		t.Errorf("simulations_run = %d, want 400", res.SimulationsRun)
	}
}

func TestSolveJSONTwoJokerHand(t *testing.T) {
	dict := []byte(`{
		"num_players": 2, "player_index": 0, "num_jokers": 2,
		"current_street": "initial",
		"current_hand": ["AS", "KS", "QS", "JOKER", "JOKER"],
		"arrangement": {
			"front": [null, null, null],
			"middle": [null, null, null, null, null],
			"back": [null, null, null, null, null]
		},
		"opponent_consumed": [],
		"seed": 5
	}`)

	res, err := SolveJSON(dict, solveConfig(200))
	if err != nil {
		t.Fatalf("SolveJSON: %v", err)
	}
	if len(res.BestAction.Placements) != 5 {
		t.Fatalf("best action has %d placements, want 5", len(res.BestAction.Placements))
	}
	jokers := 0
	for _, p := range res.BestAction.Placements {
		if p.Card == "JOKER" {
			jokers++
		}
	}
	if jokers != 2 {
		t.Errorf("best action places %d jokers, want both", jokers)
	}
}

func TestSolveJSONRejectsMalformedState(t *testing.T) {
	if _, err := SolveJSON([]byte(`{"bogus": true}`), solveConfig(10)); !errors.Is(err, card.ErrInvalidFormat) {
		t.Errorf("err = %v, want ErrInvalidFormat", err)
	}
}

func TestSolveRejectsBadConfiguration(t *testing.T) {
	g, err := gamestate.New(2, 0, 0, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cfg := solveConfig(100)
	cfg.CPuct = -1
	if _, err := Solve(g, cfg); !errors.Is(err, mcts.ErrBadConfiguration) {
		t.Errorf("err = %v, want ErrBadConfiguration", err)
	}
}

func TestSolveRejectsTerminalState(t *testing.T) {
	dict := []byte(`{
		"num_players": 2, "player_index": 0, "num_jokers": 0,
		"current_street": "complete",
		"current_hand": [],
		"arrangement": {
			"front": ["2C", "2D", "3H"],
			"middle": ["4C", "4D", "4H", "9S", "2S"],
			"back": ["AS", "KS", "QS", "JS", "TS"]
		},
		"opponent_consumed": [],
		"seed": 1
	}`)
	if _, err := SolveJSON(dict, solveConfig(10)); !errors.Is(err, mcts.ErrStateTerminal) {
		t.Errorf("err = %v, want ErrStateTerminal", err)
	}
}
