package mcts

import (
	"errors"
	"testing"

	"github.com/ofcsolver/ofcsolver/actiongen"
	"github.com/ofcsolver/ofcsolver/arrangement"
	"github.com/ofcsolver/ofcsolver/card"
	"github.com/ofcsolver/ofcsolver/gamestate"
)

// stateWithHand builds an initial-street state whose current hand is
// fixed instead of dealt, keeping deck accounting intact.
func stateWithHand(t *testing.T, seed int64, cards ...string) *gamestate.GameState {
	t.Helper()
	g, err := gamestate.New(2, 0, 0, seed)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	hand := make([]card.Card, 0, len(cards))
	for _, s := range cards {
		c := card.MustParse(s)
		g.Deck = g.Deck.Remove(c)
		hand = append(hand, c)
	}
	g.CurrentHand = hand
	return g
}

func runSearch(t *testing.T, g *gamestate.GameState, mutate func(*Config)) *Result {
	t.Helper()
	cfg := DefaultConfig()
	cfg.NumSimulations = 300
	if mutate != nil {
		mutate(&cfg)
	}
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	res, err := e.Search(g)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	return res
}

func TestSearchRejectsTerminalState(t *testing.T) {
	g, err := gamestate.New(2, 0, 0, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	fill := []string{
		"2C", "2D", "3H",
		"4C", "4D", "4H", "9S", "2S",
		"AS", "KS", "QS", "JS", "TS",
	}
	rows := []arrangement.Row{
		arrangement.Front, arrangement.Front, arrangement.Front,
		arrangement.Middle, arrangement.Middle, arrangement.Middle, arrangement.Middle, arrangement.Middle,
		arrangement.Back, arrangement.Back, arrangement.Back, arrangement.Back, arrangement.Back,
	}
	idx := []int{0, 1, 2, 0, 1, 2, 3, 4, 0, 1, 2, 3, 4}
	for i, s := range fill {
		if err := g.Arrangement.Place(card.MustParse(s), rows[i], idx[i]); err != nil {
			t.Fatalf("place %s: %v", s, err)
		}
	}

	e, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if _, err := e.Search(g); !errors.Is(err, ErrStateTerminal) {
		t.Errorf("Search on complete state: err = %v, want ErrStateTerminal", err)
	}
}

func TestSearchCancelledBeforeFirstSimulation(t *testing.T) {
	g := stateWithHand(t, 1, "AS", "KS", "QS", "JS", "TS")
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.Stop()
	if _, err := e.Search(g); !errors.Is(err, ErrSearchCancelled) {
		t.Errorf("pre-stopped search: err = %v, want ErrSearchCancelled", err)
	}
}

func TestSearchRoyalFlushGoesBack(t *testing.T) {
	g := stateWithHand(t, 1, "AS", "KS", "QS", "JS", "TS")
	res := runSearch(t, g, nil)

	if len(res.BestAction.Placements) != 5 {
		t.Fatalf("best action has %d placements, want 5", len(res.BestAction.Placements))
	}
	for _, p := range res.BestAction.Placements {
		if p.Row != arrangement.Back {
			t.Errorf("card %s placed at %v, want every card in back", p.Card, p.Row)
		}
	}
	if res.ExpectedScore <= 20 {
		t.Errorf("expected score %.2f, want > 20 with a locked royal flush", res.ExpectedScore)
	}
}

func TestSearchVisitAccounting(t *testing.T) {
	g := stateWithHand(t, 5, "AH", "9C", "9D", "4S", "2C")
	res := runSearch(t, g, nil)

	if res.SimulationsRun != 300 {
		t.Errorf("SimulationsRun = %d, want 300", res.SimulationsRun)
	}
	if res.RootVisits != 300 {
		t.Errorf("RootVisits = %d, want 300 at quiescence", res.RootVisits)
	}
	childTotal := int64(0)
	for _, s := range res.TopActions {
		if s.Visits > res.RootVisits {
			t.Errorf("child visits %d exceed root visits %d", s.Visits, res.RootVisits)
		}
		childTotal += s.Visits
	}
	if childTotal > res.RootVisits {
		t.Errorf("children account for %d visits, more than the root's %d", childTotal, res.RootVisits)
	}
	for i := 1; i < len(res.TopActions); i++ {
		if res.TopActions[i].Visits > res.TopActions[i-1].Visits {
			t.Errorf("TopActions not sorted by visits at index %d", i)
		}
	}
}

func TestSearchDeterministicSingleThread(t *testing.T) {
	run := func() *Result {
		g := stateWithHand(t, 42, "KH", "KD", "8C", "5S", "2D")
		return runSearch(t, g, nil)
	}
	a, b := run(), run()

	if got, want := actiongen.Key(a.BestAction), actiongen.Key(b.BestAction); got != want {
		t.Fatalf("best actions differ:\n%s\n%s", got, want)
	}
	if a.SimulationsRun != b.SimulationsRun {
		t.Errorf("simulation counts differ: %d vs %d", a.SimulationsRun, b.SimulationsRun)
	}
	if len(a.TopActions) != len(b.TopActions) {
		t.Fatalf("top action counts differ: %d vs %d", len(a.TopActions), len(b.TopActions))
	}
	for i := range a.TopActions {
		if a.TopActions[i].Visits != b.TopActions[i].Visits {
			t.Errorf("visit count %d differs at rank %d vs %d", i, a.TopActions[i].Visits, b.TopActions[i].Visits)
		}
		if got, want := actiongen.Key(a.TopActions[i].Action), actiongen.Key(b.TopActions[i].Action); got != want {
			t.Errorf("action at rank %d differs:\n%s\n%s", i, got, want)
		}
	}
}

func TestSearchParallelCompletes(t *testing.T) {
	g := stateWithHand(t, 9, "QH", "QD", "8C", "7S", "6D")
	res := runSearch(t, g, func(c *Config) {
		c.NumThreads = 4
		c.NumSimulations = 400
	})
	if res.SimulationsRun != 400 {
		t.Errorf("SimulationsRun = %d, want 400", res.SimulationsRun)
	}
	if res.RootVisits != 400 {
		t.Errorf("RootVisits = %d, want 400 once workers joined", res.RootVisits)
	}
	if len(res.TopActions) == 0 {
		t.Fatalf("no actions explored")
	}
}

func TestSearchProgressCallback(t *testing.T) {
	g := stateWithHand(t, 3, "AD", "KC", "7H", "6S", "3C")
	var calls []int
	runSearch(t, g, func(c *Config) {
		c.ProgressCallback = func(n int) { calls = append(calls, n) }
	})
	if len(calls) != 3 {
		t.Fatalf("callback fired %d times over 300 simulations, want 3", len(calls))
	}
	for i, n := range calls {
		if n != (i+1)*progressInterval {
			t.Errorf("call %d reported %d simulations, want %d", i, n, (i+1)*progressInterval)
		}
	}
}
