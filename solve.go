// Package ofcsolver is the decision core of a Pineapple Open-Face
// Chinese Poker solver: given a legal game state it runs a Monte-Carlo
// Tree Search over heuristically generated placements and returns the
// best action with value estimates and visit statistics.
//
// Solve is the single synchronous entry point external collaborators
// call; everything else (HTTP surface, queues, metrics, persistence)
// lives above this package.
package ofcsolver

import (
	"github.com/ofcsolver/ofcsolver/actiongen"
	"github.com/ofcsolver/ofcsolver/gamestate"
	"github.com/ofcsolver/ofcsolver/mcts"
)

// TopActionCount bounds the top_actions list in a Result.
const TopActionCount = 5

// confidenceDenominator scales root visits into the [0, 0.99]
// confidence figure.
const confidenceDenominator = 10000.0

// Placement is the wire form of one card assigned to one slot.
type Placement struct {
	Card  string `json:"card"`
	Row   string `json:"row"`
	Index int    `json:"index"`
}

// Action is the wire form of a full street action.
type Action struct {
	Placements []Placement `json:"placements"`
	Discard    *string     `json:"discard,omitempty"`
}

// ActionStat is one row of the top_actions list.
type ActionStat struct {
	Action     Action  `json:"action"`
	Visits     int64   `json:"visits"`
	MeanReward float64 `json:"mean_reward"`
}

// Result is what Solve hands back to its caller.
type Result struct {
	BestAction     Action       `json:"best_action"`
	ExpectedScore  float64      `json:"expected_score"`
	Confidence     float64      `json:"confidence"`
	SimulationsRun int64        `json:"simulations_run"`
	ElapsedSeconds float64      `json:"elapsed_seconds"`
	TopActions     []ActionStat `json:"top_actions"`
}

// Solve searches state under cfg and returns the best action with its
// statistics. The caller must check terminality first: a complete state
// yields mcts.ErrStateTerminal.
func Solve(state *gamestate.GameState, cfg mcts.Config) (*Result, error) {
	engine, err := mcts.NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	res, err := engine.Search(state)
	if err != nil {
		return nil, err
	}
	return resultFrom(res), nil
}

// SolveJSON is Solve over the portable dictionary form of a game state,
// for callers that hold the wire representation rather than a live
// GameState.
func SolveJSON(stateDict []byte, cfg mcts.Config) (*Result, error) {
	state, err := gamestate.Deserialize(stateDict)
	if err != nil {
		return nil, err
	}
	return Solve(state, cfg)
}

func resultFrom(res *mcts.Result) *Result {
	confidence := float64(res.RootVisits) / confidenceDenominator
	if confidence > 0.99 {
		confidence = 0.99
	}

	top := res.TopActions
	if len(top) > TopActionCount {
		top = top[:TopActionCount]
	}
	stats := make([]ActionStat, len(top))
	for i, s := range top {
		stats[i] = ActionStat{
			Action:     actionFrom(s.Action),
			Visits:     s.Visits,
			MeanReward: s.MeanReward,
		}
	}

	return &Result{
		BestAction:     actionFrom(res.BestAction),
		ExpectedScore:  res.ExpectedScore,
		Confidence:     confidence,
		SimulationsRun: res.SimulationsRun,
		ElapsedSeconds: res.Elapsed.Seconds(),
		TopActions:     stats,
	}
}

func actionFrom(a actiongen.Action) Action {
	out := Action{Placements: make([]Placement, len(a.Placements))}
	for i, p := range a.Placements {
		out.Placements[i] = Placement{
			Card:  p.Card.String(),
			Row:   p.Row.String(),
			Index: p.Index,
		}
	}
	if a.Discard != nil {
		s := a.Discard.String()
		out.Discard = &s
	}
	return out
}
