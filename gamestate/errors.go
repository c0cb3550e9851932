package gamestate

import "errors"

// Errors returned by GameState operations, per the core's error taxonomy.
var (
	ErrInsufficientCards = errors.New("insufficient_cards")
	ErrIllegalAction     = errors.New("illegal_action")
	ErrNothingToUndo     = errors.New("nothing_to_undo")
)
