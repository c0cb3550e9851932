package mcts

import "errors"

// Errors returned by Config.Validate and Engine.Search, named after
// the core's error taxonomy.
var (
	ErrBadConfiguration = errors.New("bad_configuration")
	ErrStateTerminal    = errors.New("state_terminal")
	ErrSearchCancelled  = errors.New("search_cancelled")
	ErrNothingToExpand  = errors.New("nothing_to_expand")
)
