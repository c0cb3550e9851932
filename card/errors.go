package card

import "errors"

// ErrInvalidFormat is returned when a card string does not match the
// two-character rank+suit grammar (or "JOKER").
var ErrInvalidFormat = errors.New("invalid_format")

// ErrEmptySet is returned by CardSet.Pop on an empty set.
var ErrEmptySet = errors.New("empty_set")
