package handeval

import "errors"

// ErrWrongHandSize is returned when EvaluateThree/EvaluateFive is called
// on a multiset that isn't exactly 3 or 5 cards respectively.
var ErrWrongHandSize = errors.New("wrong_hand_size")
