package arrangement

import "errors"

// Errors returned by Arrangement.Place.
var (
	ErrSlotOccupied    = errors.New("slot_occupied")
	ErrCardAlreadyUsed = errors.New("card_already_used")
	ErrBadIndex        = errors.New("bad_index")
)
