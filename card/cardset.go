package card

import "math/bits"

// CardSet is a bitmask of cards over the 53-card universe (52 standard
// plus the joker). All operations are O(1). The zero value is the
// empty set.
type CardSet uint64

// jokerBit is the bit used to represent the joker within a CardSet.
const jokerBit = uint64(1) << JokerValue

// FullDeck returns the set of all 52 standard cards, plus the single
// joker bit when numJokers is 1 or 2.
func FullDeck(numJokers int) CardSet {
	var s CardSet
	for v := uint8(0); v < 52; v++ {
		s = s.Add(FromValue(v))
	}
	if numJokers >= 1 {
		s |= CardSet(jokerBit)
	}
	// A CardSet only has one joker bit; num_jokers==2 is tracked by the
	// caller's joker count, not by a second bit (see
	// gamestate.GameState.JokersRemaining).
	return s
}

// NewCardSet builds a CardSet from the given cards.
func NewCardSet(cards ...Card) CardSet {
	var s CardSet
	for _, c := range cards {
		s = s.Add(c)
	}
	return s
}

// Add returns the set with c inserted.
func (s CardSet) Add(c Card) CardSet {
	return s | (CardSet(1) << c.value)
}

// Remove returns the set with c removed.
func (s CardSet) Remove(c Card) CardSet {
	return s &^ (CardSet(1) << c.value)
}

// Contains reports whether c is a member of s.
func (s CardSet) Contains(c Card) bool {
	return s&(CardSet(1)<<c.value) != 0
}

// Union returns s ∪ other.
func (s CardSet) Union(other CardSet) CardSet {
	return s | other
}

// Intersect returns s ∩ other.
func (s CardSet) Intersect(other CardSet) CardSet {
	return s & other
}

// Difference returns s \ other.
func (s CardSet) Difference(other CardSet) CardSet {
	return s &^ other
}

// SymmetricDifference returns the cards present in exactly one of s, other.
func (s CardSet) SymmetricDifference(other CardSet) CardSet {
	return s ^ other
}

// Len returns the cardinality of s.
func (s CardSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// IsEmpty reports whether s has no members.
func (s CardSet) IsEmpty() bool {
	return s == 0
}

// Subset reports whether s is a subset of other.
func (s CardSet) Subset(other CardSet) bool {
	return s&other == s
}

// Superset reports whether s is a superset of other.
func (s CardSet) Superset(other CardSet) bool {
	return other.Subset(s)
}

// Disjoint reports whether s and other share no members.
func (s CardSet) Disjoint(other CardSet) bool {
	return s&other == 0
}

// Pop removes and returns the lowest-value card in s. Fails with
// ErrEmptySet if s has no members.
func (s CardSet) Pop() (Card, CardSet, error) {
	if s.IsEmpty() {
		return Card{}, s, ErrEmptySet
	}
	v := uint8(bits.TrailingZeros64(uint64(s)))
	c := FromValue(v)
	return c, s.Remove(c), nil
}

// Cards returns the members of s in ascending card-value order. Iteration
// order is stable across identical sets because it is derived purely
// from the bitmask.
func (s CardSet) Cards() []Card {
	out := make([]Card, 0, s.Len())
	for rem := s; rem != 0; {
		v := uint8(bits.TrailingZeros64(uint64(rem)))
		out = append(out, FromValue(v))
		rem &= rem - 1
	}
	return out
}
