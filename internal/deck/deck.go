package deck

import (
	rand "math/rand/v2"
)

// Size is the number of cards in a full deck.
const Size = 52

// Deck is a full 52-card deck with a cursor at the next card to deal.
// Shuffling is driven by the injected RNG so a given seed reproduces a
// given sequence of hands.
type Deck struct {
	cards [Size]Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates an unshuffled deck in canonical order: rank-major,
// suit-minor. The construction order feeds the shuffle, so changing it
// changes every seeded replay.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	i := 0
	for r := Two; r <= Ace; r++ {
		for s := Diamonds; s <= Spades; s++ {
			d.cards[i] = New(r, s)
			i++
		}
	}
	return d
}

// Shuffle runs a forward Fisher-Yates pass over the whole deck and rewinds
// the cursor.
func (d *Deck) Shuffle() {
	d.next = 0
	for i := 0; i < Size-1; i++ {
		j := i + d.rng.IntN(Size-i)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw deals the next card. Drawing past the end returns NoCard, which
// cannot happen in a six-seat hand (6*2 + 5 < 52).
func (d *Deck) Draw() Card {
	if d.next >= Size {
		return NoCard
	}
	c := d.cards[d.next]
	d.next++
	return c
}

// Remaining returns the number of undealt cards
func (d *Deck) Remaining() int {
	return Size - d.next
}
