package deck

import "fmt"

// Card is a playing card packed into an int32: the low two bits hold the
// suit and the remaining bits the rank (0 = two .. 12 = ace). The packing
// is carried bit-exact onto the wire, so ordering of the constants below
// must not change.
type Card int32

// NoCard marks an absent card: an undealt community slot or the hole
// cards of a seat that never saw the deal.
const NoCard Card = -1

const suitBits = 2

// Suit represents a card suit
type Suit int32

const (
	Diamonds Suit = iota
	Clubs
	Hearts
	Spades
)

// String returns the one-letter suit notation
func (s Suit) String() string {
	switch s {
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	case Hearts:
		return "h"
	case Spades:
		return "s"
	default:
		return "?"
	}
}

// Glyph returns the unicode suit symbol
func (s Suit) Glyph() string {
	switch s {
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Rank represents a card rank, two low, ace high
type Rank int32

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the one-letter rank notation
func (r Rank) String() string {
	const letters = "23456789TJQKA"
	if r < Two || r > Ace {
		return "?"
	}
	return string(letters[r])
}

// New packs a rank and suit into a Card
func New(r Rank, s Suit) Card {
	return Card(int32(r)<<suitBits | int32(s))
}

// Rank returns the card's rank
func (c Card) Rank() Rank {
	return Rank(c >> suitBits)
}

// Suit returns the card's suit
func (c Card) Suit() Suit {
	return Suit(c & (1<<suitBits - 1))
}

// Valid reports whether c is one of the 52 real cards
func (c Card) Valid() bool {
	return c >= 0 && c < 52
}

// String returns the two-letter notation (e.g. "As", "Td"). NoCard renders
// as "--".
func (c Card) String() string {
	if !c.Valid() {
		return "--"
	}
	return c.Rank().String() + c.Suit().String()
}

// Fancy returns the unicode rendering (e.g. "A♠") used in log output
func (c Card) Fancy() string {
	if !c.Valid() {
		return "--"
	}
	return c.Rank().String() + c.Suit().Glyph()
}

// Parse converts two-letter notation back into a Card.
func Parse(s string) (Card, error) {
	if len(s) != 2 {
		return NoCard, fmt.Errorf("invalid card %q", s)
	}

	var rank Rank
	switch s[0] {
	case 'A', 'a':
		rank = Ace
	case 'K', 'k':
		rank = King
	case 'Q', 'q':
		rank = Queen
	case 'J', 'j':
		rank = Jack
	case 'T', 't':
		rank = Ten
	case '9', '8', '7', '6', '5', '4', '3', '2':
		rank = Rank(s[0] - '2')
	default:
		return NoCard, fmt.Errorf("invalid rank %q", s[0])
	}

	var suit Suit
	switch s[1] {
	case 'd', 'D':
		suit = Diamonds
	case 'c', 'C':
		suit = Clubs
	case 'h', 'H':
		suit = Hearts
	case 's', 'S':
		suit = Spades
	default:
		return NoCard, fmt.Errorf("invalid suit %q", s[1])
	}

	return New(rank, suit), nil
}

// MustParse parses a card and panics on error. For tests.
func MustParse(s string) Card {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// MustParseAll parses a run of two-letter cards ("AsKsQs"). For tests.
func MustParseAll(s string) []Card {
	if len(s)%2 != 0 {
		panic(fmt.Sprintf("odd card string %q", s))
	}
	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		cards = append(cards, MustParse(s[i:i+2]))
	}
	return cards
}
