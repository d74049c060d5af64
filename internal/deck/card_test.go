package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardPacking(t *testing.T) {
	// Low two bits are the suit, the rest the rank.
	c := New(Ace, Spades)
	assert.Equal(t, Card(12<<2|3), c)
	assert.Equal(t, Ace, c.Rank())
	assert.Equal(t, Spades, c.Suit())

	c = New(Two, Diamonds)
	assert.Equal(t, Card(0), c)
	assert.Equal(t, Two, c.Rank())
	assert.Equal(t, Diamonds, c.Suit())
}

func TestCardString(t *testing.T) {
	tests := []struct {
		card Card
		want string
	}{
		{New(Ace, Spades), "As"},
		{New(Ten, Diamonds), "Td"},
		{New(Two, Clubs), "2c"},
		{New(King, Hearts), "Kh"},
		{NoCard, "--"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.card.String())
	}
}

func TestCardFancy(t *testing.T) {
	assert.Equal(t, "A♠", New(Ace, Spades).Fancy())
	assert.Equal(t, "7♥", New(Seven, Hearts).Fancy())
	assert.Equal(t, "--", NoCard.Fancy())
}

func TestParse(t *testing.T) {
	for _, s := range []string{"As", "Kh", "Qd", "Jc", "Ts", "9h", "2d"} {
		c, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, c.String())
	}

	for _, s := range []string{"", "A", "Asx", "Xs", "Az"} {
		_, err := Parse(s)
		assert.Error(t, err, "expected error for %q", s)
	}
}

func TestMustParseAll(t *testing.T) {
	cards := MustParseAll("AsKsQs")
	require.Len(t, cards, 3)
	assert.Equal(t, New(Ace, Spades), cards[0])
	assert.Equal(t, New(King, Spades), cards[1])
	assert.Equal(t, New(Queen, Spades), cards[2])
}
