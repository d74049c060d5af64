package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixseat/holdem/internal/randutil"
)

func TestNewDeckConstructionOrder(t *testing.T) {
	d := NewDeck(randutil.New(0))

	// Rank-major, suit-minor: index i holds (i/4)<<2 | i%4.
	for i := 0; i < Size; i++ {
		want := New(Rank(i/4), Suit(i%4))
		assert.Equal(t, want, d.cards[i], "card at %d", i)
	}
}

func TestShuffleDeterministic(t *testing.T) {
	a := NewDeck(randutil.New(42))
	b := NewDeck(randutil.New(42))
	a.Shuffle()
	b.Shuffle()

	for i := 0; i < Size; i++ {
		assert.Equal(t, a.Draw(), b.Draw())
	}

	c := NewDeck(randutil.New(43))
	c.Shuffle()
	a.Shuffle()
	same := true
	for i := 0; i < Size; i++ {
		if a.Draw() != c.Draw() {
			same = false
			break
		}
	}
	assert.False(t, same, "different seeds produced identical decks")
}

func TestShuffleIsPermutation(t *testing.T) {
	d := NewDeck(randutil.New(7))
	d.Shuffle()

	seen := make(map[Card]bool, Size)
	for i := 0; i < Size; i++ {
		c := d.Draw()
		require.True(t, c.Valid())
		require.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	assert.Equal(t, Size, len(seen))
	assert.Equal(t, NoCard, d.Draw())
}

func TestShuffleRewindsCursor(t *testing.T) {
	d := NewDeck(randutil.New(1))
	d.Shuffle()
	for i := 0; i < 10; i++ {
		d.Draw()
	}
	assert.Equal(t, Size-10, d.Remaining())

	d.Shuffle()
	assert.Equal(t, Size, d.Remaining())
}
