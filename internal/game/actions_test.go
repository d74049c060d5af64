package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixseat/holdem/internal/randutil"
)

const startingStack = 100

// sixSeatTable returns a table mid-preflop with all six seats dealt in.
// Dealer is seat 0 on the first hand, so action opens on seat 1.
func sixSeatTable(t *testing.T) *Table {
	t.Helper()
	tbl := NewTable(randutil.New(42), startingStack)
	for i := 0; i < NumSeats; i++ {
		tbl.SeatJoin(i)
	}
	tbl.ResetHand()
	tbl.DealHole()
	tbl.ResetStreet()
	require.Equal(t, 0, tbl.Dealer)
	require.Equal(t, 1, tbl.Turn)
	return tbl
}

// checkInvariants asserts the chip and bet invariants that must hold
// between handler invocations.
func checkInvariants(t *testing.T, tbl *Table) {
	t.Helper()

	total := tbl.Pot
	for i := range tbl.Seats {
		total += tbl.Seats[i].Stack
	}
	assert.Equal(t, int32(NumSeats*startingStack), total, "chip conservation")

	var maxBet int32
	for i := range tbl.Seats {
		s := &tbl.Seats[i]
		if s.InHand() && s.Bet > maxBet {
			maxBet = s.Bet
		}
		if s.Status == StatusActive {
			assert.LessOrEqual(t, s.Bet, tbl.HighestBet, "seat %d overcommitted", i)
		}
	}
	assert.Equal(t, maxBet, tbl.HighestBet, "highest bet consistency")
}

func TestCheckRequiresNoBet(t *testing.T) {
	tbl := sixSeatTable(t)

	require.NoError(t, tbl.Apply(1, Action{Kind: ActionCheck}))
	assert.True(t, tbl.Seats[1].Acted)
	checkInvariants(t, tbl)

	tbl.AdvanceTurn()
	require.NoError(t, tbl.Apply(2, Action{Kind: ActionRaise, Target: 10}))
	tbl.AdvanceTurn()
	assert.ErrorIs(t, tbl.Apply(3, Action{Kind: ActionCheck}), ErrCheckFacingBet)
	assert.Equal(t, 3, tbl.Turn, "turn unchanged after NACK")
	checkInvariants(t, tbl)
}

func TestCallMovesChips(t *testing.T) {
	tbl := sixSeatTable(t)

	// Calling with nothing outstanding is rejected.
	assert.ErrorIs(t, tbl.Apply(1, Action{Kind: ActionCall}), ErrNothingToCall)

	require.NoError(t, tbl.Apply(1, Action{Kind: ActionRaise, Target: 10}))
	tbl.AdvanceTurn()
	require.NoError(t, tbl.Apply(2, Action{Kind: ActionCall}))

	assert.Equal(t, int32(90), tbl.Seats[2].Stack)
	assert.Equal(t, int32(10), tbl.Seats[2].Bet)
	assert.Equal(t, int32(20), tbl.Pot)
	checkInvariants(t, tbl)
}

func TestCallAllInForLessRejected(t *testing.T) {
	tbl := sixSeatTable(t)
	tbl.Seats[2].Stack = 5

	require.NoError(t, tbl.Apply(1, Action{Kind: ActionRaise, Target: 10}))
	tbl.AdvanceTurn()

	// Seat 2 cannot cover the call; the policy is a plain rejection, not
	// an implicit all-in.
	assert.ErrorIs(t, tbl.Apply(2, Action{Kind: ActionCall}), ErrInsufficientChips)
	assert.Equal(t, int32(5), tbl.Seats[2].Stack)
	assert.Equal(t, int32(0), tbl.Seats[2].Bet)
}

func TestRaiseReopensAction(t *testing.T) {
	tbl := sixSeatTable(t)

	require.NoError(t, tbl.Apply(1, Action{Kind: ActionCheck}))
	tbl.AdvanceTurn()
	require.NoError(t, tbl.Apply(2, Action{Kind: ActionRaise, Target: 10}))

	// The raise clears every other active seat's acted flag.
	assert.False(t, tbl.Seats[1].Acted)
	assert.True(t, tbl.Seats[2].Acted)
	for _, i := range []int{0, 3, 4, 5} {
		assert.False(t, tbl.Seats[i].Acted, "seat %d", i)
	}
	checkInvariants(t, tbl)
}

func TestRaiseMustExceedHighestBet(t *testing.T) {
	tbl := sixSeatTable(t)

	require.NoError(t, tbl.Apply(1, Action{Kind: ActionRaise, Target: 10}))
	tbl.AdvanceTurn()

	// Matching the highest bet is not a raise, even with chips to spare.
	err := tbl.Apply(2, Action{Kind: ActionRaise, Target: 10})
	assert.ErrorIs(t, err, ErrRaiseTooSmall)
	assert.Equal(t, int32(10), tbl.HighestBet)
	assert.Equal(t, 2, tbl.Turn, "same seat reprompted")
	checkInvariants(t, tbl)

	err = tbl.Apply(2, Action{Kind: ActionRaise, Target: int32(startingStack) + 50})
	assert.ErrorIs(t, err, ErrInsufficientChips)
}

func TestRaiseAllInTransition(t *testing.T) {
	tbl := sixSeatTable(t)
	tbl.Seats[1].Stack = 7

	require.NoError(t, tbl.Apply(1, Action{Kind: ActionRaise, Target: 7}))

	assert.Equal(t, int32(0), tbl.Seats[1].Stack)
	assert.Equal(t, int32(7), tbl.Pot)
	assert.Equal(t, int32(7), tbl.HighestBet)
	assert.Equal(t, StatusAllIn, tbl.Seats[1].Status)
	for _, i := range []int{0, 2, 3, 4, 5} {
		assert.False(t, tbl.Seats[i].Acted, "seat %d re-opened", i)
	}
}

func TestFoldLeavesBetInPot(t *testing.T) {
	tbl := sixSeatTable(t)

	require.NoError(t, tbl.Apply(1, Action{Kind: ActionRaise, Target: 10}))
	tbl.AdvanceTurn()
	require.NoError(t, tbl.Apply(2, Action{Kind: ActionCall}))
	tbl.AdvanceTurn()
	require.NoError(t, tbl.Apply(3, Action{Kind: ActionFold}))

	assert.Equal(t, StatusFolded, tbl.Seats[3].Status)
	assert.Equal(t, int32(20), tbl.Pot)
	checkInvariants(t, tbl)
}

func TestOutOfTurnRejected(t *testing.T) {
	tbl := sixSeatTable(t)

	assert.ErrorIs(t, tbl.Apply(2, Action{Kind: ActionCheck}), ErrOutOfTurn)

	tbl.Seats[1].Status = StatusFolded
	assert.ErrorIs(t, tbl.Apply(1, Action{Kind: ActionCheck}), ErrSeatNotActive)
}

func TestUnknownActionRejected(t *testing.T) {
	tbl := sixSeatTable(t)
	assert.ErrorIs(t, tbl.Apply(1, Action{Kind: ActionKind(99)}), ErrUnknownAction)
}
