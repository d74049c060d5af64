package game

import (
	rand "math/rand/v2"

	"github.com/sixseat/holdem/internal/deck"
	"github.com/sixseat/holdem/internal/evaluator"
)

// NumSeats is the fixed table size.
const NumSeats = 6

// Stage is the position of the table in the hand lifecycle.
type Stage int32

const (
	StageJoin Stage = iota
	StageInit
	StagePreflop
	StageFlop
	StageTurn
	StageRiver
	StageShowdown
)

// String returns the lowercase stage name.
func (s Stage) String() string {
	switch s {
	case StageJoin:
		return "join"
	case StageInit:
		return "init"
	case StagePreflop:
		return "preflop"
	case StageFlop:
		return "flop"
	case StageTurn:
		return "turn"
	case StageRiver:
		return "river"
	case StageShowdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// Table is the authoritative game state. It is owned by the game loop and
// never mutated elsewhere; all betting state lives in explicit fields
// rather than anything ambient.
type Table struct {
	Seats      [NumSeats]Seat
	Dealer     int
	Turn       int
	Community  [5]deck.Card
	HighestBet int32
	Pot        int32
	Stage      Stage

	deck      *deck.Deck
	firstHand bool
}

// NewTable creates a table in the join stage with every seat vacant. The
// RNG drives all shuffles for the lifetime of the table.
func NewTable(rng *rand.Rand, startingStack int32) *Table {
	t := &Table{
		Stage:     StageJoin,
		deck:      deck.NewDeck(rng),
		firstHand: true,
	}
	for i := range t.Seats {
		t.Seats[i] = Seat{
			Status: StatusLeft,
			Stack:  startingStack,
			Hole:   [2]deck.Card{deck.NoCard, deck.NoCard},
		}
	}
	for i := range t.Community {
		t.Community[i] = deck.NoCard
	}
	return t
}

// SeatJoin activates a seat at accept time.
func (t *Table) SeatJoin(seat int) {
	t.Seats[seat].Status = StatusActive
}

// SeatLeave retires a seat permanently. The final stack value stays on
// the record.
func (t *Table) SeatLeave(seat int) {
	t.Seats[seat].Status = StatusLeft
}

// ResetHand prepares the table for a new hand: fresh shuffle, sentinels
// everywhere, all non-left seats promoted back to active, and the button
// advanced to the next occupied seat.
func (t *Table) ResetHand() {
	t.deck.Shuffle()
	t.Pot = 0
	t.HighestBet = 0

	for i := range t.Seats {
		s := &t.Seats[i]
		s.Hole = [2]deck.Card{deck.NoCard, deck.NoCard}
		s.Bet = 0
		s.Acted = false
		if s.Status != StatusLeft {
			s.Status = StatusActive
		}
	}
	for i := range t.Community {
		t.Community[i] = deck.NoCard
	}

	t.advanceDealer()
	t.Stage = StageInit
}

// advanceDealer moves the button to the next non-left seat clockwise. The
// first hand instead picks the lowest-index occupied seat.
func (t *Table) advanceDealer() {
	if t.firstHand {
		t.firstHand = false
		for i := range t.Seats {
			if t.Seats[i].Status != StatusLeft {
				t.Dealer = i
				return
			}
		}
		return
	}
	for i := 1; i <= NumSeats; i++ {
		cand := (t.Dealer + i) % NumSeats
		if t.Seats[cand].Status != StatusLeft {
			t.Dealer = cand
			return
		}
	}
}

// DealHole gives every active seat two cards in standard order: one card
// each in ascending seat order, then the second pass. Moves the table to
// preflop.
func (t *Table) DealHole() {
	for pass := 0; pass < 2; pass++ {
		for i := range t.Seats {
			if t.Seats[i].Status == StatusActive {
				t.Seats[i].Hole[pass] = t.deck.Draw()
			}
		}
	}
	t.Stage = StagePreflop
}

// DealCommunity reveals the next street's cards: three on the flop, one
// on the turn and river. No burn cards. Advances the stage.
func (t *Table) DealCommunity() {
	switch t.Stage {
	case StagePreflop:
		for i := 0; i < 3; i++ {
			t.Community[i] = t.deck.Draw()
		}
		t.Stage = StageFlop
	case StageFlop:
		t.Community[3] = t.deck.Draw()
		t.Stage = StageTurn
	case StageTurn:
		t.Community[4] = t.deck.Draw()
		t.Stage = StageRiver
	}
}

// ResetStreet opens a betting round: per-seat bets and acted flags clear,
// the highest bet drops to zero, and action starts at the first active
// seat strictly clockwise of the dealer.
func (t *Table) ResetStreet() {
	for i := range t.Seats {
		t.Seats[i].Bet = 0
		t.Seats[i].Acted = false
	}
	t.HighestBet = 0
	t.Turn = t.NextActive(t.Dealer)
}

// NextActive returns the first active seat strictly clockwise from the
// given seat, or -1 when no seat can act.
func (t *Table) NextActive(from int) int {
	for i := 1; i <= NumSeats; i++ {
		cand := (from + i) % NumSeats
		if t.Seats[cand].Status == StatusActive {
			return cand
		}
	}
	return -1
}

// AdvanceTurn moves the action to the next active seat.
func (t *Table) AdvanceTurn() {
	t.Turn = t.NextActive(t.Turn)
}

// Contenders counts seats still eligible for the pot.
func (t *Table) Contenders() int {
	n := 0
	for i := range t.Seats {
		if t.Seats[i].InHand() {
			n++
		}
	}
	return n
}

// LastContender returns the only remaining in-hand seat, or -1 if the
// hand is still contested.
func (t *Table) LastContender() int {
	last := -1
	for i := range t.Seats {
		if t.Seats[i].InHand() {
			if last >= 0 {
				return -1
			}
			last = i
		}
	}
	return last
}

// Occupied counts seats that have not left.
func (t *Table) Occupied() int {
	n := 0
	for i := range t.Seats {
		if t.Seats[i].Status != StatusLeft {
			n++
		}
	}
	return n
}

// EvaluateSeat scores a seat's hole cards together with the visible
// community cards.
func (t *Table) EvaluateSeat(seat int) evaluator.Score {
	cards := make([]deck.Card, 0, 7)
	cards = append(cards, t.Seats[seat].Hole[:]...)
	cards = append(cards, t.Community[:]...)
	return evaluator.Evaluate(cards)
}

// FindWinner picks the showdown winner among in-hand seats. Ties go to
// the lowest seat index.
func (t *Table) FindWinner() int {
	winner := -1
	var best evaluator.Score
	for i := range t.Seats {
		if !t.Seats[i].InHand() {
			continue
		}
		score := t.EvaluateSeat(i)
		if winner == -1 || score > best {
			winner = i
			best = score
		}
	}
	return winner
}

// Payout awards the whole pot to the winner and empties it.
func (t *Table) Payout(winner int) {
	t.Seats[winner].Stack += t.Pot
	t.Pot = 0
}

// ForfeitPot discards a pot that can no longer be awarded because every
// contender is gone, returning the amount discarded. Keeping the zeroing
// explicit here keeps chip movement auditable at the call site.
func (t *Table) ForfeitPot() int32 {
	p := t.Pot
	t.Pot = 0
	return p
}
