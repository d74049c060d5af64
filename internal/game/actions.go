package game

import "errors"

// Validation errors surfaced as NACKs. None of them mutate table state.
var (
	ErrOutOfTurn         = errors.New("not this seat's turn")
	ErrSeatNotActive     = errors.New("seat cannot act")
	ErrCheckFacingBet    = errors.New("cannot check facing a bet")
	ErrNothingToCall     = errors.New("nothing to call")
	ErrInsufficientChips = errors.New("insufficient chips")
	ErrRaiseTooSmall     = errors.New("raise target does not exceed highest bet")
	ErrUnknownAction     = errors.New("unknown action")
)

// ActionKind discriminates the betting actions a seat can take.
type ActionKind int32

const (
	ActionCheck ActionKind = iota
	ActionCall
	ActionRaise
	ActionFold
)

// String returns the lowercase action verb.
func (k ActionKind) String() string {
	switch k {
	case ActionCheck:
		return "check"
	case ActionCall:
		return "call"
	case ActionRaise:
		return "raise"
	case ActionFold:
		return "fold"
	default:
		return "unknown"
	}
}

// Action is a betting decision. Target is the raise-to amount for
// ActionRaise and ignored otherwise.
type Action struct {
	Kind   ActionKind
	Target int32
}

// Apply validates and applies one action for the given seat. A nil return
// means the action was accepted and state advanced; any error leaves the
// table untouched and maps to a NACK.
//
// Validation follows the table rules exactly: CHECK only with nothing to
// call; CALL only when the full amount fits in the stack (calling all-in
// for less is rejected); RAISE must strictly exceed the highest bet and
// fit in the stack. A raise clears every other active seat's acted flag,
// re-opening the action to them.
func (t *Table) Apply(seat int, a Action) error {
	if seat != t.Turn {
		return ErrOutOfTurn
	}
	s := &t.Seats[seat]
	if s.Status != StatusActive {
		return ErrSeatNotActive
	}

	toCall := t.HighestBet - s.Bet

	switch a.Kind {
	case ActionCheck:
		if toCall != 0 {
			return ErrCheckFacingBet
		}
		s.Acted = true

	case ActionCall:
		if toCall <= 0 {
			return ErrNothingToCall
		}
		if toCall > s.Stack {
			return ErrInsufficientChips
		}
		t.commit(s, toCall)
		s.Acted = true

	case ActionRaise:
		if a.Target <= t.HighestBet {
			return ErrRaiseTooSmall
		}
		need := a.Target - s.Bet
		if need <= 0 {
			return ErrRaiseTooSmall
		}
		if need > s.Stack {
			return ErrInsufficientChips
		}
		t.commit(s, need)
		t.HighestBet = a.Target
		// Everyone else gets to respond to the raise.
		for i := range t.Seats {
			if i != seat && t.Seats[i].Status == StatusActive {
				t.Seats[i].Acted = false
			}
		}
		s.Acted = true

	case ActionFold:
		s.Status = StatusFolded
		s.Acted = true

	default:
		return ErrUnknownAction
	}

	return nil
}

// commit moves chips from the seat's stack into the pot through its
// street bet, transitioning to all-in when the stack empties.
func (t *Table) commit(s *Seat, amount int32) {
	s.Stack -= amount
	s.Bet += amount
	t.Pot += amount
	if s.Stack == 0 {
		s.Status = StatusAllIn
	}
}

// StreetDone reports whether the betting round is settled: every active
// seat has acted this street and matches the highest bet. All-in seats
// count as satisfied; a raise re-opens the round by clearing acted flags.
func (t *Table) StreetDone() bool {
	for i := range t.Seats {
		s := &t.Seats[i]
		if s.Status != StatusActive {
			continue
		}
		if !s.Acted || s.Bet != t.HighestBet {
			return false
		}
	}
	return true
}
