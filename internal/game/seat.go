package game

import "github.com/sixseat/holdem/internal/deck"

// Status is the lifecycle state of a seat within a hand.
type Status int32

const (
	// StatusLeft marks a seat whose channel is gone. The seat record
	// persists only to hold its final stack.
	StatusLeft Status = iota
	StatusActive
	StatusFolded
	StatusAllIn
)

// String returns a readable status name.
func (s Status) String() string {
	switch s {
	case StatusLeft:
		return "left"
	case StatusActive:
		return "active"
	case StatusFolded:
		return "folded"
	case StatusAllIn:
		return "all-in"
	default:
		return "unknown"
	}
}

// Wire status values: 1 for in hand (active or all-in), 0 folded, 2 left.
const (
	wireFolded int32 = 0
	wireInHand int32 = 1
	wireLeft   int32 = 2
)

// Seat is one of the six fixed positions at the table.
type Seat struct {
	Status Status
	Stack  int32
	Hole   [2]deck.Card
	// Bet is the chips committed this street; it feeds the pot as the
	// action handler moves chips.
	Bet int32
	// Acted is cleared at each new street and whenever a raise re-opens
	// the action.
	Acted bool
}

// InHand reports whether the seat still contends for the pot.
func (s *Seat) InHand() bool {
	return s.Status == StatusActive || s.Status == StatusAllIn
}

// WireStatus returns the status value as broadcast to clients.
func (s *Seat) WireStatus() int32 {
	switch s.Status {
	case StatusActive, StatusAllIn:
		return wireInHand
	case StatusFolded:
		return wireFolded
	default:
		return wireLeft
	}
}
