// Package protocol defines the fixed-size wire records exchanged between
// the table server and its six seats, and their encoding.
//
// Every frame is a fixed number of bytes with little-endian int32 fields,
// so both sides frame the stream with a single full read. Client frames
// are 8 bytes; server frames are 132 bytes with a payload area sized for
// the largest variant (END). Variants without a payload leave the area
// zeroed.
package protocol

import "github.com/sixseat/holdem/internal/deck"

// NumSeats is the fixed table size.
const NumSeats = 6

// ClientType identifies a client-to-server message.
type ClientType int32

const (
	Join ClientType = iota
	Leave
	Ready
	Raise
	Call
	Check
	Fold
)

// String returns the lowercase wire verb for the message type.
func (t ClientType) String() string {
	switch t {
	case Join:
		return "join"
	case Leave:
		return "leave"
	case Ready:
		return "ready"
	case Raise:
		return "raise"
	case Call:
		return "call"
	case Check:
		return "check"
	case Fold:
		return "fold"
	default:
		return "unknown"
	}
}

// ServerType identifies a server-to-client message.
type ServerType int32

const (
	Ack ServerType = iota
	Nack
	Info
	End
	Halt
)

// String returns a readable name for the message type.
func (t ServerType) String() string {
	switch t {
	case Ack:
		return "ack"
	case Nack:
		return "nack"
	case Info:
		return "info"
	case End:
		return "end"
	case Halt:
		return "halt"
	default:
		return "unknown"
	}
}

// Seat status values as they appear on the wire.
const (
	WireFolded int32 = 0
	WireInHand int32 = 1 // active or all-in
	WireLeft   int32 = 2
)

// ClientPacket is any client-to-server message. Param carries the raise
// target for Raise and is zero otherwise.
type ClientPacket struct {
	Type  ClientType
	Param int32
}

// InfoPayload is the per-seat view of the table during a hand. Hole cards
// are the recipient's only; unrevealed community slots are NoCard.
type InfoPayload struct {
	Hole       [2]deck.Card
	Community  [5]deck.Card
	Stacks     [NumSeats]int32
	Bets       [NumSeats]int32
	Status     [NumSeats]int32
	Pot        int32
	HighestBet int32
	Dealer     int32
	Turn       int32
}

// EndPayload closes out a hand: every seat's hole cards are revealed and
// stacks are post-payout. Community slots the hand never reached stay
// NoCard.
type EndPayload struct {
	Hole      [NumSeats][2]deck.Card
	Community [5]deck.Card
	Stacks    [NumSeats]int32
	Pot       int32
	Dealer    int32
	Winner    int32
	Status    [NumSeats]int32
}

// ServerPacket is the tagged union of server-to-client messages. Exactly
// one of Info and End is non-nil, and only for the matching Type.
type ServerPacket struct {
	Type ServerType
	Info *InfoPayload
	End  *EndPayload
}
