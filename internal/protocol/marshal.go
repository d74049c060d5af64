package protocol

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/sixseat/holdem/internal/deck"
)

// Frame sizes in bytes. Short reads and writes are transport failures and
// mark the seat as having left.
const (
	ClientFrameSize = 8
	ServerFrameSize = 132

	serverPayloadSize = ServerFrameSize - 4
)

// EncodeClient serializes a client packet into its 8-byte frame.
func EncodeClient(p ClientPacket) []byte {
	buf := make([]byte, ClientFrameSize)
	binary.LittleEndian.PutUint32(buf[0:], uint32(p.Type))
	binary.LittleEndian.PutUint32(buf[4:], uint32(p.Param))
	return buf
}

// DecodeClient parses an 8-byte client frame.
func DecodeClient(buf []byte) (ClientPacket, error) {
	if len(buf) != ClientFrameSize {
		return ClientPacket{}, fmt.Errorf("client frame is %d bytes, want %d", len(buf), ClientFrameSize)
	}
	return ClientPacket{
		Type:  ClientType(int32(binary.LittleEndian.Uint32(buf[0:]))),
		Param: int32(binary.LittleEndian.Uint32(buf[4:])),
	}, nil
}

// EncodeServer serializes a server packet into its 132-byte frame. The
// payload area beyond the variant's fields is zero.
func EncodeServer(p *ServerPacket) ([]byte, error) {
	buf := make([]byte, ServerFrameSize)
	binary.LittleEndian.PutUint32(buf[0:], uint32(p.Type))
	w := cursor{buf: buf[4:]}

	switch p.Type {
	case Ack, Nack, Halt:
		// No payload.
	case Info:
		if p.Info == nil {
			return nil, fmt.Errorf("info packet without payload")
		}
		in := p.Info
		w.cards(in.Hole[:])
		w.cards(in.Community[:])
		w.ints(in.Stacks[:])
		w.ints(in.Bets[:])
		w.ints(in.Status[:])
		w.int32(in.Pot)
		w.int32(in.HighestBet)
		w.int32(in.Dealer)
		w.int32(in.Turn)
	case End:
		if p.End == nil {
			return nil, fmt.Errorf("end packet without payload")
		}
		en := p.End
		for i := range en.Hole {
			w.cards(en.Hole[i][:])
		}
		w.cards(en.Community[:])
		w.ints(en.Stacks[:])
		w.int32(en.Pot)
		w.int32(en.Dealer)
		w.int32(en.Winner)
		w.ints(en.Status[:])
	default:
		return nil, fmt.Errorf("unknown server packet type %d", p.Type)
	}

	return buf, nil
}

// DecodeServer parses a 132-byte server frame.
func DecodeServer(buf []byte) (*ServerPacket, error) {
	if len(buf) != ServerFrameSize {
		return nil, fmt.Errorf("server frame is %d bytes, want %d", len(buf), ServerFrameSize)
	}

	p := &ServerPacket{Type: ServerType(int32(binary.LittleEndian.Uint32(buf[0:])))}
	r := cursor{buf: buf[4:]}

	switch p.Type {
	case Ack, Nack, Halt:
	case Info:
		in := &InfoPayload{}
		r.readCards(in.Hole[:])
		r.readCards(in.Community[:])
		r.readInts(in.Stacks[:])
		r.readInts(in.Bets[:])
		r.readInts(in.Status[:])
		in.Pot = r.readInt32()
		in.HighestBet = r.readInt32()
		in.Dealer = r.readInt32()
		in.Turn = r.readInt32()
		p.Info = in
	case End:
		en := &EndPayload{}
		for i := range en.Hole {
			r.readCards(en.Hole[i][:])
		}
		r.readCards(en.Community[:])
		r.readInts(en.Stacks[:])
		en.Pot = r.readInt32()
		en.Dealer = r.readInt32()
		en.Winner = r.readInt32()
		r.readInts(en.Status[:])
		p.End = en
	default:
		return nil, fmt.Errorf("unknown server packet type %d", p.Type)
	}

	return p, nil
}

// ReadClient reads one full client frame from the stream.
func ReadClient(r io.Reader) (ClientPacket, error) {
	buf := make([]byte, ClientFrameSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return ClientPacket{}, err
	}
	return DecodeClient(buf)
}

// WriteClient writes one client frame to the stream.
func WriteClient(w io.Writer, p ClientPacket) error {
	_, err := w.Write(EncodeClient(p))
	return err
}

// ReadServer reads one full server frame from the stream.
func ReadServer(r io.Reader) (*ServerPacket, error) {
	buf := make([]byte, ServerFrameSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return DecodeServer(buf)
}

// WriteServer writes one server frame to the stream.
func WriteServer(w io.Writer, p *ServerPacket) error {
	buf, err := EncodeServer(p)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// cursor walks a payload area four bytes at a time. Encode and decode use
// the same field order, which is what keeps the layout consistent.
type cursor struct {
	buf []byte
	off int
}

func (c *cursor) int32(v int32) {
	binary.LittleEndian.PutUint32(c.buf[c.off:], uint32(v))
	c.off += 4
}

func (c *cursor) ints(vs []int32) {
	for _, v := range vs {
		c.int32(v)
	}
}

func (c *cursor) cards(cs []deck.Card) {
	for _, card := range cs {
		c.int32(int32(card))
	}
}

func (c *cursor) readInt32() int32 {
	v := int32(binary.LittleEndian.Uint32(c.buf[c.off:]))
	c.off += 4
	return v
}

func (c *cursor) readInts(vs []int32) {
	for i := range vs {
		vs[i] = c.readInt32()
	}
}

func (c *cursor) readCards(cs []deck.Card) {
	for i := range cs {
		cs[i] = deck.Card(c.readInt32())
	}
}
