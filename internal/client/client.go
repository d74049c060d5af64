// Package client connects to one seat of a table and exposes the wire
// protocol as typed calls plus a message-handler loop.
package client

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sixseat/holdem/internal/protocol"
)

// Handler receives the server's broadcast messages. Betting replies (ACK
// and NACK) are consumed by the action helpers and never reach it.
type Handler interface {
	OnInfo(*protocol.InfoPayload)
	OnEnd(*protocol.EndPayload)
	OnHalt()
}

// Client is one seat's connection. Not safe for concurrent use; the
// intended shape is a single loop calling Run with action helpers invoked
// from inside the handler.
type Client struct {
	seat   int
	conn   net.Conn
	logger *log.Logger
}

// NewClient wraps an established connection that has already joined.
func NewClient(conn net.Conn, seat int, logger *log.Logger) *Client {
	return &Client{
		seat:   seat,
		conn:   conn,
		logger: logger.WithPrefix("client").With("seat", seat),
	}
}

// Dial connects to the seat's port and sends JOIN. The server may not be
// up yet, so the dial retries with a doubling delay for a few seconds.
func Dial(host string, basePort, seat int, logger *log.Logger) (*Client, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(basePort+seat))

	var conn net.Conn
	var err error
	for delay := 100 * time.Millisecond; delay < 8*time.Second; delay *= 2 {
		conn, err = net.Dial("tcp", addr)
		if err == nil {
			break
		}
		logger.Debug("Connect failed, retrying", "addr", addr, "delay", delay, "error", err)
		time.Sleep(delay)
	}
	if err != nil {
		return nil, fmt.Errorf("connect seat %d at %s: %w", seat, addr, err)
	}

	c := NewClient(conn, seat, logger)
	if err := c.write(protocol.ClientPacket{Type: protocol.Join}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("join seat %d: %w", seat, err)
	}
	c.logger.Info("Joined table", "addr", addr)
	return c, nil
}

// Seat returns the seat index this client occupies.
func (c *Client) Seat() int {
	return c.seat
}

// Close tears the connection down.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Recv blocks for the next server frame.
func (c *Client) Recv() (*protocol.ServerPacket, error) {
	return protocol.ReadServer(c.conn)
}

// Run dispatches server messages to the handler until HALT arrives or the
// stream ends. A HALT is a clean finish.
func (c *Client) Run(h Handler) error {
	for {
		pkt, err := c.Recv()
		if err != nil {
			return err
		}
		switch pkt.Type {
		case protocol.Info:
			h.OnInfo(pkt.Info)
		case protocol.End:
			h.OnEnd(pkt.End)
		case protocol.Halt:
			c.logger.Info("Server halted")
			h.OnHalt()
			return nil
		default:
			c.logger.Warn("Unexpected frame outside an action", "type", pkt.Type)
		}
	}
}

// Ready signals willingness to play the next hand. The server does not
// reply to READY; the next frame is the opening INFO of the hand.
func (c *Client) Ready() error {
	return c.write(protocol.ClientPacket{Type: protocol.Ready})
}

// Leave retires the seat. The connection is of no further use afterwards.
func (c *Client) Leave() error {
	return c.write(protocol.ClientPacket{Type: protocol.Leave})
}

// Check passes the action with nothing to call.
func (c *Client) Check() (bool, error) {
	return c.act(protocol.ClientPacket{Type: protocol.Check})
}

// Call matches the highest bet.
func (c *Client) Call() (bool, error) {
	return c.act(protocol.ClientPacket{Type: protocol.Call})
}

// RaiseTo raises the street's bet to the given total.
func (c *Client) RaiseTo(target int32) (bool, error) {
	return c.act(protocol.ClientPacket{Type: protocol.Raise, Param: target})
}

// Fold gives up the hand.
func (c *Client) Fold() (bool, error) {
	return c.act(protocol.ClientPacket{Type: protocol.Fold})
}

// act sends a betting action and reads its reply. When acting on turn the
// server answers with ACK or NACK before broadcasting anything else, so
// the reply is always the next frame. Returns whether it was accepted.
func (c *Client) act(pkt protocol.ClientPacket) (bool, error) {
	if err := c.write(pkt); err != nil {
		return false, err
	}
	reply, err := c.Recv()
	if err != nil {
		return false, err
	}
	switch reply.Type {
	case protocol.Ack:
		return true, nil
	case protocol.Nack:
		c.logger.Debug("Action rejected", "action", pkt.Type)
		return false, nil
	default:
		return false, fmt.Errorf("expected ack or nack for %s, got %s", pkt.Type, reply.Type)
	}
}

func (c *Client) write(pkt protocol.ClientPacket) error {
	c.logger.Debug("Sending", "type", pkt.Type, "param", pkt.Param)
	return protocol.WriteClient(c.conn, pkt)
}
