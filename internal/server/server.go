// Package server runs the table: it accepts the six seats, owns the game
// loop, and speaks the fixed-frame protocol over TCP.
package server

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/sixseat/holdem/internal/game"
	"github.com/sixseat/holdem/internal/observer"
	"github.com/sixseat/holdem/internal/protocol"
	"github.com/sixseat/holdem/internal/randutil"
)

// NumSeats is the fixed table size.
const NumSeats = game.NumSeats

// Server owns the table and its six seat connections. All game state is
// mutated by the single goroutine inside Run; the per-seat reader
// goroutines only feed channels.
type Server struct {
	cfg    *Config
	logger *log.Logger
	clock  quartz.Clock

	table     *game.Table
	seats     [NumSeats]*seatConn
	listeners [NumSeats]net.Listener
	hub       *observer.Hub
}

// New creates a server from a validated configuration. The clock is real
// in production and a mock in tests.
func New(cfg *Config, logger *log.Logger, clock quartz.Clock) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger.WithPrefix("server"),
		clock:  clock,
		table:  game.NewTable(randutil.New(cfg.Server.Seed), int32(cfg.Server.StartingStack)),
	}
	if cfg.Observer != nil {
		s.hub = observer.NewHub(cfg.Observer.Addr, logger)
	}
	return s
}

// Listen opens the six seat listeners on consecutive ports starting at the
// configured base.
func (s *Server) Listen() error {
	for i := 0; i < NumSeats; i++ {
		addr := net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.BasePort+i))
		l, err := net.Listen("tcp", addr)
		if err != nil {
			s.closeListeners()
			return fmt.Errorf("listen seat %d: %w", i, err)
		}
		s.listeners[i] = l
		s.logger.Info("Listening for seat", "seat", i, "addr", addr)
	}
	return nil
}

// Run accepts all six seats, then plays hands until fewer than two seats
// remain willing, the context is cancelled, or accept fails. The observer
// feed, when configured, runs for the duration.
func (s *Server) Run(ctx context.Context) error {
	if s.hub != nil {
		go func() {
			if err := s.hub.Start(); err != nil {
				s.logger.Error("Observer feed failed", "error", err)
			}
		}()
		defer s.hub.Stop()
	}

	if err := s.acceptSeats(ctx); err != nil {
		s.shutdown()
		return err
	}
	return s.serve(ctx)
}

// serve plays hands until fewer than two seats remain willing or the
// context is cancelled.
func (s *Server) serve(ctx context.Context) error {
	for {
		ready, err := s.collectReady(ctx)
		if err != nil {
			s.shutdown()
			return err
		}
		if ready < 2 {
			s.logger.Info("Not enough players, halting", "ready", ready)
			s.shutdown()
			return nil
		}

		s.table.ResetHand()
		s.table.DealHole()
		s.logger.Info("Hand started", "dealer", s.table.Dealer, "players", s.table.Occupied())

		if err := s.runHand(ctx); err != nil {
			s.shutdown()
			return err
		}
	}
}

// acceptSeats waits for all six seats to connect and send JOIN. A first
// message that is not JOIN is NACKed and the connection dropped; the seat
// stays open for the next dial.
func (s *Server) acceptSeats(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < NumSeats; i++ {
		g.Go(func() error {
			return s.acceptSeat(ctx, i)
		})
	}

	// Unblock the pending Accepts if the context ends first.
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		s.closeListeners()
	}()
	defer close(done)

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	s.closeListeners()
	s.logger.Info("All seats joined")
	return nil
}

func (s *Server) acceptSeat(ctx context.Context, seat int) error {
	for {
		conn, err := s.listeners[seat].Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("accept seat %d: %w", seat, err)
		}

		pkt, err := protocol.ReadClient(conn)
		if err != nil || pkt.Type != protocol.Join {
			s.logger.Warn("Rejecting connection without JOIN", "seat", seat, "remote", conn.RemoteAddr())
			_ = protocol.WriteServer(conn, &protocol.ServerPacket{Type: protocol.Nack})
			_ = conn.Close()
			continue
		}

		s.bindSeat(seat, conn)
		s.logger.Info("Seat joined", "seat", seat, "remote", conn.RemoteAddr())
		return nil
	}
}

// bindSeat attaches a connection to a seat and marks it active. Safe to
// call concurrently for distinct seats.
func (s *Server) bindSeat(seat int, conn net.Conn) {
	s.seats[seat] = newSeatConn(seat, conn, s.logger)
	s.table.SeatJoin(seat)
}

// collectReady gathers one READY or LEAVE from every occupied seat in
// ascending order. LEAVE (and end-of-stream) retires the seat with an ACK
// where possible; anything else is NACKed and the seat re-read. When the
// configured timeout fires, every seat still unanswered is retired.
func (s *Server) collectReady(ctx context.Context) (int, error) {
	var timedOut <-chan struct{}
	if d := s.cfg.ReadyTimeout(); d > 0 {
		fired := make(chan struct{})
		timer := s.clock.AfterFunc(d, func() {
			close(fired)
		})
		defer timer.Stop()
		timedOut = fired
	}

	ready := 0
	for seat := 0; seat < NumSeats; seat++ {
		sc := s.seats[seat]
		if sc == nil {
			continue
		}
	waiting:
		for {
			select {
			case <-ctx.Done():
				return ready, ctx.Err()

			case <-timedOut:
				s.logger.Warn("Ready collection timed out", "seat", seat, "ready", ready)
				for i := seat; i < NumSeats; i++ {
					if s.seats[i] != nil {
						s.dropSeat(i)
					}
				}
				return ready, nil

			case pkt, ok := <-sc.in:
				if !ok {
					s.dropSeat(seat)
					break waiting
				}
				switch pkt.Type {
				case protocol.Ready:
					ready++
					break waiting
				case protocol.Leave:
					s.send(seat, &protocol.ServerPacket{Type: protocol.Ack})
					s.dropSeat(seat)
					break waiting
				default:
					s.logger.Debug("Unexpected packet between hands", "seat", seat, "type", pkt.Type)
					s.send(seat, &protocol.ServerPacket{Type: protocol.Nack})
				}
			}
		}
	}
	return ready, nil
}

type streetOutcome int

const (
	streetDone streetOutcome = iota
	shortCircuit
)

// runHand plays the four betting rounds and settles the pot. The preflop
// round opens immediately; later streets open after their community deal.
func (s *Server) runHand(ctx context.Context) error {
	s.table.ResetStreet()
	s.broadcastInfo()

	for {
		outcome, err := s.runStreet(ctx)
		if err != nil {
			return err
		}
		if outcome == shortCircuit || s.table.Stage == game.StageRiver {
			break
		}
		s.table.DealCommunity()
		s.table.ResetStreet()
		s.broadcastInfo()
	}

	// Every contender can disconnect mid-hand; the pot is forfeited and
	// the lobby decides whether the table goes on.
	if s.table.Contenders() == 0 {
		forfeited := s.table.ForfeitPot()
		s.logger.Warn("All contenders left, abandoning hand", "forfeited", forfeited)
		return nil
	}

	winner := s.table.LastContender()
	if winner < 0 {
		winner = s.table.FindWinner()
	}
	wonPot := s.table.Pot
	s.table.Payout(winner)
	s.table.Stage = game.StageShowdown
	s.logger.Info("Hand finished", "winner", winner, "pot", wonPot, "stack", s.table.Seats[winner].Stack)

	s.broadcastEnd(winner, wonPot)
	return nil
}

// runStreet drives one betting round: read from the seat on turn, apply,
// reply ACK or NACK, and broadcast the new state while the round stays
// open. A NACK leaves the same seat on turn; a disconnect retires the seat
// and play continues around it.
func (s *Server) runStreet(ctx context.Context) (streetOutcome, error) {
	for {
		if s.table.LastContender() >= 0 {
			return shortCircuit, nil
		}
		if s.table.StreetDone() {
			return streetDone, nil
		}
		seat := s.table.Turn
		if seat < 0 {
			return streetDone, nil
		}
		sc := s.seats[seat]
		if sc == nil {
			s.table.SeatLeave(seat)
			s.advancePastDroppedSeat()
			continue
		}

		select {
		case <-ctx.Done():
			return streetDone, ctx.Err()

		case pkt, ok := <-sc.in:
			if !ok {
				s.logger.Info("Seat disconnected mid-hand", "seat", seat)
				s.dropSeat(seat)
				s.advancePastDroppedSeat()
				continue
			}

			act, ok := actionFor(pkt)
			if !ok {
				s.logger.Debug("Unexpected packet during betting", "seat", seat, "type", pkt.Type)
				s.send(seat, &protocol.ServerPacket{Type: protocol.Nack})
				continue
			}
			if err := s.table.Apply(seat, act); err != nil {
				s.logger.Debug("Action rejected", "seat", seat, "action", act.Kind, "error", err)
				s.send(seat, &protocol.ServerPacket{Type: protocol.Nack})
				continue
			}
			s.logger.Info("Action", "seat", seat, "action", act.Kind, "pot", s.table.Pot, "highest_bet", s.table.HighestBet)
			s.send(seat, &protocol.ServerPacket{Type: protocol.Ack})

			if s.table.LastContender() >= 0 {
				return shortCircuit, nil
			}
			if s.table.StreetDone() {
				return streetDone, nil
			}
			s.table.AdvanceTurn()
			s.broadcastInfo()
		}
	}
}

// advancePastDroppedSeat moves the action on after the seat on turn was
// retired. While the round remains open the new snapshot goes out, since
// without it no client knows whose turn it is; once the round has settled
// the caller's next broadcast covers it.
func (s *Server) advancePastDroppedSeat() {
	s.table.AdvanceTurn()
	if s.table.LastContender() < 0 && !s.table.StreetDone() && s.table.Turn >= 0 {
		s.broadcastInfo()
	}
}

// actionFor maps a client packet onto a betting action. Lobby verbs are
// out of place during a betting round.
func actionFor(pkt protocol.ClientPacket) (game.Action, bool) {
	switch pkt.Type {
	case protocol.Check:
		return game.Action{Kind: game.ActionCheck}, true
	case protocol.Call:
		return game.Action{Kind: game.ActionCall}, true
	case protocol.Raise:
		return game.Action{Kind: game.ActionRaise, Target: pkt.Param}, true
	case protocol.Fold:
		return game.Action{Kind: game.ActionFold}, true
	default:
		return game.Action{}, false
	}
}

// infoFor builds the INFO view for one seat: everyone's stacks, bets and
// status, but only that seat's hole cards.
func (s *Server) infoFor(seat int) *protocol.InfoPayload {
	in := &protocol.InfoPayload{
		Hole:       s.table.Seats[seat].Hole,
		Community:  s.table.Community,
		Pot:        s.table.Pot,
		HighestBet: s.table.HighestBet,
		Dealer:     int32(s.table.Dealer),
		Turn:       int32(s.table.Turn),
	}
	for i := range s.table.Seats {
		st := &s.table.Seats[i]
		in.Stacks[i] = st.Stack
		in.Bets[i] = st.Bet
		in.Status[i] = st.WireStatus()
	}
	return in
}

// broadcastInfo sends each connected seat its view, in seat order.
func (s *Server) broadcastInfo() {
	for seat := 0; seat < NumSeats; seat++ {
		if s.seats[seat] == nil {
			continue
		}
		s.send(seat, &protocol.ServerPacket{Type: protocol.Info, Info: s.infoFor(seat)})
	}
	s.hub.Publish(observer.Snap("info", s.table, -1))
}

// broadcastEnd reveals the hand: all hole cards as held, post-payout
// stacks, and the pot the winner took.
func (s *Server) broadcastEnd(winner int, wonPot int32) {
	en := &protocol.EndPayload{
		Community: s.table.Community,
		Pot:       wonPot,
		Dealer:    int32(s.table.Dealer),
		Winner:    int32(winner),
	}
	for i := range s.table.Seats {
		st := &s.table.Seats[i]
		en.Hole[i] = st.Hole
		en.Stacks[i] = st.Stack
		en.Status[i] = st.WireStatus()
	}

	for seat := 0; seat < NumSeats; seat++ {
		if s.seats[seat] == nil {
			continue
		}
		s.send(seat, &protocol.ServerPacket{Type: protocol.End, End: en})
	}
	s.hub.Publish(observer.Snap("end", s.table, winner))
}

// send writes one frame to a seat; a failed write retires the seat.
func (s *Server) send(seat int, pkt *protocol.ServerPacket) {
	sc := s.seats[seat]
	if sc == nil {
		return
	}
	if err := sc.write(pkt); err != nil {
		s.logger.Info("Write failed, dropping seat", "seat", seat, "error", err)
		s.dropSeat(seat)
	}
}

// dropSeat retires a seat: status LEFT, connection closed, channel nulled.
func (s *Server) dropSeat(seat int) {
	s.table.SeatLeave(seat)
	if sc := s.seats[seat]; sc != nil {
		sc.close()
		s.seats[seat] = nil
	}
}

// shutdown broadcasts HALT to whoever is left and closes everything.
func (s *Server) shutdown() {
	for seat := 0; seat < NumSeats; seat++ {
		if s.seats[seat] == nil {
			continue
		}
		s.send(seat, &protocol.ServerPacket{Type: protocol.Halt})
		s.dropSeat(seat)
	}
	s.hub.Publish(observer.Snap("halt", s.table, -1))
	s.closeListeners()
}

func (s *Server) closeListeners() {
	for i, l := range s.listeners {
		if l != nil {
			_ = l.Close()
			s.listeners[i] = nil
		}
	}
}
