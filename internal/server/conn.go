package server

import (
	"net"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/sixseat/holdem/internal/protocol"
)

// seatConn binds one seat index to its TCP connection. A dedicated reader
// goroutine decodes frames into the in channel; the game loop is the only
// writer. The channel closing signals end-of-stream, which the game loop
// turns into a LEFT transition.
type seatConn struct {
	seat   int
	conn   net.Conn
	in     chan protocol.ClientPacket
	logger *log.Logger

	done      chan struct{}
	closeOnce sync.Once
}

func newSeatConn(seat int, conn net.Conn, logger *log.Logger) *seatConn {
	sc := &seatConn{
		seat:   seat,
		conn:   conn,
		in:     make(chan protocol.ClientPacket, 8),
		logger: logger.WithPrefix("conn").With("seat", seat),
		done:   make(chan struct{}),
	}
	go sc.readLoop()
	return sc
}

func (sc *seatConn) readLoop() {
	defer close(sc.in)
	for {
		pkt, err := protocol.ReadClient(sc.conn)
		if err != nil {
			sc.logger.Debug("read loop ended", "error", err)
			return
		}
		// Once the seat is dropped nobody drains the channel, so a plain
		// send could block here forever with a chatty peer.
		select {
		case sc.in <- pkt:
		case <-sc.done:
			return
		}
	}
}

// write sends one server frame. Errors are transport failures; the caller
// marks the seat left.
func (sc *seatConn) write(pkt *protocol.ServerPacket) error {
	return protocol.WriteServer(sc.conn, pkt)
}

func (sc *seatConn) close() {
	sc.closeOnce.Do(func() {
		close(sc.done)
		_ = sc.conn.Close()
	})
}
