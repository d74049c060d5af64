// Package observer serves a read-only websocket feed of the table. Each
// connected spectator receives a JSON snapshot after every broadcast the
// seats receive. Hole cards appear only in hand-end snapshots.
package observer

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/sixseat/holdem/internal/game"
)

// Snapshot is one spectator-facing view of the table.
type Snapshot struct {
	Event     string    `json:"event"` // "info", "end" or "halt"
	Stage     string    `json:"stage"`
	Community []string  `json:"community"`
	Seats     [6]Player `json:"seats"`
	Pot       int32     `json:"pot"`
	Dealer    int       `json:"dealer"`
	Turn      int       `json:"turn"`
	Winner    int       `json:"winner,omitempty"`
}

// Player is one seat within a snapshot. Hole is populated only when the
// event is "end".
type Player struct {
	Status string   `json:"status"`
	Stack  int32    `json:"stack"`
	Bet    int32    `json:"bet"`
	Hole   []string `json:"hole,omitempty"`
}

// Snap captures the table for spectators. Unrevealed community slots are
// omitted rather than sent as sentinels.
func Snap(event string, tbl *game.Table, winner int) Snapshot {
	snap := Snapshot{
		Event:  event,
		Stage:  tbl.Stage.String(),
		Dealer: tbl.Dealer,
		Turn:   tbl.Turn,
		Pot:    tbl.Pot,
		Winner: winner,
	}
	for _, c := range tbl.Community {
		if c.Valid() {
			snap.Community = append(snap.Community, c.String())
		}
	}
	for i := range tbl.Seats {
		s := &tbl.Seats[i]
		snap.Seats[i] = Player{
			Status: s.Status.String(),
			Stack:  s.Stack,
			Bet:    s.Bet,
		}
		if event == "end" && s.Hole[0].Valid() {
			snap.Seats[i].Hole = []string{s.Hole[0].String(), s.Hole[1].String()}
		}
	}
	return snap
}

// Hub fans snapshots out to websocket spectators. A nil hub is valid and
// publishes nowhere, so callers never guard the feed.
type Hub struct {
	addr     string
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
	srv   *http.Server
}

// NewHub creates a hub that will listen on addr once started.
func NewHub(addr string, logger *log.Logger) *Hub {
	return &Hub{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.WithPrefix("observer"),
		conns:  make(map[*websocket.Conn]bool),
	}
}

// Start serves the feed until Stop is called. Run it on its own goroutine.
func (h *Hub) Start() error {
	if h == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/watch", h.handleWatch)

	h.mu.Lock()
	h.srv = &http.Server{Addr: h.addr, Handler: mux}
	srv := h.srv
	h.mu.Unlock()

	h.logger.Info("Starting observer feed", "addr", h.addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the feed down and drops every spectator.
func (h *Hub) Stop() {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.srv != nil {
		_ = h.srv.Shutdown(context.Background())
	}
	for conn := range h.conns {
		_ = conn.Close()
	}
	h.conns = make(map[*websocket.Conn]bool)
}

// Publish sends one snapshot to every spectator, dropping any whose write
// fails.
func (h *Hub) Publish(snap Snapshot) {
	if h == nil {
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		h.logger.Error("Failed to marshal snapshot", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Debug("Dropping spectator", "error", err)
			_ = conn.Close()
			delete(h.conns, conn)
		}
	}
}

func (h *Hub) handleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = true
	total := len(h.conns)
	h.mu.Unlock()
	h.logger.Info("Spectator connected", "total", total)

	// Spectators only listen; the read loop exists to notice the close.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()
		_ = conn.Close()
	}()
}
