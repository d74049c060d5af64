package client

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/sixseat/holdem/internal/deck"
	"github.com/sixseat/holdem/internal/protocol"
)

// Verb is one scripted command.
type Verb int

const (
	VerbReady Verb = iota
	VerbLeave
	VerbRaise
	VerbCall
	VerbCheck
	VerbFold
)

// String returns the command word.
func (v Verb) String() string {
	switch v {
	case VerbReady:
		return "ready"
	case VerbLeave:
		return "leave"
	case VerbRaise:
		return "raise"
	case VerbCall:
		return "call"
	case VerbCheck:
		return "check"
	case VerbFold:
		return "fold"
	default:
		return "unknown"
	}
}

// Command is one parsed script line. AllIn marks `raise allin`, where the
// target is computed from the latest table snapshot at send time.
type Command struct {
	Verb   Verb
	Amount int32
	AllIn  bool
}

// ParseCommand parses one whitespace-separated script line. The second
// return is false for a blank line.
func ParseCommand(line string) (Command, bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, false, nil
	}

	argc := len(fields) - 1
	switch fields[0] {
	case "ready", "leave", "call", "check", "fold":
		if argc != 0 {
			return Command{}, false, fmt.Errorf("%s takes no arguments, got %d", fields[0], argc)
		}
		verbs := map[string]Verb{
			"ready": VerbReady, "leave": VerbLeave,
			"call": VerbCall, "check": VerbCheck, "fold": VerbFold,
		}
		return Command{Verb: verbs[fields[0]]}, true, nil

	case "raise":
		if argc != 1 {
			return Command{}, false, fmt.Errorf("raise takes one argument, got %d", argc)
		}
		if fields[1] == "allin" {
			return Command{Verb: VerbRaise, AllIn: true}, true, nil
		}
		amount, err := strconv.ParseInt(fields[1], 10, 32)
		if err != nil || amount <= 0 {
			return Command{}, false, fmt.Errorf("bad raise amount %q", fields[1])
		}
		return Command{Verb: VerbRaise, Amount: int32(amount)}, true, nil

	default:
		return Command{}, false, fmt.Errorf("unrecognized command %q", fields[0])
	}
}

// Driver plays a seat from a command script. When the script runs out it
// switches to a terminal policy: fold whenever the action reaches it, and
// leave the table at the next hand end.
type Driver struct {
	client *Client
	lines  *bufio.Scanner
	logger *log.Logger

	eof  bool
	left bool
	info *protocol.InfoPayload
}

// NewDriver wires a connected client to a script source, typically stdin.
func NewDriver(c *Client, script io.Reader, logger *log.Logger) *Driver {
	return &Driver{
		client: c,
		lines:  bufio.NewScanner(script),
		logger: logger.WithPrefix("driver"),
	}
}

// Run plays the script until the seat leaves, the server halts, or the
// connection drops.
func (d *Driver) Run() error {
	if !d.lobby() {
		return nil
	}
	err := d.client.Run(d)
	if d.left {
		// The server closes our stream once we have left; that is the
		// normal way out.
		return nil
	}
	return err
}

// next returns the next well-formed command, skipping blanks and logging
// parse errors the way a shell would. ok is false once the script ends.
func (d *Driver) next() (Command, bool) {
	for !d.eof {
		if !d.lines.Scan() {
			d.eof = true
			d.logger.Info("Script exhausted, switching to fold-and-leave")
			break
		}
		cmd, ok, err := ParseCommand(d.lines.Text())
		if err != nil {
			d.logger.Error("Bad script line", "line", d.lines.Text(), "error", err)
			continue
		}
		if ok {
			return cmd, true
		}
	}
	return Command{}, false
}

// lobby consumes commands until the seat commits to the next hand. It
// returns false when the seat leaves instead.
func (d *Driver) lobby() bool {
	for {
		cmd, ok := d.next()
		if !ok {
			d.leave()
			return false
		}
		switch cmd.Verb {
		case VerbReady:
			if err := d.client.Ready(); err != nil {
				d.logger.Error("Ready failed", "error", err)
				d.left = true
				return false
			}
			return true
		case VerbLeave:
			d.leave()
			return false
		default:
			d.logger.Error("Betting command outside a hand", "verb", cmd.Verb)
		}
	}
}

func (d *Driver) leave() {
	if err := d.client.Leave(); err != nil {
		d.logger.Error("Leave failed", "error", err)
	}
	_ = d.client.Close()
	d.left = true
}

// OnInfo records the snapshot and, when the action is on this seat, plays
// script commands until one is accepted.
func (d *Driver) OnInfo(info *protocol.InfoPayload) {
	d.info = info
	d.logTable(info)
	if int(info.Turn) != d.client.Seat() {
		return
	}

	for {
		cmd, ok := d.next()
		if !ok {
			cmd = Command{Verb: VerbFold}
		}

		var acked bool
		var err error
		switch cmd.Verb {
		case VerbCheck:
			acked, err = d.client.Check()
		case VerbCall:
			acked, err = d.client.Call()
		case VerbRaise:
			target := cmd.Amount
			if cmd.AllIn {
				target = info.Stacks[d.client.Seat()] + info.Bets[d.client.Seat()]
			}
			acked, err = d.client.RaiseTo(target)
		case VerbFold:
			acked, err = d.client.Fold()
		default:
			d.logger.Error("Lobby command during a hand", "verb", cmd.Verb)
			continue
		}

		if err != nil {
			d.logger.Error("Action failed", "verb", cmd.Verb, "error", err)
			return
		}
		if acked {
			return
		}
		// NACK: the server is waiting on this seat again.
	}
}

// OnEnd logs the result and returns to the lobby for the next hand.
func (d *Driver) OnEnd(end *protocol.EndPayload) {
	d.logger.Info("Hand over",
		"winner", end.Winner,
		"pot", end.Pot,
		"stack", end.Stacks[d.client.Seat()])
	for s := 0; s < protocol.NumSeats; s++ {
		if end.Hole[s][0] != deck.NoCard {
			d.logger.Info("Showdown cards", "seat", s,
				"hole", fmt.Sprintf("%s %s", end.Hole[s][0], end.Hole[s][1]),
				"stack", end.Stacks[s])
		}
	}
	d.lobby()
}

// OnHalt is the server telling everyone to go home.
func (d *Driver) OnHalt() {
	d.logger.Info("Table halted")
}

func (d *Driver) logTable(info *protocol.InfoPayload) {
	var board []string
	for _, c := range info.Community {
		if c.Valid() {
			board = append(board, c.Fancy())
		}
	}
	d.logger.Info("Table",
		"hole", fmt.Sprintf("%s %s", info.Hole[0].Fancy(), info.Hole[1].Fancy()),
		"board", strings.Join(board, " "),
		"pot", info.Pot,
		"bet", info.HighestBet,
		"dealer", info.Dealer,
		"turn", info.Turn)
}
