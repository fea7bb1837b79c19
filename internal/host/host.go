// internal/host/host.go
//
// Host event loop: the single owner of the game Session.
// Responsibilities:
//   - Accept connection opens, closes, and inbound frames on channels.
//   - Route each decoded message to exactly one Session transition.
//   - Run the one-second round countdown and feed its ticks to the Session.
//   - Translate Session events into protocol messages, sent to one
//     connection or broadcast to all of them.
//   - Serve operator commands (start, end, return to lobby, state).
//   - Hand round lifecycle events to Recorders (archive, journal).
//
// Notes:
//   - Everything above happens on the goroutine running Run, one input at a
//     time, so no transition ever observes another half-applied.
//   - Malformed frames, unknown types, and out-of-phase requests are dropped
//     and logged at debug level.
//   - A failed send is logged at warn level and does not stop a broadcast.

package host

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kagithamanoj/boggle/internal/game"
	"github.com/kagithamanoj/boggle/internal/protocol"
)

var (
	// ErrNotApplied is returned by a command requested in the wrong phase.
	ErrNotApplied = errors.New("host: command not valid in current phase")
	// ErrStopped is returned by a command sent after Run has returned.
	ErrStopped = errors.New("host: not running")
)

// Conn is one client connection as seen by the host.
type Conn interface {
	ID() string
	Send(m protocol.Message) error
}

// Inbound is one frame read from a connection.
type Inbound struct {
	ConnID string
	Data   []byte
}

// Recorder observes round lifecycle events (RoundStarted, WordFound, RoundEnded).
type Recorder interface {
	Record(ctx context.Context, ev game.Event) error
}

// Options configure a Host.
type Options struct {
	Clock     Clock // defaults to RealClock
	Recorders []Recorder
	Logger    zerolog.Logger
}

type op int

const (
	opStart op = iota
	opEnd
	opLobby
	opState
)

func (o op) String() string {
	switch o {
	case opStart:
		return "start"
	case opEnd:
		return "end"
	case opLobby:
		return "lobby"
	default:
		return "state"
	}
}

type command struct {
	op   op
	resp chan result
}

type result struct {
	applied bool
	snap    game.Snapshot
}

// Host serializes every Session transition on one goroutine.
type Host struct {
	session   *game.Session
	clock     Clock
	recorders []Recorder
	log       zerolog.Logger

	conns     map[string]Conn
	countdown *countdown

	connect chan Conn
	leave   chan string
	inbox   chan Inbound
	cmds    chan command
	done    chan struct{}
}

// New wraps s. Call Run to start processing.
func New(s *game.Session, opts Options) *Host {
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	return &Host{
		session:   s,
		clock:     opts.Clock,
		recorders: opts.Recorders,
		log:       opts.Logger,
		conns:     make(map[string]Conn),
		connect:   make(chan Conn),
		leave:     make(chan string),
		inbox:     make(chan Inbound, 64),
		cmds:      make(chan command),
		done:      make(chan struct{}),
	}
}

// Connect registers a newly opened connection.
func (h *Host) Connect() chan<- Conn { return h.connect }

// Leave reports a closed connection by id.
func (h *Host) Leave() chan<- string { return h.leave }

// Inbox receives frames in per-connection arrival order.
func (h *Host) Inbox() chan<- Inbound { return h.inbox }

// Done is closed when Run returns.
func (h *Host) Done() <-chan struct{} { return h.done }

// Run processes inputs until ctx is cancelled.
func (h *Host) Run(ctx context.Context) error {
	defer close(h.done)
	defer func() { h.countdown.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-h.connect:
			h.conns[c.ID()] = c
			h.log.Debug().Str("conn", c.ID()).Int("conns", len(h.conns)).Msg("connection opened")
		case id := <-h.leave:
			delete(h.conns, id)
			h.log.Debug().Str("conn", id).Int("conns", len(h.conns)).Msg("connection closed")
			h.apply(ctx, h.session.Leave(id))
		case in := <-h.inbox:
			h.handleFrame(ctx, in)
		case cmd := <-h.cmds:
			h.handleCommand(ctx, cmd)
		case <-h.countdown.C():
			h.apply(ctx, h.session.Tick())
		}
	}
}

func (h *Host) handleFrame(ctx context.Context, in Inbound) {
	if _, ok := h.conns[in.ConnID]; !ok {
		h.log.Debug().Str("conn", in.ConnID).Msg("frame from unknown connection")
		return
	}
	msg, err := protocol.Decode(in.Data)
	if err != nil {
		h.log.Debug().Err(err).Str("conn", in.ConnID).Msg("drop frame")
		return
	}
	switch m := msg.(type) {
	case *protocol.JoinMsg:
		h.apply(ctx, h.session.Join(in.ConnID, m.Name))
	case *protocol.SubmitWordMsg:
		events := h.session.Submit(in.ConnID, m.Word)
		if events == nil {
			h.log.Debug().Str("conn", in.ConnID).Str("phase", string(h.session.Phase())).Msg("submit ignored")
		}
		h.apply(ctx, events)
	default:
		h.log.Debug().Str("conn", in.ConnID).Str("type", msg.MessageType()).Msg("unexpected message type")
	}
}

func (h *Host) handleCommand(ctx context.Context, cmd command) {
	var events []game.Event
	switch cmd.op {
	case opStart:
		events = h.session.Start()
	case opEnd:
		events = h.session.End()
	case opLobby:
		events = h.session.ReturnToLobby()
	case opState:
		cmd.resp <- result{applied: true, snap: h.session.Snapshot()}
		return
	}
	if events == nil {
		h.log.Debug().Stringer("op", cmd.op).Str("phase", string(h.session.Phase())).Msg("command ignored")
	}
	h.apply(ctx, events)
	cmd.resp <- result{applied: events != nil, snap: h.session.Snapshot()}
}

// apply carries out the side effects of one transition's events, in order.
func (h *Host) apply(ctx context.Context, events []game.Event) {
	for _, ev := range events {
		switch e := ev.(type) {
		case game.JoinAcked:
			h.send(e.ConnID, &protocol.JoinAckMsg{})
		case game.LobbyChanged:
			h.log.Info().Int("players", len(e.Players)).Msg("lobby changed")
		case game.RoundStarted:
			h.countdown.Stop()
			h.countdown = startCountdown(h.clock)
			h.log.Info().Int("round", e.Round).Int("duration", e.Duration).Str("board", e.Board.String()).Msg("round started")
			h.broadcast(&protocol.GameStartMsg{Duration: e.Duration, Board: e.Board.Rows()})
			h.record(ctx, e)
		case game.SubmissionJudged:
			h.send(e.ConnID, resultMessage(e))
		case game.WordFound:
			h.log.Info().Str("conn", e.ConnID).Str("player", e.Name).Str("word", e.Word).Int("points", e.Points).Msg("word found")
			h.record(ctx, e)
		case game.RoundEnded:
			h.countdown.Stop()
			h.countdown = nil
			h.log.Info().Int("round", e.Round).Bool("forced", e.Forced).Int("players", len(e.Ranking)).Msg("round ended")
			h.broadcast(gameOverMessage(e))
			h.record(ctx, e)
		case game.LobbyReset:
			h.log.Info().Int("players", len(e.Players)).Msg("returned to lobby")
		default:
			h.log.Debug().Str("event", fmt.Sprintf("%T", ev)).Msg("unhandled event")
		}
	}
}

func (h *Host) send(id string, m protocol.Message) {
	c, ok := h.conns[id]
	if !ok {
		h.log.Debug().Str("conn", id).Str("type", m.MessageType()).Msg("send to closed connection")
		return
	}
	if err := c.Send(m); err != nil {
		h.log.Warn().Err(err).Str("conn", id).Str("type", m.MessageType()).Msg("send failed")
	}
}

func (h *Host) broadcast(m protocol.Message) {
	for id, c := range h.conns {
		if err := c.Send(m); err != nil {
			h.log.Warn().Err(err).Str("conn", id).Str("type", m.MessageType()).Msg("broadcast send failed")
		}
	}
}

func (h *Host) record(ctx context.Context, ev game.Event) {
	for _, r := range h.recorders {
		if err := r.Record(ctx, ev); err != nil {
			h.log.Warn().Err(err).Str("event", fmt.Sprintf("%T", ev)).Msg("record failed")
		}
	}
}

// Start begins a round. Returns ErrNotApplied unless the session is in the lobby.
func (h *Host) Start(ctx context.Context) error {
	_, err := h.do(ctx, opStart)
	return err
}

// End forces the active round to finish.
func (h *Host) End(ctx context.Context) error {
	_, err := h.do(ctx, opEnd)
	return err
}

// ReturnToLobby resets scores and the board after a finished round.
func (h *Host) ReturnToLobby(ctx context.Context) error {
	_, err := h.do(ctx, opLobby)
	return err
}

// State returns a snapshot of the session.
func (h *Host) State(ctx context.Context) (game.Snapshot, error) {
	return h.do(ctx, opState)
}

func (h *Host) do(ctx context.Context, o op) (game.Snapshot, error) {
	cmd := command{op: o, resp: make(chan result, 1)}
	select {
	case h.cmds <- cmd:
	case <-h.done:
		return game.Snapshot{}, ErrStopped
	case <-ctx.Done():
		return game.Snapshot{}, ctx.Err()
	}
	select {
	case res := <-cmd.resp:
		if !res.applied {
			return res.snap, ErrNotApplied
		}
		return res.snap, nil
	case <-ctx.Done():
		return game.Snapshot{}, ctx.Err()
	}
}
