// internal/game/session.go
//
// Session state machine for one host process.
// Responsibilities:
//   - Track players (in join order), the current board, and the countdown.
//   - Drive LOBBY → ACTIVE → FINISHED → LOBBY transitions.
//   - Invoke the Validator on submissions.
//   - Return the events each transition produces; the caller delivers them.
//
// Notes:
//   - A transition requested in the wrong phase is a no-op returning no events;
//     it never leaves the session half-updated.
//   - Session is not safe for concurrent use. The host event loop is its only
//     caller, which serializes every transition.
//   - Board present ⇔ phase ∈ {ACTIVE, FINISHED}.
package game

import (
	"fmt"
	"sort"
	"time"

	"github.com/kagithamanoj/boggle/internal/board"
)

// feedLimit caps the host's live feed of valid finds.
const feedLimit = 50

// BoardSource produces the board for a round (1-based round number).
type BoardSource func(round int) board.Board

// Options configure a Session.
type Options struct {
	RoundSeconds int              // defaults to DefaultRoundSeconds
	Boards       BoardSource      // defaults to a crypto-seeded board.Generator
	Now          func() time.Time // defaults to time.Now
}

// Session is the single authoritative game state owned by the host.
type Session struct {
	phase         Phase
	players       map[string]*Player
	order         []string // player ids in join order
	board         *board.Board
	timeRemaining int
	roundSeconds  int
	round         int
	startedAt     time.Time
	feed          []string // newest first

	validator *Validator
	boards    BoardSource
	now       func() time.Time
}

// NewSession constructs a Session in the lobby with no players.
func NewSession(v *Validator, opts Options) *Session {
	if opts.RoundSeconds <= 0 {
		opts.RoundSeconds = DefaultRoundSeconds
	}
	if opts.Boards == nil {
		gen := board.NewGenerator(nil)
		opts.Boards = func(int) board.Board { return gen.Generate() }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		phase:        PhaseLobby,
		players:      make(map[string]*Player),
		roundSeconds: opts.RoundSeconds,
		validator:    v,
		boards:       opts.Boards,
		now:          opts.Now,
	}
}

// Phase reports the current lifecycle stage.
func (s *Session) Phase() Phase { return s.phase }

// Round reports how many rounds have started.
func (s *Session) Round() int { return s.round }

// TimeRemaining reports the countdown in seconds.
func (s *Session) TimeRemaining() int { return s.timeRemaining }

// RoundSeconds reports the configured round length.
func (s *Session) RoundSeconds() int { return s.roundSeconds }

// Board returns the current board and whether one is present.
func (s *Session) Board() (board.Board, bool) {
	if s.board == nil {
		return board.Board{}, false
	}
	return *s.board, true
}

// Player looks up a player by connection id.
func (s *Session) Player(id string) (*Player, bool) {
	p, ok := s.players[id]
	return p, ok
}

// Players returns the players in join order.
func (s *Session) Players() []*Player {
	out := make([]*Player, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.players[id])
	}
	return out
}

// Join registers id under name, or resets the existing record for id.
// Valid in every phase. A re-join keeps the player's original join position.
func (s *Session) Join(id, name string) []Event {
	if _, ok := s.players[id]; !ok {
		s.order = append(s.order, id)
	}
	s.players[id] = newPlayer(id, name)
	return []Event{
		JoinAcked{ConnID: id},
		LobbyChanged{Players: s.standings()},
	}
}

// Leave removes the player for a closed connection. Unknown ids are ignored.
func (s *Session) Leave(id string) []Event {
	if _, ok := s.players[id]; !ok {
		return nil
	}
	delete(s.players, id)
	for i, other := range s.order {
		if other == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return []Event{LobbyChanged{Players: s.standings()}}
}

// Start begins a round. Only valid in the lobby.
// The caller is responsible for starting the one-second countdown that drives Tick.
func (s *Session) Start() []Event {
	if s.phase != PhaseLobby {
		return nil
	}
	s.round++
	b := s.boards(s.round)
	s.board = &b
	s.timeRemaining = s.roundSeconds
	s.startedAt = s.now()
	s.phase = PhaseActive
	return []Event{RoundStarted{Round: s.round, Duration: s.roundSeconds, Board: b}}
}

// Tick advances the countdown by one second. Only valid while active.
// Reaching zero ends the round; the clamp keeps the countdown at zero or above.
func (s *Session) Tick() []Event {
	if s.phase != PhaseActive {
		return nil
	}
	if s.timeRemaining > 0 {
		s.timeRemaining--
	}
	if s.timeRemaining == 0 {
		return s.end(false)
	}
	return nil
}

// Submit validates raw for the player on connection id. Only valid while active;
// unknown connections are ignored.
func (s *Session) Submit(id, raw string) []Event {
	if s.phase != PhaseActive || s.board == nil {
		return nil
	}
	p, ok := s.players[id]
	if !ok {
		return nil
	}
	out := s.validator.Validate(raw, *s.board, p)
	events := []Event{SubmissionJudged{ConnID: id, Raw: raw, Outcome: out}}
	if out.Valid() {
		s.pushFeed(fmt.Sprintf("%s found %s (+%d)", p.Name, out.Word, out.Points))
		events = append(events, WordFound{ConnID: id, Name: p.Name, Word: out.Word, Points: out.Points})
	}
	return events
}

// End finishes the active round early (host-forced). Only valid while active.
func (s *Session) End() []Event {
	if s.phase != PhaseActive {
		return nil
	}
	return s.end(true)
}

func (s *Session) end(forced bool) []Event {
	s.phase = PhaseFinished
	return []Event{RoundEnded{
		Round:     s.round,
		Board:     *s.board,
		Ranking:   s.Ranking(),
		StartedAt: s.startedAt,
		EndedAt:   s.now(),
		Forced:    forced,
	}}
}

// ReturnToLobby clears the board and every player's score and words.
// Only valid once a round has finished. Players are kept.
func (s *Session) ReturnToLobby() []Event {
	if s.phase != PhaseFinished {
		return nil
	}
	for _, p := range s.players {
		p.reset()
	}
	s.board = nil
	s.timeRemaining = 0
	s.feed = nil
	s.phase = PhaseLobby
	return []Event{LobbyReset{Players: s.standings()}}
}

// Ranking orders players by descending score; ties keep join order.
func (s *Session) Ranking() []Standing {
	out := s.standings()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Feed returns the live feed of valid finds, newest first.
func (s *Session) Feed() []string {
	return append([]string(nil), s.feed...)
}

func (s *Session) pushFeed(line string) {
	s.feed = append([]string{line}, s.feed...)
	if len(s.feed) > feedLimit {
		s.feed = s.feed[:feedLimit]
	}
}

// standings lists players in join order.
func (s *Session) standings() []Standing {
	out := make([]Standing, 0, len(s.order))
	for _, id := range s.order {
		p := s.players[id]
		out = append(out, Standing{ID: p.ID, Name: p.Name, Score: p.Score})
	}
	return out
}
