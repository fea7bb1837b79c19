// internal/game/events.go
//
// Events emitted by session transitions. The host translates them into
// protocol messages (addressed or broadcast) and host-side side effects
// (logs, archive, journal). The set is closed: only this package can add
// variants.

package game

import (
	"time"

	"github.com/kagithamanoj/boggle/internal/board"
)

// Event is one observable effect of a transition.
type Event interface{ isEvent() }

// JoinAcked confirms registration to the joining connection.
type JoinAcked struct {
	ConnID string
}

// LobbyChanged carries the host's player list after a join or leave.
type LobbyChanged struct {
	Players []Standing
}

// RoundStarted is broadcast when a round begins.
type RoundStarted struct {
	Round    int
	Duration int // seconds
	Board    board.Board
}

// SubmissionJudged is addressed to the submitter only.
type SubmissionJudged struct {
	ConnID  string
	Raw     string // the word exactly as submitted
	Outcome Outcome
}

// WordFound feeds the host's live view when a submission scores.
type WordFound struct {
	ConnID string
	Name   string
	Word   string
	Points int
}

// RoundEnded is broadcast with the final ranking.
type RoundEnded struct {
	Round     int
	Board     board.Board
	Ranking   []Standing
	StartedAt time.Time
	EndedAt   time.Time
	Forced    bool // ended by the host before the timer ran out
}

// LobbyReset is emitted when a finished round returns to the lobby.
type LobbyReset struct {
	Players []Standing
}

func (JoinAcked) isEvent()        {}
func (LobbyChanged) isEvent()     {}
func (RoundStarted) isEvent()     {}
func (SubmissionJudged) isEvent() {}
func (WordFound) isEvent()        {}
func (RoundEnded) isEvent()       {}
func (LobbyReset) isEvent()       {}
