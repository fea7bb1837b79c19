// internal/game/types.go
//
// Core type definitions for the Boggle session engine.
// Defines:
//   - Phase: session lifecycle stage (lobby/active/finished).
//   - Player: per-connection score and found words.
//   - OutcomeKind / Outcome: result of validating one submission.
//   - Standing: one row of the final ranking.

package game

import "sort"

// Phase is the lifecycle stage of the session.
type Phase string

const (
	PhaseLobby    Phase = "LOBBY"
	PhaseActive   Phase = "ACTIVE"
	PhaseFinished Phase = "FINISHED"
)

// DefaultRoundSeconds is the round length used when none is configured.
const DefaultRoundSeconds = 180

// MinWordLength is the shortest word that can score.
const MinWordLength = 3

// Dictionary is the read-only set of valid uppercase words.
type Dictionary interface {
	Contains(word string) bool
}

// Player holds the per-round state for one connection.
type Player struct {
	ID         string              // Connection identifier (unique per session).
	Name       string              // Display name supplied on JOIN.
	Score      int                 // Points this round, never negative.
	FoundWords map[string]struct{} // Uppercase words accepted this round.
}

func newPlayer(id, name string) *Player {
	if name == "" {
		name = "Unknown"
	}
	return &Player{ID: id, Name: name, FoundWords: make(map[string]struct{})}
}

// HasFound reports whether the player already scored word (uppercase).
func (p *Player) HasFound(word string) bool {
	_, ok := p.FoundWords[word]
	return ok
}

// Words returns the player's found words in lexical order.
func (p *Player) Words() []string {
	out := make([]string, 0, len(p.FoundWords))
	for w := range p.FoundWords {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

func (p *Player) reset() {
	p.Score = 0
	p.FoundWords = make(map[string]struct{})
}

// OutcomeKind classifies one submission.
type OutcomeKind string

const (
	OutcomeTooShort        OutcomeKind = "TOO_SHORT"
	OutcomeNotInDictionary OutcomeKind = "NOT_IN_DICTIONARY"
	OutcomeDuplicate       OutcomeKind = "DUPLICATE"
	OutcomeNotOnBoard      OutcomeKind = "NOT_ON_BOARD"
	OutcomeValid           OutcomeKind = "VALID"
)

// Outcome is the validator's verdict on one submission.
// Points and TotalScore are only set for OutcomeValid.
type Outcome struct {
	Kind       OutcomeKind
	Word       string // normalized (uppercase) word
	Points     int
	TotalScore int
}

// Valid reports whether the submission scored.
func (o Outcome) Valid() bool { return o.Kind == OutcomeValid }

// Reason returns the human-readable rejection reason, or "" when none applies.
func (o Outcome) Reason() string {
	switch o.Kind {
	case OutcomeTooShort:
		return "Too Short"
	case OutcomeNotInDictionary:
		return "Not in Dictionary"
	case OutcomeNotOnBoard:
		return "Not on Board"
	default:
		return ""
	}
}

// Standing is one row of the final ranking.
type Standing struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}
