package game

// Snapshot is a read-only copy of the session for the host view.
type Snapshot struct {
	Phase         Phase           `json:"phase"`
	Round         int             `json:"round"`
	RoundSeconds  int             `json:"roundSeconds"`
	TimeRemaining int             `json:"timeRemaining"`
	Board         [][]string      `json:"board,omitempty"`
	Players       []PlayerSummary `json:"players"`
	Feed          []string        `json:"feed"`
}

// PlayerSummary describes one player in a Snapshot.
type PlayerSummary struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Score int      `json:"score"`
	Words []string `json:"words"`
}

// Snapshot copies the session state. The result shares nothing with the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:         s.phase,
		Round:         s.round,
		RoundSeconds:  s.roundSeconds,
		TimeRemaining: s.timeRemaining,
		Players:       make([]PlayerSummary, 0, len(s.order)),
		Feed:          append([]string{}, s.feed...),
	}
	if b, ok := s.Board(); ok {
		snap.Board = b.Rows()
	}
	for _, p := range s.Players() {
		snap.Players = append(snap.Players, PlayerSummary{ID: p.ID, Name: p.Name, Score: p.Score, Words: p.Words()})
	}
	return snap
}
