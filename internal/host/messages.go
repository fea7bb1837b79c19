package host

import (
	"github.com/kagithamanoj/boggle/internal/game"
	"github.com/kagithamanoj/boggle/internal/protocol"
)

// resultMessage builds the SUBMIT_RESULT for one judged submission.
// The word field echoes the submission as typed.
func resultMessage(e game.SubmissionJudged) *protocol.SubmitResultMsg {
	m := &protocol.SubmitResultMsg{Word: e.Raw}
	switch e.Outcome.Kind {
	case game.OutcomeValid:
		m.Status = protocol.StatusValid
		m.Points = e.Outcome.Points
		m.TotalScore = e.Outcome.TotalScore
	case game.OutcomeDuplicate:
		m.Status = protocol.StatusDuplicate
	default:
		m.Status = protocol.StatusInvalid
		m.Reason = e.Outcome.Reason()
	}
	return m
}

func gameOverMessage(e game.RoundEnded) *protocol.GameOverMsg {
	scores := make([]protocol.Score, 0, len(e.Ranking))
	for _, s := range e.Ranking {
		scores = append(scores, protocol.Score{ID: s.ID, Name: s.Name, Score: s.Score})
	}
	return &protocol.GameOverMsg{Scores: scores}
}
