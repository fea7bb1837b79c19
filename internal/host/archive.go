package host

import (
	"context"

	"github.com/google/uuid"

	"github.com/kagithamanoj/boggle/internal/game"
	"github.com/kagithamanoj/boggle/internal/store"
)

// Archive is a Recorder that saves every finished round to a store.
type Archive struct {
	store store.Store
}

func NewArchive(s store.Store) *Archive { return &Archive{store: s} }

func (a *Archive) Record(ctx context.Context, ev game.Event) error {
	e, ok := ev.(game.RoundEnded)
	if !ok {
		return nil
	}
	return a.store.Save(ctx, store.Round{
		ID:        uuid.NewString(),
		Number:    e.Round,
		Board:     e.Board,
		Forced:    e.Forced,
		StartedAt: e.StartedAt,
		EndedAt:   e.EndedAt,
		Ranking:   e.Ranking,
	})
}
