// internal/store/memory.go
//
// Round archive: finished rounds and their final standings.
//
// Characteristics (memory implementation):
//   - Rounds kept in insertion order, keyed by Round.ID.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; use the SQLite store for history
//     that survives restarts.
//
// The archive is history only. A live session is never rebuilt from it.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kagithamanoj/boggle/internal/board"
	"github.com/kagithamanoj/boggle/internal/game"
)

// ErrNotFound is returned by Get for an unknown round id.
var ErrNotFound = errors.New("store: round not found")

// DefaultLimit bounds Recent when the caller passes a non-positive limit.
const DefaultLimit = 20

// Round is one archived round.
type Round struct {
	ID        string          `json:"id"`
	Number    int             `json:"round"`
	Board     board.Board     `json:"board"`
	Forced    bool            `json:"forced"`
	StartedAt time.Time       `json:"startedAt"`
	EndedAt   time.Time       `json:"endedAt"`
	Ranking   []game.Standing `json:"ranking"`
}

// Store defines the persistence interface for finished rounds.
// Implementations may be backed by memory (this file) or SQLite (sqlite.go).
type Store interface {
	// Save persists a finished round. Saving an existing id replaces it.
	Save(ctx context.Context, r Round) error

	// Get retrieves a round by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (Round, error)

	// Recent lists up to limit rounds, most recently ended first.
	Recent(ctx context.Context, limit int) ([]Round, error)
}

// memory is an in-memory Store implementation.
type memory struct {
	mu     sync.RWMutex // guards rounds and order
	rounds map[string]Round
	order  []string // ids in save order
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{rounds: make(map[string]Round)}
}

func (m *memory) Save(ctx context.Context, r Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rounds[r.ID]; !ok {
		m.order = append(m.order, r.ID)
	}
	r.Ranking = append([]game.Standing(nil), r.Ranking...)
	m.rounds[r.ID] = r
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (Round, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.rounds[id]; ok {
		return r, nil
	}
	return Round{}, ErrNotFound
}

// Recent walks the save order backwards; rounds are saved as they end.
func (m *memory) Recent(ctx context.Context, limit int) ([]Round, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Round, 0, min(limit, len(m.order)))
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.rounds[m.order[i]])
	}
	return out, nil
}
