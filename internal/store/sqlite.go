// internal/store/sqlite.go
//
// SQLite-backed round archive. Schema lives in assets/migrations and is applied
// by the caller before NewSQLStore is used.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/kagithamanoj/boggle/internal/board"
	"github.com/kagithamanoj/boggle/internal/game"
)

type sqlStore struct{ db *sql.DB }

// NewSQLStore returns a Store over an open, migrated database.
func NewSQLStore(db *sql.DB) Store { return &sqlStore{db: db} }

func (s *sqlStore) Save(ctx context.Context, r Round) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM round_scores WHERE round_id=?`, r.ID); err != nil {
		return fmt.Errorf("store: clear scores %s: %w", r.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `
        INSERT OR REPLACE INTO rounds (id, round, board, forced, started_at, ended_at)
        VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Number, encodeBoard(r.Board), r.Forced, r.StartedAt.UTC(), r.EndedAt.UTC(),
	); err != nil {
		return fmt.Errorf("store: insert round %s: %w", r.ID, err)
	}
	for i, st := range r.Ranking {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO round_scores (round_id, position, player_id, name, score)
            VALUES (?, ?, ?, ?, ?)`,
			r.ID, i, st.ID, st.Name, st.Score,
		); err != nil {
			return fmt.Errorf("store: insert score %s/%d: %w", r.ID, i, err)
		}
	}
	return tx.Commit()
}

func (s *sqlStore) Get(ctx context.Context, id string) (Round, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, round, board, forced, started_at, ended_at
        FROM rounds WHERE id=?`, id)
	r, err := scanRound(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Round{}, ErrNotFound
	}
	if err != nil {
		return Round{}, err
	}
	if r.Ranking, err = s.ranking(ctx, r.ID); err != nil {
		return Round{}, err
	}
	return r, nil
}

func (s *sqlStore) Recent(ctx context.Context, limit int) ([]Round, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, round, board, forced, started_at, ended_at
        FROM rounds
        ORDER BY ended_at DESC, created_at DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Round, 0, limit)
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Ranking, err = s.ranking(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *sqlStore) ranking(ctx context.Context, id string) ([]game.Standing, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT player_id, name, score
        FROM round_scores
        WHERE round_id=?
        ORDER BY position ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []game.Standing{}
	for rows.Next() {
		var st game.Standing
		if err := rows.Scan(&st.ID, &st.Name, &st.Score); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRound(sc scanner) (Round, error) {
	var (
		r     Round
		tiles string
	)
	if err := sc.Scan(&r.ID, &r.Number, &tiles, &r.Forced, &r.StartedAt, &r.EndedAt); err != nil {
		return Round{}, err
	}
	b, err := decodeBoard(tiles)
	if err != nil {
		return Round{}, fmt.Errorf("store: round %s: %w", r.ID, err)
	}
	r.Board = b
	return r, nil
}

// Boards are stored as the 16 tiles joined by commas, row-major.
func encodeBoard(b board.Board) string {
	return strings.Join(b[:], ",")
}

func decodeBoard(s string) (board.Board, error) {
	var b board.Board
	parts := strings.Split(s, ",")
	if len(parts) != board.Cells {
		return b, fmt.Errorf("board has %d tiles, want %d", len(parts), board.Cells)
	}
	copy(b[:], parts)
	return b, nil
}
