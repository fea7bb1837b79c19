// internal/game/validator.go
//
// Word validation for a single submission.
// Responsibilities:
//   - Normalize the candidate (uppercase only; the caller trims).
//   - Apply the checks in a fixed order: length, dictionary, duplicate, board.
//   - Score accepted words with the fixed length table.
//   - Search the board for a path of adjacent, unused cells spelling the word.
//
// Notes:
//   - The first failing check decides the outcome; later checks never run.
//   - A VALID outcome mutates the player (found words + score).
package game

import (
	"strings"
	"unicode/utf8"

	"github.com/kagithamanoj/boggle/internal/board"
)

// Validator checks submissions against a dictionary and the current board.
type Validator struct {
	dict Dictionary
}

// NewValidator constructs a Validator backed by dict.
func NewValidator(dict Dictionary) *Validator {
	return &Validator{dict: dict}
}

// Validate classifies raw for player p on board b.
//
// Checks, in order:
//   - fewer than MinWordLength characters → TOO_SHORT
//   - not in the dictionary                → NOT_IN_DICTIONARY
//   - already found by this player         → DUPLICATE
//   - no adjacency path on the board       → NOT_ON_BOARD
//
// Otherwise the word is recorded for p, p.Score grows by Points(word), and the
// outcome is VALID with the new total.
func (v *Validator) Validate(raw string, b board.Board, p *Player) Outcome {
	word := strings.ToUpper(raw)
	out := Outcome{Word: word}

	switch {
	case utf8.RuneCountInString(word) < MinWordLength:
		out.Kind = OutcomeTooShort
	case v.dict == nil || !v.dict.Contains(word):
		out.Kind = OutcomeNotInDictionary
	case p.HasFound(word):
		out.Kind = OutcomeDuplicate
	case !OnBoard(word, b):
		out.Kind = OutcomeNotOnBoard
	default:
		pts := Points(word)
		p.FoundWords[word] = struct{}{}
		p.Score += pts
		out.Kind = OutcomeValid
		out.Points = pts
		out.TotalScore = p.Score
	}
	return out
}

// Points scores a word by its normalized length.
// The table is fixed: 3–4 → 1, 5 → 2, 6 → 3, 7 → 5, 8+ → 11.
func Points(word string) int {
	switch l := utf8.RuneCountInString(word); {
	case l <= 4:
		return 1
	case l == 5:
		return 2
	case l == 6:
		return 3
	case l == 7:
		return 5
	default:
		return 11
	}
}

// OnBoard reports whether the uppercase word can be traced on b through
// 8-directionally adjacent cells, using each cell at most once.
func OnBoard(word string, b board.Board) bool {
	tokens := board.Tokenize(word)
	if len(tokens) == 0 {
		return false
	}
	s := &pathSearch{tiles: b.Tokens(), word: tokens}
	for start := 0; start < board.Cells; start++ {
		if s.match(start, 0) {
			return true
		}
	}
	return false
}

// pathSearch is a backtracking DFS over the grid. visited is a bitmask shared
// by the whole search; each call marks its cell before descending and clears it
// on return, so sibling branches always see the same state.
type pathSearch struct {
	tiles   [board.Cells]board.Token
	word    []board.Token
	visited uint16
}

func (s *pathSearch) match(cell, pos int) bool {
	if s.tiles[cell] != s.word[pos] {
		return false
	}
	if pos == len(s.word)-1 {
		return true
	}

	bit := uint16(1) << cell
	s.visited |= bit
	defer func() { s.visited &^= bit }()

	for _, next := range board.Neighbors(cell) {
		if s.visited&(1<<next) != 0 {
			continue
		}
		if s.match(next, pos+1) {
			return true
		}
	}
	return false
}
