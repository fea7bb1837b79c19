// internal/board/tokens.go
//
// Token encoding shared by the board and candidate words, plus the
// precomputed 8-directional adjacency table.

package board

import "strings"

// Token is the unit of comparison during the on-board search:
// an uppercase ASCII letter, or TokenQu for the "Qu" digraph.
type Token byte

// TokenQu stands for the "Qu" tile and for each "QU" pair in a word.
// It is lowercase so it can never collide with a single uppercase letter.
const TokenQu Token = 'q'

// neighbors[i] lists the cells adjacent to i (horizontal, vertical, diagonal).
var neighbors = buildNeighbors()

func buildNeighbors() [Cells][]int {
	var out [Cells][]int
	for i := 0; i < Cells; i++ {
		r, c := i/Size, i%Size
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				nr, nc := r+dr, c+dc
				if nr >= 0 && nr < Size && nc >= 0 && nc < Size {
					out[i] = append(out[i], nr*Size+nc)
				}
			}
		}
	}
	return out
}

// Neighbors returns the cells adjacent to cell i. The slice must not be modified.
func Neighbors(i int) []int {
	if i < 0 || i >= Cells {
		return nil
	}
	return neighbors[i]
}

// Tokenize splits an uppercase word into match tokens, scanning left to right
// and folding each "QU" into a single TokenQu.
func Tokenize(word string) []Token {
	out := make([]Token, 0, len(word))
	for i := 0; i < len(word); i++ {
		if word[i] == 'Q' && i+1 < len(word) && word[i+1] == 'U' {
			out = append(out, TokenQu)
			i++
			continue
		}
		out = append(out, Token(word[i]))
	}
	return out
}

// TileToken encodes a single tile with the same scheme as Tokenize.
func TileToken(tile string) Token {
	if strings.EqualFold(tile, QuTile) {
		return TokenQu
	}
	if tile == "" {
		return 0
	}
	return Token(strings.ToUpper(tile)[0])
}

// Tokens encodes every tile of the board.
func (b Board) Tokens() [Cells]Token {
	var out [Cells]Token
	for i, t := range b {
		out[i] = TileToken(t)
	}
	return out
}
