// internal/board/board.go
//
// Board generation for a 4x4 Boggle grid.
// Responsibilities:
//   - Hold the fixed 16-die set.
//   - Roll a Board: permute dice to cells, pick one face per die.
//   - Expand the Q face into the "Qu" digraph tile.
//
// Notes:
//   - Generation is deterministic for a given *rand.Rand; callers inject the
//     source (crypto-seeded by default, or a daily seed, see internal/daily).
//   - Tokens and the neighbor table live in tokens.go; the path search is in
//     internal/game.
package board

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"strings"
	"time"
)

const (
	// Size is the number of rows (and columns) on the grid.
	Size = 4
	// Cells is the total number of tiles on a board.
	Cells = Size * Size

	// QuTile is the digraph tile printed on the Q face of the die.
	QuTile = "Qu"
)

// Dice is the standard 16-die set, one face string per physical die.
var Dice = [Cells]string{
	"AAEEGN", "ABBJOO", "ACHOPS", "AFFKPS",
	"AOOTTW", "CIMOTU", "DEILRX", "DELRVY",
	"DISTTY", "EEGHNW", "EEINSU", "EHRTVW",
	"EIOSST", "ELRTTY", "HIMNQU", "HLNNRZ",
}

// Board is a row-major 4x4 grid of tiles; index i is (row i/4, col i%4).
type Board [Cells]string

// Rows returns the board as a 4x4 slice, one row per entry.
func (b Board) Rows() [][]string {
	out := make([][]string, Size)
	for r := 0; r < Size; r++ {
		out[r] = append([]string(nil), b[r*Size:(r+1)*Size]...)
	}
	return out
}

// String renders the board as four space-separated rows joined by " / ".
func (b Board) String() string {
	rows := make([]string, 0, Size)
	for _, r := range b.Rows() {
		rows = append(rows, strings.Join(r, " "))
	}
	return strings.Join(rows, " / ")
}

// Generator rolls boards from an injected random source.
// A Generator is not safe for concurrent use; the host loop owns it.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator constructs a Generator with the provided rng or a crypto-seeded default.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(randomSeed()))
	}
	return &Generator{rng: rng}
}

// Generate rolls a fresh board.
//
// Dice are assigned to cells by a uniform Fisher–Yates permutation
// (rand.Shuffle walks i from the last index down to 1 and swaps with j in [0, i]),
// then each die shows one uniformly chosen face.
func (g *Generator) Generate() Board {
	dice, faces := g.roll()

	var b Board
	for i := range b {
		face := Dice[dice[i]][faces[i]]
		if face == 'Q' {
			b[i] = QuTile
			continue
		}
		b[i] = string(face)
	}
	return b
}

// roll returns, per cell, the index of the die placed there and the index of its face.
func (g *Generator) roll() (dice [Cells]int, faces [Cells]int) {
	for i := range dice {
		dice[i] = i
	}
	g.rng.Shuffle(len(dice), func(i, j int) { dice[i], dice[j] = dice[j], dice[i] })
	for i, d := range dice {
		faces[i] = g.rng.Intn(len(Dice[d]))
	}
	return dice, faces
}

// randomSeed draws a seed from crypto/rand, falling back to the clock.
func randomSeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}
