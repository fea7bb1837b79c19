// internal/daily/daily.go
//
// Reproducible daily boards.
//
// When a salt is configured, round N of a UTC day draws its board from a random
// source seeded with HMAC-SHA256(salt, "YYYY-MM-DD#N"). Hosts sharing a salt
// therefore play the same sequence of boards on the same day.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/kagithamanoj/boggle/internal/board"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns the deterministic seed for round n on date's UTC day.
func Seed(date time.Time, salt string, n int) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	fmt.Fprintf(h, "%s#%d", DateKey(date), n)
	sum := h.Sum(nil)
	// take first 8 bytes as the seed
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// Boards returns a board source for game.Options.Boards. The session's round
// number is ignored: Boards counts rounds per UTC day itself, restarting at 1
// when DateKey(now()) changes, so a host running past midnight plays the same
// sequence as one started that morning.
func Boards(salt string, now func() time.Time) func(round int) board.Board {
	if now == nil {
		now = time.Now
	}
	var (
		mu  sync.Mutex
		day string
		n   int
	)
	return func(int) board.Board {
		t := now()
		mu.Lock()
		if key := DateKey(t); key != day {
			day, n = key, 0
		}
		n++
		seed := Seed(t, salt, n)
		mu.Unlock()
		return board.NewGenerator(rand.New(rand.NewSource(seed))).Generate()
	}
}
