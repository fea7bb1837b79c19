// internal/journal/journal.go
//
// Round journal: zstd-compressed JSONL of round lifecycle entries.
// Responsibilities:
//   - Turn host events into Entry values (round_start, word_found, round_end).
//   - Append them to <dir>/rounds-YYYY-MM-DD-HH.jsonl.zst, one file per UTC hour.
//   - Read a journal file back (replay, tests).
//
// Each Write flushes the encoder so entries reach the file promptly. A file is
// complete once the Writer rotates away from it or closes. Reopening an hour
// appends a new zstd frame; readers decode the concatenated frames in order.

package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/kagithamanoj/boggle/internal/game"
)

// Entry kinds.
const (
	KindRoundStart = "round_start"
	KindWordFound  = "word_found"
	KindRoundEnd   = "round_end"
)

// Entry is one journal line.
type Entry struct {
	Kind    string          `json:"kind"`
	Time    time.Time       `json:"time"`
	Round   int             `json:"round,omitempty"`
	Board   string          `json:"board,omitempty"`
	Conn    string          `json:"conn,omitempty"`
	Player  string          `json:"player,omitempty"`
	Word    string          `json:"word,omitempty"`
	Points  int             `json:"points,omitempty"`
	Forced  bool            `json:"forced,omitempty"`
	Ranking []game.Standing `json:"ranking,omitempty"`
}

// Writer appends entries to hourly zstd JSONL files.
type Writer struct {
	baseDir string
	prefix  string
	now     func() time.Time

	mu      sync.Mutex
	round   int // last round started, stamped on word_found entries
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

// New returns a Writer rooted at dir. Files are created lazily.
func New(dir string) *Writer {
	return &Writer{baseDir: dir, prefix: "rounds", now: time.Now}
}

// Record implements host.Recorder. Events other than round lifecycle are ignored.
func (w *Writer) Record(ctx context.Context, ev game.Event) error {
	var e Entry
	switch v := ev.(type) {
	case game.RoundStarted:
		w.mu.Lock()
		w.round = v.Round
		w.mu.Unlock()
		e = Entry{Kind: KindRoundStart, Round: v.Round, Board: v.Board.String()}
	case game.WordFound:
		w.mu.Lock()
		round := w.round
		w.mu.Unlock()
		e = Entry{Kind: KindWordFound, Round: round, Conn: v.ConnID, Player: v.Name, Word: v.Word, Points: v.Points}
	case game.RoundEnded:
		e = Entry{Kind: KindRoundEnd, Round: v.Round, Board: v.Board.String(), Forced: v.Forced, Ranking: v.Ranking}
	default:
		return nil
	}
	return w.Write(e)
}

// Write appends one entry, stamping Time when it is zero.
func (w *Writer) Write(e Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now().UTC()
	if e.Time.IsZero() {
		e.Time = now
	}
	hour := now.Format("2006-01-02-15")
	if hour != w.curHour {
		if err := w.rotateLocked(hour); err != nil {
			return fmt.Errorf("journal: rotate: %w", err)
		}
	}

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.enc.Flush()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *Writer) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.PathForHour(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 32*1024)
	w.curHour = hour
	return nil
}

// closeLocked flushes and closes the current file. Every step runs; the first
// error is returned.
func (w *Writer) closeLocked() error {
	var first error
	keep := func(err error) {
		if first == nil && err != nil {
			first = err
		}
	}
	if w.w != nil {
		keep(w.w.Flush())
	}
	if w.enc != nil {
		keep(w.enc.Close())
		w.enc = nil
	}
	if w.f != nil {
		keep(w.f.Close())
		w.f = nil
	}
	w.w = nil
	w.curHour = ""
	return first
}

// PathForHour returns the file for an hour key formatted as 2006-01-02-15.
func (w *Writer) PathForHour(hour string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
}

// ReadFile decodes every entry in a journal file.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read decodes entries from a zstd JSONL stream.
func Read(r io.Reader) ([]Entry, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("journal: zstd: %w", err)
	}
	defer dec.Close()

	var out []Entry
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return out, fmt.Errorf("journal: line %d: %w", len(out)+1, err)
		}
		out = append(out, e)
	}
	return out, sc.Err()
}
