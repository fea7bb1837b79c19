// cmd/client/main.go
//
// Terminal player client.
//   - Dials the host's /ws endpoint and joins under -name.
//   - Every line typed on stdin is submitted as a word.
//   - Renders JOIN_ACK, GAME_START (board plus a local countdown),
//     SUBMIT_RESULT, and GAME_OVER.

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kagithamanoj/boggle/internal/client"
	"github.com/kagithamanoj/boggle/internal/protocol"
)

func main() {
	var (
		url   = flag.String("url", "ws://localhost:5175/ws", "host websocket url")
		name  = flag.String("name", "", "display name")
		debug = flag.Bool("debug", false, "log dropped frames")
	)
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c, err := client.Dial(ctx, *url, *name, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect")
	}
	defer c.Close()

	tv := &terminal{out: os.Stdout}
	go readWords(ctx, os.Stdin, c, logger)

	if err := c.Run(ctx, tv); err != nil {
		logger.Error().Err(err).Msg("connection lost")
	}
	tv.stopTimer()
}

// readWords submits each non-empty stdin line until EOF or ctx is done.
func readWords(ctx context.Context, r io.Reader, c *client.Client, logger zerolog.Logger) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		w := strings.TrimSpace(sc.Text())
		if w == "" {
			continue
		}
		if err := c.Submit(w); err != nil {
			logger.Error().Err(err).Msg("submit")
			return
		}
	}
}

// terminal is a client.View that prints to a writer.
type terminal struct {
	out io.Writer

	mu    sync.Mutex
	score int
	timer chan struct{} // closed to stop the running countdown
}

func (t *terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

func (t *terminal) JoinAcked() {
	t.printf("Joined. Waiting for the host to start the round...\n")
}

func (t *terminal) GameStarted(duration int, board [][]string) {
	t.stopTimer()
	t.mu.Lock()
	t.score = 0
	stop := make(chan struct{})
	t.timer = stop
	t.mu.Unlock()

	t.printf("\nRound started: %s on the clock.\n", clock(duration))
	for _, row := range board {
		var b strings.Builder
		for _, tile := range row {
			fmt.Fprintf(&b, " %-2s", tile)
		}
		t.printf("%s\n", b.String())
	}
	t.printf("Type words and press enter.\n")
	go t.countdown(duration, stop)
}

func (t *terminal) countdown(duration int, stop <-chan struct{}) {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	for left := duration - 1; left >= 0; left-- {
		select {
		case <-stop:
			return
		case <-tick.C:
		}
		if left > 0 && (left%60 == 0 || left == 30 || left <= 10) {
			t.printf("  %s left\n", clock(left))
		}
	}
}

func (t *terminal) stopTimer() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		close(t.timer)
		t.timer = nil
	}
}

func (t *terminal) SubmitResult(r protocol.SubmitResultMsg) {
	switch r.Status {
	case protocol.StatusValid:
		t.mu.Lock()
		t.score = r.TotalScore
		t.mu.Unlock()
		t.printf("  + %s (+%d) score %d\n", strings.ToUpper(r.Word), r.Points, r.TotalScore)
	case protocol.StatusDuplicate:
		t.printf("  = %s already found\n", strings.ToUpper(r.Word))
	default:
		t.printf("  x %s: %s\n", r.Word, r.Reason)
	}
}

func (t *terminal) GameOver(scores []protocol.Score) {
	t.stopTimer()
	t.mu.Lock()
	mine := t.score
	t.mu.Unlock()
	t.printf("\nTime's up! Your score: %d\n", mine)
	for i, s := range scores {
		t.printf("%2d. %-16s %d\n", i+1, s.Name, s.Score)
	}
}

func clock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
