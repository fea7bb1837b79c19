// internal/client/client.go
//
// Client side of the host⇄client protocol.
// Responsibilities:
//   - Dial the host's websocket endpoint and announce the player with JOIN.
//   - Send SUBMIT_WORD frames.
//   - Route every inbound frame to exactly one View update via Dispatch.
//
// Notes:
//   - Frames the client does not understand (host-bound types, unknown types,
//     bad JSON) are dropped.
//   - Writes are serialized; gorilla/websocket allows one concurrent writer.

package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/kagithamanoj/boggle/internal/protocol"
)

// View receives the UI updates a client renders.
type View interface {
	JoinAcked()
	GameStarted(duration int, board [][]string)
	SubmitResult(r protocol.SubmitResultMsg)
	GameOver(scores []protocol.Score)
}

// Dispatch decodes one frame and applies it to v.
// It reports whether the frame selected a View update.
func Dispatch(v View, frame []byte) (bool, error) {
	msg, err := protocol.Decode(frame)
	if err != nil {
		return false, err
	}
	switch m := msg.(type) {
	case *protocol.JoinAckMsg:
		v.JoinAcked()
	case *protocol.GameStartMsg:
		v.GameStarted(m.Duration, m.Board)
	case *protocol.SubmitResultMsg:
		v.SubmitResult(*m)
	case *protocol.GameOverMsg:
		v.GameOver(m.Scores)
	default:
		return false, nil
	}
	return true, nil
}

// Client is one player's connection to a host.
type Client struct {
	conn *websocket.Conn
	log  zerolog.Logger

	mu sync.Mutex // guards writes to conn
}

// Dial connects to the host at url and sends JOIN with name.
func Dial(ctx context.Context, url, name string, log zerolog.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", url, err)
	}
	c := &Client{conn: conn, log: log}
	if err := c.send(&protocol.JoinMsg{Name: name}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("client: send JOIN: %w", err)
	}
	return c, nil
}

// Submit sends one candidate word as typed.
func (c *Client) Submit(word string) error {
	return c.send(&protocol.SubmitWordMsg{Word: word})
}

func (c *Client) send(m protocol.Message) error {
	b, err := protocol.Encode(m)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// Run reads frames until the connection closes or ctx is done.
// A normal close from the host returns nil.
func (c *Client) Run(ctx context.Context, v View) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.conn.Close()
		case <-done:
		}
	}()
	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("client: read: %w", err)
		}
		ok, err := Dispatch(v, frame)
		switch {
		case errors.Is(err, protocol.ErrUnknownType):
			c.log.Debug().Err(err).Msg("drop frame")
		case err != nil:
			c.log.Debug().Err(err).Msg("bad frame")
		case !ok:
			c.log.Debug().Bytes("frame", frame).Msg("ignored frame")
		}
	}
}

// Close sends a close frame and releases the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.mu.Unlock()
	return c.conn.Close()
}
