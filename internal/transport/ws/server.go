// internal/transport/ws/server.go
//
// Websocket transport between the host loop and its clients.
// Responsibilities:
//   - Upgrade /ws requests and give each connection a uuid.
//   - Register the connection with the host, feed it every inbound text frame
//     in arrival order, and report the close.
//   - Write outbound messages from a per-connection goroutine.
//   - Rate-limit inbound frames per connection; frames over the limit are
//     dropped without a reply.

package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/kagithamanoj/boggle/internal/host"
	"github.com/kagithamanoj/boggle/internal/protocol"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	maxFrame   = 4 * 1024
	outQueue   = 32
)

var (
	// ErrClosed is returned by Send after the connection has gone away.
	ErrClosed = errors.New("ws: connection closed")
	// ErrQueueFull is returned by Send when the client is not reading.
	ErrQueueFull = errors.New("ws: outbound queue full")
)

// Host is the part of host.Host the transport drives.
type Host interface {
	Connect() chan<- host.Conn
	Leave() chan<- string
	Inbox() chan<- host.Inbound
	Done() <-chan struct{}
}

// Options configure a Server.
type Options struct {
	RatePerSec  float64
	Burst       int
	CheckOrigin func(r *http.Request) bool // nil allows any origin
	Logger      zerolog.Logger
}

type Server struct {
	host     Host
	opts     Options
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewServer(h Host, opts Options) *Server {
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 10
	}
	if opts.Burst <= 0 {
		opts.Burst = 20
	}
	check := opts.CheckOrigin
	if check == nil {
		check = func(r *http.Request) bool { return true } // dev default
	}
	return &Server{
		host: h,
		opts: opts,
		log:  opts.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     check,
		},
	}
}

// conn implements host.Conn over a buffered outbound queue.
type conn struct {
	id   string
	out  chan []byte
	done chan struct{}
	once sync.Once
}

func (c *conn) ID() string { return c.id }

// Send encodes m on the caller's goroutine and queues it without blocking.
func (c *conn) Send(m protocol.Message) error {
	b, err := protocol.Encode(m)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	select {
	case c.out <- b:
		return nil
	case <-c.done:
		return ErrClosed
	default:
		return ErrQueueFull
	}
}

func (c *conn) close() { c.once.Do(func() { close(c.done) }) }

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ws, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			s.log.Debug().Err(err).Msg("upgrade failed")
			return
		}
		defer ws.Close()

		c := &conn{id: uuid.NewString(), out: make(chan []byte, outQueue), done: make(chan struct{})}
		log := s.log.With().Str("conn", c.id).Logger()

		select {
		case s.host.Connect() <- c:
		case <-s.host.Done():
			_ = ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "host stopped"), time.Now().Add(time.Second))
			return
		}
		log.Debug().Str("remote", r.RemoteAddr).Msg("connected")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		defer c.close()

		// Writer goroutine.
		go func() {
			ping := time.NewTicker(pingPeriod)
			defer ping.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-c.out:
					_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
					if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
						log.Debug().Err(err).Msg("write failed")
						cancel()
						_ = ws.Close()
						return
					}
				case <-ping.C:
					if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
						cancel()
						_ = ws.Close()
						return
					}
				}
			}
		}()

		// Reader loop.
		limiter := rate.NewLimiter(rate.Limit(s.opts.RatePerSec), s.opts.Burst)
		ws.SetReadLimit(maxFrame)
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(pongWait))
		})
	read:
		for {
			typ, msg, err := ws.ReadMessage()
			if err != nil {
				break
			}
			_ = ws.SetReadDeadline(time.Now().Add(pongWait))
			if typ != websocket.TextMessage {
				continue
			}
			if !limiter.Allow() {
				log.Debug().Msg("rate limited, frame dropped")
				continue
			}
			select {
			case s.host.Inbox() <- host.Inbound{ConnID: c.id, Data: msg}:
			case <-s.host.Done():
				break read
			}
		}

		// Cleanup.
		cancel()
		c.close()
		select {
		case s.host.Leave() <- c.id:
		case <-s.host.Done():
		}
		log.Debug().Msg("disconnected")
	}
}
