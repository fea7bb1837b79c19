package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/kagithamanoj/boggle/internal/protocol"
)

// recorder is a View that records every update as a short string.
type recorder struct {
	calls  []string
	result protocol.SubmitResultMsg
	scores []protocol.Score
	done   chan struct{}
}

func (r *recorder) JoinAcked() { r.calls = append(r.calls, "ack") }
func (r *recorder) GameStarted(d int, board [][]string) {
	r.calls = append(r.calls, "start")
}
func (r *recorder) SubmitResult(m protocol.SubmitResultMsg) {
	r.calls = append(r.calls, "result")
	r.result = m
}
func (r *recorder) GameOver(scores []protocol.Score) {
	r.calls = append(r.calls, "over")
	r.scores = scores
	if r.done != nil {
		close(r.done)
	}
}

func TestDispatch(t *testing.T) {
	tests := []struct {
		name    string
		frame   string
		handled bool
		wantErr bool
		calls   []string
	}{
		{name: "join ack", frame: `{"type":"JOIN_ACK"}`, handled: true, calls: []string{"ack"}},
		{name: "game start", frame: `{"type":"GAME_START","duration":180}`, handled: true, calls: []string{"start"}},
		{name: "submit result", frame: `{"type":"SUBMIT_RESULT","status":"VALID","word":"tree","points":1,"totalScore":1}`, handled: true, calls: []string{"result"}},
		{name: "game over", frame: `{"type":"GAME_OVER","scores":[]}`, handled: true, calls: []string{"over"}},
		{name: "host-bound type ignored", frame: `{"type":"SUBMIT_WORD","word":"x"}`},
		{name: "unknown type", frame: `{"type":"PING"}`, wantErr: true},
		{name: "bad json", frame: `{`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &recorder{}
			ok, err := Dispatch(v, []byte(tt.frame))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if ok != tt.handled {
				t.Fatalf("handled = %v, want %v", ok, tt.handled)
			}
			if !reflect.DeepEqual(v.calls, tt.calls) {
				t.Fatalf("calls = %v, want %v", v.calls, tt.calls)
			}
		})
	}
}

func TestDispatchSubmitResultFields(t *testing.T) {
	v := &recorder{}
	frame := `{"type":"SUBMIT_RESULT","status":"INVALID","word":"zz","reason":"Too Short"}`
	if _, err := Dispatch(v, []byte(frame)); err != nil {
		t.Fatal(err)
	}
	if v.result.Status != protocol.StatusInvalid || v.result.Reason != "Too Short" || v.result.Word != "zz" {
		t.Fatalf("result = %+v", v.result)
	}
}

// TestClientRoundTrip runs a scripted host: it expects JOIN then SUBMIT_WORD
// and answers with JOIN_ACK, SUBMIT_RESULT and GAME_OVER.
func TestClientRoundTrip(t *testing.T) {
	upgrader := websocket.Upgrader{}
	got := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for i := 0; i < 2; i++ {
			_, b, err := conn.ReadMessage()
			if err != nil {
				return
			}
			got <- string(b)
			switch i {
			case 0:
				_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"JOIN_ACK"}`))
			case 1:
				_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"SUBMIT_RESULT","status":"DUPLICATE","word":"tree"}`))
				_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"GAME_OVER","scores":[{"id":"c1","name":"ann","score":2}]}`))
			}
		}
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, err := Dial(ctx, url, "ann", zerolog.Nop())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	if first := <-got; first != `{"type":"JOIN","name":"ann"}` {
		t.Fatalf("first frame = %s", first)
	}
	if err := c.Submit("tree"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if second := <-got; second != `{"type":"SUBMIT_WORD","word":"tree"}` {
		t.Fatalf("second frame = %s", second)
	}

	v := &recorder{done: make(chan struct{})}
	runCtx, stop := context.WithCancel(ctx)
	errc := make(chan error, 1)
	go func() { errc <- c.Run(runCtx, v) }()

	select {
	case <-v.done:
	case <-ctx.Done():
		t.Fatalf("timed out waiting for GAME_OVER")
	}
	stop()
	if err := <-errc; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(v.calls, []string{"ack", "result", "over"}) {
		t.Fatalf("calls = %v", v.calls)
	}
	if len(v.scores) != 1 || v.scores[0].Score != 2 {
		t.Fatalf("scores = %+v", v.scores)
	}
}
