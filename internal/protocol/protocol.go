// internal/protocol/protocol.go
//
// Wire vocabulary shared by the host and its clients.
//
// Notes:
//   - Every message is one JSON object with a "type" field, sent as one
//     websocket text frame.
//   - The set of message types is closed. Decode rejects anything else with
//     ErrUnknownType so both sides can drop it in their default arm.

package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message types.
const (
	TypeJoin         = "JOIN"
	TypeJoinAck      = "JOIN_ACK"
	TypeGameStart    = "GAME_START"
	TypeSubmitWord   = "SUBMIT_WORD"
	TypeSubmitResult = "SUBMIT_RESULT"
	TypeGameOver     = "GAME_OVER"
)

// SUBMIT_RESULT statuses.
const (
	StatusValid     = "VALID"
	StatusInvalid   = "INVALID"
	StatusDuplicate = "DUPLICATE"
)

var (
	// ErrUnknownType is returned by Decode for a type outside the vocabulary.
	ErrUnknownType = errors.New("protocol: unknown message type")
	// ErrMissingType is returned by Decode when the object has no type.
	ErrMissingType = errors.New("protocol: missing message type")
)

// Message is one of the typed variants below.
type Message interface {
	MessageType() string
}

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type string `json:"type"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

// Decode parses one frame into its typed variant.
func Decode(b []byte) (Message, error) {
	base, err := DecodeBase(b)
	if err != nil {
		return nil, fmt.Errorf("protocol: decode: %w", err)
	}
	var msg Message
	switch base.Type {
	case TypeJoin:
		msg = &JoinMsg{}
	case TypeJoinAck:
		msg = &JoinAckMsg{}
	case TypeGameStart:
		msg = &GameStartMsg{}
	case TypeSubmitWord:
		msg = &SubmitWordMsg{}
	case TypeSubmitResult:
		msg = &SubmitResultMsg{}
	case TypeGameOver:
		msg = &GameOverMsg{}
	case "":
		return nil, ErrMissingType
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, base.Type)
	}
	if err := json.Unmarshal(b, msg); err != nil {
		return nil, fmt.Errorf("protocol: decode %s: %w", base.Type, err)
	}
	return msg, nil
}

// Encode marshals m, stamping its type field.
func Encode(m Message) ([]byte, error) {
	switch v := m.(type) {
	case *JoinMsg:
		v.Type = TypeJoin
	case *JoinAckMsg:
		v.Type = TypeJoinAck
	case *GameStartMsg:
		v.Type = TypeGameStart
	case *SubmitWordMsg:
		v.Type = TypeSubmitWord
	case *SubmitResultMsg:
		v.Type = TypeSubmitResult
	case *GameOverMsg:
		v.Type = TypeGameOver
		if v.Scores == nil {
			v.Scores = []Score{}
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownType, m)
	}
	return json.Marshal(m)
}
