package protocol

// JOIN (client -> host)
type JoinMsg struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// JOIN_ACK (host -> client)
type JoinAckMsg struct {
	Type string `json:"type"`
}

// GAME_START (host -> all clients)
type GameStartMsg struct {
	Type     string `json:"type"`
	Duration int    `json:"duration"`
	// Board is the grid as rows, for clients that render it themselves.
	Board [][]string `json:"board,omitempty"`
}

// SUBMIT_WORD (client -> host)
type SubmitWordMsg struct {
	Type string `json:"type"`
	Word string `json:"word"`
}

// SUBMIT_RESULT (host -> submitting client)
type SubmitResultMsg struct {
	Type       string `json:"type"`
	Status     string `json:"status"`
	Word       string `json:"word"`
	Reason     string `json:"reason,omitempty"`
	Points     int    `json:"points,omitempty"`
	TotalScore int    `json:"totalScore,omitempty"`
}

// GAME_OVER (host -> all clients)
type GameOverMsg struct {
	Type   string  `json:"type"`
	Scores []Score `json:"scores"`
}

// Score is one GAME_OVER row, in ranking order.
type Score struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func (*JoinMsg) MessageType() string         { return TypeJoin }
func (*JoinAckMsg) MessageType() string      { return TypeJoinAck }
func (*GameStartMsg) MessageType() string    { return TypeGameStart }
func (*SubmitWordMsg) MessageType() string   { return TypeSubmitWord }
func (*SubmitResultMsg) MessageType() string { return TypeSubmitResult }
func (*GameOverMsg) MessageType() string     { return TypeGameOver }
