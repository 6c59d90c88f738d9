package server

import (
	"encoding/json"
)

// Message types exchanged over WebSocket.
const (
	MsgExec    = "exec"
	MsgWelcome = "welcome"
	MsgOutput  = "output"
	MsgError   = "error"
)

// ClientMessage is a message from client to server.
type ClientMessage struct {
	Type string `json:"type"`
	Line string `json:"line,omitempty"`
}

// ServerMessage is a message from server to client.
type ServerMessage struct {
	Type     string `json:"type"`
	ClientID string `json:"clientId,omitempty"`
	Output   string `json:"output,omitempty"`
	Quit     bool   `json:"quit,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Encode serializes a ServerMessage to JSON bytes.
func (m ServerMessage) Encode() []byte {
	b, _ := json.Marshal(m)
	return b
}
