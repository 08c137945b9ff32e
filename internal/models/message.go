package models

import "encoding/json"

// SignalType identifies a signaling event on the wire.
type SignalType string

const (
	SignalTypeJoinRoom         SignalType = "join-room"
	SignalTypeOffer            SignalType = "offer"
	SignalTypeAnswer           SignalType = "answer"
	SignalTypeCandidate        SignalType = "ice-candidate"
	SignalTypeUserConnected    SignalType = "user-connected"
	SignalTypeUserDisconnected SignalType = "user-disconnected"
	SignalTypeError            SignalType = "error"
)

// SignalMessage is the envelope for every client/server signaling exchange.
// Payload carries the SDP or candidate blob; the server never inspects it.
type SignalMessage struct {
	Type    SignalType      `json:"type"`
	From    string          `json:"from,omitempty"`
	RoomID  string          `json:"roomId,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Relayable reports whether the message kind is forwarded verbatim to the
// other members of the sender's room.
func (t SignalType) Relayable() bool {
	switch t {
	case SignalTypeOffer, SignalTypeAnswer, SignalTypeCandidate:
		return true
	}
	return false
}
