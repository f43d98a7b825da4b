// Package protocol holds the wire types shared by the wish store and its clients:
// REST bodies and WebSocket envelopes.
package protocol

import "encoding/json"

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Client -> Server
	MsgSubmitWish MessageType = "submit_wish"
	MsgFetchSeed  MessageType = "fetch_seed"
	MsgDeleteWish MessageType = "delete_wish"

	// Server -> Client (always a reply to the request with the same ID)
	MsgWishCreated MessageType = "wish_created"
	MsgSeed        MessageType = "seed"
	MsgWishDeleted MessageType = "wish_deleted"
	MsgError       MessageType = "error"
)

// Message is the wrapper for all WebSocket messages
type Message struct {
	Type    MessageType     `json:"type"`
	ID      string          `json:"id,omitempty"` // request id, echoed by the reply
	Payload json.RawMessage `json:"payload"`
}

// WishItem is a single stored wish
type WishItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at,omitempty"`
}

// SubmitPayload is the body of a new wish
type SubmitPayload struct {
	Text string `json:"text"`
}

// SeedRequestPayload asks for the initial batch
type SeedRequestPayload struct {
	Recent int `json:"recent"`
	Random int `json:"random"`
}

// SeedPayload is the initial batch: newest wishes plus a random sample of the rest
type SeedPayload struct {
	Recent []WishItem `json:"recent"`
	Random []WishItem `json:"random"`
}

// DeletePayload names the wish to delete
type DeletePayload struct {
	ID string `json:"id"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Error string `json:"error"`
}

// EncodeMessage encodes a message with its payload
func EncodeMessage(msgType MessageType, id string, payload interface{}) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	msg := Message{
		Type:    msgType,
		ID:      id,
		Payload: payloadBytes,
	}

	return json.Marshal(msg)
}

// DecodeMessage decodes a message
func DecodeMessage(data []byte) (*Message, error) {
	var msg Message
	err := json.Unmarshal(data, &msg)
	return &msg, err
}
