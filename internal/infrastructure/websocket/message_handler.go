package websocket

import (
	"encoding/json"
	"time"
)

// Event types sent to clients.
const (
	EventPickupStatus = "pickup_status"
	EventNewMessage   = "new_message"
	EventNotification = "notification"
	EventPing         = "ping"
	EventPong         = "pong"
	EventError        = "error"
)

// Event is the envelope of every frame the server writes.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewEvent(eventType string, data interface{}) Event {
	return Event{Type: eventType, Data: data, Timestamp: time.Now().UTC()}
}

func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

type incoming struct {
	Type string `json:"type"`
}

// HandleIncoming answers a client frame. Clients only send pings; anything
// else gets an error frame. A nil reply means nothing to send.
func HandleIncoming(raw []byte) []byte {
	var msg incoming
	if err := json.Unmarshal(raw, &msg); err != nil {
		return mustEncode(NewEvent(EventError, map[string]string{"message": "invalid frame"}))
	}

	switch msg.Type {
	case EventPing:
		return mustEncode(NewEvent(EventPong, nil))
	case "":
		return nil
	}
	return mustEncode(NewEvent(EventError, map[string]string{"message": "unsupported frame type " + msg.Type}))
}

func mustEncode(e Event) []byte {
	b, _ := e.Encode()
	return b
}
