// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventType represents different real-time event types
type EventType string

const (
	// Connection events
	EventTypePing         EventType = "ping"
	EventTypePong         EventType = "pong"
	EventTypeConnected    EventType = "connected"
	EventTypeDisconnected EventType = "disconnected"
	EventTypeError        EventType = "error"

	// Fleet events (client -> server)
	EventTypeFleetReload EventType = "fleet:reload"
	EventTypeFleetState  EventType = "fleet:state"

	// Fleet events (server -> client)
	EventTypeFleetUpdated EventType = "fleet:updated"

	// Session events
	EventTypeForceLogout EventType = "session:force_logout"

	// System events
	EventTypeSystemAlert EventType = "system:alert"

	// Subscription events
	EventTypeSubscribe   EventType = "subscribe"
	EventTypeUnsubscribe EventType = "unsubscribe"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType              `json:"type"`
	Data      interface{}            `json:"data,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	ID        string                 `json:"id,omitempty"`
}

// ChannelType names a stream clients can subscribe to
type ChannelType string

const (
	ChannelFleet  ChannelType = "fleet"
	ChannelSystem ChannelType = "system"
)

// DefaultChannels are subscribed on connect
var DefaultChannels = []ChannelType{ChannelFleet, ChannelSystem}

func (c ChannelType) Valid() bool {
	return c == ChannelFleet || c == ChannelSystem
}

type SubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

type UnsubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// ErrorData for error events
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// FleetUpdateData is pushed after every fleet state transition
type FleetUpdateData struct {
	IsLoading bool        `json:"is_loading"`
	LastError string      `json:"last_error,omitempty"`
	Total     int         `json:"total"`
	Filtered  int         `json:"filtered"`
	Dashboard interface{} `json:"dashboard"`
}

// SessionEventData for session events
type SessionEventData struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"`
	Message   string `json:"message"`
}

// SystemAlertData for system-wide alerts
type SystemAlertData struct {
	Severity string `json:"severity"` // info, warning, critical
	Title    string `json:"title"`
	Message  string `json:"message"`
}

func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
		ID:        ulid.Make().String(),
	}
}

func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	err := json.Unmarshal(data, &msg)
	return &msg, err
}
