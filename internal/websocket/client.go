// internal/websocket/client.go
package websocket

import (
	"context"
	"sync"
	"time"

	wstypes "uav-maintenance-service/internal/domain/websocket"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024 // 512KB
	sendBuffer     = 256
)

// ClientAuth holds authentication information
type ClientAuth struct {
	UserID    string
	SessionID string
	Email     string
	Device    string
}

type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	userID    string
	sessionID string
	device    string
	email     string

	subscriptions map[wstypes.ChannelType]bool
	subMutex      sync.RWMutex

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, auth *ClientAuth) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		hub:           hub,
		conn:          conn,
		send:          make(chan []byte, sendBuffer),
		userID:        auth.UserID,
		sessionID:     auth.SessionID,
		device:        auth.Device,
		email:         auth.Email,
		subscriptions: make(map[wstypes.ChannelType]bool),
		ctx:           ctx,
		cancel:        cancel,
	}
	for _, ch := range wstypes.DefaultChannels {
		c.subscriptions[ch] = true
	}
	return c
}

// Subscribe to a channel; unknown channels are refused
func (c *Client) Subscribe(channel wstypes.ChannelType) bool {
	if !channel.Valid() {
		return false
	}

	c.subMutex.Lock()
	defer c.subMutex.Unlock()
	c.subscriptions[channel] = true
	return true
}

func (c *Client) Unsubscribe(channel wstypes.ChannelType) {
	c.subMutex.Lock()
	defer c.subMutex.Unlock()
	delete(c.subscriptions, channel)
}

func (c *Client) IsSubscribed(channel wstypes.ChannelType) bool {
	c.subMutex.RLock()
	defer c.subMutex.RUnlock()
	return c.subscriptions[channel]
}

// Channels lists current subscriptions in a stable order
func (c *Client) Channels() []wstypes.ChannelType {
	var out []wstypes.ChannelType
	for _, ch := range wstypes.DefaultChannels {
		if c.IsSubscribed(ch) {
			out = append(out, ch)
		}
	}
	return out
}

func (c *Client) GetUserID() string {
	return c.userID
}

func (c *Client) GetSessionID() string {
	return c.sessionID
}

// ReadPump decodes client frames until the connection fails. WritePump
// closes the connection on shutdown, which unblocks the read here.
func (c *Client) ReadPump() {
	defer func() {
		c.Close()
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read failed",
					zap.String("user_id", c.userID),
					zap.Error(err),
				)
			}
			return
		}
		c.handleMessage(c.ctx, frame)
	}
}

// WritePump drains the send queue and keeps the peer alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	write := func(kind int, payload []byte) error {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		return c.conn.WriteMessage(kind, payload)
	}

	for {
		select {
		case <-c.ctx.Done():
			_ = write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case payload := <-c.send:
			if err := write(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(ctx context.Context, data []byte) {
	msg, err := wstypes.ParseMessage(data)
	if err != nil {
		c.SendError("invalid_message", "Failed to parse message", err.Error())
		return
	}

	handled, err := c.hub.HandleClientMessage(ctx, c, msg)
	if err != nil {
		c.SendError("handler_error", "Failed to process message", err.Error())
		return
	}
	if handled {
		return
	}

	switch msg.Type {
	case wstypes.EventTypePing:
		c.SendMessage(wstypes.NewMessage(wstypes.EventTypePong, nil))
	case wstypes.EventTypeSubscribe:
		c.handleSubscribe(msg)
	case wstypes.EventTypeUnsubscribe:
		c.handleUnsubscribe(msg)
	default:
		c.SendError("unknown_event", "Unsupported event type", string(msg.Type))
	}
}

func (c *Client) handleSubscribe(msg *wstypes.WSMessage) {
	var req wstypes.SubscribeRequest
	if err := decodeData(msg.Data, &req); err != nil {
		c.SendError("invalid_subscribe", "Invalid subscribe request", err.Error())
		return
	}

	accepted := make([]wstypes.ChannelType, 0, len(req.Channels))
	for _, channel := range req.Channels {
		if c.Subscribe(channel) {
			accepted = append(accepted, channel)
		}
	}
	c.SendMessage(wstypes.NewMessage(wstypes.EventTypeSubscribe, map[string]interface{}{
		"channels": accepted,
		"status":   "subscribed",
	}))
}

func (c *Client) handleUnsubscribe(msg *wstypes.WSMessage) {
	var req wstypes.UnsubscribeRequest
	if err := decodeData(msg.Data, &req); err != nil {
		c.SendError("invalid_unsubscribe", "Invalid unsubscribe request", err.Error())
		return
	}

	for _, channel := range req.Channels {
		c.Unsubscribe(channel)
	}
	c.SendMessage(wstypes.NewMessage(wstypes.EventTypeUnsubscribe, map[string]interface{}{
		"channels": req.Channels,
		"status":   "unsubscribed",
	}))
}

// SendMessage queues a message for the client. A client whose buffer is
// full is closed and unregistered.
func (c *Client) SendMessage(msg *wstypes.WSMessage) {
	data, err := msg.ToJSON()
	if err != nil {
		c.hub.logger.Error("failed to marshal websocket message", zap.Error(err))
		return
	}

	select {
	case <-c.ctx.Done():
		return
	default:
	}

	select {
	case c.send <- data:
	default:
		c.Close()
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		default:
		}
	}
}

// SendError sends an error message to the client
func (c *Client) SendError(code, message, details string) {
	c.SendMessage(wstypes.NewMessage(wstypes.EventTypeError, wstypes.ErrorData{
		Code:    code,
		Message: message,
		Details: details,
	}))
}

// Close stops the client pumps. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(c.cancel)
}
