package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	wstypes "uav-maintenance-service/internal/domain/websocket"
	"uav-maintenance-service/internal/fleet"
	"uav-maintenance-service/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubValidator struct{}

func (stubValidator) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	if token != "good" {
		return nil, errors.New("invalid token")
	}
	claims := &jwt.Claims{UserID: "user-1", Email: "ops@example.com", Device: "web"}
	claims.ID = "jti-1"
	return claims, nil
}

type echoHandler struct{ calls int }

func (h *echoHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{wstypes.EventTypeFleetState}
}

func (h *echoHandler) HandleMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error {
	h.calls++
	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeFleetState, map[string]int{"calls": h.calls}))
	return nil
}

func newTestClient(t *testing.T, h *Hub, userID string) *Client {
	t.Helper()
	c := NewClient(h, nil, &ClientAuth{UserID: userID, SessionID: "s-" + userID})
	h.registerClient(c)
	msg := readMessage(t, c)
	require.Equal(t, wstypes.EventTypeConnected, msg.Type)
	return c
}

func readMessage(t *testing.T, c *Client) *wstypes.WSMessage {
	t.Helper()
	select {
	case data := <-c.send:
		var msg wstypes.WSMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		return &msg
	case <-time.After(time.Second):
		t.Fatal("no message queued")
		return nil
	}
}

func assertNoMessage(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected message: %s", data)
	default:
	}
}

func TestAuthenticateClient(t *testing.T) {
	h := NewHub(stubValidator{}, zap.NewNop())

	auth, err := h.AuthenticateClient(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "user-1", auth.UserID)
	assert.Equal(t, "jti-1", auth.SessionID)
	assert.Equal(t, "web", auth.Device)

	_, err = h.AuthenticateClient(context.Background(), "bad")
	assert.Error(t, err)
}

func TestRegisterAndBroadcast(t *testing.T) {
	h := NewHub(stubValidator{}, zap.NewNop())
	a := newTestClient(t, h, "a")
	b := newTestClient(t, h, "b")

	assert.Equal(t, 2, h.TotalClients())
	assert.True(t, h.IsUserConnected("a"))

	h.BroadcastMessage(&BroadcastMessage{
		Channel: wstypes.ChannelFleet,
		Message: wstypes.NewMessage(wstypes.EventTypeFleetUpdated, nil),
	})
	assert.Equal(t, wstypes.EventTypeFleetUpdated, readMessage(t, a).Type)
	assert.Equal(t, wstypes.EventTypeFleetUpdated, readMessage(t, b).Type)

	b.Unsubscribe(wstypes.ChannelFleet)
	h.BroadcastMessage(&BroadcastMessage{
		Channel: wstypes.ChannelFleet,
		Message: wstypes.NewMessage(wstypes.EventTypeFleetUpdated, nil),
	})
	readMessage(t, a)
	assertNoMessage(t, b)

	h.BroadcastMessage(&BroadcastMessage{
		UserIDs: []string{"b"},
		Channel: wstypes.ChannelSystem,
		Message: wstypes.NewMessage(wstypes.EventTypeSystemAlert, nil),
	})
	assertNoMessage(t, a)
	assert.Equal(t, wstypes.EventTypeSystemAlert, readMessage(t, b).Type)

	h.unregisterClient(a)
	assert.False(t, h.IsUserConnected("a"))
	assert.Equal(t, 1, h.TotalClients())
}

func TestBroadcastFleetUpdateEnqueues(t *testing.T) {
	h := NewHub(stubValidator{}, zap.NewNop())

	h.BroadcastFleetUpdate(fleet.Summary{Total: 3, Filtered: 1, LastError: "boom"})

	msg := <-h.broadcast
	assert.Equal(t, wstypes.ChannelFleet, msg.Channel)
	assert.Nil(t, msg.UserIDs)
	data, ok := msg.Message.Data.(wstypes.FleetUpdateData)
	require.True(t, ok)
	assert.Equal(t, 3, data.Total)
	assert.Equal(t, 1, data.Filtered)
	assert.Equal(t, "boom", data.LastError)
}

func TestForceLogoutTargetsUser(t *testing.T) {
	h := NewHub(stubValidator{}, zap.NewNop())

	h.ForceLogout("user-1", "jti-1", "logout")

	msg := <-h.broadcast
	assert.Equal(t, []string{"user-1"}, msg.UserIDs)
	assert.Equal(t, wstypes.ChannelSystem, msg.Channel)
	assert.Equal(t, wstypes.EventTypeForceLogout, msg.Message.Type)
}

func TestEnqueueDoesNotBlockWhenFull(t *testing.T) {
	h := NewHub(stubValidator{}, zap.NewNop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(h.broadcast)+10; i++ {
			h.BroadcastSystemAlert(&wstypes.SystemAlertData{Title: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked")
	}
	assert.Equal(t, cap(h.broadcast), len(h.broadcast))
}

func TestClientMessageHandling(t *testing.T) {
	h := NewHub(stubValidator{}, zap.NewNop())
	echo := &echoHandler{}
	h.RegisterHandler(echo)
	c := newTestClient(t, h, "a")
	ctx := context.Background()

	c.handleMessage(ctx, []byte(`{"type":"ping"}`))
	assert.Equal(t, wstypes.EventTypePong, readMessage(t, c).Type)

	c.handleMessage(ctx, []byte(`{"type":"fleet:state"}`))
	assert.Equal(t, wstypes.EventTypeFleetState, readMessage(t, c).Type)
	assert.Equal(t, 1, echo.calls)

	c.handleMessage(ctx, []byte(`{"type":"unsubscribe","data":{"channels":["fleet"]}}`))
	assert.Equal(t, wstypes.EventTypeUnsubscribe, readMessage(t, c).Type)
	assert.False(t, c.IsSubscribed(wstypes.ChannelFleet))

	c.handleMessage(ctx, []byte(`{"type":"subscribe","data":{"channels":["fleet","audit"]}}`))
	assert.Equal(t, wstypes.EventTypeSubscribe, readMessage(t, c).Type)
	assert.True(t, c.IsSubscribed(wstypes.ChannelFleet))
	assert.False(t, c.IsSubscribed("audit"))

	c.handleMessage(ctx, []byte(`not json`))
	assert.Equal(t, wstypes.EventTypeError, readMessage(t, c).Type)

	c.handleMessage(ctx, []byte(`{"type":"mystery"}`))
	assert.Equal(t, wstypes.EventTypeError, readMessage(t, c).Type)
}

func TestClosedClientDropsMessages(t *testing.T) {
	h := NewHub(stubValidator{}, zap.NewNop())
	c := newTestClient(t, h, "a")

	c.Close()
	c.Close()
	c.SendMessage(wstypes.NewMessage(wstypes.EventTypePong, nil))
	assertNoMessage(t, c)
}

func TestHandlerRegistryEvents(t *testing.T) {
	r := NewHandlerRegistry()
	assert.Empty(t, r.Events())

	r.Register(&echoHandler{})
	assert.Equal(t, []wstypes.EventType{wstypes.EventTypeFleetState}, r.Events())

	_, ok := r.GetHandler(wstypes.EventTypePing)
	assert.False(t, ok)
}

func TestJoinAndLeaveAfterRunStops(t *testing.T) {
	h := NewHub(stubValidator{}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	live := NewClient(h, nil, &ClientAuth{UserID: "user-1", SessionID: "s-1"})
	require.True(t, h.Join(live))
	require.Eventually(t, func() bool { return h.IsUserConnected("user-1") }, time.Second, 5*time.Millisecond)

	cancel()
	<-stopped

	late := NewClient(h, nil, &ClientAuth{UserID: "user-2", SessionID: "s-2"})
	returned := make(chan bool, 1)
	go func() { returned <- h.Join(late) }()
	select {
	case ok := <-returned:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Join blocked on a stopped hub")
	}

	left := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			h.leave(live)
		}
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(time.Second):
		t.Fatal("leave blocked on a stopped hub")
	}
}
