package handler

import (
	"context"
	"errors"
	"testing"

	wstypes "uav-maintenance-service/internal/domain/websocket"
	"uav-maintenance-service/internal/fleet"
	ws "uav-maintenance-service/internal/websocket"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeFleet struct {
	reloads   int
	reloadErr error
}

func (f *fakeFleet) Reload(ctx context.Context) error {
	f.reloads++
	return f.reloadErr
}

func (f *fakeFleet) Summary() fleet.Summary {
	return fleet.Summary{Total: 2}
}

func TestFleetHandler(t *testing.T) {
	src := &fakeFleet{}
	h := NewFleetHandler(src, zap.NewNop())
	hub := ws.NewHub(nil, zap.NewNop())
	client := ws.NewClient(hub, nil, &ws.ClientAuth{UserID: "u1"})
	ctx := context.Background()

	assert.ElementsMatch(t, []wstypes.EventType{wstypes.EventTypeFleetReload, wstypes.EventTypeFleetState}, h.SupportedEvents())

	assert.NoError(t, h.HandleMessage(ctx, client, wstypes.NewMessage(wstypes.EventTypeFleetReload, nil)))
	assert.Equal(t, 1, src.reloads)

	assert.NoError(t, h.HandleMessage(ctx, client, wstypes.NewMessage(wstypes.EventTypeFleetState, nil)))

	src.reloadErr = errors.New("connection refused")
	err := h.HandleMessage(ctx, client, wstypes.NewMessage(wstypes.EventTypeFleetReload, nil))
	assert.EqualError(t, err, "connection refused")

	assert.Error(t, h.HandleMessage(ctx, client, wstypes.NewMessage(wstypes.EventTypePing, nil)))
}
