// internal/websocket/handler/fleet.go
package handler

import (
	"context"
	"fmt"

	wstypes "uav-maintenance-service/internal/domain/websocket"
	"uav-maintenance-service/internal/fleet"
	ws "uav-maintenance-service/internal/websocket"

	"go.uber.org/zap"
)

// FleetSource is the part of fleet.Store the websocket handler drives
type FleetSource interface {
	Reload(ctx context.Context) error
	Summary() fleet.Summary
}

type FleetHandler struct {
	store  FleetSource
	logger *zap.Logger
}

func NewFleetHandler(store FleetSource, logger *zap.Logger) *FleetHandler {
	return &FleetHandler{
		store:  store,
		logger: logger,
	}
}

// SupportedEvents returns events this handler supports
func (h *FleetHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{
		wstypes.EventTypeFleetReload,
		wstypes.EventTypeFleetState,
	}
}

// HandleMessage processes fleet-related messages
func (h *FleetHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	switch msg.Type {
	case wstypes.EventTypeFleetReload:
		return h.handleReload(ctx, client)

	case wstypes.EventTypeFleetState:
		client.SendMessage(wstypes.NewMessage(wstypes.EventTypeFleetState, ws.FleetUpdateFromSummary(h.store.Summary())))
		return nil

	default:
		return fmt.Errorf("unsupported event type: %s", msg.Type)
	}
}

// handleReload refreshes the store. Subscribers receive the resulting
// fleet:updated push; the requester also gets the summary directly.
func (h *FleetHandler) handleReload(ctx context.Context, client *ws.Client) error {
	if err := h.store.Reload(ctx); err != nil {
		h.logger.Warn("websocket fleet reload failed",
			zap.String("user_id", client.GetUserID()),
			zap.Error(err),
		)
		return err
	}

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeFleetState, ws.FleetUpdateFromSummary(h.store.Summary())))
	return nil
}
