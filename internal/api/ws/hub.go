package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/simonebenati/taskboard/internal/events"
	"github.com/simonebenati/taskboard/internal/server/middleware"
)

// Hub serves the WebSocket variant of the event stream for clients that
// prefer it over SSE. Frames carry the same {type, data, timestamp} envelope
// as the SSE endpoint, one JSON object per text message.
type Hub struct {
	bus       events.Bus
	heartbeat time.Duration
}

func NewHub(bus events.Bus, heartbeat time.Duration) *Hub {
	return &Hub{bus: bus, heartbeat: heartbeat}
}

// ServeEvents handles WebSocket connections for tenant event updates.
// Subscribes to the caller's tenant channel; auth middleware runs first.
func (h *Hub) ServeEvents(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok || tenantID == uuid.Nil {
		http.Error(w, "missing tenant", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	if writeErr := h.writeEvent(ctx, conn, events.TenantEvent{
		TenantID:  tenantID,
		Type:      events.EventConnected,
		Data:      events.ConnectedData{TenantID: tenantID, Time: time.Now()},
		Timestamp: time.Now(),
	}); writeErr != nil {
		log.Debug().Err(writeErr).Msg("websocket connected write")
		return
	}

	delivery := make(chan events.TenantEvent, 64)
	sub, err := h.bus.Subscribe(ctx, tenantID, func(ev events.TenantEvent) {
		select {
		case delivery <- ev:
		default:
		}
	})
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer h.bus.Unsubscribe(sub)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case <-ticker.C:
			ev := events.TenantEvent{
				TenantID:  tenantID,
				Type:      events.EventHeartbeat,
				Data:      events.HeartbeatData{Time: time.Now()},
				Timestamp: time.Now(),
			}
			if writeErr := h.writeEvent(ctx, conn, ev); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket heartbeat write")
				return
			}
		case ev := <-delivery:
			if writeErr := h.writeEvent(ctx, conn, ev); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}

func (h *Hub) writeEvent(ctx context.Context, conn *websocket.Conn, ev events.TenantEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("event_type", string(ev.Type)).Msg("websocket encode failed, frame dropped")
		return nil
	}
	return conn.Write(ctx, websocket.MessageText, payload)
}
