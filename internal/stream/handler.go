package stream

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/simonebenati/taskboard/internal/events"
	"github.com/simonebenati/taskboard/internal/server/middleware"
)

// sessionBuffer decouples bus fan-out from the network write path. The bus
// callback only enqueues; the actual write happens in the session's own
// loop, so one slow client never delays publish or other subscribers.
const sessionBuffer = 64

// Handler serves the SSE endpoint. One session per request: authenticate
// (done by middleware before we run), acknowledge, subscribe, pump, tear
// down. Teardown is unconditional: every exit path runs the deferred
// unsubscribe and ticker stop exactly once.
type Handler struct {
	bus       events.Bus
	heartbeat time.Duration
}

func NewHandler(bus events.Bus, heartbeat time.Duration) *Handler {
	return &Handler{bus: bus, heartbeat: heartbeat}
}

// ServeEvents handles GET on the events stream path. The auth middleware has
// already verified the bearer token (header or ?token= fallback) and put the
// tenant in the request context; without it no subscription is allocated.
func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok || tenantID == uuid.Nil {
		http.Error(w, `{"title":"Forbidden","status":403,"detail":"valid tenant required"}`, http.StatusForbidden)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Streaming-friendly headers: no intermediary buffering, keep-alive.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := h.write(w, flusher, events.TenantEvent{
		TenantID:  tenantID,
		Type:      events.EventConnected,
		Data:      events.ConnectedData{TenantID: tenantID, Time: time.Now()},
		Timestamp: time.Now(),
	}); err != nil {
		log.Debug().Err(err).Msg("stream: connected write failed")
		return
	}

	ctx := r.Context()

	// The bus callback enqueues into the session buffer. A full buffer means
	// the client is not reading; the frame is dropped for this session only
	// and the stream reconciles via ordinary refetch on reconnect.
	delivery := make(chan events.TenantEvent, sessionBuffer)
	sub, err := h.bus.Subscribe(ctx, tenantID, func(ev events.TenantEvent) {
		select {
		case delivery <- ev:
		default:
			log.Warn().
				Str("tenant_id", tenantID.String()).
				Str("event_type", string(ev.Type)).
				Msg("stream: session buffer full, frame dropped")
		}
	})
	if err != nil {
		log.Error().Err(err).Msg("stream: subscribe failed")
		return
	}
	defer h.bus.Unsubscribe(sub)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Client disconnect or server shutdown.
			return
		case <-ticker.C:
			ev := events.TenantEvent{
				TenantID:  tenantID,
				Type:      events.EventHeartbeat,
				Data:      events.HeartbeatData{Time: time.Now()},
				Timestamp: time.Now(),
			}
			if err := h.write(w, flusher, ev); err != nil {
				log.Debug().Err(err).Msg("stream: heartbeat write failed")
				return
			}
		case ev := <-delivery:
			if err := h.write(w, flusher, ev); err != nil {
				// Client gone mid-stream: no retry, tear down this session
				// without affecting other subscribers on the channel.
				log.Debug().Err(err).Msg("stream: event write failed")
				return
			}
		}
	}
}

func (h *Handler) write(w http.ResponseWriter, flusher http.Flusher, ev events.TenantEvent) error {
	frame, err := Encode(ev)
	if err != nil {
		// Malformed event: drop and log rather than kill the session.
		log.Error().Err(err).Str("event_type", string(ev.Type)).Msg("stream: encode failed, frame dropped")
		return nil
	}

	if _, err := w.Write(frame); err != nil {
		return err
	}
	flusher.Flush()

	return nil
}
