package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/simonebenati/taskboard/internal/domain"
)

// Emitter is called by mutation handlers immediately after a persistence
// write commits. The tenant id on every event comes from the entity the
// handler built out of the authenticated request context, never from
// client-supplied input. Publish failures are logged and swallowed: the
// mutation already succeeded and event distribution is best-effort.
type Emitter struct {
	bus Bus
}

func NewEmitter(bus Bus) *Emitter {
	return &Emitter{bus: bus}
}

func (e *Emitter) BoardCreated(ctx context.Context, b *domain.Board) {
	e.publish(ctx, TenantEvent{TenantID: b.TenantID, Type: EventBoardCreated, Data: b})
}

func (e *Emitter) BoardUpdated(ctx context.Context, b *domain.Board) {
	e.publish(ctx, TenantEvent{TenantID: b.TenantID, Type: EventBoardUpdated, Data: b})
}

func (e *Emitter) BoardDeleted(ctx context.Context, tenantID, boardID uuid.UUID) {
	e.publish(ctx, TenantEvent{
		TenantID: tenantID,
		Type:     EventBoardDeleted,
		Data:     DeletionMarker{ID: boardID, TenantID: tenantID},
	})
}

func (e *Emitter) TaskCreated(ctx context.Context, t *domain.Task) {
	e.publish(ctx, TenantEvent{TenantID: t.TenantID, Type: EventTaskCreated, Data: t})
}

func (e *Emitter) TaskUpdated(ctx context.Context, t *domain.Task) {
	e.publish(ctx, TenantEvent{TenantID: t.TenantID, Type: EventTaskUpdated, Data: t})
}

func (e *Emitter) TaskDeleted(ctx context.Context, tenantID, boardID, taskID uuid.UUID) {
	e.publish(ctx, TenantEvent{
		TenantID: tenantID,
		Type:     EventTaskDeleted,
		Data:     DeletionMarker{ID: taskID, TenantID: tenantID, BoardID: &boardID},
	})
}

func (e *Emitter) publish(ctx context.Context, ev TenantEvent) {
	ev.Timestamp = time.Now()

	if err := e.bus.Publish(ctx, ev); err != nil {
		log.Error().
			Err(err).
			Str("event_type", string(ev.Type)).
			Str("tenant_id", ev.TenantID.String()).
			Msg("events: publish failed")
	}
}
