package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonebenati/taskboard/internal/domain"
	"github.com/simonebenati/taskboard/internal/events"
)

// failingBus always errors on Publish; the emitter must swallow it.
type failingBus struct {
	events.Bus
}

func (f *failingBus) Publish(context.Context, events.TenantEvent) error {
	return errors.New("broker down")
}

func TestEmitter_BoardLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	bus := events.NewMemoryBus(0)
	emitter := events.NewEmitter(bus)
	tenantID := uuid.New()
	ownerID := uuid.New()

	var got collector
	sub, err := bus.Subscribe(ctx, tenantID, got.handler)
	require.NoError(t, err)
	defer bus.Unsubscribe(sub)

	board := &domain.Board{ID: uuid.New(), TenantID: tenantID, OwnerID: ownerID, Title: "Sprint 12"}
	before := time.Now()
	emitter.BoardCreated(ctx, board)
	emitter.BoardUpdated(ctx, board)
	emitter.BoardDeleted(ctx, tenantID, board.ID)

	evs := got.events()
	require.Len(t, evs, 3)

	assert.Equal(t, events.EventBoardCreated, evs[0].Type)
	created, ok := evs[0].Data.(*domain.Board)
	require.True(t, ok)
	assert.Equal(t, ownerID, created.OwnerID)
	assert.False(t, evs[0].Timestamp.Before(before), "timestamp assigned at publish time")

	assert.Equal(t, events.EventBoardUpdated, evs[1].Type)

	assert.Equal(t, events.EventBoardDeleted, evs[2].Type)
	marker, ok := evs[2].Data.(events.DeletionMarker)
	require.True(t, ok)
	assert.Equal(t, board.ID, marker.ID)
	assert.Equal(t, tenantID, marker.TenantID)
	assert.Nil(t, marker.BoardID)
}

func TestEmitter_TaskLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	bus := events.NewMemoryBus(0)
	emitter := events.NewEmitter(bus)
	tenantID := uuid.New()
	boardID := uuid.New()

	var got collector
	sub, err := bus.Subscribe(ctx, tenantID, got.handler)
	require.NoError(t, err)
	defer bus.Unsubscribe(sub)

	task := &domain.Task{ID: uuid.New(), TenantID: tenantID, BoardID: boardID, Status: domain.TaskStatusTodo}
	emitter.TaskCreated(ctx, task)
	emitter.TaskUpdated(ctx, task)
	emitter.TaskDeleted(ctx, tenantID, boardID, task.ID)

	evs := got.events()
	require.Len(t, evs, 3)
	assert.Equal(t, events.EventTaskCreated, evs[0].Type)
	assert.Equal(t, events.EventTaskUpdated, evs[1].Type)

	assert.Equal(t, events.EventTaskDeleted, evs[2].Type)
	marker, ok := evs[2].Data.(events.DeletionMarker)
	require.True(t, ok)
	assert.Equal(t, task.ID, marker.ID)
	require.NotNil(t, marker.BoardID)
	assert.Equal(t, boardID, *marker.BoardID)
}

func TestEmitter_PublishFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	emitter := events.NewEmitter(&failingBus{})
	board := &domain.Board{ID: uuid.New(), TenantID: uuid.New()}

	// A publish failure must never surface to the mutating request.
	assert.NotPanics(t, func() {
		emitter.BoardCreated(context.Background(), board)
		emitter.TaskDeleted(context.Background(), board.TenantID, board.ID, uuid.New())
	})
}
