package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType is the wire-level discriminator carried in every frame, in
// <entity>_<change> form for mutations plus the two synthetic stream types.
type EventType string

const (
	EventConnected EventType = "connected"
	EventHeartbeat EventType = "heartbeat"

	EventBoardCreated EventType = "board_created"
	EventBoardUpdated EventType = "board_updated"
	EventBoardDeleted EventType = "board_deleted"

	EventTaskCreated EventType = "task_created"
	EventTaskUpdated EventType = "task_updated"
	EventTaskDeleted EventType = "task_deleted"
)

// TenantEvent is the unit of distribution. It is immutable once published:
// publishers hand it to the bus by value and never touch Data afterwards.
// TenantID is the routing key only; payloads carry their own tenantId field.
type TenantEvent struct {
	TenantID  uuid.UUID `json:"-"`
	Type      EventType `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// DeletionMarker is the minimal payload published for deletes. BoardID is set
// for task deletions so clients can drop the task from the right column.
type DeletionMarker struct {
	ID       uuid.UUID  `json:"id"`
	TenantID uuid.UUID  `json:"tenantId"`
	BoardID  *uuid.UUID `json:"boardId,omitempty"`
}

// ConnectedData is the payload of the acknowledgement frame written when a
// stream opens.
type ConnectedData struct {
	TenantID uuid.UUID `json:"tenantId"`
	Time     time.Time `json:"time"`
}

// HeartbeatData is the payload of the periodic liveness frame.
type HeartbeatData struct {
	Time time.Time `json:"time"`
}

// ChannelName returns the delivery channel for a tenant, also used as the
// Redis channel name by the distributed backend.
func ChannelName(tenantID uuid.UUID) string {
	return "tenant:" + tenantID.String()
}
