package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// Valid reports whether s is one of the known column statuses. Tasks move
// freely between columns (drag and drop), so there is no transition table.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

type Task struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenantId"`
	BoardID     uuid.UUID  `json:"boardId"`
	ParentID    *uuid.UUID `json:"parentId,omitempty"` // non-nil for subtasks
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Position    int        `json:"position"`
	AssigneeID  *uuid.UUID `json:"assigneeId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Task, error)
	ListByBoard(ctx context.Context, tenantID, boardID uuid.UUID) ([]*Task, error)
	ListSubtasks(ctx context.Context, tenantID, parentID uuid.UUID) ([]*Task, error)
	Update(ctx context.Context, t *Task) error
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status TaskStatus, position int) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
