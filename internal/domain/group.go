package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Group is a team inside a tenant. Boards attached to a group are visible to
// every member of that group.
type Group struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenantId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type GroupRepository interface {
	Create(ctx context.Context, g *Group) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Group, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*Group, error)
	Update(ctx context.Context, g *Group) error
	// Delete removes the group, detaching its boards and members rather than
	// deleting them.
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
