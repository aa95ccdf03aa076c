package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Board struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenantId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	OwnerID     uuid.UUID  `json:"ownerId"`
	GroupID     *uuid.UUID `json:"groupId,omitempty"` // nil means a personal board
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// VisibleTo reports whether a user may see this board. Admins see everything
// in the tenant; everyone else sees boards of their own group and personal
// boards they own.
func (b *Board) VisibleTo(u *User) bool {
	if b.TenantID != u.TenantID {
		return false
	}
	if u.Role == RoleAdmin {
		return true
	}
	if b.GroupID != nil {
		return u.GroupID != nil && *u.GroupID == *b.GroupID
	}
	return b.OwnerID == u.ID
}

type BoardRepository interface {
	Create(ctx context.Context, b *Board) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Board, error)
	// List returns all boards in the tenant; ListVisible applies the
	// group/ownership rule for non-admin callers.
	List(ctx context.Context, tenantID uuid.UUID) ([]*Board, error)
	ListVisible(ctx context.Context, tenantID, userID uuid.UUID, groupID *uuid.UUID) ([]*Board, error)
	Update(ctx context.Context, b *Board) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
