package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Invite is a pending invitation to join a tenant. The token is single-use
// and expires; AcceptedAt is set when the invitee registers through it.
type Invite struct {
	ID         uuid.UUID  `json:"id"`
	TenantID   uuid.UUID  `json:"tenantId"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	GroupID    *uuid.UUID `json:"groupId,omitempty"`
	Token      string     `json:"-"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	AcceptedAt *time.Time `json:"acceptedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Pending reports whether the invite can still be accepted.
func (i *Invite) Pending(now time.Time) bool {
	return i.AcceptedAt == nil && now.Before(i.ExpiresAt)
}

type InviteRepository interface {
	Create(ctx context.Context, i *Invite) error
	GetByToken(ctx context.Context, token string) (*Invite, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*Invite, error)
	MarkAccepted(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
