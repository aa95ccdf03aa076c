package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/simonebenati/taskboard/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Tenants() domain.TenantRepository
	Users() domain.UserRepository
	Groups() domain.GroupRepository
	Boards() domain.BoardRepository
	Tasks() domain.TaskRepository
	Invites() domain.InviteRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Register(ctx context.Context, tenantID uuid.UUID, email, password, name, role string, groupID *uuid.UUID) (*domain.User, error)
	Login(ctx context.Context, tenantID uuid.UUID, email, password string) (accessToken, refreshToken string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

// Notifier abstracts the mutation emitter so handler tests can capture the
// events a mutation produces. *events.Emitter satisfies this interface.
type Notifier interface {
	BoardCreated(ctx context.Context, b *domain.Board)
	BoardUpdated(ctx context.Context, b *domain.Board)
	BoardDeleted(ctx context.Context, tenantID, boardID uuid.UUID)
	TaskCreated(ctx context.Context, t *domain.Task)
	TaskUpdated(ctx context.Context, t *domain.Task)
	TaskDeleted(ctx context.Context, tenantID, boardID, taskID uuid.UUID)
}
