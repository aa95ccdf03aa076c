package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/simonebenati/taskboard/internal/domain"
)

// ---------------------------------------------------------------------------
// TaskStatus.Valid
// ---------------------------------------------------------------------------

func TestTaskStatus_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status domain.TaskStatus
		want   bool
	}{
		{domain.TaskStatusTodo, true},
		{domain.TaskStatusInProgress, true},
		{domain.TaskStatusDone, true},
		{domain.TaskStatus("ARCHIVED"), false},
		{domain.TaskStatus("todo"), false}, // statuses are case-sensitive
		{domain.TaskStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.status.Valid())
		})
	}
}

// ---------------------------------------------------------------------------
// Board.VisibleTo: the group/ownership visibility rule.
// ---------------------------------------------------------------------------

func TestBoard_VisibleTo(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	otherTenant := uuid.New()
	groupID := uuid.New()
	otherGroup := uuid.New()
	ownerID := uuid.New()

	groupBoard := &domain.Board{ID: uuid.New(), TenantID: tenantID, OwnerID: ownerID, GroupID: &groupID}
	personalBoard := &domain.Board{ID: uuid.New(), TenantID: tenantID, OwnerID: ownerID}

	tests := []struct {
		name  string
		board *domain.Board
		user  *domain.User
		want  bool
	}{
		{
			name:  "admin sees group board",
			board: groupBoard,
			user:  &domain.User{ID: uuid.New(), TenantID: tenantID, Role: domain.RoleAdmin},
			want:  true,
		},
		{
			name:  "admin sees personal board of someone else",
			board: personalBoard,
			user:  &domain.User{ID: uuid.New(), TenantID: tenantID, Role: domain.RoleAdmin},
			want:  true,
		},
		{
			name:  "member of the group sees group board",
			board: groupBoard,
			user:  &domain.User{ID: uuid.New(), TenantID: tenantID, Role: domain.RoleMember, GroupID: &groupID},
			want:  true,
		},
		{
			name:  "member of another group does not see group board",
			board: groupBoard,
			user:  &domain.User{ID: uuid.New(), TenantID: tenantID, Role: domain.RoleMember, GroupID: &otherGroup},
			want:  false,
		},
		{
			name:  "member without a group does not see group board",
			board: groupBoard,
			user:  &domain.User{ID: uuid.New(), TenantID: tenantID, Role: domain.RoleMember},
			want:  false,
		},
		{
			name:  "owner sees own personal board",
			board: personalBoard,
			user:  &domain.User{ID: ownerID, TenantID: tenantID, Role: domain.RoleMember},
			want:  true,
		},
		{
			name:  "non-owner does not see personal board",
			board: personalBoard,
			user:  &domain.User{ID: uuid.New(), TenantID: tenantID, Role: domain.RoleMember},
			want:  false,
		},
		{
			name:  "admin of another tenant sees nothing",
			board: groupBoard,
			user:  &domain.User{ID: uuid.New(), TenantID: otherTenant, Role: domain.RoleAdmin},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.board.VisibleTo(tt.user))
		})
	}
}

// ---------------------------------------------------------------------------
// Invite.Pending
// ---------------------------------------------------------------------------

func TestInvite_Pending(t *testing.T) {
	t.Parallel()

	now := time.Now()
	accepted := now.Add(-time.Hour)

	tests := []struct {
		name   string
		invite domain.Invite
		want   bool
	}{
		{"unexpired and unaccepted", domain.Invite{ExpiresAt: now.Add(time.Hour)}, true},
		{"expired", domain.Invite{ExpiresAt: now.Add(-time.Minute)}, false},
		{"already accepted", domain.Invite{ExpiresAt: now.Add(time.Hour), AcceptedAt: &accepted}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.invite.Pending(now))
		})
	}
}
