package events

import (
	"github.com/google/uuid"

	"github.com/simonebenati/taskboard/internal/domain"
)

// Scope is the access scope of one stream consumer, captured at connect time.
type Scope struct {
	UserID  uuid.UUID
	Role    string
	GroupID *uuid.UUID
}

// BoardLookup resolves a board id against the consumer's already-known board
// set. ok is false when the board is unknown to the consumer.
type BoardLookup func(boardID uuid.UUID) (*domain.Board, bool)

// Visible applies the group/ownership rule to a delivered event.
//
// The bus enforces tenant isolation only: every subscriber on a tenant
// channel receives every event for that tenant, including events for boards
// outside a non-admin's visibility scope. This check is advisory: consumers
// apply it against locally known state when reacting to an event, and must
// re-validate against the store before treating event contents as
// authoritative. Events whose board cannot be resolved locally report true so
// the consumer can refetch and recheck.
func Visible(ev TenantEvent, scope Scope, boards BoardLookup) bool {
	if scope.Role == domain.RoleAdmin {
		return true
	}

	switch data := ev.Data.(type) {
	case *domain.Board:
		return visibleBoard(data, scope)
	case *domain.Task:
		if b, ok := boards(data.BoardID); ok {
			return visibleBoard(b, scope)
		}
		return true
	case DeletionMarker:
		if data.BoardID == nil {
			// Board deletion: relevant only if the consumer knew the board.
			_, known := boards(data.ID)
			return known
		}
		if b, ok := boards(*data.BoardID); ok {
			return visibleBoard(b, scope)
		}
		return true
	default:
		// Synthetic frames (connected, heartbeat) are always relevant.
		return true
	}
}

func visibleBoard(b *domain.Board, scope Scope) bool {
	if b.GroupID != nil {
		return scope.GroupID != nil && *scope.GroupID == *b.GroupID
	}
	return b.OwnerID == scope.UserID
}
