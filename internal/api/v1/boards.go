package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/simonebenati/taskboard/internal/domain"
	"github.com/simonebenati/taskboard/internal/server/middleware"
)

type CreateBoardInput struct {
	Body struct {
		Title       string     `json:"title" minLength:"1" maxLength:"500" doc:"Board title"`
		Description string     `json:"description,omitempty" doc:"Board description"`
		GroupID     *uuid.UUID `json:"groupId,omitempty" doc:"Owning group; omit for a personal board"`
	}
}

type CreateBoardOutput struct {
	Body *domain.Board
}

type ListBoardsOutput struct {
	Body []*domain.Board
}

type GetBoardInput struct {
	ID uuid.UUID `path:"id" doc:"Board ID"`
}

type GetBoardOutput struct {
	Body *domain.Board
}

type UpdateBoardInput struct {
	ID   uuid.UUID `path:"id" doc:"Board ID"`
	Body struct {
		Title       string     `json:"title,omitempty" maxLength:"500" doc:"Board title"`
		Description string     `json:"description,omitempty" doc:"Board description"`
		GroupID     *uuid.UUID `json:"groupId,omitempty" doc:"Owning group"`
	}
}

type UpdateBoardOutput struct {
	Body *domain.Board
}

type DeleteBoardInput struct {
	ID uuid.UUID `path:"id" doc:"Board ID"`
}

// callerFromContext rebuilds the caller's identity from the values the auth
// middleware stored, enough for domain.Board.VisibleTo.
func callerFromContext(ctx context.Context, tenantID uuid.UUID) (*domain.User, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, huma.Error403Forbidden("missing user context")
	}
	role, ok := middleware.RoleFromContext(ctx)
	if !ok {
		return nil, huma.Error403Forbidden("missing role context")
	}
	caller := &domain.User{ID: userID, TenantID: tenantID, Role: role}
	if gid, ok := middleware.GroupIDFromContext(ctx); ok {
		caller.GroupID = &gid
	}
	return caller, nil
}

func RegisterBoardRoutes(api huma.API, store DataStore, notify Notifier) {
	huma.Register(api, huma.Operation{
		OperationID: "create-board",
		Method:      http.MethodPost,
		Path:        "/boards",
		Summary:     "Create a new board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *CreateBoardInput) (*CreateBoardOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		caller, err := callerFromContext(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if caller.Role == domain.RoleViewer {
			return nil, huma.Error403Forbidden("viewers cannot create boards")
		}

		if input.Body.GroupID != nil {
			if _, err := store.Groups().GetByID(ctx, tenantID, *input.Body.GroupID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("group not found")
				}
				return nil, huma.Error500InternalServerError("failed to validate group", err)
			}
			if caller.Role != domain.RoleAdmin && (caller.GroupID == nil || *caller.GroupID != *input.Body.GroupID) {
				return nil, huma.Error403Forbidden("cannot create a board in another group")
			}
		}

		now := time.Now()
		b := &domain.Board{
			ID:          uuid.New(),
			TenantID:    tenantID,
			Title:       input.Body.Title,
			Description: input.Body.Description,
			OwnerID:     caller.ID,
			GroupID:     input.Body.GroupID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := store.Boards().Create(ctx, b); err != nil {
			return nil, huma.Error500InternalServerError("failed to create board", err)
		}

		notify.BoardCreated(ctx, b)

		return &CreateBoardOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-boards",
		Method:      http.MethodGet,
		Path:        "/boards",
		Summary:     "List boards visible to the caller",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, _ *struct{}) (*ListBoardsOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		caller, err := callerFromContext(ctx, tenantID)
		if err != nil {
			return nil, err
		}

		var boards []*domain.Board
		if caller.Role == domain.RoleAdmin {
			boards, err = store.Boards().List(ctx, tenantID)
		} else {
			boards, err = store.Boards().ListVisible(ctx, tenantID, caller.ID, caller.GroupID)
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list boards", err)
		}

		return &ListBoardsOutput{Body: boards}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-board",
		Method:      http.MethodGet,
		Path:        "/boards/{id}",
		Summary:     "Get a board by ID",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *GetBoardInput) (*GetBoardOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		caller, err := callerFromContext(ctx, tenantID)
		if err != nil {
			return nil, err
		}

		b, err := store.Boards().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("board not found")
			}
			return nil, huma.Error500InternalServerError("failed to get board", err)
		}
		if !b.VisibleTo(caller) {
			return nil, huma.Error404NotFound("board not found")
		}

		return &GetBoardOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-board",
		Method:      http.MethodPut,
		Path:        "/boards/{id}",
		Summary:     "Update a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *UpdateBoardInput) (*UpdateBoardOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		caller, err := callerFromContext(ctx, tenantID)
		if err != nil {
			return nil, err
		}

		b, err := store.Boards().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("board not found")
			}
			return nil, huma.Error500InternalServerError("failed to get board", err)
		}
		if !b.VisibleTo(caller) {
			return nil, huma.Error404NotFound("board not found")
		}
		if caller.Role != domain.RoleAdmin && b.OwnerID != caller.ID {
			return nil, huma.Error403Forbidden("only the owner or an admin can update a board")
		}

		if input.Body.Title != "" {
			b.Title = input.Body.Title
		}
		if input.Body.Description != "" {
			b.Description = input.Body.Description
		}
		if input.Body.GroupID != nil {
			if _, err := store.Groups().GetByID(ctx, tenantID, *input.Body.GroupID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("group not found")
				}
				return nil, huma.Error500InternalServerError("failed to validate group", err)
			}
			b.GroupID = input.Body.GroupID
		}
		b.UpdatedAt = time.Now()

		if err := store.Boards().Update(ctx, b); err != nil {
			return nil, huma.Error500InternalServerError("failed to update board", err)
		}

		notify.BoardUpdated(ctx, b)

		return &UpdateBoardOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-board",
		Method:      http.MethodDelete,
		Path:        "/boards/{id}",
		Summary:     "Delete a board and its tasks",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *DeleteBoardInput) (*struct{}, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		caller, err := callerFromContext(ctx, tenantID)
		if err != nil {
			return nil, err
		}

		b, err := store.Boards().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("board not found")
			}
			return nil, huma.Error500InternalServerError("failed to get board", err)
		}
		if !b.VisibleTo(caller) {
			return nil, huma.Error404NotFound("board not found")
		}
		if caller.Role != domain.RoleAdmin && b.OwnerID != caller.ID {
			return nil, huma.Error403Forbidden("only the owner or an admin can delete a board")
		}

		if err := store.Boards().Delete(ctx, tenantID, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete board", err)
		}

		notify.BoardDeleted(ctx, tenantID, input.ID)

		return nil, nil
	})
}
