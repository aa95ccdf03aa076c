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

type CreateGroupInput struct {
	Body struct {
		Name        string `json:"name" minLength:"1" maxLength:"255" doc:"Group name"`
		Description string `json:"description,omitempty" doc:"Group description"`
	}
}

type CreateGroupOutput struct {
	Body *domain.Group
}

type ListGroupsOutput struct {
	Body []*domain.Group
}

type GetGroupInput struct {
	ID uuid.UUID `path:"id" doc:"Group ID"`
}

type GetGroupOutput struct {
	Body *domain.Group
}

type UpdateGroupInput struct {
	ID   uuid.UUID `path:"id" doc:"Group ID"`
	Body struct {
		Name        string `json:"name,omitempty" maxLength:"255" doc:"Group name"`
		Description string `json:"description,omitempty" doc:"Group description"`
	}
}

type UpdateGroupOutput struct {
	Body *domain.Group
}

type DeleteGroupInput struct {
	ID uuid.UUID `path:"id" doc:"Group ID"`
}

func RegisterGroupRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-group",
		Method:      http.MethodPost,
		Path:        "/groups",
		Summary:     "Create a new group",
		Tags:        []string{"Groups"},
	}, func(ctx context.Context, input *CreateGroupInput) (*CreateGroupOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		role, ok := middleware.RoleFromContext(ctx)
		if !ok || role != domain.RoleAdmin {
			return nil, huma.Error403Forbidden("admin role required")
		}

		now := time.Now()
		g := &domain.Group{
			ID:          uuid.New(),
			TenantID:    tenantID,
			Name:        input.Body.Name,
			Description: input.Body.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := store.Groups().Create(ctx, g); err != nil {
			return nil, huma.Error500InternalServerError("failed to create group", err)
		}

		return &CreateGroupOutput{Body: g}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-groups",
		Method:      http.MethodGet,
		Path:        "/groups",
		Summary:     "List groups in the tenant",
		Tags:        []string{"Groups"},
	}, func(ctx context.Context, _ *struct{}) (*ListGroupsOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		groups, err := store.Groups().List(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list groups", err)
		}

		return &ListGroupsOutput{Body: groups}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-group",
		Method:      http.MethodGet,
		Path:        "/groups/{id}",
		Summary:     "Get a group by ID",
		Tags:        []string{"Groups"},
	}, func(ctx context.Context, input *GetGroupInput) (*GetGroupOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		g, err := store.Groups().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("group not found")
			}
			return nil, huma.Error500InternalServerError("failed to get group", err)
		}

		return &GetGroupOutput{Body: g}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-group",
		Method:      http.MethodPut,
		Path:        "/groups/{id}",
		Summary:     "Update a group",
		Tags:        []string{"Groups"},
	}, func(ctx context.Context, input *UpdateGroupInput) (*UpdateGroupOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		role, ok := middleware.RoleFromContext(ctx)
		if !ok || role != domain.RoleAdmin {
			return nil, huma.Error403Forbidden("admin role required")
		}

		g, err := store.Groups().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("group not found")
			}
			return nil, huma.Error500InternalServerError("failed to get group", err)
		}

		if input.Body.Name != "" {
			g.Name = input.Body.Name
		}
		if input.Body.Description != "" {
			g.Description = input.Body.Description
		}
		g.UpdatedAt = time.Now()

		if err := store.Groups().Update(ctx, g); err != nil {
			return nil, huma.Error500InternalServerError("failed to update group", err)
		}

		return &UpdateGroupOutput{Body: g}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-group",
		Method:      http.MethodDelete,
		Path:        "/groups/{id}",
		Summary:     "Delete a group",
		Tags:        []string{"Groups"},
	}, func(ctx context.Context, input *DeleteGroupInput) (*struct{}, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		role, ok := middleware.RoleFromContext(ctx)
		if !ok || role != domain.RoleAdmin {
			return nil, huma.Error403Forbidden("admin role required")
		}

		if err := store.Groups().Delete(ctx, tenantID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("group not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete group", err)
		}

		return nil, nil
	})
}
