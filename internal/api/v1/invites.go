package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/simonebenati/taskboard/internal/auth"
	"github.com/simonebenati/taskboard/internal/domain"
	"github.com/simonebenati/taskboard/internal/server/middleware"
)

type CreateInviteInput struct {
	Body struct {
		Email   string     `json:"email" minLength:"3" maxLength:"255" doc:"Invitee email"`
		Role    string     `json:"role" enum:"admin,member,viewer" doc:"Role granted on acceptance"`
		GroupID *uuid.UUID `json:"groupId,omitempty" doc:"Group joined on acceptance"`
	}
}

type CreateInviteOutput struct {
	Body struct {
		Invite *domain.Invite `json:"invite"`
		Token  string         `json:"token" doc:"Single-use invite token"` //nolint:gosec // G117: invite token DTO
	}
}

type ListInvitesOutput struct {
	Body []*domain.Invite
}

type DeleteInviteInput struct {
	ID uuid.UUID `path:"id" doc:"Invite ID"`
}

func RegisterInviteRoutes(api huma.API, store DataStore, inviteTTL time.Duration) {
	huma.Register(api, huma.Operation{
		OperationID: "create-invite",
		Method:      http.MethodPost,
		Path:        "/invites",
		Summary:     "Invite a user into the tenant",
		Tags:        []string{"Invites"},
	}, func(ctx context.Context, input *CreateInviteInput) (*CreateInviteOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		role, ok := middleware.RoleFromContext(ctx)
		if !ok || role != domain.RoleAdmin {
			return nil, huma.Error403Forbidden("admin role required")
		}

		if input.Body.GroupID != nil {
			if _, err := store.Groups().GetByID(ctx, tenantID, *input.Body.GroupID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("group not found")
				}
				return nil, huma.Error500InternalServerError("failed to validate group", err)
			}
		}

		token, err := auth.GenerateInviteToken()
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to generate invite token", err)
		}

		now := time.Now()
		invite := &domain.Invite{
			ID:        uuid.New(),
			TenantID:  tenantID,
			Email:     input.Body.Email,
			Role:      input.Body.Role,
			GroupID:   input.Body.GroupID,
			Token:     token,
			ExpiresAt: now.Add(inviteTTL),
			CreatedAt: now,
		}

		if err := store.Invites().Create(ctx, invite); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("invite already exists for this email")
			}
			return nil, huma.Error500InternalServerError("failed to create invite", err)
		}

		out := &CreateInviteOutput{}
		out.Body.Invite = invite
		out.Body.Token = token
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-invites",
		Method:      http.MethodGet,
		Path:        "/invites",
		Summary:     "List pending invites",
		Tags:        []string{"Invites"},
	}, func(ctx context.Context, _ *struct{}) (*ListInvitesOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		role, ok := middleware.RoleFromContext(ctx)
		if !ok || role != domain.RoleAdmin {
			return nil, huma.Error403Forbidden("admin role required")
		}

		invites, err := store.Invites().List(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list invites", err)
		}

		return &ListInvitesOutput{Body: invites}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-invite",
		Method:      http.MethodDelete,
		Path:        "/invites/{id}",
		Summary:     "Revoke an invite",
		Tags:        []string{"Invites"},
	}, func(ctx context.Context, input *DeleteInviteInput) (*struct{}, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		role, ok := middleware.RoleFromContext(ctx)
		if !ok || role != domain.RoleAdmin {
			return nil, huma.Error403Forbidden("admin role required")
		}

		if err := store.Invites().Delete(ctx, tenantID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("invite not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete invite", err)
		}

		return nil, nil
	})
}
