package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/simonebenati/taskboard/internal/domain"
	"github.com/simonebenati/taskboard/internal/server/middleware"
)

type GetTenantOutput struct {
	Body *domain.Tenant
}

type UpdateTenantInput struct {
	Body struct {
		Name string `json:"name,omitempty" maxLength:"255" doc:"Tenant name"`
	}
}

type UpdateTenantOutput struct {
	Body *domain.Tenant
}

func RegisterTenantRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "get-tenant",
		Method:      http.MethodGet,
		Path:        "/tenant",
		Summary:     "Get the caller's tenant",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, _ *struct{}) (*GetTenantOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		tenant, err := store.Tenants().GetByID(ctx, tenantID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("tenant not found")
			}
			return nil, huma.Error500InternalServerError("failed to get tenant", err)
		}

		return &GetTenantOutput{Body: tenant}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-tenant",
		Method:      http.MethodPut,
		Path:        "/tenant",
		Summary:     "Update the caller's tenant",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *UpdateTenantInput) (*UpdateTenantOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		role, ok := middleware.RoleFromContext(ctx)
		if !ok || role != domain.RoleAdmin {
			return nil, huma.Error403Forbidden("admin role required")
		}

		tenant, err := store.Tenants().GetByID(ctx, tenantID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("tenant not found")
			}
			return nil, huma.Error500InternalServerError("failed to get tenant", err)
		}

		if input.Body.Name != "" {
			tenant.Name = input.Body.Name
		}
		tenant.UpdatedAt = time.Now()

		if err := store.Tenants().Update(ctx, tenant); err != nil {
			return nil, huma.Error500InternalServerError("failed to update tenant", err)
		}

		return &UpdateTenantOutput{Body: tenant}, nil
	})
}
