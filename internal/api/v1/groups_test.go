package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/simonebenati/taskboard/internal/api/v1"
	"github.com/simonebenati/taskboard/internal/domain"
)

func TestCreateGroup(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	adminID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		var created *domain.Group
		_, api := humatest.New(t)
		store := &mockDataStore{
			groups: &mockGroupRepo{
				createFunc: func(_ context.Context, g *domain.Group) error {
					created = g
					return nil
				},
			},
		}
		v1.RegisterGroupRoutes(api, store)

		resp := api.PostCtx(adminCtx(tenantID, adminID), "/groups", map[string]any{
			"name":        "Platform",
			"description": "Platform engineering",
		})

		require.Equal(t, http.StatusOK, resp.Code)
		require.NotNil(t, created)
		assert.Equal(t, tenantID, created.TenantID)
		assert.Equal(t, "Platform", created.Name)
		assert.NotEqual(t, uuid.Nil, created.ID)
	})

	t.Run("member_forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterGroupRoutes(api, &mockDataStore{groups: &mockGroupRepo{}})

		resp := api.PostCtx(memberCtx(tenantID, uuid.New(), nil), "/groups", map[string]any{
			"name": "Rogue",
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

func TestListGroups(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()

	_, api := humatest.New(t)
	store := &mockDataStore{
		groups: &mockGroupRepo{
			listFunc: func(_ context.Context, tid uuid.UUID) ([]*domain.Group, error) {
				assert.Equal(t, tenantID, tid)
				return []*domain.Group{{ID: uuid.New(), TenantID: tenantID, Name: "Platform"}}, nil
			},
		},
	}
	v1.RegisterGroupRoutes(api, store)

	resp := api.GetCtx(memberCtx(tenantID, uuid.New(), nil), "/groups")

	require.Equal(t, http.StatusOK, resp.Code)

	var body []*domain.Group
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "Platform", body[0].Name)
}

func TestDeleteGroup(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	groupID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		var deleteCalled bool
		_, api := humatest.New(t)
		store := &mockDataStore{
			groups: &mockGroupRepo{
				deleteFunc: func(_ context.Context, tid, id uuid.UUID) error {
					deleteCalled = true
					assert.Equal(t, tenantID, tid)
					assert.Equal(t, groupID, id)
					return nil
				},
			},
		}
		v1.RegisterGroupRoutes(api, store)

		resp := api.DeleteCtx(adminCtx(tenantID, uuid.New()), "/groups/"+groupID.String())

		require.Equal(t, http.StatusNoContent, resp.Code)
		assert.True(t, deleteCalled)
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			groups: &mockGroupRepo{
				deleteFunc: func(_ context.Context, _, _ uuid.UUID) error {
					return domain.ErrNotFound
				},
			},
		}
		v1.RegisterGroupRoutes(api, store)

		resp := api.DeleteCtx(adminCtx(tenantID, uuid.New()), "/groups/"+uuid.New().String())

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}
