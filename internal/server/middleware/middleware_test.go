package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonebenati/taskboard/internal/auth"
	"github.com/simonebenati/taskboard/internal/domain"
	"github.com/simonebenati/taskboard/internal/server/middleware"
)

const testSecret = "test-secret-key-very-long-and-secure"

// okHandler records the request context values it sees, so tests can assert
// what the middleware injected.
type okHandler struct {
	called   bool
	tenantID uuid.UUID
	userID   uuid.UUID
	role     string
	groupID  *uuid.UUID
}

func (h *okHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.tenantID, _ = middleware.TenantIDFromContext(r.Context())
	h.userID, _ = middleware.UserIDFromContext(r.Context())
	h.role, _ = middleware.RoleFromContext(r.Context())
	if gid, ok := middleware.GroupIDFromContext(r.Context()); ok {
		h.groupID = &gid
	}
	w.WriteHeader(http.StatusOK)
}

func TestAuth_BearerHeader(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	userID := uuid.New()
	groupID := uuid.New()

	token, err := auth.IssueAccessToken(testSecret, tenantID, userID, domain.RoleMember, &groupID, time.Minute)
	require.NoError(t, err)

	next := &okHandler{}
	handler := middleware.Auth(testSecret)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/boards", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, next.called)
	assert.Equal(t, tenantID, next.tenantID)
	assert.Equal(t, userID, next.userID)
	assert.Equal(t, domain.RoleMember, next.role)
	require.NotNil(t, next.groupID)
	assert.Equal(t, groupID, *next.groupID)
}

func TestAuth_QueryTokenFallback(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	userID := uuid.New()

	token, err := auth.IssueAccessToken(testSecret, tenantID, userID, domain.RoleViewer, nil, time.Minute)
	require.NoError(t, err)

	next := &okHandler{}
	handler := middleware.Auth(testSecret)(next)

	// EventSource cannot set headers; the stream endpoints rely on ?token=.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/stream?token="+token, nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tenantID, next.tenantID)
	assert.Nil(t, next.groupID)
}

func TestAuth_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"no_credentials", func(_ *http.Request) {}},
		{"malformed_bearer", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer not.a.jwt")
		}},
		{"wrong_secret", func(r *http.Request) {
			token, err := auth.IssueAccessToken("another-secret-also-very-long!!!", uuid.New(), uuid.New(), domain.RoleMember, nil, time.Minute)
			require.NoError(t, err)
			r.Header.Set("Authorization", "Bearer "+token)
		}},
		{"expired_token", func(r *http.Request) {
			token, err := auth.IssueAccessToken(testSecret, uuid.New(), uuid.New(), domain.RoleMember, nil, -time.Minute)
			require.NoError(t, err)
			r.Header.Set("Authorization", "Bearer "+token)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			next := &okHandler{}
			handler := middleware.Auth(testSecret)(next)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/boards", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, next.called, "handler must not run without valid credentials")
		})
	}
}

func TestRequireTenant(t *testing.T) {
	t.Parallel()

	t.Run("passes_with_tenant", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		token, err := auth.IssueAccessToken(testSecret, tenantID, uuid.New(), domain.RoleMember, nil, time.Minute)
		require.NoError(t, err)

		next := &okHandler{}
		handler := middleware.Auth(testSecret)(middleware.RequireTenant()(next))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, next.called)
	})

	t.Run("rejects_without_tenant", func(t *testing.T) {
		t.Parallel()

		next := &okHandler{}
		handler := middleware.RequireTenant()(next)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, next.called)
	})
}
