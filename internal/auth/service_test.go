package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonebenati/taskboard/internal/auth"
	"github.com/simonebenati/taskboard/internal/domain"
)

// mockServiceRepo is a configurable mock implementing domain.UserRepository.
// It captures calls and returns preconfigured responses for service-level tests.
type mockServiceRepo struct {
	// GetByEmail behavior.
	getByEmailUser *domain.User
	getByEmailErr  error

	// GetByID behavior.
	getByIDUser *domain.User
	getByIDErr  error

	// Create behavior.
	createErr   error
	createdUser *domain.User // captures the user passed to Create.
}

func (m *mockServiceRepo) Create(_ context.Context, u *domain.User) error {
	m.createdUser = u
	return m.createErr
}

func (m *mockServiceRepo) GetByID(context.Context, uuid.UUID, uuid.UUID) (*domain.User, error) {
	return m.getByIDUser, m.getByIDErr
}

func (m *mockServiceRepo) GetByEmail(context.Context, uuid.UUID, string) (*domain.User, error) {
	return m.getByEmailUser, m.getByEmailErr
}

func (m *mockServiceRepo) Update(context.Context, *domain.User) error { return nil }

func (m *mockServiceRepo) List(context.Context, uuid.UUID) ([]*domain.User, error) {
	return nil, nil
}

func (m *mockServiceRepo) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }

const testSecret = "test-secret-key-very-long-and-secure"

func newService(repo domain.UserRepository) *auth.Service {
	return auth.NewService(repo, testSecret, 15*time.Minute, 7*24*time.Hour)
}

func TestService_Register(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	groupID := uuid.New()

	t.Run("creates user with hashed password", func(t *testing.T) {
		t.Parallel()

		repo := &mockServiceRepo{getByEmailErr: domain.ErrNotFound}
		svc := newService(repo)

		user, err := svc.Register(context.Background(), tenantID, "alice@acme.test", "s3cret-pass", "Alice", domain.RoleMember, &groupID)
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, tenantID, user.TenantID)
		assert.Equal(t, domain.RoleMember, user.Role)
		require.NotNil(t, user.GroupID)
		assert.Equal(t, groupID, *user.GroupID)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotContains(t, user.PasswordHash, "s3cret-pass")
		assert.Same(t, user, repo.createdUser)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		t.Parallel()

		repo := &mockServiceRepo{getByEmailUser: &domain.User{ID: uuid.New()}}
		svc := newService(repo)

		_, err := svc.Register(context.Background(), tenantID, "alice@acme.test", "s3cret-pass", "Alice", domain.RoleMember, nil)
		assert.ErrorIs(t, err, auth.ErrUserAlreadyExists)
	})
}

func TestService_Login(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()

	registeredUser := func(t *testing.T, password string) *domain.User {
		t.Helper()
		repo := &mockServiceRepo{getByEmailErr: domain.ErrNotFound}
		user, err := newService(repo).Register(context.Background(), tenantID, "alice@acme.test", password, "Alice", domain.RoleMember, nil)
		require.NoError(t, err)
		return user
	}

	t.Run("valid credentials issue both tokens", func(t *testing.T) {
		t.Parallel()

		user := registeredUser(t, "s3cret-pass")
		repo := &mockServiceRepo{getByEmailUser: user}
		svc := newService(repo)

		access, refresh, err := svc.Login(context.Background(), tenantID, "alice@acme.test", "s3cret-pass")
		require.NoError(t, err)
		require.NotEmpty(t, access)
		require.NotEmpty(t, refresh)

		claims, err := auth.ValidateToken(testSecret, access)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
		assert.Equal(t, "access", claims.TokenType)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		user := registeredUser(t, "s3cret-pass")
		repo := &mockServiceRepo{getByEmailUser: user}
		svc := newService(repo)

		_, _, err := svc.Login(context.Background(), tenantID, "alice@acme.test", "wrong-pass")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()

		repo := &mockServiceRepo{getByEmailErr: domain.ErrNotFound}
		svc := newService(repo)

		_, _, err := svc.Login(context.Background(), tenantID, "ghost@acme.test", "whatever")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestService_RefreshToken(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("picks_up_role_change", func(t *testing.T) {
		t.Parallel()

		refresh, err := auth.IssueRefreshToken(testSecret, tenantID, userID, domain.RoleMember, nil, time.Hour)
		require.NoError(t, err)

		// The stored user has been promoted since the refresh token was issued.
		repo := &mockServiceRepo{getByIDUser: &domain.User{ID: userID, TenantID: tenantID, Role: domain.RoleAdmin}}
		svc := newService(repo)

		access, err := svc.RefreshToken(context.Background(), refresh)
		require.NoError(t, err)

		claims, err := auth.ValidateToken(testSecret, access)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, claims.Role)
	})

	t.Run("access_token_rejected_as_refresh", func(t *testing.T) {
		t.Parallel()

		access, err := auth.IssueAccessToken(testSecret, tenantID, userID, domain.RoleMember, nil, time.Hour)
		require.NoError(t, err)

		svc := newService(&mockServiceRepo{})

		_, err = svc.RefreshToken(context.Background(), access)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("deleted_user", func(t *testing.T) {
		t.Parallel()

		refresh, err := auth.IssueRefreshToken(testSecret, tenantID, userID, domain.RoleMember, nil, time.Hour)
		require.NoError(t, err)

		repo := &mockServiceRepo{getByIDErr: domain.ErrNotFound}
		svc := newService(repo)

		_, err = svc.RefreshToken(context.Background(), refresh)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestGenerateInviteToken(t *testing.T) {
	t.Parallel()

	a, err := auth.GenerateInviteToken()
	require.NoError(t, err)
	b, err := auth.GenerateInviteToken()
	require.NoError(t, err)

	assert.Len(t, a, 48)
	assert.NotEqual(t, a, b)
}

func TestService_PasswordHashIsSalted(t *testing.T) {
	t.Parallel()

	repo1 := &mockServiceRepo{getByEmailErr: domain.ErrNotFound}
	repo2 := &mockServiceRepo{getByEmailErr: domain.ErrNotFound}
	svc := newService(repo1)
	svc2 := newService(repo2)

	u1, err := svc.Register(context.Background(), uuid.New(), "a@x.test", "same-password", "A", domain.RoleMember, nil)
	require.NoError(t, err)
	u2, err := svc2.Register(context.Background(), uuid.New(), "b@x.test", "same-password", "B", domain.RoleMember, nil)
	require.NoError(t, err)

	assert.NotEqual(t, u1.PasswordHash, u2.PasswordHash)
}

func TestService_LoginErrorDoesNotLeakCause(t *testing.T) {
	t.Parallel()

	repo := &mockServiceRepo{getByEmailErr: errors.New("connection refused")}
	svc := newService(repo)

	_, _, err := svc.Login(context.Background(), uuid.New(), "alice@acme.test", "pass")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.NotContains(t, err.Error(), "connection refused")
}
