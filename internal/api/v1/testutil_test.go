package v1_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/simonebenati/taskboard/internal/domain"
	"github.com/simonebenati/taskboard/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers: inject tenant/user/role into context for DoCtx
// ---------------------------------------------------------------------------

func tenantCtx(tenantID uuid.UUID) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyTenantID, tenantID)
	return ctx
}

func adminCtx(tenantID, userID uuid.UUID) context.Context {
	ctx := tenantCtx(tenantID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, domain.RoleAdmin)
	return ctx
}

func memberCtx(tenantID, userID uuid.UUID, groupID *uuid.UUID) context.Context {
	ctx := tenantCtx(tenantID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, domain.RoleMember)
	if groupID != nil {
		ctx = context.WithValue(ctx, middleware.ContextKeyGroupID, *groupID)
	}
	return ctx
}

func viewerCtx(tenantID, userID uuid.UUID) context.Context {
	ctx := tenantCtx(tenantID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, domain.RoleViewer)
	return ctx
}

// ---------------------------------------------------------------------------
// Recording Notifier: captures mutation events for assertions
// ---------------------------------------------------------------------------

type notified struct {
	kind     string
	tenantID uuid.UUID
	board    *domain.Board
	task     *domain.Task
	boardID  uuid.UUID
	taskID   uuid.UUID
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notified
}

func (r *recordingNotifier) record(n notified) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, n)
}

func (r *recordingNotifier) all() []notified {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notified, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recordingNotifier) BoardCreated(_ context.Context, b *domain.Board) {
	r.record(notified{kind: "board_created", tenantID: b.TenantID, board: b})
}

func (r *recordingNotifier) BoardUpdated(_ context.Context, b *domain.Board) {
	r.record(notified{kind: "board_updated", tenantID: b.TenantID, board: b})
}

func (r *recordingNotifier) BoardDeleted(_ context.Context, tenantID, boardID uuid.UUID) {
	r.record(notified{kind: "board_deleted", tenantID: tenantID, boardID: boardID})
}

func (r *recordingNotifier) TaskCreated(_ context.Context, t *domain.Task) {
	r.record(notified{kind: "task_created", tenantID: t.TenantID, task: t})
}

func (r *recordingNotifier) TaskUpdated(_ context.Context, t *domain.Task) {
	r.record(notified{kind: "task_updated", tenantID: t.TenantID, task: t})
}

func (r *recordingNotifier) TaskDeleted(_ context.Context, tenantID, boardID, taskID uuid.UUID) {
	r.record(notified{kind: "task_deleted", tenantID: tenantID, boardID: boardID, taskID: taskID})
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	tenants domain.TenantRepository
	users   domain.UserRepository
	groups  domain.GroupRepository
	boards  domain.BoardRepository
	tasks   domain.TaskRepository
	invites domain.InviteRepository
}

func (m *mockDataStore) Tenants() domain.TenantRepository { return m.tenants }
func (m *mockDataStore) Users() domain.UserRepository     { return m.users }
func (m *mockDataStore) Groups() domain.GroupRepository   { return m.groups }
func (m *mockDataStore) Boards() domain.BoardRepository   { return m.boards }
func (m *mockDataStore) Tasks() domain.TaskRepository     { return m.tasks }
func (m *mockDataStore) Invites() domain.InviteRepository { return m.invites }

// ---------------------------------------------------------------------------
// Mock TenantRepository
// ---------------------------------------------------------------------------

type mockTenantRepo struct {
	createFunc    func(ctx context.Context, t *domain.Tenant) error
	getByIDFunc   func(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	getBySlugFunc func(ctx context.Context, slug string) (*domain.Tenant, error)
	updateFunc    func(ctx context.Context, t *domain.Tenant) error
}

func (m *mockTenantRepo) Create(ctx context.Context, t *domain.Tenant) error {
	return m.createFunc(ctx, t)
}

func (m *mockTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockTenantRepo) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	return m.getBySlugFunc(ctx, slug)
}

func (m *mockTenantRepo) Update(ctx context.Context, t *domain.Tenant) error {
	return m.updateFunc(ctx, t)
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	createFunc     func(ctx context.Context, u *domain.User) error
	getByIDFunc    func(ctx context.Context, tenantID, id uuid.UUID) (*domain.User, error)
	getByEmailFunc func(ctx context.Context, tenantID uuid.UUID, email string) (*domain.User, error)
	listFunc       func(ctx context.Context, tenantID uuid.UUID) ([]*domain.User, error)
	updateFunc     func(ctx context.Context, u *domain.User) error
	deleteFunc     func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, tenantID, email)
}

func (m *mockUserRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.User, error) {
	return m.listFunc(ctx, tenantID)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.updateFunc(ctx, u)
}

func (m *mockUserRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock GroupRepository
// ---------------------------------------------------------------------------

type mockGroupRepo struct {
	createFunc  func(ctx context.Context, g *domain.Group) error
	getByIDFunc func(ctx context.Context, tenantID, id uuid.UUID) (*domain.Group, error)
	listFunc    func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Group, error)
	updateFunc  func(ctx context.Context, g *domain.Group) error
	deleteFunc  func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockGroupRepo) Create(ctx context.Context, g *domain.Group) error {
	return m.createFunc(ctx, g)
}

func (m *mockGroupRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Group, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockGroupRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Group, error) {
	return m.listFunc(ctx, tenantID)
}

func (m *mockGroupRepo) Update(ctx context.Context, g *domain.Group) error {
	return m.updateFunc(ctx, g)
}

func (m *mockGroupRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock BoardRepository
// ---------------------------------------------------------------------------

type mockBoardRepo struct {
	createFunc      func(ctx context.Context, b *domain.Board) error
	getByIDFunc     func(ctx context.Context, tenantID, id uuid.UUID) (*domain.Board, error)
	listFunc        func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Board, error)
	listVisibleFunc func(ctx context.Context, tenantID, userID uuid.UUID, groupID *uuid.UUID) ([]*domain.Board, error)
	updateFunc      func(ctx context.Context, b *domain.Board) error
	deleteFunc      func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockBoardRepo) Create(ctx context.Context, b *domain.Board) error {
	return m.createFunc(ctx, b)
}

func (m *mockBoardRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Board, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockBoardRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Board, error) {
	return m.listFunc(ctx, tenantID)
}

func (m *mockBoardRepo) ListVisible(ctx context.Context, tenantID, userID uuid.UUID, groupID *uuid.UUID) ([]*domain.Board, error) {
	return m.listVisibleFunc(ctx, tenantID, userID, groupID)
}

func (m *mockBoardRepo) Update(ctx context.Context, b *domain.Board) error {
	return m.updateFunc(ctx, b)
}

func (m *mockBoardRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock TaskRepository
// ---------------------------------------------------------------------------

type mockTaskRepo struct {
	createFunc       func(ctx context.Context, t *domain.Task) error
	getByIDFunc      func(ctx context.Context, tenantID, id uuid.UUID) (*domain.Task, error)
	listByBoardFunc  func(ctx context.Context, tenantID, boardID uuid.UUID) ([]*domain.Task, error)
	listSubtasksFunc func(ctx context.Context, tenantID, parentID uuid.UUID) ([]*domain.Task, error)
	updateFunc       func(ctx context.Context, t *domain.Task) error
	updateStatusFunc func(ctx context.Context, tenantID, id uuid.UUID, status domain.TaskStatus, position int) error
	deleteFunc       func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	return m.createFunc(ctx, t)
}

func (m *mockTaskRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Task, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockTaskRepo) ListByBoard(ctx context.Context, tenantID, boardID uuid.UUID) ([]*domain.Task, error) {
	return m.listByBoardFunc(ctx, tenantID, boardID)
}

func (m *mockTaskRepo) ListSubtasks(ctx context.Context, tenantID, parentID uuid.UUID) ([]*domain.Task, error) {
	return m.listSubtasksFunc(ctx, tenantID, parentID)
}

func (m *mockTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	return m.updateFunc(ctx, t)
}

func (m *mockTaskRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.TaskStatus, position int) error {
	return m.updateStatusFunc(ctx, tenantID, id, status, position)
}

func (m *mockTaskRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock InviteRepository
// ---------------------------------------------------------------------------

type mockInviteRepo struct {
	createFunc       func(ctx context.Context, i *domain.Invite) error
	getByTokenFunc   func(ctx context.Context, token string) (*domain.Invite, error)
	listFunc         func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Invite, error)
	markAcceptedFunc func(ctx context.Context, id uuid.UUID, at time.Time) error
	deleteFunc       func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockInviteRepo) Create(ctx context.Context, i *domain.Invite) error {
	return m.createFunc(ctx, i)
}

func (m *mockInviteRepo) GetByToken(ctx context.Context, token string) (*domain.Invite, error) {
	return m.getByTokenFunc(ctx, token)
}

func (m *mockInviteRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Invite, error) {
	return m.listFunc(ctx, tenantID)
}

func (m *mockInviteRepo) MarkAccepted(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.markAcceptedFunc(ctx, id, at)
}

func (m *mockInviteRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	registerFunc     func(ctx context.Context, tenantID uuid.UUID, email, password, name, role string, groupID *uuid.UUID) (*domain.User, error)
	loginFunc        func(ctx context.Context, tenantID uuid.UUID, email, password string) (string, string, error)
	refreshTokenFunc func(ctx context.Context, refreshToken string) (string, error)
}

func (m *mockAuthService) Register(ctx context.Context, tenantID uuid.UUID, email, password, name, role string, groupID *uuid.UUID) (*domain.User, error) {
	return m.registerFunc(ctx, tenantID, email, password, name, role, groupID)
}

func (m *mockAuthService) Login(ctx context.Context, tenantID uuid.UUID, email, password string) (accessToken, refreshToken string, err error) {
	return m.loginFunc(ctx, tenantID, email, password)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshTokenFunc(ctx, refreshToken)
}
