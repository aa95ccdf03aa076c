package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simonebenati/taskboard/internal/domain"
)

type Store struct {
	pool    *pgxpool.Pool
	tenants *TenantRepo
	users   *UserRepo
	groups  *GroupRepo
	boards  *BoardRepo
	tasks   *TaskRepo
	invites *InviteRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:    pool,
		tenants: NewTenantRepo(pool),
		users:   NewUserRepo(pool),
		groups:  NewGroupRepo(pool),
		boards:  NewBoardRepo(pool),
		tasks:   NewTaskRepo(pool),
		invites: NewInviteRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Tenants() domain.TenantRepository { return s.tenants }
func (s *Store) Users() domain.UserRepository     { return s.users }
func (s *Store) Groups() domain.GroupRepository   { return s.groups }
func (s *Store) Boards() domain.BoardRepository   { return s.boards }
func (s *Store) Tasks() domain.TaskRepository     { return s.tasks }
func (s *Store) Invites() domain.InviteRepository { return s.invites }
