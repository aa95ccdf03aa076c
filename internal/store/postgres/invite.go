package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simonebenati/taskboard/internal/domain"
)

type InviteRepo struct {
	pool *pgxpool.Pool
}

func NewInviteRepo(pool *pgxpool.Pool) *InviteRepo {
	return &InviteRepo{pool: pool}
}

func (r *InviteRepo) Create(ctx context.Context, i *domain.Invite) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO invites (id, tenant_id, email, role, group_id, token, expires_at, accepted_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		i.ID, i.TenantID, i.Email, i.Role, i.GroupID, i.Token, i.ExpiresAt, i.AcceptedAt, i.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("inviteRepo.Create: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("inviteRepo.Create: %w", err)
	}

	return nil
}

func (r *InviteRepo) GetByToken(ctx context.Context, token string) (*domain.Invite, error) {
	var i domain.Invite

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, email, role, group_id, token, expires_at, accepted_at, created_at
		 FROM invites WHERE token = $1`,
		token,
	).Scan(&i.ID, &i.TenantID, &i.Email, &i.Role, &i.GroupID, &i.Token, &i.ExpiresAt, &i.AcceptedAt, &i.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("inviteRepo.GetByToken: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("inviteRepo.GetByToken: %w", err)
	}

	return &i, nil
}

func (r *InviteRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Invite, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, email, role, group_id, token, expires_at, accepted_at, created_at
		 FROM invites WHERE tenant_id = $1
		 ORDER BY created_at
		 LIMIT 500`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("inviteRepo.List: %w", err)
	}
	defer rows.Close()

	var invites []*domain.Invite
	for rows.Next() {
		var i domain.Invite
		if err := rows.Scan(&i.ID, &i.TenantID, &i.Email, &i.Role, &i.GroupID, &i.Token, &i.ExpiresAt, &i.AcceptedAt, &i.CreatedAt); err != nil {
			return nil, fmt.Errorf("inviteRepo.List: scan: %w", err)
		}
		invites = append(invites, &i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inviteRepo.List: rows: %w", err)
	}

	return invites, nil
}

func (r *InviteRepo) MarkAccepted(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE invites SET accepted_at = $1 WHERE id = $2 AND accepted_at IS NULL`,
		at, id,
	)
	if err != nil {
		return fmt.Errorf("inviteRepo.MarkAccepted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("inviteRepo.MarkAccepted: %w", domain.ErrConflict)
	}

	return nil
}

func (r *InviteRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM invites WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("inviteRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("inviteRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
