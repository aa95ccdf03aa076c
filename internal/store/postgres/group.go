package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simonebenati/taskboard/internal/domain"
)

type GroupRepo struct {
	pool *pgxpool.Pool
}

func NewGroupRepo(pool *pgxpool.Pool) *GroupRepo {
	return &GroupRepo{pool: pool}
}

func (r *GroupRepo) Create(ctx context.Context, g *domain.Group) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO groups (id, tenant_id, name, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		g.ID, g.TenantID, g.Name, g.Description, g.CreatedAt, g.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("groupRepo.Create: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("groupRepo.Create: %w", err)
	}

	return nil
}

func (r *GroupRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Group, error) {
	var g domain.Group

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, name, description, created_at, updated_at
		 FROM groups WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&g.ID, &g.TenantID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("groupRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("groupRepo.GetByID: %w", err)
	}

	return &g, nil
}

func (r *GroupRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Group, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, name, description, created_at, updated_at
		 FROM groups WHERE tenant_id = $1
		 ORDER BY created_at
		 LIMIT 1000`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("groupRepo.List: %w", err)
	}
	defer rows.Close()

	var groups []*domain.Group
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.TenantID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("groupRepo.List: scan: %w", err)
		}
		groups = append(groups, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("groupRepo.List: rows: %w", err)
	}

	return groups, nil
}

func (r *GroupRepo) Update(ctx context.Context, g *domain.Group) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE groups SET name = $1, description = $2, updated_at = now()
		 WHERE tenant_id = $3 AND id = $4`,
		g.Name, g.Description, g.TenantID, g.ID,
	)
	if err != nil {
		return fmt.Errorf("groupRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("groupRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

// Delete removes the group and detaches its boards and members in the same
// transaction, so no board or user is left pointing at a missing group.
func (r *GroupRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("groupRepo.Delete: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.Exec(ctx,
		`UPDATE boards SET group_id = NULL, updated_at = now() WHERE tenant_id = $1 AND group_id = $2`,
		tenantID, id,
	); err != nil {
		return fmt.Errorf("groupRepo.Delete: detach boards: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET group_id = NULL, updated_at = now() WHERE tenant_id = $1 AND group_id = $2`,
		tenantID, id,
	); err != nil {
		return fmt.Errorf("groupRepo.Delete: detach users: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM groups WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("groupRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("groupRepo.Delete: %w", domain.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("groupRepo.Delete: commit: %w", err)
	}

	return nil
}
