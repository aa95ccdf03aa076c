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

type BoardRepo struct {
	pool *pgxpool.Pool
}

func NewBoardRepo(pool *pgxpool.Pool) *BoardRepo {
	return &BoardRepo{pool: pool}
}

func (r *BoardRepo) Create(ctx context.Context, b *domain.Board) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO boards (id, tenant_id, title, description, owner_id, group_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.TenantID, b.Title, b.Description, b.OwnerID, b.GroupID, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("boardRepo.Create: %w", err)
	}

	return nil
}

func (r *BoardRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Board, error) {
	var b domain.Board

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, title, description, owner_id, group_id, created_at, updated_at
		 FROM boards WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&b.ID, &b.TenantID, &b.Title, &b.Description, &b.OwnerID, &b.GroupID, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("boardRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("boardRepo.GetByID: %w", err)
	}

	return &b, nil
}

func (r *BoardRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Board, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, title, description, owner_id, group_id, created_at, updated_at
		 FROM boards WHERE tenant_id = $1
		 ORDER BY created_at
		 LIMIT 1000`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("boardRepo.List: %w", err)
	}
	defer rows.Close()

	return scanBoards(rows, "boardRepo.List")
}

// ListVisible applies the non-admin visibility rule in SQL: boards of the
// caller's group plus personal boards the caller owns.
func (r *BoardRepo) ListVisible(ctx context.Context, tenantID, userID uuid.UUID, groupID *uuid.UUID) ([]*domain.Board, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, title, description, owner_id, group_id, created_at, updated_at
		 FROM boards
		 WHERE tenant_id = $1
		   AND ((group_id IS NOT NULL AND group_id = $3) OR (group_id IS NULL AND owner_id = $2))
		 ORDER BY created_at
		 LIMIT 1000`,
		tenantID, userID, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("boardRepo.ListVisible: %w", err)
	}
	defer rows.Close()

	return scanBoards(rows, "boardRepo.ListVisible")
}

func (r *BoardRepo) Update(ctx context.Context, b *domain.Board) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE boards SET title = $1, description = $2, owner_id = $3, group_id = $4, updated_at = now()
		 WHERE tenant_id = $5 AND id = $6`,
		b.Title, b.Description, b.OwnerID, b.GroupID, b.TenantID, b.ID,
	)
	if err != nil {
		return fmt.Errorf("boardRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("boardRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

// Delete removes the board and its tasks (cascade handled by the schema).
func (r *BoardRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM boards WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("boardRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("boardRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func scanBoards(rows pgx.Rows, caller string) ([]*domain.Board, error) {
	var boards []*domain.Board
	for rows.Next() {
		var b domain.Board
		if err := rows.Scan(&b.ID, &b.TenantID, &b.Title, &b.Description, &b.OwnerID, &b.GroupID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		boards = append(boards, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return boards, nil
}
