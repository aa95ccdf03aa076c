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

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tasks (id, tenant_id, board_id, parent_id, title, description, status, position, assignee_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.TenantID, t.BoardID, t.ParentID, t.Title, t.Description,
		t.Status, t.Position, t.AssigneeID, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.Create: %w", err)
	}

	return nil
}

func (r *TaskRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Task, error) {
	var t domain.Task

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, board_id, parent_id, title, description, status, position, assignee_id, created_at, updated_at
		 FROM tasks WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(
		&t.ID, &t.TenantID, &t.BoardID, &t.ParentID, &t.Title, &t.Description,
		&t.Status, &t.Position, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("taskRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("taskRepo.GetByID: %w", err)
	}

	return &t, nil
}

func (r *TaskRepo) ListByBoard(ctx context.Context, tenantID, boardID uuid.UUID) ([]*domain.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, board_id, parent_id, title, description, status, position, assignee_id, created_at, updated_at
		 FROM tasks WHERE tenant_id = $1 AND board_id = $2
		 ORDER BY status, position, created_at
		 LIMIT 2000`,
		tenantID, boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("taskRepo.ListByBoard: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows, "taskRepo.ListByBoard")
}

func (r *TaskRepo) ListSubtasks(ctx context.Context, tenantID, parentID uuid.UUID) ([]*domain.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, board_id, parent_id, title, description, status, position, assignee_id, created_at, updated_at
		 FROM tasks WHERE tenant_id = $1 AND parent_id = $2
		 ORDER BY position, created_at
		 LIMIT 500`,
		tenantID, parentID,
	)
	if err != nil {
		return nil, fmt.Errorf("taskRepo.ListSubtasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows, "taskRepo.ListSubtasks")
}

func (r *TaskRepo) Update(ctx context.Context, t *domain.Task) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET board_id = $1, parent_id = $2, title = $3, description = $4,
		        status = $5, position = $6, assignee_id = $7, updated_at = now()
		 WHERE tenant_id = $8 AND id = $9`,
		t.BoardID, t.ParentID, t.Title, t.Description,
		t.Status, t.Position, t.AssigneeID,
		t.TenantID, t.ID,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *TaskRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.TaskStatus, position int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET status = $1, position = $2, updated_at = now() WHERE tenant_id = $3 AND id = $4`,
		status, position, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.UpdateStatus: %w", domain.ErrNotFound)
	}

	return nil
}

// Delete removes the task and its subtasks.
func (r *TaskRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM tasks WHERE tenant_id = $1 AND (id = $2 OR parent_id = $2)`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func scanTasks(rows pgx.Rows, caller string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(
			&t.ID, &t.TenantID, &t.BoardID, &t.ParentID, &t.Title, &t.Description,
			&t.Status, &t.Position, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return tasks, nil
}
