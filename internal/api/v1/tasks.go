package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/simonebenati/taskboard/internal/domain"
	"github.com/simonebenati/taskboard/internal/server/middleware"
)

type CreateTaskInput struct {
	Body struct {
		BoardID     uuid.UUID  `json:"boardId" doc:"Board ID"`
		ParentID    *uuid.UUID `json:"parentId,omitempty" doc:"Parent task for subtasks"`
		Title       string     `json:"title" minLength:"1" maxLength:"500" doc:"Task title"`
		Description string     `json:"description,omitempty" doc:"Task description"`
		Position    int        `json:"position,omitempty" doc:"Ordering position within the column"`
		AssigneeID  *uuid.UUID `json:"assigneeId,omitempty" doc:"Assigned user ID"`
	}
}

type CreateTaskOutput struct {
	Body *domain.Task
}

type ListTasksInput struct {
	BoardID uuid.UUID `query:"board_id" required:"true" doc:"Board ID"`
}

type ListTasksOutput struct {
	Body []*domain.Task
}

type GetTaskInput struct {
	ID uuid.UUID `path:"id" doc:"Task ID"`
}

type GetTaskOutput struct {
	Body *domain.Task
}

type ListSubtasksInput struct {
	ID uuid.UUID `path:"id" doc:"Parent task ID"`
}

type ListSubtasksOutput struct {
	Body []*domain.Task
}

type UpdateTaskInput struct {
	ID   uuid.UUID `path:"id" doc:"Task ID"`
	Body struct {
		Title       string     `json:"title,omitempty" maxLength:"500" doc:"Task title"`
		Description string     `json:"description,omitempty" doc:"Task description"`
		AssigneeID  *uuid.UUID `json:"assigneeId,omitempty" doc:"Assigned user ID"`
	}
}

type UpdateTaskOutput struct {
	Body *domain.Task
}

type MoveTaskInput struct {
	ID   uuid.UUID `path:"id" doc:"Task ID"`
	Body struct {
		Status   string `json:"status" minLength:"1" doc:"Target column status"`
		Position int    `json:"position,omitempty" doc:"Ordering position within the column"`
	}
}

type MoveTaskOutput struct {
	Body *domain.Task
}

type DeleteTaskInput struct {
	ID uuid.UUID `path:"id" doc:"Task ID"`
}

// visibleBoard fetches a board and enforces the caller's visibility over it.
// Hidden boards read as not found so callers cannot probe for their existence.
func visibleBoard(ctx context.Context, store DataStore, tenantID, boardID uuid.UUID) (*domain.Board, error) {
	caller, err := callerFromContext(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	b, err := store.Boards().GetByID(ctx, tenantID, boardID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error404NotFound("board not found")
		}
		return nil, huma.Error500InternalServerError("failed to get board", err)
	}
	if !b.VisibleTo(caller) {
		return nil, huma.Error404NotFound("board not found")
	}
	return b, nil
}

func RegisterTaskRoutes(api huma.API, store DataStore, notify Notifier) {
	huma.Register(api, huma.Operation{
		OperationID: "create-task",
		Method:      http.MethodPost,
		Path:        "/tasks",
		Summary:     "Create a new task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *CreateTaskInput) (*CreateTaskOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		if role, ok := middleware.RoleFromContext(ctx); ok && role == domain.RoleViewer {
			return nil, huma.Error403Forbidden("viewers cannot create tasks")
		}

		if _, err := visibleBoard(ctx, store, tenantID, input.Body.BoardID); err != nil {
			return nil, err
		}

		if input.Body.ParentID != nil {
			parent, err := store.Tasks().GetByID(ctx, tenantID, *input.Body.ParentID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("parent task not found")
				}
				return nil, huma.Error500InternalServerError("failed to validate parent task", err)
			}
			if parent.BoardID != input.Body.BoardID {
				return nil, huma.Error400BadRequest("parent task belongs to a different board")
			}
			if parent.ParentID != nil {
				return nil, huma.Error400BadRequest("subtasks cannot be nested")
			}
		}

		now := time.Now()
		t := &domain.Task{
			ID:          uuid.New(),
			TenantID:    tenantID,
			BoardID:     input.Body.BoardID,
			ParentID:    input.Body.ParentID,
			Title:       input.Body.Title,
			Description: input.Body.Description,
			Status:      domain.TaskStatusTodo,
			Position:    input.Body.Position,
			AssigneeID:  input.Body.AssigneeID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := store.Tasks().Create(ctx, t); err != nil {
			return nil, huma.Error500InternalServerError("failed to create task", err)
		}

		notify.TaskCreated(ctx, t)

		return &CreateTaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tasks on a board",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *ListTasksInput) (*ListTasksOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		if _, err := visibleBoard(ctx, store, tenantID, input.BoardID); err != nil {
			return nil, err
		}

		tasks, err := store.Tasks().ListByBoard(ctx, tenantID, input.BoardID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list tasks", err)
		}

		return &ListTasksOutput{Body: tasks}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}",
		Summary:     "Get a task by ID",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *GetTaskInput) (*GetTaskOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		t, err := store.Tasks().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			return nil, huma.Error500InternalServerError("failed to get task", err)
		}

		if _, err := visibleBoard(ctx, store, tenantID, t.BoardID); err != nil {
			return nil, huma.Error404NotFound("task not found")
		}

		return &GetTaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-subtasks",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}/subtasks",
		Summary:     "List subtasks of a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *ListSubtasksInput) (*ListSubtasksOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		parent, err := store.Tasks().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			return nil, huma.Error500InternalServerError("failed to get task", err)
		}

		if _, err := visibleBoard(ctx, store, tenantID, parent.BoardID); err != nil {
			return nil, huma.Error404NotFound("task not found")
		}

		subtasks, err := store.Tasks().ListSubtasks(ctx, tenantID, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list subtasks", err)
		}

		return &ListSubtasksOutput{Body: subtasks}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task",
		Method:      http.MethodPut,
		Path:        "/tasks/{id}",
		Summary:     "Update a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *UpdateTaskInput) (*UpdateTaskOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		if role, ok := middleware.RoleFromContext(ctx); ok && role == domain.RoleViewer {
			return nil, huma.Error403Forbidden("viewers cannot update tasks")
		}

		existing, err := store.Tasks().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			return nil, huma.Error500InternalServerError("failed to get task", err)
		}

		if _, err := visibleBoard(ctx, store, tenantID, existing.BoardID); err != nil {
			return nil, huma.Error404NotFound("task not found")
		}

		if input.Body.Title != "" {
			existing.Title = input.Body.Title
		}
		if input.Body.Description != "" {
			existing.Description = input.Body.Description
		}
		if input.Body.AssigneeID != nil {
			existing.AssigneeID = input.Body.AssigneeID
		}
		existing.UpdatedAt = time.Now()

		if err := store.Tasks().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update task", err)
		}

		notify.TaskUpdated(ctx, existing)

		return &UpdateTaskOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "move-task",
		Method:      http.MethodPatch,
		Path:        "/tasks/{id}/status",
		Summary:     "Move a task to another column",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *MoveTaskInput) (*MoveTaskOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		if role, ok := middleware.RoleFromContext(ctx); ok && role == domain.RoleViewer {
			return nil, huma.Error403Forbidden("viewers cannot move tasks")
		}

		existing, err := store.Tasks().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			return nil, huma.Error500InternalServerError("failed to get task", err)
		}

		if _, err := visibleBoard(ctx, store, tenantID, existing.BoardID); err != nil {
			return nil, huma.Error404NotFound("task not found")
		}

		target := domain.TaskStatus(input.Body.Status)
		if !target.Valid() {
			return nil, huma.Error400BadRequest("unknown task status: " + input.Body.Status)
		}

		if err := store.Tasks().UpdateStatus(ctx, tenantID, input.ID, target, input.Body.Position); err != nil {
			return nil, huma.Error500InternalServerError("failed to update task status", err)
		}

		existing.Status = target
		existing.Position = input.Body.Position
		existing.UpdatedAt = time.Now()

		notify.TaskUpdated(ctx, existing)

		return &MoveTaskOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-task",
		Method:      http.MethodDelete,
		Path:        "/tasks/{id}",
		Summary:     "Delete a task and its subtasks",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *DeleteTaskInput) (*struct{}, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		if role, ok := middleware.RoleFromContext(ctx); ok && role == domain.RoleViewer {
			return nil, huma.Error403Forbidden("viewers cannot delete tasks")
		}

		existing, err := store.Tasks().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			return nil, huma.Error500InternalServerError("failed to get task", err)
		}

		if _, err := visibleBoard(ctx, store, tenantID, existing.BoardID); err != nil {
			return nil, huma.Error404NotFound("task not found")
		}

		if err := store.Tasks().Delete(ctx, tenantID, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete task", err)
		}

		notify.TaskDeleted(ctx, tenantID, existing.BoardID, input.ID)

		return nil, nil
	})
}
