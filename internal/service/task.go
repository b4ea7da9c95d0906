package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/logger"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/validate"
)

// TaskService orchestrates validation, lifecycle bookkeeping, and
// persistence for tasks.
type TaskService struct {
	store    store.Store
	rules    validate.Rules
	maxTasks int
	now      func() time.Time
}

// NewTaskService builds a TaskService with the given per-project task limit.
func NewTaskService(st store.Store, rules validate.Rules, maxTasks int) *TaskService {
	return &TaskService{
		store:    st,
		rules:    rules,
		maxTasks: maxTasks,
		now:      time.Now,
	}
}

// Create validates and persists a new task under a project. The project
// must exist (checked before the capacity limit); deadline is an optional
// YYYY-MM-DD string that must not be in the past; status defaults to todo.
func (s *TaskService) Create(ctx context.Context, projectID int64, title, description, deadline string, status model.Status) (model.Task, error) {
	if err := validate.ID(projectID, "project"); err != nil {
		return model.Task{}, err
	}
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return model.Task{}, err
	}

	count, err := s.store.CountTasks(ctx, projectID)
	if err != nil {
		return model.Task{}, err
	}
	if count >= s.maxTasks {
		return model.Task{}, fmt.Errorf("%w: maximum %d tasks per project", apperr.ErrCapacityExceeded, s.maxTasks)
	}

	if status == "" {
		status = model.StatusTodo
	}
	if err := s.rules.ValidateTaskTitle(title); err != nil {
		return model.Task{}, err
	}
	if err := s.rules.ValidateTaskDescription(description); err != nil {
		return model.Task{}, err
	}
	if err := s.rules.ValidateStatus(status); err != nil {
		return model.Task{}, err
	}
	due, err := validate.Deadline(deadline, s.now())
	if err != nil {
		return model.Task{}, err
	}

	now := s.now().UTC()
	t := model.Task{
		ProjectID:   projectID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Status:      status,
		Deadline:    due,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Status == model.StatusDone {
		t.ClosedAt = &now
	}

	if err := s.store.CreateTask(ctx, &t); err != nil {
		return model.Task{}, err
	}

	logger.Info("task created",
		logger.F("id", t.ID), logger.F("project_id", projectID), logger.F("status", t.Status))
	return t, nil
}

// Get returns a task by id.
func (s *TaskService) Get(ctx context.Context, id int64) (model.Task, error) {
	if err := validate.ID(id, "task"); err != nil {
		return model.Task{}, err
	}
	return s.store.GetTask(ctx, id)
}

// ListByProject returns all tasks of a project in creation order.
func (s *TaskService) ListByProject(ctx context.Context, projectID int64) ([]model.Task, error) {
	if err := validate.ID(projectID, "project"); err != nil {
		return nil, err
	}
	return s.store.ListTasks(ctx, projectID)
}

// ListByStatus returns a project's tasks with the given status.
func (s *TaskService) ListByStatus(ctx context.Context, projectID int64, status model.Status) ([]model.Task, error) {
	if err := validate.ID(projectID, "project"); err != nil {
		return nil, err
	}
	if err := s.rules.ValidateStatus(status); err != nil {
		return nil, err
	}
	return s.store.ListTasksByStatus(ctx, projectID, status)
}

// Overdue returns tasks whose deadline has passed and whose status is not
// done, optionally scoped to one project.
func (s *TaskService) Overdue(ctx context.Context, projectID *int64) ([]model.Task, error) {
	if projectID != nil {
		if err := validate.ID(*projectID, "project"); err != nil {
			return nil, err
		}
	}
	return s.store.ListOverdueTasks(ctx, projectID, model.DateOf(s.now()))
}

// TaskPatch carries the optional fields of a task update. Nil pointers leave
// the corresponding field untouched. A non-nil empty Deadline clears it.
type TaskPatch struct {
	Title       *string
	Description *string
	Deadline    *string
	Status      *model.Status
}

// Update applies a partial update. When status transitions to done,
// closed_at is set once; when it transitions away from done, closed_at is
// cleared. updated_at is always refreshed.
func (s *TaskService) Update(ctx context.Context, id int64, patch TaskPatch) (model.Task, error) {
	if err := validate.ID(id, "task"); err != nil {
		return model.Task{}, err
	}

	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, err
	}

	if patch.Title != nil {
		if err := s.rules.ValidateTaskTitle(*patch.Title); err != nil {
			return model.Task{}, err
		}
		t.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		if err := s.rules.ValidateTaskDescription(*patch.Description); err != nil {
			return model.Task{}, err
		}
		t.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Deadline != nil {
		due, err := validate.Deadline(*patch.Deadline, s.now())
		if err != nil {
			return model.Task{}, err
		}
		t.Deadline = due
	}
	if patch.Status != nil {
		if err := s.rules.ValidateStatus(*patch.Status); err != nil {
			return model.Task{}, err
		}
		now := s.now().UTC()
		switch {
		case *patch.Status == model.StatusDone && t.ClosedAt == nil:
			t.ClosedAt = &now
		case *patch.Status != model.StatusDone:
			t.ClosedAt = nil
		}
		t.Status = *patch.Status
	}

	t.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateTask(ctx, t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// MarkDone transitions a task to done.
func (s *TaskService) MarkDone(ctx context.Context, id int64) (model.Task, error) {
	done := model.StatusDone
	return s.Update(ctx, id, TaskPatch{Status: &done})
}

// Delete removes a task from its project.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := validate.ID(id, "task"); err != nil {
		return err
	}
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return err
	}
	logger.Info("task deleted", logger.F("id", id))
	return nil
}

// Search returns a project's tasks whose title or description contains the
// query, case-insensitively.
func (s *TaskService) Search(ctx context.Context, projectID int64, query string) ([]model.Task, error) {
	if err := validate.ID(projectID, "project"); err != nil {
		return nil, err
	}
	return s.store.SearchTasks(ctx, projectID, query)
}

// Count returns the number of live tasks in a project.
func (s *TaskService) Count(ctx context.Context, projectID int64) (int, error) {
	if err := validate.ID(projectID, "project"); err != nil {
		return 0, err
	}
	return s.store.CountTasks(ctx, projectID)
}
