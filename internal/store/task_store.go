package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/model"
)

const taskColumns = "id, project_id, title, description, status, deadline, created_at, updated_at, closed_at"

// CreateTask inserts a new task and fills in its generated id.
func (s *SQL) CreateTask(ctx context.Context, t *model.Task) error {
	id, err := s.insertID(ctx,
		`INSERT INTO tasks (project_id, title, description, status, deadline, created_at, updated_at, closed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ProjectID, t.Title, t.Description, string(t.Status), deadlineArg(t.Deadline),
		t.CreatedAt, t.UpdatedAt, t.ClosedAt)
	if err != nil {
		return storageErr("insert task", err)
	}
	t.ID = id
	return nil
}

// GetTask fetches a single task by id.
func (s *SQL) GetTask(ctx context.Context, id int64) (model.Task, error) {
	rows, err := s.db.QueryxContext(ctx,
		s.rebind(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`), id)
	if err != nil {
		return model.Task{}, storageErr("get task", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return model.Task{}, storageErr("get task", err)
		}
		return model.Task{}, fmt.Errorf("%w: task %d", apperr.ErrNotFound, id)
	}
	return scanTask(rows)
}

// ListTasks returns all tasks of a project in creation order.
func (s *SQL) ListTasks(ctx context.Context, projectID int64) ([]model.Task, error) {
	return s.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY id ASC`,
		projectID)
}

// ListTasksByStatus returns a project's tasks with the given status.
func (s *SQL) ListTasksByStatus(ctx context.Context, projectID int64, status model.Status) ([]model.Task, error) {
	return s.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = ? AND status = ? ORDER BY id ASC`,
		projectID, string(status))
}

// ListOverdueTasks returns tasks whose deadline is before today and whose
// status is not done, optionally scoped to one project.
func (s *SQL) ListOverdueTasks(ctx context.Context, projectID *int64, today model.Date) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE deadline IS NOT NULL AND deadline < ? AND status != ?`
	args := []interface{}{today.String(), string(model.StatusDone)}
	if projectID != nil {
		query += ` AND project_id = ?`
		args = append(args, *projectID)
	}
	query += ` ORDER BY id ASC`
	return s.queryTasks(ctx, query, args...)
}

// UpdateTask replaces the mutable fields of an existing task. project_id is
// immutable and deliberately absent from the statement.
func (s *SQL) UpdateTask(ctx context.Context, t model.Task) error {
	res, err := s.db.ExecContext(ctx,
		s.rebind(`UPDATE tasks SET title = ?, description = ?, status = ?, deadline = ?, updated_at = ?, closed_at = ?
			WHERE id = ?`),
		t.Title, t.Description, string(t.Status), deadlineArg(t.Deadline),
		t.UpdatedAt, t.ClosedAt, t.ID)
	if err != nil {
		return storageErr("update task", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageErr("update task", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: task %d", apperr.ErrNotFound, t.ID)
	}
	return nil
}

// DeleteTask removes a task by id.
func (s *SQL) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM tasks WHERE id = ?`), id)
	if err != nil {
		return storageErr("delete task", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete task", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: task %d", apperr.ErrNotFound, id)
	}
	return nil
}

// CountTasks returns the number of live tasks in a project.
func (s *SQL) CountTasks(ctx context.Context, projectID int64) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		s.rebind(`SELECT COUNT(*) FROM tasks WHERE project_id = ?`), projectID)
	if err != nil {
		return 0, storageErr("count tasks", err)
	}
	return count, nil
}

// SearchTasks returns a project's tasks whose title or description contains
// the query, case-insensitively, in creation order.
func (s *SQL) SearchTasks(ctx context.Context, projectID int64, query string) ([]model.Task, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	return s.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE project_id = ? AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ?)
		 ORDER BY id ASC`,
		projectID, pattern, pattern)
}

// CloseOverdueTasks transitions every overdue task to done in a single
// guarded UPDATE. The status guard makes the sweep idempotent and race-safe:
// a task closed by a concurrent writer no longer matches.
func (s *SQL) CloseOverdueTasks(ctx context.Context, today model.Date, closedAt time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		s.rebind(`UPDATE tasks SET status = ?, closed_at = ?, updated_at = ?
			WHERE deadline IS NOT NULL AND deadline < ? AND status != ?`),
		string(model.StatusDone), closedAt, closedAt, today.String(), string(model.StatusDone))
	if err != nil {
		return 0, storageErr("close overdue tasks", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("close overdue tasks", err)
	}
	return affected, nil
}

func (s *SQL) queryTasks(ctx context.Context, query string, args ...interface{}) ([]model.Task, error) {
	rows, err := s.db.QueryxContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, storageErr("query tasks", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate tasks", err)
	}
	return tasks, nil
}

// scanTask reads one task row, converting nullable columns.
func scanTask(rows *sqlx.Rows) (model.Task, error) {
	var (
		t        model.Task
		status   string
		deadline sql.NullString
		closedAt sql.NullTime
	)

	err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &status,
		&deadline, &t.CreatedAt, &t.UpdatedAt, &closedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, fmt.Errorf("%w: task", apperr.ErrNotFound)
		}
		return model.Task{}, storageErr("scan task", err)
	}

	t.Status = model.Status(status)
	if deadline.Valid && deadline.String != "" {
		d, err := model.ParseDate(deadline.String)
		if err != nil {
			return model.Task{}, storageErr("parse task deadline", err)
		}
		t.Deadline = &d
	}
	if closedAt.Valid {
		t.ClosedAt = &closedAt.Time
	}
	return t, nil
}

// deadlineArg converts an optional deadline to its storage form.
func deadlineArg(d *model.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}
