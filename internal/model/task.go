package model

import "time"

// Status is the lifecycle state of a task. Overdue is not a status: it is
// derived from the deadline and never stored.
type Status string

const (
	StatusTodo  Status = "todo"
	StatusDoing Status = "doing"
	StatusDone  Status = "done"
)

// DefaultStatuses is the canonical status set. The allowed set is
// configurable; this is what new deployments get.
func DefaultStatuses() []Status {
	return []Status{StatusTodo, StatusDoing, StatusDone}
}

// Task is a unit of work belonging to exactly one project for its lifetime.
type Task struct {
	ID          int64      `db:"id" json:"id"`
	ProjectID   int64      `db:"project_id" json:"project_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Status      Status     `db:"status" json:"status"`
	Deadline    *Date      `db:"deadline" json:"deadline,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	ClosedAt    *time.Time `db:"closed_at" json:"closed_at,omitempty"`
}

// IsOverdue reports whether the task's deadline has passed and the task is
// not done, evaluated against the given instant.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Deadline == nil || t.Status == StatusDone {
		return false
	}
	return t.Deadline.Before(DateOf(now))
}
