// Package validate holds the stateless input checks applied by the service
// layer before anything touches the store. Each check fails fast with an
// error from the apperr taxonomy.
package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/model"
)

// Bounds is an inclusive word-count range. Min of 0 marks the field as
// optional: empty input passes without further checks.
type Bounds struct {
	Min int
	Max int
}

// Rules bundles the configurable field bounds and the allowed status set.
// The core never hardcodes these; they arrive from configuration.
type Rules struct {
	ProjectName        Bounds
	ProjectDescription Bounds
	TaskTitle          Bounds
	TaskDescription    Bounds
	Statuses           []model.Status
}

// DefaultRules returns the stock limits: names and titles 1-30 words, task
// descriptions 1-150 words, project descriptions optional up to 150 words,
// statuses {todo, doing, done}.
func DefaultRules() Rules {
	return Rules{
		ProjectName:        Bounds{Min: 1, Max: 30},
		ProjectDescription: Bounds{Min: 0, Max: 150},
		TaskTitle:          Bounds{Min: 1, Max: 30},
		TaskDescription:    Bounds{Min: 1, Max: 150},
		Statuses:           model.DefaultStatuses(),
	}
}

// WordCount checks that text contains between b.Min and b.Max
// whitespace-delimited words. field names the offending field in errors.
func WordCount(text string, b Bounds, field string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		if b.Min == 0 {
			return nil
		}
		return fmt.Errorf("%w: %s", apperr.ErrEmptyField, field)
	}

	words := len(strings.Fields(trimmed))
	if words < b.Min {
		return fmt.Errorf("%w: %s must contain at least %d word(s), got %d",
			apperr.ErrTooFewWords, field, b.Min, words)
	}
	if words > b.Max {
		return fmt.Errorf("%w: %s cannot exceed %d words, got %d",
			apperr.ErrTooManyWords, field, b.Max, words)
	}
	return nil
}

// ProjectName validates a project name against the configured bounds.
func (r Rules) ValidateProjectName(name string) error {
	return WordCount(name, r.ProjectName, "project name")
}

// ProjectDescription validates an optional project description.
func (r Rules) ValidateProjectDescription(description string) error {
	return WordCount(description, r.ProjectDescription, "project description")
}

// TaskTitle validates a task title against the configured bounds.
func (r Rules) ValidateTaskTitle(title string) error {
	return WordCount(title, r.TaskTitle, "task title")
}

// TaskDescription validates a task description against the configured bounds.
func (r Rules) ValidateTaskDescription(description string) error {
	return WordCount(description, r.TaskDescription, "task description")
}

// ValidateStatus checks membership in the configured status set.
func (r Rules) ValidateStatus(status model.Status) error {
	for _, s := range r.Statuses {
		if status == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (valid: %s)", apperr.ErrInvalidStatus, status, joinStatuses(r.Statuses))
}

// Deadline parses an optional YYYY-MM-DD deadline. Empty input yields nil
// with no error. A well-formed date earlier than today (relative to now)
// fails with ErrPastDeadline.
func Deadline(text string, now time.Time) (*model.Date, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	d, err := model.ParseDate(text)
	if err != nil {
		return nil, err
	}
	if d.Before(model.DateOf(now)) {
		return nil, fmt.Errorf("%w: %s", apperr.ErrPastDeadline, d)
	}
	return &d, nil
}

// ID checks that an identifier is a positive integer. kind names the entity
// in the error message.
func ID(id int64, kind string) error {
	if id < 1 {
		return fmt.Errorf("%w: %s id must be a positive integer, got %d", apperr.ErrInvalidID, kind, id)
	}
	return nil
}

func joinStatuses(statuses []model.Status) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
