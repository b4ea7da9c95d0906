package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/testutil"
)

func newProject(t *testing.T, s *store.SQL, name string) model.Project {
	t.Helper()
	now := time.Now().UTC()
	p := model.Project{Name: name, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.CreateProject(context.Background(), &p))
	return p
}

func newTask(t *testing.T, s *store.SQL, projectID int64, title string, deadline string, status model.Status) model.Task {
	t.Helper()
	now := time.Now().UTC()
	task := model.Task{
		ProjectID:   projectID,
		Title:       title,
		Description: "test task body",
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if deadline != "" {
		d, err := model.ParseDate(deadline)
		require.NoError(t, err)
		task.Deadline = &d
	}
	require.NoError(t, s.CreateTask(context.Background(), &task))
	return task
}

func TestProjectCRUD(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	p := newProject(t, s, "Website Redesign")
	assert.Greater(t, p.ID, int64(0))

	got, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Website Redesign", got.Name)

	name := "Website Relaunch"
	got.Name = name
	got.UpdatedAt = time.Now().UTC()
	require.NoError(t, s.UpdateProject(ctx, got))

	got, err = s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)

	require.NoError(t, s.DeleteProject(ctx, p.ID))
	_, err = s.GetProject(ctx, p.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestProjectIDsAreAssignedInOrder(t *testing.T) {
	s := testutil.NewTestStore(t)

	a := newProject(t, s, "First")
	b := newProject(t, s, "Second")
	assert.Greater(t, b.ID, a.ID)

	projects, err := s.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "First", projects[0].Name)
	assert.Equal(t, "Second", projects[1].Name)
}

func TestProjectNameUniqueIndex(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	newProject(t, s, "Alpha")

	// The expression index enforces case-insensitive uniqueness even when
	// the service-level check is bypassed.
	now := time.Now().UTC()
	dup := model.Project{Name: "alpha", CreatedAt: now, UpdatedAt: now}
	err := s.CreateProject(ctx, &dup)
	assert.ErrorIs(t, err, apperr.ErrDuplicateName)
}

func TestProjectNameExists(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	p := newProject(t, s, "Alpha")

	exists, err := s.ProjectNameExists(ctx, "ALPHA", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	// The project itself is excluded when updating.
	exists, err = s.ProjectNameExists(ctx, "Alpha", p.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = s.ProjectNameExists(ctx, "Beta", 0)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeleteProjectCascades(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	p := newProject(t, s, "Doomed")
	for i := 0; i < 3; i++ {
		newTask(t, s, p.ID, "task", "", model.StatusTodo)
	}
	keep := newProject(t, s, "Keeper")
	kept := newTask(t, s, keep.ID, "survivor", "", model.StatusTodo)

	require.NoError(t, s.DeleteProject(ctx, p.ID))

	tasks, err := s.ListTasks(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	// Unrelated tasks are untouched.
	_, err = s.GetTask(ctx, kept.ID)
	assert.NoError(t, err)
}

func TestDeleteProjectNotFound(t *testing.T) {
	s := testutil.NewTestStore(t)
	err := s.DeleteProject(context.Background(), 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSearchProjects(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, s.CreateProject(ctx, &model.Project{Name: "My Project", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, s.CreateProject(ctx, &model.Project{Name: "Archive", Description: "old project documentation", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, s.CreateProject(ctx, &model.Project{Name: "Widget", Description: "unrelated", CreatedAt: now, UpdatedAt: now}))

	matches, err := s.SearchProjects(ctx, "proj")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "My Project", matches[0].Name)
	assert.Equal(t, "Archive", matches[1].Name)
}

func TestTaskDeadlineRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	p := newProject(t, s, "Calendar")
	task := newTask(t, s, p.ID, "Renew certificates", "2030-06-01", model.StatusTodo)

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Deadline)
	assert.Equal(t, "2030-06-01", got.Deadline.String())
}

func TestTaskStatusFilterAndSearch(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	p := newProject(t, s, "Filters")
	newTask(t, s, p.ID, "Write release notes", "", model.StatusTodo)
	newTask(t, s, p.ID, "Ship release build", "", model.StatusDoing)
	newTask(t, s, p.ID, "Retro notes", "", model.StatusDone)

	doing, err := s.ListTasksByStatus(ctx, p.ID, model.StatusDoing)
	require.NoError(t, err)
	require.Len(t, doing, 1)
	assert.Equal(t, "Ship release build", doing[0].Title)

	matches, err := s.SearchTasks(ctx, p.ID, "NOTES")
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestCloseOverdueTasks(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	p := newProject(t, s, "Sweepable")
	past := newTask(t, s, p.ID, "missed deadline", "2020-01-01", model.StatusTodo)
	alreadyDone := newTask(t, s, p.ID, "finished anyway", "2020-01-01", model.StatusDone)
	future := newTask(t, s, p.ID, "still on track", "2999-01-01", model.StatusTodo)
	noDeadline := newTask(t, s, p.ID, "open ended", "", model.StatusTodo)

	now := time.Now().UTC()
	count, err := s.CloseOverdueTasks(ctx, model.DateOf(now), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := s.GetTask(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDone, got.Status)
	assert.NotNil(t, got.ClosedAt)

	for _, id := range []int64{alreadyDone.ID, future.ID, noDeadline.ID} {
		got, err := s.GetTask(ctx, id)
		require.NoError(t, err)
		if id != alreadyDone.ID {
			assert.NotEqual(t, model.StatusDone, got.Status)
		}
	}

	// Second run has nothing left to close.
	count, err = s.CloseOverdueTasks(ctx, model.DateOf(now), now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestListOverdueTasksScoped(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	a := newProject(t, s, "A")
	b := newProject(t, s, "B")
	newTask(t, s, a.ID, "late in A", "2020-01-01", model.StatusTodo)
	newTask(t, s, b.ID, "late in B", "2020-01-01", model.StatusTodo)

	today := model.DateOf(time.Now())

	all, err := s.ListOverdueTasks(ctx, nil, today)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := s.ListOverdueTasks(ctx, &a.ID, today)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "late in A", scoped[0].Title)
}

func TestDeleteTask(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	p := newProject(t, s, "Tasks")
	task := newTask(t, s, p.ID, "short lived", "", model.StatusTodo)

	require.NoError(t, s.DeleteTask(ctx, task.ID))
	assert.ErrorIs(t, s.DeleteTask(ctx, task.ID), apperr.ErrNotFound)

	count, err := s.CountTasks(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
