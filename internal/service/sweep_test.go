package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/testutil"
)

// insertTaskAt writes a task straight through the store so the fixture can
// carry deadlines that would fail creation-time validation.
func insertTaskAt(t *testing.T, st *store.SQL, projectID int64, deadline string, status model.Status) model.Task {
	t.Helper()
	now := time.Now().UTC()
	task := model.Task{
		ProjectID:   projectID,
		Title:       "fixture",
		Description: "fixture body",
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if deadline != "" {
		d, err := model.ParseDate(deadline)
		require.NoError(t, err)
		task.Deadline = &d
	}
	require.NoError(t, st.CreateTask(context.Background(), &task))
	return task
}

func TestSweepClosesOverdueTasks(t *testing.T) {
	st := testutil.NewTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	p := model.Project{Name: "Sweep", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, st.CreateProject(ctx, &p))

	late1 := insertTaskAt(t, st, p.ID, "2020-01-01", model.StatusTodo)
	late2 := insertTaskAt(t, st, p.ID, "2020-06-15", model.StatusDoing)
	insertTaskAt(t, st, p.ID, "2999-01-01", model.StatusTodo)
	insertTaskAt(t, st, p.ID, "", model.StatusTodo)
	insertTaskAt(t, st, p.ID, "2020-01-01", model.StatusDone)

	sweeper := NewSweeper(st)

	closed, err := sweeper.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), closed)

	for _, id := range []int64{late1.ID, late2.ID} {
		got, err := st.GetTask(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.StatusDone, got.Status)
		assert.NotNil(t, got.ClosedAt)
	}

	// Idempotent: nothing left to close.
	closed, err = sweeper.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), closed)
}

func TestSweepIgnoresTodayDeadline(t *testing.T) {
	st := testutil.NewTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	p := model.Project{Name: "Today", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, st.CreateProject(ctx, &p))

	// Due today is not overdue yet.
	task := insertTaskAt(t, st, p.ID, model.DateOf(now).String(), model.StatusTodo)

	sweeper := NewSweeper(st)
	closed, err := sweeper.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), closed)

	got, err := st.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusTodo, got.Status)
}
