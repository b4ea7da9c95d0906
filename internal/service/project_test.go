package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/testutil"
	"github.com/taskdeck/taskdeck/internal/validate"
)

func newProjectService(t *testing.T, maxProjects int) *ProjectService {
	t.Helper()
	return NewProjectService(testutil.NewTestStore(t), validate.DefaultRules(), maxProjects)
}

func TestProjectCreate(t *testing.T) {
	svc := newProjectService(t, 10)
	ctx := context.Background()

	p, err := svc.Create(ctx, "  Website Redesign  ", "refresh the landing pages")
	require.NoError(t, err)
	assert.Greater(t, p.ID, int64(0))
	assert.Equal(t, "Website Redesign", p.Name)
	assert.Equal(t, "refresh the landing pages", p.Description)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
}

func TestProjectCreateValidation(t *testing.T) {
	svc := newProjectService(t, 10)
	ctx := context.Background()

	_, err := svc.Create(ctx, "", "")
	assert.ErrorIs(t, err, apperr.ErrEmptyField)

	_, err = svc.Create(ctx, strings.Repeat("word ", 31), "")
	assert.ErrorIs(t, err, apperr.ErrTooManyWords)

	_, err = svc.Create(ctx, "Fine", strings.Repeat("word ", 151))
	assert.ErrorIs(t, err, apperr.ErrTooManyWords)
}

func TestProjectCreateDuplicateNameCaseInsensitive(t *testing.T) {
	svc := newProjectService(t, 10)
	ctx := context.Background()

	_, err := svc.Create(ctx, "Alpha", "")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "alpha", "")
	assert.ErrorIs(t, err, apperr.ErrDuplicateName)

	_, err = svc.Create(ctx, "  ALPHA  ", "")
	assert.ErrorIs(t, err, apperr.ErrDuplicateName)
}

func TestProjectCapacity(t *testing.T) {
	svc := newProjectService(t, 3)
	ctx := context.Background()

	for i, name := range []string{"One", "Two", "Three"} {
		_, err := svc.Create(ctx, name, "")
		require.NoError(t, err, "project %d", i+1)
	}

	_, err := svc.Create(ctx, "Four", "")
	assert.ErrorIs(t, err, apperr.ErrCapacityExceeded)

	// Deleting frees a slot.
	projects, err := svc.List(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, projects[0].ID))

	_, err = svc.Create(ctx, "Four", "")
	assert.NoError(t, err)
}

func TestProjectUpdatePartial(t *testing.T) {
	svc := newProjectService(t, 10)
	svc.now = func() time.Time { return time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	p, err := svc.Create(ctx, "Original", "keep me")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC) }

	name := "Renamed"
	updated, err := svc.Update(ctx, p.ID, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "keep me", updated.Description)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))

	// Renaming to its own name is not a duplicate.
	_, err = svc.Update(ctx, p.ID, &name, nil)
	assert.NoError(t, err)
}

func TestProjectUpdateDuplicateName(t *testing.T) {
	svc := newProjectService(t, 10)
	ctx := context.Background()

	_, err := svc.Create(ctx, "Taken", "")
	require.NoError(t, err)
	p, err := svc.Create(ctx, "Free", "")
	require.NoError(t, err)

	name := "taken"
	_, err = svc.Update(ctx, p.ID, &name, nil)
	assert.ErrorIs(t, err, apperr.ErrDuplicateName)
}

func TestProjectGetNotFound(t *testing.T) {
	svc := newProjectService(t, 10)

	_, err := svc.Get(context.Background(), 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Get(context.Background(), 0)
	assert.ErrorIs(t, err, apperr.ErrInvalidID)
}

func TestProjectSearchMatchesNameAndDescription(t *testing.T) {
	svc := newProjectService(t, 10)
	ctx := context.Background()

	_, err := svc.Create(ctx, "My Project", "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Archive", "old project documentation")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Widget", "nothing relevant")
	require.NoError(t, err)

	matches, err := svc.Search(ctx, "PROJ")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "My Project", matches[0].Name)
	assert.Equal(t, "Archive", matches[1].Name)
}
