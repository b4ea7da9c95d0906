package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/model"
)

func TestWordCount(t *testing.T) {
	bounds := Bounds{Min: 1, Max: 3}

	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{"single word", "hello", nil},
		{"at max", "one two three", nil},
		{"extra whitespace ignored", "  one   two  ", nil},
		{"empty", "", apperr.ErrEmptyField},
		{"whitespace only", "   \t ", apperr.ErrEmptyField},
		{"over max", "one two three four", apperr.ErrTooManyWords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WordCount(tt.text, bounds, "field")
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestWordCountMinBound(t *testing.T) {
	err := WordCount("one", Bounds{Min: 2, Max: 10}, "field")
	assert.ErrorIs(t, err, apperr.ErrTooFewWords)
}

func TestWordCountOptionalField(t *testing.T) {
	// Min 0 marks the field optional: empty passes, non-empty is bounded.
	bounds := Bounds{Min: 0, Max: 2}
	assert.NoError(t, WordCount("", bounds, "description"))
	assert.NoError(t, WordCount("two words", bounds, "description"))
	assert.ErrorIs(t, WordCount("now three words", bounds, "description"), apperr.ErrTooManyWords)
}

func TestRulesDefaults(t *testing.T) {
	rules := DefaultRules()

	assert.NoError(t, rules.ValidateProjectName("Alpha"))
	assert.ErrorIs(t, rules.ValidateProjectName(""), apperr.ErrEmptyField)
	assert.ErrorIs(t, rules.ValidateProjectName(strings.Repeat("word ", 31)), apperr.ErrTooManyWords)

	assert.NoError(t, rules.ValidateProjectDescription(""))
	assert.ErrorIs(t, rules.ValidateProjectDescription(strings.Repeat("word ", 151)), apperr.ErrTooManyWords)

	assert.NoError(t, rules.ValidateTaskTitle("Fix the build"))
	assert.ErrorIs(t, rules.ValidateTaskDescription(""), apperr.ErrEmptyField)
}

func TestValidateStatus(t *testing.T) {
	rules := DefaultRules()

	for _, s := range model.DefaultStatuses() {
		assert.NoError(t, rules.ValidateStatus(s))
	}
	assert.ErrorIs(t, rules.ValidateStatus("in_progress"), apperr.ErrInvalidStatus)
	assert.ErrorIs(t, rules.ValidateStatus("overdue"), apperr.ErrInvalidStatus)
	assert.ErrorIs(t, rules.ValidateStatus(""), apperr.ErrInvalidStatus)
}

func TestDeadline(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	t.Run("empty returns nil without error", func(t *testing.T) {
		d, err := Deadline("", now)
		require.NoError(t, err)
		assert.Nil(t, d)
	})

	t.Run("future date parses", func(t *testing.T) {
		d, err := Deadline("2030-06-01", now)
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, "2030-06-01", d.String())
	})

	t.Run("today is allowed", func(t *testing.T) {
		d, err := Deadline("2026-08-23", now)
		require.NoError(t, err)
		require.NotNil(t, d)
	})

	t.Run("past date rejected", func(t *testing.T) {
		_, err := Deadline("2025-01-15", now)
		assert.ErrorIs(t, err, apperr.ErrPastDeadline)
	})

	t.Run("malformed input rejected", func(t *testing.T) {
		for _, input := range []string{"15/01/2030", "2030-13-01", "soon", "2030-06-01T00:00:00Z"} {
			_, err := Deadline(input, now)
			assert.ErrorIs(t, err, apperr.ErrInvalidDateFormat, "input %q", input)
		}
	})
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ID(1, "task"))
	assert.NoError(t, ID(42, "project"))
	assert.ErrorIs(t, ID(0, "task"), apperr.ErrInvalidID)
	assert.ErrorIs(t, ID(-7, "project"), apperr.ErrInvalidID)
}
