package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taskdeck/taskdeck/internal/model"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 10, cfg.MaxProjects)
	assert.Equal(t, 50, cfg.MaxTasksPerProject)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, []string{"todo", "doing", "done"}, cfg.Statuses)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TASKDECK_MAX_PROJECTS", "3")
	t.Setenv("TASKDECK_DB_DRIVER", "postgres")
	t.Setenv("TASKDECK_LOG_CONSOLE", "true")

	cfg := DefaultConfig()
	assert.Equal(t, 3, cfg.MaxProjects)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.True(t, cfg.LogConsole)
}

func TestRulesBridge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TaskTitleWords.Max = 5
	cfg.Statuses = []string{"todo", "done"}

	rules := cfg.Rules()
	assert.Equal(t, 5, rules.TaskTitle.Max)
	assert.Equal(t, []model.Status{"todo", "done"}, rules.Statuses)
}

func TestSweepEvery(t *testing.T) {
	cfg := DefaultConfig()

	cfg.SweepInterval = "1h"
	assert.Equal(t, time.Hour, cfg.SweepEvery())

	// Malformed and non-positive values fall back.
	cfg.SweepInterval = "whenever"
	assert.Equal(t, 15*time.Minute, cfg.SweepEvery())
	cfg.SweepInterval = "-5m"
	assert.Equal(t, 15*time.Minute, cfg.SweepEvery())
}
