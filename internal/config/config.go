// Package config loads application settings from ~/.taskdeck/config.yaml
// with TASKDECK_* environment overrides. Every business limit the core
// enforces is injected from here.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/validate"
)

// WordBounds mirrors validate.Bounds for YAML serialization.
type WordBounds struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Database selects the storage backend. Driver is "sqlite" or "postgres".
type Database struct {
	Driver string `yaml:"driver" json:"driver"`
	DSN    string `yaml:"dsn" json:"dsn"`
}

// Config holds user preferences and business limits.
type Config struct {
	// Capacity limits
	MaxProjects        int `yaml:"max_projects" json:"max_projects"`
	MaxTasksPerProject int `yaml:"max_tasks_per_project" json:"max_tasks_per_project"`

	// Field validation bounds
	ProjectNameWords        WordBounds `yaml:"project_name_words" json:"project_name_words"`
	ProjectDescriptionWords WordBounds `yaml:"project_description_words" json:"project_description_words"`
	TaskTitleWords          WordBounds `yaml:"task_title_words" json:"task_title_words"`
	TaskDescriptionWords    WordBounds `yaml:"task_description_words" json:"task_description_words"`

	// Allowed task statuses
	Statuses []string `yaml:"statuses" json:"statuses"`

	Database Database `yaml:"database" json:"database"`

	// Server settings
	HTTPAddr      string `yaml:"http_addr" json:"http_addr"`
	SweepInterval string `yaml:"sweep_interval" json:"sweep_interval"` // Go duration, e.g. "15m"

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`
	LogFile    string `yaml:"log_file" json:"log_file"`
	LogConsole bool   `yaml:"log_console" json:"log_console"`
}

// DefaultConfig returns default settings.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	logPath := ""
	dbPath := "taskdeck.db"
	if home != "" {
		logPath = filepath.Join(home, ".taskdeck", "logs", "taskdeck.log")
		dbPath = filepath.Join(home, ".taskdeck", "taskdeck.db")
	}

	defaults := validate.DefaultRules()
	statuses := make([]string, 0, len(defaults.Statuses))
	for _, s := range defaults.Statuses {
		statuses = append(statuses, string(s))
	}

	return &Config{
		MaxProjects:             getEnvInt("TASKDECK_MAX_PROJECTS", 10),
		MaxTasksPerProject:      getEnvInt("TASKDECK_MAX_TASKS", 50),
		ProjectNameWords:        WordBounds{Min: defaults.ProjectName.Min, Max: defaults.ProjectName.Max},
		ProjectDescriptionWords: WordBounds{Min: defaults.ProjectDescription.Min, Max: defaults.ProjectDescription.Max},
		TaskTitleWords:          WordBounds{Min: defaults.TaskTitle.Min, Max: defaults.TaskTitle.Max},
		TaskDescriptionWords:    WordBounds{Min: defaults.TaskDescription.Min, Max: defaults.TaskDescription.Max},
		Statuses:                statuses,
		Database: Database{
			Driver: getEnv("TASKDECK_DB_DRIVER", "sqlite"),
			DSN:    getEnv("TASKDECK_DB_DSN", dbPath),
		},
		HTTPAddr:      getEnv("TASKDECK_HTTP_ADDR", ":8080"),
		SweepInterval: getEnv("TASKDECK_SWEEP_INTERVAL", "15m"),
		LogLevel:      getEnv("TASKDECK_LOG_LEVEL", "INFO"),
		LogFile:       getEnv("TASKDECK_LOG_FILE", logPath),
		LogConsole:    getEnv("TASKDECK_LOG_CONSOLE", "false") == "true",
	}
}

// Rules converts the configured bounds into the validator's rule set.
func (c *Config) Rules() validate.Rules {
	statuses := make([]model.Status, 0, len(c.Statuses))
	for _, s := range c.Statuses {
		statuses = append(statuses, model.Status(s))
	}
	return validate.Rules{
		ProjectName:        validate.Bounds{Min: c.ProjectNameWords.Min, Max: c.ProjectNameWords.Max},
		ProjectDescription: validate.Bounds{Min: c.ProjectDescriptionWords.Min, Max: c.ProjectDescriptionWords.Max},
		TaskTitle:          validate.Bounds{Min: c.TaskTitleWords.Min, Max: c.TaskTitleWords.Max},
		TaskDescription:    validate.Bounds{Min: c.TaskDescriptionWords.Min, Max: c.TaskDescriptionWords.Max},
		Statuses:           statuses,
	}
}

// SweepEvery parses the sweep interval, falling back to 15 minutes on a
// malformed value.
func (c *Config) SweepEvery() time.Duration {
	d, err := time.ParseDuration(c.SweepInterval)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskdeck", "config.yaml"), nil
}

// Load loads config from ~/.taskdeck/config.yaml, returning defaults when
// the file does not exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save writes config to ~/.taskdeck/config.yaml.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
