// Package store is the persistence layer. A single sqlx-backed
// implementation serves both SQLite (CLI, tests) and PostgreSQL (server
// deployments); queries are written with ? placeholders and rebound per
// driver.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/model"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is the persistence contract consumed by the service layer.
type Store interface {
	// Projects
	CreateProject(ctx context.Context, p *model.Project) error
	GetProject(ctx context.Context, id int64) (model.Project, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	UpdateProject(ctx context.Context, p model.Project) error
	DeleteProject(ctx context.Context, id int64) error
	CountProjects(ctx context.Context) (int, error)
	ProjectNameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	SearchProjects(ctx context.Context, query string) ([]model.Project, error)

	// Tasks
	CreateTask(ctx context.Context, t *model.Task) error
	GetTask(ctx context.Context, id int64) (model.Task, error)
	ListTasks(ctx context.Context, projectID int64) ([]model.Task, error)
	ListTasksByStatus(ctx context.Context, projectID int64, status model.Status) ([]model.Task, error)
	ListOverdueTasks(ctx context.Context, projectID *int64, today model.Date) ([]model.Task, error)
	UpdateTask(ctx context.Context, t model.Task) error
	DeleteTask(ctx context.Context, id int64) error
	CountTasks(ctx context.Context, projectID int64) (int, error)
	SearchTasks(ctx context.Context, projectID int64, query string) ([]model.Task, error)
	CloseOverdueTasks(ctx context.Context, today model.Date, closedAt time.Time) (int64, error)

	Close() error
}

// SQL implements Store on top of sqlx.
type SQL struct {
	db     *sqlx.DB
	driver string
}

var _ Store = (*SQL)(nil)

// Open opens the database for the given driver and DSN and runs migrations.
// For SQLite the DSN is a file path (or ":memory:"); the parent directory is
// created if needed.
func Open(driver, dsn string) (*SQL, error) {
	switch driver {
	case DriverSQLite:
		if dsn != ":memory:" {
			if dir := filepath.Dir(dsn); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return nil, fmt.Errorf("failed to create database directory: %w", err)
				}
			}
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// Single connection keeps SQLite serialized; FK enforcement is off
		// by default and must be enabled per connection.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set busy timeout: %w", err)
		}
	}

	s := &SQL{db: db, driver: driver}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQL) Close() error {
	return s.db.Close()
}

// rebind converts ? placeholders to the driver's native form.
func (s *SQL) rebind(query string) string {
	return s.db.Rebind(query)
}

// insertID executes an INSERT and returns the generated id, using RETURNING
// on PostgreSQL and last-insert-id on SQLite.
func (s *SQL) insertID(ctx context.Context, query string, args ...interface{}) (int64, error) {
	if s.driver == DriverPostgres {
		var id int64
		err := s.db.QueryRowContext(ctx, s.rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}

	res, err := s.db.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// storageErr wraps a driver error so the raw cause never crosses the
// presentation boundary, mapping constraint violations to their typed kinds.
func storageErr(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", apperr.ErrDuplicateName, op)
	}
	return fmt.Errorf("%w: %s: %v", apperr.ErrStorage, op, err)
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
