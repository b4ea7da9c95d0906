package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/model"
)

const projectColumns = "id, name, description, created_at, updated_at"

// CreateProject inserts a new project and fills in its generated id.
func (s *SQL) CreateProject(ctx context.Context, p *model.Project) error {
	id, err := s.insertID(ctx,
		`INSERT INTO projects (name, description, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		p.Name, p.Description, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return storageErr("insert project", err)
	}
	p.ID = id
	return nil
}

// GetProject fetches a single project by id.
func (s *SQL) GetProject(ctx context.Context, id int64) (model.Project, error) {
	row := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+projectColumns+` FROM projects WHERE id = ?`), id)

	var p model.Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, fmt.Errorf("%w: project %d", apperr.ErrNotFound, id)
	}
	if err != nil {
		return model.Project{}, storageErr("get project", err)
	}
	return p, nil
}

// ListProjects returns all projects in creation order.
func (s *SQL) ListProjects(ctx context.Context) ([]model.Project, error) {
	return s.queryProjects(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY id ASC`)
}

// UpdateProject replaces the mutable fields of an existing project.
func (s *SQL) UpdateProject(ctx context.Context, p model.Project) error {
	res, err := s.db.ExecContext(ctx,
		s.rebind(`UPDATE projects SET name = ?, description = ?, updated_at = ? WHERE id = ?`),
		p.Name, p.Description, p.UpdatedAt, p.ID)
	if err != nil {
		return storageErr("update project", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageErr("update project", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: project %d", apperr.ErrNotFound, p.ID)
	}
	return nil
}

// DeleteProject removes a project and all of its tasks in one transaction.
// The cascade is mandatory: no orphan tasks may remain.
func (s *SQL) DeleteProject(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return storageErr("begin delete project", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		s.rebind(`DELETE FROM tasks WHERE project_id = ?`), id); err != nil {
		return storageErr("delete project tasks", err)
	}

	res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM projects WHERE id = ?`), id)
	if err != nil {
		return storageErr("delete project", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete project", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: project %d", apperr.ErrNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit delete project", err)
	}
	return nil
}

// CountProjects returns the number of live projects.
func (s *SQL) CountProjects(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM projects`); err != nil {
		return 0, storageErr("count projects", err)
	}
	return count, nil
}

// ProjectNameExists reports whether another live project already uses the
// name, compared case-insensitively. excludeID skips the project being
// updated (0 to check all).
func (s *SQL) ProjectNameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		s.rebind(`SELECT COUNT(*) FROM projects WHERE LOWER(name) = LOWER(?) AND id != ?`),
		strings.TrimSpace(name), excludeID)
	if err != nil {
		return false, storageErr("check project name", err)
	}
	return count > 0, nil
}

// SearchProjects returns projects whose name or description contains the
// query, case-insensitively, in creation order.
func (s *SQL) SearchProjects(ctx context.Context, query string) ([]model.Project, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	return s.queryProjects(ctx,
		`SELECT `+projectColumns+` FROM projects
		 WHERE LOWER(name) LIKE ? OR LOWER(description) LIKE ?
		 ORDER BY id ASC`,
		pattern, pattern)
}

func (s *SQL) queryProjects(ctx context.Context, query string, args ...interface{}) ([]model.Project, error) {
	rows, err := s.db.QueryxContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, storageErr("query projects", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, storageErr("scan project", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate projects", err)
	}
	return projects, nil
}
