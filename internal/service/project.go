// Package service implements the business rules on top of the store:
// capacity limits, uniqueness, cascade deletion, and the task lifecycle
// bookkeeping. Every operation validates its inputs before touching the
// store and fails on the first violated rule.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/logger"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/validate"
)

// ProjectService orchestrates validation and persistence for projects.
type ProjectService struct {
	store       store.Store
	rules       validate.Rules
	maxProjects int
	now         func() time.Time
}

// NewProjectService builds a ProjectService with the given limits.
func NewProjectService(st store.Store, rules validate.Rules, maxProjects int) *ProjectService {
	return &ProjectService{
		store:       st,
		rules:       rules,
		maxProjects: maxProjects,
		now:         time.Now,
	}
}

// Create validates and persists a new project. It fails with
// ErrCapacityExceeded when the configured project limit is reached and with
// ErrDuplicateName when a live project already uses the name
// (case-insensitively).
func (s *ProjectService) Create(ctx context.Context, name, description string) (model.Project, error) {
	count, err := s.store.CountProjects(ctx)
	if err != nil {
		return model.Project{}, err
	}
	if count >= s.maxProjects {
		return model.Project{}, fmt.Errorf("%w: maximum %d projects allowed", apperr.ErrCapacityExceeded, s.maxProjects)
	}

	if err := s.rules.ValidateProjectName(name); err != nil {
		return model.Project{}, err
	}
	if err := s.rules.ValidateProjectDescription(description); err != nil {
		return model.Project{}, err
	}

	exists, err := s.store.ProjectNameExists(ctx, name, 0)
	if err != nil {
		return model.Project{}, err
	}
	if exists {
		return model.Project{}, fmt.Errorf("%w: %q", apperr.ErrDuplicateName, strings.TrimSpace(name))
	}

	now := s.now().UTC()
	p := model.Project{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateProject(ctx, &p); err != nil {
		return model.Project{}, err
	}

	logger.Info("project created", logger.F("id", p.ID), logger.F("name", p.Name))
	return p, nil
}

// Get returns a project by id.
func (s *ProjectService) Get(ctx context.Context, id int64) (model.Project, error) {
	if err := validate.ID(id, "project"); err != nil {
		return model.Project{}, err
	}
	return s.store.GetProject(ctx, id)
}

// List returns all live projects in creation order.
func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	return s.store.ListProjects(ctx)
}

// Update mutates only the provided fields and refreshes updated_at. A nil
// pointer leaves the field untouched.
func (s *ProjectService) Update(ctx context.Context, id int64, name, description *string) (model.Project, error) {
	if err := validate.ID(id, "project"); err != nil {
		return model.Project{}, err
	}

	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return model.Project{}, err
	}

	if name != nil {
		if err := s.rules.ValidateProjectName(*name); err != nil {
			return model.Project{}, err
		}
		exists, err := s.store.ProjectNameExists(ctx, *name, id)
		if err != nil {
			return model.Project{}, err
		}
		if exists {
			return model.Project{}, fmt.Errorf("%w: %q", apperr.ErrDuplicateName, strings.TrimSpace(*name))
		}
		p.Name = strings.TrimSpace(*name)
	}
	if description != nil {
		if err := s.rules.ValidateProjectDescription(*description); err != nil {
			return model.Project{}, err
		}
		p.Description = strings.TrimSpace(*description)
	}

	p.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateProject(ctx, p); err != nil {
		return model.Project{}, err
	}
	return p, nil
}

// Delete removes a project and, transactionally, all of its tasks.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	if err := validate.ID(id, "project"); err != nil {
		return err
	}
	if err := s.store.DeleteProject(ctx, id); err != nil {
		return err
	}
	logger.Info("project deleted", logger.F("id", id))
	return nil
}

// Search returns projects whose name or description contains the query,
// case-insensitively.
func (s *ProjectService) Search(ctx context.Context, query string) ([]model.Project, error) {
	return s.store.SearchProjects(ctx, query)
}

// Count returns the number of live projects.
func (s *ProjectService) Count(ctx context.Context) (int, error) {
	return s.store.CountProjects(ctx)
}
