package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/service"
)

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	Status      string `json:"status"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
	Status      *string `json:"status"`
}

// handleListTasks returns a project's tasks, optionally filtered by status.
func (s *Server) handleListTasks(c echo.Context) error {
	projectID, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	ctx := c.Request().Context()
	var tasks []model.Task
	if status := c.QueryParam("status"); status != "" {
		tasks, err = s.tasks.ListByStatus(ctx, projectID, model.Status(status))
	} else {
		tasks, err = s.tasks.ListByProject(ctx, projectID)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"tasks": tasks,
		"total": len(tasks),
	})
}

// handleCreateTask creates a task under a project.
func (s *Server) handleCreateTask(c echo.Context) error {
	projectID, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	task, err := s.tasks.Create(c.Request().Context(), projectID,
		req.Title, req.Description, req.Deadline, model.Status(req.Status))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

// handleGetTask returns a single task by id.
func (s *Server) handleGetTask(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	task, err := s.tasks.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

// handleUpdateTask applies a partial update to a task.
func (s *Server) handleUpdateTask(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	patch := service.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	}
	if req.Status != nil {
		status := model.Status(*req.Status)
		patch.Status = &status
	}

	task, err := s.tasks.Update(c.Request().Context(), id, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

// handleMarkTaskDone transitions a task to done.
func (s *Server) handleMarkTaskDone(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	task, err := s.tasks.MarkDone(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

// handleDeleteTask removes a task from its project.
func (s *Server) handleDeleteTask(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := s.tasks.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// handleSearchTasks matches a project's tasks by title or description.
func (s *Server) handleSearchTasks(c echo.Context) error {
	projectID, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	tasks, err := s.tasks.Search(c.Request().Context(), projectID, c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"tasks": tasks,
		"total": len(tasks),
	})
}

// handleOverdueTasks returns overdue tasks, optionally scoped to a project
// via the project_id query parameter.
func (s *Server) handleOverdueTasks(c echo.Context) error {
	var projectID *int64
	if raw := c.QueryParam("project_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid project_id"})
		}
		projectID = &id
	}

	tasks, err := s.tasks.Overdue(c.Request().Context(), projectID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"tasks": tasks,
		"total": len(tasks),
	})
}
