package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/logger"
)

// writeError maps the error taxonomy to HTTP statuses. Raw storage errors
// are logged and reported as a generic failure so internals never leak.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return c.JSON(http.StatusNotFound, errBody(err))
	case errors.Is(err, apperr.ErrDuplicateName):
		return c.JSON(http.StatusConflict, errBody(err))
	case errors.Is(err, apperr.ErrCapacityExceeded), apperr.IsValidation(err):
		return c.JSON(http.StatusBadRequest, errBody(err))
	default:
		logger.Error("request failed",
			logger.F("path", c.Path()), logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func errBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}

// parseID converts a path parameter to int64. A malformed value maps to the
// invalid-id error kind.
func parseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperr.ErrInvalidID
	}
	return id, nil
}
