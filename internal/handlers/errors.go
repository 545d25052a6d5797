package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/musblossom/backend/internal/services"
)

// httpError maps service error kinds to transport responses. Anything not
// matched is a storage failure: the transaction already rolled back, so the
// client may retry.
func httpError(err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrSelfFollow), errors.Is(err, services.ErrInvalidParent):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusServiceUnavailable, "temporary failure, please retry")
	}
}
