package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/musblossom/backend/internal/repositories"
	"github.com/musblossom/backend/internal/services"
	"gorm.io/gorm"
)

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	userRepository repositories.UserRepository
	engagement     *services.EngagementService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, engagement *services.EngagementService) *UserHandler {
	return &UserHandler{userRepository: userRepo, engagement: engagement}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/:id", h.GetUser)
	g.DELETE("/users/me", h.DeleteCurrentUser)
}

// GetUser returns a user profile with its cached follow aggregates
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	user, err := h.userRepository.GetUserByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, user)
}

// DeleteCurrentUser deletes the authenticated user and cascades over every
// edge and counter their activity touched.
func (h *UserHandler) DeleteCurrentUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.engagement.DeleteUserCascade(currentUserID); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
