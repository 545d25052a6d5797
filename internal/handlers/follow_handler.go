package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/musblossom/backend/internal/services"
)

// FollowHandler handles follow-graph HTTP requests
type FollowHandler struct {
	engagement *services.EngagementService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(engagement *services.EngagementService) *FollowHandler {
	return &FollowHandler{engagement: engagement}
}

// RegisterFollowRoutes registers follow and friend routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/friends/:id/follow", h.ToggleFollow)
	g.GET("/friends", h.GetFriends)
	g.GET("/friends/requests", h.GetFriendRequests)
}

// ToggleFollow follows the target user, or unfollows if already following
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	action, err := h.engagement.ToggleFollow(currentUserID, uint(targetID))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "action": action})
}

// GetFriends returns the mutual-follow set of the current user
func (h *FollowHandler) GetFriends(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	result, err := h.engagement.FriendsOf(currentUserID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"friends": result.Friends,
		"stats": echo.Map{
			"friends_count":   result.FriendsCount,
			"following_count": result.FollowingCount,
			"followers_count": result.FollowersCount,
		},
	})
}

// GetFriendRequests returns followers the current user has not followed back
func (h *FollowHandler) GetFriendRequests(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requests, err := h.engagement.PendingFollowRequests(currentUserID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "requests": requests})
}
