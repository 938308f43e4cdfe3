package handlers

import (
	"errors"
	"net/http"

	"github.com/govind-gojiya/blog-backend/internal/models"
	"github.com/govind-gojiya/blog-backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles the social graph HTTP requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository) *FollowHandler {
	return &FollowHandler{followRepository: followRepo}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/follows", h.Follow)
	g.DELETE("/follows/:id", h.Unfollow)
	g.GET("/follows", h.ListFollowing)
	g.GET("/followers", h.ListFollowers)
	g.DELETE("/followers/:id", h.RemoveFollower)
}

// Follow creates a follow edge from the viewer to the target user
func (h *FollowHandler) Follow(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateFollowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	follow, err := h.followRepository.Follow(viewerID, req.FollowingID)
	if err != nil {
		// A nonexistent target is a malformed request, not a missing edge.
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "Provide a valid user id to follow")
		}
		return repoError(err)
	}

	return c.JSON(http.StatusCreated, follow)
}

// Unfollow removes the viewer's follow edge to the given user
func (h *FollowHandler) Unfollow(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.followRepository.Unfollow(viewerID, targetID); err != nil {
		return repoError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// RemoveFollower removes another user's follow edge to the viewer. The edge
// is addressed by both parties, so only a party to it can remove it.
func (h *FollowHandler) RemoveFollower(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	followerID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.followRepository.Unfollow(followerID, viewerID); err != nil {
		return repoError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ListFollowing lists the users the viewer follows
func (h *FollowHandler) ListFollowing(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	page := pageParam(c)

	users, total, err := h.followRepository.ListFollowing(viewerID, page, followPageSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"users": compactUsers(users)},
		"meta":    paginationMeta(page, followPageSize, total),
	})
}

// ListFollowers lists the users following the viewer
func (h *FollowHandler) ListFollowers(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	page := pageParam(c)

	users, total, err := h.followRepository.ListFollowers(viewerID, page, followPageSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"users": compactUsers(users)},
		"meta":    paginationMeta(page, followPageSize, total),
	})
}

func compactUsers(users []models.User) []models.UserCompact {
	compact := make([]models.UserCompact, len(users))
	for i := range users {
		compact[i] = users[i].ToCompact()
	}
	return compact
}
