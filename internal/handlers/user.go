package handlers

import (
	"net/http"

	"github.com/govind-gojiya/blog-backend/internal/models"
	"github.com/govind-gojiya/blog-backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, followRepo repositories.FollowRepository) *UserHandler {
	return &UserHandler{
		userRepository:   userRepo,
		followRepository: followRepo,
	}
}

// RegisterProfileRoutes registers user profile routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/me", h.GetProfile)
	g.PUT("/users/me", h.UpdateProfile)
	g.GET("/users/:id", h.GetUser)
}

// GetProfile returns the authenticated user's profile with graph counts
func (h *UserHandler) GetProfile(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByID(viewerID)
	if err != nil {
		return repoError(err)
	}

	followers, _ := h.followRepository.GetFollowersCount(viewerID)
	following, _ := h.followRepository.GetFollowingCount(viewerID)

	return c.JSON(http.StatusOK, echo.Map{
		"user":            user,
		"followers_count": followers,
		"following_count": following,
	})
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(viewerID)
	if err != nil {
		return repoError(err)
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.ProfilePicture != "" {
		user.ProfilePicture = req.ProfilePicture
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, user)
}

// GetUser returns another user's compact profile
func (h *UserHandler) GetUser(c echo.Context) error {
	userID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return repoError(err)
	}

	return c.JSON(http.StatusOK, user.ToCompact())
}
