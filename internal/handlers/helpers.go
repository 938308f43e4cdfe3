package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/govind-gojiya/blog-backend/internal/models"
	"github.com/govind-gojiya/blog-backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the authenticated viewer's ID, or 0 for
// anonymous requests
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}

// pageParam reads the page query parameter, clamped to 1
func pageParam(c echo.Context) int {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	return page
}

// uintParam parses a numeric path parameter
func uintParam(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(v), nil
}

// uintQuery parses a numeric query parameter, 0 when absent or malformed
func uintQuery(c echo.Context, name string) uint {
	v, _ := strconv.ParseUint(c.QueryParam(name), 10, 32)
	return uint(v)
}

// paginationMeta builds the page-number pagination envelope
func paginationMeta(page, pageSize int, totalItems int64) echo.Map {
	totalPages := int(math.Ceil(float64(totalItems) / float64(pageSize)))
	return echo.Map{
		"currentPage":     page,
		"totalPages":      totalPages,
		"totalItems":      totalItems,
		"itemsPerPage":    pageSize,
		"hasNextPage":     page < totalPages,
		"hasPreviousPage": page > 1,
	}
}

// requireModerator gates moderator-only operations
func requireModerator(c echo.Context, userRepo repositories.UserRepository) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := userRepo.GetUserByID(viewerID)
	if err != nil {
		return repoError(err)
	}
	if !user.IsModerator() {
		return echo.NewHTTPError(http.StatusForbidden, "Moderator role required")
	}
	return nil
}

// repoError translates repository sentinel errors into HTTP errors
func repoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, repositories.ErrSelfFollow),
		errors.Is(err, repositories.ErrAlreadyFollowing),
		errors.Is(err, repositories.ErrAlreadySaved),
		errors.Is(err, repositories.ErrAlreadyTagged),
		errors.Is(err, repositories.ErrAlreadyRequested),
		errors.Is(err, repositories.ErrCollectionInUse):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, repositories.ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
