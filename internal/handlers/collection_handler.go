package handlers

import (
	"net/http"

	"github.com/govind-gojiya/blog-backend/internal/models"
	"github.com/govind-gojiya/blog-backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CollectionHandler handles collection HTTP requests
type CollectionHandler struct {
	collectionRepository repositories.CollectionRepository
	userRepository       repositories.UserRepository
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(collectionRepo repositories.CollectionRepository, userRepo repositories.UserRepository) *CollectionHandler {
	return &CollectionHandler{
		collectionRepository: collectionRepo,
		userRepository:       userRepo,
	}
}

// RegisterCollectionRoutes registers collection routes
func (h *CollectionHandler) RegisterCollectionRoutes(public, protected *echo.Group) {
	public.GET("/collections", h.ListCollections)
	protected.POST("/collections", h.CreateCollection)
	protected.DELETE("/collections/:id", h.DeleteCollection)
}

// ListCollections returns all collections in label order
func (h *CollectionHandler) ListCollections(c echo.Context) error {
	collections, err := h.collectionRepository.ListCollections()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"collections": collections})
}

// CreateCollection creates a new collection (moderator only)
func (h *CollectionHandler) CreateCollection(c echo.Context) error {
	if err := requireModerator(c, h.userRepository); err != nil {
		return err
	}

	var req models.CreateCollectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	collection := &models.Collection{Label: req.Label}
	if err := h.collectionRepository.CreateCollection(collection); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, collection)
}

// DeleteCollection deletes a collection; fails with a conflict while posts
// still reference it (moderator only)
func (h *CollectionHandler) DeleteCollection(c echo.Context) error {
	if err := requireModerator(c, h.userRepository); err != nil {
		return err
	}

	collectionID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.collectionRepository.DeleteCollection(collectionID); err != nil {
		return repoError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
