package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/govind-gojiya/blog-backend/internal/models"
	"github.com/govind-gojiya/blog-backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	postRepository       repositories.PostRepository
	collectionRepository repositories.CollectionRepository
	userRepository       repositories.UserRepository
	savedPostRepository  repositories.SavedPostRepository
	tagRepository        repositories.TagRepository
	hitRepository        repositories.HitRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	collectionRepo repositories.CollectionRepository,
	userRepo repositories.UserRepository,
	savedPostRepo repositories.SavedPostRepository,
	tagRepo repositories.TagRepository,
	hitRepo repositories.HitRepository,
) *PostHandler {
	return &PostHandler{
		postRepository:       postRepo,
		collectionRepository: collectionRepo,
		userRepository:       userRepo,
		savedPostRepository:  savedPostRepo,
		tagRepository:        tagRepo,
		hitRepository:        hitRepo,
	}
}

// RegisterPostRoutes registers post-related routes. Read endpoints serve
// anonymous viewers too, so they go on the public group.
func (h *PostHandler) RegisterPostRoutes(public, protected *echo.Group) {
	public.GET("/posts", h.ListPosts)
	public.GET("/posts/:id", h.GetPost)
	public.GET("/posts/:id/tags", h.ListPostTags)

	protected.POST("/posts", h.CreatePost)
	protected.PUT("/posts/:id", h.UpdatePost)
	protected.DELETE("/posts/:id", h.DeletePost)
	protected.POST("/posts/:id/like", h.ToggleLike)
	protected.POST("/posts/:id/save", h.SavePost)
	protected.DELETE("/posts/:id/save", h.UnsavePost)
	protected.POST("/posts/:id/request-public", h.RequestToPublic)
	protected.POST("/posts/:id/approve", h.ApprovePost)
	protected.POST("/posts/:id/decline", h.DeclinePost)
	protected.POST("/posts/:id/tags", h.TagPost)
	protected.DELETE("/posts/:id/tags/:label", h.UntagPost)
}

// PostResponse is a post with its computed, viewer-relative fields
type PostResponse struct {
	models.Post
	Author         models.UserCompact `json:"owner"`
	CollectionName string             `json:"collection_name"`
	Views          int64              `json:"views"`
	LikedStatus    bool               `json:"liked_status"`
	IsSaved        bool               `json:"is_saved"`
	Tags           []models.Tag       `json:"tags,omitempty"`
}

func newPostResponse(p models.Post, views int64, liked, saved bool) PostResponse {
	return PostResponse{
		Post:           p,
		Author:         p.Owner.ToCompact(),
		CollectionName: p.Collection.Label,
		Views:          views,
		LikedStatus:    liked,
		IsSaved:        saved,
	}
}

// annotatePosts attaches the derived engagement fields to a post set. The
// fields are recomputed from the authoritative counters on every request.
func annotatePosts(
	ctx context.Context,
	posts []models.Post,
	viewerID uint,
	postRepo repositories.PostRepository,
	savedPostRepo repositories.SavedPostRepository,
	hitRepo repositories.HitRepository,
) ([]PostResponse, error) {
	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	viewsMap, err := hitRepo.GetViewsForPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	likedMap := make(map[uint]bool)
	savedMap := make(map[uint]bool)
	if viewerID > 0 {
		likedMap, err = postRepo.GetLikedPostIDs(viewerID, postIDs)
		if err != nil {
			return nil, err
		}
		savedMap, err = savedPostRepo.GetSavedPostIDs(viewerID, postIDs)
		if err != nil {
			return nil, err
		}
	}

	responses := make([]PostResponse, len(posts))
	for i, p := range posts {
		responses[i] = newPostResponse(p, viewsMap[p.ID], likedMap[p.ID], savedMap[p.ID])
	}
	return responses, nil
}

// ListPosts returns the global feed: visible posts, searchable and
// filterable by collection
func (h *PostHandler) ListPosts(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	page := pageParam(c)

	opts := repositories.PostQueryOptions{
		ViewerID:     viewerID,
		Search:       c.QueryParam("search"),
		CollectionID: uintQuery(c, "collection"),
		Page:         page,
		PageSize:     postPageSize,
	}

	posts, total, err := h.postRepository.ListPosts(opts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	responses, err := annotatePosts(c.Request().Context(), posts, viewerID, h.postRepository, h.savedPostRepository, h.hitRepository)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": responses},
		"meta":    paginationMeta(page, postPageSize, total),
	})
}

// CreatePost creates a new post for the authenticated user
func (h *PostHandler) CreatePost(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.collectionRepository.GetCollectionByID(req.CollectionID); err != nil {
		return repoError(err)
	}

	isPrivate := true
	if req.IsPrivate != nil {
		isPrivate = *req.IsPrivate
	}

	post := &models.Post{
		Title:        req.Title,
		Description:  req.Description,
		Content:      req.Content,
		Thumbnail:    req.Thumbnail,
		IsPrivate:    isPrivate,
		OwnerID:      viewerID,
		CollectionID: req.CollectionID,
	}
	post.NormalizeForCreate()

	if err := h.postRepository.CreatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	created, err := h.postRepository.GetPostByID(post.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, newPostResponse(*created, 0, false, false))
}

// GetPost returns a single post with its engagement fields, counting the
// view if the visitor was not counted recently
func (h *PostHandler) GetPost(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	postID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetVisiblePostByID(postID, viewerID)
	if err != nil {
		return repoError(err)
	}

	ctx := c.Request().Context()
	if _, err := h.hitRepository.RecordHit(ctx, postID, h.visitorKey(c, viewerID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views, err := h.hitRepository.GetViews(ctx, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	liked := false
	saved := false
	if viewerID > 0 {
		if liked, err = h.postRepository.HasUserLikedPost(postID, viewerID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if saved, err = h.savedPostRepository.IsPostSaved(viewerID, postID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	response := newPostResponse(*post, views, liked, saved)
	response.Tags, err = h.tagRepository.GetTagsFor(models.EntityKindPost, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, response)
}

// UpdatePost applies an owner edit, running the publication status rules
func (h *PostHandler) UpdatePost(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	postID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return repoError(err)
	}
	if post.OwnerID != viewerID {
		return repoError(repositories.ErrNotOwner)
	}

	changes := models.PostChanges{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Thumbnail:   post.Thumbnail,
		IsPrivate:   post.IsPrivate,
	}
	if req.Thumbnail != "" {
		changes.Thumbnail = req.Thumbnail
	}
	if req.IsPrivate != nil {
		changes.IsPrivate = *req.IsPrivate
	}
	post.ApplyUpdate(changes)

	if err := h.postRepository.UpdatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, newPostResponse(*post, 0, false, false))
}

// DeletePost removes a post owned by the authenticated user
func (h *PostHandler) DeletePost(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	postID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return repoError(err)
	}
	if post.OwnerID != viewerID {
		return repoError(repositories.ErrNotOwner)
	}

	if err := h.postRepository.DeletePost(postID); err != nil {
		return repoError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ToggleLike flips the viewer's like on a post
func (h *PostHandler) ToggleLike(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	postID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.postRepository.GetVisiblePostByID(postID, viewerID); err != nil {
		return repoError(err)
	}

	liked, err := h.postRepository.ToggleLike(postID, viewerID)
	if err != nil {
		return repoError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}

// SavePost bookmarks a post for the viewer
func (h *PostHandler) SavePost(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	postID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.postRepository.GetVisiblePostByID(postID, viewerID); err != nil {
		return repoError(err)
	}

	if err := h.savedPostRepository.SavePost(viewerID, postID); err != nil {
		return repoError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"saved": true}})
}

// UnsavePost removes a post from the viewer's bookmarks
func (h *PostHandler) UnsavePost(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	postID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.savedPostRepository.UnsavePost(viewerID, postID); err != nil {
		return repoError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"saved": false}})
}

// RequestToPublic registers the owner's publication request. Visibility
// stays private until a moderator approves.
func (h *PostHandler) RequestToPublic(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	postID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return repoError(err)
	}
	if post.OwnerID != viewerID {
		return repoError(repositories.ErrNotOwner)
	}

	if post.Status == models.StatusRequested {
		return repoError(repositories.ErrAlreadyRequested)
	}

	post.MarkRequested()
	if err := h.postRepository.UpdatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Request registered, we let you know soon."})
}

// ApprovePost is the moderator transition that makes a post public
func (h *PostHandler) ApprovePost(c echo.Context) error {
	if err := requireModerator(c, h.userRepository); err != nil {
		return err
	}

	postID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return repoError(err)
	}

	post.Approve(time.Now())
	if err := h.postRepository.UpdatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, newPostResponse(*post, 0, false, false))
}

// DeclinePost is the moderator transition that rejects a publication request
func (h *PostHandler) DeclinePost(c echo.Context) error {
	if err := requireModerator(c, h.userRepository); err != nil {
		return err
	}

	postID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return repoError(err)
	}

	post.Decline()
	if err := h.postRepository.UpdatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, newPostResponse(*post, 0, false, false))
}

// ListPostTags returns the tags attached to a post
func (h *PostHandler) ListPostTags(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	postID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.postRepository.GetVisiblePostByID(postID, viewerID); err != nil {
		return repoError(err)
	}

	tags, err := h.tagRepository.GetTagsFor(models.EntityKindPost, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"tags": tags})
}

// TagPost attaches a tag to a post owned by the viewer
func (h *PostHandler) TagPost(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	postID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var req models.TagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return repoError(err)
	}
	if post.OwnerID != viewerID {
		return repoError(repositories.ErrNotOwner)
	}

	tag, err := h.tagRepository.TagEntity(req.Label, models.EntityKindPost, postID)
	if err != nil {
		return repoError(err)
	}

	return c.JSON(http.StatusCreated, tag)
}

// UntagPost removes a tag from a post owned by the viewer
func (h *PostHandler) UntagPost(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	postID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return repoError(err)
	}
	if post.OwnerID != viewerID {
		return repoError(repositories.ErrNotOwner)
	}

	if err := h.tagRepository.UntagEntity(c.Param("label"), models.EntityKindPost, postID); err != nil {
		return repoError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// visitorKey identifies the requester for hit dedup: the user ID when
// authenticated, otherwise a per-browser cookie.
func (h *PostHandler) visitorKey(c echo.Context, viewerID uint) string {
	if viewerID > 0 {
		return fmt.Sprintf("user:%d", viewerID)
	}

	cookie, err := c.Cookie("visitor_id")
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     "visitor_id",
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	})
	return id
}
