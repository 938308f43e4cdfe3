package handlers

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/govind-gojiya/blog-backend/internal/models"
	"github.com/govind-gojiya/blog-backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// Fixed page sizes per feed; not client-configurable.
const (
	postPageSize    = 10
	popularPageSize = 5
	followPageSize  = 25
)

// FeedHandler handles the feed variants: popular, own, following, saved
type FeedHandler struct {
	postRepository      repositories.PostRepository
	savedPostRepository repositories.SavedPostRepository
	hitRepository       repositories.HitRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	postRepo repositories.PostRepository,
	savedPostRepo repositories.SavedPostRepository,
	hitRepo repositories.HitRepository,
) *FeedHandler {
	return &FeedHandler{
		postRepository:      postRepo,
		savedPostRepository: savedPostRepo,
		hitRepository:       hitRepo,
	}
}

// RegisterFeedRoutes registers feed routes. The popular feed serves
// anonymous viewers too.
func (h *FeedHandler) RegisterFeedRoutes(public, protected *echo.Group) {
	public.GET("/feed/popular", h.GetPopularFeed)
	protected.GET("/feed/own", h.GetOwnFeed)
	protected.GET("/feed/following", h.GetFollowingFeed)
	protected.GET("/feed/saved", h.GetSavedFeed)
}

// GetPopularFeed ranks visible posts by like-to-view ratio. The ratio is
// recomputed from the authoritative counters on every request; posts with no
// recorded views rank at ratio zero. Ties order by creation time, newest
// first.
func (h *FeedHandler) GetPopularFeed(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	page := pageParam(c)

	posts, err := h.postRepository.ListVisiblePosts(viewerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}
	viewsMap, err := h.hitRepository.GetViewsForPosts(c.Request().Context(), postIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	ratio := func(p models.Post) float64 {
		views := viewsMap[p.ID]
		if views == 0 {
			return 0
		}
		return float64(p.LikesCount) / float64(views)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		ri, rj := ratio(posts[i]), ratio(posts[j])
		if ri != rj {
			return ri > rj
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	total := int64(len(posts))
	start := (page - 1) * popularPageSize
	if start > len(posts) {
		start = len(posts)
	}
	end := start + popularPageSize
	if end > len(posts) {
		end = len(posts)
	}

	responses, err := annotatePosts(c.Request().Context(), posts[start:end], viewerID, h.postRepository, h.savedPostRepository, h.hitRepository)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": responses},
		"meta":    paginationMeta(page, popularPageSize, total),
	})
}

// GetOwnFeed returns the viewer's own posts, every status and privacy state
// included, filterable by collection, status and privacy
func (h *FeedHandler) GetOwnFeed(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	page := pageParam(c)

	opts := repositories.PostQueryOptions{
		ViewerID:     viewerID,
		Search:       c.QueryParam("search"),
		CollectionID: uintQuery(c, "collection"),
		Page:         page,
		PageSize:     postPageSize,
	}
	if raw := c.QueryParam("status"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			status := models.PostStatus(n)
			opts.Status = &status
		}
	}
	if raw := c.QueryParam("is_private"); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			opts.IsPrivate = &b
		}
	}

	posts, total, err := h.postRepository.ListOwnPosts(opts)
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

// GetFollowingFeed returns public posts by users the viewer follows
func (h *FeedHandler) GetFollowingFeed(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	page := pageParam(c)

	opts := repositories.PostQueryOptions{
		ViewerID:     viewerID,
		Search:       c.QueryParam("search"),
		CollectionID: uintQuery(c, "collection"),
		Page:         page,
		PageSize:     postPageSize,
	}

	posts, total, err := h.postRepository.ListFollowingPosts(opts)
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

// GetSavedFeed returns the viewer's saved posts, newest save first
func (h *FeedHandler) GetSavedFeed(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	page := pageParam(c)

	opts := repositories.PostQueryOptions{
		ViewerID:     viewerID,
		CollectionID: uintQuery(c, "collection"),
		Page:         page,
		PageSize:     postPageSize,
	}

	posts, total, err := h.postRepository.ListSavedPosts(opts)
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
