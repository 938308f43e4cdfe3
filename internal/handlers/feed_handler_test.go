package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/govind-gojiya/blog-backend/internal/models"
	"github.com/govind-gojiya/blog-backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFeedHandler(db *gorm.DB) *FeedHandler {
	return NewFeedHandler(
		repositories.NewPostgresPostRepository(db),
		repositories.NewPostgresSavedPostRepository(db),
		repositories.NewPostgresHitRepository(db, 10*time.Minute),
	)
}

type feedPayload struct {
	Success bool `json:"success"`
	Data    struct {
		Posts []PostResponse `json:"posts"`
	} `json:"data"`
	Meta struct {
		CurrentPage int   `json:"currentPage"`
		TotalItems  int64 `json:"totalItems"`
		HasNextPage bool  `json:"hasNextPage"`
	} `json:"meta"`
}

func decodeFeed(t *testing.T, body []byte) feedPayload {
	t.Helper()
	var payload feedPayload
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload
}

func TestPopularFeedOrdering(t *testing.T) {
	db := newTestDB(t, "h_popular")
	h := newFeedHandler(db)
	e := newTestEcho()

	alice := seedUser(t, db, "alice")
	coll := seedCollection(t, db, "tech")

	now := time.Now()
	strong := seedPost(t, db, alice, coll, "strong", false, now) // ratio 0.5
	weak := seedPost(t, db, alice, coll, "weak", false, now.Add(time.Minute))
	unseen := seedPost(t, db, alice, coll, "unseen", false, now.Add(2*time.Minute))

	require.NoError(t, db.Model(strong).Update("likes_count", 5).Error)
	require.NoError(t, db.Model(weak).Update("likes_count", 1).Error)

	for i := 0; i < 10; i++ {
		require.NoError(t, db.Create(&models.PostHit{PostID: strong.ID, VisitorKey: "v" + string(rune('a'+i)), CreatedAt: now}).Error)
		require.NoError(t, db.Create(&models.PostHit{PostID: weak.ID, VisitorKey: "v" + string(rune('a'+i)), CreatedAt: now}).Error)
	}

	c, rec := newRequestContext(e, http.MethodGet, "/api/v1/feed/popular", "", 0)
	require.NoError(t, h.GetPopularFeed(c))
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeFeed(t, rec.Body.Bytes())
	require.Len(t, payload.Data.Posts, 3)
	assert.Equal(t, strong.ID, payload.Data.Posts[0].ID) // 0.5 ratio
	assert.Equal(t, weak.ID, payload.Data.Posts[1].ID)   // 0.1 ratio
	assert.Equal(t, unseen.ID, payload.Data.Posts[2].ID) // no views, ratio 0

	assert.Equal(t, int64(10), payload.Data.Posts[0].Views)
}

func TestPopularFeedHidesPrivateFromAnonymous(t *testing.T) {
	db := newTestDB(t, "h_popular_vis")
	h := newFeedHandler(db)
	e := newTestEcho()

	alice := seedUser(t, db, "alice")
	coll := seedCollection(t, db, "tech")
	seedPost(t, db, alice, coll, "public", false, time.Now())
	seedPost(t, db, alice, coll, "private", true, time.Now())

	c, rec := newRequestContext(e, http.MethodGet, "/api/v1/feed/popular", "", 0)
	require.NoError(t, h.GetPopularFeed(c))

	payload := decodeFeed(t, rec.Body.Bytes())
	require.Len(t, payload.Data.Posts, 1)
	assert.Equal(t, "public", payload.Data.Posts[0].Title)

	// The owner sees both.
	c, rec = newRequestContext(e, http.MethodGet, "/api/v1/feed/popular", "", alice.ID)
	require.NoError(t, h.GetPopularFeed(c))
	payload = decodeFeed(t, rec.Body.Bytes())
	assert.Len(t, payload.Data.Posts, 2)
}

func TestPopularFeedPageSize(t *testing.T) {
	db := newTestDB(t, "h_popular_page")
	h := newFeedHandler(db)
	e := newTestEcho()

	alice := seedUser(t, db, "alice")
	coll := seedCollection(t, db, "tech")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 6; i++ {
		seedPost(t, db, alice, coll, "post", false, base.Add(time.Duration(i)*time.Minute))
	}

	c, rec := newRequestContext(e, http.MethodGet, "/api/v1/feed/popular", "", 0)
	require.NoError(t, h.GetPopularFeed(c))

	payload := decodeFeed(t, rec.Body.Bytes())
	assert.Len(t, payload.Data.Posts, 5)
	assert.Equal(t, int64(6), payload.Meta.TotalItems)
	assert.True(t, payload.Meta.HasNextPage)

	c, rec = newRequestContext(e, http.MethodGet, "/api/v1/feed/popular?page=2", "", 0)
	require.NoError(t, h.GetPopularFeed(c))
	payload = decodeFeed(t, rec.Body.Bytes())
	assert.Len(t, payload.Data.Posts, 1)
}

func TestOwnFeedRequiresAuth(t *testing.T) {
	db := newTestDB(t, "h_own_auth")
	h := newFeedHandler(db)
	e := newTestEcho()

	c, _ := newRequestContext(e, http.MethodGet, "/api/v1/feed/own", "", 0)
	err := h.GetOwnFeed(c)
	assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))
}

func TestOwnFeedStatusFilter(t *testing.T) {
	db := newTestDB(t, "h_own_filter")
	h := newFeedHandler(db)
	e := newTestEcho()

	alice := seedUser(t, db, "alice")
	coll := seedCollection(t, db, "tech")

	now := time.Now()
	seedPost(t, db, alice, coll, "draft", true, now)
	pending := seedPost(t, db, alice, coll, "pending", true, now.Add(time.Minute))
	require.NoError(t, db.Model(pending).Update("status", models.StatusRequested).Error)

	c, rec := newRequestContext(e, http.MethodGet, "/api/v1/feed/own?status=1", "", alice.ID)
	require.NoError(t, h.GetOwnFeed(c))

	payload := decodeFeed(t, rec.Body.Bytes())
	require.Len(t, payload.Data.Posts, 1)
	assert.Equal(t, pending.ID, payload.Data.Posts[0].ID)
}

func TestSavedFeedAnnotations(t *testing.T) {
	db := newTestDB(t, "h_saved_feed")
	h := newFeedHandler(db)
	e := newTestEcho()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	coll := seedCollection(t, db, "tech")
	post := seedPost(t, db, bob, coll, "bookmarked", false, time.Now())

	savedRepo := repositories.NewPostgresSavedPostRepository(db)
	require.NoError(t, savedRepo.SavePost(alice.ID, post.ID))

	postRepo := repositories.NewPostgresPostRepository(db)
	_, err := postRepo.ToggleLike(post.ID, alice.ID)
	require.NoError(t, err)

	c, rec := newRequestContext(e, http.MethodGet, "/api/v1/feed/saved", "", alice.ID)
	require.NoError(t, h.GetSavedFeed(c))

	payload := decodeFeed(t, rec.Body.Bytes())
	require.Len(t, payload.Data.Posts, 1)
	got := payload.Data.Posts[0]
	assert.True(t, got.IsSaved)
	assert.True(t, got.LikedStatus)
	assert.Equal(t, 1, got.LikesCount)
	assert.Equal(t, "tech", got.CollectionName)
	assert.Equal(t, "bob", got.Author.Username)
}
