package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/govind-gojiya/blog-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHitDeduplicates(t *testing.T) {
	db := newTestDB(t, "hits")
	repo := NewPostgresHitRepository(db, 10*time.Minute)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	coll := seedCollection(t, db, "tech")
	post := seedPost(t, db, alice, coll, "viewed", false, time.Now())

	counted, err := repo.RecordHit(ctx, post.ID, "user:1")
	require.NoError(t, err)
	assert.True(t, counted)

	counted, err = repo.RecordHit(ctx, post.ID, "user:1")
	require.NoError(t, err)
	assert.False(t, counted)

	// A different visitor on the same post is a new view.
	counted, err = repo.RecordHit(ctx, post.ID, "user:2")
	require.NoError(t, err)
	assert.True(t, counted)

	views, err := repo.GetViews(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), views)
}

func TestRecordHitWindowExpiry(t *testing.T) {
	db := newTestDB(t, "hits_window")
	repo := NewPostgresHitRepository(db, 10*time.Minute)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	coll := seedCollection(t, db, "tech")
	post := seedPost(t, db, alice, coll, "viewed", false, time.Now())

	stale := models.PostHit{
		PostID:     post.ID,
		VisitorKey: "user:1",
		CreatedAt:  time.Now().Add(-11 * time.Minute),
	}
	require.NoError(t, db.Create(&stale).Error)

	counted, err := repo.RecordHit(ctx, post.ID, "user:1")
	require.NoError(t, err)
	assert.True(t, counted)

	views, err := repo.GetViews(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), views)
}

func TestGetViewsForPosts(t *testing.T) {
	db := newTestDB(t, "hits_bulk")
	repo := NewPostgresHitRepository(db, 10*time.Minute)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	coll := seedCollection(t, db, "tech")

	now := time.Now()
	p1 := seedPost(t, db, alice, coll, "one", false, now)
	p2 := seedPost(t, db, alice, coll, "two", false, now.Add(time.Minute))
	p3 := seedPost(t, db, alice, coll, "three", false, now.Add(2*time.Minute))

	_, err := repo.RecordHit(ctx, p1.ID, "user:1")
	require.NoError(t, err)
	_, err = repo.RecordHit(ctx, p1.ID, "user:2")
	require.NoError(t, err)
	_, err = repo.RecordHit(ctx, p2.ID, "user:1")
	require.NoError(t, err)

	views, err := repo.GetViewsForPosts(ctx, []uint{p1.ID, p2.ID, p3.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), views[p1.ID])
	assert.Equal(t, int64(1), views[p2.ID])

	_, tracked := views[p3.ID]
	assert.False(t, tracked) // unseen posts stay absent

	empty, err := repo.GetViewsForPosts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
