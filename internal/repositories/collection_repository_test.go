package repositories

import (
	"testing"
	"time"

	"github.com/govind-gojiya/blog-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionCRUD(t *testing.T) {
	db := newTestDB(t, "collections")
	repo := NewPostgresCollectionRepository(db)

	require.NoError(t, repo.CreateCollection(&models.Collection{Label: "travel"}))
	require.NoError(t, repo.CreateCollection(&models.Collection{Label: "cooking"}))

	collections, err := repo.ListCollections()
	require.NoError(t, err)
	require.Len(t, collections, 2)
	assert.Equal(t, "cooking", collections[0].Label)
	assert.Equal(t, "travel", collections[1].Label)

	got, err := repo.GetCollectionByID(collections[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "cooking", got.Label)

	_, err = repo.GetCollectionByID(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCollection(t *testing.T) {
	db := newTestDB(t, "collections_delete")
	repo := NewPostgresCollectionRepository(db)
	postRepo := NewPostgresPostRepository(db)

	alice := seedUser(t, db, "alice")
	empty := seedCollection(t, db, "empty")
	used := seedCollection(t, db, "used")
	post := seedPost(t, db, alice, used, "keeper", false, time.Now())

	t.Run("referenced collection is protected", func(t *testing.T) {
		assert.ErrorIs(t, repo.DeleteCollection(used.ID), ErrCollectionInUse)
	})

	t.Run("soft-deleted posts still protect", func(t *testing.T) {
		require.NoError(t, postRepo.DeletePost(post.ID))
		assert.ErrorIs(t, repo.DeleteCollection(used.ID), ErrCollectionInUse)
	})

	t.Run("unused collection deletes", func(t *testing.T) {
		require.NoError(t, repo.DeleteCollection(empty.ID))
		_, err := repo.GetCollectionByID(empty.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing collection", func(t *testing.T) {
		assert.ErrorIs(t, repo.DeleteCollection(9999), ErrNotFound)
	})
}
