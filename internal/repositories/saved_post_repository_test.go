package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavePost(t *testing.T) {
	db := newTestDB(t, "saves")
	repo := NewPostgresSavedPostRepository(db)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	coll := seedCollection(t, db, "tech")
	post := seedPost(t, db, bob, coll, "saveable", false, time.Now())

	require.NoError(t, repo.SavePost(alice.ID, post.ID))

	saved, err := repo.IsPostSaved(alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	assert.ErrorIs(t, repo.SavePost(alice.ID, post.ID), ErrAlreadySaved)

	// Saves are per user.
	saved, err = repo.IsPostSaved(bob.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestUnsavePost(t *testing.T) {
	db := newTestDB(t, "unsaves")
	repo := NewPostgresSavedPostRepository(db)

	alice := seedUser(t, db, "alice")
	coll := seedCollection(t, db, "tech")
	post := seedPost(t, db, alice, coll, "saveable", false, time.Now())

	assert.ErrorIs(t, repo.UnsavePost(alice.ID, post.ID), ErrNotFound)

	require.NoError(t, repo.SavePost(alice.ID, post.ID))
	require.NoError(t, repo.UnsavePost(alice.ID, post.ID))

	saved, err := repo.IsPostSaved(alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestGetSavedPostIDs(t *testing.T) {
	db := newTestDB(t, "saved_ids")
	repo := NewPostgresSavedPostRepository(db)

	alice := seedUser(t, db, "alice")
	coll := seedCollection(t, db, "tech")

	now := time.Now()
	p1 := seedPost(t, db, alice, coll, "one", false, now)
	p2 := seedPost(t, db, alice, coll, "two", false, now.Add(time.Minute))

	require.NoError(t, repo.SavePost(alice.ID, p2.ID))

	savedMap, err := repo.GetSavedPostIDs(alice.ID, []uint{p1.ID, p2.ID})
	require.NoError(t, err)
	assert.False(t, savedMap[p1.ID])
	assert.True(t, savedMap[p2.ID])

	empty, err := repo.GetSavedPostIDs(alice.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
