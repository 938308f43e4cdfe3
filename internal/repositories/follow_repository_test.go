package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollow(t *testing.T) {
	db := newTestDB(t, "follows")
	repo := NewPostgresFollowRepository(db)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	t.Run("self follow is a conflict", func(t *testing.T) {
		_, err := repo.Follow(alice.ID, alice.ID)
		assert.ErrorIs(t, err, ErrSelfFollow)
	})

	t.Run("following a missing user fails", func(t *testing.T) {
		_, err := repo.Follow(alice.ID, 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("follow then duplicate", func(t *testing.T) {
		follow, err := repo.Follow(alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, follow.FollowerID)
		assert.Equal(t, bob.ID, follow.FollowingID)

		_, err = repo.Follow(alice.ID, bob.ID)
		assert.ErrorIs(t, err, ErrAlreadyFollowing)
	})

	t.Run("edge is directional", func(t *testing.T) {
		following, err := repo.IsFollowing(alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, following)

		reverse, err := repo.IsFollowing(bob.ID, alice.ID)
		require.NoError(t, err)
		assert.False(t, reverse)
	})
}

func TestUnfollow(t *testing.T) {
	db := newTestDB(t, "unfollows")
	repo := NewPostgresFollowRepository(db)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := repo.Follow(alice.ID, bob.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Unfollow(alice.ID, bob.ID))

	following, err := repo.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	assert.ErrorIs(t, repo.Unfollow(alice.ID, bob.ID), ErrNotFound)
}

func TestListFollowingAndFollowers(t *testing.T) {
	db := newTestDB(t, "follow_lists")
	repo := NewPostgresFollowRepository(db)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	_, err := repo.Follow(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = repo.Follow(alice.ID, carol.ID)
	require.NoError(t, err)
	_, err = repo.Follow(bob.ID, carol.ID)
	require.NoError(t, err)

	following, total, err := repo.ListFollowing(alice.ID, 1, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, following, 2)
	assert.Equal(t, bob.ID, following[0].ID)
	assert.Equal(t, carol.ID, following[1].ID)

	followers, total, err := repo.ListFollowers(carol.ID, 1, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, followers, 2)
	assert.Equal(t, alice.ID, followers[0].ID)
	assert.Equal(t, bob.ID, followers[1].ID)

	count, err := repo.GetFollowersCount(carol.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.GetFollowingCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestListFollowingPagination(t *testing.T) {
	db := newTestDB(t, "follow_pagination")
	repo := NewPostgresFollowRepository(db)

	alice := seedUser(t, db, "alice")
	for i := 0; i < 3; i++ {
		target := seedUser(t, db, "target"+string(rune('a'+i)))
		_, err := repo.Follow(alice.ID, target.ID)
		require.NoError(t, err)
	}

	first, total, err := repo.ListFollowing(alice.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, first, 2)

	second, _, err := repo.ListFollowing(alice.ID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, second, 1)
}
