package repositories

import (
	"github.com/govind-gojiya/blog-backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	Follow(followerID, followingID uint) (*models.Follow, error)
	Unfollow(followerID, followingID uint) error
	IsFollowing(followerID, followingID uint) (bool, error)
	ListFollowing(userID uint, page, pageSize int) ([]models.User, int64, error)
	ListFollowers(userID uint, page, pageSize int) ([]models.User, int64, error)
	GetFollowersCount(userID uint) (int64, error)
	GetFollowingCount(userID uint) (int64, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// Follow creates a follow edge. Self-follows and duplicate edges are
// conflicts, not storage errors.
func (r *PostgresFollowRepository) Follow(followerID, followingID uint) (*models.Follow, error) {
	if followerID == followingID {
		return nil, ErrSelfFollow
	}

	var target models.User
	if err := r.db.First(&target, followingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	exists, err := r.IsFollowing(followerID, followingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyFollowing
	}

	follow := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := r.db.Create(follow).Error; err != nil {
		return nil, err
	}
	return follow, nil
}

// Unfollow removes the follower->following edge. The edge is addressed by
// both parties, so a caller can only ever delete an edge it belongs to.
func (r *PostgresFollowRepository) Unfollow(followerID, followingID uint) error {
	res := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsFollowing reports whether the follower->following edge exists
func (r *PostgresFollowRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).Where("follower_id = ? AND following_id = ?", followerID, followingID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListFollowing returns a page of the users the given user follows
func (r *PostgresFollowRepository) ListFollowing(userID uint, page, pageSize int) ([]models.User, int64, error) {
	sub := r.db.Table("follows").Select("following_id").Where("follower_id = ?", userID)
	return r.listUsersIn(sub, page, pageSize)
}

// ListFollowers returns a page of the users following the given user
func (r *PostgresFollowRepository) ListFollowers(userID uint, page, pageSize int) ([]models.User, int64, error) {
	sub := r.db.Table("follows").Select("follower_id").Where("following_id = ?", userID)
	return r.listUsersIn(sub, page, pageSize)
}

func (r *PostgresFollowRepository) listUsersIn(sub *gorm.DB, page, pageSize int) ([]models.User, int64, error) {
	var total int64
	if err := r.db.Model(&models.User{}).Where("id IN (?)", sub).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}

	var users []models.User
	err := r.db.Where("id IN (?)", sub).
		Order("id").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// GetFollowersCount returns the number of users following the given user
func (r *PostgresFollowRepository) GetFollowersCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

// GetFollowingCount returns the number of users the given user follows
func (r *PostgresFollowRepository) GetFollowingCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}
