package repositories

import (
	"github.com/govind-gojiya/blog-backend/internal/models"
	"gorm.io/gorm"
)

// SavedPostRepository defines the interface for saved post operations
type SavedPostRepository interface {
	SavePost(userID, postID uint) error
	UnsavePost(userID, postID uint) error
	IsPostSaved(userID, postID uint) (bool, error)
	GetSavedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error)
}

// PostgresSavedPostRepository implements SavedPostRepository
type PostgresSavedPostRepository struct {
	db *gorm.DB
}

func NewPostgresSavedPostRepository(db *gorm.DB) *PostgresSavedPostRepository {
	return &PostgresSavedPostRepository{db: db}
}

// SavePost bookmarks a post for a user. Saving twice is a conflict.
func (r *PostgresSavedPostRepository) SavePost(userID, postID uint) error {
	saved, err := r.IsPostSaved(userID, postID)
	if err != nil {
		return err
	}
	if saved {
		return ErrAlreadySaved
	}
	return r.db.Create(&models.SavedPost{UserID: userID, PostID: postID}).Error
}

// UnsavePost removes a bookmark
func (r *PostgresSavedPostRepository) UnsavePost(userID, postID uint) error {
	res := r.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.SavedPost{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsPostSaved checks whether the user bookmarked the post
func (r *PostgresSavedPostRepository) IsPostSaved(userID, postID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.SavedPost{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	return count > 0, err
}

// GetSavedPostIDs returns which of the given posts the user has saved
func (r *PostgresSavedPostRepository) GetSavedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var saved []models.SavedPost
	err := r.db.Where("user_id = ? AND post_id IN ?", userID, postIDs).Find(&saved).Error
	if err != nil {
		return nil, err
	}
	for _, s := range saved {
		result[s.PostID] = true
	}
	return result, nil
}
