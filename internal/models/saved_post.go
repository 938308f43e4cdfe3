package models

import "time"

// SavedPost represents a bookmarked post, unique per (user, post) pair
type SavedPost struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_post_save"`
	PostID    uint      `json:"post_id" gorm:"index;uniqueIndex:idx_user_post_save"`
	CreatedAt time.Time `json:"created_at"`
}
