package models

import "time"

// PostHit records a single counted view of a post. The view count of a post
// is the number of hit rows it has; dedup is enforced at write time (at most
// one row per visitor key within the active window).
type PostHit struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PostID     uint      `json:"post_id" gorm:"index"`
	VisitorKey string    `json:"visitor_key" gorm:"size:100;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}
