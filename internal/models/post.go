package models

import (
	"time"

	"gorm.io/gorm"
)

// PostStatus tracks where a post sits in the publication flow
type PostStatus int

const (
	StatusNotRequested PostStatus = iota // default, never asked for public visibility
	StatusRequested                      // owner asked, waiting for moderation
	StatusApproved                       // moderator approved, post is public
	StatusDeclined                       // moderator declined, may be resubmitted
)

// Post represents a blog post. Posts start private and can only become
// public through the request/approve flow; see NormalizeForCreate,
// ApplyUpdate and Approve.
type Post struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Title        string         `json:"title" gorm:"size:255"`
	Description  string         `json:"description"`
	Content      string         `json:"content"` // opaque rich text, stored as-is
	Thumbnail    string         `json:"thumbnail,omitempty"`
	IsPrivate    bool           `json:"is_private" gorm:"default:true"`
	Status       PostStatus     `json:"status" gorm:"default:0"`
	OwnerID      uint           `json:"-" gorm:"index"`
	Owner        User           `json:"-"`
	CollectionID uint           `json:"collection_id" gorm:"index"`
	Collection   Collection     `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	LikesCount   int            `json:"likes_count" gorm:"default:0"`
	ApprovedAt   *time.Time     `json:"approved_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// PostChanges carries the editable fields of a post for ApplyUpdate.
type PostChanges struct {
	Title       string
	Description string
	Content     string
	Thumbnail   string
	IsPrivate   bool
}

// NormalizeForCreate enforces the creation rule: a post can never be born
// public. A creation attempt with is_private=false is stored private with a
// pending publication request instead.
func (p *Post) NormalizeForCreate() {
	if !p.IsPrivate {
		p.IsPrivate = true
		p.Status = StatusRequested
	}
}

// ApplyUpdate applies an owner edit. Editing a post that already holds or
// requested public standing revokes that standing; asking for public
// visibility directly is converted into a publication request.
func (p *Post) ApplyUpdate(ch PostChanges) {
	changed := p.Title != ch.Title ||
		p.Description != ch.Description ||
		p.Content != ch.Content ||
		p.Thumbnail != ch.Thumbnail ||
		p.IsPrivate != ch.IsPrivate

	p.Title = ch.Title
	p.Description = ch.Description
	p.Content = ch.Content
	p.Thumbnail = ch.Thumbnail
	p.IsPrivate = ch.IsPrivate

	if !changed {
		return
	}

	if ch.IsPrivate {
		switch p.Status {
		case StatusApproved, StatusRequested, StatusDeclined:
			p.Status = StatusNotRequested
		}
		return
	}

	// Direct publication is disallowed: force private and queue a request.
	p.IsPrivate = true
	p.Status = StatusRequested
}

// MarkRequested records the owner's publication request. Callers must treat
// an already-Requested post as a conflict before calling this.
func (p *Post) MarkRequested() {
	p.Status = StatusRequested
}

// Approve is the moderator transition to public visibility. It keeps the
// invariant that an approved post is never private.
func (p *Post) Approve(now time.Time) {
	p.Status = StatusApproved
	p.IsPrivate = false
	p.ApprovedAt = &now
}

// Decline rejects a publication request. Declined posts may request again.
func (p *Post) Decline() {
	p.Status = StatusDeclined
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title        string `json:"title" validate:"required,min=1,max=255"`
	Description  string `json:"description" validate:"required"`
	Content      string `json:"content" validate:"required"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	IsPrivate    *bool  `json:"is_private,omitempty"`
	CollectionID uint   `json:"collection_id" validate:"required"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"required"`
	Content     string `json:"content" validate:"required"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	IsPrivate   *bool  `json:"is_private,omitempty"`
}
