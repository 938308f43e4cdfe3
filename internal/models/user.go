package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model     `json:"-"`
	ID             uint   `json:"id" gorm:"primaryKey"`
	Username       string `json:"username"`
	Email          string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Password       string `json:"-"`                        // Store hashed password, ignore for JSON serialization
	ProfilePicture string `json:"profile_picture,omitempty"`
	Role           string `json:"role,omitempty" gorm:"size:50"` // Empty = regular user, non-empty = moderator role
	FirebaseUID    string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`
}

// UserCompact is the projection of a user embedded in post and follow payloads
type UserCompact struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// ToCompact converts a User to its compact projection
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:             u.ID,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
	}
}

// IsModerator reports whether the user holds any moderation role
func (u *User) IsModerator() bool {
	return u.Role != ""
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	Username       string `json:"username,omitempty" validate:"omitempty,min=2,max=50"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
