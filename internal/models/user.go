package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User represents a MusBlossom account. Follower/following totals are cached
// here and maintained in the same transaction as the follow edge they describe.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username" gorm:"size:50;uniqueIndex"`
	Email          string    `json:"email" gorm:"size:100;uniqueIndex"`
	Bio            string    `json:"bio,omitempty"`
	AvatarURL      string    `json:"avatar_url,omitempty" gorm:"size:500"`
	Location       string    `json:"location,omitempty" gorm:"size:100"`
	Website        string    `json:"website,omitempty" gorm:"size:200"`
	Genres         string    `json:"genres,omitempty" gorm:"size:1000"` // JSON-encoded list of genre names
	IsVerified     bool      `json:"is_verified"`
	HashedPassword string    `json:"-" gorm:"size:200"`
	FollowersCount int       `json:"followers_count"`
	FollowingCount int       `json:"following_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateUserRequest defines the request body for registering a user
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Bio      string `json:"bio,omitempty" validate:"omitempty,max=500"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
