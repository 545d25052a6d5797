package models

import "time"

// Post is a music share. LikesCount and CommentsCount are denormalized
// aggregates: they always equal the number of post_like/comment rows for the
// post at commit points, because every edge mutation updates them in the same
// transaction.
type Post struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"index"`
	Title         string    `json:"title" gorm:"size:200"`
	Content       string    `json:"content"`
	PostType      string    `json:"post_type" gorm:"size:50"`
	TrackID       string    `json:"track_id,omitempty" gorm:"size:100"`
	TrackName     string    `json:"track_name,omitempty" gorm:"size:200"`
	ArtistName    string    `json:"artist_name,omitempty" gorm:"size:100"`
	AlbumArtURL   string    `json:"album_art_url,omitempty" gorm:"size:500"`
	MediaURL      string    `json:"media_url,omitempty" gorm:"size:500"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	ViewsCount    int       `json:"views_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title      string `json:"title" validate:"required,min=1,max=200"`
	Content    string `json:"content" validate:"required,min=1"`
	PostType   string `json:"post_type" validate:"required,max=50"`
	TrackID    string `json:"track_id,omitempty" validate:"omitempty,max=100"`
	TrackName  string `json:"track_name,omitempty" validate:"omitempty,max=200"`
	ArtistName string `json:"artist_name,omitempty" validate:"omitempty,max=100"`
}
