package models

import "time"

// Comment belongs to a post. Replies reference their parent through
// ParentCommentID and are reconstructed by indexed lookup; comments never hold
// mutual object references.
type Comment struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	PostID          uint      `json:"post_id" gorm:"index"`
	UserID          uint      `json:"user_id" gorm:"index"`
	ParentCommentID *uint     `json:"parent_comment_id,omitempty" gorm:"index"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content         string `json:"content" validate:"required,min=1,max=500"`
	ParentCommentID *uint  `json:"parent_comment_id,omitempty"`
}
