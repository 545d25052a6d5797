package repositories

import (
	"github.com/musblossom/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations, including
// the counter deltas that must run inside the caller's edge transaction.
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetPostIDsByUserID(userID uint) ([]uint, error)
	DeletePost(id uint) error
	DeletePostsByUserID(userID uint) error
	ApplyLikesDelta(postID uint, delta int) error
	ApplyCommentsDelta(postID uint, delta int) error
	GetLikesCount(postID uint) (int, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost creates a new post
func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

// GetPostByID retrieves a post by ID
func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPostIDsByUserID returns the ids of posts authored by userID
func (r *PostgresPostRepository) GetPostIDsByUserID(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Post{}).Where("user_id = ?", userID).Pluck("id", &ids).Error
	return ids, err
}

// DeletePost deletes a post by ID
func (r *PostgresPostRepository) DeletePost(id uint) error {
	return r.db.Delete(&models.Post{}, id).Error
}

// DeletePostsByUserID removes every post authored by userID
func (r *PostgresPostRepository) DeletePostsByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Post{}).Error
}

// ApplyLikesDelta moves likes_count by delta as a relative update, so the
// counter reflects each committed edge mutation exactly once.
func (r *PostgresPostRepository) ApplyLikesDelta(postID uint, delta int) error {
	return r.db.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("likes_count", gorm.Expr("likes_count + ?", delta)).Error
}

// ApplyCommentsDelta moves comments_count by delta
func (r *PostgresPostRepository) ApplyCommentsDelta(postID uint, delta int) error {
	return r.db.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("comments_count", gorm.Expr("comments_count + ?", delta)).Error
}

// GetLikesCount reads the cached likes_count off the post row
func (r *PostgresPostRepository) GetLikesCount(postID uint) (int, error) {
	var post models.Post
	if err := r.db.Select("likes_count").First(&post, postID).Error; err != nil {
		return 0, err
	}
	return post.LikesCount, nil
}
