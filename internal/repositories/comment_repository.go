package repositories

import (
	"github.com/musblossom/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentsByPostID(postID uint) ([]models.Comment, error)
	GetCommentsByUserID(userID uint) ([]models.Comment, error)
	DeleteComment(id uint) (bool, error)
	DeleteCommentsByUserID(userID uint) error
	DeleteCommentsByPostIDs(postIDs []uint) error
	OrphanRepliesOfUser(userID uint) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID retrieves all comments for a specific post
func (r *PostgresCommentRepository) GetCommentsByPostID(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("post_id = ?", postID).Order("created_at").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// GetCommentsByUserID retrieves all comments written by userID
func (r *PostgresCommentRepository) GetCommentsByUserID(userID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("user_id = ?", userID).Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment deletes a comment by ID. Returns false when no row existed.
func (r *PostgresCommentRepository) DeleteComment(id uint) (bool, error) {
	res := r.db.Delete(&models.Comment{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteCommentsByUserID removes every comment written by userID
func (r *PostgresCommentRepository) DeleteCommentsByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Comment{}).Error
}

// DeleteCommentsByPostIDs removes every comment on the given posts
func (r *PostgresCommentRepository) DeleteCommentsByPostIDs(postIDs []uint) error {
	if len(postIDs) == 0 {
		return nil
	}
	return r.db.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error
}

// OrphanRepliesOfUser clears parent_comment_id on replies whose parent was
// written by userID, so deleting the user's comments leaves no dangling
// references.
func (r *PostgresCommentRepository) OrphanRepliesOfUser(userID uint) error {
	sub := r.db.Model(&models.Comment{}).Select("id").Where("user_id = ?", userID)
	return r.db.Model(&models.Comment{}).
		Where("parent_comment_id IN (?)", sub).
		Update("parent_comment_id", nil).Error
}
