package repositories

import (
	"github.com/musblossom/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like edge operations
type LikeRepository interface {
	CreateLike(like *models.PostLike) (bool, error)
	DeleteLike(postID, userID uint) (bool, error)
	HasUserLikedPost(postID, userID uint) (bool, error)
	GetLikesCountByPostID(postID uint) (int64, error)
	GetLikesByUserID(userID uint) ([]models.PostLike, error)
	DeleteLikesByUserID(userID uint) error
	DeleteLikesByPostIDs(postIDs []uint) error
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike inserts a like edge, letting the (user_id, post_id) unique index
// absorb concurrent duplicates. Returns whether a row was actually inserted.
func (r *PostgresLikeRepository) CreateLike(like *models.PostLike) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteLike removes a like edge. Returns false when the user had not liked
// the post.
func (r *PostgresLikeRepository) DeleteLike(postID, userID uint) (bool, error) {
	res := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostLike{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// HasUserLikedPost checks if a user has liked a specific post
func (r *PostgresLikeRepository) HasUserLikedPost(postID, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.PostLike{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetLikesCountByPostID counts stored like edges for a post
func (r *PostgresLikeRepository) GetLikesCountByPostID(postID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetLikesByUserID returns every like edge created by userID
func (r *PostgresLikeRepository) GetLikesByUserID(userID uint) ([]models.PostLike, error) {
	var likes []models.PostLike
	if err := r.db.Where("user_id = ?", userID).Find(&likes).Error; err != nil {
		return nil, err
	}
	return likes, nil
}

// DeleteLikesByUserID removes all like edges created by userID
func (r *PostgresLikeRepository) DeleteLikesByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.PostLike{}).Error
}

// DeleteLikesByPostIDs removes all like edges on the given posts
func (r *PostgresLikeRepository) DeleteLikesByPostIDs(postIDs []uint) error {
	if len(postIDs) == 0 {
		return nil
	}
	return r.db.Where("post_id IN ?", postIDs).Delete(&models.PostLike{}).Error
}
