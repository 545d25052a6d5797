package repositories

import (
	"github.com/musblossom/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow edge operations
type FollowRepository interface {
	CreateFollow(follow *models.Follow) (bool, error)
	DeleteFollow(followerID, followedID uint) (bool, error)
	IsFollowing(followerID, followedID uint) (bool, error)
	GetFollowerIDs(userID uint) ([]uint, error)
	GetFollowingIDs(userID uint) ([]uint, error)
	GetFollowersWithTime(userID uint) ([]models.Follow, error)
	GetEdgesByFollower(userID uint) ([]models.Follow, error)
	GetEdgesByFollowed(userID uint) ([]models.Follow, error)
	DeleteAllForUser(userID uint) error
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// CreateFollow inserts a follow edge. The insert goes through ON CONFLICT DO
// NOTHING against the (follower_id, followed_id) unique index, so when two
// identical requests race, the loser reports inserted=false instead of a
// constraint error. Pre-checking existence here would not be safe.
func (r *PostgresFollowRepository) CreateFollow(follow *models.Follow) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(follow)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteFollow removes a follow edge. Returns false when no edge existed.
func (r *PostgresFollowRepository) DeleteFollow(followerID, followedID uint) (bool, error) {
	res := r.db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).Delete(&models.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresFollowRepository) IsFollowing(followerID, followedID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).Where("follower_id = ? AND followed_id = ?", followerID, followedID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFollowerIDs returns the ids of users following userID
func (r *PostgresFollowRepository) GetFollowerIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).Where("followed_id = ?", userID).Pluck("follower_id", &ids).Error
	return ids, err
}

// GetFollowingIDs returns the ids of users userID follows
func (r *PostgresFollowRepository) GetFollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Pluck("followed_id", &ids).Error
	return ids, err
}

// GetFollowersWithTime returns incoming follow edges with their timestamps,
// used for the pending-follow-requests view.
func (r *PostgresFollowRepository) GetFollowersWithTime(userID uint) ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.Where("followed_id = ?", userID).Order("created_at").Find(&follows).Error
	return follows, err
}

// GetEdgesByFollower returns the outgoing edges of userID
func (r *PostgresFollowRepository) GetEdgesByFollower(userID uint) ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.Where("follower_id = ?", userID).Find(&follows).Error
	return follows, err
}

// GetEdgesByFollowed returns the incoming edges of userID
func (r *PostgresFollowRepository) GetEdgesByFollowed(userID uint) ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.Where("followed_id = ?", userID).Find(&follows).Error
	return follows, err
}

// DeleteAllForUser removes every follow edge referencing userID in either
// direction. Counter reversal is the caller's responsibility.
func (r *PostgresFollowRepository) DeleteAllForUser(userID uint) error {
	return r.db.Where("follower_id = ? OR followed_id = ?", userID, userID).Delete(&models.Follow{}).Error
}
