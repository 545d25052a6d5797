package repositories

import (
	"github.com/musblossom/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations. It is the
// identity-store collaborator of the engagement service: existence checks plus
// the cached follower/following aggregates on the user row.
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	UserExists(id uint) (bool, error)
	GetUsersByIDs(ids []uint) ([]models.User, error)
	UpdateUser(user *models.User) error
	DeleteUser(id uint) error
	ApplyFollowersDelta(userID uint, delta int) error
	ApplyFollowingDelta(userID uint, delta int) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UserExists reports whether a user row with the given id exists
func (r *PostgresUserRepository) UserExists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUsersByIDs retrieves the users whose ids are in the given set
func (r *PostgresUserRepository) GetUsersByIDs(ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser updates an existing user
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// DeleteUser deletes a user row by ID. Edge cleanup belongs to the cascade
// operation in the engagement service, not here.
func (r *PostgresUserRepository) DeleteUser(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

// ApplyFollowersDelta moves the cached followers_count by delta. Relative
// update so concurrent transactions never overwrite each other's increments.
func (r *PostgresUserRepository) ApplyFollowersDelta(userID uint, delta int) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("followers_count", gorm.Expr("followers_count + ?", delta)).Error
}

// ApplyFollowingDelta moves the cached following_count by delta
func (r *PostgresUserRepository) ApplyFollowingDelta(userID uint, delta int) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("following_count", gorm.Expr("following_count + ?", delta)).Error
}
