package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/musblossom/backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// CreateTestDB opens a fresh in-memory database migrated with the full schema.
// The connection pool is capped at one so concurrent transactions in tests
// serialize instead of tripping SQLITE_BUSY.
func CreateTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Follow{},
		&models.PostLike{},
		&models.Comment{},
	))

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}
