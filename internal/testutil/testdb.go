package testutil

import (
	"socialty-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewInMemoryDB creates an in-memory SQLite DB and runs migrations.
func NewInMemoryDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.FollowRequest{},
		&models.Block{},
		&models.Post{},
		&models.Comment{},
		&models.Conversation{},
		&models.Message{},
		&models.GameSession{},
	); err != nil {
		return nil, err
	}
	return db, nil
}

// SeedUser inserts a minimal user row for tests.
func SeedUser(db *gorm.DB, id, username string) (models.User, error) {
	user := models.User{
		ID:       id,
		FullName: username,
		Username: username,
		Password: "x",
	}
	err := db.Create(&user).Error
	return user, err
}
