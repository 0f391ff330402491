package database

import (
	"socialty-api/internal/logger"
	"socialty-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB initializes the database connection and runs migrations
func InitDB(dbPath string) {
	var err error

	// Using glebarez/sqlite which is a pure Go implementation (no CGO required)
	DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})

	if err != nil {
		logger.Get().Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Auto-migrate the schema (it will create tables if they don't exist)
	err = DB.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.FollowRequest{},
		&models.Block{},
		&models.Post{},
		&models.Comment{},
		&models.Conversation{},
		&models.Message{},
		&models.GameSession{},
	)

	if err != nil {
		logger.Get().Fatal().Err(err).Msg("Failed to migrate database")
	}

	logger.Get().Info().Str("path", dbPath).Msg("Database connected and migrated")
}

// GetDB returns the database connection
func GetDB() *gorm.DB {
	return DB
}
