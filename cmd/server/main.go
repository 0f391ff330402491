package main

import (
	"socialty-api/internal/auth"
	"socialty-api/internal/config"
	"socialty-api/internal/database"
	"socialty-api/internal/handlers"
	"socialty-api/internal/logger"
	"socialty-api/internal/routes"
	"socialty-api/internal/storage"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	log := logger.Get()

	// Token settings come from config, not from the environment at init
	// time, so secrets in .env are honored.
	auth.Configure(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)

	// Init database
	database.InitDB(cfg.DBPath)

	// Uploaded media goes to local disk, served under /uploads
	uploader, err := storage.NewDiskUploader(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare upload directory")
	}
	handlers.Uploads = uploader

	// Setup the routes (public and protected routes)
	ginRoutes := routes.SetupRoutes(cfg.UploadDir)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.AppEnv).Msg("server starting")

	if err := ginRoutes.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
