package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds process-level settings sourced from the environment.
type Config struct {
	Port        string
	DBPath      string
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	AppEnv      string
	UploadDir   string
}

// Load reads .env (if present) and resolves settings with sane development
// fallbacks. Missing .env is not an error; real deployments set env vars.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:        getEnv("PORT", "8008"),
		DBPath:      getEnv("DB_PATH", "socialty.db"),
		JWTSecret:   getEnv("JWT_SECRET", "development-insecure-secret-change-me"),
		JWTIssuer:   getEnv("JWT_ISSUER", "socialty-api"),
		JWTAudience: getEnv("JWT_AUDIENCE", "socialty-clients"),
		AppEnv:      getEnv("APP_ENV", "development"),
		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
