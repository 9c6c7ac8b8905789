package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ALLOWED_ORIGINS string
	POSTGRES_URL    string
	PORT            string
	DEBUG           bool
}

// Load reads .env when present, then the process environment.
func Load() Config {
	godotenv.Load()

	cfg := Config{
		ALLOWED_ORIGINS: os.Getenv("ALLOWED_ORIGINS"),
		POSTGRES_URL:    os.Getenv("POSTGRES_URL"),
		PORT:            os.Getenv("PORT"),
		DEBUG:           os.Getenv("DEBUG") == "true",
	}
	if cfg.PORT == "" {
		cfg.PORT = "5000"
	}
	return cfg
}
