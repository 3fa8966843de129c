package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Env           string
	Port          string
	DBURL         string
	SigningSecret string
	TokenIssuer   string
	TokenAudience string
}

// Load reads configuration from the environment, with a local .env file as a
// development convenience. A missing signing secret or database URL aborts
// startup; tokens must never be minted with an accidental empty key.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:           getEnv("ENV", "development"),
		Port:          getEnv("PORT", "8080"),
		DBURL:         mustGetEnv("DB_URL"),
		SigningSecret: mustGetEnv("SIGNING_SECRET"),
		TokenIssuer:   mustGetEnv("TOKEN_ISSUER"),
		TokenAudience: mustGetEnv("TOKEN_AUDIENCE"),
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)

	return ""
}
