package config

import "os"

// Config holds all runtime configuration, read from the environment.
// Every value has a local-development default so the server starts with
// no .env file at all.
type Config struct {
	Port      string
	MongoURI  string
	MongoDB   string
	RedisURL  string
	JWTSecret string
	LogLevel  string
}

func Load() Config {
	return Config{
		Port:      getenv("PORT", "8080"),
		MongoURI:  getenv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:   getenv("MONGO_DB", "property-listing"),
		RedisURL:  getenv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret: getenv("JWT_SECRET", "dev-secret-change-me"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
