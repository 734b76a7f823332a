package config

import (
	"os"
	"time"
)

type Config struct {
	ServerAddress string

	// Document store backend: "firestore" or "file".
	StoreBackend string
	DataDir      string

	FirebaseProjectID       string
	FirebaseCredentialsJSON string
	FirebaseCredentialsFile string

	// Auth backend: "firebase" or "local" (emulator/dev).
	AuthMode      string
	JWTSecret     string
	JWTExpiration time.Duration

	MongoURI string
	MongoDB  string

	RedisAddr     string
	RedisPassword string

	SpotifyClientID     string
	SpotifyClientSecret string
	GeminiAPIKey        string
}

func Load() *Config {
	return &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),

		StoreBackend: getEnv("STORE_BACKEND", "firestore"),
		DataDir:      getEnv("DATA_DIR", "./data"),

		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsJSON: getEnv("FIREBASE_CREDENTIALS_JSON", ""),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_PATH", ""),

		AuthMode:      getEnv("AUTH_MODE", "firebase"),
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiration: 24 * time.Hour,

		MongoURI: getEnv("MONGO_URI", ""),
		MongoDB:  getEnv("MONGO_DB", "musicapp"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PWD", ""),

		SpotifyClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
