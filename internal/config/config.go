package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	// Auth
	AuthIssuerURL string
	AuthJWKSURL   string // Constructed from AuthIssuerURL + /.well-known/jwks.json
	// AI provider
	AnthropicAPIKey string
	DefaultModel    string
	FallbackPrompt  string
	// Rate limiting
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// Logging
	LogDir string // when set, logs also go to timestamped files here
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	issuerURL := getEnv("AUTH_ISSUER_URL", "")

	// Construct JWKS URL from the issuer URL
	jwksURL := issuerURL + "/.well-known/jwks.json"

	return &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   env,
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		CORSOrigins:   getEnv("CORS_ORIGINS", "http://localhost:3000"),
		AuthIssuerURL: issuerURL,
		AuthJWKSURL:   jwksURL,
		// AI provider
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		DefaultModel:    getEnv("DEFAULT_MODEL", "claude-haiku-4-5-20251001"),
		FallbackPrompt:  getEnv("AI_SYSTEM_PROMPT", "You are a helpful assistant."),
		// Rate limiting
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       0,
		// Logging
		LogDir: getEnv("LOG_DIR", ""),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
