// config.go - Configuration loaded from environment variables

package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	// AI Provider Configuration
	AI_PROVIDER    string // "gemini" or "openai"
	GEMINI_API_KEY string
	OPENAI_API_KEY string

	// Model names: one for text completions, one for vision OCR
	MODEL_NAME        string
	VISION_MODEL_NAME string

	// Remote call budget. A single timeout bounds every AI call; there are
	// no retries - a failed call goes straight to the local fallback.
	AI_TIMEOUT_SECONDS int

	// Server Configuration
	PORT            string
	ALLOWED_ORIGINS string
	APP_ENV         string

	// Extraction cache bounds
	CACHE_MAX_ENTRIES int
	CACHE_TTL_MINUTES int

	// Image preprocessing settings
	ENABLE_IMAGE_PREPROCESSING bool
	MAX_IMAGE_DIMENSION        int

	// Rate limiting for outbound AI calls (requests per minute)
	AI_RATE_LIMIT_RPM int

	// Server-side cap on the tips payload
	MAX_TIP_EXPENSES = 50
)

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	// Load .env file if exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// AI provider selection. A missing API key is not fatal: remote paths
	// are disabled and every feature degrades to its local fallback.
	AI_PROVIDER = getEnv("AI_PROVIDER", "gemini")
	GEMINI_API_KEY = getEnv("GEMINI_API_KEY", "")
	OPENAI_API_KEY = getEnv("OPENAI_API_KEY", "")

	switch AI_PROVIDER {
	case "openai":
		MODEL_NAME = getEnv("MODEL_NAME", "gpt-4.1-mini")
		VISION_MODEL_NAME = getEnv("VISION_MODEL_NAME", "gpt-4.1-mini")
	default:
		MODEL_NAME = getEnv("MODEL_NAME", "gemini-2.5-flash")
		VISION_MODEL_NAME = getEnv("VISION_MODEL_NAME", "gemini-2.5-flash")
	}

	AI_TIMEOUT_SECONDS = getEnvInt("AI_TIMEOUT_SECONDS", 5)

	PORT = getEnv("PORT", "8080")
	ALLOWED_ORIGINS = getEnv("ALLOWED_ORIGINS", "*")
	APP_ENV = getEnv("APP_ENV", "development")

	// Extraction cache: bounded LRU with TTL
	CACHE_MAX_ENTRIES = getEnvInt("CACHE_MAX_ENTRIES", 1000)
	CACHE_TTL_MINUTES = getEnvInt("CACHE_TTL_MINUTES", 60)

	// Image Processing
	ENABLE_IMAGE_PREPROCESSING = getEnvBool("ENABLE_IMAGE_PREPROCESSING", true)
	MAX_IMAGE_DIMENSION = getEnvInt("MAX_IMAGE_DIMENSION", 2000)

	AI_RATE_LIMIT_RPM = getEnvInt("AI_RATE_LIMIT_RPM", 12)

	if !AIEnabled() {
		log.Println("No AI API key configured - remote extraction and tips disabled, using local fallbacks")
	}

	log.Println("Configuration loaded successfully")
}

// AIEnabled reports whether a credential exists for the selected provider.
func AIEnabled() bool {
	switch AI_PROVIDER {
	case "openai":
		return OPENAI_API_KEY != ""
	default:
		return GEMINI_API_KEY != ""
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
