// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	Environment  string
	JWTSecretKey string

	// Hosted LLM (OpenAI-compatible endpoint, e.g. Groq).
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string
	UseLLM     bool

	// External document/translation providers. Empty values leave the
	// local fallback paths in charge.
	DocumentOCREndpoint string
	DocumentOCRKey      string
	TranslatorEndpoint  string
	TranslatorKey       string
	TranslatorRegion    string

	// Conversation sessions.
	SessionExpirySeconds int

	// Storage.
	DatabasePath string

	// Seed credentials for the first admin account. Ignored once any
	// staff user exists.
	AdminUsername string
	AdminPassword string
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:           getEnv("SERVER_PORT", "8000"),
		Environment:          env,
		JWTSecretKey:         getEnv("JWT_SECRET_KEY", ""),
		LLMAPIKey:            getEnv("LLM_API_KEY", ""),
		LLMBaseURL:           getEnv("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
		LLMModel:             getEnv("LLM_MODEL", "llama-3.3-70b-versatile"),
		UseLLM:               getEnvAsBool("USE_LLM", true),
		DocumentOCREndpoint:  getEnv("DOCUMENT_OCR_ENDPOINT", ""),
		DocumentOCRKey:       getEnv("DOCUMENT_OCR_KEY", ""),
		TranslatorEndpoint:   getEnv("TRANSLATOR_ENDPOINT", ""),
		TranslatorKey:        getEnv("TRANSLATOR_KEY", ""),
		TranslatorRegion:     getEnv("TRANSLATOR_REGION", "southafricanorth"),
		SessionExpirySeconds: getEnvAsInt("CONVERSATION_EXPIRY_SECONDS", 3600),
		DatabasePath:         getEnv("DATABASE_PATH", "medassist.db"),
		AdminUsername:        getEnv("ADMIN_USERNAME", ""),
		AdminPassword:        getEnv("ADMIN_PASSWORD", ""),
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if cfg.UseLLM && cfg.LLMAPIKey == "" {
			missing = append(missing, "LLM_API_KEY")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

// getEnvAsBool gets an env var as a boolean, with a fallback.
func getEnvAsBool(key string, defaultValue bool) bool {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as boolean. Using default value.", key)
		return defaultValue
	}
	return boolValue
}
