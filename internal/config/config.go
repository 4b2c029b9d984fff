package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string

	// LLM Config
	LLMProvider  string // "gemini" (default) or "groq"
	GeminiAPIKey string
	GroqAPIKey   string

	// Telegram Config (optional: bot surface is disabled without a token)
	TelegramBotToken   string
	TelegramWebhookURL string

	// Secret used to sign /start deep-link tokens
	LinkTokenSecret string

	Port string
}

// NewFromEnv creates a new Config object from environment variables.
// A .env file in the working directory is loaded first if present.
func NewFromEnv() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = "gemini"
	}

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	groqAPIKey := os.Getenv("GROQ_API_KEY")
	switch provider {
	case "gemini":
		if geminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case "groq":
		if groqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q (expected gemini or groq)", provider)
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "data/mealmind.db"
	}

	linkSecret := os.Getenv("LINK_TOKEN_SECRET")
	telegramToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if telegramToken != "" && linkSecret == "" {
		return nil, fmt.Errorf("LINK_TOKEN_SECRET environment variable not set (required with TELEGRAM_BOT_TOKEN)")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		DatabasePath:       dbPath,
		LLMProvider:        provider,
		GeminiAPIKey:       geminiAPIKey,
		GroqAPIKey:         groqAPIKey,
		TelegramBotToken:   telegramToken,
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),
		LinkTokenSecret:    linkSecret,
		Port:               port,
	}, nil
}
