package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	DBPath            string
	LogLevel          string
	QuestionSourceURL string // empty means serve the quiz from the local bank in-process
	QuizSize          int
	FetchTimeout      time.Duration
	FetchWorkerCount  int
	FetchQueueSize    int
	ViewIdleTimeout   time.Duration
	SeedPath          string
	SeedOnStart       bool
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":3001"),
		DBPath:            envOr("DB_PATH", "file:techquiz.db"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		QuestionSourceURL: envOr("QUESTION_SOURCE_URL", ""),
		QuizSize:          envIntOr("QUIZ_SIZE", 10),
		FetchTimeout:      time.Duration(envIntOr("FETCH_TIMEOUT_SECONDS", 10)) * time.Second,
		FetchWorkerCount:  envIntOr("FETCH_WORKER_COUNT", 4),
		FetchQueueSize:    envIntOr("FETCH_QUEUE_SIZE", 64),
		ViewIdleTimeout:   time.Duration(envIntOr("VIEW_IDLE_MINUTES", 60)) * time.Minute,
		SeedPath:          envOr("SEED_PATH", ""),
		SeedOnStart:       envBoolOr("SEED_ON_START", true),
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.QuestionSourceURL != "" {
		u, err := url.Parse(c.QuestionSourceURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("QUESTION_SOURCE_URL must be an absolute http(s) URL, got %q", c.QuestionSourceURL)
		}
	}
	if c.QuizSize < 1 || c.QuizSize > 100 {
		return fmt.Errorf("QUIZ_SIZE must be between 1 and 100, got %d", c.QuizSize)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_SECONDS must be positive")
	}
	if c.FetchWorkerCount < 1 {
		return fmt.Errorf("FETCH_WORKER_COUNT must be at least 1, got %d", c.FetchWorkerCount)
	}
	if c.FetchQueueSize < 1 {
		return fmt.Errorf("FETCH_QUEUE_SIZE must be at least 1, got %d", c.FetchQueueSize)
	}
	if c.ViewIdleTimeout <= 0 {
		return fmt.Errorf("VIEW_IDLE_MINUTES must be positive")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
