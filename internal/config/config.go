package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Answer modes
const (
	AnswerModeFirst = "first"
	AnswerModeAll   = "all"
)

// Delivery modes
const (
	DeliveryGroup   = "group"
	DeliveryPrivate = "private"
)

type Config struct {
	// Telegram
	BotToken    string
	WorkerCount int

	// Application
	AppEnv      string
	LogLevel    string
	MetricsPort string

	// Quiz
	LobbyWindowSeconds     int
	QuestionTimeoutSeconds int
	RoundCount             int
	AnswerMode             string
	DeliveryMode           string
	QuestionsFile          string

	// Database (optional question storage)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis (optional cross-instance session lock)
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	SessionLockTTLMinutes int

	// Rate Limiting
	RateLimitPerUser    int
	RateLimitWindowSecs int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		BotToken:    getEnv("BOT_TOKEN", ""),
		WorkerCount: getEnvInt("WORKER_COUNT", 10),

		AppEnv:      getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		MetricsPort: getEnv("METRICS_PORT", ""),

		LobbyWindowSeconds:     getEnvInt("LOBBY_WINDOW_SECONDS", 30),
		QuestionTimeoutSeconds: getEnvInt("QUESTION_TIMEOUT_SECONDS", 15),
		RoundCount:             getEnvInt("ROUND_COUNT", 30),
		AnswerMode:             getEnv("ANSWER_MODE", AnswerModeFirst),
		DeliveryMode:           getEnv("DELIVERY_MODE", DeliveryGroup),
		QuestionsFile:          getEnv("QUESTIONS_FILE", ""),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "triviabot"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "triviabot_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:             getEnv("REDIS_ADDR", ""),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		RedisDB:               getEnvInt("REDIS_DB", 0),
		SessionLockTTLMinutes: getEnvInt("SESSION_LOCK_TTL_MINUTES", 60),

		RateLimitPerUser:    getEnvInt("RATE_LIMIT_PER_USER", 20),
		RateLimitWindowSecs: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDatabaseConfig reads only the postgres settings, for tools that do not
// talk to Telegram.
func LoadDatabaseConfig() *Config {
	return &Config{
		AppEnv:     getEnv("APP_ENV", "production"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "triviabot"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "triviabot_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.LobbyWindowSeconds <= 0 {
		return fmt.Errorf("LOBBY_WINDOW_SECONDS must be positive")
	}
	if c.QuestionTimeoutSeconds <= 0 {
		return fmt.Errorf("QUESTION_TIMEOUT_SECONDS must be positive")
	}
	if c.RoundCount <= 0 {
		return fmt.Errorf("ROUND_COUNT must be positive")
	}
	if c.AnswerMode != AnswerModeFirst && c.AnswerMode != AnswerModeAll {
		return fmt.Errorf("ANSWER_MODE must be %q or %q", AnswerModeFirst, AnswerModeAll)
	}
	if c.DeliveryMode != DeliveryGroup && c.DeliveryMode != DeliveryPrivate {
		return fmt.Errorf("DELIVERY_MODE must be %q or %q", DeliveryGroup, DeliveryPrivate)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be positive")
	}
	if c.RateLimitPerUser <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_USER must be positive")
	}
	if c.RateLimitWindowSecs <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW_SECONDS must be positive")
	}
	if c.SessionLockTTLMinutes <= 0 {
		return fmt.Errorf("SESSION_LOCK_TTL_MINUTES must be positive")
	}
	// A lock that expires mid-game lets another replica open the same session.
	if c.RedisAddr != "" && c.GetSessionLockTTL() < c.MaxGameDuration() {
		return fmt.Errorf("SESSION_LOCK_TTL_MINUTES must cover a full game (%s)", c.MaxGameDuration())
	}
	return nil
}

// MaxGameDuration is the longest a game can run: the lobby plus every round
// reaching its deadline.
func (c *Config) MaxGameDuration() time.Duration {
	return c.GetLobbyWindow() + time.Duration(c.RoundCount)*c.GetQuestionTimeout()
}

// HasDatabase reports whether postgres question storage is configured.
func (c *Config) HasDatabase() bool {
	return c.DBPassword != ""
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) GetLobbyWindow() time.Duration {
	return time.Duration(c.LobbyWindowSeconds) * time.Second
}

func (c *Config) GetQuestionTimeout() time.Duration {
	return time.Duration(c.QuestionTimeoutSeconds) * time.Second
}

func (c *Config) GetSessionLockTTL() time.Duration {
	return time.Duration(c.SessionLockTTLMinutes) * time.Minute
}

func (c *Config) GetRateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSecs) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
