package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"family-planner-go/pkg/logger"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort       string
	Env            string
	AllowedOrigins []string
	Auth           AuthConfig
	DB             DBConfig
	LLM            LLMConfig
	Drive          DriveConfig
	Import         ImportConfig
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	RetryAttempts   int
	RetryBackoff    time.Duration
}

type LLMConfig struct {
	Provider  string
	APIKey    string
	Model     string
	Timeout   time.Duration
	MaxTokens int
}

type DriveConfig struct {
	BaseURL      string
	AccessToken  string
	RootFolderID string
	Timeout      time.Duration
}

type ImportConfig struct {
	// StrictUnknownParticipants makes AI imports fail on participant
	// references that do not resolve instead of dropping them.
	StrictUnknownParticipants bool
}

func Load(log logger.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("config: .env not loaded", "err", err)
	}

	cfg := Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		AllowedOrigins: []string{getEnv("CORS_ORIGIN", "http://localhost:5173")},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvDuration("JWT_TOKEN_TTL", 7*24*time.Hour),
		},
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "family_planner"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			RetryAttempts:   getEnvInt("DB_RETRY_ATTEMPTS", 3),
			RetryBackoff:    getEnvDuration("DB_RETRY_BACKOFF", 500*time.Millisecond),
		},
		LLM: LLMConfig{
			Provider:  getEnv("LLM_PROVIDER", "gemini"),
			APIKey:    getEnv("LLM_API_KEY", ""),
			Model:     getEnv("LLM_MODEL", "gemini-1.5-flash"),
			Timeout:   getEnvDuration("LLM_HTTP_TIMEOUT", 25*time.Second),
			MaxTokens: getEnvInt("AI_PARSE_MAX_TOKENS", 1024),
		},
		Drive: DriveConfig{
			BaseURL:      getEnv("DRIVE_API_BASE_URL", "https://www.googleapis.com/drive/v3"),
			AccessToken:  getEnv("DRIVE_ACCESS_TOKEN", ""),
			RootFolderID: getEnv("DRIVE_ROOT_FOLDER_ID", ""),
			Timeout:      getEnvDuration("DRIVE_HTTP_TIMEOUT", 30*time.Second),
		},
		Import: ImportConfig{
			StrictUnknownParticipants: getEnvBool("AI_PARSE_STRICT_UNKNOWN_PARTICIPANTS", false),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
