package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Storage      StorageConfig
	LLM          LLMConfig
	Cache        CacheConfig
	Segmentation SegmentationConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
	RunTimeout      time.Duration
	APIKeys         []string // empty disables API key checks
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled     bool
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig holds storage configuration for segment plans
type StorageConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
	PublicURL       string
}

// LLMConfig selects and configures the text generation backend
type LLMConfig struct {
	Provider  string // "ollama" (default), "openai", "groq" or any any-llm provider name
	Model     string
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	PullModel bool
}

// CacheConfig controls caching of model replies
type CacheConfig struct {
	Backend string // "none", "memory" or "redis"
	TTL     time.Duration
}

// SegmentationConfig holds the engine tunables, read with envconfig under the SEGMENTER prefix
type SegmentationConfig struct {
	MaxWordsPerChunk   int           `envconfig:"MAX_WORDS_PER_CHUNK" default:"4000"`
	MaxAttempts        int           `envconfig:"MAX_ATTEMPTS" default:"3"`
	RetryBaseDelay     time.Duration `envconfig:"RETRY_BASE_DELAY" default:"1s"`
	MinSegmentSeconds  float64       `envconfig:"MIN_SEGMENT_SECONDS" default:"30"`
	SnapWindowSeconds  float64       `envconfig:"SNAP_WINDOW_SECONDS" default:"30"`
	SnapMinConfidence  int           `envconfig:"SNAP_MIN_CONFIDENCE" default:"3"`
	OverlapThreshold   float64       `envconfig:"OVERLAP_THRESHOLD" default:"0.5"`
	FallbackMaxSeconds float64       `envconfig:"FALLBACK_MAX_SECONDS" default:"300"`
	Temperature        float64       `envconfig:"TEMPERATURE" default:"0.3"`
	MaxResponseTokens  int           `envconfig:"MAX_RESPONSE_TOKENS" default:"1000"`
}

// DefaultSegmentationConfig returns the engine defaults without reading the environment
func DefaultSegmentationConfig() SegmentationConfig {
	return SegmentationConfig{
		MaxWordsPerChunk:   4000,
		MaxAttempts:        3,
		RetryBaseDelay:     time.Second,
		MinSegmentSeconds:  30,
		SnapWindowSeconds:  30,
		SnapMinConfidence:  3,
		OverlapThreshold:   0.5,
		FallbackMaxSeconds: 300,
		Temperature:        0.3,
		MaxResponseTokens:  1000,
	}
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  getEnvAsList("ALLOWED_ORIGINS", "http://localhost:3000"),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
			RunTimeout:      getEnvAsDuration("RUN_TIMEOUT", "30m"),
			APIKeys:         getEnvAsList("API_KEYS", ""),
		},
		Database: DatabaseConfig{
			Enabled:     getEnvAsBool("DB_ENABLED", false),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "interview_segmenter"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 2),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Enabled:         getEnvAsBool("STORAGE_ENABLED", false),
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "segment-plans"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
			PublicURL:       getEnv("STORAGE_PUBLIC_URL", ""),
		},
		LLM: LLMConfig{
			Provider:  strings.ToLower(getEnv("LLM_PROVIDER", "ollama")),
			Model:     getEnv("LLM_MODEL", "qwen2.5:3b"),
			BaseURL:   getEnv("LLM_BASE_URL", ""),
			APIKey:    getEnv("LLM_API_KEY", ""),
			Timeout:   getEnvAsDuration("LLM_TIMEOUT", "120s"),
			PullModel: getEnvAsBool("LLM_PULL_MODEL", true),
		},
		Cache: CacheConfig{
			Backend: strings.ToLower(getEnv("CACHE_BACKEND", "memory")),
			TTL:     getEnvAsDuration("CACHE_TTL", "24h"),
		},
	}

	if err := envconfig.Process("SEGMENTER", &config.Segmentation); err != nil {
		return nil, fmt.Errorf("failed to read segmenter settings: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.LLM.Model == "" {
		return fmt.Errorf("LLM_MODEL is required")
	}
	switch c.Cache.Backend {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("CACHE_BACKEND must be none, memory or redis, got %q", c.Cache.Backend)
	}
	return c.Segmentation.Validate()
}

// Validate rejects engine settings that cannot produce a sensible cut list
func (s SegmentationConfig) Validate() error {
	if s.MaxWordsPerChunk <= 0 {
		return fmt.Errorf("SEGMENTER_MAX_WORDS_PER_CHUNK must be positive")
	}
	if s.MaxAttempts <= 0 {
		return fmt.Errorf("SEGMENTER_MAX_ATTEMPTS must be positive")
	}
	if s.OverlapThreshold < 0 || s.OverlapThreshold > 1 {
		return fmt.Errorf("SEGMENTER_OVERLAP_THRESHOLD must be within [0, 1]")
	}
	if s.FallbackMaxSeconds <= 0 {
		return fmt.Errorf("SEGMENTER_FALLBACK_MAX_SECONDS must be positive")
	}
	if s.MinSegmentSeconds < 0 || s.SnapWindowSeconds < 0 {
		return fmt.Errorf("SEGMENTER durations must not be negative")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

func getEnvAsList(key string, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
