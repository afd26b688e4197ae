package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Qdrant   QdrantConfig
	Gemini   GeminiConfig
	Storage  StorageConfig
	Analysis AnalysisConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	Enabled    bool
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	EmbedModel string
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

// AnalysisConfig carries the knobs of the extraction and scoring pipeline.
type AnalysisConfig struct {
	Analyzer       string
	MinTextLength  int
	ContentQuality float64
	Completeness   float64
}

type WorkerConfig struct {
	Enabled           bool
	Concurrency       int
	QueueSize         int
	PollInterval      time.Duration
	StaleAfter        time.Duration
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
}

// Load reads an optional .env file and builds the configuration from the environment.
// The returned note is non-empty when no .env file was found.
func Load() (*Config, string) {
	note := ""
	if err := godotenv.Load(); err != nil {
		note = "No .env file found. Using default values."
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resume_analyzer"),
		},
		Qdrant: QdrantConfig{
			Enabled:    getEnvAsBool("QDRANT_ENABLED", false),
			URL:        getEnv("QDRANT_URL", "http://localhost:6334"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "job_postings"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 5*1024*1024),
		},
		Analysis: AnalysisConfig{
			Analyzer:       getEnv("ANALYZER", "keyword"),
			MinTextLength:  getEnvAsInt("MIN_TEXT_LENGTH", 50),
			ContentQuality: getEnvAsFloat("CONTENT_QUALITY_SCORE", 0.8),
			Completeness:   getEnvAsFloat("COMPLETENESS_SCORE", 0.7),
		},
		Worker: WorkerConfig{
			Enabled:           getEnvAsBool("ASYNC_ENABLED", true),
			Concurrency:       getEnvAsInt("WORKER_CONCURRENCY", 3),
			QueueSize:         getEnvAsInt("WORKER_QUEUE_SIZE", 100),
			PollInterval:      getEnvAsDuration("WORKER_POLL_INTERVAL", "10s"),
			StaleAfter:        getEnvAsDuration("WORKER_STALE_AFTER", "15m"),
			RetryMaxAttempts:  getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			RetryInitialDelay: getEnvAsDuration("RETRY_INITIAL_DELAY", "2s"),
		},
	}, note
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive, got %d", c.Storage.MaxFileSize)
	}
	if c.Analysis.MinTextLength < 1 {
		return fmt.Errorf("MIN_TEXT_LENGTH must be at least 1, got %d", c.Analysis.MinTextLength)
	}
	if c.Analysis.ContentQuality < 0 || c.Analysis.ContentQuality > 1 {
		return fmt.Errorf("CONTENT_QUALITY_SCORE must be within [0,1], got %.2f", c.Analysis.ContentQuality)
	}
	if c.Analysis.Completeness < 0 || c.Analysis.Completeness > 1 {
		return fmt.Errorf("COMPLETENESS_SCORE must be within [0,1], got %.2f", c.Analysis.Completeness)
	}
	switch c.Analysis.Analyzer {
	case "keyword":
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("ANALYZER=gemini requires GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown ANALYZER %q (expected keyword or gemini)", c.Analysis.Analyzer)
	}
	if c.Qdrant.Enabled && c.Gemini.APIKey == "" {
		return fmt.Errorf("QDRANT_ENABLED requires GEMINI_API_KEY for embeddings")
	}
	if c.Worker.Enabled && c.Worker.Concurrency <= 0 {
		return fmt.Errorf("WORKER_CONCURRENCY must be positive, got %d", c.Worker.Concurrency)
	}
	return nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
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
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
