package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	LLM       LLMConfig
	Storage   StorageConfig
	Worker    WorkerConfig
	Messaging MessagingConfig
	Report    ReportConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type LLMConfig struct {
	Provider          string
	CohereAPIKey      string
	CohereModel       string
	CohereBaseURL     string
	GeminiAPIKey      string
	GeminiModel       string
	GenerationTimeout time.Duration
}

type StorageConfig struct {
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency   int
	QueueSize     int
	SessionTTL    time.Duration
	SweepInterval time.Duration
}

type MessagingConfig struct {
	RabbitMQURL string
}

type ReportConfig struct {
	ChromePath string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}
	return FromEnv()
}

// FromEnv builds the config from the process environment only.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvAsBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ats_analyzer"),
		},
		LLM: LLMConfig{
			Provider:          getEnv("LLM_PROVIDER", "cohere"),
			CohereAPIKey:      getEnv("COHERE_API_KEY", ""),
			CohereModel:       getEnv("COHERE_MODEL", "command"),
			CohereBaseURL:     getEnv("COHERE_BASE_URL", "https://api.cohere.ai"),
			GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
			GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			GenerationTimeout: getEnvAsDuration("GENERATION_TIMEOUT", "60s"),
		},
		Storage: StorageConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Worker: WorkerConfig{
			Concurrency:   getEnvAsInt("WORKER_CONCURRENCY", 3),
			QueueSize:     getEnvAsInt("WORKER_QUEUE_SIZE", 100),
			SessionTTL:    getEnvAsDuration("SESSION_TTL", "2h"),
			SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", "5m"),
		},
		Messaging: MessagingConfig{
			RabbitMQURL: getEnv("RABBITMQ_URL", ""),
		},
		Report: ReportConfig{
			ChromePath: getEnv("CHROME_PATH", ""),
		},
	}
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
