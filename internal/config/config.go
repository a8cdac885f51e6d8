package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Gemini     GeminiConfig
	Extraction ExtractionConfig
	Storage    StorageConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type GeminiConfig struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

type ExtractionConfig struct {
	MaxPDFPages   int
	MaxInputChars int
	MaxSkills     int
}

type StorageConfig struct {
	MaxFileSize int64
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found. Using environment and default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "3000"),
			Env:            getEnv("ENV", "development"),
			RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", "60s"),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvAsBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resume_parser"),
		},
		Gemini: GeminiConfig{
			APIKey:          getEnv("GEMINI_API_KEY", ""),
			Model:           getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Temperature:     getEnvAsFloat32("GEMINI_TEMPERATURE", 0.2),
			MaxOutputTokens: int32(getEnvAsInt("GEMINI_MAX_OUTPUT_TOKENS", 8192)),
		},
		Extraction: ExtractionConfig{
			MaxPDFPages:   getEnvAsInt("MAX_PDF_PAGES", 50),
			MaxInputChars: getEnvAsInt("MAX_INPUT_CHARS", 30000),
			MaxSkills:     getEnvAsInt("MAX_SKILLS", 20),
		},
		Storage: StorageConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "pretty"),
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

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
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
