package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	// All variables
	GO_ENV   string
	PORT     int
	LOG_FILE string
	// Slot storage
	STORAGE_DRIVER string // sqlite | postgres | pq | redis | memory
	STORAGE_SLOT   string
	SQLITE_PATH    string
	DB_USER_NAME   string
	DB_PASSWORD    string
	DB_NAME        string
	DB_HOST        string
	DB_PORT        string
	DB_SSL_MODE    string
	// Redis Configuration
	REDIS_URL string
	// Text generation
	INFERENCE_API_KEY             string
	INFERENCE_BASE_URL            string
	INFERENCE_MODEL               string
	INFERENCE_TIMEOUT_SECONDS     int
	INFERENCE_REQUESTS_PER_MINUTE int
	// Attachments
	ATTACHMENT_STORE          string // db | spaces
	ATTACHMENT_MAX_MB         int
	ATTACHMENT_ENCRYPTION_KEY string
	DO_SPACES_ACCESS_KEY      string
	DO_SPACES_SECRET_KEY      string
	DO_SPACES_BUCKET          string
	DO_SPACES_REGION          string
	DO_SPACES_ENDPOINT        string
	// Application
	SCHOOL_NAME     string
	CRON_ENABLED    bool
	ALLOWED_ORIGINS string
	// Requests per minute and client IP; generation routes have their own limit
	RATE_LIMIT_PER_MINUTE int
	GENERATION_RATE_LIMIT int
}

// IsProduction reports whether GO_ENV selects production behavior
func (e *EnviornmentVariable) IsProduction() bool {
	return strings.EqualFold(e.GO_ENV, "production")
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:   os.Getenv("GO_ENV"),
		PORT:     port,
		LOG_FILE: os.Getenv("LOG_FILE"),
		// Slot storage
		STORAGE_DRIVER: strings.ToLower(getOrDefault("STORAGE_DRIVER", "sqlite")),
		STORAGE_SLOT:   getOrDefault("STORAGE_SLOT", "students"),
		SQLITE_PATH:    getOrDefault("SQLITE_PATH", "caseload.db"),
		DB_USER_NAME:   os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:    os.Getenv("DB_PASSWORD"),
		DB_NAME:        os.Getenv("DB_NAME"),
		DB_HOST:        getOrDefault("DB_HOST", "localhost"),
		DB_PORT:        getOrDefault("DB_PORT", "5432"),
		DB_SSL_MODE:    getOrDefault("DB_SSL_MODE", "disable"),
		// Redis
		REDIS_URL: getOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		// Text generation
		INFERENCE_API_KEY:             os.Getenv("INFERENCE_API_KEY"),
		INFERENCE_BASE_URL:            os.Getenv("INFERENCE_BASE_URL"),
		INFERENCE_MODEL:               os.Getenv("INFERENCE_MODEL"),
		INFERENCE_TIMEOUT_SECONDS:     getIntOrDefault("INFERENCE_TIMEOUT_SECONDS", 120),
		INFERENCE_REQUESTS_PER_MINUTE: getIntOrDefault("INFERENCE_REQUESTS_PER_MINUTE", 30),
		// Attachments
		ATTACHMENT_STORE:          strings.ToLower(getOrDefault("ATTACHMENT_STORE", "db")),
		ATTACHMENT_MAX_MB:         getIntOrDefault("ATTACHMENT_MAX_MB", 10),
		ATTACHMENT_ENCRYPTION_KEY: os.Getenv("ATTACHMENT_ENCRYPTION_KEY"),
		DO_SPACES_ACCESS_KEY:      os.Getenv("DO_SPACES_ACCESS_KEY"),
		DO_SPACES_SECRET_KEY:      os.Getenv("DO_SPACES_SECRET_KEY"),
		DO_SPACES_BUCKET:          os.Getenv("DO_SPACES_BUCKET"),
		DO_SPACES_REGION:          os.Getenv("DO_SPACES_REGION"),
		DO_SPACES_ENDPOINT:        os.Getenv("DO_SPACES_ENDPOINT"),
		// Application
		SCHOOL_NAME:     getOrDefault("SCHOOL_NAME", "مدرسة الإيمان"),
		CRON_ENABLED:    os.Getenv("CRON_ENABLED") != "false", // Default to enabled
		ALLOWED_ORIGINS: getOrDefault("ALLOWED_ORIGINS", "*"),
		// Rate limits
		RATE_LIMIT_PER_MINUTE: getIntOrDefault("RATE_LIMIT_PER_MINUTE", 100),
		GENERATION_RATE_LIMIT: getIntOrDefault("GENERATION_RATE_LIMIT", 10),
	}

	return envVariables, nil
}

func getOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getIntOrDefault(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
