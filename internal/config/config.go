package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Upload   UploadConfig
	Writer   WriterConfig
	Ai       AIConfig
	SMTP     SMTPConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	SignInURL          string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JwtSecret    string
	SessionTTL   time.Duration
	SessionStore string // "memory" or "redis"
}

type UploadConfig struct {
	Dir      string
	MaxBytes int
}

// WriterConfig points at the generation/summarization service.
type WriterConfig struct {
	Port                     string
	GenerationEndpointURL    string
	SummarizationEndpointURL string
	ResourceBaseURL          string
}

// SMTPConfig enables the mail notifier when Host is set.
type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AIConfig struct {
	LLMProvider        string // "ollama" or "huggingface"
	LLMModel           string
	OllamaBaseURL      string
	HuggingFaceAPIKey  string
	HuggingFaceBaseURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			SignInURL:          getEnv("SIGN_IN_URL", "/signin"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret:    getEnv("JWT_SECRET", "default_secret"),
			SessionTTL:   time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 24)) * time.Hour,
			SessionStore: getEnv("SESSION_STORE", "memory"),
		},
		Upload: UploadConfig{
			Dir:      getEnv("UPLOAD_DIR", "uploads"),
			MaxBytes: getEnvAsInt("MAX_UPLOAD_BYTES", 5*1024*1024),
		},
		Writer: WriterConfig{
			Port:                     getEnv("WRITER_PORT", "8501"),
			GenerationEndpointURL:    getEnv("GENERATION_ENDPOINT_URL", "http://localhost:8501/generate_blog"),
			SummarizationEndpointURL: getEnv("SUMMARIZATION_ENDPOINT_URL", "http://localhost:8501/summarize"),
			ResourceBaseURL:          getEnv("RESOURCE_BASE_URL", "http://localhost:3000"),
		},
		Ai: AIConfig{
			LLMProvider:        getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:           getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			HuggingFaceAPIKey:  getEnv("HUGGING_FACE_API_KEY", ""),
			HuggingFaceBaseURL: getEnv("HUGGING_FACE_BASE_URL", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "AI Blog"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
