package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	Ai      AIConfig
	Otel    OtelConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	NatsEnabled        bool
	RedisURL           string
}

type StorageConfig struct {
	Backend           string // memory, redis or postgres
	Connection        string // postgres DSN
	RedisPrefix       string
	LedgerKey         string
	RevisionRetention int
	VerboseSQL        bool
}

type AIConfig struct {
	ProviderOrder    string // e.g. "gemini,ollama"
	GoogleGemini     string
	GeminiModel      string
	GeminiImageModel string
	GeminiBaseURL    string
	OllamaBaseURL    string
	OllamaModel      string
}

type OtelConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/ledger.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			NatsEnabled:        getEnvAsBool("NATS_ENABLED", false),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Storage: StorageConfig{
			Backend:           strings.ToLower(getEnv("STORAGE_BACKEND", StorageMemory)),
			Connection:        getEnv("DB_CONNECTION_STRING", ""),
			RedisPrefix:       getEnv("REDIS_KEY_PREFIX", "ledger:"),
			LedgerKey:         getEnv("LEDGER_STORAGE_KEY", "steno_ledger_integrated_v1"),
			RevisionRetention: getEnvAsInt("LEDGER_REVISION_RETENTION", 20),
			VerboseSQL:        getEnvAsBool("DB_VERBOSE", false),
		},
		Ai: AIConfig{
			ProviderOrder:    getEnv("LLM_PROVIDER_ORDER", "gemini,ollama"),
			GoogleGemini:     getEnv("GOOGLE_GEMINI_API_KEY", ""),
			GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			GeminiImageModel: getEnv("GEMINI_IMAGE_MODEL", "imagen-4.0-generate-001"),
			GeminiBaseURL:    getEnv("GEMINI_BASE_URL", ""),
			OllamaBaseURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:      getEnv("OLLAMA_MODEL", "llama3"),
		},
		Otel: OtelConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "project-ledger-backend"),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
