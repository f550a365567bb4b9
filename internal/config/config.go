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
	Keys     APIKeys
	Ai       AIConfig
	Rag      RagConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	WorkerLogFilePath  string
	CorsAllowedOrigins string
	JwtSecret          string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
	Verbose    bool
}

type APIKeys struct {
	OpenAI       string
	GoogleGemini string
	Jina         string
}

type AIConfig struct {
	EmbeddingProvider  string // "openai", "ollama", "gemini" or "jina"
	EmbeddingModel     string // empty keeps the provider default
	EmbeddingDimension int
	OpenAIBaseURL      string
	OllamaBaseURL      string
}

type RagConfig struct {
	CandidateStrategy     string // "overfetch", "full" or "pgvector"
	EnforceEmbeddingModel bool
	EmbeddingCache        string // "memory", "redis" or "none"
	EmbeddingCacheTTL     time.Duration
	EmbedTopic            string
	EmbedMaxAttempts      int
	EmbedRequeueAfter     time.Duration // zero disables the startup sweep of lost jobs
	EventsEnabled         bool
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}
	return FromEnv()
}

// FromEnv reads the process environment without touching .env files.
func FromEnv() *Config {
	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			WorkerLogFilePath:  getEnv("WORKER_LOG_FILE_PATH", "logs/embedding_worker.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			Verbose:    getEnvAsBool("DB_LOG_QUERIES", false),
		},
		Keys: APIKeys{
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:     getEnv("EMBEDDING_MODEL", ""),
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 0),
			OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Rag: RagConfig{
			CandidateStrategy:     getEnv("RAG_CANDIDATE_STRATEGY", "overfetch"),
			EnforceEmbeddingModel: getEnvAsBool("RAG_ENFORCE_EMBEDDING_MODEL", false),
			EmbeddingCache:        getEnv("RAG_EMBEDDING_CACHE", "memory"),
			EmbeddingCacheTTL:     getEnvAsDuration("RAG_EMBEDDING_CACHE_TTL", time.Hour),
			EmbedTopic:            getEnv("EMBED_KNOWLEDGE_TOPIC", "EMBED_KNOWLEDGE_ITEM"),
			EmbedMaxAttempts:      getEnvAsInt("EMBED_MAX_ATTEMPTS", 3),
			EmbedRequeueAfter:     getEnvAsDuration("EMBED_REQUEUE_AFTER", 10*time.Minute),
			EventsEnabled:         getEnvAsBool("NATS_EVENTS_ENABLED", true),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "knowledge-rag-backend"),
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
