package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// API Settings
	APITitle   string
	APIVersion string
	APIPrefix  string
	Port       string

	// CORS
	CORSOrigins []string

	// Logging
	LogLevel  string
	LogFormat string

	// Storage: "sqlite" or "postgres"
	DBDriver    string
	DatabaseURL string

	// Upstream content APIs
	QuranAPIURL     string
	TafsirAPIURL    string
	HadithAPIURL    string
	UpstreamTimeout time.Duration
	UpstreamRPS     float64
	DefaultEditions string
	DefaultTafsirID int

	// Corpus cache and preload
	CacheTTL       time.Duration
	PreloadEnabled bool
	PreloadEdition string
	PreloadPause   time.Duration

	// Matching thresholds
	SearchThreshold float64
	LocalThreshold  float64
	GlobalThreshold float64
	JumpCooldown    time.Duration

	// Embeddings for meaning search: "none", "custom" or "vertex"
	EmbeddingProvider   string
	EmbeddingServiceURL string
	EmbeddingDimensions int
	MeaningEdition      string

	// Vertex AI (when EmbeddingProvider = "vertex")
	GCPProjectID string
	GCPLocation  string
	VertexModel  string
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the singleton configuration instance
func GetConfig() *Config {
	once.Do(func() {
		config = loadConfig()
	})
	return config
}

func loadConfig() *Config {
	return &Config{
		APITitle:    getEnv("API_TITLE", "Quran Reader API"),
		APIVersion:  getEnv("API_VERSION", "1.0.0"),
		APIPrefix:   getEnv("API_PREFIX", "/api"),
		Port:        getEnv("PORT", "5000"),
		CORSOrigins: parseCORSOrigins(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		DBDriver:    getEnv("DB_DRIVER", "sqlite"),
		DatabaseURL: getEnv("DATABASE_URL", "file:quran-reader.db?_pragma=foreign_keys(1)"),

		QuranAPIURL:     getEnv("QURAN_API_URL", "https://api.alquran.cloud/v1"),
		TafsirAPIURL:    getEnv("TAFSIR_API_URL", "http://api.quran-tafseer.com"),
		HadithAPIURL:    getEnv("HADITH_API_URL", "https://cdn.jsdelivr.net/gh/fawazahmed0/hadith-api@1"),
		UpstreamTimeout: getEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		UpstreamRPS:     getEnvFloat("UPSTREAM_RPS", 10),
		DefaultEditions: getEnv("DEFAULT_EDITIONS", "quran-uthmani,en.sahih,ar.alafasy"),
		DefaultTafsirID: getEnvInt("DEFAULT_TAFSIR_ID", 1),

		CacheTTL:       getEnvDuration("CACHE_TTL", time.Hour),
		PreloadEnabled: getEnvBool("PRELOAD_ENABLED", true),
		PreloadEdition: getEnv("PRELOAD_EDITION", "quran-simple"),
		PreloadPause:   getEnvDuration("PRELOAD_PAUSE", time.Second),

		SearchThreshold: getEnvFloat("SEARCH_THRESHOLD", 0.4),
		LocalThreshold:  getEnvFloat("LOCAL_THRESHOLD", 0.55),
		GlobalThreshold: getEnvFloat("GLOBAL_THRESHOLD", 0.62),
		JumpCooldown:    getEnvDuration("JUMP_COOLDOWN", 850*time.Millisecond),

		EmbeddingProvider:   getEnv("EMBEDDING_PROVIDER", "none"),
		EmbeddingServiceURL: getEnv("EMBEDDING_SERVICE_URL", "http://localhost:8001"),
		EmbeddingDimensions: getEnvInt("EMBEDDING_DIMENSIONS", 768),
		MeaningEdition:      getEnv("MEANING_EDITION", "en.sahih"),

		GCPProjectID: getEnv("GCP_PROJECT_ID", ""),
		GCPLocation:  getEnv("GCP_LOCATION", "us-central1"),
		VertexModel:  getEnv("VERTEX_MODEL", "text-embedding-005"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return i
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return defaultValue
		}
		return f
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return b
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue
		}
		return d
	}
	return defaultValue
}

func parseCORSOrigins(value string) []string {
	var origins []string
	if err := json.Unmarshal([]byte(value), &origins); err == nil {
		return origins
	}
	parts := strings.Split(value, ",")
	origins = make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
