package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported generation API providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// Generation API
	LLMProvider     string
	LLMModel        string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	OllamaHost      string
	GenerateTimeout time.Duration

	// Cron endpoint auth. Empty secret means every cron request is denied.
	CronSecret string

	// Pipeline guardrails
	DailyBudgetUSD   float64
	MaxBatchSize     int
	MaxAttempts      int
	RunDeadline      time.Duration
	BrandVoiceMin    int
	TitleSimilarity  float64
	BreakerThreshold int
	BreakerCooldown  time.Duration

	// Strategy document for coverage sync
	StrategyPath string

	// HTTP server
	ServerPort string
	SiteURL    string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
// Guardrail values are policy knobs with conservative defaults; they are
// enforced consistently wherever the pipeline consults them.
func Load() Config {
	return Config{
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "starsite"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "content"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		LLMProvider:     getEnv("LLM_PROVIDER", "openai"),
		LLMModel:        getEnv("LLM_MODEL", "gpt-4o-mini"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		GenerateTimeout: getDuration("GENERATE_TIMEOUT", 90*time.Second),

		CronSecret: os.Getenv("CRON_SECRET"),

		DailyBudgetUSD:   getFloat("DAILY_BUDGET_USD", 5.0),
		MaxBatchSize:     getInt("MAX_BATCH_SIZE", 10),
		MaxAttempts:      getInt("MAX_ATTEMPTS", 3),
		RunDeadline:      getDuration("RUN_DEADLINE", 4*time.Minute),
		BrandVoiceMin:    getInt("BRAND_VOICE_MIN", 60),
		TitleSimilarity:  getFloat("TITLE_SIMILARITY", 0.8),
		BreakerThreshold: getInt("BREAKER_THRESHOLD", 3),
		BreakerCooldown:  getDuration("BREAKER_COOLDOWN", 5*time.Minute),

		StrategyPath: getEnv("STRATEGY_PATH", "strategy.yaml"),

		ServerPort: getEnv("SERVER_PORT", "8080"),
		SiteURL:    getEnv("SITE_URL", "https://thestarrconspiracy.com"),

		LogFile:  getEnv("STARSITE_LOG_FILE", "/tmp/starsite.log"),
		LogLevel: parseLogLevel(getEnv("STARSITE_LOG_LEVEL", "INFO")),
	}
}

// HasGenerationKey reports whether the configured provider has credentials.
// Ollama needs no key.
func (c Config) HasGenerationKey() bool {
	switch c.LLMProvider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey != ""
	case ProviderAnthropic:
		return c.AnthropicAPIKey != ""
	case ProviderOllama:
		return true
	default:
		return false
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
