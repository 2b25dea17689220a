package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App        AppConfig
	Store      StoreConfig
	Classifier ClassifierConfig
	Webhook    WebhookConfig
	Logger     LoggerConfig
	RateLimit  RateLimitConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// StoreConfig locates the durable ticket store.
type StoreConfig struct {
	Path string
}

// ClassifierConfig holds zero-shot classification endpoint values.
type ClassifierConfig struct {
	APIURL                string
	APIToken              string
	TimeoutSeconds        int
	HealthIntervalSeconds int
	ReclassifyCron        string
}

// WebhookConfig holds the outbound automation webhook values.
type WebhookConfig struct {
	URL            string
	TimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// RateLimitConfig bounds per-client request rates.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	rps, err := strconv.ParseFloat(getEnv("RATE_RPS", "10"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_RPS: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "hr-ticket-triage"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Store: StoreConfig{
			Path: getEnv("STORE_PATH", "tickets.json"),
		},
		Classifier: ClassifierConfig{
			APIURL:                getEnv("HUGGINGFACE_API_URL", "https://router.huggingface.co/hf-inference/models/MoritzLaurer/DeBERTa-v3-base-mnli-fever-anli"),
			APIToken:              os.Getenv("HUGGINGFACE_API_TOKEN"),
			TimeoutSeconds:        getEnvAsInt("CLASSIFIER_TIMEOUT_SECONDS", 30),
			HealthIntervalSeconds: getEnvAsInt("AI_HEALTH_INTERVAL_SECONDS", 30),
			ReclassifyCron:        os.Getenv("RECLASSIFY_CRON"),
		},
		Webhook: WebhookConfig{
			URL:            os.Getenv("N8N_WEBHOOK_URL"),
			TimeoutSeconds: getEnvAsInt("WEBHOOK_TIMEOUT_SECONDS", 10),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		RateLimit: RateLimitConfig{
			RPS:   rps,
			Burst: getEnvAsInt("RATE_BURST", 20),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-call classification timeout.
func (c ClassifierConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// HealthInterval returns the delay between routine health probes.
func (c ClassifierConfig) HealthInterval() time.Duration {
	if c.HealthIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.HealthIntervalSeconds) * time.Second
}

// Enabled reports whether outbound webhook dispatch is configured.
func (w WebhookConfig) Enabled() bool {
	return w.URL != ""
}

// Timeout returns the per-delivery webhook timeout.
func (w WebhookConfig) Timeout() time.Duration {
	if w.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(w.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
