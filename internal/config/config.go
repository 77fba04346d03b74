package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session backends understood by the API binary.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
	SessionBackendBolt   = "bolt"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string
	AppURL   string

	// Page and application information
	PageID          string
	AppID           string
	PageAccessToken string
	AppSecret       string
	VerifyToken     string
	GraphAPIDomain  string
	GraphAPIVersion string
	ShopURL         string
	Locale          string

	// Voiceflow Dialog Manager API
	VoiceflowAPIKey  string
	VoiceflowBaseURL string
	VoiceflowTimeout time.Duration

	// User sessions
	SessionBackend string
	SessionTTL     time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisTLS       bool
	BoltPath       string

	// Delivery
	DeliveryStagger time.Duration

	// Webhook rate limit per source IP; 0 disables it.
	WebhookRateLimit int
	WebhookRateBurst int
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		AppURL:   strings.TrimRight(getEnv("APP_URL", ""), "/"),

		PageID:          getEnv("PAGE_ID", ""),
		AppID:           getEnv("APP_ID", ""),
		PageAccessToken: getEnv("PAGE_ACCESS_TOKEN", ""),
		AppSecret:       getEnv("APP_SECRET", ""),
		VerifyToken:     getEnv("VERIFY_TOKEN", ""),
		GraphAPIDomain:  strings.TrimRight(getEnv("GRAPH_API_DOMAIN", "https://graph.facebook.com"), "/"),
		GraphAPIVersion: getEnv("GRAPH_API_VERSION", "v11.0"),
		ShopURL:         getEnv("SHOP_URL", "https://www.originalcoastclothing.com"),
		Locale:          getEnv("LOCALE", "en_US"),

		VoiceflowAPIKey:  getEnv("VOICEFLOW_API_KEY", ""),
		VoiceflowBaseURL: strings.TrimRight(getEnv("VOICEFLOW_BASE_URL", "https://general-runtime.voiceflow.com"), "/"),
		VoiceflowTimeout: getEnvAsDuration("VOICEFLOW_TIMEOUT", 15*time.Second),

		SessionBackend: strings.ToLower(strings.TrimSpace(getEnv("SESSION_BACKEND", SessionBackendMemory))),
		SessionTTL:     getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisTLS:       getEnvAsBool("REDIS_TLS", false),
		BoltPath:       getEnv("BOLT_PATH", "sessions.db"),

		DeliveryStagger: getEnvAsDuration("DELIVERY_STAGGER", 2*time.Second),

		WebhookRateLimit: getEnvAsInt("WEBHOOK_RATE_LIMIT", 50),
		WebhookRateBurst: getEnvAsInt("WEBHOOK_RATE_BURST", 100),
	}
}

// GraphAPIURL is the versioned base URL for Graph API calls.
func (c *Config) GraphAPIURL() string {
	return fmt.Sprintf("%s/%s", c.GraphAPIDomain, c.GraphAPIVersion)
}

// WebhookURL is the public URL Meta should deliver webhooks to.
func (c *Config) WebhookURL() string {
	return c.AppURL + "/webhook"
}

// MissingRequired returns the names of required variables that are unset.
func (c *Config) MissingRequired() []string {
	var missing []string
	for _, req := range []struct {
		name, val string
	}{
		{"PAGE_ID", c.PageID},
		{"APP_ID", c.AppID},
		{"PAGE_ACCESS_TOKEN", c.PageAccessToken},
		{"APP_SECRET", c.AppSecret},
		{"VERIFY_TOKEN", c.VerifyToken},
	} {
		if req.val == "" {
			missing = append(missing, req.name)
		}
	}
	return missing
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	// Bare integers are read as milliseconds.
	if ms := getEnvAsInt(key, -1); ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
