package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr  string
	BaseURL     string
	TLSCertFile string // TLS is served when both cert and key are set
	TLSKeyFile  string

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Site content
	SiteConfigFile string // YAML with brand, services, markets

	// Visitor counter. Backend precedence: REST KV, Redis, Postgres, file.
	CounterRESTURL   string // env: UPSTASH_REDIS_REST_URL
	CounterRESTToken string // env: UPSTASH_REDIS_REST_TOKEN
	RedisURL         string
	DatabaseURL      string
	CounterKey       string
	CounterFile      string // relative to the working directory
	CounterTimeout   time.Duration

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPTLS      string // "starttls", "tls" or "none"
	SMTPFrom     string
	SMTPFromName string
	SMTPTimeout  time.Duration

	// Fixed recipient of every inquiry notification
	BusinessEmail string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	smtpUser := getEnv("SMTP_USER", "")

	return &Config{
		Env:            getEnv("ENV", "development"),
		ServerAddr:     getEnv("SERVER_ADDR", ":3000"),
		BaseURL:        getEnv("BASE_URL", "http://localhost:3000"),
		TLSCertFile:    getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:     getEnv("TLS_KEY_FILE", ""),
		CORSOrigins:    getEnv("CORS_ORIGINS", ""),
		SiteConfigFile: getEnv("SITE_CONFIG_FILE", "site.yaml"),

		CounterRESTURL:   getEnv("UPSTASH_REDIS_REST_URL", ""),
		CounterRESTToken: getEnv("UPSTASH_REDIS_REST_TOKEN", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		CounterKey:       getEnv("VISITOR_COUNTER_KEY", "visitor_count"),
		CounterFile:      getEnv("VISITOR_COUNTER_FILE", "data/visitor-counter.json"),
		CounterTimeout:   getEnvDuration("COUNTER_TIMEOUT", 10*time.Second),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: smtpUser,
		SMTPPassword: getEnv("SMTP_PASS", ""),
		SMTPTLS:      getEnv("SMTP_TLS", "starttls"),
		SMTPFrom:     getEnv("SMTP_FROM", smtpUser),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Hemkey"),
		SMTPTimeout:  getEnvDuration("SMTP_TIMEOUT", 15*time.Second),

		BusinessEmail: getEnv("BUSINESS_EMAIL", "business@hemkey.com"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// TLSEnabled returns true when the server should listen with TLS.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// IsRESTCounterConfigured returns true when both the KV endpoint and its token are set.
func (c *Config) IsRESTCounterConfigured() bool {
	return c.CounterRESTURL != "" && c.CounterRESTToken != ""
}

// IsEmailConfigured returns true when SMTP credentials are present.
// Host and port always have defaults, so credentials decide.
func (c *Config) IsEmailConfigured() bool {
	return c.SMTPUsername != "" && c.SMTPPassword != ""
}

// SMTPAddr returns host:port of the mail transport.
func (c *Config) SMTPAddr() string {
	return c.SMTPHost + ":" + strconv.Itoa(c.SMTPPort)
}
