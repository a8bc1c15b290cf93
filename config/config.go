package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	MongoURI      string
	MongoDatabase string

	CORSOrigins []string

	SMTPHost  string
	SMTPPort  int
	EmailUser string
	EmailPass string
	EmailFrom string

	PasswordScheme string

	RedisAddr       string
	RedisPassword   string
	CatalogCacheTTL time.Duration

	GCSBucket          string
	GCSCredentialsFile string

	OmisePublicKey string
	OmiseSecretKey string
	OmiseCurrency  string

	VATRate float64

	CartPurgeSchedule string
	CartRetention     time.Duration

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[CONFIG] .env not loaded:", err)
	}
	return FromEnv()
}

// FromEnv builds Config from the environment without touching .env.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		MongoURI:           getEnvOrDefault("MONGODB_URI", ""),
		MongoDatabase:      getEnvOrDefault("MONGODB_DATABASE", "NunesAuto"),
		CORSOrigins:        splitList(getEnvOrDefault("CORS_ORIGINS", "http://localhost:3000")),
		SMTPHost:           getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:           getIntEnv("SMTP_PORT", 465),
		EmailUser:          getEnvOrDefault("EMAIL_USER", ""),
		EmailPass:          getEnvOrDefault("EMAIL_PASS", ""),
		EmailFrom:          getEnvOrDefault("EMAIL_FROM", ""),
		PasswordScheme:     getEnvOrDefault("PASSWORD_SCHEME", "base64"),
		RedisAddr:          getEnvOrDefault("REDIS_ADDR", ""),
		RedisPassword:      getEnvOrDefault("REDIS_PASSWORD", ""),
		CatalogCacheTTL:    getDurationEnv("CATALOG_CACHE_TTL", 10*time.Minute),
		GCSBucket:          getEnvOrDefault("GCS_BUCKET", ""),
		GCSCredentialsFile: getEnvOrDefault("GOOGLE_APPLICATION_CREDENTIALS", ""),
		OmisePublicKey:     getEnvOrDefault("OMISE_PUBLIC_KEY", ""),
		OmiseSecretKey:     getEnvOrDefault("OMISE_SECRET_KEY", ""),
		OmiseCurrency:      getEnvOrDefault("OMISE_CURRENCY", "thb"),
		VATRate:            getFloatEnv("VAT_RATE", 0.15),
		CartPurgeSchedule:  getEnvOrDefault("CART_PURGE_SCHEDULE", "0 3 * * *"),
		CartRetention:      getDurationEnv("CART_RETENTION", 30*24*time.Hour),
		RequestTimeout:     getDurationEnv("REQUEST_TIMEOUT", 5*time.Second),
		ShutdownTimeout:    getDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.MongoURI == "" {
		return cfg, errors.New("MONGODB_URI not set")
	}
	return cfg, nil
}

// MailEnabled reports whether SMTP credentials are present.
func (c Config) MailEnabled() bool {
	return c.EmailUser != "" && c.EmailPass != ""
}

func (c Config) PaymentsEnabled() bool {
	return c.OmisePublicKey != "" && c.OmiseSecretKey != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
		log.Printf("[CONFIG] invalid %s=%q, using %d", key, value, defaultValue)
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil && parsed >= 0 {
			return parsed
		}
		log.Printf("[CONFIG] invalid %s=%q, using %v", key, value, defaultValue)
	}
	return defaultValue
}

// getDurationEnv accepts Go durations ("90s", "720h").
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
		log.Printf("[CONFIG] invalid %s=%q, using %s", key, value, defaultValue)
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
