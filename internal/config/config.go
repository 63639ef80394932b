package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultDatabaseURL = "file:./todo.sqlite"

type Config struct {
	AppPort         string
	DatabaseURL     string
	DbDebug         bool
	TrustedProxies  []string
	ShutdownTimeout time.Duration
	ApiURL          string
	Lang            string
}

func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		AppPort:         getEnv("APP_PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", DefaultDatabaseURL),
		DbDebug:         getEnv("DB_DEBUG", "false") == "true",
		TrustedProxies:  parseTrustedProxies(os.Getenv("TRUSTED_PROXIES")),
		ShutdownTimeout: parseDuration(os.Getenv("SHUTDOWN_TIMEOUT"), 15*time.Second),
		ApiURL:          getEnv("TODO_API_URL", "http://localhost:8080"),
		Lang:            getEnv("APP_LANG", "en"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseTrustedProxies(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	proxies := make([]string, 0, len(parts))
	for _, part := range parts {
		proxy := strings.TrimSpace(part)
		if proxy == "" {
			continue
		}
		proxies = append(proxies, proxy)
	}

	if len(proxies) == 0 {
		return nil
	}

	return proxies
}
