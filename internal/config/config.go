// internal/config/config.go
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort     string
	DBConn         string
	OperatorSecret string
	DefaultProfile string
	TelegramToken  string
	OTLPEndpoint   string
	ServiceName    string
	LogLevel       slog.Level
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// MustLoad reads .env (if present) and the environment. Empty DATABASE_URL
// means profiles are kept in memory; empty OTEL_EXPORTER_OTLP_ENDPOINT
// disables export.
func MustLoad() Config {
	_ = godotenv.Load()

	return Config{
		ServerPort:     ":" + getEnv("PORT", "8080"),
		DBConn:         os.Getenv("DATABASE_URL"),
		OperatorSecret: getEnv("OPERATOR_SECRET", "$ecr@t"),
		DefaultProfile: getEnv("CASHBACK_PROFILE", "low"),
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:    getEnv("SERVICE_NAME", "cashback-chain"),
		LogLevel:       parseLevel(getEnv("LOG_LEVEL", "info")),
	}
}
