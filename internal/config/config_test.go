package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMustLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_URL", "OPERATOR_SECRET", "CASHBACK_PROFILE", "TELEGRAM_BOT_TOKEN", "OTEL_EXPORTER_OTLP_ENDPOINT", "SERVICE_NAME", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := MustLoad()

	assert.Equal(t, ":8080", cfg.ServerPort)
	assert.Empty(t, cfg.DBConn)
	assert.Equal(t, "$ecr@t", cfg.OperatorSecret)
	assert.Equal(t, "low", cfg.DefaultProfile)
	assert.Equal(t, "cashback-chain", cfg.ServiceName)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestMustLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "10000")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/cashback")
	t.Setenv("OPERATOR_SECRET", "s3cret")
	t.Setenv("CASHBACK_PROFILE", "high")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := MustLoad()

	assert.Equal(t, ":10000", cfg.ServerPort)
	assert.Equal(t, "postgres://localhost:5432/cashback", cfg.DBConn)
	assert.Equal(t, "s3cret", cfg.OperatorSecret)
	assert.Equal(t, "high", cfg.DefaultProfile)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestParseLevel_FallsBackToInfo(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, parseLevel("loud"))
}
