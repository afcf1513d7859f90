package config

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "TIME_ZONE", "SESSION_SECRET", "SESSION_TTL", "TRELLO_TIMEOUT", "TRELLO_BASE_URL", "SUBMIT_RATE_LIMIT", "SUBMIT_BURST"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "Asia/Tokyo", cfg.TimeZone.String())
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 15*time.Second, cfg.TrelloTimeout)
	assert.Equal(t, "https://api.trello.com", cfg.TrelloBaseURL)
	assert.Equal(t, 5.0, cfg.SubmitRateLimit)
	assert.Equal(t, 10, cfg.SubmitBurst)
	assert.Len(t, cfg.SessionSecret, 64)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("TIME_ZONE", "UTC")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("TRELLO_TIMEOUT", "3s")
	t.Setenv("CATALOG_PATH", "/etc/catalog.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, time.UTC.String(), cfg.TimeZone.String())
	assert.Equal(t, []byte("s3cret"), cfg.SessionSecret)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 3*time.Second, cfg.TrelloTimeout)
	assert.Equal(t, "/etc/catalog.yaml", cfg.CatalogPath)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("TIME_ZONE", "Mars/Olympus")
	_, err := Load()
	assert.ErrorContains(t, err, "TIME_ZONE")

	t.Setenv("TIME_ZONE", "UTC")
	t.Setenv("TRELLO_TIMEOUT", "0s")
	_, err = Load()
	assert.ErrorContains(t, err, "TRELLO_TIMEOUT")
}

func TestLogErrorFields(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	LogError(logger, "trello", "CreateCard", "post card", map[string]int{"status": 401}, errors.New("invalid token"))

	out := buf.String()
	assert.Contains(t, out, `"module":"trello"`)
	assert.Contains(t, out, `"funcName":"CreateCard"`)
	assert.Contains(t, out, `"msg":"invalid token"`)
	assert.Contains(t, out, `"status":401`)
}

func TestConfigureLogger(t *testing.T) {
	defer func() { _ = ConfigureLogger(&Config{LogLevel: "info", LogFormat: "json"}) }()

	require.NoError(t, ConfigureLogger(&Config{LogLevel: "debug", LogFormat: "text"}))
	assert.Equal(t, logrus.DebugLevel, GetLogger().GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, GetLogger().Formatter)

	assert.Error(t, ConfigureLogger(&Config{LogLevel: "loud"}))
}
