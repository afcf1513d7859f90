package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the process settings. Trello credentials are not part of it:
// they are read from the environment on every submission.
type Config struct {
	Port            string
	LogLevel        string
	LogFormat       string
	TimeZone        *time.Location
	SessionSecret   []byte
	SessionTTL      time.Duration
	TrelloBaseURL   string
	TrelloTimeout   time.Duration
	SubmitRateLimit float64
	SubmitBurst     int
	CatalogPath     string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("time_zone", "Asia/Tokyo")
	v.SetDefault("session_ttl", "2h")
	v.SetDefault("trello_base_url", "https://api.trello.com")
	v.SetDefault("trello_timeout", "15s")
	v.SetDefault("submit_rate_limit", 5.0)
	v.SetDefault("submit_burst", 10)
	v.SetDefault("catalog_path", "")
	v.SetDefault("session_secret", "")
}

// Load reads .env (when present) into the process environment and builds
// the Config from environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	loc, err := time.LoadLocation(v.GetString("time_zone"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE: %w", err)
	}

	cfg := &Config{
		Port:            v.GetString("port"),
		LogLevel:        v.GetString("log_level"),
		LogFormat:       v.GetString("log_format"),
		TimeZone:        loc,
		SessionTTL:      v.GetDuration("session_ttl"),
		TrelloBaseURL:   v.GetString("trello_base_url"),
		TrelloTimeout:   v.GetDuration("trello_timeout"),
		SubmitRateLimit: v.GetFloat64("submit_rate_limit"),
		SubmitBurst:     v.GetInt("submit_burst"),
		CatalogPath:     v.GetString("catalog_path"),
	}

	if secret := v.GetString("session_secret"); secret != "" {
		cfg.SessionSecret = []byte(secret)
	} else {
		// sessions do not survive a restart anyway
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		cfg.SessionSecret = []byte(hex.EncodeToString(buf))
	}

	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.TrelloTimeout <= 0 {
		return nil, fmt.Errorf("TRELLO_TIMEOUT must be positive, got %s", cfg.TrelloTimeout)
	}
	if cfg.SubmitRateLimit <= 0 || cfg.SubmitBurst <= 0 {
		return nil, fmt.Errorf("SUBMIT_RATE_LIMIT and SUBMIT_BURST must be positive")
	}
	return cfg, nil
}
