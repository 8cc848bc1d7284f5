package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	shopAuth "github.com/MrEthical07/shopAuth"
	"github.com/MrEthical07/shopAuth/mail"
	"github.com/joho/godotenv"
)

type serverConfig struct {
	Addr        string
	DatabaseURL string
	RedisURL    string
	SMTP        mail.SMTPConfig
	Auth        shopAuth.Config
	Migrate     bool
}

// loadConfig reads .env (if present) and the process environment.
func loadConfig() (serverConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("shopauth-server: .env not loaded: %v", err)
	}
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (serverConfig, error) {
	env := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}

	cfg := serverConfig{
		Addr:        env("HTTP_ADDR", ":8080"),
		DatabaseURL: getenv("DATABASE_URL"),
		RedisURL:    env("REDIS_URL", "redis://localhost:6379/0"),
		SMTP: mail.SMTPConfig{
			Host:     env("SMTP_HOST", "localhost"),
			Username: getenv("SMTP_USER"),
			Password: getenv("SMTP_PASS"),
			From:     env("SMTP_FROM", "no-reply@localhost"),
		},
		Auth: shopAuth.DefaultConfig(),
	}
	if cfg.DatabaseURL == "" {
		return serverConfig{}, errors.New("DATABASE_URL is required")
	}

	port, err := strconv.Atoi(env("SMTP_PORT", "587"))
	if err != nil {
		return serverConfig{}, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	cfg.SMTP.Port = port

	cfg.Auth.JWT.AccessSecret = []byte(getenv("ACCESS_TOKEN_SECRET"))
	cfg.Auth.JWT.RefreshSecret = []byte(getenv("REFRESH_TOKEN_SECRET"))

	if v := getenv("COOKIE_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return serverConfig{}, fmt.Errorf("invalid COOKIE_SECURE: %w", err)
		}
		cfg.Auth.Cookie.Secure = secure
	}
	if v := getenv("ACCESS_TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return serverConfig{}, fmt.Errorf("invalid ACCESS_TOKEN_TTL: %w", err)
		}
		cfg.Auth.JWT.AccessTTL = ttl
	}
	cfg.Auth.Audit.Enabled = true
	if v := getenv("AUDIT_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return serverConfig{}, fmt.Errorf("invalid AUDIT_ENABLED: %w", err)
		}
		cfg.Auth.Audit.Enabled = enabled
	}
	if v := getenv("DB_MIGRATE"); v != "" {
		cfg.Migrate, _ = strconv.ParseBool(v)
	}

	if err := cfg.Auth.Validate(); err != nil {
		return serverConfig{}, err
	}
	return cfg, nil
}
