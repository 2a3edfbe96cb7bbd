package config

import (
	"fmt"
	"time"

	"github.com/qs-lzh/movie-booking/internal/util"
)

type Config struct {
	DatabaseDSN string
	Addr        string
	CacheURL    string
	MQURL       string

	SessionTTL     time.Duration
	RequestTimeout time.Duration
	CookieSecure   bool

	AdminPassword string
	Debug         bool
}

func LoadConfig() (*Config, error) {
	if err := util.LoadEnv(); err != nil {
		return nil, err
	}

	sessionTTL, err := util.GetEnvDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	requestTimeout, err := util.GetEnvDuration("REQUEST_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	cookieSecure, err := util.GetEnvBool("COOKIE_SECURE", false)
	if err != nil {
		return nil, fmt.Errorf("invalid COOKIE_SECURE: %w", err)
	}
	debug, err := util.GetEnvBool("DEBUG", false)
	if err != nil {
		return nil, fmt.Errorf("invalid DEBUG: %w", err)
	}

	return &Config{
		DatabaseDSN:    util.GetEnv("DATABASE_DSN", ""),
		Addr:           util.GetEnv("ADDR", ":8080"),
		CacheURL:       util.GetEnv("CACHE_URL", "localhost:6379"),
		MQURL:          util.GetEnv("RABBIT_MQ_URL", ""),
		SessionTTL:     sessionTTL,
		RequestTimeout: requestTimeout,
		CookieSecure:   cookieSecure,
		AdminPassword:  util.GetEnv("ADMIN_PASSWORD", "adminpass"),
		Debug:          debug,
	}, nil
}
