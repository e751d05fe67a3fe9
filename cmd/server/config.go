package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process configuration, read from HOTEL_* environment variables.
type Config struct {
	Addr           string
	DBPath         string
	Env            string
	AdminEmail     string
	AdminPassword  string
	CSRFKey        []byte
	TrustedOrigins []string
	ResendKey      string
	EmailFrom      string
	ReplyTo        string
	ImageDir       string
	SlowQuery      time.Duration
	SlowRequest    time.Duration
	RateLimit      int
	OutboxInterval time.Duration
}

// Production reports whether the server runs with production hardening.
func (c Config) Production() bool {
	return c.Env == "production"
}

var errCSRFKeyRequired = errors.New("HOTEL_CSRF_KEY is required in production (64 hex characters)")

// loadConfig reads the environment. Durations are given in milliseconds.
func loadConfig() (Config, error) {
	cfg := Config{
		Addr:           envOrDefault("HOTEL_ADDR", ":8080"),
		DBPath:         envOrDefault("HOTEL_DB", "hotel.db"),
		Env:            envOrDefault("HOTEL_ENV", "development"),
		AdminEmail:     envOrDefault("HOTEL_ADMIN_EMAIL", "admin@hotel.local"),
		AdminPassword:  os.Getenv("HOTEL_ADMIN_PASSWORD"),
		ResendKey:      os.Getenv("HOTEL_RESEND_KEY"),
		EmailFrom:      envOrDefault("HOTEL_RESEND_FROM", "Hotel <noreply@hotel.local>"),
		ReplyTo:        envOrDefault("HOTEL_REPLY_TO", "recepce@hotel.local"),
		ImageDir:       envOrDefault("HOTEL_IMAGE_DIR", "room-images"),
		OutboxInterval: time.Minute,
	}

	if v := os.Getenv("HOTEL_TRUSTED_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.TrustedOrigins = append(cfg.TrustedOrigins, o)
			}
		}
	}

	var err error
	if cfg.SlowQuery, err = envMillis("HOTEL_SLOW_QUERY_MS"); err != nil {
		return Config{}, err
	}
	if cfg.SlowRequest, err = envMillis("HOTEL_SLOW_REQUEST_MS"); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("HOTEL_RATE_LIMIT"); v != "" {
		if cfg.RateLimit, err = strconv.Atoi(v); err != nil || cfg.RateLimit < 0 {
			return Config{}, fmt.Errorf("HOTEL_RATE_LIMIT: %q is not a non-negative integer", v)
		}
	}

	if cfg.CSRFKey, err = csrfKey(os.Getenv("HOTEL_CSRF_KEY"), cfg.Production()); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// csrfKey decodes a 32-byte hex key. Outside production a missing key is generated,
// which invalidates forms on restart.
func csrfKey(raw string, production bool) ([]byte, error) {
	if raw == "" {
		if production {
			return nil, errCSRFKeyRequired
		}
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
		log.Println("HOTEL_CSRF_KEY not set, using a random key for this run")
		return key, nil
	}
	key, err := hex.DecodeString(raw)
	if err != nil || len(key) != 32 {
		return nil, fmt.Errorf("HOTEL_CSRF_KEY must be 64 hex characters")
	}
	return key, nil
}

func envMillis(key string) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms < 0 {
		return 0, fmt.Errorf("%s: %q is not a non-negative number of milliseconds", key, v)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
