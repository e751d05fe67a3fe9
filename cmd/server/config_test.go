package main

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("HOTEL_ENV", "")
	t.Setenv("HOTEL_CSRF_KEY", "")
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.DBPath != "hotel.db" || cfg.ImageDir != "room-images" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Production() {
		t.Error("default env should not be production")
	}
	if len(cfg.CSRFKey) != 32 {
		t.Errorf("generated CSRF key has %d bytes, want 32", len(cfg.CSRFKey))
	}
	if cfg.OutboxInterval != time.Minute {
		t.Errorf("OutboxInterval = %v", cfg.OutboxInterval)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("HOTEL_ENV", "production")
	t.Setenv("HOTEL_CSRF_KEY", strings.Repeat("ab", 32))
	t.Setenv("HOTEL_SLOW_QUERY_MS", "250")
	t.Setenv("HOTEL_SLOW_REQUEST_MS", "800")
	t.Setenv("HOTEL_RATE_LIMIT", "50")
	t.Setenv("HOTEL_TRUSTED_ORIGINS", "hotel.example.com, admin.hotel.example.com ,")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if !cfg.Production() {
		t.Error("expected production")
	}
	if cfg.CSRFKey[0] != 0xab {
		t.Errorf("CSRF key not decoded: %x", cfg.CSRFKey[:2])
	}
	if cfg.SlowQuery != 250*time.Millisecond || cfg.SlowRequest != 800*time.Millisecond {
		t.Errorf("thresholds = %v, %v", cfg.SlowQuery, cfg.SlowRequest)
	}
	if cfg.RateLimit != 50 {
		t.Errorf("RateLimit = %d", cfg.RateLimit)
	}
	if len(cfg.TrustedOrigins) != 2 || cfg.TrustedOrigins[1] != "admin.hotel.example.com" {
		t.Errorf("TrustedOrigins = %q", cfg.TrustedOrigins)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"production without csrf key", map[string]string{"HOTEL_ENV": "production", "HOTEL_CSRF_KEY": ""}},
		{"short csrf key", map[string]string{"HOTEL_CSRF_KEY": "abcd"}},
		{"non-hex csrf key", map[string]string{"HOTEL_CSRF_KEY": strings.Repeat("zz", 32)}},
		{"negative slow query", map[string]string{"HOTEL_SLOW_QUERY_MS": "-5"}},
		{"text rate limit", map[string]string{"HOTEL_RATE_LIMIT": "lots"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := loadConfig(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestCSRFKey_ProductionRequired(t *testing.T) {
	if _, err := csrfKey("", true); !errors.Is(err, errCSRFKeyRequired) {
		t.Errorf("err = %v, want errCSRFKeyRequired", err)
	}
}

func TestRootCmd_Commands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "create-admin", "export-stats", "backup"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}
