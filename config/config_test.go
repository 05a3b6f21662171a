package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("JWT_TTL", "not-a-duration")
	t.Setenv("MEDIA_URL", "/files/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "abc")

	cfg := Load()

	if cfg.Port != "9000" || cfg.Addr() != ":9000" {
		t.Errorf("port = %q, addr = %q", cfg.Port, cfg.Addr())
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.DBDriver)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Errorf("ttl = %v, want fallback 24h", cfg.JWTTTL)
	}
	if cfg.MediaURL != "/files" {
		t.Errorf("media url = %q", cfg.MediaURL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.test" {
		t.Errorf("origins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitPerMinute != 300 {
		t.Errorf("rate limit = %d, want fallback 300", cfg.RateLimitPerMinute)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		DBDriver:  "postgres",
		DBURL:     "postgres://localhost/foodgram",
		JWTSecret: "secret",
		JWTTTL:    time.Hour,
		GinMode:   "release",
		MediaURL:  "/media",
		LogFormat: "json",
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad driver", mutate: func(c *Config) { c.DBDriver = "mysql" }, wantErr: "DB_DRIVER"},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET"},
		{name: "bad format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "LOG_FORMAT"},
		{name: "bad gin mode", mutate: func(c *Config) { c.GinMode = "prod" }, wantErr: "GIN_MODE"},
		{name: "root media url", mutate: func(c *Config) { c.MediaURL = "" }, wantErr: "MEDIA_URL"},
		{name: "negative rate", mutate: func(c *Config) { c.RateLimitPerMinute = -1 }, wantErr: "RATE_LIMIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("FOODGRAM_TEST_KEY", "value")
	if got := GetEnv("FOODGRAM_TEST_KEY", "fallback"); got != "value" {
		t.Errorf("GetEnv = %q", got)
	}
	if got := GetEnv("FOODGRAM_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("GetEnv missing = %q", got)
	}
	t.Setenv("FOODGRAM_TEST_INT", " 42 ")
	if got := GetEnvInt("FOODGRAM_TEST_INT", 1); got != 42 {
		t.Errorf("GetEnvInt = %d", got)
	}
}
