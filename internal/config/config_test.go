package config

import (
	"strings"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if !cfg.IsSQLite() {
		t.Errorf("DatabaseType = %q, want sqlite", cfg.DatabaseType)
	}
	if cfg.GameTTL != 120*time.Second {
		t.Errorf("GameTTL = %v, want 2m0s", cfg.GameTTL)
	}
	if cfg.SessionTTL != 180*24*time.Hour {
		t.Errorf("SessionTTL = %v, want 180 days", cfg.SessionTTL)
	}

	d := cfg.SessionDefaults()
	if d.RangeMax != 20 || d.HardMode || d.Language != "en" {
		t.Errorf("SessionDefaults() = %+v, want {20 false en}", d)
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_RANGE", "100")
	t.Setenv("DEFAULT_HARD_MODE", "true")
	t.Setenv("DEFAULT_LANGUAGE", "de")
	t.Setenv("GAME_TTL", "5m")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.ServerPort != "9090" || cfg.GameTTL != 5*time.Minute || cfg.LogFormat != "json" {
		t.Errorf("Parse() = %+v", cfg)
	}
	d := cfg.SessionDefaults()
	if d.RangeMax != 100 || !d.HardMode || d.Language != "de" {
		t.Errorf("SessionDefaults() = %+v, want {100 true de}", d)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"zero range", map[string]string{"DEFAULT_RANGE": "0"}, "DefaultRange"},
		{"unknown database", map[string]string{"DATABASE_TYPE": "oracle"}, "DatabaseType"},
		{"bad language", map[string]string{"DEFAULT_LANGUAGE": "not a tag"}, "DefaultLanguage"},
		{"short csrf secret", map[string]string{"CSRF_SECRET": "short"}, "CSRFSecret"},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}, "LogLevel"},
		{"non-numeric port", map[string]string{"PORT": "http"}, "ServerPort"},
		{"postgres without url", map[string]string{"DATABASE_TYPE": "postgres"}, "DATABASE_URL"},
		{"unparsable ttl", map[string]string{"GAME_TTL": "soon"}, "GameTTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Parse()
			if err == nil {
				t.Fatal("Parse() error = nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
