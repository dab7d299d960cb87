package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestReadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.json"))

	config, err := readConfig()
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if config.Port != "8000" || config.AppEnv != "development" || config.SessionTTLHours != 12 {
		t.Errorf("unexpected defaults: %+v", config)
	}
	if config.RateLimitRPS != 20 || config.RateLimitBurst != 40 {
		t.Errorf("unexpected rate limit defaults: %+v", config)
	}
}

func TestReadConfigFileAndEnv(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.json")
	data := `{"PORT":"9000","TODAY":"2025-10-01","SESSION_TTL_HOURS":2}`
	if err := os.WriteFile(file, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", file)
	t.Setenv("PORT", "9100")

	config, err := readConfig()
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if config.Port != "9100" {
		t.Errorf("env should override file, got port %s", config.Port)
	}
	if config.SessionTTLHours != 2 {
		t.Errorf("session ttl = %d", config.SessionTTLHours)
	}
	if got := config.clock()(); !got.Equal(day(2025, time.October, 1)) {
		t.Errorf("pinned clock = %v", got)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"development", Config{AppEnv: "development", SessionTTLHours: 1}, false},
		{"bad today", Config{Today: "tomorrow", SessionTTLHours: 1}, true},
		{"prod without secret", Config{AppEnv: "prod", SessionTTLHours: 1}, true},
		{"prod with secret", Config{AppEnv: "prod", SessionSecret: "x", SessionTTLHours: 1}, false},
		{"zero ttl", Config{SessionTTLHours: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadPersonas(t *testing.T) {
	personas, err := loadPersonas("")
	if err != nil {
		t.Fatalf("loadPersonas: %v", err)
	}
	if len(personas) == 0 {
		t.Fatal("expected fixture personas")
	}

	file := filepath.Join(t.TempDir(), "personas.json")
	if err := os.WriteFile(file, []byte(`[{"id":"x","sex":"unknown","age":30}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadPersonas(file); err == nil {
		t.Error("expected validation error")
	}
}
