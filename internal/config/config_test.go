package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestReadConfig(t *testing.T) {
	var (
		err         error
		projectRoot string
	)

	// Get the project root by going up from internal/config
	projectRoot, err = filepath.Abs("../../")
	if err != nil {
		t.Fatalf("failed to get project root: %v", err)
	}

	configPath := filepath.Join(projectRoot, "etc") + string(filepath.Separator)

	var cfg Config

	cfg, err = ReadConfig(configPath)
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	// Test basic config fields
	if cfg.Title == "" {
		t.Error("Config.Title should not be empty")
	}

	if cfg.Webserver.Port == 0 {
		t.Error("Webserver.Port should not be 0")
	}

	if cfg.Webserver.URL == "" {
		t.Error("Webserver.URL should not be empty")
	}

	if cfg.EncryptionKey == "" {
		t.Error("EncryptionKey should not be empty")
	}

	// Test DB config
	if cfg.DB.Host == "" {
		t.Error("DB.Host should not be empty")
	}

	if cfg.DB.GormEngine != EngineMySQL && cfg.DB.GormEngine != EnginePostgres && cfg.DB.GormEngine != EngineSQLite {
		t.Errorf("DB.GormEngine %q is not a supported engine", cfg.DB.GormEngine)
	}

	// Defaults are applied
	if cfg.Webserver.ShutDownTime == 0 {
		t.Error("Webserver.ShutDownTime default was not applied")
	}

	if cfg.Webserver.Session.ExpiryTime != 8*time.Hour {
		t.Errorf("Session.ExpiryTime = %v, want 8h", cfg.Webserver.Session.ExpiryTime)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		EncryptionKey: "k",
		Webserver:     Webserver{Port: 8080, URL: "http://localhost:8080"},
	}

	if err := validate(&valid); err != nil {
		t.Fatalf("validate() on valid config: %v", err)
	}

	if valid.DB.GormEngine != EngineMySQL {
		t.Errorf("GormEngine default = %q, want %q", valid.DB.GormEngine, EngineMySQL)
	}

	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:    "zero port",
			mutate:  func(c *Config) { c.Webserver.Port = 0 },
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name:    "empty url",
			mutate:  func(c *Config) { c.Webserver.URL = "" },
			wantErr: ErrEmptyURL,
		},
		{
			name:    "empty encryption key",
			mutate:  func(c *Config) { c.EncryptionKey = "" },
			wantErr: ErrEmptyEncryptionKey,
		},
		{
			name:    "unknown engine",
			mutate:  func(c *Config) { c.DB.GormEngine = "oracle" },
			wantErr: ErrUnknownGormEngine,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{
				EncryptionKey: "k",
				Webserver:     Webserver{Port: 8080, URL: "http://localhost:8080"},
			}
			tc.mutate(&cfg)

			err := validate(&cfg)
			if err == nil {
				t.Fatal("validate() expected an error")
			}

			if !strings.Contains(err.Error(), tc.wantErr.Error()) {
				t.Errorf("validate() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestDumpConfig(t *testing.T) {
	cfg := Config{
		Title:         "test",
		EncryptionKey: "k",
		Webserver:     Webserver{Port: 8080, URL: "http://localhost:8080"},
	}

	out, err := DumpConfig(cfg)
	if err != nil {
		t.Fatalf("DumpConfig() error = %v", err)
	}

	if !strings.Contains(out, "Title = \"test\"") {
		t.Errorf("DumpConfig() output missing title: %s", out)
	}

	jsonOut, err := DumpConfigJSON(cfg)
	if err != nil {
		t.Fatalf("DumpConfigJSON() error = %v", err)
	}

	if !strings.Contains(jsonOut, "\"Title\": \"test\"") {
		t.Errorf("DumpConfigJSON() output missing title: %s", jsonOut)
	}
}
