package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestGetConfigDir validates config directory access
func TestGetConfigDir(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "test_config")); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}

	configDir := GetConfigDir()
	if configDir == "" {
		t.Fatal("Config directory should not be empty")
	}

	if _, err := os.Stat(configDir); err != nil {
		t.Errorf("Config directory should exist: %v", err)
	}
}

// TestInitWithCustomPath validates custom config path
func TestInitWithCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	customConfigPath := filepath.Join(tempDir, "custom", "path", "config.toml")

	if err := Init(customConfigPath); err != nil {
		t.Fatalf("Failed to initialize with custom path: %v", err)
	}

	expectedDir := filepath.Join(tempDir, "custom", "path")
	if GetConfigDir() != expectedDir {
		t.Errorf("Expected config dir %s, got %s", expectedDir, GetConfigDir())
	}
	if GetConfigFilePath() != customConfigPath {
		t.Errorf("Expected config file %s, got %s", customConfigPath, GetConfigFilePath())
	}
}

// TestDefaults validates the documented default values
func TestDefaults(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "config.toml")); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	if got := GetString("api.base_url"); got != "http://localhost:8000" {
		t.Errorf("Expected default base URL 'http://localhost:8000', got '%s'", got)
	}
	if got := GetString("output.format"); got != "text" {
		t.Errorf("Expected default format 'text', got '%s'", got)
	}
	if got := GetString("log.level"); got != "info" {
		t.Errorf("Expected default log level 'info', got '%s'", got)
	}
	if got := GetString("storage.primary.driver"); got != "file" {
		t.Errorf("Expected primary driver 'file', got '%s'", got)
	}
	if got := GetString("storage.backup.driver"); got != "sqlite" {
		t.Errorf("Expected backup driver 'sqlite', got '%s'", got)
	}
	if got := GetInt("store.per_page"); got != 10 {
		t.Errorf("Expected per_page 10, got %d", got)
	}
}

// TestDurationDefaults validates session timing defaults
func TestDurationDefaults(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "config.toml")); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	testCases := []struct {
		key    string
		expect time.Duration
	}{
		{"api.timeout", 30 * time.Second},
		{"session.init_timeout", 3 * time.Second},
		{"session.backup_ttl", 24 * time.Hour},
		{"session.cleared_ttl", 5 * time.Minute},
		{"store.debounce", 300 * time.Millisecond},
	}

	for _, tc := range testCases {
		t.Run(tc.key, func(t *testing.T) {
			if got := GetDuration(tc.key); got != tc.expect {
				t.Errorf("Expected %s=%v, got %v", tc.key, tc.expect, got)
			}
		})
	}
}

// TestGetDurationBareSeconds validates integer durations are read as seconds
func TestGetDurationBareSeconds(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "config.toml")); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	Set("api.timeout", 45)
	if got := GetDuration("api.timeout"); got != 45*time.Second {
		t.Errorf("Expected 45s, got %v", got)
	}
}

// TestUserConfigOverridesDefaults validates the user config file is read
func TestUserConfigOverridesDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")
	content := "[api]\nbase_url = \"https://confess.example.com\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if err := Init(configPath); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	if got := GetString("api.base_url"); got != "https://confess.example.com" {
		t.Errorf("Expected overridden base URL, got '%s'", got)
	}
	if got := GetString("output.format"); got != "text" {
		t.Errorf("Defaults should survive a partial config, got '%s'", got)
	}
}

// TestEnvOverride validates CONFESSBOARD_* variables win over defaults
func TestEnvOverride(t *testing.T) {
	t.Setenv("CONFESSBOARD_OUTPUT_FORMAT", "json")

	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "config.toml")); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	if got := GetString("output.format"); got != "json" {
		t.Errorf("Expected env override 'json', got '%s'", got)
	}
}

// TestStoragePathsUnderConfigDir validates default storage locations
func TestStoragePathsUnderConfigDir(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "config.toml")); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	for _, key := range []string{"storage.primary.path", "storage.backup.path", "log.file"} {
		path := GetString(key)
		if filepath.Dir(path) != tempDir {
			t.Errorf("%s should live under %s, got %s", key, tempDir, path)
		}
	}
}

// TestSetStringPersists validates SetString writes the user config
func TestSetStringPersists(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")
	if err := Init(configPath); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	if err := SetString("api.base_url", "https://api.example.com"); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}

	if err := Init(configPath); err != nil {
		t.Fatalf("Re-init failed: %v", err)
	}
	if got := GetString("api.base_url"); got != "https://api.example.com" {
		t.Errorf("Expected persisted base URL, got '%s'", got)
	}
}

// TestExpandPath validates tilde expansion
func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := expandPath("~/logs/app.log"); got != filepath.Join(home, "logs", "app.log") {
		t.Errorf("Unexpected expansion: %s", got)
	}
	if got := expandPath("/var/log/app.log"); got != "/var/log/app.log" {
		t.Errorf("Absolute path should be untouched: %s", got)
	}
}
