package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var configDir string
var configFilePath string

// getConfigDir returns platform-specific config directory
func getConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		// Windows: %LOCALAPPDATA%\confessboard
		appData := os.Getenv("LOCALAPPDATA")
		if appData == "" {
			appData = os.Getenv("APPDATA")
		}
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = home
		}
		return filepath.Join(appData, "confessboard"), nil
	}

	// Unix-like (macOS, Linux): ~/.config/confessboard
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "confessboard"), nil
}

// getSystemConfigPaths returns platform-specific system config paths
func getSystemConfigPaths() []string {
	if runtime.GOOS == "windows" {
		return []string{filepath.Join(os.Getenv("ProgramFiles"), "Confessboard", "config.toml")}
	}

	return []string{
		"/etc/confessboard/config.toml",
		"/usr/local/etc/confessboard/config.toml",
	}
}

// Init initializes the configuration
func Init(configPath string) error {
	var err error
	if configPath != "" {
		configDir = filepath.Dir(configPath)
		configFilePath = configPath
	} else {
		configDir, err = getConfigDir()
		if err != nil {
			return err
		}
		configFilePath = filepath.Join(configDir, "config.toml")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	viper.Reset()
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("CONFESSBOARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// System config is the foundation, user config overrides it
	for _, sysConfigPath := range getSystemConfigPaths() {
		if _, err := os.Stat(sysConfigPath); err == nil {
			viper.SetConfigFile(sysConfigPath)
			_ = viper.ReadInConfig()
			break
		}
	}

	viper.SetConfigFile(configFilePath)
	_ = viper.MergeInConfig()

	return nil
}

func setDefaults() {
	viper.SetDefault("api.base_url", "http://localhost:8000")
	viper.SetDefault("api.timeout", "30s")
	viper.SetDefault("api.user_agent", "Confessboard/0.1.0")

	viper.SetDefault("session.init_timeout", "3s")
	viper.SetDefault("session.backup_ttl", "24h")
	viper.SetDefault("session.cleared_ttl", "5m")

	viper.SetDefault("storage.primary.driver", "file")
	viper.SetDefault("storage.primary.path", filepath.Join(configDir, "state"))
	viper.SetDefault("storage.backup.driver", "sqlite")
	viper.SetDefault("storage.backup.path", filepath.Join(configDir, "backup.db"))
	viper.SetDefault("storage.redis.addr", "localhost:6379")
	viper.SetDefault("storage.redis.db", 0)
	viper.SetDefault("storage.redis.prefix", "confessboard:")

	viper.SetDefault("store.debounce", "300ms")
	viper.SetDefault("store.per_page", 10)

	viper.SetDefault("output.format", "text")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", filepath.Join(configDir, "confessboard.log"))

	viper.SetDefault("telemetry.enabled", false)
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetString returns a string configuration value
func GetString(key string) string {
	value := viper.GetString(key)
	if strings.HasSuffix(key, ".path") || strings.HasSuffix(key, ".file") {
		return expandPath(value)
	}
	return value
}

// GetInt returns an int configuration value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool configuration value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a duration configuration value. Bare integers are
// read as seconds so older configs with `timeout = 30` keep working.
func GetDuration(key string) time.Duration {
	raw := viper.GetString(key)
	if raw == "" {
		return 0
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return time.Duration(viper.GetInt(key)) * time.Second
}

// Set sets a configuration value for the running process only
func Set(key string, value interface{}) {
	viper.Set(key, value)
}

// SetString sets a string configuration value and persists it
func SetString(key string, value string) error {
	viper.Set(key, value)
	return viper.WriteConfigAs(configFilePath)
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() string {
	return configDir
}

// GetConfigFilePath returns the user configuration file path
func GetConfigFilePath() string {
	return configFilePath
}
