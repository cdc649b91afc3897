package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Settings backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
)

// Notification modes.
const (
	NotifyTerminal = "terminal"
	NotifyDesktop  = "desktop"
	NotifyNone     = "none"
)

type Config struct {
	Settings SettingsConfig
	Database DatabaseConfig
	Web      WebConfig
	Notify   NotifyConfig
	ICloud   ICloudConfig
}

type SettingsConfig struct {
	Backend string // file, sqlite, postgres or mysql (default file)
	Path    string // YAML file or SQLite database path for local backends
}

type DatabaseConfig struct {
	URL          string // PostgreSQL URL or MySQL DSN for the shared settings store
	MaxOpenConns int    // Maximum open connections (default 5)
	MaxIdleConns int    // Maximum idle connections (default 2)
}

type WebConfig struct {
	Host           string   // defaults to 127.0.0.1
	Port           int      // defaults to 8765
	AllowedOrigins []string // extra CORS origins besides browser extensions and localhost
	Token          string   // shared token required on API requests, empty to disable
}

type NotifyConfig struct {
	Mode string // terminal, desktop or none (default terminal)
}

type ICloudConfig struct {
	Directory string // target directory for imported photos (default assets/photo)
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envString returns the environment variable or defaultVal when it is empty.
func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// envList splits a comma-separated environment variable, dropping empty items.
func envList(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// DefaultSettingsPath returns the per-user location of a local settings file.
func DefaultSettingsPath(backend string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	name := "settings.yaml"
	if backend == BackendSQLite {
		name = "settings.db"
	}
	return filepath.Join(dir, "photo-shortcode", name)
}

func Load() *Config {
	backend := strings.ToLower(envString("SETTINGS_BACKEND", BackendFile))

	return &Config{
		Settings: SettingsConfig{
			Backend: backend,
			Path:    envString("SETTINGS_PATH", DefaultSettingsPath(backend)),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 5),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 2),
		},
		Web: WebConfig{
			Host:           envString("WEB_HOST", "127.0.0.1"),
			Port:           envInt("WEB_PORT", 8765),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
			Token:          os.Getenv("WEB_TOKEN"),
		},
		Notify: NotifyConfig{
			Mode: strings.ToLower(envString("NOTIFY_MODE", NotifyTerminal)),
		},
		ICloud: ICloudConfig{
			Directory: envString("ICLOUD_DIRECTORY", "assets/photo"),
		},
	}
}
