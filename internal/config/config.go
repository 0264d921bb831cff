package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arko-chat/adbridge/internal/credentials"
)

const (
	appName    = "adbridge"
	configFile = "config.json"

	cookieSecretKey = "cookie_secret"
)

type Config struct {
	Addr        string  `json:"addr"`
	DataDir     string  `json:"data_dir"`
	FrameMillis int     `json:"frame_ms"`
	ScreenWidth float64 `json:"screen_width"`
	EventPolicy string  `json:"event_policy"`
	QueueLimit  int     `json:"queue_limit"`
	LogLevel    string  `json:"log_level"`

	CookieSecret string `json:"-"`
}

func defaults(appDir string) Config {
	return Config{
		Addr:        "127.0.0.1:8787",
		DataDir:     filepath.Join(appDir, "prefs"),
		FrameMillis: 16,
		ScreenWidth: 320,
		EventPolicy: "queue",
		QueueLimit:  256,
		LogLevel:    "info",
	}
}

// Load reads the config from the user config directory, writing defaults
// on first run. Environment variables override the file.
func Load() (*Config, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadDir(filepath.Join(configDir, appName))
}

func LoadDir(appDir string) (*Config, error) {
	path := filepath.Join(appDir, configFile)
	cfg := defaults(appDir)

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else {
		if err := os.MkdirAll(appDir, 0700); err != nil {
			return nil, err
		}
		out, _ := json.MarshalIndent(cfg, "", "  ")
		_ = os.WriteFile(path, out, 0600)
		slog.Info("generated new config", "path", path)
	}

	applyEnvOverrides(&cfg)

	if cfg.CookieSecret == "" {
		cfg.CookieSecret, err = credentials.LoadOrCreateSecret(cookieSecretKey, 32)
		if err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.EventPolicy {
	case "queue", "drop":
	default:
		return fmt.Errorf("config: event_policy must be queue or drop, got %q", c.EventPolicy)
	}
	if c.FrameMillis < 0 {
		return fmt.Errorf("config: frame_ms must not be negative")
	}
	if c.QueueLimit <= 0 {
		return fmt.Errorf("config: queue_limit must be positive")
	}
	return nil
}

// Level maps LogLevel onto slog, defaulting to info.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ADBRIDGE_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("ADBRIDGE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("ADBRIDGE_FRAME_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FrameMillis = n
		}
	}
	if v := os.Getenv("ADBRIDGE_EVENT_POLICY"); v != "" {
		cfg.EventPolicy = strings.ToLower(v)
	}
	if v := os.Getenv("ADBRIDGE_QUEUE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.QueueLimit = n
		}
	}
	if v := os.Getenv("ADBRIDGE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ADBRIDGE_COOKIE_SECRET"); v != "" {
		cfg.CookieSecret = v
	}
}
