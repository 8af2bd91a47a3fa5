package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Renderer RendererConfig
	UI       UIConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings. Driver is "sqlite3" (cgo) or "sqlite" (pure Go).
type DatabaseConfig struct {
	Path   string
	Driver string
}

// RendererConfig holds page fetch settings.
type RendererConfig struct {
	Timeout   time.Duration
	CacheSize int    `mapstructure:"cache_size"`
	UserAgent string `mapstructure:"user_agent"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Title          string
	EdgeWidth      int `mapstructure:"edge_width"`
	SwipeThreshold int `mapstructure:"swipe_threshold"`
}

// LogConfig holds the log file location. The TUI owns stdout, so logs go to a file.
type LogConfig struct {
	Path string
}

func home() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.Getenv("HOME")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join(home(), ".local", "share", "linkview", "linkview.db"))
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("renderer.timeout", 15*time.Second)
	v.SetDefault("renderer.cache_size", 32)
	v.SetDefault("renderer.user_agent", "linkview/1.0")
	v.SetDefault("ui.title", "Links")
	v.SetDefault("ui.edge_width", 2)
	v.SetDefault("ui.swipe_threshold", 10)
	v.SetDefault("log.path", filepath.Join(home(), ".local", "state", "linkview", "linkview.log"))
}

// Path returns the config file location, honouring LINKVIEW_CONFIG.
func Path() string {
	if p := os.Getenv("LINKVIEW_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(home(), ".config", "linkview", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix LINKVIEW_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("LINKVIEW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine; a malformed one is not
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(Path()); statErr == nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.driver", cfg.Database.Driver)
	v.Set("renderer.timeout", cfg.Renderer.Timeout.String())
	v.Set("renderer.cache_size", cfg.Renderer.CacheSize)
	v.Set("renderer.user_agent", cfg.Renderer.UserAgent)
	v.Set("ui.title", cfg.UI.Title)
	v.Set("ui.edge_width", cfg.UI.EdgeWidth)
	v.Set("ui.swipe_threshold", cfg.UI.SwipeThreshold)
	v.Set("log.path", cfg.Log.Path)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Init writes the effective configuration to Path() unless a file is already
// there. created reports whether a file was written.
func Init() (path string, created bool, err error) {
	path = Path()
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}
	cfg, err := Load()
	if err != nil {
		return path, false, err
	}
	if err := Save(cfg); err != nil {
		return path, false, err
	}
	return path, true, nil
}
