package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/interpretive-systems/futuresight/internal/prefs"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application's configuration
type Config struct {
	APIURL              string `mapstructure:"api_url"`
	LogLevel            string `mapstructure:"log_level"`
	LogFile             string `mapstructure:"log_file"`
	PrefsPath           string `mapstructure:"prefs_path"`
	ClearStagedOnUpload bool   `mapstructure:"clear_staged_on_upload"`
	HTTPTimeoutSeconds  int    `mapstructure:"http_timeout"`
}

// HTTPTimeout is the transport timeout; zero means none.
func (c *Config) HTTPTimeout() time.Duration {
	if c.HTTPTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// New returns a viper instance with defaults, config search paths and the
// FUTURESIGHT_ environment prefix set up. Flags may be bound to it before
// Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("futuresight")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")        // For running locally
	v.AddConfigPath("./config") // Common config folder
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "futuresight"))
	}
	v.SetEnvPrefix("FUTURESIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	// Set default values
	v.SetDefault("api_url", "http://localhost:8000")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", defaultLogFile())
	v.SetDefault("prefs_path", prefs.DefaultPath())
	v.SetDefault("clear_staged_on_upload", false)
	v.SetDefault("http_timeout", 0)
	return v
}

// Load reads .env, the config file (configFile when set, otherwise the first
// futuresight.yaml on the search path) and the environment into a Config.
// A missing config file is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	// .env is optional; values already in the environment win.
	_ = godotenv.Load()

	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if cfg.APIURL == "" {
		return nil, errors.New("api_url must not be empty")
	}
	return &cfg, nil
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "futuresight", "futuresight.log")
}
