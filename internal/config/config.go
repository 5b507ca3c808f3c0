package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level coachwatch configuration.
type Config struct {
	DefaultUser      string   `mapstructure:"default_user"`
	TimeframeDays    int      `mapstructure:"timeframe_days"`
	CatalogFile      string   `mapstructure:"catalog_file"`
	DisabledPatterns []string `mapstructure:"disabled_patterns"`
	Score            Score    `mapstructure:"score"`
	Output           Output   `mapstructure:"output"`
}

// Score defines score display thresholds.
type Score struct {
	WarnBelow int `mapstructure:"warn_below"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Set defaults.
	v.SetDefault("default_user", DefaultUser)
	v.SetDefault("timeframe_days", DefaultTimeframeDays)
	v.SetDefault("catalog_file", "")
	v.SetDefault("disabled_patterns", []string{})
	v.SetDefault("score.warn_below", DefaultScore.WarnBelow)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		configDir := expandPath(DefaultConfigDir)
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Only return error for problems other than file not found.
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Expand paths.
	cfg.CatalogFile = expandPath(cfg.CatalogFile)

	return &cfg, nil
}

// DBPath returns the full path to the SQLite database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
