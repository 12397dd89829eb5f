// Package config loads pulse configuration from viper, the environment and
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/finpulse/internal/common"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyDatabasePath     = "database.path"
	KeyServerAddr       = "server.addr"
	KeyLogLevel         = "logging.level"
	KeyLogFormat        = "logging.format"
	KeyEmergencyAccount = "score.emergency_account"
	KeyEmergencyTarget  = "score.emergency_target"
	KeyCopySeed         = "copy.seed"
)

// EnvPrefix is prepended to every environment override, e.g. PULSE_DATABASE_PATH.
const EnvPrefix = "PULSE"

// Config is the resolved application configuration.
type Config struct {
	EmergencyTarget  decimal.Decimal
	DatabasePath     string
	ServerAddr       string
	LogLevel         string
	LogFormat        string
	EmergencyAccount string
	// CopySeed fixes the copy picks when non-zero.
	CopySeed uint64
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, "~/.local/share/pulse/pulse.db")
	v.SetDefault(KeyServerAddr, "127.0.0.1:8080")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyEmergencyAccount, "")
	v.SetDefault(KeyEmergencyTarget, "0")
	v.SetDefault(KeyCopySeed, 0)
}

// BindEnv makes every key overridable by a PULSE_ environment variable.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadDotEnv loads variables from path into the process environment without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load resolves a Config from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	target, err := decimal.NewFromString(strings.TrimSpace(v.GetString(KeyEmergencyTarget)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrInvalidConfig, KeyEmergencyTarget, err)
	}

	cfg := &Config{
		DatabasePath:     ExpandPath(v.GetString(KeyDatabasePath)),
		ServerAddr:       v.GetString(KeyServerAddr),
		LogLevel:         v.GetString(KeyLogLevel),
		LogFormat:        v.GetString(KeyLogFormat),
		EmergencyAccount: v.GetString(KeyEmergencyAccount),
		EmergencyTarget:  target,
		CopySeed:         v.GetUint64(KeyCopySeed),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the application cannot use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyDatabasePath)
	}
	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%w: %s must be console or json, got %q", common.ErrInvalidConfig, KeyLogFormat, c.LogFormat)
	}
	if c.EmergencyTarget.IsNegative() {
		return fmt.Errorf("%w: %s cannot be negative", common.ErrInvalidConfig, KeyEmergencyTarget)
	}
	if c.EmergencyAccount != "" && !c.EmergencyTarget.IsPositive() {
		return fmt.Errorf("%w: %s is set but %s is not positive",
			common.ErrInvalidConfig, KeyEmergencyAccount, KeyEmergencyTarget)
	}
	return nil
}

// ExpandPath expands a leading ~ and $VAR references in a file path.
func ExpandPath(path string) string {
	switch {
	case path == "~", strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return os.ExpandEnv(path)
}
