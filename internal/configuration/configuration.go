// Package configuration loads the application configuration from
// environment files.
package configuration

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"
)

// Configuration keys.
const (
	KeyImage      = "SIMFS_IMAGE"
	KeyDeviceSize = "SIMFS_DEVICE_SIZE"
	KeyLogLevel   = "SIMFS_LOG_LEVEL"
	KeyUI         = "SIMFS_UI"
)

// Defaults for keys that are not configured.
const (
	DefaultImage      = "disk.dat"
	DefaultDeviceSize = 102400
	DefaultLogLevel   = slog.LevelInfo
	DefaultUI         = false
)

type genericConfigProvider interface {
	Read(filenames ...string) (envMap map[string]string, err error)
}

// Config is the principal structure holding the application configuration.
type Config struct {
	ImagePath  string
	DeviceSize int64
	LogLevel   slog.Level
	UI         bool
}

// Default returns a pointer to a new [Config] holding the default values.
func Default() *Config {
	return &Config{
		ImagePath:  DefaultImage,
		DeviceSize: DefaultDeviceSize,
		LogLevel:   DefaultLogLevel,
		UI:         DefaultUI,
	}
}

// Handler is the principal implementation for loading the configuration.
type Handler struct {
	genericConfigReader genericConfigProvider
}

// NewHandler returns a pointer to a new configuration [Handler].
func NewHandler(genericConfigReader genericConfigProvider) *Handler {
	return &Handler{
		genericConfigReader: genericConfigReader,
	}
}

// Load reads the given files into a [Config]. Files that do not exist are
// skipped, keys that are not set keep their defaults. A value that is set but
// cannot be parsed is an error.
func (c *Handler) Load(filenames ...string) (*Config, error) {
	cfg := Default()

	envMap := make(map[string]string)

	for _, filename := range filenames {
		data, err := c.genericConfigReader.Read(filename)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("Skipped missing configuration file",
					"file", filename,
				)

				continue
			}

			return nil, fmt.Errorf("(config-load) %w", err)
		}

		for key, value := range data {
			if _, exists := envMap[key]; !exists {
				envMap[key] = value
			}
		}
	}

	if value := c.MapKeyToString(envMap, KeyImage); value != "" {
		cfg.ImagePath = value
	}

	if c.MapKeyToString(envMap, KeyDeviceSize) != "" {
		size := c.MapKeyToInt64(envMap, KeyDeviceSize)
		if size <= 0 {
			return nil, fmt.Errorf("(config-load) %w: %s=%q", ErrInvalidValue, KeyDeviceSize, envMap[KeyDeviceSize])
		}
		cfg.DeviceSize = size
	}

	if value := c.MapKeyToString(envMap, KeyLogLevel); value != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(value)); err != nil {
			return nil, fmt.Errorf("(config-load) %w: %s=%q", ErrInvalidValue, KeyLogLevel, value)
		}
	}

	if value := c.MapKeyToString(envMap, KeyUI); value != "" {
		ui, err := c.MapKeyToBool(envMap, KeyUI)
		if err != nil {
			return nil, fmt.Errorf("(config-load) %w: %s=%q", ErrInvalidValue, KeyUI, value)
		}
		cfg.UI = ui
	}

	return cfg, nil
}

// MapKeyToString returns the trimmed value of key, or "" if it is not set.
func (c *Handler) MapKeyToString(envMap map[string]string, key string) string {
	if value, exists := envMap[key]; exists {
		return strings.TrimSpace(value)
	}

	return ""
}

// MapKeyToInt64 returns the value of key as int64, or -1 if it is not set or
// not a number.
func (c *Handler) MapKeyToInt64(envMap map[string]string, key string) int64 {
	value := c.MapKeyToString(envMap, key)
	if value == "" {
		return -1
	}

	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return -1
	}

	return intValue
}

// MapKeyToBool returns the value of key as bool. A key that is not set is
// false.
func (c *Handler) MapKeyToBool(envMap map[string]string, key string) (bool, error) {
	value := c.MapKeyToString(envMap, key)
	if value == "" {
		return false, nil
	}

	return strconv.ParseBool(value)
}
