// Package config loads process-level settings for the trycatch command from
// flags, TRYCATCH_* environment variables and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/deepnoodle-ai/trycatch"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "TRYCATCH"

// Keys understood by Load.
const (
	KeyCapacity    = "capacity"
	KeyLogLevel    = "log-level"
	KeyFaultBridge = "fault-bridge"
	KeyNoColor     = "no-color"
)

// Config holds the resolved settings.
type Config struct {
	Capacity    int
	LogLevel    zerolog.Level
	// FaultBridge registers the fault handler on every engine the CLI builds.
	FaultBridge bool
	NoColor     bool
}

// Load resolves the configuration from v. When configFile is empty,
// ~/.trycatch.yaml is read if it exists; an explicit configFile must exist.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	v.SetDefault(KeyCapacity, trycatch.DefaultCapacity)
	v.SetDefault(KeyLogLevel, zerolog.InfoLevel.String())
	v.SetDefault(KeyFaultBridge, true)
	v.SetDefault(KeyNoColor, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".trycatch")
		v.SetConfigType("yaml")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	capacity := v.GetInt(KeyCapacity)
	if capacity < 1 {
		return nil, fmt.Errorf("invalid %s %d: %w", KeyCapacity, capacity, trycatch.ErrInvalidCapacity)
	}
	level, err := zerolog.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyLogLevel, err)
	}
	return &Config{
		Capacity:    capacity,
		LogLevel:    level,
		FaultBridge: v.GetBool(KeyFaultBridge),
		NoColor:     v.GetBool(KeyNoColor),
	}, nil
}

// Logger returns a console logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: c.NoColor}).
		Level(c.LogLevel).
		With().
		Timestamp().
		Logger()
}

// EngineOptions returns the engine options implied by the configuration.
func (c *Config) EngineOptions(logger zerolog.Logger) []trycatch.Option {
	return []trycatch.Option{
		trycatch.WithCapacity(c.Capacity),
		trycatch.WithLogger(logger),
	}
}
