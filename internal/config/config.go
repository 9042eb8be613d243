package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Keys shared by viper, flags and the environment.
const (
	KeyConfig    = "config"
	KeyAppID     = "app_id"
	KeyPort      = "port"
	KeyLogLevel  = "log.level"
	KeyLogFormat = "log.format"
	KeyLogFile   = "log.file"
)

const envPrefix = "TAB_COUNTER_RELAY_"

// envNames maps config keys to the environment variables that set them.
var envNames = map[string]string{
	KeyConfig:    envPrefix + "CONFIG",
	KeyAppID:     envPrefix + "APP_ID",
	KeyPort:      envPrefix + "SERVING_PORT",
	KeyLogLevel:  envPrefix + "LOG_LEVEL",
	KeyLogFormat: envPrefix + "LOG_FORMAT",
	KeyLogFile:   envPrefix + "LOG_FILE",
}

const defaultPort = 7212

// Config represents the relay configuration
type Config struct {
	AppID   int64         `yaml:"app_id"`
	Port    uint16        `yaml:"port"`
	Logging LoggingConfig `yaml:"logging"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

func Default() Config {
	return Config{
		Port:    defaultPort,
		Logging: LoggingConfig{Level: "info", Format: "auto"},
	}
}

// Load reads a YAML config file over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// BindEnv binds every key to its TAB_COUNTER_RELAY_* variable.
func BindEnv(v *viper.Viper) error {
	for key, env := range envNames {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s: %w", env, err)
		}
	}
	return nil
}

// Resolve is Merge followed by Validate.
func Resolve(v *viper.Viper) (*Config, error) {
	cfg, err := Merge(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Merge loads the file named by the config key and overlays values set
// through v (flags and environment).
func Merge(v *viper.Viper) (*Config, error) {
	path := DefaultPath()
	if v.IsSet(KeyConfig) {
		path = v.GetString(KeyConfig)
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v.IsSet(KeyAppID) {
		id, err := strconv.ParseInt(v.GetString(KeyAppID), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid app id %q: %w", v.GetString(KeyAppID), err)
		}
		cfg.AppID = id
	}
	if v.IsSet(KeyPort) {
		port, err := strconv.ParseUint(v.GetString(KeyPort), 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid port %q: %w", v.GetString(KeyPort), err)
		}
		cfg.Port = uint16(port)
	}
	if v.IsSet(KeyLogLevel) {
		cfg.Logging.Level = v.GetString(KeyLogLevel)
	}
	if v.IsSet(KeyLogFormat) {
		cfg.Logging.Format = v.GetString(KeyLogFormat)
	}
	if v.IsSet(KeyLogFile) {
		cfg.Logging.File = v.GetString(KeyLogFile)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.AppID == 0 {
		return fmt.Errorf("app_id is required (argument or %s)", envNames[KeyAppID])
	}
	if c.Port == 0 {
		return fmt.Errorf("port must be non-zero")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	switch c.Logging.Format {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("logging.format must be one of auto, text, json")
	}
	return nil
}
