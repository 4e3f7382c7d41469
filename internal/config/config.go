package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort    = 3000
	defaultEnv     = "development"
	defaultDataDir = "data"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int      `yaml:"port"`
	Env            string   `yaml:"env"` // "development" | "production"
	DataDir        string   `yaml:"data_dir"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	JWTSecret      string   `yaml:"jwt_secret"`
	Timezone       string   `yaml:"timezone"`
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "development")
}

// Load reads and validates the YAML config. A missing file at the default
// path is not an error: the demo runs on defaults out of the box. An
// explicitly provided path that cannot be read is fatal.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && path == DefaultConfigPath {
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	raw := AppConfig{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}

	applyRaw(&cfg, raw)
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d in %q, expected 1-65535", cfg.Port, path)
	}
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port:    defaultPort,
		Env:     defaultEnv,
		DataDir: defaultDataDir,
	}
}

func applyRaw(cfg *AppConfig, raw AppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.DataDir); v != "" {
		cfg.DataDir = v
	}
	if len(raw.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = raw.AllowedOrigins
	}
	cfg.JWTSecret = strings.TrimSpace(raw.JWTSecret)
	cfg.Timezone = strings.TrimSpace(raw.Timezone)
}
