package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds connection details for the pipeline service.
type ServerConfig struct {
	URL string `yaml:"url"`
	// TimeoutSecs bounds ordinary requests. BuildTimeoutSecs bounds the
	// long-running ones (initialize, chat).
	TimeoutSecs      int `yaml:"timeout_secs"`
	BuildTimeoutSecs int `yaml:"build_timeout_secs"`
}

// FormDefaults pre-fills the Configure stage form.
type FormDefaults struct {
	ChunkingStrategy string `yaml:"chunking_strategy"`
	ChunkSize        int    `yaml:"chunk_size"`
	ChunkOverlap     int    `yaml:"chunk_overlap"`
}

// LogConfig configures the debug log file. An empty file path disables
// logging entirely; stdout belongs to the TUI.
type LogConfig struct {
	File string `yaml:"file"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server   ServerConfig `yaml:"server"`
	Defaults FormDefaults `yaml:"defaults"`
	Log      LogConfig    `yaml:"log"`
}

// RequestTimeout returns the deadline for ordinary requests.
func (c *AppConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Server.TimeoutSecs) * time.Second
}

// BuildTimeout returns the deadline for initialize and chat requests.
func (c *AppConfig) BuildTimeout() time.Duration {
	return time.Duration(c.Server.BuildTimeoutSecs) * time.Second
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/ragconsole/config.yaml.
// If neither exists, it writes defaults to ~/.config/ragconsole/config.yaml
// and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ragconsole", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Server.URL == "" {
		if env := os.Getenv("RAGCONSOLE_SERVER_URL"); env != "" {
			cfg.Server.URL = env
		} else {
			cfg.Server.URL = "http://localhost:8000"
		}
	}
	if cfg.Server.TimeoutSecs == 0 {
		cfg.Server.TimeoutSecs = 15
	}
	if cfg.Server.BuildTimeoutSecs == 0 {
		cfg.Server.BuildTimeoutSecs = 180
	}
	if cfg.Defaults.ChunkingStrategy == "" {
		cfg.Defaults.ChunkingStrategy = "fixed"
	}
	if cfg.Defaults.ChunkSize == 0 {
		cfg.Defaults.ChunkSize = 800
	}
	if cfg.Defaults.ChunkOverlap == 0 {
		cfg.Defaults.ChunkOverlap = 100
	}
}
