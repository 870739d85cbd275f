package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/cvbuilder/internal/model"
	"github.com/amishk599/cvbuilder/internal/theme"
)

// Config is the root configuration for the cvbuilder client.
type Config struct {
	API      APIConfig
	Storage  StorageConfig
	Download DownloadConfig
	Analysis AnalysisConfig
	Theme    theme.Mode
}

// APIConfig points the client at the résumé backend.
type APIConfig struct {
	BaseURL string        // no trailing slash
	Timeout time.Duration // per-request timeout
}

// StorageConfig controls where session and preferences persist.
type StorageConfig struct {
	Path string // SQLite file
}

// DownloadConfig controls where generated documents are written.
type DownloadConfig struct {
	Dir string
}

// AnalysisConfig selects the default analysis strategy.
type AnalysisConfig struct {
	Strategy model.StrategyPreference
}

const (
	defaultBaseURL     = "http://localhost:8000"
	defaultTimeout     = 60 * time.Second
	defaultStoragePath = "cvbuilder.db"
	defaultDownloadDir = "."

	// EnvAPIURL overrides api.base_url when set.
	EnvAPIURL = "CVBUILDER_API_URL"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	API      rawAPIConfig      `yaml:"api"`
	Storage  rawStorageConfig  `yaml:"storage"`
	Download rawDownloadConfig `yaml:"download"`
	Analysis rawAnalysisConfig `yaml:"analysis"`
	Theme    string            `yaml:"theme"`
}

type rawAPIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

type rawStorageConfig struct {
	Path string `yaml:"path"`
}

type rawDownloadConfig struct {
	Dir string `yaml:"dir"`
}

type rawAnalysisConfig struct {
	Strategy string `yaml:"strategy"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return build(raw)
}

// LoadOrDefault behaves like Load but falls back to built-in defaults when
// path does not exist and missingOK is set.
func LoadOrDefault(path string, missingOK bool) (*Config, error) {
	cfg, err := Load(path)
	if err != nil && missingOK && errors.Is(err, fs.ErrNotExist) {
		return build(rawConfig{})
	}
	return cfg, err
}

func build(raw rawConfig) (*Config, error) {
	baseURL := raw.API.BaseURL
	if env := os.Getenv(EnvAPIURL); env != "" {
		baseURL = env
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeout := defaultTimeout
	if raw.API.Timeout != "" {
		d, err := time.ParseDuration(raw.API.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse api.timeout %q: %w", raw.API.Timeout, err)
		}
		timeout = d
	}

	strategy, err := model.ParseStrategyPreference(raw.Analysis.Strategy)
	if err != nil {
		return nil, fmt.Errorf("parse analysis.strategy: %w", err)
	}

	mode := theme.Light
	if raw.Theme != "" {
		mode, err = theme.ParseMode(raw.Theme)
		if err != nil {
			return nil, fmt.Errorf("parse theme: %w", err)
		}
	}

	storagePath := raw.Storage.Path
	if storagePath == "" {
		storagePath = defaultStoragePath
	}
	downloadDir := raw.Download.Dir
	if downloadDir == "" {
		downloadDir = defaultDownloadDir
	}

	cfg := &Config{
		API:      APIConfig{BaseURL: baseURL, Timeout: timeout},
		Storage:  StorageConfig{Path: storagePath},
		Download: DownloadConfig{Dir: downloadDir},
		Analysis: AnalysisConfig{Strategy: strategy},
		Theme:    mode,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url %q: %w", cfg.API.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must be http or https, got %q", cfg.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url must include a host, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %v", cfg.API.Timeout)
	}
	return nil
}
