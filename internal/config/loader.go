package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads an emailcraft.yaml file and returns a Config with environment
// variable references resolved and defaults applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnvironmentVariables(&cfg)
	resolveEnvVars(&cfg)
	setDefaults(&cfg)
	Validate(&cfg)

	return &cfg, nil
}

// applyEnvironmentVariables sets OS env vars from the config's
// environment_variables section before anything else resolves against them.
func applyEnvironmentVariables(cfg *Config) {
	for k, v := range cfg.EnvironmentVariables {
		os.Setenv(k, ResolveEnvVar(v))
	}
}

func resolveEnvVars(cfg *Config) {
	cfg.GenerationService.BaseURL = ResolveEnvVar(cfg.GenerationService.BaseURL)
	cfg.GenerationService.APIKey = ResolveEnvVar(cfg.GenerationService.APIKey)
	cfg.GeneralSettings.DatabaseURL = ResolveEnvVar(cfg.GeneralSettings.DatabaseURL)
	cfg.CacheSettings.Addr = ResolveEnvVar(cfg.CacheSettings.Addr)
	cfg.CacheSettings.Password = ResolveEnvVar(cfg.CacheSettings.Password)
}

func setDefaults(cfg *Config) {
	if cfg.GeneralSettings.Port == 0 {
		cfg.GeneralSettings.Port = 8080
	}
	if cfg.GenerationService.TimeoutSeconds == 0 {
		cfg.GenerationService.TimeoutSeconds = 180
	}
	if cfg.GenerationService.MaxRetries == 0 {
		cfg.GenerationService.MaxRetries = 3
	}
	if cfg.BatchSettings.MaxRows == 0 {
		cfg.BatchSettings.MaxRows = 200
	}
	if cfg.BatchSettings.ErrorPreview == 0 {
		cfg.BatchSettings.ErrorPreview = 5
	}
	if cfg.CacheSettings.Type == "" {
		cfg.CacheSettings.Type = "memory"
	}
	if cfg.CacheSettings.TTLSeconds == 0 {
		cfg.CacheSettings.TTLSeconds = 3600
	}
}
