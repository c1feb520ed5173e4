package config

// Config represents the top-level emailcraft.yaml structure.
type Config struct {
	GenerationService GenerationService `yaml:"generation_service"`
	BatchSettings     BatchSettings     `yaml:"batch_settings"`
	GeneralSettings   GeneralSettings   `yaml:"general_settings"`
	CacheSettings     CacheSettings     `yaml:"cache_settings,omitempty"`

	// EnvironmentVariables are exported into the process environment before
	// the rest of the config is resolved.
	EnvironmentVariables map[string]string `yaml:"environment_variables,omitempty"`

	// Overflow captures any unknown top-level YAML fields so that older or
	// newer config files still load; unknown fields are warned about, not
	// rejected.
	Overflow map[string]any `yaml:",inline"`
}

// GenerationService describes the external email generation endpoint.
type GenerationService struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key,omitempty"`

	// TimeoutSeconds bounds a single generation call, retries included.
	TimeoutSeconds int `yaml:"timeout,omitempty"`

	// MaxRetries is the number of attempts for retryable failures
	// (429/502/503/504 and timeouts).
	MaxRetries int `yaml:"max_retries,omitempty"`

	Overflow map[string]any `yaml:",inline"`
}

// BatchSettings controls the batch pipeline.
type BatchSettings struct {
	// MaxRows caps a single batch; rows beyond the cap are dropped with a
	// pre-flight warning.
	MaxRows int `yaml:"max_rows,omitempty"`

	// RowDelaySeconds is the minimum delay between consecutive generation
	// calls. Zero disables the delay (test mode).
	RowDelaySeconds int `yaml:"row_delay,omitempty"`

	// ErrorPreview caps the number of per-row error messages surfaced in
	// summaries and pre-flight reports.
	ErrorPreview int `yaml:"error_preview,omitempty"`

	Overflow map[string]any `yaml:",inline"`
}

// GeneralSettings holds server-level settings.
type GeneralSettings struct {
	Port        int    `yaml:"port,omitempty"`
	DatabaseURL string `yaml:"database_url,omitempty"`

	// HistoryRetentionDays controls the background pruning job. Zero keeps
	// history forever.
	HistoryRetentionDays int `yaml:"history_retention_days,omitempty"`

	Overflow map[string]any `yaml:",inline"`
}

// CacheSettings configures the generation response cache.
type CacheSettings struct {
	Enabled  bool   `yaml:"enabled"`
	Type     string `yaml:"type,omitempty"` // "memory" (default) or "redis"
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`

	// TTLSeconds is how long a cached response stays valid.
	TTLSeconds int `yaml:"ttl,omitempty"`

	Overflow map[string]any `yaml:",inline"`
}
