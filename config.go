package sqlcore

import (
	"time"
)

// Config consolidates every tunable of the engine.
type Config struct {
	Catalog   CatalogConfig   `json:"catalog"`
	CSV       CSVConfig       `json:"csv"`
	Storage   StorageConfig   `json:"storage"`
	Optimizer OptimizerConfig `json:"optimizer"`
	Executor  ExecutorConfig  `json:"executor"`
	Logging   LoggingConfig   `json:"logging"`
}

// CatalogConfig controls the initial catalog contents and locking behavior.
type CatalogConfig struct {
	DefaultSchema  string        `json:"defaultSchema"`
	LockRetryDelay time.Duration `json:"lockRetryDelay"`
	MaxLockRetries int           `json:"maxLockRetries"`
}

// CSVConfig controls read_csv's schema sniffing.
type CSVConfig struct {
	SniffRows        int    `json:"sniffRows"`
	DefaultDelimiter byte   `json:"defaultDelimiter"`
	DefaultHeader    bool   `json:"defaultHeader"`
	S3SpoolDir       string `json:"s3SpoolDir"`
}

// StorageConfig controls the in-memory append-only table store.
type StorageConfig struct {
	AppendBatchSize int `json:"appendBatchSize"`
}

// OptimizerConfig bounds the rule-rewrite driver.
type OptimizerConfig struct {
	DefaultMatchLimit uint32 `json:"defaultMatchLimit"`
}

// ExecutorConfig controls operator-level batch synthesis.
type ExecutorConfig struct {
	DefaultBatchSize int `json:"defaultBatchSize"`
}

// LoggingConfig controls the zap logger construction.
type LoggingConfig struct {
	Level      string `json:"level"`
	Structured bool   `json:"structured"`
}

// DefaultConfig returns the configuration a fresh in-process session boots with.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			DefaultSchema:  "main",
			LockRetryDelay: 10 * time.Millisecond,
			MaxLockRetries: 3,
		},
		CSV: CSVConfig{
			SniffRows:        1024,
			DefaultDelimiter: ',',
			DefaultHeader:    true,
			S3SpoolDir:       "",
		},
		Storage: StorageConfig{
			AppendBatchSize: 2048,
		},
		Optimizer: OptimizerConfig{
			DefaultMatchLimit: 10000,
		},
		Executor: ExecutorConfig{
			DefaultBatchSize: 2048,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Structured: true,
		},
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Catalog.DefaultSchema == "" {
		return &ConfigError{Field: "catalog.defaultSchema", Message: "must not be empty"}
	}
	if c.Catalog.MaxLockRetries < 0 {
		return &ConfigError{Field: "catalog.maxLockRetries", Message: "must be non-negative"}
	}
	if c.CSV.SniffRows <= 0 {
		return &ConfigError{Field: "csv.sniffRows", Message: "must be greater than 0"}
	}
	if c.Storage.AppendBatchSize <= 0 {
		return &ConfigError{Field: "storage.appendBatchSize", Message: "must be greater than 0"}
	}
	if c.Optimizer.DefaultMatchLimit == 0 {
		return &ConfigError{Field: "optimizer.defaultMatchLimit", Message: "must be greater than 0"}
	}
	if c.Executor.DefaultBatchSize <= 0 {
		return &ConfigError{Field: "executor.defaultBatchSize", Message: "must be greater than 0"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ConfigError) Error() string {
	return "config validation error for field '" + e.Field + "': " + e.Message
}
