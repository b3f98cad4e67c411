package sqlcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "main", config.Catalog.DefaultSchema)
	assert.Equal(t, 3, config.Catalog.MaxLockRetries)
	assert.Equal(t, 1024, config.CSV.SniffRows)
	assert.Equal(t, byte(','), config.CSV.DefaultDelimiter)
	assert.True(t, config.CSV.DefaultHeader)
	assert.Equal(t, 2048, config.Storage.AppendBatchSize)
	assert.Equal(t, uint32(10000), config.Optimizer.DefaultMatchLimit)
	assert.Equal(t, 2048, config.Executor.DefaultBatchSize)
	require.NoError(t, config.Validate())
}

func TestConfigValidationDetailed(t *testing.T) {
	tests := []struct {
		name        string
		config      *Config
		expectError bool
		errorField  string
	}{
		{
			name:        "valid config",
			config:      DefaultConfig(),
			expectError: false,
		},
		{
			name: "empty default schema",
			config: &Config{
				Catalog:   CatalogConfig{DefaultSchema: ""},
				CSV:       CSVConfig{SniffRows: 1024},
				Storage:   StorageConfig{AppendBatchSize: 1},
				Optimizer: OptimizerConfig{DefaultMatchLimit: 1},
				Executor:  ExecutorConfig{DefaultBatchSize: 1},
			},
			expectError: true,
			errorField:  "catalog.defaultSchema",
		},
		{
			name: "invalid sniff rows",
			config: &Config{
				Catalog:   CatalogConfig{DefaultSchema: "main"},
				CSV:       CSVConfig{SniffRows: 0},
				Storage:   StorageConfig{AppendBatchSize: 1},
				Optimizer: OptimizerConfig{DefaultMatchLimit: 1},
				Executor:  ExecutorConfig{DefaultBatchSize: 1},
			},
			expectError: true,
			errorField:  "csv.sniffRows",
		},
		{
			name: "invalid append batch size",
			config: &Config{
				Catalog:   CatalogConfig{DefaultSchema: "main"},
				CSV:       CSVConfig{SniffRows: 1024},
				Storage:   StorageConfig{AppendBatchSize: 0},
				Optimizer: OptimizerConfig{DefaultMatchLimit: 1},
				Executor:  ExecutorConfig{DefaultBatchSize: 1},
			},
			expectError: true,
			errorField:  "storage.appendBatchSize",
		},
		{
			name: "zero match limit",
			config: &Config{
				Catalog:   CatalogConfig{DefaultSchema: "main"},
				CSV:       CSVConfig{SniffRows: 1024},
				Storage:   StorageConfig{AppendBatchSize: 1},
				Optimizer: OptimizerConfig{DefaultMatchLimit: 0},
				Executor:  ExecutorConfig{DefaultBatchSize: 1},
			},
			expectError: true,
			errorField:  "optimizer.defaultMatchLimit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError {
				require.Error(t, err)
				configErr, ok := err.(*ConfigError)
				require.True(t, ok, "expected *ConfigError, got %T", err)
				assert.Equal(t, tt.errorField, configErr.Field)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Field: "test.field", Message: "test message"}
	assert.Equal(t, "config validation error for field 'test.field': test message", err.Error())
}
