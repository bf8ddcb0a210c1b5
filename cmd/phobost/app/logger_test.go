package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDetermineLogLevel tests the log level precedence logic.
func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name:     "default level when no flags set",
			config:   &Config{},
			expected: "info",
		},
		{
			name:     "debug flag sets debug",
			config:   &Config{Debug: true},
			expected: "debug",
		},
		{
			name:     "explicit log-level overrides debug",
			config:   &Config{LogLevel: "error", Debug: true},
			expected: "error",
		},
		{
			name:     "trace is accepted",
			config:   &Config{LogLevel: "trace"},
			expected: "trace",
		},
		{
			name:     "invalid log-level falls back to info",
			config:   &Config{LogLevel: "loud"},
			expected: "info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, determineLogLevel(tt.config))
		})
	}
}

func TestNewLogger_Level(t *testing.T) {
	logger := NewLogger(&Config{Debug: true, LogOutput: "discard", LogFormat: "json"})
	assert.Equal(t, "debug", logger.GetLevel().String())

	logger = NewLogger(&Config{LogOutput: "discard", LogFormat: "json"})
	assert.Equal(t, "info", logger.GetLevel().String())
}
