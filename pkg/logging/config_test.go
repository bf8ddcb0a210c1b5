package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/phobost/pkg/logging"
)

func TestConfigFunctions(t *testing.T) {
	t.Run("DefaultConfig returns sensible defaults", func(t *testing.T) {
		cfg := logging.DefaultConfig()
		require.NotNil(t, cfg)
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "auto", cfg.Format)
		assert.Equal(t, "stdout", cfg.Output)
		assert.False(t, cfg.AddCaller)
		assert.Equal(t, "phobost", cfg.Fields["service"])
	})

	t.Run("NewLoggerFromConfig writes to file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.log")

		cfg := &logging.Config{
			Level:     "debug",
			Format:    "json",
			Output:    path,
			AddCaller: true,
			Fields:    map[string]any{"service": "phobost"},
		}

		logger := logging.NewLoggerFromConfig(cfg)
		logger.Info().Msg("test message")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		output := string(content)
		assert.Contains(t, output, "test message")
		assert.Contains(t, output, `"service":"phobost"`)
		assert.Contains(t, output, `"caller"`)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"", zerolog.InfoLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, logging.ParseLevel(tt.input))
		})
	}
}

func TestLevelForDebug(t *testing.T) {
	assert.Equal(t, "debug", logging.LevelForDebug(true))
	assert.Equal(t, "info", logging.LevelForDebug(false))
}
