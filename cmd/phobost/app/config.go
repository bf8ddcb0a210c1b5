package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/phobost/internal/server"
	"github.com/agentstation/phobost/pkg/constants"
	"github.com/agentstation/phobost/pkg/errors"
)

// Configuration keys. With the "." to "_" replacer, app.host is read from
// APP_HOST, log.level from LOG_LEVEL, and so on.
const (
	keyHost            = "app.host"
	keyPort            = "app.port"
	keyDebug           = "app.debug"
	keyShutdownTimeout = "app.shutdown_timeout"
	keyMetrics         = "app.metrics"
	keyCORSOrigins     = "app.cors_origins"
	keyLogLevel        = "log.level"
	keyLogFormat       = "log.format"
	keyLogOutput       = "log.output"
	keyNoColor         = "no_color"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Config file
	ConfigFile string

	// Server configuration
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
	CORSOrigins     []string

	// Debug selects the debug log level unless LogLevel is set
	Debug bool

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
	NoColor   bool
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (configFile, or ~/.phobost.yaml / ./.phobost.yaml)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapConfig("config", "reading "+configFile, err)
		}
	} else {
		// Search for config in standard locations
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".phobost")

		// Read config file (ignore error if not found)
		_ = v.ReadInConfig()
	}

	config := &Config{
		ConfigFile: v.ConfigFileUsed(),

		Host:            v.GetString(keyHost),
		Port:            v.GetInt(keyPort),
		ShutdownTimeout: v.GetDuration(keyShutdownTimeout),
		MetricsEnabled:  v.GetBool(keyMetrics),
		CORSOrigins:     v.GetStringSlice(keyCORSOrigins),
		Debug:           v.GetBool(keyDebug),

		LogLevel:  v.GetString(keyLogLevel),
		LogFormat: v.GetString(keyLogFormat),
		LogOutput: v.GetString(keyLogOutput),
		NoColor:   v.GetBool(keyNoColor),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// setDefaults registers the default of every key so AutomaticEnv can
// resolve it.
func setDefaults(v *viper.Viper) {
	v.SetDefault(keyHost, constants.DefaultHost)
	v.SetDefault(keyPort, constants.DefaultPort)
	v.SetDefault(keyDebug, false)
	v.SetDefault(keyShutdownTimeout, constants.ShutdownTimeout)
	v.SetDefault(keyMetrics, true)
	v.SetDefault(keyCORSOrigins, []string{})
	v.SetDefault(keyLogLevel, "")
	v.SetDefault(keyLogFormat, "auto")
	v.SetDefault(keyLogOutput, "stderr")
	v.SetDefault(keyNoColor, false)
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return errors.NewValidationError("port", c.Port, "must be between 0 and 65535")
	}
	if c.ShutdownTimeout < 0 {
		return errors.NewValidationError("shutdown_timeout", c.ShutdownTimeout, "must not be negative")
	}
	return nil
}

// ConnectionString returns the configured host:port.
func (c *Config) ConnectionString() string {
	return c.ServerConfig().ConnectionString()
}

// ServerConfig maps the application configuration onto server settings.
func (c *Config) ServerConfig() server.Config {
	cfg := server.DefaultConfig()
	cfg.Host = c.Host
	cfg.Port = c.Port
	cfg.ShutdownTimeout = c.ShutdownTimeout
	cfg.MetricsEnabled = c.MetricsEnabled
	cfg.CORSOrigins = append([]string(nil), c.CORSOrigins...)
	return cfg
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// Try to load .env files in order of precedence
	// .env.local overrides .env
	envFiles := []string{
		".env.local",
		".env",
	}

	// godotenv.Load never overrides variables that are already set, so
	// the file with the highest precedence is loaded first.
	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}
