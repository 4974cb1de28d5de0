package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the medication service
type Config struct {
	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Database configuration
	Database DatabaseConfig `mapstructure:"database"`

	// JWT configuration
	JWT JWTConfig `mapstructure:"jwt"`

	// Reminder alarm configuration
	Alarm AlarmConfig `mapstructure:"alarm"`

	// Weekly sweep configuration
	Sweep SweepConfig `mapstructure:"sweep"`

	// Connectivity probe configuration
	Connectivity ConnectivityConfig `mapstructure:"connectivity"`

	// Monitoring configuration
	Monitoring MonitoringConfig `mapstructure:"monitoring"`

	// Logging configuration
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SecretKey string `mapstructure:"secret_key"`
	Issuer    string `mapstructure:"issuer"`
}

// AlarmConfig holds reminder alarm configuration
type AlarmConfig struct {
	// LeadMinutes is how far ahead of the dose time the early reminder fires
	LeadMinutes int `mapstructure:"lead_minutes"`
}

// SweepConfig holds weekly checklist reset configuration
type SweepConfig struct {
	// IntervalHours is the sweep cadence
	IntervalHours int `mapstructure:"interval_hours"`
	// StaleAfterHours is how old a taken timestamp must be before it is reset
	StaleAfterHours int `mapstructure:"stale_after_hours"`
}

// ConnectivityConfig holds the reachability probe configuration
type ConnectivityConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ProbeAddr      string `mapstructure:"probe_addr"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// MonitoringConfig holds monitoring configuration
type MonitoringConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path"`
	HealthPath  string `mapstructure:"health_path"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/medtrack")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Override with environment variables
	overrideWithEnv(&config)

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8084)
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)
	viper.SetDefault("server.idle_timeout", 120)

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "tubocare")
	viper.SetDefault("database.user", "tubocare")
	viper.SetDefault("database.ssl_mode", "require")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 300)

	// JWT defaults
	viper.SetDefault("jwt.issuer", "tubocare-medtrack")

	// Alarm defaults
	viper.SetDefault("alarm.lead_minutes", 5)

	// Sweep defaults: once per week, reset anything taken more than a week ago
	viper.SetDefault("sweep.interval_hours", 168)
	viper.SetDefault("sweep.stale_after_hours", 168)

	// Connectivity defaults
	viper.SetDefault("connectivity.enabled", true)
	viper.SetDefault("connectivity.probe_addr", "1.1.1.1:53")
	viper.SetDefault("connectivity.timeout_seconds", 3)

	// Monitoring defaults
	viper.SetDefault("monitoring.enabled", true)
	viper.SetDefault("monitoring.metrics_path", "/metrics")
	viper.SetDefault("monitoring.health_path", "/health")

	// Logging defaults
	viper.SetDefault("log_level", "info")
}

// overrideWithEnv overrides configuration with environment variables
func overrideWithEnv(config *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if jwtSecret := os.Getenv("JWT_SECRET_KEY"); jwtSecret != "" {
		config.JWT.SecretKey = jwtSecret
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.LogLevel = logLevel
	}
}

// validate validates the configuration
func validate(config *Config) error {
	if config.JWT.SecretKey == "" {
		return fmt.Errorf("JWT secret key is required")
	}

	if config.Database.Password == "" {
		return fmt.Errorf("database password is required")
	}

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Alarm.LeadMinutes < 0 {
		return fmt.Errorf("alarm lead minutes must not be negative: %d", config.Alarm.LeadMinutes)
	}

	if config.Sweep.IntervalHours <= 0 {
		return fmt.Errorf("sweep interval must be positive: %d", config.Sweep.IntervalHours)
	}

	if config.Sweep.StaleAfterHours <= 0 {
		return fmt.Errorf("sweep stale-after must be positive: %d", config.Sweep.StaleAfterHours)
	}

	return nil
}
