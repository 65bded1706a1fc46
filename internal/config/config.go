package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envConfigPath points at an explicit configuration file.
const envConfigPath = "MERIDIAN_CONFIG"

// Config holds the configuration settings for the geotag service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the monitoring server.
// - ReadTimeout, WriteTimeout: Timeouts of the monitoring server.
// - ProviderType: The reverse geocoding provider to use (google, nominatim, none).
// - APIKey: The API key for accessing external services (required for Google).
// - RateLimit: Requests per second allowed against the provider.
// - Workers: The number of concurrent workers for processing photos.
// - Interval: The duration between polling rounds.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env          string         // Env is the current environment: local, development, production.
	Port         int            // Port is the monitoring server port.
	ReadTimeout  time.Duration  // ReadTimeout of the monitoring server.
	WriteTimeout time.Duration  // WriteTimeout of the monitoring server.
	ProviderType string         // ProviderType specifies which reverse geocoding provider to use.
	APIKey       string         // The API key for accessing external services.
	RateLimit    int            // Requests per second allowed against the provider.
	Workers      int            // The number of concurrent workers for processing photos.
	Interval     time.Duration  // The duration between polling rounds.
	Database     PostgresConfig // Database holds the postgres database configuration
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// MustLoad reads .env, an optional meridian.yaml and MERIDIAN_* environment
// variables, in increasing order of precedence, and panics on invalid values.
func MustLoad() *Config {
	_ = godotenv.Load()

	v, explicit := newViper()
	if err := v.ReadInConfig(); err != nil {
		// Only a missing default file is tolerated.
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			panic("failed to read configuration file")
		}
	}

	interval, err := time.ParseDuration(v.GetString("interval"))
	if err != nil {
		panic("failed to parse interval from configuration")
	}

	healthPort, err := strconv.Atoi(v.GetString("health_port"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	readTimeout, err := time.ParseDuration(v.GetString("monitoring.read_timeout"))
	if err != nil {
		panic("failed to parse monitoring server read timeout from configuration")
	}

	writeTimeout, err := time.ParseDuration(v.GetString("monitoring.write_timeout"))
	if err != nil {
		panic("failed to parse monitoring server write timeout from configuration")
	}

	workers, err := strconv.Atoi(v.GetString("workers"))
	if err != nil || workers < 1 {
		panic("failed to parse workers from configuration, must be a positive integer")
	}

	rateLimit, err := strconv.Atoi(v.GetString("provider.rate_limit"))
	if err != nil {
		panic("failed to parse provider rate limit from configuration")
	}

	return &Config{
		Env:          v.GetString("env"),
		Port:         healthPort,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		ProviderType: v.GetString("provider.type"),
		APIKey:       v.GetString("provider.api_key"),
		RateLimit:    rateLimit,
		Workers:      workers,
		Interval:     interval,
		Database: PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			Name:     v.GetString("postgres.db_name"),
		},
	}
}

// newViper reports whether an explicit configuration file was requested.
func newViper() (*viper.Viper, bool) {
	v := viper.New()

	v.SetConfigName("meridian")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	path := os.Getenv(envConfigPath)
	if path != "" {
		v.SetConfigFile(path)
	}

	v.SetDefault("env", "production")
	v.SetDefault("health_port", "8080")
	v.SetDefault("monitoring.read_timeout", "5s")
	v.SetDefault("monitoring.write_timeout", "10s")
	v.SetDefault("interval", "10m")
	v.SetDefault("workers", "10")
	v.SetDefault("provider.type", "nominatim")
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.rate_limit", "1")
	v.SetDefault("postgres.port", "5432")

	v.SetEnvPrefix("MERIDIAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Database credentials keep the conventional unprefixed names.
	_ = v.BindEnv("postgres.host", "DB_HOST")
	_ = v.BindEnv("postgres.port", "DB_PORT")
	_ = v.BindEnv("postgres.user", "DB_USERNAME")
	_ = v.BindEnv("postgres.password", "DB_PASSWORD")
	_ = v.BindEnv("postgres.db_name", "DB_NAME")

	return v, path != ""
}
