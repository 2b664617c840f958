package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/habitat-tracker/internal/codec"
	"github.com/feral-file/habitat-tracker/internal/domain"
	"github.com/feral-file/habitat-tracker/internal/validation"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// SolanaConfig holds Solana RPC and program configuration
type SolanaConfig struct {
	RPCURL     string `mapstructure:"rpc_url" validate:"required,url"`
	ProgramID  string `mapstructure:"program_id" validate:"required,address"`
	Commitment string `mapstructure:"commitment" validate:"oneof=processed confirmed finalized"`
	// LockedStakeAccountSize is the exact data length of locked-ki accounts used by the scan filter.
	// Deployments have used both 1000 and 1040 so there is no default.
	LockedStakeAccountSize int           `mapstructure:"locked_stake_account_size" validate:"required,min=142"`
	LandlordOffset         int           `mapstructure:"landlord_offset" validate:"min=8"`
	BatchSize              int           `mapstructure:"batch_size" validate:"min=1,max=100"`
	RequestTimeout         time.Duration `mapstructure:"request_timeout"`
	RetryMaxElapsedTime    time.Duration `mapstructure:"retry_max_elapsed_time"`
}

// MetadataConfig holds the NFT metadata (DAS) service configuration
type MetadataConfig struct {
	URL           string        `mapstructure:"url" validate:"required,url"`
	HabitatSymbol string        `mapstructure:"habitat_symbol" validate:"required"`
	PageSize      int           `mapstructure:"page_size" validate:"min=1,max=1000"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig holds rate limit settings for a single provider
type RateLimitConfig struct {
	RequestsPerSecond int           `mapstructure:"requests_per_second" validate:"min=1"`
	Burst             int           `mapstructure:"burst"`
	MaxQueueTime      time.Duration `mapstructure:"max_queue_time"`
}

// RateLimiterConfig holds the outbound rate limiter configuration
type RateLimiterConfig struct {
	MaxWorkers   int                        `mapstructure:"max_workers"`
	MaxQueueSize int                        `mapstructure:"max_queue_size"`
	Providers    map[string]RateLimitConfig `mapstructure:"providers" validate:"dive"`
}

// QueryConfig holds report query settings
type QueryConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency" validate:"min=1"`
}

// SessionConfig holds query session settings
type SessionConfig struct {
	MaxSessions int           `mapstructure:"max_sessions" validate:"min=1"`
	TTL         time.Duration `mapstructure:"ttl"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout  int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int      `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int      `mapstructure:"idle_timeout"`  // in seconds
	CORSOrigins  []string `mapstructure:"cors_origins"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig  `mapstructure:",squash"`
	Server      ServerConfig      `mapstructure:"server"`
	Solana      SolanaConfig      `mapstructure:"solana"`
	Metadata    MetadataConfig    `mapstructure:"metadata"`
	RateLimiter RateLimiterConfig `mapstructure:"rate_limiter"`
	Query       QueryConfig       `mapstructure:"query"`
	Session     SessionConfig     `mapstructure:"session"`
}

// TrackerConfig holds configuration for the tracker CLI
type TrackerConfig struct {
	BaseConfig  `mapstructure:",squash"`
	Solana      SolanaConfig      `mapstructure:"solana"`
	Metadata    MetadataConfig    `mapstructure:"metadata"`
	RateLimiter RateLimiterConfig `mapstructure:"rate_limiter"`
	Query       QueryConfig       `mapstructure:"query"`
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	setCommonDefaults(v)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 75)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("session.max_sessions", 1024)
	v.SetDefault("session.ttl", "30m")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadTrackerConfig loads configuration for the tracker CLI
func LoadTrackerConfig(configFile string, envPath string) (*TrackerConfig, error) {
	v := configureViper("tracker", configFile, envPath)

	setCommonDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config TrackerConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setCommonDefaults(v *viper.Viper) {
	v.SetDefault("solana.rpc_url", domain.DEFAULT_RPC_URL)
	v.SetDefault("solana.program_id", domain.DEFAULT_PROGRAM_ID)
	v.SetDefault("solana.commitment", "confirmed")
	v.SetDefault("solana.landlord_offset", codec.LandlordOffset)
	v.SetDefault("solana.batch_size", 100)
	v.SetDefault("solana.request_timeout", "30s")
	v.SetDefault("solana.retry_max_elapsed_time", "20s")

	v.SetDefault("metadata.habitat_symbol", domain.DEFAULT_HABITAT_SYMBOL)
	v.SetDefault("metadata.page_size", 1000)
	v.SetDefault("metadata.timeout", "30s")

	v.SetDefault("rate_limiter.max_workers", 32)
	v.SetDefault("rate_limiter.max_queue_size", 1000)
	v.SetDefault("rate_limiter.providers.solana.requests_per_second", 10)
	v.SetDefault("rate_limiter.providers.solana.burst", 10)
	v.SetDefault("rate_limiter.providers.solana.max_queue_time", "30s")
	v.SetDefault("rate_limiter.providers.metadata.requests_per_second", 5)
	v.SetDefault("rate_limiter.providers.metadata.burst", 5)
	v.SetDefault("rate_limiter.providers.metadata.max_queue_time", "30s")

	v.SetDefault("query.timeout", "60s")
	v.SetDefault("query.concurrency", 4)
}

// readConfig reads the config file, falling back to defaults and environment variables when it is missing
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		// An explicit config file that does not exist is treated the same way
		if file := v.ConfigFileUsed(); file != "" {
			if _, statErr := os.Stat(file); errors.Is(statErr, os.ErrNotExist) {
				return nil
			}
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func validateConfig(cfg any) error {
	if err := validation.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %s", strings.Join(validation.Describe(err), "; "))
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/api/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("HABITAT_TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Solana
		"solana.rpc_url",
		"solana.program_id",
		"solana.commitment",
		"solana.locked_stake_account_size",
		"solana.landlord_offset",
		"solana.batch_size",
		"solana.request_timeout",
		"solana.retry_max_elapsed_time",
		// Metadata
		"metadata.url",
		"metadata.habitat_symbol",
		"metadata.page_size",
		"metadata.timeout",
		// Rate limiter
		"rate_limiter.max_workers",
		"rate_limiter.max_queue_size",
		// Query
		"query.timeout",
		"query.concurrency",
		// Session
		"session.max_sessions",
		"session.ttl",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.cors_origins",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// ProgramKey returns the parsed program id
func (c *SolanaConfig) ProgramKey() (domain.Key, error) {
	return domain.ParseKey(c.ProgramID)
}
