// Package config loads swapi-export settings from defaults, an optional
// config file and SWAPI_EXPORT_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Sternrassler/swapi-export/pkg/logging"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix = "SWAPI_EXPORT"

	DefaultBaseURL         = "https://swapi.dev/api"
	DefaultPeopleEndpoint  = "people"
	DefaultSpeciesEndpoint = "species"
	DefaultUserAgent       = "swapi-export/0.1.0"
	DefaultTimeout         = 30 * time.Second
	DefaultCacheBackend    = CacheMemory
	DefaultRedisAddr       = "localhost:6379"
	DefaultBoltPath        = "swapi-cache.db"
	DefaultOutputDir       = "output"
	DefaultOutputFile      = "output.csv"
	DefaultTop             = 10
	DefaultWorkers         = 1
	DefaultUploadBaseURL   = "http://httpbin.org"
	DefaultUploadEndpoint  = "post"
	DefaultLogLevel        = "info"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheBolt   = "bolt"
)

type Config struct {
	BaseURL         string        `json:"base_url,omitempty"         mapstructure:"base_url"`
	PeopleEndpoint  string        `json:"people_endpoint,omitempty"  mapstructure:"people_endpoint"`
	SpeciesEndpoint string        `json:"species_endpoint,omitempty" mapstructure:"species_endpoint"`
	UserAgent       string        `json:"user_agent,omitempty"       mapstructure:"user_agent"`
	Timeout         time.Duration `json:"timeout,omitempty"          mapstructure:"timeout"`

	CacheBackend string `json:"cache_backend,omitempty" mapstructure:"cache_backend"`
	RedisAddr    string `json:"redis_addr,omitempty"    mapstructure:"redis_addr"`
	BoltPath     string `json:"bolt_path,omitempty"     mapstructure:"bolt_path"`

	OutputDir  string `json:"output_dir,omitempty"  mapstructure:"output_dir"`
	OutputFile string `json:"output_file,omitempty" mapstructure:"output_file"`
	Top        int    `json:"top,omitempty"         mapstructure:"top"`
	Workers    int    `json:"workers,omitempty"     mapstructure:"workers"`

	UploadBaseURL  string `json:"upload_base_url,omitempty" mapstructure:"upload_base_url"`
	UploadEndpoint string `json:"upload_endpoint,omitempty" mapstructure:"upload_endpoint"`
	SkipUpload     bool   `json:"skip_upload,omitempty"     mapstructure:"skip_upload"`

	LogLevel  string `json:"log_level,omitempty"  mapstructure:"log_level"`
	LogPretty bool   `json:"log_pretty,omitempty" mapstructure:"log_pretty"`

	MetricsFile string `json:"metrics_file,omitempty" mapstructure:"metrics_file"`
}

var DefaultConfig = Config{
	BaseURL:         DefaultBaseURL,
	PeopleEndpoint:  DefaultPeopleEndpoint,
	SpeciesEndpoint: DefaultSpeciesEndpoint,
	UserAgent:       DefaultUserAgent,
	Timeout:         DefaultTimeout,
	CacheBackend:    DefaultCacheBackend,
	RedisAddr:       DefaultRedisAddr,
	BoltPath:        DefaultBoltPath,
	OutputDir:       DefaultOutputDir,
	OutputFile:      DefaultOutputFile,
	Top:             DefaultTop,
	Workers:         DefaultWorkers,
	UploadBaseURL:   DefaultUploadBaseURL,
	UploadEndpoint:  DefaultUploadEndpoint,
	LogLevel:        DefaultLogLevel,
}

// LoadConfig reads and validates the configuration. configFile is
// optional; when set it is read before environment variables are applied.
func LoadConfig(configFile string) (*Config, error) {
	config, err := Load(configFile)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Load reads the configuration like LoadConfig but leaves validation to
// the caller, so later overrides such as command-line flags are checked
// together with the file and environment values.
func Load(configFile string) (*Config, error) {
	v := viper.NewWithOptions(
		viper.KeyDelimiter("."),
		viper.EnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")),
	)

	v.SetEnvPrefix(DefaultEnvPrefix)
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	defaults := map[string]any{
		"base_url":         DefaultConfig.BaseURL,
		"people_endpoint":  DefaultConfig.PeopleEndpoint,
		"species_endpoint": DefaultConfig.SpeciesEndpoint,
		"user_agent":       DefaultConfig.UserAgent,
		"timeout":          DefaultConfig.Timeout,
		"cache_backend":    DefaultConfig.CacheBackend,
		"redis_addr":       DefaultConfig.RedisAddr,
		"bolt_path":        DefaultConfig.BoltPath,
		"output_dir":       DefaultConfig.OutputDir,
		"output_file":      DefaultConfig.OutputFile,
		"top":              DefaultConfig.Top,
		"workers":          DefaultConfig.Workers,
		"upload_base_url":  DefaultConfig.UploadBaseURL,
		"upload_endpoint":  DefaultConfig.UploadEndpoint,
		"skip_upload":      DefaultConfig.SkipUpload,
		"log_level":        DefaultConfig.LogLevel,
		"log_pretty":       DefaultConfig.LogPretty,
		"metrics_file":     DefaultConfig.MetricsFile,
	}
	for key, value := range defaults {
		_ = v.BindEnv(key)
		v.SetDefault(key, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	// Load configuration into struct
	decodeHooks := mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	)

	config := &Config{}
	if err := v.Unmarshal(config, viper.DecodeHook(decodeHooks)); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return config, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.CacheBackend {
	case CacheMemory:
	case CacheRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("invalid configuration: redis_addr is required for the redis cache")
		}
	case CacheBolt:
		if c.BoltPath == "" {
			return fmt.Errorf("invalid configuration: bolt_path is required for the bolt cache")
		}
	default:
		return fmt.Errorf("invalid configuration: unknown cache_backend %q (want %s, %s or %s)",
			c.CacheBackend, CacheMemory, CacheRedis, CacheBolt)
	}

	if c.BaseURL == "" {
		return fmt.Errorf("invalid configuration: base_url is required")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("invalid configuration: output_file is required")
	}
	if c.Top < 0 {
		return fmt.Errorf("invalid configuration: top must not be negative, got %d", c.Top)
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid configuration: workers must be at least 1, got %d", c.Workers)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}
