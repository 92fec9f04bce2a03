package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dastanaron/echohive/internal/logger"
	"github.com/dastanaron/echohive/internal/models"
	"github.com/dastanaron/echohive/internal/repository"
	"github.com/dastanaron/echohive/internal/rotation"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ECHOHIVE_STORAGE_DRIVER
const EnvPrefix = "ECHOHIVE"

var (
	// ErrUnknownDriver is returned for an unsupported storage.driver
	ErrUnknownDriver = repository.ErrUnknownDriver
	// ErrUnknownProfile is returned for an unsupported profile
	ErrUnknownProfile = errors.New("unknown profile")
	// ErrInvalidPeriod is returned for a non-positive rotation.period
	ErrInvalidPeriod = errors.New("rotation period must be positive")
)

// Config holds application configuration
type Config struct {
	Profile  string         `mapstructure:"profile"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Rotation RotationConfig `mapstructure:"rotation"`
	Log      logger.Config  `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// StorageConfig selects the key-value backend
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// RedisConfig is used when storage.driver is redis
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// RotationConfig controls the slideshow
type RotationConfig struct {
	Period time.Duration `mapstructure:"period"`
}

// MetricsConfig controls the optional Prometheus endpoint
type MetricsConfig struct {
	// Addr is the listen address; empty disables the endpoint.
	Addr string `mapstructure:"addr"`
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	return &Config{
		Profile: models.DefaultProfile,
		Storage: StorageConfig{
			Driver: repository.DriverSQLite3,
			DSN:    defaultPath("echohive.db"),
		},
		Redis: RedisConfig{
			Address: "localhost:6379",
			Prefix:  "echohive:",
		},
		Rotation: RotationConfig{Period: rotation.DefaultPeriod},
		Log: logger.Config{
			Level:  logger.DefaultLevel,
			Output: defaultPath("echohive.log"),
		},
	}
}

// WithDBPath sets a custom database path
func (c *Config) WithDBPath(path string) *Config {
	c.Storage.DSN = path
	return c
}

// WithDriver sets the storage driver
func (c *Config) WithDriver(driver string) *Config {
	c.Storage.Driver = driver
	return c
}

// WithProfile sets the content profile
func (c *Config) WithProfile(name string) *Config {
	c.Profile = name
	return c
}

// WithDebug switches logging to debug level
func (c *Config) WithDebug() *Config {
	c.Log.Level = "debug"
	return c
}

// WithMetricsAddr enables the metrics endpoint
func (c *Config) WithMetricsAddr(addr string) *Config {
	c.Metrics.Addr = addr
	return c
}

// Load reads .env, then the optional config file, then ECHOHIVE_* variables
// on top of the defaults. An explicit cfgFile must exist.
func Load(cfgFile string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, NewConfig())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Dir(defaultPath("config.yaml")))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("profile", d.Profile)
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.dsn", d.Storage.DSN)
	v.SetDefault("redis.address", d.Redis.Address)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("redis.prefix", d.Redis.Prefix)
	v.SetDefault("rotation.period", d.Rotation.Period)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.output", d.Log.Output)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
}

// Validate checks the values Load cannot
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case repository.DriverSQLite3, repository.DriverSQLite, repository.DriverLibSQL,
		repository.DriverRedis, repository.DriverMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Storage.Driver)
	}
	if _, err := models.ProfileByName(c.Profile); err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownProfile, err)
	}
	if c.Rotation.Period <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPeriod, c.Rotation.Period)
	}
	return nil
}

// ContentProfile resolves the configured profile
func (c *Config) ContentProfile() (models.Profile, error) {
	p, err := models.ProfileByName(c.Profile)
	if err != nil {
		return models.Profile{}, fmt.Errorf("%w: %v", ErrUnknownProfile, err)
	}
	return p, nil
}

// RepositoryOptions maps the storage settings onto repository.Open
func (c *Config) RepositoryOptions() repository.Options {
	return repository.Options{
		Driver: c.Storage.Driver,
		DSN:    c.Storage.DSN,
		Redis: repository.RedisOptions{
			Address:  c.Redis.Address,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix,
		},
	}
}

// EnsureDirs creates the directories of file-backed storage and logs
func (c *Config) EnsureDirs() error {
	paths := []string{c.Log.Output}
	if c.Storage.Driver == repository.DriverSQLite3 || c.Storage.Driver == repository.DriverSQLite {
		paths = append(paths, c.Storage.DSN)
	}
	for _, p := range paths {
		if p == "" || p == "stdout" || p == "stderr" || strings.HasPrefix(p, ":memory:") || strings.HasPrefix(p, "file:") {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", p, err)
		}
	}
	return nil
}

func defaultPath(name string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(homeDir, ".echohive", name)
}
