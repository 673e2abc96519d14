package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

const (
	// MinPrecision and MaxPrecision bound the geohash length.
	MinPrecision = 1
	MaxPrecision = 12

	// DefaultPrecision is used when a request or row carries no precision.
	DefaultPrecision = 6
)

type Config struct {
	Port             string        `mapstructure:"PORT"`
	DefaultPrecision int           `mapstructure:"DEFAULT_PRECISION"`
	Workers          int           `mapstructure:"WORKERS"`
	MaxCells         int           `mapstructure:"MAX_CELLS"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	LogFormat        string        `mapstructure:"LOG_FORMAT"`
	RequestTimeout   time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	RedisURL         string        `mapstructure:"REDIS_URL"`
	CacheTTL         time.Duration `mapstructure:"CACHE_TTL"`
}

// ClampPrecision pulls p into [MinPrecision, MaxPrecision].
func ClampPrecision(p int64) int {
	if p < MinPrecision {
		return MinPrecision
	}
	if p > MaxPrecision {
		return MaxPrecision
	}
	return int(p)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", ":8080")
	v.SetDefault("DEFAULT_PRECISION", DefaultPrecision)
	v.SetDefault("WORKERS", runtime.NumCPU())
	v.SetDefault("MAX_CELLS", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CACHE_TTL", "10m")
}

func LoadConfig() (c Config, err error) {
	return Load(viper.New(), ".")
}

// Load reads .env.<APP_ENV> from dir into v, lets environment variables
// override it and validates the result.
func Load(v *viper.Viper, dir string) (c Config, err error) {
	// Get environment type from ENV variable or use development as default
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	setDefaults(v)

	v.SetConfigName(fmt.Sprintf(".env.%s", env))
	v.SetConfigType("env")
	v.AddConfigPath(dir)

	// Environment variables take precedence over config file
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Continue even if file is not found
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	if err = v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.DefaultPrecision < MinPrecision || c.DefaultPrecision > MaxPrecision {
		return errors.Newf("DEFAULT_PRECISION %d outside [%d, %d]", c.DefaultPrecision, MinPrecision, MaxPrecision)
	}
	if c.Workers < 0 {
		return errors.Newf("WORKERS must not be negative, got %d", c.Workers)
	}
	if c.MaxCells < 0 {
		return errors.Newf("MAX_CELLS must not be negative, got %d", c.MaxCells)
	}
	if c.RequestTimeout < 0 {
		return errors.Newf("REQUEST_TIMEOUT must not be negative, got %s", c.RequestTimeout)
	}
	if c.CacheTTL < 0 {
		return errors.Newf("CACHE_TTL must not be negative, got %s", c.CacheTTL)
	}
	return nil
}
