// Package config holds the two configuration layers of the engine:
// deployment configuration loaded from file/env via viper, and runtime
// settings persisted through the store so operators can change them
// without a restart.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the deployment configuration, loaded once at startup.
type Config struct {
	Redis  RedisConfig  `mapstructure:"redis"`
	Engine EngineConfig `mapstructure:"engine"`
}

// RedisConfig configures the persistent store connection.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolSize     int           `mapstructure:"pool_size"`
}

// EngineConfig configures the engine's bounded state.
type EngineConfig struct {
	EventLogCap   int `mapstructure:"event_log_cap"`
	PopularityCap int `mapstructure:"popularity_cap"`
	// TrendWindowDays is the length of each of the two windows trend
	// classification compares.
	TrendWindowDays int `mapstructure:"trend_window_days"`
}

// Load reads configuration from the given file (optional) plus
// SEARCHKIT_* environment variables, falling back to defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "searchkit:")
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("engine.event_log_cap", 100)
	v.SetDefault("engine.popularity_cap", 20)
	v.SetDefault("engine.trend_window_days", 7)

	v.SetEnvPrefix("SEARCHKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
