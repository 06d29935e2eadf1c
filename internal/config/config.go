// Package config loads the workshop settings from defaults, an optional file,
// WORKSHOP_* environment variables and command flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/workshop/internal/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. WORKSHOP_SERVER_ADDR.
const EnvPrefix = "WORKSHOP"

// Store drivers.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Sound   SoundConfig   `mapstructure:"sound"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// CatalogConfig selects the exercise content. An empty path uses the embedded catalog.
type CatalogConfig struct {
	Path  string `mapstructure:"path"`
	Watch bool   `mapstructure:"watch"`
}

type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// StoreConfig selects where live session snapshots are recorded.
type StoreConfig struct {
	Driver string      `mapstructure:"driver"`
	Path   string      `mapstructure:"path"`
	Redis  RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// SoundConfig controls cue playback. Cues names a cues.yaml file mapping cues to
// commands; without it the terminal bell is used.
type SoundConfig struct {
	Muted bool   `mapstructure:"muted"`
	Cues  string `mapstructure:"cues"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// FlagKeys maps command flag names to configuration keys. Flags that a command
// does not define are skipped.
var FlagKeys = map[string]string{
	"log-level":    "log.level",
	"catalog":      "catalog.path",
	"watch":        "catalog.watch",
	"addr":         "server.addr",
	"store":        "store.driver",
	"store-path":   "store.path",
	"redis-addr":   "store.redis.addr",
	"redis-prefix": "store.redis.prefix",
	"redis-ttl":    "store.redis.ttl",
	"mute":         "sound.muted",
	"cues":         "sound.cues",
	"metrics":      "metrics.enabled",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.watch", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("store.driver", StoreMemory)
	v.SetDefault("store.path", filepath.Join(".workshop", "sessions"))
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "workshop:session:")
	v.SetDefault("store.redis.ttl", 24*time.Hour)
	v.SetDefault("sound.muted", false)
	v.SetDefault("sound.cues", "")
	v.SetDefault("metrics.enabled", true)
}

// Load reads the configuration. A non-empty path must point to a readable file;
// otherwise workshop.yaml is looked up in the working directory and in
// $HOME/.config/workshop, and its absence is not an error.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("workshop")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "workshop"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	switch c.Store.Driver {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("invalid store.driver %q: want memory, file or redis", c.Store.Driver)
	}
	if c.Store.Redis.TTL < 0 {
		return fmt.Errorf("invalid store.redis.ttl %s", c.Store.Redis.TTL)
	}
	return nil
}
