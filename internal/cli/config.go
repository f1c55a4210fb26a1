package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	rterrors "github.com/matzehuels/routetrace/pkg/errors"
	"github.com/matzehuels/routetrace/pkg/pipeline"
	"github.com/matzehuels/routetrace/pkg/playback"
	"github.com/matzehuels/routetrace/pkg/session"
)

// Store backends accepted in [store] backend and serve --store.
const (
	backendFile   = "file"
	backendMemory = "memory"
	backendRedis  = "redis"
)

// Config is the contents of config.toml. Missing keys keep their defaults.
//
//	[playback]
//	speed = 1.5
//	interval_ms = 700
//
//	[paths]
//	limit = 50
//
//	[store]
//	backend = "file"
//	dir = "/home/me/.config/routetrace/sessions"
//	redis_addr = "localhost:6379"
//	redis_db = 0
//	ttl_hours = 720
//
//	[server]
//	addr = ":8080"
//	allowed_origins = ["http://localhost:5173"]
//
//	[cache]
//	disabled = false
//	dir = "/home/me/.cache/routetrace"
type Config struct {
	Playback PlaybackConfig `toml:"playback"`
	Paths    PathsConfig    `toml:"paths"`
	Store    StoreConfig    `toml:"store"`
	Server   ServerConfig   `toml:"server"`
	Cache    CacheConfig    `toml:"cache"`
}

// PlaybackConfig configures the play command.
type PlaybackConfig struct {
	Speed      float64 `toml:"speed"`
	IntervalMS int     `toml:"interval_ms"`
}

// Interval returns the delay between steps at speed 1.
func (c PlaybackConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// PathsConfig configures path enumeration.
type PathsConfig struct {
	Limit int `toml:"limit"`
}

// StoreConfig selects where sessions live.
type StoreConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
	TTLHours  int    `toml:"ttl_hours"`
}

// TTL returns the session lifetime, zero meaning the store default.
func (c StoreConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// CacheConfig configures the run cache.
type CacheConfig struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Playback: PlaybackConfig{Speed: 1, IntervalMS: int(playback.DefaultInterval / time.Millisecond)},
		Paths:    PathsConfig{Limit: pipeline.DefaultLimit},
		Store:    StoreConfig{Backend: backendFile, RedisAddr: "localhost:6379"},
		Server:   ServerConfig{Addr: ":8080"},
	}
}

// configPath returns the config file location using XDG standard
// (~/.config/routetrace/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// LoadConfig reads the config file at path over the defaults. An empty path
// means the XDG location, which may be absent. An explicit path must exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if !explicit {
				return DefaultConfig(), nil
			}
			return cfg, rterrors.New(rterrors.ErrCodeNotFound, "config file %s does not exist", path)
		}
		return cfg, rterrors.Wrap(rterrors.ErrCodeInvalidFormat, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, rterrors.New(rterrors.ErrCodeInvalidInput,
			"unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges, reporting every problem at once.
func (c Config) Validate() error {
	v := rterrors.NewValidation(rterrors.ErrCodeInvalidInput, "invalid configuration")
	v.Check(c.Playback.Speed >= 0, "playback.speed cannot be negative")
	v.Check(c.Playback.IntervalMS >= 0, "playback.interval_ms cannot be negative")
	v.Check(c.Paths.Limit >= 0 && c.Paths.Limit <= pipeline.MaxLimit,
		fmt.Sprintf("paths.limit must be between 0 and %d", pipeline.MaxLimit))
	switch c.Store.Backend {
	case "", backendFile, backendMemory, backendRedis:
	default:
		v.Addf("store.backend %q is not one of file, memory, redis", c.Store.Backend)
	}
	v.Check(c.Store.TTLHours >= 0, "store.ttl_hours cannot be negative")
	return v.Err()
}

// sessionTTL returns the configured TTL or the session default.
func (c Config) sessionTTL() time.Duration {
	if ttl := c.Store.TTL(); ttl > 0 {
		return ttl
	}
	return session.DefaultTTL
}
