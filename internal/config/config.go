// Package config loads netarc settings from an optional TOML file and the
// environment.
//
// The file lives at $XDG_CONFIG_HOME/netarc/config.toml. Every setting has a
// default, so a missing file is not an error. Environment variables override
// the file:
//
//	NETARC_CACHE       cache backend: file, redis or none
//	NETARC_CACHE_DIR   directory of the file cache
//	NETARC_REDIS_ADDR  Redis address; setting it alone selects the redis backend
//	NETARC_ADDR        listen address of the HTTP server
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/netarc/pkg/cache"
	"github.com/matzehuels/netarc/pkg/errors"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full set of settings.
type Config struct {
	Router RouterConfig `toml:"router"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// RouterConfig holds routing and placement defaults.
type RouterConfig struct {
	Parallelism int    `toml:"parallelism"` // 0 = GOMAXPROCS
	Samples     int    `toml:"samples"`     // 0 = per-edge default
	Engine      string `toml:"engine"`      // Graphviz placement engine
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	TTL           time.Duration `toml:"ttl"` // 0 = per-entry defaults
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	MaxBodyBytes int64         `toml:"max_body_bytes"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Router: RouterConfig{Engine: "neato"},
		Cache: CacheConfig{
			Backend: BackendFile,
			Dir:     cache.DefaultDir(),
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			MaxBodyBytes: 10 << 20,
		},
	}
}

// Path returns the default config file location.
func Path() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "netarc", "config.toml")
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "netarc", "config.toml")
}

// Load reads the config file at path, or at [Path] if path is empty, and
// applies environment overrides. A missing file at the default location
// yields the defaults; a missing explicit path is an error.
func Load(path string) (*Config, error) {
	c := Default()

	explicit := path != ""
	if !explicit {
		path = Path()
	}
	if path != "" {
		if err := c.decodeFile(path, explicit); err != nil {
			return nil, err
		}
	}

	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) decodeFile(path string, required bool) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if required {
			return errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return nil
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) applyEnv() {
	if addr := os.Getenv("NETARC_REDIS_ADDR"); addr != "" {
		c.Cache.RedisAddr = addr
		c.Cache.Backend = BackendRedis
	}
	c.Cache.Backend = envOrDefault("NETARC_CACHE", c.Cache.Backend)
	c.Cache.Dir = envOrDefault("NETARC_CACHE_DIR", c.Cache.Dir)
	c.Server.Addr = envOrDefault("NETARC_ADDR", c.Server.Addr)
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	var v errors.ValidationError
	switch c.Cache.Backend {
	case BackendFile:
		if c.Cache.Dir == "" {
			v.Add("cache.dir is required for the file backend")
		}
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			v.Add("cache.redis_addr is required for the redis backend")
		}
	case BackendNone:
	default:
		v.Add("cache.backend %q must be one of file, redis, none", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		v.Add("cache.ttl must not be negative")
	}
	if c.Router.Parallelism < 0 {
		v.Add("router.parallelism must not be negative")
	}
	if c.Router.Samples < 0 {
		v.Add("router.samples must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		v.Add("server.max_body_bytes must be positive")
	}
	return v.Err(errors.ErrCodeInvalidInput, "invalid config")
}

// OpenCache builds the configured cache, instrumented with the cache
// observability hooks. prefix scopes Redis keys and is ignored otherwise.
func (c *Config) OpenCache(prefix string) (cache.Cache, error) {
	var backend cache.Cache
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		var opts []cache.RedisOption
		if c.Cache.TTL > 0 {
			opts = append(opts, cache.WithDefaultTTL(c.Cache.TTL))
		}
		if prefix != "" {
			opts = append(opts, cache.WithPrefix(prefix))
		}
		backend = cache.NewRedisCache(c.Cache.RedisAddr, c.Cache.RedisPassword, c.Cache.RedisDB, opts...)
	default:
		fc, err := cache.NewFileCache(c.Cache.Dir)
		if err != nil {
			return nil, fmt.Errorf("open file cache: %w", err)
		}
		backend = fc
	}
	return cache.Instrument(backend), nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
