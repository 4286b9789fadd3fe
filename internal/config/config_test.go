package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/netarc/pkg/cache"
	"github.com/matzehuels/netarc/pkg/errors"
)

var envVars = []string{"NETARC_CACHE", "NETARC_CACHE_DIR", "NETARC_REDIS_ADDR", "NETARC_ADDR"}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Default()
	if *c != want {
		t.Errorf("Load() = %+v, want %+v", *c, want)
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[router]
parallelism = 4
samples = 200
engine = "dot"

[cache]
backend = "redis"
redis_addr = "localhost:6379"
redis_db = 2
ttl = "1h"

[server]
addr = ":9000"
read_timeout = "5s"
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Router.Parallelism != 4 || c.Router.Samples != 200 || c.Router.Engine != "dot" {
		t.Errorf("Router = %+v", c.Router)
	}
	if c.Cache.Backend != BackendRedis || c.Cache.RedisAddr != "localhost:6379" || c.Cache.RedisDB != 2 {
		t.Errorf("Cache = %+v", c.Cache)
	}
	if c.Cache.TTL != time.Hour {
		t.Errorf("Cache.TTL = %v, want 1h", c.Cache.TTL)
	}
	if c.Server.Addr != ":9000" || c.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Server = %+v", c.Server)
	}
	// Unset keys keep their defaults.
	if c.Server.MaxBodyBytes != Default().Server.MaxBodyBytes {
		t.Errorf("MaxBodyBytes = %d, want default", c.Server.MaxBodyBytes)
	}
}

func TestLoad_DefaultPath(t *testing.T) {
	clearEnv(t)
	dir := os.Getenv("XDG_CONFIG_HOME")
	if err := os.MkdirAll(filepath.Join(dir, "netarc"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Path(), []byte("[server]\naddr = \":7000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Server.Addr != ":7000" {
		t.Errorf("Server.Addr = %q, want :7000", c.Server.Addr)
	}
}

func TestLoad_Env(t *testing.T) {
	for _, tc := range []struct {
		name        string
		env         map[string]string
		wantBackend string
		wantAddr    string
		wantRedis   string
	}{
		{
			name:        "RedisAddrSelectsRedis",
			env:         map[string]string{"NETARC_REDIS_ADDR": "redis:6379"},
			wantBackend: BackendRedis,
			wantAddr:    ":8080",
			wantRedis:   "redis:6379",
		},
		{
			name:        "ExplicitBackendWins",
			env:         map[string]string{"NETARC_REDIS_ADDR": "redis:6379", "NETARC_CACHE": "none"},
			wantBackend: BackendNone,
			wantAddr:    ":8080",
			wantRedis:   "redis:6379",
		},
		{
			name:        "ServerAddr",
			env:         map[string]string{"NETARC_ADDR": "127.0.0.1:3000"},
			wantBackend: BackendFile,
			wantAddr:    "127.0.0.1:3000",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			c, err := Load("")
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if c.Cache.Backend != tc.wantBackend {
				t.Errorf("Backend = %q, want %q", c.Cache.Backend, tc.wantBackend)
			}
			if c.Server.Addr != tc.wantAddr {
				t.Errorf("Addr = %q, want %q", c.Server.Addr, tc.wantAddr)
			}
			if c.Cache.RedisAddr != tc.wantRedis {
				t.Errorf("RedisAddr = %q, want %q", c.Cache.RedisAddr, tc.wantRedis)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"Malformed", "[router\n", errors.ErrCodeInvalidInput},
		{"UnknownKey", "[router]\nspeed = 3\n", errors.ErrCodeInvalidInput},
		{"UnknownBackend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidInput},
		{"RedisWithoutAddr", "[cache]\nbackend = \"redis\"\n", errors.ErrCodeInvalidInput},
		{"NegativeParallelism", "[router]\nparallelism = -1\n", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}

	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestOpenCache(t *testing.T) {
	c := Default()
	c.Cache.Backend = BackendNone
	got, err := c.OpenCache("")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.(cache.NullCache); !ok {
		t.Errorf("OpenCache(none) = %T, want cache.NullCache", got)
	}

	c.Cache.Backend = BackendFile
	c.Cache.Dir = t.TempDir()
	got, err = c.OpenCache("")
	if err != nil {
		t.Fatal(err)
	}
	defer got.Close()
	if _, ok := got.(cache.Clearer); !ok {
		t.Errorf("OpenCache(file) = %T, want a Clearer", got)
	}
}
