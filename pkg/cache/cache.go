// Package cache stores routed layouts and rendered artifacts.
//
// # Overview
//
// The pipeline caches two kinds of entries, both content addressed:
//
//   - layouts, keyed by the diagram bytes and routing options
//   - artifacts (SVG, PNG, PDF, DOT), keyed by the layout and render options
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for the
// server and [NullCache] when caching is disabled. [Keyer] builds keys and
// [ScopedKeyer] prefixes them for separate namespaces.
//
// # Usage
//
//	c, err := cache.NewFileCache(cache.DefaultDir())
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.LayoutKey(cache.Hash(diagramJSON), cache.LayoutKeyOpts{Parallelism: 4})
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    // use data
//	}
package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/netarc/pkg/observability"
)

// Default time-to-live values.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Key types reported to cache hooks.
const (
	KeyTypeLayout    = "layout"
	KeyTypeArtifact  = "artifact"
	KeyTypePlacement = "placement"
)

// Cache is a byte store with per-entry expiry. A miss is reported through
// the bool result, not as an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Pinger is implemented by caches backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DefaultDir returns the per-user cache directory, falling back to the
// temp directory when the user cache dir is unknown.
func DefaultDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "netarc")
}

// =============================================================================
// Null Cache
// =============================================================================

// NullCache never stores anything.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

// =============================================================================
// Instrumented Cache
// =============================================================================

type instrumented struct {
	Cache
}

// Instrument reports hits, misses and writes of c to the registered
// observability cache hooks. The key type is the key's first segment.
func Instrument(c Cache) Cache {
	if _, ok := c.(instrumented); ok {
		return c
	}
	return instrumented{Cache: c}
}

func (c instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, ok, err
}

func (c instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

func (c instrumented) Clear(ctx context.Context) error {
	if cl, ok := c.Cache.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return nil
}

func (c instrumented) Ping(ctx context.Context) error {
	if p, ok := c.Cache.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// keyType extracts the type segment of keys such as "api:layout:<hash>".
func keyType(key string) string {
	for _, t := range []string{KeyTypeLayout, KeyTypeArtifact, KeyTypePlacement} {
		if strings.HasPrefix(key, t+":") || strings.Contains(key, ":"+t+":") {
			return t
		}
	}
	return "other"
}
