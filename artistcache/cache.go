// Package artistcache keeps the genre tags of every artist ever looked up,
// so that an artist is fetched from the external catalog at most once.
//
// An empty tag list is a real entry ("looked up, no genres found") and is
// distinct from an artist that was never looked up.
package artistcache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// A Store persists cache entries by key.
type Store interface {
	GetArtistGenres(key string) ([]string, bool, error)
	PutArtistGenres(key, name string, genres []string) error
	EachArtistGenres(fn func(key string, genres []string) error) error
}

// A LookupFunc asks the external catalog for an artist's genre tags.
type LookupFunc func(ctx context.Context, name string) ([]string, error)

// A Pacer delays a lookup until the external service may be called again.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Key normalizes an artist name into its cache key.
func Key(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Cache is the artist genre cache. Entries are held in memory and written
// through to the store; a lookup is never repeated for a key that already
// has an entry, even if writing it to the store failed.
type Cache struct {
	mu  sync.Mutex
	mem map[string][]string

	group  singleflight.Group
	store  Store
	lookup LookupFunc
	log    zerolog.Logger
}

// New returns a cache over store. store may be nil for a cache that lives
// only as long as the process. A nil lookup makes every miss return an
// empty list without caching it.
func New(store Store, lookup LookupFunc, log zerolog.Logger) *Cache {
	return &Cache{
		mem:    map[string][]string{},
		store:  store,
		lookup: lookup,
		log:    log.With().Str("component", "artistcache").Logger(),
	}
}

// Get returns an artist's genre tags, looking them up on a miss.
func (c *Cache) Get(ctx context.Context, name string) []string {
	return c.Fetch(ctx, name, nil)
}

// Fetch is Get with pace consulted before any external lookup. It never
// fails: lookup errors are cached as an empty list. A lookup cut short by
// ctx is not cached.
func (c *Cache) Fetch(ctx context.Context, name string, pace Pacer) []string {
	key := Key(name)
	if key == "" {
		return []string{}
	}
	if genres, ok := c.cached(key); ok {
		return genres
	}

	// Concurrent misses for one key share a single lookup.
	v, _, _ := c.group.Do(key, func() (any, error) {
		if genres, ok := c.cached(key); ok {
			return genres, nil
		}
		genres, ok := c.lookupGenres(ctx, name, pace)
		if !ok {
			return []string{}, nil
		}
		c.remember(key, name, genres)
		return genres, nil
	})
	return clone(v.([]string))
}

// Has reports whether name has an entry.
func (c *Cache) Has(name string) bool {
	key := Key(name)
	if key == "" {
		return false
	}
	_, ok := c.cached(key)
	return ok
}

func (c *Cache) cached(key string) ([]string, bool) {
	c.mu.Lock()
	genres, ok := c.mem[key]
	c.mu.Unlock()
	if ok {
		c.log.Debug().Str("artist", key).Msg("cache hit")
		return clone(genres), true
	}

	if c.store == nil {
		return nil, false
	}
	genres, ok, err := c.store.GetArtistGenres(key)
	if err != nil {
		c.log.Warn().Err(err).Str("artist", key).Msg("error reading cache store")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	if genres == nil {
		genres = []string{}
	}

	c.mu.Lock()
	c.mem[key] = genres
	c.mu.Unlock()
	c.log.Debug().Str("artist", key).Msg("cache hit")
	return clone(genres), true
}

// lookupGenres reports false when the answer must not be cached.
func (c *Cache) lookupGenres(ctx context.Context, name string, pace Pacer) ([]string, bool) {
	if c.lookup == nil {
		return nil, false
	}
	if pace != nil {
		if err := pace.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, false
			}
			c.log.Warn().Err(err).Msg("pacer failed; looking up anyway")
		}
	}

	c.log.Debug().Str("artist", name).Msg("cache miss")
	raw, err := c.lookup(ctx, name)
	if ctx.Err() != nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn().Err(err).Str("artist", name).Msg("lookup failed; caching no genres")
		return []string{}, true
	}

	genres := make([]string, 0, len(raw))
	for _, g := range raw {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	return genres, true
}

func (c *Cache) remember(key, name string, genres []string) {
	c.mu.Lock()
	c.mem[key] = genres
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	if err := c.store.PutArtistGenres(key, name, genres); err != nil {
		c.log.Warn().Err(err).Str("artist", key).Msg("error writing cache store")
	}
}

// Put stores genres for name, replacing any existing entry. It is how an
// operator seeds the cache without a lookup.
func (c *Cache) Put(name string, genres []string) error {
	key := Key(name)
	if key == "" {
		return fmt.Errorf("empty artist name")
	}
	genres = clone(genres)

	c.mu.Lock()
	c.mem[key] = genres
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	if err := c.store.PutArtistGenres(key, name, genres); err != nil {
		return fmt.Errorf("error storing genres for '%s': %w", key, err)
	}
	return nil
}

// Each calls fn for every cached entry: stored entries in the store's
// order, then entries only held in memory, sorted by key.
func (c *Cache) Each(fn func(key string, genres []string) error) error {
	seen := map[string]struct{}{}
	if c.store != nil {
		if err := c.store.EachArtistGenres(func(key string, genres []string) error {
			seen[key] = struct{}{}
			if genres == nil {
				genres = []string{}
			}
			return fn(key, genres)
		}); err != nil {
			return fmt.Errorf("error enumerating cache store: %w", err)
		}
	}

	c.mu.Lock()
	var keys []string
	for key := range c.mem {
		if _, ok := seen[key]; !ok {
			keys = append(keys, key)
		}
	}
	entries := make(map[string][]string, len(keys))
	for _, key := range keys {
		entries[key] = clone(c.mem[key])
	}
	c.mu.Unlock()

	sort.Strings(keys)
	for _, key := range keys {
		if err := fn(key, entries[key]); err != nil {
			return err
		}
	}
	return nil
}

// Keys returns every cached key in enumeration order.
func (c *Cache) Keys() ([]string, error) {
	var keys []string
	err := c.Each(func(key string, _ []string) error {
		keys = append(keys, key)
		return nil
	})
	return keys, err
}

func clone(genres []string) []string {
	return append([]string{}, genres...)
}
