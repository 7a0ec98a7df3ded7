package artistcache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/amonks/genremap/artistcache"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLookup struct {
	mu      sync.Mutex
	calls   map[string]int
	results map[string][]string
	errs    map[string]error
}

func newLookup(results map[string][]string) *countingLookup {
	return &countingLookup{calls: map[string]int{}, results: results, errs: map[string]error{}}
}

func (l *countingLookup) lookup(ctx context.Context, name string) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[artistcache.Key(name)]++
	if err := l.errs[name]; err != nil {
		return nil, err
	}
	return l.results[name], nil
}

func (l *countingLookup) count(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[artistcache.Key(name)]
}

type countingPacer struct{ waits atomic.Int64 }

func (p *countingPacer) Wait(ctx context.Context) error {
	p.waits.Add(1)
	return ctx.Err()
}

type failingStore struct{ *artistcache.MemoryStore }

func (failingStore) PutArtistGenres(key, name string, genres []string) error {
	return errors.New("disk full")
}

func TestKey(t *testing.T) {
	assert.Equal(t, "the beatles", artistcache.Key("  The   BEATLES "))
	assert.Equal(t, "", artistcache.Key("   "))
}

func TestNoDuplicateFetch(t *testing.T) {
	ctx := context.Background()
	l := newLookup(map[string][]string{"Metallica": {"heavy metal", "hard rock"}})
	c := artistcache.New(artistcache.NewMemoryStore(), l.lookup, zerolog.Nop())

	first := c.Get(ctx, "Metallica")
	second := c.Get(ctx, "metallica")
	assert.Equal(t, []string{"heavy metal", "hard rock"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, l.count("metallica"))
}

func TestEmptyResultCached(t *testing.T) {
	ctx := context.Background()
	l := newLookup(nil)
	c := artistcache.New(nil, l.lookup, zerolog.Nop())

	assert.Equal(t, []string{}, c.Get(ctx, "Unknown Artist"))
	assert.Equal(t, []string{}, c.Get(ctx, "unknown artist"))
	assert.Equal(t, 1, l.count("unknown artist"))
	assert.True(t, c.Has("UNKNOWN ARTIST"))
}

func TestLookupErrorCachedAsEmpty(t *testing.T) {
	ctx := context.Background()
	l := newLookup(nil)
	l.errs["Broken"] = errors.New("timeout")
	c := artistcache.New(nil, l.lookup, zerolog.Nop())

	assert.Equal(t, []string{}, c.Get(ctx, "Broken"))
	assert.Equal(t, []string{}, c.Get(ctx, "Broken"))
	assert.Equal(t, 1, l.count("broken"))
}

func TestCanceledLookupNotCached(t *testing.T) {
	l := newLookup(map[string][]string{"Late": {"jazz"}})
	c := artistcache.New(nil, l.lookup, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, []string{}, c.Get(ctx, "Late"))
	assert.False(t, c.Has("Late"))

	assert.Equal(t, []string{"jazz"}, c.Get(context.Background(), "Late"))
}

func TestNilLookup(t *testing.T) {
	c := artistcache.New(nil, nil, zerolog.Nop())
	assert.Equal(t, []string{}, c.Get(context.Background(), "Anyone"))
	assert.False(t, c.Has("Anyone"))
}

func TestStoreSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := artistcache.NewMemoryStore()
	l := newLookup(map[string][]string{"Björk": {"art pop", " ", "electronic"}})

	c := artistcache.New(store, l.lookup, zerolog.Nop())
	assert.Equal(t, []string{"art pop", "electronic"}, c.Get(ctx, "Björk"))

	restarted := artistcache.New(store, l.lookup, zerolog.Nop())
	assert.Equal(t, []string{"art pop", "electronic"}, restarted.Get(ctx, "björk"))
	assert.Equal(t, 1, l.count("björk"))
}

func TestStoreWriteFailure(t *testing.T) {
	ctx := context.Background()
	l := newLookup(map[string][]string{"A": {"rock"}})
	c := artistcache.New(failingStore{artistcache.NewMemoryStore()}, l.lookup, zerolog.Nop())

	assert.Equal(t, []string{"rock"}, c.Get(ctx, "A"))
	assert.Equal(t, []string{"rock"}, c.Get(ctx, "A"))
	assert.Equal(t, 1, l.count("a"))

	assert.Error(t, c.Put("B", []string{"pop"}))
	keys, err := c.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestReturnedSliceIsACopy(t *testing.T) {
	ctx := context.Background()
	c := artistcache.New(nil, nil, zerolog.Nop())
	require.NoError(t, c.Put("A", []string{"rock"}))

	got := c.Get(ctx, "A")
	got[0] = "polka"
	assert.Equal(t, []string{"rock"}, c.Get(ctx, "A"))
}

func TestConcurrentMissesShareOneLookup(t *testing.T) {
	ctx := context.Background()
	l := newLookup(map[string][]string{"Popular": {"pop"}})
	c := artistcache.New(nil, l.lookup, zerolog.Nop())

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, []string{"pop"}, c.Get(ctx, "Popular"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, l.count("popular"))
}

func TestPaceOnlyOnMiss(t *testing.T) {
	ctx := context.Background()
	l := newLookup(map[string][]string{"A": {"rock"}})
	c := artistcache.New(nil, l.lookup, zerolog.Nop())
	pace := &countingPacer{}

	c.Fetch(ctx, "A", pace)
	c.Fetch(ctx, "A", pace)
	c.Fetch(ctx, "a", pace)
	assert.Equal(t, int64(1), pace.waits.Load())
}

func TestWarm(t *testing.T) {
	ctx := context.Background()
	l := newLookup(map[string][]string{"A": {"rock"}, "B": {"pop"}})
	c := artistcache.New(artistcache.NewMemoryStore(), l.lookup, zerolog.Nop())
	require.NoError(t, c.Put("Seeded", []string{"jazz"}))
	pace := &countingPacer{}

	stats, err := c.Warm(ctx, []string{"A", "B", "Seeded", "a", "Nobody"}, pace)
	require.NoError(t, err)
	assert.Equal(t, artistcache.WarmStats{Requested: 5, Hits: 2, Fetched: 3, Empty: 1}, stats)
	assert.Equal(t, int64(3), pace.waits.Load())

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = c.Warm(canceled, []string{"C"}, pace)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEach(t *testing.T) {
	ctx := context.Background()
	store := artistcache.NewMemoryStore()
	require.NoError(t, store.PutArtistGenres("zed", "Zed", []string{"folk"}))

	c := artistcache.New(store, newLookup(map[string][]string{"Amy": {"soul"}}).lookup, zerolog.Nop())
	c.Get(ctx, "Amy")

	got := map[string][]string{}
	require.NoError(t, c.Each(func(key string, genres []string) error {
		got[key] = genres
		return nil
	}))
	assert.Equal(t, map[string][]string{"amy": {"soul"}, "zed": {"folk"}}, got)

	stop := errors.New("stop")
	err := c.Each(func(string, []string) error { return stop })
	assert.ErrorIs(t, err, stop)
}
