package enao_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/amonks/genremap/enao"
	"github.com/amonks/genremap/readthrough"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureServer(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	pages := map[string]string{
		"/":                         "front.html",
		"/engenremap-hardrock.html": "hardrock.html",
		"/engenremap-rb.html":       "rb.html",
	}
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		name, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		bs, err := os.ReadFile(filepath.Join("testdata", name))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(bs)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestGenreURL(t *testing.T) {
	c := enao.New(nil, "", nil, zerolog.Nop())
	assert.Equal(t, "https://everynoise.com/engenremap-hardrock.html", c.GenreURL("Hard Rock"))
	assert.Equal(t, "https://everynoise.com/engenremap-rb.html", c.GenreURL("r&b"))
	assert.Equal(t, "https://everynoise.com/engenremap-kpop.html", c.GenreURL("k-pop"))
}

func TestGenres(t *testing.T) {
	srv, _ := fixtureServer(t)
	c := enao.New(srv.Client(), srv.URL, nil, zerolog.Nop())

	genres, err := c.Genres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"pop", "hard rock", "r&b"}, genres)
}

func TestGenreArtists(t *testing.T) {
	srv, _ := fixtureServer(t)
	c := enao.New(srv.Client(), srv.URL, nil, zerolog.Nop())

	artists, err := c.GenreArtists(context.Background(), "hard rock")
	require.NoError(t, err)
	assert.Equal(t, []string{"AC/DC", "Van Halen", "Guns N' Roses"}, artists)

	_, err = c.GenreArtists(context.Background(), "polka")
	assert.Error(t, err)
}

func TestSampleArtists(t *testing.T) {
	srv, _ := fixtureServer(t)
	c := enao.New(srv.Client(), srv.URL, nil, zerolog.Nop())

	artists, err := c.SampleArtists(context.Background(), []string{"hard rock", "polka", "r&b"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"AC/DC", "Van Halen", "Usher"}, artists)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.SampleArtists(ctx, []string{"hard rock"}, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPageCache(t *testing.T) {
	srv, hits := fixtureServer(t)
	pages := readthrough.New(t.TempDir(), "enao-")
	c := enao.New(srv.Client(), srv.URL, pages, zerolog.Nop())

	for range 3 {
		artists, err := c.GenreArtists(context.Background(), "r&b")
		require.NoError(t, err)
		assert.Equal(t, []string{"Usher", "van halen"}, artists)
	}
	assert.Equal(t, int64(1), hits.Load())
}
