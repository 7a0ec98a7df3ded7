// Package enao reads artist lists from everynoise.com, for use as the
// sample corpus of a co-occurrence build.
package enao

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/amonks/genremap/readthrough"
	"github.com/amonks/genremap/request"
	"github.com/rs/zerolog"
)

const DefaultBaseURL = "https://everynoise.com"

// Client fetches everynoise.com pages through an on-disk page cache.
type Client struct {
	http  *http.Client
	base  string
	pages *readthrough.ReadThrough
	log   zerolog.Logger
}

// New returns a client. pages may be nil to fetch every page afresh.
func New(httpClient *http.Client, baseURL string, pages *readthrough.ReadThrough, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if pages == nil {
		pages = readthrough.New("", "")
	}
	return &Client{
		http:  httpClient,
		base:  strings.TrimSuffix(baseURL, "/"),
		pages: pages,
		log:   log.With().Str("component", "enao").Logger(),
	}
}

// GenreURL returns the address of a genre's page, like
// https://everynoise.com/engenremap-hardrock.html for "hard rock".
func (c *Client) GenreURL(genre string) string {
	var slug strings.Builder
	for _, r := range strings.ToLower(genre) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			slug.WriteRune(r)
		}
	}
	return fmt.Sprintf("%s/engenremap-%s.html", c.base, slug.String())
}

// Genres returns every genre name on the everynoise.com front page.
func (c *Client) Genres(ctx context.Context) ([]string, error) {
	return c.canvas(ctx, c.base+"/")
}

// GenreArtists returns the artists on a genre's page, in page order.
func (c *Client) GenreArtists(ctx context.Context, genre string) ([]string, error) {
	artists, err := c.canvas(ctx, c.GenreURL(genre))
	if err != nil {
		return nil, fmt.Errorf("error fetching artists for genre '%s': %w", genre, err)
	}
	return artists, nil
}

// SampleArtists collects up to perGenre artists from each genre page,
// without duplicates, in genre order. A genre whose page cannot be read is
// skipped.
func (c *Client) SampleArtists(ctx context.Context, genres []string, perGenre int) ([]string, error) {
	seen := map[string]struct{}{}
	var artists []string
	for i, genre := range genres {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("canceled: %w", err)
		}

		found, err := c.GenreArtists(ctx, genre)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("canceled: %w", ctx.Err())
			}
			c.log.Warn().Err(err).Str("genre", genre).Msg("skipping genre")
			continue
		}
		if perGenre > 0 && len(found) > perGenre {
			found = found[:perGenre]
		}
		for _, artist := range found {
			key := strings.ToLower(artist)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			artists = append(artists, artist)
		}

		c.log.Debug().
			Str("genre", genre).
			Int("found", len(found)).
			Int("total", len(artists)).
			Msgf("genre %d of %d", i+1, len(genres))
	}
	return artists, nil
}

func (c *Client) canvas(ctx context.Context, url string) ([]string, error) {
	page, hit, err := c.pages.Fetch(url, func() ([]byte, error) {
		return request.FetchPage(ctx, c.http, url)
	})
	if err != nil && page == nil {
		return nil, err
	} else if err != nil {
		c.log.Warn().Err(err).Str("url", url).Msg("error caching page")
	}
	if hit {
		c.log.Debug().Str("url", url).Msg("page cache hit")
	}
	doc, err := request.ParseHTML(url, page)
	if err != nil {
		return nil, err
	}
	return parseCanvas(doc)
}
