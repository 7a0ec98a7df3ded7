// Package spotify looks up an artist's genre tags with the Spotify Web API.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amonks/genremap/limiter"
	"github.com/amonks/genremap/request"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultAPIURL   = "https://api.spotify.com/v1"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
)

// ErrSpotify wraps every error response from the API.
var ErrSpotify = errors.New("spotify error")

// ErrNoCredentials is returned by New without a client id and secret.
var ErrNoCredentials = errors.New("no spotify credentials")

type Options struct {
	ClientID, ClientSecret string

	// Defaults to DefaultAPIURL and DefaultTokenURL.
	APIURL, TokenURL string

	// Paces every request and absorbs 429 backoffs. Defaults to no pacing.
	Limiter *limiter.Limiter

	// Base client for token and API requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Bounds each request, token fetches included. Zero means no bound.
	Timeout time.Duration

	Log zerolog.Logger
}

// Client is a Spotify client authenticated with the client-credentials
// flow. It is safe for concurrent use.
type Client struct {
	http    *http.Client
	api     string
	lim     *limiter.Limiter
	timeout time.Duration
	log     zerolog.Logger
}

// New creates a new Spotify client.
func New(opts Options) (*Client, error) {
	if opts.ClientID == "" || opts.ClientSecret == "" {
		return nil, ErrNoCredentials
	}
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.TokenURL == "" {
		opts.TokenURL = DefaultTokenURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	log := opts.Log.With().Str("component", "spotify").Logger()
	if opts.Limiter == nil {
		opts.Limiter = limiter.New("", 0, 1, log)
	}

	creds := &clientcredentials.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		TokenURL:     opts.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, opts.HTTPClient)

	return &Client{
		http:    creds.Client(ctx),
		api:     strings.TrimSuffix(opts.APIURL, "/"),
		lim:     opts.Limiter,
		timeout: opts.Timeout,
		log:     log,
	}, nil
}

// An Artist is one artist search result.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int64    `json:"popularity"`
	Followers  struct {
		Total int64 `json:"total"`
	} `json:"followers"`
}

type artistSearchResultsPage struct {
	Artists struct {
		Total int      `json:"total"`
		Items []Artist `json:"items"`
	} `json:"artists"`
}

// SearchArtists does an artist search and returns up to limit results in
// Spotify's relevance order.
//
// The request is basically,
//
//	https://api.spotify.com/v1/search?q=NAME&type=artist&limit=LIMIT
func (spo *Client) SearchArtists(ctx context.Context, name string, limit int) ([]Artist, error) {
	query := url.Values{}
	query.Set("q", name)
	query.Set("type", "artist")
	query.Set("limit", strconv.Itoa(limit))

	var results artistSearchResultsPage
	if err := spo.get(ctx, "/search", query, &results); err != nil {
		return nil, fmt.Errorf("error searching for artist '%s': %w", name, err)
	}
	return results.Artists.Items, nil
}

// ArtistGenres returns the genre tags of the artist best matching name:
// the first of the top five results whose name matches exactly, ignoring
// case, or else the top result. No results means no genres.
func (spo *Client) ArtistGenres(ctx context.Context, name string) ([]string, error) {
	artists, err := spo.SearchArtists(ctx, name, 5)
	if err != nil {
		return nil, err
	}
	if len(artists) == 0 {
		spo.log.Debug().Str("artist", name).Msg("no search results")
		return []string{}, nil
	}

	best := artists[0]
	for _, artist := range artists {
		if strings.EqualFold(artist.Name, name) {
			best = artist
			break
		}
	}
	spo.log.Debug().
		Str("artist", name).
		Str("match", best.Name).
		Strs("genres", best.Genres).
		Msg("found artist")

	if best.Genres == nil {
		return []string{}, nil
	}
	return best.Genres, nil
}

// get respects Spotify's documented semantics around its rate limiter:
// checking for a Retry-After header when it receives a 429 response. If
// get is rate limited, it won't error, but it might take a long time.
func (spo *Client) get(ctx context.Context, path string, query url.Values, into any) error {
	u := spo.api + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	for {
		if err := spo.lim.Wait(ctx); err != nil {
			return fmt.Errorf("canceled: %w", err)
		}

		retryAfter, limited, err := spo.do(ctx, u, into)
		if err != nil {
			return err
		}
		if !limited {
			return nil
		}
		if _, err := spo.lim.Backoff(retryAfter); err != nil {
			spo.log.Warn().Err(err).Msg("bad retry-after; using default backoff")
			if _, err := spo.lim.Backoff(""); err != nil {
				return err
			}
		}
	}
}

func (spo *Client) do(ctx context.Context, u string, into any) (retryAfter string, limited bool, err error) {
	if spo.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spo.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", false, fmt.Errorf("request error: %w", err)
	}
	resp, err := spo.http.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return resp.Header.Get("Retry-After"), true, nil
	}
	if err := request.Error(resp); err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrSpotify, err)
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return "", false, fmt.Errorf("decode error: %w", err)
	}
	return "", false, nil
}
