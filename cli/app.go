package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/amonks/genremap/artistcache"
	"github.com/amonks/genremap/config"
	"github.com/amonks/genremap/db"
	"github.com/amonks/genremap/enao"
	"github.com/amonks/genremap/limiter"
	"github.com/amonks/genremap/logging"
	"github.com/amonks/genremap/mapper"
	"github.com/amonks/genremap/readthrough"
	"github.com/amonks/genremap/spotify"
	"github.com/amonks/genremap/taxonomy"
	"github.com/rs/zerolog"
)

// app is everything a command might need, built once from config.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	db     *db.DB
	mapper *mapper.Mapper

	// pace spaces out external lookups made by bulk commands and the
	// server. Spotify's own 429 backoff is tracked separately.
	pace *limiter.Limiter

	logFile io.Closer
}

func newApp(cfg *config.Config) (*app, error) {
	log, logFile := logging.Setup(logging.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		File:      cfg.Logging.File,
		MaxSizeMB: cfg.Logging.FileMaxSizeMB,
	}, os.Stderr)

	tax, err := taxonomy.Load(cfg.Taxonomy.Path)
	if err != nil {
		return nil, err
	}

	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	lookup, err := newLookup(cfg, log)
	if err != nil {
		d.Close()
		return nil, err
	}

	m, err := mapper.New(mapper.Options{
		Taxonomy:    tax,
		ArtistStore: d,
		MatrixStore: d,
		Lookup:      lookup,
		Closer:      d,
		Log:         log,
	})
	if err != nil {
		d.Close()
		return nil, err
	}

	return &app{
		cfg:     cfg,
		log:     log,
		db:      d,
		mapper:  m,
		pace:    limiter.New("", cfg.Lookup.Pace, cfg.Lookup.Burst, log),
		logFile: logFile,
	}, nil
}

// newLookup returns the Spotify artist lookup, or nil without credentials,
// in which case uncached artists have no genres.
func newLookup(cfg *config.Config, log zerolog.Logger) (artistcache.LookupFunc, error) {
	backoff := limiter.New(cfg.Lookup.StateFile, 0, 1, log)
	if err := backoff.Load(); err != nil {
		log.Warn().Err(err).Msg("ignoring limiter state")
	}

	spo, err := spotify.New(spotify.Options{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		Limiter:      backoff,
		Timeout:      cfg.Lookup.Timeout,
		Log:          log,
	})
	if errors.Is(err, spotify.ErrNoCredentials) {
		log.Warn().Msg("no spotify credentials; only cached artists have genres")
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("error creating spotify client: %w", err)
	}
	return spo.ArtistGenres, nil
}

func (a *app) enao() *enao.Client {
	client := &http.Client{Timeout: a.cfg.Lookup.Timeout}
	pages := readthrough.New(a.cfg.Pages.CacheDir, "enao-")
	return enao.New(client, "", pages, a.log)
}

func (a *app) Close() error {
	err := a.mapper.Close()
	if cerr := a.logFile.Close(); err == nil {
		err = cerr
	}
	return err
}
