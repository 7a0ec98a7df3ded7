package mapper

import (
	"context"
	"fmt"

	"github.com/amonks/genremap/artistcache"
	"github.com/amonks/genremap/cooccur"
)

// BuildStats describes one co-occurrence rebuild.
type BuildStats struct {
	cooccur.Stats

	// Genres with at least one learned pair.
	Genres int `json:"genres"`
}

// BuildCooccurrenceMatrix replaces the co-occurrence matrix with one
// learned from the genre tags of artists, fetching uncached artists
// through the cache and waiting on pace before each lookup. With no
// artists, it samples the artists already in the cache.
//
// The new matrix is persisted before it is used. If persisting fails, the
// old matrix stays in place.
func (m *Mapper) BuildCooccurrenceMatrix(ctx context.Context, artists []string, sampleSize int, pace artistcache.Pacer) (BuildStats, error) {
	if len(artists) == 0 {
		keys, err := m.cache.Keys()
		if err != nil {
			return BuildStats{}, fmt.Errorf("error listing cached artists: %w", err)
		}
		artists = keys
	}

	src := cooccur.TagSourceFunc(func(ctx context.Context, artist string) ([]string, error) {
		return m.cache.Fetch(ctx, artist, pace), nil
	})
	matrix, stats, err := cooccur.Build(ctx, src, m.tax, artists, sampleSize, m.log)
	if err != nil {
		return BuildStats{Stats: stats}, err
	}
	out := BuildStats{Stats: stats, Genres: len(matrix.Genres())}

	if m.matrixStore != nil {
		if err := m.matrixStore.SaveCooccurrence(matrix.Pairs(), matrix.Occurrences()); err != nil {
			return out, fmt.Errorf("error saving co-occurrence matrix: %w", err)
		}
	}
	m.setMatrix(matrix)

	m.log.Info().
		Int("sampled", stats.Sampled).
		Int("tagged", stats.Tagged).
		Int("pairs", stats.Pairs).
		Int("genres", out.Genres).
		Msg("built co-occurrence matrix")
	return out, nil
}
