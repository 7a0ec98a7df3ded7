// Package cooccur learns genre affinity from how often two genre tags are
// carried by the same artist.
package cooccur

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/amonks/genremap/data"
	"github.com/rs/zerolog"
)

var ErrInvalidSampleSize = errors.New("invalid sample size")

// A TagSource returns the genre tags of an artist.
type TagSource interface {
	ArtistGenres(ctx context.Context, artist string) ([]string, error)
}

// TagSourceFunc adapts a function to a TagSource.
type TagSourceFunc func(ctx context.Context, artist string) ([]string, error)

func (f TagSourceFunc) ArtistGenres(ctx context.Context, artist string) ([]string, error) {
	return f(ctx, artist)
}

// A Resolver maps raw tags onto canonical genre ids.
type Resolver interface {
	Resolve(raw string) string
}

// Store persists a matrix between runs.
type Store interface {
	SaveCooccurrence(pairs []data.GenrePair, occurrences []data.GenreOccurrence) error
	LoadCooccurrence() ([]data.GenrePair, []data.GenreOccurrence, error)
}

// Stats describes one build.
type Stats struct {
	// Artists considered after applying the sample size.
	Sampled int `json:"sampled"`

	// Artists whose lookup failed.
	Skipped int `json:"skipped"`

	// Artists with at least one tag.
	Tagged int `json:"tagged"`

	// Distinct genre pairs learned.
	Pairs int `json:"pairs"`
}

// Build samples the first sampleSize artists (all of them if sampleSize is
// zero), fetches their tags from src, and counts every unordered pair of
// distinct canonical tags carried by the same artist. Pair counts are
// normalized with the Jaccard index over the genres' occurrence counts.
//
// Artists whose lookup fails are skipped. Build only fails for a negative
// sample size or a canceled context.
func Build(ctx context.Context, src TagSource, res Resolver, artists []string, sampleSize int, log zerolog.Logger) (*Matrix, Stats, error) {
	var stats Stats
	if sampleSize < 0 {
		return nil, stats, fmt.Errorf("sample size %d: %w", sampleSize, ErrInvalidSampleSize)
	}
	if sampleSize > 0 && sampleSize < len(artists) {
		artists = artists[:sampleSize]
	}
	stats.Sampled = len(artists)

	occurrences := map[string]int64{}
	counts := map[[2]string]int64{}

	for i, artist := range artists {
		if err := ctx.Err(); err != nil {
			return nil, stats, fmt.Errorf("canceled: %w", err)
		}

		raw, err := src.ArtistGenres(ctx, artist)
		if err := ctx.Err(); err != nil {
			return nil, stats, fmt.Errorf("canceled: %w", err)
		}
		if err != nil {
			stats.Skipped++
			log.Warn().Err(err).Str("artist", artist).Msg("skipping sampled artist")
			continue
		}

		tags := canonicalTags(raw, res)
		if len(tags) > 0 {
			stats.Tagged++
		}
		for j, a := range tags {
			occurrences[a]++
			for _, b := range tags[j+1:] {
				counts[[2]string{a, b}]++
			}
		}

		if (i+1)%100 == 0 {
			log.Info().Int("done", i+1).Int("of", len(artists)).Int("pairs", len(counts)).Msg("sampling artists")
		}
	}

	pairs := make([]data.GenrePair, 0, len(counts))
	for key, count := range counts {
		union := occurrences[key[0]] + occurrences[key[1]] - count
		if union <= 0 {
			continue
		}
		pairs = append(pairs, data.GenrePair{
			GenreA: key[0],
			GenreB: key[1],
			Count:  count,
			Score:  float64(count) / float64(union),
		})
	}
	stats.Pairs = len(pairs)

	occ := make([]data.GenreOccurrence, 0, len(occurrences))
	for genre, count := range occurrences {
		occ = append(occ, data.GenreOccurrence{Genre: genre, Count: count})
	}

	return FromRows(pairs, occ), stats, nil
}

// canonicalTags resolves, drops empties, and de-duplicates tags, then
// sorts them so each pair is counted under one key.
func canonicalTags(raw []string, res Resolver) []string {
	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		id := tag
		if res != nil {
			id = res.Resolve(tag)
		}
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		tags = append(tags, id)
	}
	sort.Strings(tags)
	return tags
}
