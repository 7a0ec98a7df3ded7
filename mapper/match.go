package mapper

import (
	"context"

	"github.com/amonks/genremap/distance"
)

// A Match is the distance from one of an artist's tags to a target genre.
type Match struct {
	Genre        string  `json:"genre"`
	Distance     float64 `json:"distance"`
	Relationship string  `json:"relationship"`
}

// MatchResult is the verdict for one artist and target genre.
type MatchResult struct {
	IsMatch bool `json:"is_match"`

	// The artist's tag nearest the target, as the artist carries it. Empty
	// and nil when the artist has no genres.
	BestGenre string   `json:"best_genre,omitempty"`
	Distance  *float64 `json:"distance"`

	Relationship string `json:"relationship"`
}

// MatchInfo explains how an artist relates to a target genre.
type MatchInfo struct {
	Artist       string   `json:"artist"`
	TargetGenre  string   `json:"target_genre"`
	ArtistGenres []string `json:"artist_genres"`

	// One entry per tag, nearest first; equal distances keep tag order.
	Matches   []Match `json:"matches"`
	BestMatch *Match  `json:"best_match"`

	// 1 when the artist has no genres.
	MinDistance float64 `json:"min_distance"`
}

// GetGenreMatchInfo measures every one of the artist's tags against the
// target genre.
func (m *Mapper) GetGenreMatchInfo(ctx context.Context, artist, target string) MatchInfo {
	genres := m.GetArtistGenres(ctx, artist)
	info := MatchInfo{
		Artist:       artist,
		TargetGenre:  target,
		ArtistGenres: genres,
		Matches:      make([]Match, 0, len(genres)),
		MinDistance:  1,
	}

	calc := m.calc()
	for _, g := range genres {
		dist := calc.Measure(target, g)
		info.Matches = append(info.Matches, Match{
			Genre:        g,
			Distance:     dist.Distance,
			Relationship: dist.Relationship,
		})
	}
	sortMatches(info.Matches)

	if len(info.Matches) > 0 {
		best := info.Matches[0]
		info.BestMatch = &best
		info.MinDistance = best.Distance
	}
	return info
}

// Evaluate decides whether the artist is within maxDistance of the target
// genre. An artist with no genres never matches.
func (m *Mapper) Evaluate(ctx context.Context, artist, target string, maxDistance float64) (MatchResult, error) {
	if err := checkThreshold(maxDistance); err != nil {
		return MatchResult{}, err
	}

	info := m.GetGenreMatchInfo(ctx, artist, target)
	if info.BestMatch == nil {
		m.log.Debug().Str("artist", artist).Msg("no genres; no match")
		return MatchResult{Relationship: distance.Unrelated}, nil
	}

	best := *info.BestMatch
	return MatchResult{
		IsMatch:      best.Distance <= maxDistance,
		BestGenre:    best.Genre,
		Distance:     &best.Distance,
		Relationship: best.Relationship,
	}, nil
}

// MatchesGenre reports whether the artist is within maxDistance of the
// target genre.
func (m *Mapper) MatchesGenre(ctx context.Context, artist, target string, maxDistance float64) (bool, error) {
	res, err := m.Evaluate(ctx, artist, target, maxDistance)
	if err != nil {
		return false, err
	}
	return res.IsMatch, nil
}
