package db

import (
	"fmt"
	"time"

	"github.com/amonks/genremap/data"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetArtistGenres returns the cached genres for an artist key. ok is false
// when the artist was never looked up.
func (db *DB) GetArtistGenres(key string) ([]string, bool, error) {
	var artist data.CachedArtist
	res := db.
		Where("artist_key = ?", key).
		Limit(1).
		Find(&artist)
	if res.Error != nil {
		return nil, false, fmt.Errorf("error getting cached artist '%s': %w", key, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}

	genres := []string{}
	if err := db.
		Table("cached_artist_genres").
		Where("artist_key = ?", key).
		Order("position").
		Pluck("genre", &genres).
		Error; err != nil {
		return nil, false, fmt.Errorf("error getting genres for cached artist '%s': %w", key, err)
	}
	return genres, true, nil
}

// PutArtistGenres inserts or overwrites the cache entry for an artist key.
func (db *DB) PutArtistGenres(key, name string, genres []string) error {
	if key == "" {
		return fmt.Errorf("no artist key")
	}
	return db.Transaction(func(db *gorm.DB) error {
		artist := data.CachedArtist{
			ArtistKey:  key,
			Name:       name,
			GenreCount: int64(len(genres)),
			FetchedAt:  time.Now().UTC(),
		}
		if err := db.
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&artist).
			Error; err != nil {
			return fmt.Errorf("error inserting cached artist '%s': %w", key, err)
		}

		if err := db.
			Where("artist_key = ?", key).
			Delete(&data.CachedArtistGenre{}).
			Error; err != nil {
			return fmt.Errorf("error clearing genres for cached artist '%s': %w", key, err)
		}
		if len(genres) == 0 {
			return nil
		}

		rows := make([]data.CachedArtistGenre, len(genres))
		for i, genre := range genres {
			rows[i] = data.CachedArtistGenre{ArtistKey: key, Position: int64(i), Genre: genre}
		}
		if err := db.CreateInBatches(rows, 100).Error; err != nil {
			return fmt.Errorf("error inserting %d genres for cached artist '%s': %w", len(rows), key, err)
		}
		return nil
	})
}

// EachArtistGenres calls fn for every cached artist, ordered by key.
func (db *DB) EachArtistGenres(fn func(key string, genres []string) error) error {
	var artists []data.CachedArtist
	if err := db.
		Order("artist_key").
		Find(&artists).
		Error; err != nil {
		return fmt.Errorf("error listing cached artists: %w", err)
	}

	var rows []data.CachedArtistGenre
	if err := db.
		Order("artist_key, position").
		Find(&rows).
		Error; err != nil {
		return fmt.Errorf("error listing cached artist genres: %w", err)
	}
	byArtist := make(map[string][]string, len(artists))
	for _, row := range rows {
		byArtist[row.ArtistKey] = append(byArtist[row.ArtistKey], row.Genre)
	}

	for _, artist := range artists {
		genres := byArtist[artist.ArtistKey]
		if genres == nil {
			genres = []string{}
		}
		if err := fn(artist.ArtistKey, genres); err != nil {
			return err
		}
	}
	return nil
}
