package db

import (
	"fmt"
)

// Summary counts what the database holds.
type Summary struct {
	Artists           int `json:"artists"`
	ArtistsWithGenres int `json:"artists_with_genres"`
	Tags              int `json:"tags"`
	GenrePairs        int `json:"genre_pairs"`
}

func (db *DB) Summary() (Summary, error) {
	var s Summary
	var err error
	if s.Artists, err = db.count("cached_artists", ""); err != nil {
		return s, err
	}
	if s.ArtistsWithGenres, err = db.count("cached_artists", "genre_count > 0"); err != nil {
		return s, err
	}
	if s.GenrePairs, err = db.count("genre_pairs", ""); err != nil {
		return s, err
	}

	var tags int64
	if err := db.
		Table("cached_artist_genres").
		Distinct("genre").
		Count(&tags).
		Error; err != nil {
		return s, fmt.Errorf("error counting distinct tags: %w", err)
	}
	s.Tags = int(tags)
	return s, nil
}

func (db *DB) count(table, where string) (int, error) {
	var count int64
	q := db.Table(table)
	if where != "" {
		q = q.Where(where)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("error counting %s: %w", table, err)
	}
	return int(count), nil
}
