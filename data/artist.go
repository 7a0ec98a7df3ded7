package data

import "time"

// CachedArtist is one entry of the artist genre cache: the result of a
// single external lookup for an artist, keyed by the lowercased name.
//
// An artist with GenreCount == 0 is a cached "no genres found", which is
// different from an artist that was never looked up.
//
// CachedArtists have many genres via the table cached_artist_genres.
type CachedArtist struct {
	// like "metallica"
	ArtistKey string `gorm:"primaryKey"`

	// like "Metallica", as the caller first asked for it
	Name string

	GenreCount int64
	FetchedAt  time.Time

	Genres []string `gorm:"-"`
}
