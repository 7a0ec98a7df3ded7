package data

// A CachedArtistGenre is one genre tag of a cached artist. Position
// preserves the order the external lookup returned the tags in.
type CachedArtistGenre struct {
	ArtistKey string `gorm:"primaryKey"`
	Position  int64  `gorm:"primaryKey"`
	Genre     string
}
