package data

// A GenrePair is one learned co-occurrence between two canonical genres.
// GenreA always sorts before GenreB.
type GenrePair struct {
	GenreA string `gorm:"primaryKey"`
	GenreB string `gorm:"primaryKey"`

	// How many sampled artists were tagged with both genres.
	Count int64

	// Count normalized into [0, 1].
	Score float64
}

// A GenreOccurrence counts how many sampled artists carried a genre tag,
// as of the last co-occurrence build.
type GenreOccurrence struct {
	Genre string `gorm:"primaryKey"`
	Count int64
}
