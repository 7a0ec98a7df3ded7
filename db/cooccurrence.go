package db

import (
	"fmt"

	"github.com/amonks/genremap/data"
	"gorm.io/gorm"
)

// SaveCooccurrence replaces the stored co-occurrence matrix.
func (db *DB) SaveCooccurrence(pairs []data.GenrePair, occurrences []data.GenreOccurrence) error {
	return db.Transaction(func(db *gorm.DB) error {
		if err := db.Exec("delete from genre_pairs").Error; err != nil {
			return fmt.Errorf("error clearing genre pairs: %w", err)
		}
		if err := db.Exec("delete from genre_occurrences").Error; err != nil {
			return fmt.Errorf("error clearing genre occurrences: %w", err)
		}
		if len(pairs) > 0 {
			if err := db.CreateInBatches(pairs, 500).Error; err != nil {
				return fmt.Errorf("error inserting %d genre pairs: %w", len(pairs), err)
			}
		}
		if len(occurrences) > 0 {
			if err := db.CreateInBatches(occurrences, 500).Error; err != nil {
				return fmt.Errorf("error inserting %d genre occurrences: %w", len(occurrences), err)
			}
		}
		return nil
	})
}

// LoadCooccurrence returns the stored co-occurrence matrix, which is empty
// if no build was ever saved.
func (db *DB) LoadCooccurrence() ([]data.GenrePair, []data.GenreOccurrence, error) {
	var pairs []data.GenrePair
	if err := db.
		Order("genre_a, genre_b").
		Find(&pairs).
		Error; err != nil {
		return nil, nil, fmt.Errorf("error loading genre pairs: %w", err)
	}
	var occurrences []data.GenreOccurrence
	if err := db.
		Order("genre").
		Find(&occurrences).
		Error; err != nil {
		return nil, nil, fmt.Errorf("error loading genre occurrences: %w", err)
	}
	return pairs, occurrences, nil
}
