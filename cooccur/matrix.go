package cooccur

import (
	"sort"

	"github.com/amonks/genremap/data"
)

// Matrix is a symmetric table of learned affinity scores in [0, 1]. A pair
// with no entry is unknown, not unrelated. A Matrix is never modified
// after construction.
type Matrix struct {
	scores      map[string]map[string]float64
	pairs       []data.GenrePair
	occurrences map[string]int64
}

// Empty returns a matrix with no entries.
func Empty() *Matrix {
	return FromRows(nil, nil)
}

// FromRows builds a matrix from stored pair and occurrence rows. Pairs may
// be given in either order; self-pairs are ignored, scores are clamped
// into [0, 1], and a repeated pair keeps its highest score.
func FromRows(pairs []data.GenrePair, occurrences []data.GenreOccurrence) *Matrix {
	m := &Matrix{
		scores:      map[string]map[string]float64{},
		occurrences: make(map[string]int64, len(occurrences)),
	}

	byKey := map[[2]string]data.GenrePair{}
	for _, p := range pairs {
		if p.GenreA == "" || p.GenreB == "" || p.GenreA == p.GenreB {
			continue
		}
		if p.GenreA > p.GenreB {
			p.GenreA, p.GenreB = p.GenreB, p.GenreA
		}
		p.Score = min(max(p.Score, 0), 1)
		key := [2]string{p.GenreA, p.GenreB}
		if have, dup := byKey[key]; dup && have.Score >= p.Score {
			continue
		}
		byKey[key] = p
	}

	m.pairs = make([]data.GenrePair, 0, len(byKey))
	for _, p := range byKey {
		m.pairs = append(m.pairs, p)
		m.set(p.GenreA, p.GenreB, p.Score)
		m.set(p.GenreB, p.GenreA, p.Score)
	}
	sort.Slice(m.pairs, func(i, j int) bool {
		if m.pairs[i].GenreA != m.pairs[j].GenreA {
			return m.pairs[i].GenreA < m.pairs[j].GenreA
		}
		return m.pairs[i].GenreB < m.pairs[j].GenreB
	})

	for _, o := range occurrences {
		m.occurrences[o.Genre] += o.Count
	}

	return m
}

func (m *Matrix) set(a, b string, score float64) {
	row, ok := m.scores[a]
	if !ok {
		row = map[string]float64{}
		m.scores[a] = row
	}
	row[b] = score
}

// Lookup returns the learned score for a pair of canonical genres.
func (m *Matrix) Lookup(a, b string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	score, ok := m.scores[a][b]
	return score, ok
}

// Genres returns every genre with at least one learned pair, sorted.
func (m *Matrix) Genres() []string {
	if m == nil {
		return nil
	}
	genres := make([]string, 0, len(m.scores))
	for g := range m.scores {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	return genres
}

// Has reports whether g has any learned pair.
func (m *Matrix) Has(g string) bool {
	if m == nil {
		return false
	}
	_, ok := m.scores[g]
	return ok
}

// Pairs returns every learned pair, ordered by GenreA then GenreB.
func (m *Matrix) Pairs() []data.GenrePair {
	if m == nil {
		return nil
	}
	return append([]data.GenrePair{}, m.pairs...)
}

// Occurrences returns per-genre tag counts from the sample, most common
// first.
func (m *Matrix) Occurrences() []data.GenreOccurrence {
	if m == nil {
		return nil
	}
	occ := make([]data.GenreOccurrence, 0, len(m.occurrences))
	for g, c := range m.occurrences {
		occ = append(occ, data.GenreOccurrence{Genre: g, Count: c})
	}
	sort.Slice(occ, func(i, j int) bool {
		if occ[i].Count != occ[j].Count {
			return occ[i].Count > occ[j].Count
		}
		return occ[i].Genre < occ[j].Genre
	})
	return occ
}

// Len returns the number of learned pairs.
func (m *Matrix) Len() int {
	if m == nil {
		return 0
	}
	return len(m.pairs)
}
