package mapper

import (
	"fmt"
	"sort"
)

// TopTagCount is how many tags a CoverageReport ranks.
const TopTagCount = 15

type TagCount struct {
	Tag     string `json:"tag"`
	Artists int    `json:"artists"`
}

// CoverageReport summarizes how well the taxonomy and matrix cover the
// genre tags seen on cached artists.
type CoverageReport struct {
	CuratedGenres int `json:"curated_genres"`
	RootGenres    int `json:"root_genres"`

	CachedArtists        int `json:"cached_artists"`
	ArtistsWithoutGenres int `json:"artists_without_genres"`

	// Distinct raw tags, and how many of them resolve to a curated genre
	// or to a genre with learned pairs.
	UniqueTags     int `json:"unique_tags"`
	TagsInTaxonomy int `json:"tags_in_taxonomy"`
	TagsInMatrix   int `json:"tags_in_matrix"`

	MatrixGenres int `json:"matrix_genres"`
	MatrixPairs  int `json:"matrix_pairs"`

	TopTags []TagCount `json:"top_tags"`
}

// Coverage walks the artist cache and reports on its tags.
func (m *Mapper) Coverage() (CoverageReport, error) {
	matrix := m.Matrix()
	report := CoverageReport{
		CuratedGenres: len(m.tax.Graph.Genres()),
		RootGenres:    len(m.tax.Graph.Roots()),
		MatrixGenres:  len(matrix.Genres()),
		MatrixPairs:   matrix.Len(),
	}

	counts := map[string]int{}
	err := m.cache.Each(func(_ string, genres []string) error {
		report.CachedArtists++
		if len(genres) == 0 {
			report.ArtistsWithoutGenres++
		}
		seen := map[string]struct{}{}
		for _, g := range genres {
			if _, dup := seen[g]; dup {
				continue
			}
			seen[g] = struct{}{}
			counts[g]++
		}
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("error reading artist cache: %w", err)
	}

	report.UniqueTags = len(counts)
	report.TopTags = make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		id := m.tax.Resolve(tag)
		if m.tax.Graph.Known(id) {
			report.TagsInTaxonomy++
		}
		if matrix.Has(id) {
			report.TagsInMatrix++
		}
		report.TopTags = append(report.TopTags, TagCount{Tag: tag, Artists: n})
	}
	sort.Slice(report.TopTags, func(i, j int) bool {
		a, b := report.TopTags[i], report.TopTags[j]
		if a.Artists != b.Artists {
			return a.Artists > b.Artists
		}
		return a.Tag < b.Tag
	})
	if len(report.TopTags) > TopTagCount {
		report.TopTags = report.TopTags[:TopTagCount]
	}
	return report, nil
}
