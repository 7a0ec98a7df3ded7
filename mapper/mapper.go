// Package mapper answers genre questions about artists: how far apart two
// genres are, which genres are near a genre, and whether an artist is
// close enough to a target genre.
//
// A Mapper ties together the curated taxonomy, the learned co-occurrence
// matrix, and the artist genre cache. It is safe for concurrent use.
package mapper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"sync/atomic"

	"github.com/amonks/genremap/artistcache"
	"github.com/amonks/genremap/cooccur"
	"github.com/amonks/genremap/distance"
	"github.com/amonks/genremap/taxonomy"
	"github.com/rs/zerolog"
)

// ErrInvalidThreshold is returned for a negative or NaN max distance.
var ErrInvalidThreshold = errors.New("invalid threshold")

type Options struct {
	// Defaults to taxonomy.Default().
	Taxonomy *taxonomy.Taxonomy

	// Where artist entries are persisted. Nil keeps them in memory.
	ArtistStore artistcache.Store

	// Where the co-occurrence matrix is persisted. Nil means the matrix
	// starts empty and is lost on exit.
	MatrixStore cooccur.Store

	// The external catalog. Nil means misses find no genres.
	Lookup artistcache.LookupFunc

	// Defaults to distance.DefaultWeights.
	Weights *distance.Weights

	// Closed by Mapper.Close.
	Closer io.Closer

	Log zerolog.Logger
}

type state struct {
	matrix *cooccur.Matrix
	calc   *distance.Calculator
}

type Mapper struct {
	tax         *taxonomy.Taxonomy
	cache       *artistcache.Cache
	matrixStore cooccur.Store
	calcOpts    []distance.Option
	closer      io.Closer
	log         zerolog.Logger

	state atomic.Pointer[state]
}

// New builds a Mapper, loading any persisted matrix.
func New(opts Options) (*Mapper, error) {
	if opts.Taxonomy == nil {
		opts.Taxonomy = taxonomy.Default()
	}
	log := opts.Log.With().Str("component", "mapper").Logger()

	m := &Mapper{
		tax:         opts.Taxonomy,
		cache:       artistcache.New(opts.ArtistStore, opts.Lookup, opts.Log),
		matrixStore: opts.MatrixStore,
		closer:      opts.Closer,
		log:         log,
	}
	if opts.Weights != nil {
		m.calcOpts = append(m.calcOpts, distance.WithWeights(*opts.Weights))
	}

	matrix := cooccur.Empty()
	if opts.MatrixStore != nil {
		pairs, occ, err := opts.MatrixStore.LoadCooccurrence()
		if err != nil {
			return nil, fmt.Errorf("error loading co-occurrence matrix: %w", err)
		}
		matrix = cooccur.FromRows(pairs, occ)
		log.Debug().Int("pairs", matrix.Len()).Msg("loaded co-occurrence matrix")
	}
	m.setMatrix(matrix)
	return m, nil
}

func (m *Mapper) setMatrix(matrix *cooccur.Matrix) {
	m.state.Store(&state{
		matrix: matrix,
		calc:   distance.New(m.tax, matrix, m.calcOpts...),
	})
}

func (m *Mapper) calc() *distance.Calculator {
	return m.state.Load().calc
}

// Taxonomy returns the curated taxonomy in use.
func (m *Mapper) Taxonomy() *taxonomy.Taxonomy { return m.tax }

// Matrix returns the current co-occurrence matrix.
func (m *Mapper) Matrix() *cooccur.Matrix { return m.state.Load().matrix }

// Cache returns the artist genre cache.
func (m *Mapper) Cache() *artistcache.Cache { return m.cache }

// CalculateGenreDistance returns the distance between two genres in
// [0, 1]. Unknown genres are 1 from everything but themselves.
func (m *Mapper) CalculateGenreDistance(a, b string) float64 {
	return m.calc().Distance(a, b)
}

// Measure is CalculateGenreDistance with the relationship and path that
// produced the distance.
func (m *Mapper) Measure(a, b string) distance.Measurement {
	return m.calc().Measure(a, b)
}

// DescribeRelationship labels the relationship between two genres.
func (m *Mapper) DescribeRelationship(a, b string) string {
	return m.calc().Describe(a, b)
}

// GetRelatedGenres returns every known genre within maxDistance of genre,
// nearest first.
func (m *Mapper) GetRelatedGenres(genre string, maxDistance float64) ([]distance.Related, error) {
	if err := checkThreshold(maxDistance); err != nil {
		return nil, err
	}
	return m.calc().Related(genre, maxDistance)
}

// GetArtistGenres returns the artist's genre tags, looking them up once on
// a miss. It never fails; no data is an empty list.
func (m *Mapper) GetArtistGenres(ctx context.Context, artist string) []string {
	return m.cache.Get(ctx, artist)
}

// Close releases the storage behind the Mapper.
func (m *Mapper) Close() error {
	if m.closer == nil {
		return nil
	}
	return m.closer.Close()
}

func checkThreshold(maxDistance float64) error {
	if math.IsNaN(maxDistance) || maxDistance < 0 {
		return fmt.Errorf("max distance %v: %w", maxDistance, ErrInvalidThreshold)
	}
	return nil
}

// sortMatches orders by distance, keeping tag order among ties.
func sortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
}
