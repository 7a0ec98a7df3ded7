package distance_test

import (
	"math"
	"testing"

	"github.com/amonks/genremap/cooccur"
	"github.com/amonks/genremap/data"
	"github.com/amonks/genremap/distance"
	"github.com/amonks/genremap/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func learned() *cooccur.Matrix {
	return cooccur.FromRows([]data.GenrePair{
		{GenreA: "new wave", GenreB: "synthpop", Count: 2, Score: 1},
		{GenreA: "k-pop", GenreB: "dance pop", Count: 3, Score: 0.6},
		{GenreA: "rock", GenreB: "jazz", Count: 1, Score: 0.05},
		{GenreA: "shoegaze", GenreB: "dream pop", Count: 4, Score: 0.8},
	}, nil)
}

func TestExamples(t *testing.T) {
	calc := distance.New(taxonomy.Default(), nil)

	m := calc.Measure("rock", "hard rock")
	assert.Equal(t, 0.2, m.Distance)
	assert.Equal(t, distance.ParentChild, m.Relationship)
	assert.Equal(t, []string{"rock", "hard rock"}, m.Path)

	assert.Equal(t, 0.0, calc.Distance("rock", "rock"))
	assert.Equal(t, distance.Same, calc.Describe("rock", "Rock"))

	assert.Equal(t, 1.0, calc.Distance("rock", "k-pop"))
	assert.Equal(t, distance.Unrelated, calc.Describe("rock", "k-pop"))
}

func TestLabels(t *testing.T) {
	calc := distance.New(taxonomy.Default(), learned())

	for _, tc := range []struct {
		a, b     string
		distance float64
		label    string
	}{
		{"rock", "pop", 0.3, distance.Sibling},
		{"rock", "grunge", 0.3, distance.NearNeighbor},
		{"hard rock", "Rock", 0.2, distance.ParentChild},
		{"rock", "heavy metal", 0.4, distance.Cousin},
		{"Hip-Hop", "hip hop music", 0, distance.Same},
		{"k-pop", "dance pop", 0.4, distance.Cooccurrence},
		{"shoegaze", "jazz", 1, distance.Unrelated},
	} {
		m := calc.Measure(tc.a, tc.b)
		assert.InDelta(t, tc.distance, m.Distance, 1e-9, "%s / %s", tc.a, tc.b)
		assert.Equal(t, tc.label, m.Relationship, "%s / %s", tc.a, tc.b)
	}
}

func TestCooccurrenceOnlyShortens(t *testing.T) {
	tax := taxonomy.Default()
	graphOnly := distance.New(tax, nil)
	withMatrix := distance.New(tax, learned())

	assert.LessOrEqual(t, withMatrix.Distance("synthpop", "new wave"), graphOnly.Distance("synthpop", "new wave"))
	assert.Equal(t, 0.0, withMatrix.Distance("synthpop", "new wave"))

	// A weak learned signal never overrides a stronger curated one.
	assert.Equal(t, graphOnly.Distance("rock", "jazz"), withMatrix.Distance("rock", "jazz"))

	for _, a := range tax.Graph.Genres() {
		for _, b := range []string{"rock", "jazz", "new wave", "dance pop"} {
			assert.LessOrEqual(t, withMatrix.Distance(a, b), graphOnly.Distance(a, b))
		}
	}
}

func TestGraphWinsTies(t *testing.T) {
	tax := taxonomy.New(taxonomy.Table{
		"a": {Subgenres: []string{"b"}},
	}, nil)
	matrix := cooccur.FromRows([]data.GenrePair{{GenreA: "a", GenreB: "b", Score: 0.5}}, nil)
	calc := distance.New(tax, matrix, distance.WithWeights(distance.Weights{
		ParentChild: 0.5, Sibling: 0.3, NearNeighbor: 0.3, MaxHops: 4,
	}))
	m := calc.Measure("a", "b")
	assert.Equal(t, 0.5, m.Distance)
	assert.Equal(t, distance.ParentChild, m.Relationship)
}

func TestProperties(t *testing.T) {
	tax := taxonomy.Default()
	calc := distance.New(tax, learned())

	genres := append(tax.Graph.Genres(), "k-pop", "shoegaze", "", "  WEIRD  genre!! ")
	for _, a := range genres {
		assert.Equal(t, 0.0, calc.Distance(a, a), "reflexive: %q", a)
		for _, b := range genres {
			ab, ba := calc.Measure(a, b), calc.Measure(b, a)
			assert.Equal(t, ab.Distance, ba.Distance, "symmetric: %q %q", a, b)
			assert.Equal(t, ab.Relationship, ba.Relationship, "symmetric label: %q %q", a, b)
			assert.GreaterOrEqual(t, ab.Distance, 0.0)
			assert.LessOrEqual(t, ab.Distance, 1.0)
		}
	}
}

func TestCyclesTerminate(t *testing.T) {
	tax := taxonomy.New(taxonomy.Table{
		"a": {Parent: "b", Siblings: []string{"c"}},
		"b": {Parent: "c", Subgenres: []string{"a"}},
		"c": {Parent: "a", NearNeighbors: []string{"b"}},
		"d": {Parent: "ghost"},
	}, nil)
	calc := distance.New(tax, nil)

	assert.Equal(t, 1.0, calc.Distance("a", "isolated"))
	assert.Equal(t, 0.2, calc.Distance("a", "b"))
	assert.Equal(t, 0.2, calc.Distance("d", "ghost"))
	assert.Equal(t, 1.0, calc.Distance("a", "d"))
}

func TestHopLimit(t *testing.T) {
	tax := taxonomy.New(taxonomy.Table{
		"a": {Subgenres: []string{"b"}},
		"b": {Subgenres: []string{"c"}},
		"c": {Subgenres: []string{"d"}},
		"d": {Subgenres: []string{"e"}},
		"e": {Subgenres: []string{"f"}},
	}, nil)

	calc := distance.New(tax, nil)
	assert.InDelta(t, 0.8, calc.Distance("a", "e"), 1e-9)
	assert.Equal(t, 1.0, calc.Distance("a", "f"))

	short := distance.New(tax, nil, distance.WithWeights(distance.Weights{
		ParentChild: 0.1, Sibling: 0.3, NearNeighbor: 0.3, MaxHops: 2,
	}))
	m := short.Measure("a", "c")
	assert.InDelta(t, 0.2, m.Distance, 1e-9)
	assert.Equal(t, 2, m.Hops)
	assert.Equal(t, []string{"a", "b", "c"}, m.Path)
	assert.Equal(t, 1.0, short.Distance("a", "d"))
}

func TestCheapestPathWins(t *testing.T) {
	// a-b-d costs 0.4 over two parent links; the direct near-neighbor
	// edge costs 0.3.
	tax := taxonomy.New(taxonomy.Table{
		"a": {Subgenres: []string{"b"}, NearNeighbors: []string{"d"}},
		"b": {Subgenres: []string{"d"}},
	}, nil)
	m := distance.New(tax, nil).Measure("a", "d")
	assert.InDelta(t, 0.3, m.Distance, 1e-9)
	assert.Equal(t, distance.NearNeighbor, m.Relationship)
	assert.Equal(t, 1, m.Hops)
}

func TestRelated(t *testing.T) {
	calc := distance.New(taxonomy.Default(), learned())

	related, err := calc.Related("rock", 0.3)
	require.NoError(t, err)
	require.NotEmpty(t, related)

	for i, r := range related {
		assert.NotEqual(t, "rock", r.Genre)
		assert.LessOrEqual(t, r.Distance, 0.3)
		if i > 0 {
			prev := related[i-1]
			assert.True(t, prev.Distance < r.Distance ||
				(prev.Distance == r.Distance && prev.Genre < r.Genre), "ordering at %d", i)
		}
	}
	assert.Equal(t, distance.Related{Genre: "alternative rock", Distance: 0.2, Relationship: distance.ParentChild}, related[0])

	kpop, err := calc.Related("K-Pop", 0.5)
	require.NoError(t, err)
	assert.Equal(t, []distance.Related{{Genre: "dance pop", Distance: 1 - 0.6, Relationship: distance.Cooccurrence}}, kpop)

	none, err := calc.Related("not a genre", 0.9)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = calc.Related("rock", -0.1)
	assert.ErrorIs(t, err, distance.ErrInvalidDistance)
	_, err = calc.Related("rock", math.NaN())
	assert.ErrorIs(t, err, distance.ErrInvalidDistance)
}
