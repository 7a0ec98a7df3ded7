// Package distance combines the curated genre graph with learned
// co-occurrence into a single distance in [0, 1].
//
// The result is the smaller of the graph distance and the co-occurrence
// distance, so it is not a metric: the triangle inequality can fail when
// one pair is linked by the curated table and the other only by the
// sample.
package distance

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/amonks/genremap/cooccur"
	"github.com/amonks/genremap/taxonomy"
)

const (
	Same         = "same"
	ParentChild  = "parent-child"
	Sibling      = "sibling"
	NearNeighbor = "near-neighbor"
	Cousin       = "cousin"
	Cooccurrence = "co-occurrence"
	Unrelated    = "unrelated"
)

var ErrInvalidDistance = errors.New("invalid distance")

// Weights are the cost of one hop along each kind of curated edge, and the
// hop limit of the graph search.
type Weights struct {
	ParentChild  float64
	Sibling      float64
	NearNeighbor float64
	MaxHops      int
}

// DefaultWeights are the stock edge costs.
var DefaultWeights = Weights{
	ParentChild:  0.2,
	Sibling:      0.3,
	NearNeighbor: 0.3,
	MaxHops:      4,
}

// A Measurement is a distance plus the relationship that produced it.
type Measurement struct {
	A, B         string
	Distance     float64
	Relationship string

	// Curated hops on the winning graph path; zero when the distance came
	// from co-occurrence or nothing was found.
	Hops int

	// The winning graph path from A to B, inclusive.
	Path []string
}

// A Related genre is one result of Calculator.Related.
type Related struct {
	Genre        string  `json:"genre"`
	Distance     float64 `json:"distance"`
	Relationship string  `json:"relationship"`
}

// Calculator measures genre distances. It is safe for concurrent use as
// long as its taxonomy and matrix are not modified.
type Calculator struct {
	tax     *taxonomy.Taxonomy
	matrix  *cooccur.Matrix
	weights Weights
	costs   map[taxonomy.Kind]int
}

// An Option configures a Calculator.
type Option func(*Calculator)

// WithWeights replaces DefaultWeights.
func WithWeights(w Weights) Option {
	return func(c *Calculator) { c.weights = w }
}

// New returns a Calculator over tax and matrix. matrix may be nil.
func New(tax *taxonomy.Taxonomy, matrix *cooccur.Matrix, opts ...Option) *Calculator {
	c := &Calculator{tax: tax, matrix: matrix, weights: DefaultWeights}
	for _, opt := range opts {
		opt(c)
	}
	if c.weights.MaxHops <= 0 {
		c.weights.MaxHops = DefaultWeights.MaxHops
	}

	// Path costs add up in thousandths so that a path and its reverse
	// sum to exactly the same value.
	c.costs = map[taxonomy.Kind]int{
		taxonomy.ParentChild:  toMillis(c.weights.ParentChild),
		taxonomy.Sibling:      toMillis(c.weights.Sibling),
		taxonomy.NearNeighbor: toMillis(c.weights.NearNeighbor),
	}
	return c
}

func toMillis(w float64) int {
	if math.IsNaN(w) || w < 0 {
		return 0
	}
	return int(math.Round(min(w, 1) * 1000))
}

// Distance returns the distance between two raw genre strings.
func (c *Calculator) Distance(a, b string) float64 {
	return c.Measure(a, b).Distance
}

// Describe returns the label of the relationship that produced the
// distance between a and b.
func (c *Calculator) Describe(a, b string) string {
	return c.Measure(a, b).Relationship
}

// Measure resolves a and b and returns their distance along with whichever
// relationship produced it. The curated path wins ties with co-occurrence.
func (c *Calculator) Measure(a, b string) Measurement {
	a, b = c.tax.Resolve(a), c.tax.Resolve(b)
	m := Measurement{A: a, B: b}
	if a == b {
		m.Distance, m.Relationship, m.Path = 0, Same, []string{a}
		return m
	}

	graph, hops, path, kind := c.graphDistance(a, b)
	m.Distance, m.Hops, m.Path = graph, hops, path
	switch {
	case hops == 1:
		m.Relationship = kind.String()
	case hops > 1:
		m.Relationship = Cousin
	}

	if score, ok := c.matrix.Lookup(a, b); ok {
		if co := 1 - min(max(score, 0), 1); co < m.Distance {
			m.Distance, m.Relationship, m.Hops, m.Path = co, Cooccurrence, 0, nil
		}
	}

	if m.Distance >= 1 {
		m.Distance, m.Relationship, m.Hops, m.Path = 1, Unrelated, 0, nil
	}
	return m
}

type step struct {
	cost int
	path []string
	kind taxonomy.Kind
}

// graphDistance finds the cheapest curated path from a to b using at most
// MaxHops edges. Each hop only expands nodes whose cost improved on the
// previous hop, so cycles in the table are never walked past the limit.
func (c *Calculator) graphDistance(a, b string) (float64, int, []string, taxonomy.Kind) {
	best := map[string]step{a: {path: []string{a}}}
	frontier := []string{a}

	for hop := 1; hop <= c.weights.MaxHops && len(frontier) > 0; hop++ {
		from := make([]step, len(frontier))
		for i, id := range frontier {
			from[i] = best[id]
		}

		improved := map[string]struct{}{}
		for i, id := range frontier {
			for _, edge := range c.tax.Graph.Neighbors(id) {
				cost := from[i].cost + c.costs[edge.Kind]
				if cost >= 1000 {
					continue
				}
				if have, seen := best[edge.To]; seen && have.cost <= cost {
					continue
				}
				path := make([]string, 0, len(from[i].path)+1)
				path = append(append(path, from[i].path...), edge.To)
				best[edge.To] = step{cost: cost, path: path, kind: edge.Kind}
				improved[edge.To] = struct{}{}
			}
		}

		frontier = frontier[:0]
		for id := range improved {
			frontier = append(frontier, id)
		}
		sort.Strings(frontier)
	}

	found, ok := best[b]
	if !ok {
		return 1, 0, nil, 0
	}
	return float64(found.cost) / 1000, len(found.path) - 1, found.path, found.kind
}

// Related returns every known genre other than g within maxDistance of it,
// nearest first, ties broken alphabetically. Known genres are the curated
// vocabulary plus every genre in the matrix.
func (c *Calculator) Related(g string, maxDistance float64) ([]Related, error) {
	if math.IsNaN(maxDistance) || maxDistance < 0 {
		return nil, fmt.Errorf("max distance %v: %w", maxDistance, ErrInvalidDistance)
	}

	id := c.tax.Resolve(g)
	candidates := map[string]struct{}{}
	for _, other := range c.tax.Graph.Genres() {
		candidates[other] = struct{}{}
	}
	for _, other := range c.matrix.Genres() {
		candidates[other] = struct{}{}
	}
	delete(candidates, id)

	related := []Related{}
	for other := range candidates {
		m := c.Measure(id, other)
		if m.Distance > maxDistance {
			continue
		}
		related = append(related, Related{Genre: other, Distance: m.Distance, Relationship: m.Relationship})
	}
	sort.Slice(related, func(i, j int) bool {
		if related[i].Distance != related[j].Distance {
			return related[i].Distance < related[j].Distance
		}
		return related[i].Genre < related[j].Genre
	})
	return related, nil
}
