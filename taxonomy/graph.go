package taxonomy

import (
	"sort"
)

// A Kind is the type of a curated relationship between two genres.
type Kind int

const (
	ParentChild Kind = iota + 1
	Sibling
	NearNeighbor
)

func (k Kind) String() string {
	switch k {
	case ParentChild:
		return "parent-child"
	case Sibling:
		return "sibling"
	case NearNeighbor:
		return "near-neighbor"
	default:
		return "unknown"
	}
}

// An Entry is one row of the curated table, as authored.
type Entry struct {
	Parent        string   `yaml:"parent"`
	Subgenres     []string `yaml:"subgenres"`
	Siblings      []string `yaml:"siblings"`
	NearNeighbors []string `yaml:"near_neighbors"`
}

// Table is the curated hierarchy, keyed by genre.
type Table map[string]Entry

// Relationships are the curated links of a single genre, with every name
// resolved to its canonical id.
type Relationships struct {
	Parent        string   `json:"parent,omitempty"`
	Subgenres     []string `json:"subgenres"`
	Siblings      []string `json:"siblings"`
	NearNeighbors []string `json:"near_neighbors"`
}

// An Edge is one undirected link out of a genre.
type Edge struct {
	To   string
	Kind Kind
}

// Graph is the read-only curated genre graph. Any string is a valid node;
// genres the table never mentions simply have no edges.
type Graph struct {
	entries map[string]Relationships
	parents map[string]string
	edges   map[string][]Edge
	genres  []string
}

type edgeKey struct {
	a, b string
	kind Kind
}

// NewGraph resolves every name in table through aliases and builds the
// graph. Parent links that disagree with the parent's subgenres, dangling
// references, and cycles are all kept as authored.
func NewGraph(table Table, aliases *Aliases) *Graph {
	g := &Graph{
		entries: map[string]Relationships{},
		parents: map[string]string{},
		edges:   map[string][]Edge{},
	}

	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	vocab := map[string]struct{}{}
	seen := map[edgeKey]struct{}{}
	link := func(a, b string, kind Kind) {
		if a == "" || b == "" || a == b {
			return
		}
		if a > b {
			a, b = b, a
		}
		key := edgeKey{a, b, kind}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		g.edges[a] = append(g.edges[a], Edge{To: b, Kind: kind})
		g.edges[b] = append(g.edges[b], Edge{To: a, Kind: kind})
	}

	for _, k := range keys {
		entry := table[k]
		id := aliases.Resolve(k)
		if id == "" {
			continue
		}
		vocab[id] = struct{}{}

		rel := g.entries[id]
		if parent := aliases.Resolve(entry.Parent); parent != "" && parent != id && rel.Parent == "" {
			rel.Parent = parent
		}
		rel.Subgenres = mergeResolved(rel.Subgenres, entry.Subgenres, id, aliases)
		rel.Siblings = mergeResolved(rel.Siblings, entry.Siblings, id, aliases)
		rel.NearNeighbors = mergeResolved(rel.NearNeighbors, entry.NearNeighbors, id, aliases)
		g.entries[id] = rel
	}

	// Second pass, so merged entries contribute their final lists.
	ids := make([]string, 0, len(g.entries))
	for id := range g.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		rel := g.entries[id]
		if rel.Parent != "" {
			vocab[rel.Parent] = struct{}{}
			link(id, rel.Parent, ParentChild)
		}
		for _, sub := range rel.Subgenres {
			vocab[sub] = struct{}{}
			link(id, sub, ParentChild)
			if _, has := g.parents[sub]; !has {
				g.parents[sub] = id
			}
		}
		for _, sib := range rel.Siblings {
			vocab[sib] = struct{}{}
			link(id, sib, Sibling)
		}
		for _, near := range rel.NearNeighbors {
			vocab[near] = struct{}{}
			link(id, near, NearNeighbor)
		}
	}

	for id, edges := range g.edges {
		sort.Slice(edges, func(i, j int) bool {
			if edges[i].To != edges[j].To {
				return edges[i].To < edges[j].To
			}
			return edges[i].Kind < edges[j].Kind
		})
		g.edges[id] = edges
	}

	g.genres = make([]string, 0, len(vocab))
	for id := range vocab {
		g.genres = append(g.genres, id)
	}
	sort.Strings(g.genres)

	return g
}

func mergeResolved(into, names []string, self string, aliases *Aliases) []string {
	have := make(map[string]struct{}, len(into))
	for _, name := range into {
		have[name] = struct{}{}
	}
	for _, name := range names {
		id := aliases.Resolve(name)
		if id == "" || id == self {
			continue
		}
		if _, dup := have[id]; dup {
			continue
		}
		have[id] = struct{}{}
		into = append(into, id)
	}
	return into
}

// Relationships returns the curated links of the canonical genre id. Genres
// with no row of their own report the parent that lists them as a
// subgenre, if there is one. Unknown genres get empty collections.
func (g *Graph) Relationships(id string) Relationships {
	rel, ok := g.entries[id]
	if !ok {
		rel = Relationships{Parent: g.parents[id]}
	}
	return Relationships{
		Parent:        rel.Parent,
		Subgenres:     append([]string{}, rel.Subgenres...),
		Siblings:      append([]string{}, rel.Siblings...),
		NearNeighbors: append([]string{}, rel.NearNeighbors...),
	}
}

// Neighbors returns every edge touching id, ordered by neighbor then kind.
// A pair linked in more than one way yields one edge per kind.
func (g *Graph) Neighbors(id string) []Edge {
	return g.edges[id]
}

// Known reports whether id appears anywhere in the curated table.
func (g *Graph) Known(id string) bool {
	i := sort.SearchStrings(g.genres, id)
	return i < len(g.genres) && g.genres[i] == id
}

// Genres returns the full sorted vocabulary of the curated table.
func (g *Graph) Genres() []string {
	return append([]string{}, g.genres...)
}

// Roots returns the genres with a row of their own and no parent.
func (g *Graph) Roots() []string {
	var roots []string
	for id, rel := range g.entries {
		if rel.Parent == "" {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}
